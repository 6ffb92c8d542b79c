package searcher

import "time"

// Metrics summarizes one FindAction call. The search is single-threaded
// so counters are plain ints.
type Metrics struct {
	StartTime      time.Time
	Duration       time.Duration
	Simulations    int
	Expansions     int
	RolloutSteps   int
	FullRollouts   int // Rollouts that reached a terminal state
	TerminalVisits int // Simulations that landed on an already-terminal node
}

// Collector accumulates search statistics. The dummy implementation is
// the default; WithMetrics installs a counting one.
type Collector interface {
	Start()
	AddSimulation()
	AddExpansion()
	AddRolloutStep()
	AddFullRollout()
	AddTerminalVisit()
	Complete() Metrics
}

type collector struct {
	startTime      time.Time
	simulations    int
	expansions     int
	rolloutSteps   int
	fullRollouts   int
	terminalVisits int
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	*c = collector{startTime: time.Now()}
}

func (c *collector) AddSimulation() {
	c.simulations++
}

func (c *collector) AddExpansion() {
	c.expansions++
}

func (c *collector) AddRolloutStep() {
	c.rolloutSteps++
}

func (c *collector) AddFullRollout() {
	c.fullRollouts++
}

func (c *collector) AddTerminalVisit() {
	c.terminalVisits++
}

func (c *collector) Complete() Metrics {
	return Metrics{
		StartTime:      c.startTime,
		Duration:       time.Since(c.startTime),
		Simulations:    c.simulations,
		Expansions:     c.expansions,
		RolloutSteps:   c.rolloutSteps,
		FullRollouts:   c.fullRollouts,
		TerminalVisits: c.terminalVisits,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (dummyCollector) Start()            {}
func (dummyCollector) AddSimulation()    {}
func (dummyCollector) AddExpansion()     {}
func (dummyCollector) AddRolloutStep()   {}
func (dummyCollector) AddFullRollout()   {}
func (dummyCollector) AddTerminalVisit() {}
func (dummyCollector) Complete() Metrics { return Metrics{} }
