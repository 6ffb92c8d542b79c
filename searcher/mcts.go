package searcher

import (
	"errors"
	"fmt"
	"time"

	"mcts/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// ErrRolloutOverrun reports a random playout that exceeded the step
// cap. Well-behaved environments terminate every playout; the cap only
// turns a livelock into a diagnosable failure.
var ErrRolloutOverrun = errors.New("rollout exceeded the step cap")

// DefaultMaxRolloutSteps is generous: both bundled environments finish
// playouts within tens of steps.
const DefaultMaxRolloutSteps = 10000

type Option func(m *MCTS)

// MCTS runs single-threaded Monte Carlo tree search: a fresh tree per
// call, UCB1 selection, uniform-random expansion and rollouts, and
// mover-identity backpropagation.
type MCTS struct {
	simulations int
	exploration float64
	maxRollout  int
	rng         *rand.Rand
	metrics     Collector
}

// WithExploration sets the UCB1 exploration weight used while the tree
// is built. The final answer is always extracted at weight 0.
func WithExploration(weight float64) Option {
	return func(m *MCTS) {
		if weight >= 0 {
			m.exploration = weight
		}
	}
}

// WithRand injects the randomness source for expansion choices and
// rollout moves. Fix the seed to make searches reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithSeed is shorthand for WithRand over a fixed seed.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMaxRolloutSteps(steps int) Option {
	return func(m *MCTS) {
		if steps > 0 {
			m.maxRollout = steps
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewCollector()
	}
}

func NewMCTS(simulations int, options ...Option) *MCTS {
	if simulations < 0 {
		panic("simulation budget cannot be negative")
	}
	m := &MCTS{ // Default values
		simulations: simulations,
		exploration: DefaultExploration,
		maxRollout:  DefaultMaxRolloutSteps,
		metrics:     NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// FindAction searches from state and returns the action whose subtree
// earned the best mean reward. It returns game.NoAction, without error,
// when no decision is available: the state is already terminal, or the
// simulation budget is zero. Contract violations by the environment
// abort the search and propagate.
func (m *MCTS) FindAction(state game.State) (game.Action, Metrics, error) {
	m.metrics.Start()

	root := newNode(state.Clone(), nil, game.NoAction)
	for i := 0; i < m.simulations; i++ {
		if err := m.simulate(root); err != nil {
			return game.NoAction, m.metrics.Complete(), fmt.Errorf("simulation %d: %w", i+1, err)
		}
		m.metrics.AddSimulation()
	}
	metric := m.metrics.Complete()

	best := root.bestChild(0)
	if best == nil { // Terminal root or zero budget: nothing to decide
		return game.NoAction, metric, nil
	}

	log.Debug().Msgf("search done: action=%d visits=%d/%d duration=%s",
		best.action, best.visits, root.visits, metric.Duration)
	return best.action, metric, nil
}

// simulate runs one search episode: descend to a leaf, expand it, play
// out at random, then push the outcome back up the path.
func (m *MCTS) simulate(root *node) error {
	node := root
	for !node.terminal && node.fullyExpanded() && len(node.children) > 0 {
		node = node.bestChild(m.exploration)
	}

	if !node.terminal {
		child, err := node.expand(m.rng)
		if err != nil {
			return err
		}
		m.metrics.AddExpansion()
		node = child
	}

	reward, err := m.rollout(node)
	if err != nil {
		return err
	}

	backpropagate(node, reward, node.player)
	return nil
}

// rollout plays uniformly random actions from the node's state until
// the game ends, then scores the outcome from the perspective of the
// mover at the rollout's origin. No tree nodes are created. A node that
// is itself terminal reads its reward directly.
func (m *MCTS) rollout(n *node) (float64, error) {
	origin := n.player
	if n.terminal {
		m.metrics.AddTerminalVisit()
		return n.state.RolloutReward(origin)
	}

	state := n.state
	for step := 1; ; step++ {
		actions := state.LegalActions()
		if len(actions) == 0 {
			// The environment broke its contract: a live state must have moves
			return 0, fmt.Errorf("rollout stuck at step %d: %w", step, game.ErrNotTerminal)
		}
		action := actions[m.rng.Intn(len(actions))] // Random rollout policy

		next, err := state.Apply(action)
		if err != nil {
			return 0, fmt.Errorf("rollout step %d: %w", step, err)
		}
		state = next
		m.metrics.AddRolloutStep()

		if state.IsTerminal() {
			m.metrics.AddFullRollout()
			return state.RolloutReward(origin)
		}
		if step >= m.maxRollout {
			return 0, fmt.Errorf("rollout passed %d steps: %w", m.maxRollout, ErrRolloutOverrun)
		}
	}
}

// backpropagate pushes one simulation outcome up to the root. The
// reward arrives from the origin mover's perspective; each node on the
// path credits it as a gain when its own mover matches and as a loss
// otherwise (zero-sum). Single-agent games have one mover everywhere,
// so rewards accumulate unchanged through the same path.
func backpropagate(n *node, reward float64, origin game.Player) {
	for ; n != nil; n = n.parent {
		n.visits++
		if n.player == origin {
			n.rewards += reward
		} else {
			n.rewards -= reward
		}
	}
}
