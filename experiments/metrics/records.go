// Package metrics defines the records experiments persist and the
// writers that store them as CSV and Parquet.
package metrics

import (
	"time"

	"mcts/game"
	"mcts/searcher"
)

// AgentConfig describes one agent configuration under evaluation.
type AgentConfig struct {
	ID          int
	Kind        string // "search" or "random"
	Simulations int
	Exploration float64
	Seed        uint64
}

// GameMetric summarizes one finished episode.
type GameMetric struct {
	Winner     game.Player // game.NoPlayer for draws and single-seat games
	Outcome    float64     // Terminal reward of the agent in the first seat
	TotalMoves int
	StartTime  time.Time
	Duration   time.Duration
}

// MoveMetric is one move's search statistics.
type MoveMetric struct {
	Step   int
	Player game.Player
	Action game.Action
	searcher.Metrics
}

// GameRecord ties a finished episode to the agents that played it.
// Agent1 holds the first-moving seat (X on the board, the gambler at
// the card table); Agent2 is zero when the environment has one seat.
type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	GameMetric
}

// MoveRecord ties a move to its episode.
type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
