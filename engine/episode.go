package engine

import (
	"fmt"
	"time"

	"mcts/experiments/metrics"
	"mcts/game"

	"github.com/rs/zerolog/log"
)

// Episode plays one game from State to completion.
type Episode struct {
	State  game.State
	Agents map[game.Player]Agent
}

// Result is a finished episode. Outcomes holds each agent player's
// terminal reward, resolved exactly once (the card game rolls the
// dealer's hand during resolution). Outcomes stays empty when an agent
// stopped early with game.NoAction before the game ended.
type Result struct {
	Final     game.State
	Outcomes  map[game.Player]float64
	Moves     []metrics.MoveMetric
	StartTime time.Time
	Duration  time.Duration
}

// Run loops until the environment reports a terminal state, an agent
// returns game.NoAction, or MaxMoves is reached. Agent and environment
// errors abort the episode and propagate.
func (e *Episode) Run() (Result, error) {
	state := e.State
	start := time.Now()
	log.Debug().Msgf("player %d is starting", state.Player())

	var moves []metrics.MoveMetric
	for step := 1; !state.IsTerminal(); step++ {
		if step > MaxMoves {
			return Result{}, fmt.Errorf("episode passed %d moves without finishing", MaxMoves)
		}

		player := state.Player()
		agent, ok := e.Agents[player]
		if !ok {
			return Result{}, fmt.Errorf("move %d: no agent for player %d", step, player)
		}

		action, search, err := agent.FindAction(state)
		if err != nil {
			return Result{}, fmt.Errorf("move %d (player %d): %w", step, player, err)
		}
		if action == game.NoAction { // Agent sees no decision: stop acting
			break
		}

		next, err := state.Apply(action)
		if err != nil {
			return Result{}, fmt.Errorf("move %d (player %d) action %d: %w", step, player, action, err)
		}

		moves = append(moves, metrics.MoveMetric{
			Step:    step,
			Player:  player,
			Action:  action,
			Metrics: search,
		})
		state = next
	}

	outcomes := make(map[game.Player]float64, len(e.Agents))
	if state.IsTerminal() {
		for player := range e.Agents {
			reward, err := state.RolloutReward(player)
			if err != nil {
				return Result{}, fmt.Errorf("resolving outcome for player %d: %w", player, err)
			}
			outcomes[player] = reward
		}
	}

	return Result{
		Final:     state,
		Outcomes:  outcomes,
		Moves:     moves,
		StartTime: start,
		Duration:  time.Since(start),
	}, nil
}
