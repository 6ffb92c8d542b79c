package experiments

import (
	"fmt"
	"time"

	"mcts/experiments/metrics"
	"mcts/tictactoe"

	"github.com/rs/zerolog/log"
)

// ThroughputParams configures the throughput benchmark: self-play board
// games across a ladder of simulation budgets.
type ThroughputParams struct {
	Games       int // Per budget
	Size        int
	WinLength   int
	Budgets     []int // Simulations per move; doubling ladder when empty
	Exploration float64
	Seed        uint64
	Out         string
}

// RunThroughputExperiment measures search speed at increasing simulation
// budgets. Game outcomes are incidental here; the move records carry the
// simulation counts and durations the rates are computed from.
func RunThroughputExperiment(p ThroughputParams) error {
	budgets := p.Budgets
	if len(budgets) == 0 {
		budgets = []int{100, 200, 400, 800, 1600}
	}

	configs := make([]metrics.AgentConfig, len(budgets))
	for i, budget := range budgets {
		configs[i] = metrics.AgentConfig{
			ID:          i + 1,
			Kind:        "search",
			Simulations: budget,
			Exploration: p.Exploration,
			Seed:        p.Seed,
		}
	}

	// Store experiment metadata before the runs start
	writer, err := metrics.NewWriter(p.Out, "throughput")
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}

	log.Info().Msgf("starting throughput experiment: %d budgets, %d games each...", len(budgets), p.Games)

	count := 0
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord

	for bi, config := range configs {
		log.Info().Msgf("starting budget %d of %d (%d simulations per move)...",
			bi+1, len(configs), config.Simulations)

		var simulations, rolloutSteps int
		var searching time.Duration

		for i := 0; i < p.Games; i++ {
			// Same config on both seats for equal strength and similar
			// game length
			seed := p.Seed + uint64(bi)*1_000_000 + uint64(i)*2
			agentX := newAgent(config, seed)
			agentO := newAgent(config, seed+1)

			result, err := runBoardGame(p.Size, p.WinLength, agentX, agentO)
			if err != nil {
				return fmt.Errorf("budget %d game %d: %w", bi+1, i+1, err)
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:     count,
				Agent1: config.ID,
				Agent2: config.ID,
				GameMetric: metrics.GameMetric{
					Winner:     boardWinner(result),
					Outcome:    result.Outcomes[tictactoe.X],
					TotalMoves: len(result.Moves),
					StartTime:  result.StartTime,
					Duration:   result.Duration,
				},
			})
			for _, mm := range result.Moves {
				moveRecords = append(moveRecords, metrics.MoveRecord{Game: count, MoveMetric: mm})
				simulations += mm.Simulations
				rolloutSteps += mm.RolloutSteps
				searching += mm.Metrics.Duration
			}
		}

		if seconds := searching.Seconds(); seconds > 0 {
			log.Info().Msgf("completed budget %d: %.0f simulations/s, %.0f rollout steps/s",
				config.Simulations, float64(simulations)/seconds, float64(rolloutSteps)/seconds)
		}
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Msgf("stored results under %s", writer.Dir())

	return nil
}
