// Package experiments evaluates agent configurations over batches of
// episodes and stores records, summaries and charts for each run.
package experiments

import (
	"fmt"
	"path/filepath"
	"time"

	"mcts/blackjack"
	"mcts/engine"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
	"mcts/tictactoe"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// BoardParams configures a board experiment: the searcher against
// itself and against a random baseline on one board geometry.
type BoardParams struct {
	Games       int // Per matchup
	Size        int
	WinLength   int
	Simulations int
	Exploration float64
	Seed        uint64
	Out         string
}

// CardParams configures a card experiment: one searcher configuration
// over a batch of freshly dealt hands.
type CardParams struct {
	Games       int
	Simulations int
	Exploration float64
	Seed        uint64
	Out         string
}

// RunBoardExperiment plays every matchup for BoardParams.Games games,
// alternating which agent opens as X so neither side benefits from
// always moving first.
func RunBoardExperiment(p BoardParams) error {
	searchConfig := metrics.AgentConfig{
		ID:          1,
		Kind:        "search",
		Simulations: p.Simulations,
		Exploration: p.Exploration,
		Seed:        p.Seed,
	}
	randomConfig := metrics.AgentConfig{ID: 2, Kind: "random", Seed: p.Seed}
	configs := []metrics.AgentConfig{searchConfig, randomConfig}
	matchups := [][2]metrics.AgentConfig{
		{searchConfig, searchConfig},
		{searchConfig, randomConfig},
	}

	name := fmt.Sprintf("board_%dx%d_win%d", p.Size, p.Size, p.WinLength)
	log.Info().Msgf("starting %s experiment...", name)

	count := 0
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	var chartSeries []Series

	for mi, matchup := range matchups {
		label := fmt.Sprintf("%s vs %s", matchup[0].Kind, matchup[1].Kind)
		log.Info().Msgf("starting matchup %d of %d (%s)...", mi+1, len(matchups), label)

		var outcomes, moves []float64
		var durations []time.Duration
		rates := make([]float64, 0, p.Games)
		wins := 0

		for i := 0; i < p.Games; i++ {
			// Each game draws fresh agents on its own seeds so any game
			// can be replayed in isolation
			seed := p.Seed + uint64(mi)*1_000_000 + uint64(i)*2
			first := newAgent(matchup[0], seed)
			second := newAgent(matchup[1], seed+1)

			agentX, agentO := first, second
			configX, configO := matchup[0], matchup[1]
			if i%2 == 1 { // Alternate the opener
				agentX, agentO = second, first
				configX, configO = matchup[1], matchup[0]
			}

			result, err := runBoardGame(p.Size, p.WinLength, agentX, agentO)
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:     count,
				Agent1: configX.ID,
				Agent2: configO.ID,
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
			}

			// Track the matchup's first config across the alternation
			seat := tictactoe.X
			if i%2 == 1 {
				seat = tictactoe.O
			}
			outcome := result.Outcomes[seat]
			outcomes = append(outcomes, outcome)
			moves = append(moves, float64(len(result.Moves)))
			durations = append(durations, result.Duration)
			if outcome > 0 {
				wins++
			}
			rates = append(rates, float64(wins)/float64(i+1))
		}

		summary := Summarize(outcomes, moves, durations)
		log.Info().Msgf("completed matchup %s: %d wins, %d draws, %d losses (win rate %.2f in [%.2f, %.2f])",
			label, summary.Wins, summary.Draws, summary.Losses,
			summary.WinRate, summary.WinRateLow, summary.WinRateHigh)
		chartSeries = append(chartSeries, Series{Name: label, Values: rates})
	}

	return storeResults(p.Out, name, configs, gameRecords, moveRecords, chartSeries)
}

// RunCardExperiment plays a batch of freshly dealt hands, one searcher
// decision per move, and tallies wins, pushes and losses.
func RunCardExperiment(p CardParams) error {
	config := metrics.AgentConfig{
		ID:          1,
		Kind:        "search",
		Simulations: p.Simulations,
		Exploration: p.Exploration,
		Seed:        p.Seed,
	}

	log.Info().Msgf("starting card experiment: %d hands at %d simulations each...", p.Games, p.Simulations)

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	var outcomes, moves []float64
	var durations []time.Duration
	rates := make([]float64, 0, p.Games)
	wins := 0

	for i := 0; i < p.Games; i++ {
		// The hand, the searcher and the dealer all draw from one seeded
		// stream, so a hand replays exactly from its seed
		rng := rand.New(rand.NewSource(p.Seed + uint64(i)))
		state := blackjack.Deal(rng)
		agent := engine.NewSearchAgent(searcher.NewMCTS(
			p.Simulations,
			searcher.WithExploration(p.Exploration),
			searcher.WithRand(rng),
			searcher.WithMetrics(),
		))

		episode := &engine.Episode{
			State:  state,
			Agents: map[game.Player]engine.Agent{blackjack.Gambler: agent},
		}
		result, err := episode.Run()
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}

		outcome := result.Outcomes[blackjack.Gambler]
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:     i + 1,
			Agent1: config.ID,
			GameMetric: metrics.GameMetric{
				Outcome:    outcome,
				TotalMoves: len(result.Moves),
				StartTime:  result.StartTime,
				Duration:   result.Duration,
			},
		})
		for _, mm := range result.Moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: i + 1, MoveMetric: mm})
		}

		outcomes = append(outcomes, outcome)
		moves = append(moves, float64(len(result.Moves)))
		durations = append(durations, result.Duration)
		if outcome > 0 {
			wins++
		}
		rates = append(rates, float64(wins)/float64(i+1))
	}

	summary := Summarize(outcomes, moves, durations)
	log.Info().Msgf("completed card experiment: %d wins, %d pushes, %d losses (win rate %.2f in [%.2f, %.2f])",
		summary.Wins, summary.Draws, summary.Losses,
		summary.WinRate, summary.WinRateLow, summary.WinRateHigh)

	series := []Series{{Name: "search", Values: rates}}
	return storeResults(p.Out, "card", []metrics.AgentConfig{config}, gameRecords, moveRecords, series)
}

func newAgent(config metrics.AgentConfig, seed uint64) engine.Agent {
	switch config.Kind {
	case "random":
		return engine.NewRandomAgent(rand.New(rand.NewSource(seed)))
	default:
		return engine.NewSearchAgent(searcher.NewMCTS(
			config.Simulations,
			searcher.WithExploration(config.Exploration),
			searcher.WithSeed(seed),
			searcher.WithMetrics(),
		))
	}
}

func runBoardGame(size, winLength int, agentX, agentO engine.Agent) (engine.Result, error) {
	state, err := tictactoe.New(size, winLength)
	if err != nil {
		return engine.Result{}, err
	}
	episode := &engine.Episode{
		State: state,
		Agents: map[game.Player]engine.Agent{
			tictactoe.X: agentX,
			tictactoe.O: agentO,
		},
	}
	return episode.Run()
}

func boardWinner(result engine.Result) game.Player {
	switch {
	case result.Outcomes[tictactoe.X] > 0:
		return tictactoe.X
	case result.Outcomes[tictactoe.O] > 0:
		return tictactoe.O
	default:
		return game.NoPlayer
	}
}

// storeResults writes every artifact of a finished experiment into a
// fresh timestamped run directory.
func storeResults(out, name string, configs []metrics.AgentConfig,
	gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord, series []Series) error {
	writer, err := metrics.NewWriter(out, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Msg("stored move records")

	if err := writer.WriteGameArchive(gameRecords); err != nil {
		return fmt.Errorf("failed to store game archive: %w", err)
	}
	log.Info().Msg("stored game archive")

	chartPath := filepath.Join(writer.Dir(), "win_rates.html")
	if err := WinRateChart(chartPath, name, series); err != nil {
		return fmt.Errorf("failed to store win rate chart: %w", err)
	}
	log.Info().Msgf("stored results under %s", writer.Dir())

	return nil
}
