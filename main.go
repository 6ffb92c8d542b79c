package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"mcts/engine"
	"mcts/experiments"
	"mcts/game"
	"mcts/searcher"
	"mcts/tictactoe"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode        string
	games       int
	simulations int
	exploration float64
	size        int
	winLength   int
	seed        uint64
	out         string
	verbose     bool
}

func main() {
	cfg := parseFlags()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var err error
	switch cfg.mode {
	case "board":
		err = experiments.RunBoardExperiment(experiments.BoardParams{
			Games:       cfg.games,
			Size:        cfg.size,
			WinLength:   cfg.winLength,
			Simulations: cfg.simulations,
			Exploration: cfg.exploration,
			Seed:        cfg.seed,
			Out:         cfg.out,
		})
	case "card":
		err = experiments.RunCardExperiment(experiments.CardParams{
			Games:       cfg.games,
			Simulations: cfg.simulations,
			Exploration: cfg.exploration,
			Seed:        cfg.seed,
			Out:         cfg.out,
		})
	case "throughput":
		err = experiments.RunThroughputExperiment(experiments.ThroughputParams{
			Games:       cfg.games,
			Size:        cfg.size,
			WinLength:   cfg.winLength,
			Exploration: cfg.exploration,
			Seed:        cfg.seed,
			Out:         cfg.out,
		})
	case "play":
		err = playBoard(cfg)
	default:
		err = fmt.Errorf("unknown mode %q (want board, card, throughput or play)", cfg.mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func parseFlags() config {
	mode := flag.String("mode", "board", "What to run: board, card or throughput experiment, or play against the searcher")
	games := flag.Int("games", 100, "Number of games per matchup")
	simulations := flag.Int("simulations", 500, "Number of simulations per move")
	exploration := flag.Float64("exploration", searcher.DefaultExploration, "UCB1 exploration weight")
	size := flag.Int("size", 3, "Board size")
	winLength := flag.Int("win", 3, "Marks in a row needed to win")
	seed := flag.Uint64("seed", 1, "Base seed for all randomness")
	out := flag.String("out", "results", "Directory for experiment results")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	return config{
		mode:        *mode,
		games:       *games,
		simulations: *simulations,
		exploration: *exploration,
		size:        *size,
		winLength:   *winLength,
		seed:        *seed,
		out:         *out,
		verbose:     *verbose,
	}
}

// playBoard runs a console game: the human opens as X, the searcher
// answers as O.
func playBoard(cfg config) error {
	state, err := tictactoe.New(cfg.size, cfg.winLength)
	if err != nil {
		return err
	}

	agent := engine.NewSearchAgent(searcher.NewMCTS(
		cfg.simulations,
		searcher.WithExploration(cfg.exploration),
		searcher.WithSeed(cfg.seed),
	))

	scanner := bufio.NewScanner(os.Stdin)
	current := game.State(state)
	for !current.IsTerminal() {
		board := current.(*tictactoe.State)
		var action game.Action

		if board.Player() == tictactoe.X {
			fmt.Println(board.Render())
			action, err = readMove(scanner, board)
			if err != nil {
				return err
			}
		} else {
			action, _, err = agent.FindAction(current)
			if err != nil {
				return err
			}
			fmt.Printf("Searcher plays %d\n", action)
		}

		current, err = current.Apply(action)
		if err != nil {
			return err
		}
	}

	board := current.(*tictactoe.State)
	fmt.Println(board.Render())
	switch board.Winner() {
	case tictactoe.X:
		fmt.Println("You win!")
	case tictactoe.O:
		fmt.Println("Searcher wins!")
	default:
		fmt.Println("Draw.")
	}
	return nil
}

// readMove prompts until the human enters the index of an open cell.
func readMove(scanner *bufio.Scanner, board *tictactoe.State) (game.Action, error) {
	legal := make(map[game.Action]bool)
	for _, action := range board.LegalActions() {
		legal[action] = true
	}

	for {
		fmt.Print("Your move (cell index): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return game.NoAction, err
			}
			return game.NoAction, fmt.Errorf("input closed")
		}
		cell, err := strconv.Atoi(scanner.Text())
		if err != nil || !legal[game.Action(cell)] {
			fmt.Println("Not an open cell, try again.")
			continue
		}
		return game.Action(cell), nil
	}
}
