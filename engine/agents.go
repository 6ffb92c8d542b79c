package engine

import (
	"mcts/game"
	"mcts/searcher"

	"golang.org/x/exp/rand"
)

// SearchAgent drives moves with Monte Carlo tree search.
type SearchAgent struct {
	mcts *searcher.MCTS
}

func NewSearchAgent(mcts *searcher.MCTS) *SearchAgent {
	return &SearchAgent{mcts: mcts}
}

func (a *SearchAgent) FindAction(state game.State) (game.Action, searcher.Metrics, error) {
	return a.mcts.FindAction(state)
}

// RandomAgent plays a uniformly random legal action: the baseline
// opponent in experiments.
type RandomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

func (a *RandomAgent) FindAction(state game.State) (game.Action, searcher.Metrics, error) {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.NoAction, searcher.Metrics{}, nil
	}
	return actions[a.rng.Intn(len(actions))], searcher.Metrics{}, nil
}
