// Package engine plays environments to completion by routing each
// position to the agent responsible for its mover.
package engine

import (
	"mcts/game"
	"mcts/searcher"
)

// MaxMoves guards episodes against environments that stop making
// progress.
const MaxMoves = 10000

// Agent produces one action for the mover of the given state. Returning
// game.NoAction means the agent sees no decision to make; the episode
// stops acting on the environment.
type Agent interface {
	FindAction(state game.State) (game.Action, searcher.Metrics, error)
}
