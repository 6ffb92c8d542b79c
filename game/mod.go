package game

import "errors"

// Player identifies a mover. Environments declare their own constants
// (the board game's X and O, the card game's gambler); NoPlayer marks
// the absence of one, such as a drawn game.
type Player int8

const NoPlayer Player = 0

// Action indexes into an environment's action space.
type Action int

// NoAction is returned by the searcher when no decision is available:
// the root was terminal, or the simulation budget was zero. It is never
// a legal action. Harnesses must stop acting on the environment when
// they receive it.
const NoAction Action = -1

// Contract violations. Environments return these, wrapped, when a
// caller misuses a state; the searcher aborts and propagates them
// unchanged rather than retrying.
var (
	ErrInvalidAction = errors.New("action is not legal in this state")
	ErrTerminalState = errors.New("state is terminal")
	ErrNotTerminal   = errors.New("state is not terminal")
)

// State is everything the searcher needs from an environment. States
// are immutable - Apply always returns a new copy and never mutates the
// receiver, so tree nodes can hold snapshots safely.
type State interface {
	// Player reports whose turn it is. Terminal states keep reporting
	// the mover who ended the game; backpropagation compares mover
	// identities and relies on this.
	Player() Player

	// LegalActions lists the playable actions, empty iff the game is
	// over. The caller owns the returned slice.
	LegalActions() []Action

	// IsTerminal reports whether the game is over. Derivable from the
	// state alone.
	IsTerminal() bool

	// Apply plays an action and returns the successor state. It fails
	// with ErrTerminalState on a finished game and ErrInvalidAction on
	// an action outside LegalActions.
	Apply(action Action) (State, error)

	// RolloutReward resolves a finished game to -1, 0 or +1 from the
	// given player's perspective. It fails with ErrNotTerminal on a
	// live state. May be stochastic: the card game plays out the
	// dealer's hand here, so resolve each episode exactly once.
	RolloutReward(perspective Player) (float64, error)

	// Clone returns a deep copy whose observable fields never change
	// when the original (or any state derived from it) is played on.
	Clone() State
}
