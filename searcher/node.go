package searcher

import (
	"errors"
	"fmt"
	"math"

	"mcts/game"

	"golang.org/x/exp/rand"
)

// ErrNoUntriedActions reports an expansion request on a node with
// nothing left to expand: the node is terminal or fully expanded.
var ErrNoUntriedActions = errors.New("node has no untried actions")

// node is one position in the search tree. The state snapshot is never
// mutated after construction. Statistics are kept from the perspective
// of the mover recorded at construction; selection converts them into
// the chooser's perspective, so a move that helps the opponent scores
// low for the player picking it.
type node struct {
	state    game.State
	parent   *node
	action   game.Action // Move that produced this node, NoAction at the root
	player   game.Player
	children map[game.Action]*node
	tried    []game.Action // Expansion order; drives deterministic tie-breaking
	untried  []game.Action
	rewards  float64
	visits   int
	terminal bool
}

func newNode(state game.State, parent *node, action game.Action) *node {
	n := &node{
		state:    state,
		parent:   parent,
		action:   action,
		player:   state.Player(),
		children: map[game.Action]*node{},
		terminal: state.IsTerminal(),
	}
	if !n.terminal {
		n.untried = state.LegalActions()
	}
	return n
}

// fullyExpanded reports whether every legal action has been turned into
// a child. Terminal nodes are trivially fully expanded.
func (n *node) fullyExpanded() bool {
	return len(n.untried) == 0
}

// expand plays one untried action, chosen uniformly at random, and
// attaches the resulting child. The action moves from the untried list
// to the children map, so the two never overlap.
func (n *node) expand(rng *rand.Rand) (*node, error) {
	if n.terminal {
		return nil, fmt.Errorf("expanding a terminal node: %w", ErrNoUntriedActions)
	}
	if len(n.untried) == 0 {
		return nil, fmt.Errorf("expanding a fully expanded node: %w", ErrNoUntriedActions)
	}

	i := rng.Intn(len(n.untried))
	action := n.untried[i]
	n.untried[i] = n.untried[len(n.untried)-1]
	n.untried = n.untried[:len(n.untried)-1]

	state, err := n.state.Apply(action)
	if err != nil {
		return nil, fmt.Errorf("expanding with action %d: %w", action, err)
	}

	child := newNode(state, n, action)
	n.children[action] = child
	n.tried = append(n.tried, action)
	return child, nil
}

// bestChild returns the child with the highest UCB1 score at the given
// exploration weight, breaking ties toward the earliest expanded child.
// Returns nil when the node has no children. Each child stores rewards
// from its own mover's perspective, so the mean is negated when that
// mover is not the one choosing here (zero-sum turn change); a terminal
// child keeps the mover who ended the game and needs no flip.
func (n *node) bestChild(exploration float64) *node {
	if len(n.tried) == 0 {
		return nil
	}
	if n.visits == 0 {
		panic("node has children but no visits")
	}
	numerator := ucb1Numerator(exploration, n.visits)

	var best *node
	maxScore := math.Inf(-1)
	for _, action := range n.tried {
		child := n.children[action]
		rewards := child.rewards
		if child.player != n.player {
			rewards = -rewards
		}
		score := ucb1(rewards, child.visits, numerator)
		if score == math.Inf(1) {
			return child
		}
		if score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}
