package searcher

import (
	"testing"

	"mcts/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// mockState is a scripted game tree. Apply follows prebuilt edges, so a
// test lays out exactly the positions the searcher may visit. States in
// the tree are never mutated, so Clone can return the receiver.
type mockState struct {
	player    game.Player
	actions   []game.Action
	terminal  bool
	rewards   map[game.Player]float64
	children  map[game.Action]*mockState
	rewardErr error
}

func (m *mockState) Player() game.Player { return m.player }

func (m *mockState) LegalActions() []game.Action {
	return append([]game.Action(nil), m.actions...)
}

func (m *mockState) IsTerminal() bool { return m.terminal }

func (m *mockState) Apply(action game.Action) (game.State, error) {
	child, ok := m.children[action]
	if !ok {
		return nil, game.ErrInvalidAction
	}
	return child, nil
}

func (m *mockState) RolloutReward(perspective game.Player) (float64, error) {
	if m.rewardErr != nil {
		return 0, m.rewardErr
	}
	if !m.terminal {
		return 0, game.ErrNotTerminal
	}
	return m.rewards[perspective], nil
}

func (m *mockState) Clone() game.State { return m }

// winFor builds a terminal position won by the given mover.
func winFor(player game.Player) *mockState {
	return &mockState{
		player:   player,
		terminal: true,
		rewards:  map[game.Player]float64{player: Win, -player: Loss},
	}
}

func TestNewNode(t *testing.T) {
	t.Run("live state snapshots its legal actions", func(t *testing.T) {
		state := &mockState{
			player:  1,
			actions: []game.Action{0, 1, 2},
			children: map[game.Action]*mockState{
				0: winFor(1), 1: winFor(1), 2: winFor(1),
			},
		}

		n := newNode(state, nil, game.NoAction)

		require.Equal(t, []game.Action{0, 1, 2}, n.untried, "Node should hold every legal action as untried")
		require.Empty(t, n.children, "Node should start without children")
		require.False(t, n.terminal, "Node should not be terminal")
		require.Equal(t, game.Player(1), n.player, "Node should record the state's mover")
	})

	t.Run("terminal state yields a leaf with nothing to try", func(t *testing.T) {
		n := newNode(winFor(1), nil, game.Action(4))

		require.True(t, n.terminal, "Node should be terminal")
		require.Empty(t, n.untried, "Terminal node should have no untried actions")
		require.True(t, n.fullyExpanded(), "Terminal node should count as fully expanded")
		require.Equal(t, game.Action(4), n.action, "Node should record its incoming action")
	})
}

func TestExpand(t *testing.T) {
	t.Run("expanding adds one child and consumes one untried action", func(t *testing.T) {
		state := &mockState{
			player:  1,
			actions: []game.Action{0, 1, 2},
			children: map[game.Action]*mockState{
				0: winFor(1), 1: winFor(1), 2: winFor(1),
			},
		}
		n := newNode(state, nil, game.NoAction)
		rng := rand.New(rand.NewSource(1))

		child, err := n.expand(rng)

		require.NoError(t, err, "Expansion should succeed")
		require.Len(t, n.untried, 2, "Expansion should consume one untried action")
		require.Len(t, n.children, 1, "Expansion should add one child")
		require.Equal(t, n, child.parent, "Child should point back to its parent")
		require.Equal(t, child, n.children[child.action], "Child should be reachable by its incoming action")
		require.NotContains(t, n.untried, child.action, "Expanded action should leave the untried list")
	})

	t.Run("untried actions and children never overlap", func(t *testing.T) {
		all := []game.Action{0, 1, 2, 3}
		state := &mockState{
			player:  1,
			actions: all,
			children: map[game.Action]*mockState{
				0: winFor(1), 1: winFor(1), 2: winFor(1), 3: winFor(1),
			},
		}
		n := newNode(state, nil, game.NoAction)
		rng := rand.New(rand.NewSource(7))

		for i := range all {
			_, err := n.expand(rng)
			require.NoError(t, err, "Expansion should succeed")

			require.Len(t, n.untried, len(all)-i-1, "One action should move out per expansion")
			require.Len(t, n.children, i+1, "One child should be added per expansion")
			for _, action := range n.untried {
				require.NotContains(t, n.tried, action, "Untried actions and children should stay disjoint")
			}
		}
		require.True(t, n.fullyExpanded(), "Node should be fully expanded after trying everything")
	})

	t.Run("expanding a terminal node fails", func(t *testing.T) {
		n := newNode(winFor(1), nil, game.NoAction)

		child, err := n.expand(rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, ErrNoUntriedActions, "Terminal node should refuse expansion")
		require.Nil(t, child, "Failed expansion should return no child")
	})

	t.Run("expanding a fully expanded node fails", func(t *testing.T) {
		state := &mockState{
			player:   1,
			actions:  []game.Action{0},
			children: map[game.Action]*mockState{0: winFor(1)},
		}
		n := newNode(state, nil, game.NoAction)
		rng := rand.New(rand.NewSource(1))
		_, err := n.expand(rng)
		require.NoError(t, err, "First expansion should succeed")

		child, err := n.expand(rng)

		require.ErrorIs(t, err, ErrNoUntriedActions, "Fully expanded node should refuse expansion")
		require.Nil(t, child, "Failed expansion should return no child")
	})

	t.Run("an environment error during expansion propagates", func(t *testing.T) {
		// Action 5 is reported legal but has no edge, so Apply rejects it
		state := &mockState{player: 1, actions: []game.Action{5}}
		n := newNode(state, nil, game.NoAction)

		child, err := n.expand(rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, game.ErrInvalidAction, "Apply failure should propagate")
		require.Nil(t, child, "Failed expansion should return no child")
	})
}

func TestBestChild(t *testing.T) {
	t.Run("no children yields nil", func(t *testing.T) {
		state := &mockState{player: 1, actions: []game.Action{0}}
		n := newNode(state, nil, game.NoAction)
		n.visits = 1

		require.Nil(t, n.bestChild(0), "Childless node should yield no best child")
	})

	t.Run("unvisited child always wins selection", func(t *testing.T) {
		strong := &node{rewards: 10, visits: 10}
		fresh := &node{}
		n := &node{
			children: map[game.Action]*node{0: strong, 1: fresh},
			tried:    []game.Action{0, 1},
			visits:   10,
		}

		require.Equal(t, fresh, n.bestChild(1), "Unvisited child should win selection")
	})

	t.Run("weight zero picks the best mean reward", func(t *testing.T) {
		better := &node{rewards: 3, visits: 10}
		worse := &node{rewards: 5, visits: 100}
		n := &node{
			children: map[game.Action]*node{0: worse, 1: better},
			tried:    []game.Action{0, 1},
			visits:   110,
		}

		require.Equal(t, better, n.bestChild(0), "Extraction should pick the best mean, not the most visits")
	})

	t.Run("a turn change reads child means from the chooser's side", func(t *testing.T) {
		// Child stats sit in the child mover's frame: the move after
		// which the opponent does worst is the best move here
		opponentThrives := &node{player: 2, rewards: 8, visits: 10}
		opponentSuffers := &node{player: 2, rewards: -8, visits: 10}
		n := &node{
			player:   1,
			children: map[game.Action]*node{0: opponentThrives, 1: opponentSuffers},
			tried:    []game.Action{0, 1},
			visits:   20,
		}

		require.Equal(t, opponentSuffers, n.bestChild(0), "Chooser should pick the move that hurts the opponent")
	})

	t.Run("a terminal child keeps its winner's frame", func(t *testing.T) {
		// The mover freezes when a game ends, so an immediate win stays
		// positive for the chooser while continuations are negated
		immediateWin := &node{player: 1, rewards: 10, visits: 10, terminal: true}
		continuation := &node{player: 2, rewards: 9, visits: 10}
		n := &node{
			player:   1,
			children: map[game.Action]*node{4: immediateWin, 5: continuation},
			tried:    []game.Action{5, 4},
			visits:   20,
		}

		require.Equal(t, immediateWin, n.bestChild(0), "An immediate win should beat a continuation the opponent likes")
	})

	t.Run("exploration bonus lifts a lightly visited child", func(t *testing.T) {
		exploited := &node{rewards: 60, visits: 100}
		neglected := &node{rewards: 0.5, visits: 1}
		n := &node{
			children: map[game.Action]*node{0: exploited, 1: neglected},
			tried:    []game.Action{0, 1},
			visits:   101,
		}

		require.Equal(t, exploited, n.bestChild(0), "Pure exploitation should stay on the better mean")
		require.Equal(t, neglected, n.bestChild(2), "A heavy weight should favor the barely tried child")
	})

	t.Run("ties break toward the earliest expanded child", func(t *testing.T) {
		first := &node{rewards: 1, visits: 2}
		second := &node{rewards: 1, visits: 2}
		n := &node{
			children: map[game.Action]*node{7: second, 3: first},
			tried:    []game.Action{3, 7},
			visits:   4,
		}

		require.Equal(t, first, n.bestChild(1), "Equal scores should keep the first expanded child")
	})

	t.Run("selection from an unvisited parent panics", func(t *testing.T) {
		n := &node{
			children: map[game.Action]*node{0: {}},
			tried:    []game.Action{0},
		}

		require.Panics(t, func() { n.bestChild(1) }, "Selecting from an unvisited parent should panic")
	})
}
