// Package tictactoe implements the N-in-a-row board environment: the
// classic 3x3 game by default, generalized over board size and the run
// length needed to win.
package tictactoe

import (
	"fmt"
	"strings"

	"mcts/game"
)

const (
	X game.Player = 1
	O game.Player = -1
)

// State is a board position. Construct with New; the zero value is not
// playable. All methods treat the receiver as immutable.
type State struct {
	size      int
	winLength int
	cells     []game.Player
	player    game.Player
	winner    game.Player
	marks     int
}

// New returns an empty board. X always opens. The standard game is
// New(3, 3); the large variant is New(5, 5).
func New(size, winLength int) (*State, error) {
	if size < 1 {
		return nil, fmt.Errorf("board size %d: must be at least 1", size)
	}
	if winLength < 1 || winLength > size {
		return nil, fmt.Errorf("win length %d: must be between 1 and board size %d", winLength, size)
	}
	return &State{
		size:      size,
		winLength: winLength,
		cells:     make([]game.Player, size*size),
		player:    X,
	}, nil
}

func (s *State) Size() int { return s.size }

func (s *State) WinLength() int { return s.winLength }

// Winner returns X or O once someone aligned enough marks, and
// game.NoPlayer while the game runs or after a draw.
func (s *State) Winner() game.Player { return s.winner }

// Player reports the mover whose turn it is. Once the game ends it
// keeps reporting the mover who placed the final mark.
func (s *State) Player() game.Player { return s.player }

func (s *State) IsTerminal() bool {
	return s.winner != game.NoPlayer || s.marks == len(s.cells)
}

// LegalActions lists the open cells in row-major order. Cell (r, c) is
// action r*size + c.
func (s *State) LegalActions() []game.Action {
	if s.IsTerminal() {
		return nil
	}
	actions := make([]game.Action, 0, len(s.cells)-s.marks)
	for i, mark := range s.cells {
		if mark == game.NoPlayer {
			actions = append(actions, game.Action(i))
		}
	}
	return actions
}

func (s *State) Apply(action game.Action) (game.State, error) {
	if s.IsTerminal() {
		return nil, fmt.Errorf("playing cell %d on a finished game: %w", action, game.ErrTerminalState)
	}
	i := int(action)
	if i < 0 || i >= len(s.cells) || s.cells[i] != game.NoPlayer {
		return nil, fmt.Errorf("playing cell %d: %w", action, game.ErrInvalidAction)
	}

	next := s.clone()
	next.cells[i] = s.player
	next.marks++
	if next.winsAt(i) {
		next.winner = s.player
	} else if next.marks < len(next.cells) {
		next.player = -s.player // Turn passes only while the game runs
	}
	return next, nil
}

func (s *State) RolloutReward(perspective game.Player) (float64, error) {
	if !s.IsTerminal() {
		return 0, fmt.Errorf("scoring a live game: %w", game.ErrNotTerminal)
	}
	switch s.winner {
	case game.NoPlayer:
		return 0, nil
	case perspective:
		return 1, nil
	default:
		return -1, nil
	}
}

func (s *State) Clone() game.State {
	return s.clone()
}

func (s *State) clone() *State {
	next := *s
	next.cells = make([]game.Player, len(s.cells))
	copy(next.cells, s.cells)
	return &next
}

// The four alignment directions; each is scanned both ways from the
// last mark placed.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (s *State) winsAt(i int) bool {
	row, col := i/s.size, i%s.size
	mark := s.cells[i]
	for _, d := range directions {
		run := 1 + s.runFrom(row, col, d[0], d[1], mark) + s.runFrom(row, col, -d[0], -d[1], mark)
		if run >= s.winLength {
			return true
		}
	}
	return false
}

func (s *State) runFrom(row, col, dr, dc int, mark game.Player) int {
	run := 0
	for {
		row += dr
		col += dc
		if row < 0 || row >= s.size || col < 0 || col >= s.size || s.cells[row*s.size+col] != mark {
			return run
		}
		run++
	}
}

// String renders the board without color, for logs.
func (s *State) String() string {
	var b strings.Builder
	for row := 0; row < s.size; row++ {
		for col := 0; col < s.size; col++ {
			switch s.cells[row*s.size+col] {
			case X:
				b.WriteByte('X')
			case O:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		if row < s.size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
