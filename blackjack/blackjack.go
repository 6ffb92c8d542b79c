// Package blackjack implements the single-player card game against a
// dealer on a fixed threshold policy. The state is the classic triple:
// player total, dealer's visible card, usable-ace flag.
package blackjack

import (
	"fmt"

	"mcts/game"

	"golang.org/x/exp/rand"
)

// Gambler is the game's only decision maker; the dealer never chooses.
const Gambler game.Player = 1

const (
	Stand game.Action = 0
	Hit   game.Action = 1
)

// DealerThreshold is the total at which the dealer stops drawing.
const DealerThreshold = 17

// State is one hand in progress. Construct with Deal or NewHand; the
// zero value is not playable. Methods treat the receiver as immutable.
// Clones share the draw stream: independence means observable fields,
// not card order.
type State struct {
	total      int
	dealerCard int
	usableAce  bool
	stood      bool
	rng        *rand.Rand
}

// Deal starts a fresh hand: two cards for the player, one visible card
// for the dealer. The RNG drives every later draw, the dealer's
// included; fix its seed for reproducible hands.
func Deal(rng *rand.Rand) *State {
	total, usable := 0, false
	total, usable = addCard(total, usable, drawCard(rng))
	total, usable = addCard(total, usable, drawCard(rng))
	return &State{
		total:      total,
		dealerCard: drawCard(rng),
		usableAce:  usable,
		rng:        rng,
	}
}

// NewHand builds a specific live hand, mostly for harnesses and tests.
func NewHand(total, dealerCard int, usableAce bool, rng *rand.Rand) (*State, error) {
	if total < 2 || total > 21 {
		return nil, fmt.Errorf("player total %d: must be between 2 and 21", total)
	}
	if dealerCard < 1 || dealerCard > 10 {
		return nil, fmt.Errorf("dealer card %d: must be between 1 and 10", dealerCard)
	}
	return &State{total: total, dealerCard: dealerCard, usableAce: usableAce, rng: rng}, nil
}

func (s *State) Total() int { return s.total }

func (s *State) DealerCard() int { return s.dealerCard }

func (s *State) UsableAce() bool { return s.usableAce }

func (s *State) Stood() bool { return s.stood }

func (s *State) Player() game.Player { return Gambler }

// IsTerminal reports whether the hand is over: the player stood or
// busted.
func (s *State) IsTerminal() bool {
	return s.stood || s.total > 21
}

func (s *State) LegalActions() []game.Action {
	if s.IsTerminal() {
		return nil
	}
	return []game.Action{Stand, Hit}
}

func (s *State) Apply(action game.Action) (game.State, error) {
	if s.IsTerminal() {
		return nil, fmt.Errorf("acting on a finished hand: %w", game.ErrTerminalState)
	}
	switch action {
	case Stand:
		next := *s
		next.stood = true
		return &next, nil
	case Hit:
		next := *s
		next.total, next.usableAce = addCard(next.total, next.usableAce, drawCard(s.rng))
		return &next, nil
	default:
		return nil, fmt.Errorf("action %d: %w", action, game.ErrInvalidAction)
	}
}

// RolloutReward scores a finished hand: -1 on a bust, otherwise the
// dealer draws from the visible card until reaching the threshold and
// the totals are compared (+1 win, 0 push, -1 loss). The dealer's hand
// is random, so resolve each episode exactly once. The game has one
// decision maker; the perspective argument exists for interface
// symmetry.
func (s *State) RolloutReward(perspective game.Player) (float64, error) {
	if !s.IsTerminal() {
		return 0, fmt.Errorf("scoring an unfinished hand: %w", game.ErrNotTerminal)
	}
	if s.total > 21 {
		return -1, nil
	}

	dealer, usable := addCard(0, false, s.dealerCard)
	for dealer < DealerThreshold {
		dealer, usable = addCard(dealer, usable, drawCard(s.rng))
	}

	switch {
	case dealer > 21 || s.total > dealer:
		return 1, nil
	case s.total == dealer:
		return 0, nil
	default:
		return -1, nil
	}
}

func (s *State) Clone() game.State {
	next := *s
	return &next
}

func (s *State) String() string {
	soft := ""
	if s.usableAce {
		soft = " (soft)"
	}
	return fmt.Sprintf("player %d%s vs dealer %d", s.total, soft, s.dealerCard)
}

// drawCard returns a uniform card value: ranks above 10 count 10, so
// tens weigh four times as much as any other value.
func drawCard(rng *rand.Rand) int {
	card := rng.Intn(13) + 1
	if card > 10 {
		card = 10
	}
	return card
}

// addCard folds one card into a running total. An ace counts 11 while
// that fits under 21; a bust with a usable ace converts it back to 1.
func addCard(total int, usableAce bool, card int) (int, bool) {
	if card == 1 && total+11 <= 21 {
		return total + 11, true
	}
	total += card
	if total > 21 && usableAce {
		return total - 10, false
	}
	return total, usableAce
}
