package searcher

import "math"

// Hyperparameters for MCTS

// DefaultExploration suits the single-agent card game; the adversarial
// board experiments run 1.4. Extraction of the final answer always uses
// weight 0 (pure exploitation).
const DefaultExploration = 1.0

const (
	Win  = 1.0  // Reward for a winning outcome
	Loss = -Win // Reward for a losing outcome
	Draw = 0.0  // Reward for a drawn outcome
)

// ucb1Numerator precomputes the part of the exploration bonus shared by
// all siblings: weight^2 * 2 * ln(parentVisits).
func ucb1Numerator(exploration float64, parentVisits int) float64 {
	if parentVisits == 0 {
		panic("cannot select from an unvisited parent")
	}
	return exploration * exploration * 2 * math.Log(float64(parentVisits))
}

// ucb1 scores a child for selection: mean reward plus an exploration
// bonus that grows with parent visits and shrinks with child visits.
// Unvisited children score +Inf so they always win selection.
func ucb1(rewards float64, visits int, numerator float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}

	n := float64(visits)
	// UCB1 = q/n + sqrt(w^2 * 2*ln(N) / n)
	return rewards/n + math.Sqrt(numerator/n)
}
