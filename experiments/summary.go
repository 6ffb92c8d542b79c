package experiments

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary reduces a batch of episodes to the headline numbers reported
// at the end of an experiment.
type Summary struct {
	Episodes     int
	Wins         int
	Draws        int
	Losses       int
	WinRate      float64
	WinRateLow   float64 // 95% normal-approximation interval
	WinRateHigh  float64
	MeanMoves    float64
	StdDevMoves  float64
	MeanDuration time.Duration
}

// Summarize takes per-episode outcomes (-1, 0 or +1 for the tracked
// agent), game lengths and wall-clock durations, one entry per episode.
func Summarize(outcomes, moves []float64, durations []time.Duration) Summary {
	s := Summary{Episodes: len(outcomes)}
	if s.Episodes == 0 {
		return s
	}

	for _, outcome := range outcomes {
		switch {
		case outcome > 0:
			s.Wins++
		case outcome < 0:
			s.Losses++
		default:
			s.Draws++
		}
	}
	n := float64(s.Episodes)
	s.WinRate = float64(s.Wins) / n

	// Normal approximation to the binomial for the 95% interval
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	margin := z * math.Sqrt(s.WinRate*(1-s.WinRate)/n)
	s.WinRateLow = math.Max(0, s.WinRate-margin)
	s.WinRateHigh = math.Min(1, s.WinRate+margin)

	s.MeanMoves = stat.Mean(moves, nil)
	if len(moves) > 1 {
		s.StdDevMoves = stat.StdDev(moves, nil)
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	s.MeanDuration = total / time.Duration(s.Episodes)

	return s
}
