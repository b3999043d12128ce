package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/pitchquant/pitchquant/internal/model"
)

// Simulator draws independent Poisson score pairs and tallies per-market
// probabilities. Not safe for concurrent use; the pipeline creates one per
// fixture.
type Simulator struct {
	n   int
	rng *rand.Rand
}

// NewSimulator builds an unseeded simulator for production use.
func NewSimulator(n int) *Simulator {
	return NewSeededSimulator(n, time.Now().UnixNano())
}

// NewSeededSimulator builds a deterministic simulator for tests.
func NewSeededSimulator(n int, seed int64) *Simulator {
	return &Simulator{n: n, rng: rand.New(rand.NewSource(seed))}
}

// poisson samples a Poisson variate. Knuth's product method below λ=30,
// normal approximation above (match xG never gets near that after clipping,
// but the sampler stays general).
func (s *Simulator) poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda < 30 {
		limit := math.Exp(-lambda)
		k := 0
		p := 1.0
		for p > limit {
			k++
			p *= s.rng.Float64()
		}
		return k - 1
	}
	v := int(math.Round(lambda + math.Sqrt(lambda)*s.rng.NormFloat64()))
	if v < 0 {
		return 0
	}
	return v
}

// Run simulates the fixture and tallies outcome frequencies. The confidence
// score is one minus the coefficient of variation of total goals, clipped
// to [0,1]: tighter total-goal distributions read as higher confidence.
func (s *Simulator) Run(homeXG, awayXG float64) model.MonteCarloResult {
	var (
		homeWins, draws, awayWins int
		over15, over25, over35    int
		btts, csHome, csAway      int
		sumTotal, sumTotalSq      float64
	)

	for i := 0; i < s.n; i++ {
		h := s.poisson(homeXG)
		a := s.poisson(awayXG)

		switch {
		case h > a:
			homeWins++
		case h == a:
			draws++
		default:
			awayWins++
		}

		total := h + a
		if total > 1 {
			over15++
		}
		if total > 2 {
			over25++
		}
		if total > 3 {
			over35++
		}
		if h >= 1 && a >= 1 {
			btts++
		}
		if a == 0 {
			csHome++
		}
		if h == 0 {
			csAway++
		}

		ft := float64(total)
		sumTotal += ft
		sumTotalSq += ft * ft
	}

	n := float64(s.n)
	mean := sumTotal / n
	variance := sumTotalSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	confidence := 0.0
	if mean > 0 {
		confidence = 1.0 - math.Sqrt(variance)/mean
	}
	confidence = math.Max(0, math.Min(1, confidence))

	return model.MonteCarloResult{
		HomeWinProb:        float64(homeWins) / n,
		DrawProb:           float64(draws) / n,
		AwayWinProb:        float64(awayWins) / n,
		Over15Prob:         float64(over15) / n,
		Over25Prob:         float64(over25) / n,
		Over35Prob:         float64(over35) / n,
		BTTSProb:           float64(btts) / n,
		CleanSheetHomeProb: float64(csHome) / n,
		CleanSheetAwayProb: float64(csAway) / n,
		ConfidenceScore:    confidence,
		NSimulations:       s.n,
	}
}
