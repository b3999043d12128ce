package engine

import (
	"math"

	"github.com/pitchquant/pitchquant/internal/model"
)

// histRate derives the historical rate for a blend family from both teams'
// intelligence rows, as a fraction in [0,1]. Intelligence rates are stored
// as percentages.
func histRate(family model.BlendFamily, home, away *model.TeamIntelligence) (float64, bool) {
	if home == nil || away == nil {
		return 0, false
	}
	switch family {
	case model.BlendBTTS:
		return (home.HomeBTTSRate + away.AwayBTTSRate) / 2 / 100, true
	case model.BlendOver25:
		return (home.HomeOver25Rate + away.AwayOver25Rate) / 2 / 100, true
	}
	return 0, false
}

// BlendProb mixes the Monte Carlo probability with the historical rate for
// supported markets. The historical weight is min(confidence)/200, capping
// history at half the blend. Blending always operates on the canonical
// (yes/over) side and derives the complement as 1-p, so complementary
// markets sum to exactly one after blending.
//
// Unsupported markets return the Monte Carlo probability unchanged.
func BlendProb(market model.MarketType, mc model.MonteCarloResult, home, away *model.TeamIntelligence) float64 {
	family, complement := market.Blendable()
	if family == model.BlendNone {
		return market.Prob(mc)
	}

	canonical := model.MarketBTTSYes
	if family == model.BlendOver25 {
		canonical = model.MarketOver25
	}
	prob := canonical.Prob(mc)

	if hist, ok := histRate(family, home, away); ok {
		conf := math.Min(home.ConfidenceOverall, away.ConfidenceOverall)
		conf = math.Max(0, math.Min(100, conf))
		wHist := conf / 200
		prob = (1-wHist)*prob + wHist*hist
	}

	if complement {
		return 1 - prob
	}
	return prob
}

// Edge is the model probability minus the bookmaker-implied probability.
func Edge(prob, odds float64) float64 {
	return prob - 1/odds
}
