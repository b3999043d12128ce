package engine

import (
	"math"

	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/model"
)

// Recommendation labels, ordered from best to worst.
const (
	LabelEliteValue = "ELITE VALUE"
	LabelStrongBet  = "STRONG BET"
	LabelGoodBet    = "GOOD BET"
	LabelValueLean  = "VALUE LEAN"
	LabelWatch      = "WATCH"
	LabelSkip       = "SKIP"

	lowDataSuffix     = " ⚠ Low Data"
	lowDataThreshold  = 0.40
	eliteCoverageGate = 0.60
)

// Classify maps the composite score, data coverage and trap flag onto a
// recommendation label and confidence bucket.
func Classify(finalScore int, coverage float64, isTrap bool, trapReason string) (string, model.ConfidenceLevel) {
	if isTrap {
		return "BLOCKED: " + trapReason, model.ConfidenceBlocked
	}

	var label string
	var level model.ConfidenceLevel
	switch {
	case finalScore >= 75 && coverage >= eliteCoverageGate:
		label, level = LabelEliteValue, model.ConfidenceElite
	case finalScore >= 60:
		label, level = LabelStrongBet, model.ConfidenceVeryHigh
	case finalScore >= 45:
		label, level = LabelGoodBet, model.ConfidenceHigh
	case finalScore >= 30:
		label, level = LabelValueLean, model.ConfidenceMedium
	case finalScore >= 18:
		label, level = LabelWatch, model.ConfidenceLow
	default:
		label, level = LabelSkip, model.ConfidenceVeryLow
	}

	if coverage < lowDataThreshold {
		label += lowDataSuffix
	}
	return label, level
}

// Kelly computes the stake fraction for a positive-edge price, clipped to
// [0, cap]. Negative-edge picks stake zero.
func Kelly(cfg config.Config, prob, odds float64) float64 {
	if odds <= 1 {
		return 0
	}
	b := odds - 1
	k := (prob*b - (1 - prob)) / b
	return math.Max(0, math.Min(cfg.KellyCap, k))
}
