package model

// MarketType enumerates the betting markets the pipeline evaluates.
type MarketType string

const (
	MarketHome           MarketType = "home"
	MarketDraw           MarketType = "draw"
	MarketAway           MarketType = "away"
	MarketDC1X           MarketType = "dc_1x"
	MarketDCX2           MarketType = "dc_x2"
	MarketDC12           MarketType = "dc_12"
	MarketDNBHome        MarketType = "dnb_home"
	MarketDNBAway        MarketType = "dnb_away"
	MarketOver15         MarketType = "over_15"
	MarketUnder15        MarketType = "under_15"
	MarketOver25         MarketType = "over_25"
	MarketUnder25        MarketType = "under_25"
	MarketOver35         MarketType = "over_35"
	MarketUnder35        MarketType = "under_35"
	MarketBTTSYes        MarketType = "btts_yes"
	MarketBTTSNo         MarketType = "btts_no"
	MarketCleanSheetHome MarketType = "clean_sheet_home"
	MarketCleanSheetAway MarketType = "clean_sheet_away"
)

var knownMarkets = map[MarketType]struct{}{
	MarketHome: {}, MarketDraw: {}, MarketAway: {},
	MarketDC1X: {}, MarketDCX2: {}, MarketDC12: {},
	MarketDNBHome: {}, MarketDNBAway: {},
	MarketOver15: {}, MarketUnder15: {},
	MarketOver25: {}, MarketUnder25: {},
	MarketOver35: {}, MarketUnder35: {},
	MarketBTTSYes: {}, MarketBTTSNo: {},
	MarketCleanSheetHome: {}, MarketCleanSheetAway: {},
}

// Known reports whether the market type is part of the consumed enumeration.
func (m MarketType) Known() bool {
	_, ok := knownMarkets[m]
	return ok
}

// MarketSide expresses which side of the fixture a market favors.
type MarketSide int

const (
	SideNeutral MarketSide = iota // totals, btts: neither team favored
	SideHome
	SideAway
	SideDraw
)

// Side returns the fixture side a market backs. Double-chance markets count
// for the covered team; dc_12 is goal-agnostic and treated as neutral.
func (m MarketType) Side() MarketSide {
	switch m {
	case MarketHome, MarketDC1X, MarketDNBHome, MarketCleanSheetHome:
		return SideHome
	case MarketAway, MarketDCX2, MarketDNBAway, MarketCleanSheetAway:
		return SideAway
	case MarketDraw:
		return SideDraw
	}
	return SideNeutral
}

// GoalLean expresses whether a market profits from goals, from their
// absence, or neither.
type GoalLean int

const (
	LeanNone GoalLean = iota
	LeanGoals
	LeanNoGoals
)

// Lean classifies the market's goal appetite. Win and double-chance markets
// carry no lean; clean sheets and unders want quiet games.
func (m MarketType) Lean() GoalLean {
	switch m {
	case MarketOver15, MarketOver25, MarketOver35, MarketBTTSYes:
		return LeanGoals
	case MarketUnder15, MarketUnder25, MarketUnder35, MarketBTTSNo,
		MarketCleanSheetHome, MarketCleanSheetAway:
		return LeanNoGoals
	}
	return LeanNone
}

// Prob derives the market's probability from a Monte Carlo result.
func (m MarketType) Prob(mc MonteCarloResult) float64 {
	switch m {
	case MarketHome:
		return mc.HomeWinProb
	case MarketDraw:
		return mc.DrawProb
	case MarketAway:
		return mc.AwayWinProb
	case MarketDC1X:
		return mc.HomeWinProb + mc.DrawProb
	case MarketDCX2:
		return mc.AwayWinProb + mc.DrawProb
	case MarketDC12:
		return mc.HomeWinProb + mc.AwayWinProb
	case MarketDNBHome:
		if d := mc.HomeWinProb + mc.AwayWinProb; d > 0 {
			return mc.HomeWinProb / d
		}
		return 0.5
	case MarketDNBAway:
		if d := mc.HomeWinProb + mc.AwayWinProb; d > 0 {
			return mc.AwayWinProb / d
		}
		return 0.5
	case MarketOver15:
		return mc.Over15Prob
	case MarketUnder15:
		return 1 - mc.Over15Prob
	case MarketOver25:
		return mc.Over25Prob
	case MarketUnder25:
		return 1 - mc.Over25Prob
	case MarketOver35:
		return mc.Over35Prob
	case MarketUnder35:
		return 1 - mc.Over35Prob
	case MarketBTTSYes:
		return mc.BTTSProb
	case MarketBTTSNo:
		return 1 - mc.BTTSProb
	case MarketCleanSheetHome:
		return mc.CleanSheetHomeProb
	case MarketCleanSheetAway:
		return mc.CleanSheetAwayProb
	}
	return 0
}

// BlendFamily names a market family the hybrid blender supports. Blending is
// applied to the canonical (yes/over) side; complements derive as 1 - prob.
type BlendFamily int

const (
	BlendNone BlendFamily = iota
	BlendBTTS
	BlendOver25
)

// Blendable returns the market's blend family and whether the market is the
// complement (no/under) side of it.
func (m MarketType) Blendable() (BlendFamily, bool) {
	switch m {
	case MarketBTTSYes:
		return BlendBTTS, false
	case MarketBTTSNo:
		return BlendBTTS, true
	case MarketOver25:
		return BlendOver25, false
	case MarketUnder25:
		return BlendOver25, true
	}
	return BlendNone, false
}
