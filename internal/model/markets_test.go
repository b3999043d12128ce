package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMC() MonteCarloResult {
	return MonteCarloResult{
		HomeWinProb:        0.52,
		DrawProb:           0.26,
		AwayWinProb:        0.22,
		Over15Prob:         0.78,
		Over25Prob:         0.54,
		Over35Prob:         0.31,
		BTTSProb:           0.49,
		CleanSheetHomeProb: 0.33,
		CleanSheetAwayProb: 0.21,
		ConfidenceScore:    0.42,
		NSimulations:       5000,
	}
}

func TestProb_ComplementsSumToOne(t *testing.T) {
	mc := sampleMC()
	pairs := [][2]MarketType{
		{MarketOver15, MarketUnder15},
		{MarketOver25, MarketUnder25},
		{MarketOver35, MarketUnder35},
		{MarketBTTSYes, MarketBTTSNo},
		{MarketDNBHome, MarketDNBAway},
	}
	for _, pair := range pairs {
		sum := pair[0].Prob(mc) + pair[1].Prob(mc)
		assert.InDelta(t, 1.0, sum, 1e-12, "pair %v", pair)
	}

	oneX2 := MarketHome.Prob(mc) + MarketDraw.Prob(mc) + MarketAway.Prob(mc)
	assert.InDelta(t, 1.0, oneX2, 1e-12)
}

func TestProb_DNBRenormalizes(t *testing.T) {
	mc := sampleMC()
	want := mc.HomeWinProb / (mc.HomeWinProb + mc.AwayWinProb)
	assert.InDelta(t, want, MarketDNBHome.Prob(mc), 1e-12)

	// Degenerate all-draw distribution falls back to a coin flip.
	assert.Equal(t, 0.5, MarketDNBHome.Prob(MonteCarloResult{DrawProb: 1}))
	assert.Equal(t, 0.5, MarketDNBAway.Prob(MonteCarloResult{DrawProb: 1}))
}

func TestKnown(t *testing.T) {
	assert.True(t, MarketOver25.Known())
	assert.True(t, MarketCleanSheetAway.Known())
	assert.False(t, MarketType("correct_score_2_1").Known())
	assert.False(t, MarketType("").Known())
}

func TestSideAndLean(t *testing.T) {
	assert.Equal(t, SideHome, MarketDNBHome.Side())
	assert.Equal(t, SideHome, MarketCleanSheetHome.Side())
	assert.Equal(t, SideAway, MarketDCX2.Side())
	assert.Equal(t, SideDraw, MarketDraw.Side())
	assert.Equal(t, SideNeutral, MarketDC12.Side())
	assert.Equal(t, SideNeutral, MarketOver25.Side())

	assert.Equal(t, LeanGoals, MarketBTTSYes.Lean())
	assert.Equal(t, LeanNoGoals, MarketCleanSheetHome.Lean())
	assert.Equal(t, LeanNoGoals, MarketUnder35.Lean())
	assert.Equal(t, LeanNone, MarketHome.Lean())
}

func TestBlendable(t *testing.T) {
	family, complement := MarketBTTSNo.Blendable()
	assert.Equal(t, BlendBTTS, family)
	assert.True(t, complement)

	family, complement = MarketOver25.Blendable()
	assert.Equal(t, BlendOver25, family)
	assert.False(t, complement)

	family, _ = MarketOver35.Blendable()
	assert.Equal(t, BlendNone, family, "only the 2.5 line blends")

	family, _ = MarketHome.Blendable()
	assert.Equal(t, BlendNone, family)
}

func TestQuantPick_MarshalRoundsToFourDecimals(t *testing.T) {
	pick := QuantPick{
		MatchID:       "m1",
		MarketType:    MarketOver25,
		Odds:          1.91,
		MCProb:        0.5432109,
		MCEdge:        0.0198765,
		KellyFraction: 0.0333333,
		DataCoverage:  0.8333333,
		FinalScore:    47,
	}
	raw, err := pick.MarshalJSON()
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `"mc_prob":0.5432`)
	assert.Contains(t, s, `"mc_edge":0.0199`)
	assert.Contains(t, s, `"kelly_fraction":0.0333`)
	assert.Contains(t, s, `"data_coverage":0.8333`)
	assert.Contains(t, s, `"final_score":47`)
}
