package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/model"
)

func TestMonteCarloLayer_EdgeBands(t *testing.T) {
	mc := model.MonteCarloResult{ConfidenceScore: 0.5}

	in := LayerInput{Edge: 0.05, MC: mc}
	// Sweet band: 0.05*200*0.5*1.25 = 6.25 -> 6.
	assert.Equal(t, 6, monteCarloLayer(in))

	in.Edge = 0.10
	// Plain: 0.10*200*0.5 = 10.
	assert.Equal(t, 10, monteCarloLayer(in))

	in.Edge = 0.20
	// Discounted: 0.20*200*0.5*0.8 = 16.
	assert.Equal(t, 16, monteCarloLayer(in))

	in.Edge = -0.04
	// Negative edges floor downward: -0.04*200*0.5 = -4.
	assert.Equal(t, -4, monteCarloLayer(in))
}

func TestMomentumLayer_Directional(t *testing.T) {
	in := LayerInput{
		HomeMomentum: &model.Momentum{MomentumScore: 85},
		AwayMomentum: &model.Momentum{MomentumScore: 25},
	}

	in.Market = model.MarketHome
	assert.Equal(t, 6, momentumLayer(in))

	in.Market = model.MarketAway
	assert.Equal(t, -6, momentumLayer(in))

	in.Market = model.MarketDraw
	assert.Equal(t, -3, momentumLayer(in))

	in.HomeMomentum = nil
	assert.Equal(t, 0, momentumLayer(in))
}

func TestMomentumLayer_LeanAgreement(t *testing.T) {
	hot := LayerInput{
		Market:       model.MarketOver25,
		HomeMomentum: &model.Momentum{MomentumScore: 70},
		AwayMomentum: &model.Momentum{MomentumScore: 68},
	}
	assert.Equal(t, 3, momentumLayer(hot))

	hot.Market = model.MarketUnder25
	assert.Equal(t, -3, momentumLayer(hot))

	cold := LayerInput{
		Market:       model.MarketBTTSNo,
		HomeMomentum: &model.Momentum{MomentumScore: 20},
		AwayMomentum: &model.Momentum{MomentumScore: 30},
	}
	assert.Equal(t, 3, momentumLayer(cold))

	mixed := LayerInput{
		Market:       model.MarketOver25,
		HomeMomentum: &model.Momentum{MomentumScore: 70},
		AwayMomentum: &model.Momentum{MomentumScore: 40},
	}
	assert.Equal(t, 0, momentumLayer(mixed))
}

func TestTacticalLayer(t *testing.T) {
	row := &model.TacticalRow{BTTSProbability: 0.75, Over25Probability: 0.40}

	agree := LayerInput{Market: model.MarketBTTSYes, Prob: 0.65, Tactical: row}
	// (0.75-0.5)*(0.65-0.5)*160 = 6.
	assert.Equal(t, 6, tacticalLayer(agree))

	disagree := LayerInput{Market: model.MarketOver25, Prob: 0.62, Tactical: row}
	// (0.40-0.5)*(0.62-0.5)*160 = -1.92 -> -2.
	assert.Equal(t, -2, tacticalLayer(disagree))

	outOfScope := LayerInput{Market: model.MarketHome, Prob: 0.70, Tactical: row}
	assert.Equal(t, 0, tacticalLayer(outOfScope))

	missing := LayerInput{Market: model.MarketBTTSYes, Prob: 0.65}
	assert.Equal(t, 0, tacticalLayer(missing))
}

func TestIntelligenceLayer(t *testing.T) {
	home := &model.TeamIntelligence{
		HomeGoalsScoredAvg: 2.2, HomeGoalsConcededAvg: 0.8,
		HomeBTTSRate: 70, HomeOver25Rate: 64, CleanSheetTendency: 72,
	}
	away := &model.TeamIntelligence{
		AwayGoalsScoredAvg: 0.9, AwayGoalsConcededAvg: 1.9,
		AwayBTTSRate: 50, AwayOver25Rate: 56, CleanSheetTendency: 18,
	}

	in := LayerInput{HomeIntel: home, AwayIntel: away}

	in.Market = model.MarketBTTSYes // rate 60 -> +5
	assert.Equal(t, 5, intelligenceLayer(in))
	in.Market = model.MarketBTTSNo
	assert.Equal(t, -5, intelligenceLayer(in))

	in.Market = model.MarketOver25 // rate 60 -> +5
	assert.Equal(t, 5, intelligenceLayer(in))
	in.Market = model.MarketUnder35
	assert.Equal(t, -5, intelligenceLayer(in))

	in.Market = model.MarketCleanSheetHome // 72 -> +10 clipped from 11
	assert.Equal(t, 10, intelligenceLayer(in))
	in.Market = model.MarketCleanSheetAway // 18 -> -10 clipped from -16
	assert.Equal(t, -10, intelligenceLayer(in))

	// homeEdge = (2.2-0.8) - (0.9-1.9) = 2.4 -> clipped to 10.
	in.Market = model.MarketHome
	assert.Equal(t, 10, intelligenceLayer(in))
	in.Market = model.MarketAway
	assert.Equal(t, -10, intelligenceLayer(in))
	in.Market = model.MarketDraw
	assert.Equal(t, -8, intelligenceLayer(in))

	in.AwayIntel = nil
	assert.Equal(t, 0, intelligenceLayer(in))
}

func TestClassLayer(t *testing.T) {
	strongHome := LayerInput{
		Market:   model.MarketHome,
		HomeTeam: &model.Team{CalculatedPowerIndex: 95, HistoricalStrength: 90},
		AwayTeam: &model.Team{CalculatedPowerIndex: 45, HistoricalStrength: 40},
	}
	// gap = (66.5+27) - (31.5+12) = 50 -> clipped from 6.25 -> 6.
	assert.Equal(t, 6, classLayer(strongHome))

	strongHome.Market = model.MarketAway
	assert.Equal(t, -6, classLayer(strongHome))

	bigGame := LayerInput{
		Market:   model.MarketOver25,
		HomeTeam: &model.Team{BigGameFactor: 0.8},
		AwayTeam: &model.Team{BigGameFactor: 0.75},
	}
	assert.Equal(t, 3, classLayer(bigGame))

	bigGame.Market = model.MarketUnder25
	assert.Equal(t, -2, classLayer(bigGame))

	bigGame.HomeTeam = nil
	assert.Equal(t, 0, classLayer(bigGame))
}

func TestRefereeLayer(t *testing.T) {
	freeScoring := &model.Referee{AvgGoalsPerGame: 3.4, HomeBiasFactor: 1.15}

	goals := LayerInput{Market: model.MarketOver25, Referee: freeScoring}
	// (3.4-2.6)*5 = 4.
	assert.Equal(t, 4, refereeLayer(goals))

	unders := LayerInput{Market: model.MarketUnder25, Referee: freeScoring}
	assert.Equal(t, -4, refereeLayer(unders))

	homeSide := LayerInput{Market: model.MarketHome, Referee: freeScoring}
	// (1.15-1.0)*20 = 3.
	assert.Equal(t, 3, refereeLayer(homeSide))

	awaySide := LayerInput{Market: model.MarketAway, Referee: freeScoring}
	assert.Equal(t, -3, refereeLayer(awaySide))

	missing := LayerInput{Market: model.MarketOver25}
	assert.Equal(t, 0, refereeLayer(missing))
}

func TestH2HLayer(t *testing.T) {
	h2h := &model.HeadToHead{
		TotalMatches: 12, DominantTeam: "Liverpool", DominanceFactor: 0.85,
		BTTSPercentage: 80, Over25Percentage: 30,
	}
	in := LayerInput{H2H: h2h, HomeName: "Liverpool", AwayName: "Everton"}

	in.Market = model.MarketBTTSYes
	// 7*(0.8-0.5)*2 = 4.2, *0.9 conf = 3.78 -> 4.
	assert.Equal(t, 4, h2hLayer(in))

	in.Market = model.MarketUnder25
	// invert of 7*(0.3-0.5)*2 = 2.8, *0.9 = 2.52 -> 3.
	assert.Equal(t, 3, h2hLayer(in))

	in.Market = model.MarketHome
	// dominance: 7*(0.85-0.5)*2 = 4.9, *0.9 = 4.41 -> 4.
	assert.Equal(t, 4, h2hLayer(in))

	in.Market = model.MarketAway // backs the non-dominant side
	assert.Equal(t, -4, h2hLayer(in))

	in.H2H = nil
	assert.Equal(t, 0, h2hLayer(in))
}

func TestH2HConfidenceFloors(t *testing.T) {
	assert.Equal(t, 0.9, h2hConfidence(12))
	assert.Equal(t, 0.9, h2hConfidence(10))
	assert.Equal(t, 0.7, h2hConfidence(7))
	assert.Equal(t, 0.5, h2hConfidence(3))
}

func TestScorerLayer(t *testing.T) {
	firing := LayerInput{
		Market:        model.MarketOver25,
		HomeFirepower: &model.FirepowerProfile{FirepowerScore: 0.9, HotStreaks: 2},
		AwayFirepower: &model.FirepowerProfile{FirepowerScore: 0.7, HotStreaks: 1},
	}
	// mean fp 0.8 -> 0.8*3 + 3 streaks*5 = 17.4, capped at 5.
	assert.Equal(t, 5, scorerLayer(firing))

	// A single hot striker saturates the cap on its own even when raw
	// firepower is modest: 0.3*3 + 1*5 = 5.9 -> 5.
	oneStreak := LayerInput{
		Market:        model.MarketOver25,
		HomeFirepower: &model.FirepowerProfile{FirepowerScore: 0.3, HotStreaks: 1},
	}
	assert.Equal(t, 5, scorerLayer(oneStreak))

	oneStreak.HomeFirepower = &model.FirepowerProfile{FirepowerScore: 0.3}
	// Same firepower without the streak: 0.9 floors to 0.
	assert.Equal(t, 0, scorerLayer(oneStreak))

	injured := LayerInput{
		Market:        model.MarketOver25,
		HomeFirepower: &model.FirepowerProfile{FirepowerScore: 0.6, KeyInjuries: 1},
		AwayFirepower: &model.FirepowerProfile{FirepowerScore: 0.4, KeyInjuries: 2},
	}
	// fp 0.5*3 = 1.5 -> 1, minus 3 per injured side = -5.
	assert.Equal(t, -5, scorerLayer(injured))

	notGoalMarket := LayerInput{Market: model.MarketHome, HomeFirepower: firing.HomeFirepower}
	assert.Equal(t, 0, scorerLayer(notGoalMarket))

	noProfiles := LayerInput{Market: model.MarketOver25}
	assert.Equal(t, 0, scorerLayer(noProfiles))
}

func TestSweetSpotLayer(t *testing.T) {
	cfg := config.Default()

	inBand := LayerInput{Market: model.MarketOver25, Prob: 0.62}
	assert.Equal(t, 5, sweetSpotLayer(cfg, inBand))

	outside := LayerInput{Market: model.MarketOver25, Prob: 0.75}
	assert.Equal(t, 0, sweetSpotLayer(cfg, outside))

	extreme := LayerInput{Market: model.MarketBTTSYes, Prob: 0.92}
	assert.Equal(t, -5, sweetSpotLayer(cfg, extreme))

	extremeLow := LayerInput{Market: model.MarketCleanSheetAway, Prob: 0.05}
	assert.Equal(t, -5, sweetSpotLayer(cfg, extremeLow))

	// Extreme probability on a market outside the high-variance list.
	extremeStable := LayerInput{Market: model.MarketOver15, Prob: 0.95}
	assert.Equal(t, 0, sweetSpotLayer(cfg, extremeStable))
}

func TestAggregateFirepower(t *testing.T) {
	scorers := []model.ScorerProfile{
		{PlayerName: "A", GoalsPer90: 0.9, IsHotStreak: true},
		{PlayerName: "B", GoalsPer90: 0.6, IsKeyPlayer: true, IsInjured: true},
		{PlayerName: "C", GoalsPer90: 0.45},
		{PlayerName: "D", GoalsPer90: 0.4, IsHotStreak: true}, // beyond top 3, ignored
	}
	got := AggregateFirepower("Arsenal", scorers)
	assert.Equal(t, "Arsenal", got.TeamName)
	assert.Equal(t, 3, got.SampleSize)
	assert.InDelta(t, (0.9+0.6+0.45)/3, got.FirepowerScore, 1e-12)
	assert.Equal(t, 1, got.HotStreaks)
	assert.Equal(t, 1, got.KeyInjuries)

	assert.Nil(t, AggregateFirepower("Empty", nil))
}

func TestScoreLayers_TotalIsComponentSum(t *testing.T) {
	cfg := config.Default()
	in := LayerInput{
		Market: model.MarketOver25,
		Prob:   0.60,
		Edge:   0.06,
		MC:     model.MonteCarloResult{ConfidenceScore: 0.45},
		HomeIntel: &model.TeamIntelligence{
			HomeOver25Rate: 62, HomeGoalsScoredAvg: 1.8, HomeGoalsConcededAvg: 1.0,
		},
		AwayIntel: &model.TeamIntelligence{
			AwayOver25Rate: 58, AwayGoalsScoredAvg: 1.2, AwayGoalsConcededAvg: 1.5,
		},
		HomeMomentum: &model.Momentum{MomentumScore: 70},
		AwayMomentum: &model.Momentum{MomentumScore: 66},
	}
	scores := ScoreLayers(cfg, in)
	sum := scores.MonteCarlo + scores.Momentum + scores.Tactical +
		scores.Intelligence + scores.Class + scores.Referee +
		scores.H2H + scores.Scorer + scores.SweetSpot
	assert.Equal(t, sum, scores.Total())
	assert.NotZero(t, scores.MonteCarlo)
}
