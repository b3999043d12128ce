package engine

import (
	"math"

	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/model"
)

// LayerInput carries everything the nine scoring layers consume for one
// market. Absent lookups are nil; every layer degrades to zero contribution
// on missing data.
type LayerInput struct {
	Market model.MarketType
	Odds   float64
	Prob   float64 // blended probability
	Edge   float64 // recomputed after blending
	MC     model.MonteCarloResult

	HomeTeam *model.Team
	AwayTeam *model.Team

	HomeIntel *model.TeamIntelligence
	AwayIntel *model.TeamIntelligence

	HomeMomentum *model.Momentum
	AwayMomentum *model.Momentum

	Tactical *model.TacticalRow
	Referee  *model.Referee
	H2H      *model.HeadToHead

	HomeFirepower *model.FirepowerProfile
	AwayFirepower *model.FirepowerProfile

	HomeName string // canonical, for H2H dominance matching
	AwayName string
}

// LayerScores is the integer component breakdown of one market's composite.
type LayerScores struct {
	MonteCarlo   int
	Momentum     int
	Tactical     int
	Intelligence int
	Class        int
	Referee      int
	H2H          int
	Scorer       int
	SweetSpot    int
}

// Total sums the nine components.
func (l LayerScores) Total() int {
	return l.MonteCarlo + l.Momentum + l.Tactical + l.Intelligence +
		l.Class + l.Referee + l.H2H + l.Scorer + l.SweetSpot
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// ScoreLayers runs every layer for one market.
func ScoreLayers(cfg config.Config, in LayerInput) LayerScores {
	return LayerScores{
		MonteCarlo:   monteCarloLayer(in),
		Momentum:     momentumLayer(in),
		Tactical:     tacticalLayer(in),
		Intelligence: intelligenceLayer(in),
		Class:        classLayer(in),
		Referee:      refereeLayer(in),
		H2H:          h2hLayer(in),
		Scorer:       scorerLayer(in),
		SweetSpot:    sweetSpotLayer(cfg, in),
	}
}

// monteCarloLayer converts the edge into the dominant component (weight
// 25). Edges in the 3-8% band get a value-sweet-spot boost; edges past 15%
// smell like stale prices and are discounted.
func monteCarloLayer(in LayerInput) int {
	base := in.Edge * 200
	mult := 1.0
	switch {
	case in.Edge >= 0.03 && in.Edge <= 0.08:
		mult = 1.25
	case in.Edge > 0.15:
		mult = 0.80
	}
	return int(math.Floor(base * in.MC.ConfidenceScore * mult))
}

// momentumLayer compares form between the side the market favors and its
// opponent (weight 10). Symmetric markets earn a small bonus when both
// sides' form agrees with the market's goal lean.
func momentumLayer(in LayerInput) int {
	if in.HomeMomentum == nil || in.AwayMomentum == nil {
		return 0
	}
	home := in.HomeMomentum.MomentumScore
	away := in.AwayMomentum.MomentumScore
	diff := home - away // -100..100

	switch in.Market.Side() {
	case model.SideHome:
		return clampInt(roundInt(diff/10), -10, 10)
	case model.SideAway:
		return clampInt(roundInt(-diff/10), -10, 10)
	case model.SideDraw:
		// A lopsided form gap argues against the draw.
		return clampInt(roundInt(-math.Abs(diff)/20), -5, 0)
	}

	// Symmetric markets: agreement of both sides' form with the lean.
	score := 0
	switch in.Market.Lean() {
	case model.LeanGoals:
		if home >= 65 && away >= 65 {
			score = 3
		} else if home <= 35 && away <= 35 {
			score = -3
		}
	case model.LeanNoGoals:
		if home <= 35 && away <= 35 {
			score = 3
		} else if home >= 65 && away >= 65 {
			score = -3
		}
	}
	return score
}

// tacticalLayer rewards agreement between the style-matchup history and the
// blended probability (weight 8). Only the markets the matrix speaks to
// (BTTS and over/under 2.5) score here.
func tacticalLayer(in LayerInput) int {
	if in.Tactical == nil {
		return 0
	}

	var matVal float64
	switch in.Market {
	case model.MarketBTTSYes:
		matVal = in.Tactical.BTTSProbability
	case model.MarketBTTSNo:
		matVal = 1 - in.Tactical.BTTSProbability
	case model.MarketOver25:
		matVal = in.Tactical.Over25Probability
	case model.MarketUnder25:
		matVal = 1 - in.Tactical.Over25Probability
	default:
		return 0
	}

	// Positive when both deviate from 0.5 in the same direction.
	strength := (matVal - 0.5) * (in.Prob - 0.5)
	return clampInt(roundInt(strength*160), -8, 8)
}

// intelligenceLayer rewards agreement with per-location rates (weight 10).
func intelligenceLayer(in LayerInput) int {
	if in.HomeIntel == nil || in.AwayIntel == nil {
		return 0
	}

	rateScore := func(rate float64) int { // rate in [0,100], 50 neutral
		return clampInt(roundInt((rate-50)/2), -10, 10)
	}

	switch in.Market {
	case model.MarketBTTSYes:
		return rateScore((in.HomeIntel.HomeBTTSRate + in.AwayIntel.AwayBTTSRate) / 2)
	case model.MarketBTTSNo:
		return -rateScore((in.HomeIntel.HomeBTTSRate + in.AwayIntel.AwayBTTSRate) / 2)
	case model.MarketOver15, model.MarketOver25, model.MarketOver35:
		return rateScore((in.HomeIntel.HomeOver25Rate + in.AwayIntel.AwayOver25Rate) / 2)
	case model.MarketUnder15, model.MarketUnder25, model.MarketUnder35:
		return -rateScore((in.HomeIntel.HomeOver25Rate + in.AwayIntel.AwayOver25Rate) / 2)
	case model.MarketCleanSheetHome:
		return rateScore(in.HomeIntel.CleanSheetTendency)
	case model.MarketCleanSheetAway:
		return rateScore(in.AwayIntel.CleanSheetTendency)
	}

	// 1X2 family: location goal-difference edge, in goals per match.
	homeEdge := (in.HomeIntel.HomeGoalsScoredAvg - in.HomeIntel.HomeGoalsConcededAvg) -
		(in.AwayIntel.AwayGoalsScoredAvg - in.AwayIntel.AwayGoalsConcededAvg)
	switch in.Market.Side() {
	case model.SideHome:
		return clampInt(roundInt(homeEdge*5), -10, 10)
	case model.SideAway:
		return clampInt(roundInt(-homeEdge*5), -10, 10)
	case model.SideDraw:
		return clampInt(roundInt(-math.Abs(homeEdge)*4), -8, 0)
	}
	return 0
}

// classLayer uses the power-index gap and big-game appetite (weight 8).
func classLayer(in LayerInput) int {
	if in.HomeTeam == nil || in.AwayTeam == nil {
		return 0
	}

	strength := func(t *model.Team) float64 {
		return 0.7*t.CalculatedPowerIndex + 0.3*t.HistoricalStrength
	}
	gap := strength(in.HomeTeam) - strength(in.AwayTeam) // index points, ~0-100 scale

	switch in.Market.Side() {
	case model.SideHome:
		return clampInt(roundInt(gap/8), -8, 8)
	case model.SideAway:
		return clampInt(roundInt(-gap/8), -8, 8)
	case model.SideDraw:
		return clampInt(roundInt(-math.Abs(gap)/12), -6, 0)
	}

	// Two sides that show up for big games tend to produce goals.
	if in.HomeTeam.BigGameFactor >= 0.7 && in.AwayTeam.BigGameFactor >= 0.7 {
		switch in.Market.Lean() {
		case model.LeanGoals:
			return 3
		case model.LeanNoGoals:
			return -2
		}
	}
	return 0
}

// leagueMeanGoals anchors referee goal deviation.
const leagueMeanGoals = 2.6

// refereeLayer scales referee tendencies into ±5 (weight 5). Yellow-card
// averages are reserved for a future cards market and contribute nothing.
func refereeLayer(in LayerInput) int {
	if in.Referee == nil {
		return 0
	}

	switch in.Market.Lean() {
	case model.LeanGoals:
		return clampInt(roundInt((in.Referee.AvgGoalsPerGame-leagueMeanGoals)*5), -5, 5)
	case model.LeanNoGoals:
		if in.Market.Side() != model.SideNeutral {
			break // clean sheets also react to bias below
		}
		return clampInt(roundInt(-(in.Referee.AvgGoalsPerGame-leagueMeanGoals)*5), -5, 5)
	}

	bias := in.Referee.HomeBiasFactor - 1.0
	switch in.Market.Side() {
	case model.SideHome:
		return clampInt(roundInt(bias*20), -5, 5)
	case model.SideAway:
		return clampInt(roundInt(-bias*20), -5, 5)
	}
	return 0
}

// h2hConfidence floors the head-to-head contribution by sample size.
func h2hConfidence(total int) float64 {
	switch {
	case total >= 10:
		return 0.9
	case total >= 5:
		return 0.7
	default:
		return 0.5
	}
}

// h2hLayer scores history between the two sides (weight 7). The store only
// serves pairs with three or more meetings.
func h2hLayer(in LayerInput) int {
	if in.H2H == nil {
		return 0
	}
	conf := h2hConfidence(in.H2H.TotalMatches)

	fromRate := func(rate float64, invert bool) int { // rate in [0,100]
		raw := 7 * (rate/100 - 0.5) * 2
		if invert {
			raw = -raw
		}
		raw = math.Max(-7, math.Min(7, raw))
		return roundInt(raw * conf)
	}

	switch in.Market {
	case model.MarketBTTSYes:
		return fromRate(in.H2H.BTTSPercentage, false)
	case model.MarketBTTSNo:
		return fromRate(in.H2H.BTTSPercentage, true)
	case model.MarketOver25:
		return fromRate(in.H2H.Over25Percentage, false)
	case model.MarketUnder25:
		return fromRate(in.H2H.Over25Percentage, true)
	}

	// 1X2 family: dominance carries the signal.
	side := in.Market.Side()
	if side != model.SideHome && side != model.SideAway {
		return 0
	}
	dominant := in.H2H.DominantTeam
	if dominant == "" {
		return 0
	}
	raw := 7 * (in.H2H.DominanceFactor - 0.5) * 2
	raw = math.Max(-7, math.Min(7, raw))

	backsDominant := (side == model.SideHome && dominant == in.HomeName) ||
		(side == model.SideAway && dominant == in.AwayName)
	if !backsDominant {
		raw = -raw
	}
	return roundInt(raw * conf)
}

// scorerLayer translates striker firepower into goal-market support
// (weight 5). Key injuries bite on firepower-dependent markets.
func scorerLayer(in LayerInput) int {
	if in.Market.Lean() != model.LeanGoals {
		return 0
	}

	var fp float64
	var sides, hot, injuredSides int
	for _, side := range []*model.FirepowerProfile{in.HomeFirepower, in.AwayFirepower} {
		if side == nil {
			continue
		}
		sides++
		fp += side.FirepowerScore
		hot += side.HotStreaks
		if side.KeyInjuries > 0 {
			injuredSides++
		}
	}
	if sides == 0 {
		return 0
	}
	fp /= float64(sides)

	score := int(math.Floor(math.Min(5, fp*3+float64(hot)*5)))
	score -= 3 * injuredSides
	return clampInt(score, -6, 5)
}

// sweetSpotLayer grants +5 inside the market's calibrated band and
// penalizes extreme probabilities on high-variance markets.
func sweetSpotLayer(cfg config.Config, in LayerInput) int {
	if band, ok := cfg.SweetSpots[in.Market]; ok && band.Contains(in.Prob) {
		return 5
	}
	for _, m := range cfg.HighVariance {
		if m == in.Market && (in.Prob > 0.85 || in.Prob < 0.15) {
			return -5
		}
	}
	return 0
}

// AggregateFirepower folds a side's top scorers into one profile. The
// firepower score is the mean goals-per-90 of the top three scorers.
func AggregateFirepower(team string, scorers []model.ScorerProfile) *model.FirepowerProfile {
	if len(scorers) == 0 {
		return nil
	}
	top := scorers
	if len(top) > 3 {
		top = top[:3]
	}

	profile := &model.FirepowerProfile{TeamName: team, SampleSize: len(top)}
	var sum float64
	for _, sc := range top {
		sum += sc.GoalsPer90
		if sc.IsHotStreak && !sc.IsInjured {
			profile.HotStreaks++
		}
		if sc.IsKeyPlayer && sc.IsInjured {
			profile.KeyInjuries++
		}
	}
	profile.FirepowerScore = sum / float64(len(top))
	return profile
}
