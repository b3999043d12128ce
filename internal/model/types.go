package model

import (
	"encoding/json"
	"math"
	"time"
)

// Tier is an ordinal class ranking from S (elite) down to D.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Rank maps tiers S..D onto 5..1. Unknown tiers rank as B (3).
func (t Tier) Rank() int {
	switch t {
	case TierS:
		return 5
	case TierA:
		return 4
	case TierB:
		return 3
	case TierC:
		return 2
	case TierD:
		return 1
	}
	return 3
}

// PlayingStyle labels a team's dominant tactical approach. The tactical
// matrix is keyed on ordered (home, away) style pairs.
type PlayingStyle string

const (
	StyleBalanced   PlayingStyle = "balanced"
	StyleAttacking  PlayingStyle = "attacking"
	StyleDefensive  PlayingStyle = "defensive"
	StylePossession PlayingStyle = "possession"
	StyleHighPress  PlayingStyle = "high_press"
	StyleCounter    PlayingStyle = "counter"
)

// Team is the canonical team row from the feature store.
type Team struct {
	Name                 string       `db:"name" json:"name"`
	Tier                 Tier         `db:"tier" json:"tier"`
	Style                PlayingStyle `db:"playing_style" json:"playing_style"`
	HomeFortressFactor   float64      `db:"home_fortress_factor" json:"home_fortress_factor"`
	AwayWeaknessFactor   float64      `db:"away_weakness_factor" json:"away_weakness_factor"`
	PsychologicalEdge    float64      `db:"psychological_edge" json:"psychological_edge"`
	CalculatedPowerIndex float64      `db:"calculated_power_index" json:"calculated_power_index"`
	HistoricalStrength   float64      `db:"historical_strength" json:"historical_strength"`
	BigGameFactor        float64      `db:"big_game_factor" json:"big_game_factor"`
	UpdatedAt            time.Time    `db:"updated_at" json:"updated_at"`
}

// TeamIntelligence holds per-team rolling averages. Rates are percentages in
// [0,100]; goal averages are per match.
type TeamIntelligence struct {
	TeamName             string  `db:"team_name" json:"team_name"`
	HomeGoalsScoredAvg   float64 `db:"home_goals_scored_avg" json:"home_goals_scored_avg"`
	HomeGoalsConcededAvg float64 `db:"home_goals_conceded_avg" json:"home_goals_conceded_avg"`
	AwayGoalsScoredAvg   float64 `db:"away_goals_scored_avg" json:"away_goals_scored_avg"`
	AwayGoalsConcededAvg float64 `db:"away_goals_conceded_avg" json:"away_goals_conceded_avg"`
	XGForAvg             float64 `db:"xg_for_avg" json:"xg_for_avg"`
	XGAgainstAvg         float64 `db:"xg_against_avg" json:"xg_against_avg"`
	HomeBTTSRate         float64 `db:"home_btts_rate" json:"home_btts_rate"`
	AwayBTTSRate         float64 `db:"away_btts_rate" json:"away_btts_rate"`
	HomeOver25Rate       float64 `db:"home_over25_rate" json:"home_over25_rate"`
	AwayOver25Rate       float64 `db:"away_over25_rate" json:"away_over25_rate"`
	CleanSheetTendency   float64 `db:"clean_sheet_tendency" json:"clean_sheet_tendency"`
	BTTSTendency         float64 `db:"btts_tendency" json:"btts_tendency"`
	MatchesAnalyzed      int     `db:"matches_analyzed" json:"matches_analyzed"`
	ConfidenceOverall    float64 `db:"confidence_overall" json:"confidence_overall"`
}

// Momentum captures a team's last-five form. Stale rows (older than the
// freshness window) are treated as absent by the store.
type Momentum struct {
	TeamName           string    `db:"team_name" json:"team_name"`
	Last5Results       string    `db:"last_5_results" json:"last_5_results"`
	Last5Points        int       `db:"last_5_points" json:"last_5_points"`
	MomentumScore      float64   `db:"momentum_score" json:"momentum_score"`
	GoalsScoredLast5   int       `db:"goals_scored_last_5" json:"goals_scored_last_5"`
	GoalsConcededLast5 int       `db:"goals_conceded_last_5" json:"goals_conceded_last_5"`
	CleanSheetsLast5   int       `db:"clean_sheets_last_5" json:"clean_sheets_last_5"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// MomentumFreshness is the window after which a momentum row goes stale.
const MomentumFreshness = 7 * 24 * time.Hour

// TacticalRow is one cell of the style-vs-style matrix. Probabilities are
// fractions in [0,1].
type TacticalRow struct {
	StyleA            PlayingStyle `db:"style_a" json:"style_a"`
	StyleB            PlayingStyle `db:"style_b" json:"style_b"`
	BTTSProbability   float64      `db:"btts_probability" json:"btts_probability"`
	Over25Probability float64      `db:"over_25_probability" json:"over_25_probability"`
	AvgGoalsTotal     float64      `db:"avg_goals_total" json:"avg_goals_total"`
	WinRateA          float64      `db:"win_rate_a" json:"win_rate_a"`
}

// Referee is a referee profile row.
type Referee struct {
	Name                  string  `db:"name" json:"name"`
	AvgGoalsPerGame       float64 `db:"avg_goals_per_game" json:"avg_goals_per_game"`
	AvgYellowCardsPerGame float64 `db:"avg_yellow_cards_per_game" json:"avg_yellow_cards_per_game"`
	HomeBiasFactor        float64 `db:"home_bias_factor" json:"home_bias_factor"`
	MatchesOfficiated     int     `db:"matches_officiated" json:"matches_officiated"`
}

// HeadToHead summarizes the history of an unordered team pair. Usable only
// when TotalMatches >= 3. Percentages are in [0,100].
type HeadToHead struct {
	TeamA            string  `db:"team_a" json:"team_a"`
	TeamB            string  `db:"team_b" json:"team_b"`
	TotalMatches     int     `db:"total_matches" json:"total_matches"`
	DominantTeam     string  `db:"dominant_team" json:"dominant_team"`
	DominanceFactor  float64 `db:"dominance_factor" json:"dominance_factor"`
	BTTSPercentage   float64 `db:"btts_percentage" json:"btts_percentage"`
	Over25Percentage float64 `db:"over_25_percentage" json:"over_25_percentage"`
	AlwaysGoals      bool    `db:"always_goals" json:"always_goals"`
	LowScoring       bool    `db:"low_scoring" json:"low_scoring"`
	Last5WinsA       int     `db:"last_5_wins_a" json:"last_5_wins_a"`
	Last5WinsB       int     `db:"last_5_wins_b" json:"last_5_wins_b"`
}

// ScorerProfile is a per-player scoring row.
type ScorerProfile struct {
	PlayerName  string  `db:"player_name" json:"player_name"`
	TeamName    string  `db:"team_name" json:"team_name"`
	SeasonGoals int     `db:"season_goals" json:"season_goals"`
	GoalsPer90  float64 `db:"goals_per_90" json:"goals_per_90"`
	IsHotStreak bool    `db:"is_hot_streak" json:"is_hot_streak"`
	IsInjured   bool    `db:"is_injured" json:"is_injured"`
	IsKeyPlayer bool    `db:"is_key_player" json:"is_key_player"`
	FormScore   float64 `db:"form_score" json:"form_score"`
}

// FirepowerProfile aggregates a side's top scorers.
type FirepowerProfile struct {
	TeamName       string  `json:"team_name"`
	FirepowerScore float64 `json:"firepower_score"` // mean goals/90 of the top 3 scorers
	HotStreaks     int     `json:"hot_streaks"`
	KeyInjuries    int     `json:"key_injuries"` // injured key players among top scorers
	SampleSize     int     `json:"sample_size"`
}

// AlertLevel grades a market-trap rule.
type AlertLevel string

const (
	AlertTrap    AlertLevel = "TRAP"
	AlertCaution AlertLevel = "CAUTION"
	AlertInfo    AlertLevel = "INFO"
)

// MarketTrap is a (team, market) rule asserting that historical results
// contradict the market's nominal appeal.
type MarketTrap struct {
	TeamName          string     `db:"team_name" json:"team_name"`
	MarketType        MarketType `db:"market_type" json:"market_type"`
	AlertLevel        AlertLevel `db:"alert_level" json:"alert_level"`
	AppliesHome       bool       `db:"applies_home" json:"applies_home"`
	AppliesAway       bool       `db:"applies_away" json:"applies_away"`
	AlertReason       string     `db:"alert_reason" json:"alert_reason"`
	AlternativeMarket string     `db:"alternative_market" json:"alternative_market"`
}

// MatchOutcome is the 1X2 result of a finished match.
type MatchOutcome string

const (
	OutcomeHome MatchOutcome = "home"
	OutcomeDraw MatchOutcome = "draw"
	OutcomeAway MatchOutcome = "away"
)

// MatchResult is a historical (or freshly finished) match row.
type MatchResult struct {
	HomeTeam   string       `db:"home_team" json:"home_team"`
	AwayTeam   string       `db:"away_team" json:"away_team"`
	League     string       `db:"league" json:"league"`
	ScoreHome  int          `db:"score_home" json:"score_home"`
	ScoreAway  int          `db:"score_away" json:"score_away"`
	Outcome    MatchOutcome `db:"outcome" json:"outcome"`
	IsFinished bool         `db:"is_finished" json:"is_finished"`
}

// LocationStats are competition-filtered scoring averages for one team at
// one location.
type LocationStats struct {
	ScoredAvg   float64 `json:"scored_avg"`
	ConcededAvg float64 `json:"conceded_avg"`
	SampleSize  int     `json:"sample_size"`
}

// Location distinguishes home and away splits in the match history.
type Location string

const (
	LocationHome Location = "home"
	LocationAway Location = "away"
)

// MatchContext is the per-request input to the pipeline.
type MatchContext struct {
	MatchID     string                 `json:"match_id"`
	HomeTeam    string                 `json:"home_team"`
	AwayTeam    string                 `json:"away_team"`
	League      string                 `json:"league"`
	Competition string                 `json:"competition,omitempty"`
	Referee     string                 `json:"referee,omitempty"`
	MatchDate   time.Time              `json:"match_date,omitempty"`
	Odds        map[MarketType]float64 `json:"odds"`
}

// LineupImpact is the adjusted expected-goals pair feeding Monte Carlo.
type LineupImpact struct {
	HomeBaseXG float64 `json:"home_base_xg"`
	AwayBaseXG float64 `json:"away_base_xg"`
}

// MonteCarloResult holds per-market probabilities from one simulation run.
type MonteCarloResult struct {
	HomeWinProb        float64 `json:"home_win_prob"`
	DrawProb           float64 `json:"draw_prob"`
	AwayWinProb        float64 `json:"away_win_prob"`
	Over15Prob         float64 `json:"over_15_prob"`
	Over25Prob         float64 `json:"over_25_prob"`
	Over35Prob         float64 `json:"over_35_prob"`
	BTTSProb           float64 `json:"btts_prob"`
	CleanSheetHomeProb float64 `json:"clean_sheet_home_prob"`
	CleanSheetAwayProb float64 `json:"clean_sheet_away_prob"`
	ConfidenceScore    float64 `json:"confidence_score"`
	NSimulations       int     `json:"n_simulations"`
}

// ConfidenceLevel buckets the composite score for consumers.
type ConfidenceLevel string

const (
	ConfidenceElite    ConfidenceLevel = "ELITE"
	ConfidenceVeryHigh ConfidenceLevel = "VERY HIGH"
	ConfidenceHigh     ConfidenceLevel = "HIGH"
	ConfidenceMedium   ConfidenceLevel = "MEDIUM"
	ConfidenceLow      ConfidenceLevel = "LOW"
	ConfidenceVeryLow  ConfidenceLevel = "VERY LOW"
	ConfidenceBlocked  ConfidenceLevel = "BLOCKED"
)

// QuantPick is one evaluated market. Picks are emitted once and never
// mutated afterwards.
type QuantPick struct {
	MatchID           string          `json:"match_id"`
	MarketType        MarketType      `json:"market_type"`
	Odds              float64         `json:"odds"`
	MCProb            float64         `json:"mc_prob"`
	MCEdge            float64         `json:"mc_edge"`
	MCScore           int             `json:"mc_score"`
	MomentumScore     int             `json:"momentum_score"`
	TacticalScore     int             `json:"tactical_score"`
	IntelligenceScore int             `json:"intelligence_score"`
	ClassScore        int             `json:"class_score"`
	RefereeScore      int             `json:"referee_score"`
	H2HScore          int             `json:"h2h_score"`
	ScorerScore       int             `json:"scorer_score"`
	SweetSpotScore    int             `json:"sweet_spot_score"`
	FinalScore        int             `json:"final_score"`
	KellyFraction     float64         `json:"kelly_fraction"`
	DataCoverage      float64         `json:"data_coverage"`
	IsTrap            bool            `json:"is_trap"`
	TrapReason        string          `json:"trap_reason,omitempty"`
	Recommendation    string          `json:"recommendation"`
	ConfidenceLevel   ConfidenceLevel `json:"confidence_level"`
}

// round4 rounds to 4 decimals for serialization.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// MarshalJSON rounds probabilities and the Kelly fraction to 4 decimals.
// Scores stay exact integers.
func (p QuantPick) MarshalJSON() ([]byte, error) {
	type alias QuantPick
	a := alias(p)
	a.MCProb = round4(a.MCProb)
	a.MCEdge = round4(a.MCEdge)
	a.KellyFraction = round4(a.KellyFraction)
	a.DataCoverage = round4(a.DataCoverage)
	return json.Marshal(a)
}
