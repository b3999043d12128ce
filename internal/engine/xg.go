// Package engine implements the per-match prediction pipeline: expected
// goals, contextual adjustment, Monte Carlo simulation, hybrid blending,
// layer scoring, trap filtering and recommendation.
package engine

import (
	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/model"
)

const (
	defaultHomeRate = 1.3
	defaultAwayRate = 1.1
)

// XGInputs carries everything the base expected-goals model consumes.
// Absent lookups are nil.
type XGInputs struct {
	HomeIntel *model.TeamIntelligence
	AwayIntel *model.TeamIntelligence
	HomeStats *model.LocationStats // competition-filtered, home location
	AwayStats *model.LocationStats // competition-filtered, away location
	TierDiff  int                  // rank(home) - rank(away)
}

// shrink pulls a competition-filtered stat toward the league prior with a
// pseudo-count chosen by tier differential.
func shrink(cfg config.Config, stat float64, n int, prior float64, tierDiff int) float64 {
	c := float64(cfg.Shrinkage.C(tierDiff))
	return (stat*float64(n) + prior*c) / (float64(n) + c)
}

// attackRate resolves the scoring-side waterfall: competition-filtered
// average (shrunk), then xG average, then plain goals average, then default.
func attackRate(cfg config.Config, stats *model.LocationStats, intel *model.TeamIntelligence, prior float64, tierDiff int, goalsAvg func(*model.TeamIntelligence) float64, fallback float64) float64 {
	if stats != nil {
		return shrink(cfg, stats.ScoredAvg, stats.SampleSize, prior, tierDiff)
	}
	if intel != nil {
		if intel.XGForAvg > 0 {
			return intel.XGForAvg
		}
		if g := goalsAvg(intel); g > 0 {
			return g
		}
	}
	return fallback
}

// defenseRate resolves the conceding-side waterfall symmetrically.
func defenseRate(cfg config.Config, stats *model.LocationStats, intel *model.TeamIntelligence, prior float64, tierDiff int, concededAvg func(*model.TeamIntelligence) float64, fallback float64) float64 {
	if stats != nil {
		return shrink(cfg, stats.ConcededAvg, stats.SampleSize, prior, tierDiff)
	}
	if intel != nil {
		if intel.XGAgainstAvg > 0 {
			return intel.XGAgainstAvg
		}
		if g := concededAvg(intel); g > 0 {
			return g
		}
	}
	return fallback
}

// BaseXG produces the unadjusted expected-goals pair. Deterministic for
// identical inputs and never NaN: every waterfall bottoms out at a positive
// default.
func BaseXG(cfg config.Config, in XGInputs) model.LineupImpact {
	homeAttack := attackRate(cfg, in.HomeStats, in.HomeIntel, cfg.LeaguePriors.HomeScored, in.TierDiff,
		func(i *model.TeamIntelligence) float64 { return i.HomeGoalsScoredAvg }, defaultHomeRate)
	awayDefense := defenseRate(cfg, in.AwayStats, in.AwayIntel, cfg.LeaguePriors.AwayConceded, in.TierDiff,
		func(i *model.TeamIntelligence) float64 { return i.AwayGoalsConcededAvg }, defaultHomeRate)

	awayAttack := attackRate(cfg, in.AwayStats, in.AwayIntel, cfg.LeaguePriors.AwayScored, in.TierDiff,
		func(i *model.TeamIntelligence) float64 { return i.AwayGoalsScoredAvg }, defaultAwayRate)
	homeDefense := defenseRate(cfg, in.HomeStats, in.HomeIntel, cfg.LeaguePriors.HomeConceded, in.TierDiff,
		func(i *model.TeamIntelligence) float64 { return i.HomeGoalsConcededAvg }, defaultAwayRate)

	return model.LineupImpact{
		HomeBaseXG: 0.6*homeAttack + 0.4*awayDefense,
		AwayBaseXG: 0.6*awayAttack + 0.4*homeDefense,
	}
}
