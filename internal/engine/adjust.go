package engine

import (
	"math"

	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/model"
)

// CrusherMultiplier is the clean-sheet suppression curve. csRate is the
// opposing defense's clean-sheet tendency in [0,100]. At or below the
// neutral rate the multiplier is exactly 1.0; above it the curve decreases
// continuously down to the floor.
func CrusherMultiplier(cfg config.Config, csRate float64) float64 {
	cr := cfg.Crusher
	if csRate <= cr.NeutralRate {
		return 1.0
	}
	mult := 1.0 - math.Pow((csRate-cr.NeutralRate)/cr.Span, cr.Exponent)
	return math.Max(cr.Floor, mult)
}

// ApplyDefenseCrusher suppresses each attacker's xG by the opposing
// defense's clean-sheet behavior. Missing tendencies default to the neutral
// rate (no change).
func ApplyDefenseCrusher(cfg config.Config, impact model.LineupImpact, homeIntel, awayIntel *model.TeamIntelligence) model.LineupImpact {
	homeCS := cfg.Crusher.NeutralRate // tendency of the home defense
	awayCS := cfg.Crusher.NeutralRate
	if homeIntel != nil && homeIntel.CleanSheetTendency > 0 {
		homeCS = homeIntel.CleanSheetTendency
	}
	if awayIntel != nil && awayIntel.CleanSheetTendency > 0 {
		awayCS = awayIntel.CleanSheetTendency
	}

	// The home attack runs into the away defense, and vice versa.
	impact.HomeBaseXG *= CrusherMultiplier(cfg, awayCS)
	impact.AwayBaseXG *= CrusherMultiplier(cfg, homeCS)
	return impact
}

// ApplyTierDifferential nudges the pair by class gap. The hand is lighter
// than the Defense Crusher's: clean-sheet behavior already carries most of
// the elite-vs-minnow signal.
func ApplyTierDifferential(cfg config.Config, impact model.LineupImpact, homeTier, awayTier model.Tier) model.LineupImpact {
	d := homeTier.Rank() - awayTier.Rank()
	t := cfg.Tiers
	switch {
	case d >= 2:
		impact.HomeBaseXG *= t.StrongTwo
		impact.AwayBaseXG *= t.WeakTwo
	case d == 1:
		impact.HomeBaseXG *= t.StrongOne
		impact.AwayBaseXG *= t.WeakOne
	case d == -1:
		impact.HomeBaseXG *= t.WeakOne
		impact.AwayBaseXG *= t.StrongOne
	case d <= -2:
		impact.HomeBaseXG *= t.WeakTwo
		impact.AwayBaseXG *= t.StrongTwo
	}
	return impact
}

// ClipXG bounds both rates to the design range before simulation.
func ClipXG(cfg config.Config, impact model.LineupImpact) model.LineupImpact {
	clip := func(v float64) float64 {
		return math.Max(cfg.XGClipMin, math.Min(cfg.XGClipMax, v))
	}
	impact.HomeBaseXG = clip(impact.HomeBaseXG)
	impact.AwayBaseXG = clip(impact.AwayBaseXG)
	return impact
}

// AdjustXG runs the contextual adjusters in order: Defense Crusher, tier
// differential, clip.
func AdjustXG(cfg config.Config, impact model.LineupImpact, homeTier, awayTier model.Tier, homeIntel, awayIntel *model.TeamIntelligence) model.LineupImpact {
	impact = ApplyDefenseCrusher(cfg, impact, homeIntel, awayIntel)
	impact = ApplyTierDifferential(cfg, impact, homeTier, awayTier)
	return ClipXG(cfg, impact)
}
