// Package config holds the engine's closed set of adjustable knobs. Anything
// not listed here is not configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pitchquant/pitchquant/internal/model"
)

// LeaguePriors are the league-mean scoring rates used for shrinkage.
type LeaguePriors struct {
	HomeScored   float64 `yaml:"home_scored"`
	HomeConceded float64 `yaml:"home_conceded"`
	AwayScored   float64 `yaml:"away_scored"`
	AwayConceded float64 `yaml:"away_conceded"`
}

// ShrinkageTable maps the absolute tier differential to the pseudo-count C
// in (stat*n + prior*C) / (n + C). A wide tier gap trusts the sample more.
type ShrinkageTable struct {
	TierGapWide int `yaml:"tier_gap_wide"` // |diff| >= 2
	TierGapOne  int `yaml:"tier_gap_one"`  // |diff| == 1
	TierGapNone int `yaml:"tier_gap_none"` // same tier
}

// C returns the pseudo-count for a tier differential.
func (s ShrinkageTable) C(tierDiff int) int {
	if tierDiff < 0 {
		tierDiff = -tierDiff
	}
	switch {
	case tierDiff >= 2:
		return s.TierGapWide
	case tierDiff == 1:
		return s.TierGapOne
	}
	return s.TierGapNone
}

// Crusher parameterizes the clean-sheet xG suppression: at or below
// NeutralRate the multiplier is exactly 1.0, above it the opponent attack
// is scaled by max(Floor, 1 - ((rate-NeutralRate)/Span)^Exponent). The
// curve is continuous and monotonically non-increasing in the rate.
type Crusher struct {
	Exponent    float64 `yaml:"exponent"`
	Floor       float64 `yaml:"floor"`
	NeutralRate float64 `yaml:"neutral_rate"`
	Span        float64 `yaml:"span"`
}

// TierMultipliers are the xG multipliers applied by tier differential.
type TierMultipliers struct {
	StrongTwo float64 `yaml:"strong_two"` // favored side, |diff| >= 2
	StrongOne float64 `yaml:"strong_one"`
	WeakOne   float64 `yaml:"weak_one"`
	WeakTwo   float64 `yaml:"weak_two"`
}

// Band is an inclusive probability interval.
type Band struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Contains reports whether p falls inside the band.
func (b Band) Contains(p float64) bool {
	return p >= b.Low && p <= b.High
}

// Config is the full engine knob set.
type Config struct {
	NSimulations int             `yaml:"n_simulations"`
	LeaguePriors LeaguePriors    `yaml:"league_priors"`
	Shrinkage    ShrinkageTable  `yaml:"shrinkage"`
	Crusher      Crusher         `yaml:"crusher"`
	Tiers        TierMultipliers `yaml:"tier_multipliers"`
	XGClipMin    float64         `yaml:"xg_clip_min"`
	XGClipMax    float64         `yaml:"xg_clip_max"`
	KellyCap     float64         `yaml:"kelly_cap"`

	// SweetSpots is the calibrated band per market. HighVariance markets
	// additionally take a penalty at extreme probabilities.
	SweetSpots   map[model.MarketType]Band `yaml:"sweet_spots"`
	HighVariance []model.MarketType        `yaml:"high_variance"`

	// CupRemap maps cup competitions to the domestic league whose history
	// stands in for them. Matched case-insensitively by substring.
	CupRemap map[string]string `yaml:"cup_remap"`
}

// Default returns the compiled-in knob values.
func Default() Config {
	return Config{
		NSimulations: 5000,
		LeaguePriors: LeaguePriors{
			HomeScored:   1.55,
			HomeConceded: 1.20,
			AwayScored:   1.25,
			AwayConceded: 1.35,
		},
		Shrinkage: ShrinkageTable{TierGapWide: 2, TierGapOne: 5, TierGapNone: 10},
		Crusher:   Crusher{Exponent: 1.5, Floor: 0.30, NeutralRate: 30, Span: 80},
		Tiers:     TierMultipliers{StrongTwo: 1.12, StrongOne: 1.06, WeakOne: 0.94, WeakTwo: 0.88},
		XGClipMin: 0.15,
		XGClipMax: 6.0,
		KellyCap:  0.25,
		SweetSpots: map[model.MarketType]Band{
			model.MarketOver25:  {Low: 0.55, High: 0.70},
			model.MarketUnder25: {Low: 0.55, High: 0.70},
			model.MarketBTTSYes: {Low: 0.55, High: 0.72},
			model.MarketBTTSNo:  {Low: 0.55, High: 0.72},
			model.MarketHome:    {Low: 0.50, High: 0.68},
			model.MarketAway:    {Low: 0.45, High: 0.65},
			model.MarketOver15:  {Low: 0.70, High: 0.85},
			model.MarketOver35:  {Low: 0.40, High: 0.58},
		},
		HighVariance: []model.MarketType{
			model.MarketOver35, model.MarketUnder15,
			model.MarketBTTSYes, model.MarketBTTSNo,
			model.MarketCleanSheetHome, model.MarketCleanSheetAway,
		},
		CupRemap: map[string]string{
			"League Cup":      "Premier League",
			"Carabao Cup":     "Premier League",
			"FA Cup":          "Premier League",
			"Copa del Rey":    "La Liga",
			"DFB Pokal":       "Bundesliga",
			"Coppa Italia":    "Serie A",
			"Coupe de France": "Ligue 1",
		},
	}
}

// Load reads a YAML overlay on top of the defaults. A missing path returns
// the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects knob values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.NSimulations < 100 {
		return fmt.Errorf("n_simulations %d below minimum 100", c.NSimulations)
	}
	if c.XGClipMin <= 0 || c.XGClipMax <= c.XGClipMin {
		return fmt.Errorf("invalid xg clip range [%.2f, %.2f]", c.XGClipMin, c.XGClipMax)
	}
	if c.KellyCap <= 0 || c.KellyCap > 1 {
		return fmt.Errorf("kelly_cap %.2f outside (0, 1]", c.KellyCap)
	}
	if c.Crusher.Floor <= 0 || c.Crusher.Floor >= 1 {
		return fmt.Errorf("crusher floor %.2f outside (0, 1)", c.Crusher.Floor)
	}
	if c.Crusher.Span <= 0 {
		return fmt.Errorf("crusher span %.1f must be positive", c.Crusher.Span)
	}
	for m, b := range c.SweetSpots {
		if b.Low < 0 || b.High > 1 || b.Low > b.High {
			return fmt.Errorf("sweet spot for %s invalid [%.2f, %.2f]", m, b.Low, b.High)
		}
	}
	return nil
}
