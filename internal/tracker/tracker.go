// Package tracker is the downstream consumer of emitted picks: it resolves
// them against final scores, computes unit-stake profit, and aggregates
// performance for the calibration loop. It never writes back into the core.
package tracker

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pitchquant/pitchquant/internal/model"
)

// SettledPick pairs a pick with its resolution.
type SettledPick struct {
	Pick    model.QuantPick         `json:"pick"`
	Outcome model.SettlementOutcome `json:"outcome"`
	Profit  float64                 `json:"profit"` // unit stake; void returns 0
}

// Settle resolves one pick against a finished result. Diagnostic SKIP
// entries and unfinished results settle as unknown with zero profit.
func Settle(pick model.QuantPick, result model.MatchResult) SettledPick {
	settled := SettledPick{Pick: pick, Outcome: model.SettleUnknown}

	if strings.HasPrefix(pick.Recommendation, "SKIP") {
		return settled
	}
	outcome := pick.MarketType.Settle(result)
	settled.Outcome = outcome

	switch outcome {
	case model.SettleWon:
		settled.Profit = pick.Odds - 1
	case model.SettleLost:
		settled.Profit = -1
	}
	return settled
}

// SettleAll resolves a fixture's pick list.
func SettleAll(picks []model.QuantPick, result model.MatchResult) []SettledPick {
	settled := make([]SettledPick, 0, len(picks))
	for _, p := range picks {
		settled = append(settled, Settle(p, result))
	}
	return settled
}

// Summary aggregates settled picks.
type Summary struct {
	Settled int     `json:"settled"`
	Won     int     `json:"won"`
	Lost    int     `json:"lost"`
	Void    int     `json:"void"`
	HitRate float64 `json:"hit_rate"` // won / (won + lost)
	Profit  float64 `json:"profit"`   // unit-stake total
	ROI     float64 `json:"roi"`      // profit / settled stakes
}

// Summarize folds settlements into a performance summary.
func Summarize(settled []SettledPick) Summary {
	var s Summary
	for _, sp := range settled {
		switch sp.Outcome {
		case model.SettleWon:
			s.Won++
		case model.SettleLost:
			s.Lost++
		case model.SettleVoid:
			s.Void++
		default:
			continue
		}
		s.Settled++
		s.Profit += sp.Profit
	}
	if decided := s.Won + s.Lost; decided > 0 {
		s.HitRate = float64(s.Won) / float64(decided)
	}
	if s.Settled > 0 {
		s.ROI = s.Profit / float64(s.Settled)
	}
	return s
}

// TrapLedger tracks how often trap rules fire and how often they were
// right: a trap is vindicated when the blocked market would have lost.
type TrapLedger struct {
	Triggered  int `json:"triggered"`
	Vindicated int `json:"vindicated"`
}

// Accuracy is the share of triggered traps that saved a losing bet.
func (t TrapLedger) Accuracy() float64 {
	if t.Triggered == 0 {
		return 0
	}
	return float64(t.Vindicated) / float64(t.Triggered)
}

// RecordTraps updates the ledger from a fixture's picks and final result.
func (t *TrapLedger) RecordTraps(picks []model.QuantPick, result model.MatchResult) {
	for _, p := range picks {
		if !p.IsTrap {
			continue
		}
		t.Triggered++
		if p.MarketType.Settle(result) == model.SettleLost {
			t.Vindicated++
		}
	}
	log.Debug().Int("triggered", t.Triggered).Int("vindicated", t.Vindicated).
		Msg("trap ledger updated")
}
