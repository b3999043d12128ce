package engine

import "github.com/pitchquant/pitchquant/internal/model"

// TrapVerdict is the outcome of the trap filter for one market.
type TrapVerdict struct {
	IsTrap  bool
	Reason  string
	Penalty int      // subtracted from the final score (CAUTION rules)
	Notes   []string // INFO rules, recorded for explanation only
}

// cautionPenalty is subtracted from the final score per CAUTION rule hit.
const cautionPenalty = 15

// EvaluateTraps applies the market-trap rules for both sides of the
// fixture. homeTraps are rules registered against the home team (respecting
// applies_home) and awayTraps against the away team (applies_away). The
// first TRAP hit blocks; CAUTION hits stack as score penalties.
func EvaluateTraps(homeTraps, awayTraps []model.MarketTrap) TrapVerdict {
	var verdict TrapVerdict

	apply := func(traps []model.MarketTrap, home bool) {
		for _, t := range traps {
			if home && !t.AppliesHome {
				continue
			}
			if !home && !t.AppliesAway {
				continue
			}
			switch t.AlertLevel {
			case model.AlertTrap:
				if !verdict.IsTrap {
					verdict.IsTrap = true
					verdict.Reason = t.AlertReason
				}
			case model.AlertCaution:
				verdict.Penalty += cautionPenalty
			case model.AlertInfo:
				verdict.Notes = append(verdict.Notes, t.AlertReason)
			}
		}
	}

	apply(homeTraps, true)
	apply(awayTraps, false)
	return verdict
}
