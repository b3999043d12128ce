package model

// SettlementOutcome is the resolution of a pick against a final score.
type SettlementOutcome string

const (
	SettleWon     SettlementOutcome = "won"
	SettleLost    SettlementOutcome = "lost"
	SettleVoid    SettlementOutcome = "void"    // draw-no-bet refund
	SettleUnknown SettlementOutcome = "unknown" // unfinished match or unknown market
)

// Settle resolves a market against a finished match result. Unfinished
// results settle as unknown; draw-no-bet on a draw settles void.
func (m MarketType) Settle(r MatchResult) SettlementOutcome {
	if !r.IsFinished {
		return SettleUnknown
	}
	total := r.ScoreHome + r.ScoreAway

	won := func(b bool) SettlementOutcome {
		if b {
			return SettleWon
		}
		return SettleLost
	}

	switch m {
	case MarketHome:
		return won(r.Outcome == OutcomeHome)
	case MarketDraw:
		return won(r.Outcome == OutcomeDraw)
	case MarketAway:
		return won(r.Outcome == OutcomeAway)
	case MarketDC1X:
		return won(r.Outcome == OutcomeHome || r.Outcome == OutcomeDraw)
	case MarketDCX2:
		return won(r.Outcome == OutcomeAway || r.Outcome == OutcomeDraw)
	case MarketDC12:
		return won(r.Outcome == OutcomeHome || r.Outcome == OutcomeAway)
	case MarketDNBHome:
		if r.Outcome == OutcomeDraw {
			return SettleVoid
		}
		return won(r.Outcome == OutcomeHome)
	case MarketDNBAway:
		if r.Outcome == OutcomeDraw {
			return SettleVoid
		}
		return won(r.Outcome == OutcomeAway)
	case MarketOver15:
		return won(float64(total) > 1.5)
	case MarketUnder15:
		return won(float64(total) < 1.5)
	case MarketOver25:
		return won(float64(total) > 2.5)
	case MarketUnder25:
		return won(float64(total) < 2.5)
	case MarketOver35:
		return won(float64(total) > 3.5)
	case MarketUnder35:
		return won(float64(total) < 3.5)
	case MarketBTTSYes:
		return won(r.ScoreHome >= 1 && r.ScoreAway >= 1)
	case MarketBTTSNo:
		return won(r.ScoreHome == 0 || r.ScoreAway == 0)
	case MarketCleanSheetHome:
		return won(r.ScoreAway == 0)
	case MarketCleanSheetAway:
		return won(r.ScoreHome == 0)
	}
	return SettleUnknown
}

// OutcomeFromScore derives the 1X2 outcome of a scoreline.
func OutcomeFromScore(home, away int) MatchOutcome {
	switch {
	case home > away:
		return OutcomeHome
	case home < away:
		return OutcomeAway
	}
	return OutcomeDraw
}
