package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/metrics"
	"github.com/pitchquant/pitchquant/internal/model"
)

// FeatureSource is the read-only feature store the pipeline consumes.
// Every lookup tolerates absence; implementations must never error on
// missing rows.
type FeatureSource interface {
	Canonical(name string) string
	Team(ctx context.Context, name string) (model.Team, bool)
	Intelligence(ctx context.Context, name string) (model.TeamIntelligence, bool)
	Momentum(ctx context.Context, name string) (model.Momentum, bool)
	Tactical(ctx context.Context, home, away model.PlayingStyle) (model.TacticalRow, bool)
	Referee(ctx context.Context, name string) (model.Referee, bool)
	HeadToHead(ctx context.Context, teamA, teamB string) (model.HeadToHead, bool)
	TopScorers(ctx context.Context, name string, limit int) ([]model.ScorerProfile, bool)
	Traps(ctx context.Context, name string, market model.MarketType) []model.MarketTrap
	FilteredStats(ctx context.Context, name string, loc model.Location, competition string) (model.LocationStats, bool)
}

// optionalSources is the divisor of the data-coverage fraction: the six
// optional lookups (intelligence x2, momentum, tactical, referee, H2H).
const optionalSources = 6

// scorerLimit is how many top scorers feed the firepower profile.
const scorerLimit = 5

// Pipeline evaluates one fixture at a time. It holds only read-only
// references and is safe for concurrent use across fixtures.
type Pipeline struct {
	src    FeatureSource
	cfg    config.Config
	seed   int64 // 0 means unseeded
	budget time.Duration
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithSeed fixes the Monte Carlo seed for reproducible runs.
func WithSeed(seed int64) Option {
	return func(p *Pipeline) { p.seed = seed }
}

// WithBudget bounds the wall-clock time of one fixture. Markets not
// evaluated before expiry come back as SKIP: timeout.
func WithBudget(d time.Duration) Option {
	return func(p *Pipeline) { p.budget = d }
}

// New builds a Pipeline over a feature source.
func New(src FeatureSource, cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{src: src, cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// fixtureData is everything fetched up front for one fixture.
type fixtureData struct {
	homeTeam, awayTeam   *model.Team
	homeIntel, awayIntel *model.TeamIntelligence
	homeMom, awayMom     *model.Momentum
	tactical             *model.TacticalRow
	referee              *model.Referee
	h2h                  *model.HeadToHead
	homeFire, awayFire   *model.FirepowerProfile
	homeStats, awayStats *model.LocationStats
	homeName, awayName   string // canonical
	coverage             float64
}

// AnalyzeMatch runs the full pipeline for one fixture and returns the
// ranked pick list. The only hard failure is a fixture whose team names
// both fail to resolve; anything else degrades per market. A panic inside
// the pipeline is caught and reported as a single internal-error entry.
func (p *Pipeline) AnalyzeMatch(ctx context.Context, mctx model.MatchContext) (picks []model.QuantPick, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			log.Error().Str("match_id", mctx.MatchID).Str("correlation_id", correlationID).
				Interface("panic", r).Msg("pipeline internal error")
			picks = []model.QuantPick{{
				MatchID:         mctx.MatchID,
				Recommendation:  "SKIP: internal error",
				ConfidenceLevel: model.ConfidenceVeryLow,
				TrapReason:      "correlation_id=" + correlationID,
			}}
			err = nil
		}
	}()

	metrics.Default().FixturesAnalyzed.Inc()

	deadline := time.Time{}
	if p.budget > 0 {
		deadline = time.Now().Add(p.budget)
	}

	markets := sortedMarkets(mctx.Odds)
	if len(markets) == 0 {
		return []model.QuantPick{}, nil
	}

	if cause := validateFixture(mctx); cause != "" {
		return skipAll(mctx, markets, cause), nil
	}

	data, err := p.gather(ctx, mctx)
	if err != nil {
		return nil, err
	}

	impact := p.expectedGoals(data)
	mc := p.simulate(impact)

	log.Debug().Str("match_id", mctx.MatchID).
		Float64("home_xg", impact.HomeBaseXG).Float64("away_xg", impact.AwayBaseXG).
		Float64("coverage", data.coverage).Msg("fixture prepared")

	var ranked, diagnostics []model.QuantPick
	for _, market := range markets {
		if expired(ctx, deadline) {
			diagnostics = append(diagnostics, skipPick(mctx, market, "timeout", data.coverage))
			continue
		}

		pick, skipCause := p.evaluateMarket(ctx, mctx, market, mc, data)
		if skipCause != "" {
			diagnostics = append(diagnostics, skipPick(mctx, market, skipCause, data.coverage))
			continue
		}
		if strings.HasPrefix(pick.Recommendation, LabelSkip) {
			// Scored below the watch threshold: dropped from the output.
			metrics.Default().MarketsEvaluated.WithLabelValues(string(model.ConfidenceVeryLow)).Inc()
			continue
		}
		metrics.Default().MarketsEvaluated.WithLabelValues(string(pick.ConfidenceLevel)).Inc()
		ranked = append(ranked, pick)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		if ranked[i].MCEdge != ranked[j].MCEdge {
			return ranked[i].MCEdge > ranked[j].MCEdge
		}
		return ranked[i].Odds < ranked[j].Odds
	})

	return append(ranked, diagnostics...), nil
}

// sortedMarkets fixes the evaluation order for reproducibility.
func sortedMarkets(odds map[model.MarketType]float64) []model.MarketType {
	markets := make([]model.MarketType, 0, len(odds))
	for m := range odds {
		markets = append(markets, m)
	}
	sort.Slice(markets, func(i, j int) bool { return markets[i] < markets[j] })
	return markets
}

// validateFixture returns a cause string for fixture-wide input problems.
func validateFixture(mctx model.MatchContext) string {
	if strings.EqualFold(strings.TrimSpace(mctx.HomeTeam), strings.TrimSpace(mctx.AwayTeam)) {
		return "same team home and away"
	}
	if !mctx.MatchDate.IsZero() && mctx.MatchDate.Before(time.Now()) {
		return "match date in the past"
	}
	return ""
}

func expired(ctx context.Context, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return !deadline.IsZero() && time.Now().After(deadline)
}

func skipAll(mctx model.MatchContext, markets []model.MarketType, cause string) []model.QuantPick {
	picks := make([]model.QuantPick, 0, len(markets))
	for _, m := range markets {
		picks = append(picks, skipPick(mctx, m, cause, 0))
	}
	return picks
}

func skipPick(mctx model.MatchContext, market model.MarketType, cause string, coverage float64) model.QuantPick {
	return model.QuantPick{
		MatchID:         mctx.MatchID,
		MarketType:      market,
		Odds:            mctx.Odds[market],
		DataCoverage:    coverage,
		Recommendation:  "SKIP: " + cause,
		ConfidenceLevel: model.ConfidenceVeryLow,
	}
}

// gather fans out to the data access layer. Every absence is tolerated;
// the fixture fails only when neither team name resolves.
func (p *Pipeline) gather(ctx context.Context, mctx model.MatchContext) (*fixtureData, error) {
	data := &fixtureData{
		homeName: p.src.Canonical(mctx.HomeTeam),
		awayName: p.src.Canonical(mctx.AwayTeam),
	}

	homeTeam, homeOK := p.src.Team(ctx, mctx.HomeTeam)
	awayTeam, awayOK := p.src.Team(ctx, mctx.AwayTeam)
	if !homeOK && !awayOK {
		return nil, fmt.Errorf("fixture %s: neither %q nor %q resolved", mctx.MatchID, mctx.HomeTeam, mctx.AwayTeam)
	}
	if homeOK {
		data.homeTeam = &homeTeam
		data.homeName = homeTeam.Name
	}
	if awayOK {
		data.awayTeam = &awayTeam
		data.awayName = awayTeam.Name
	}

	covered := 0

	if intel, ok := p.src.Intelligence(ctx, mctx.HomeTeam); ok {
		data.homeIntel = &intel
		covered++
	}
	if intel, ok := p.src.Intelligence(ctx, mctx.AwayTeam); ok {
		data.awayIntel = &intel
		covered++
	}

	homeMom, homeMomOK := p.src.Momentum(ctx, mctx.HomeTeam)
	awayMom, awayMomOK := p.src.Momentum(ctx, mctx.AwayTeam)
	if homeMomOK && awayMomOK {
		data.homeMom = &homeMom
		data.awayMom = &awayMom
		covered++
	}

	if homeOK && awayOK {
		if row, ok := p.src.Tactical(ctx, homeTeam.Style, awayTeam.Style); ok {
			data.tactical = &row
			covered++
		}
	}

	if ref, ok := p.src.Referee(ctx, mctx.Referee); ok {
		data.referee = &ref
		covered++
	}

	if h2h, ok := p.src.HeadToHead(ctx, mctx.HomeTeam, mctx.AwayTeam); ok {
		data.h2h = &h2h
		covered++
	}

	data.coverage = float64(covered) / optionalSources

	if scorers, ok := p.src.TopScorers(ctx, mctx.HomeTeam, scorerLimit); ok {
		data.homeFire = AggregateFirepower(data.homeName, scorers)
	}
	if scorers, ok := p.src.TopScorers(ctx, mctx.AwayTeam, scorerLimit); ok {
		data.awayFire = AggregateFirepower(data.awayName, scorers)
	}

	competition := mctx.Competition
	if competition == "" {
		competition = mctx.League
	}
	if stats, ok := p.src.FilteredStats(ctx, mctx.HomeTeam, model.LocationHome, competition); ok {
		data.homeStats = &stats
	}
	if stats, ok := p.src.FilteredStats(ctx, mctx.AwayTeam, model.LocationAway, competition); ok {
		data.awayStats = &stats
	}

	return data, nil
}

// expectedGoals drives C2 and C3.
func (p *Pipeline) expectedGoals(data *fixtureData) model.LineupImpact {
	homeTier, awayTier := model.TierB, model.TierB
	if data.homeTeam != nil {
		homeTier = data.homeTeam.Tier
	}
	if data.awayTeam != nil {
		awayTier = data.awayTeam.Tier
	}

	impact := BaseXG(p.cfg, XGInputs{
		HomeIntel: data.homeIntel,
		AwayIntel: data.awayIntel,
		HomeStats: data.homeStats,
		AwayStats: data.awayStats,
		TierDiff:  homeTier.Rank() - awayTier.Rank(),
	})
	return AdjustXG(p.cfg, impact, homeTier, awayTier, data.homeIntel, data.awayIntel)
}

func (p *Pipeline) simulate(impact model.LineupImpact) model.MonteCarloResult {
	sim := NewSimulator(p.cfg.NSimulations)
	if p.seed != 0 {
		sim = NewSeededSimulator(p.cfg.NSimulations, p.seed)
	}
	start := time.Now()
	mc := sim.Run(impact.HomeBaseXG, impact.AwayBaseXG)
	metrics.Default().SimDuration.Observe(time.Since(start).Seconds())
	return mc
}

// evaluateMarket scores one market. A non-empty skipCause means the market
// produced a diagnostic SKIP instead of a pick. Panics are contained here
// so one broken market cannot take the fixture down.
func (p *Pipeline) evaluateMarket(ctx context.Context, mctx model.MatchContext, market model.MarketType, mc model.MonteCarloResult, data *fixtureData) (pick model.QuantPick, skipCause string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("match_id", mctx.MatchID).Str("market", string(market)).
				Interface("panic", r).Msg("market evaluation failed")
			pick = model.QuantPick{}
			skipCause = fmt.Sprintf("evaluation error: %v", r)
		}
	}()

	odds := mctx.Odds[market]
	if !market.Known() {
		return model.QuantPick{}, "unknown market"
	}
	if odds <= 1.0 || odds >= 1000 {
		return model.QuantPick{}, "invalid odds"
	}

	// Raw Monte Carlo probability, then the blend refreshes both figures.
	prob := BlendProb(market, mc, data.homeIntel, data.awayIntel)
	edge := Edge(prob, odds)

	layers := ScoreLayers(p.cfg, LayerInput{
		Market:        market,
		Odds:          odds,
		Prob:          prob,
		Edge:          edge,
		MC:            mc,
		HomeTeam:      data.homeTeam,
		AwayTeam:      data.awayTeam,
		HomeIntel:     data.homeIntel,
		AwayIntel:     data.awayIntel,
		HomeMomentum:  data.homeMom,
		AwayMomentum:  data.awayMom,
		Tactical:      data.tactical,
		Referee:       data.referee,
		H2H:           data.h2h,
		HomeFirepower: data.homeFire,
		AwayFirepower: data.awayFire,
		HomeName:      data.homeName,
		AwayName:      data.awayName,
	})

	verdict := EvaluateTraps(
		p.src.Traps(ctx, mctx.HomeTeam, market),
		p.src.Traps(ctx, mctx.AwayTeam, market),
	)
	finalScore := layers.Total() - verdict.Penalty
	if verdict.IsTrap {
		metrics.Default().TrapBlocks.Inc()
	}

	label, level := Classify(finalScore, data.coverage, verdict.IsTrap, verdict.Reason)

	trapReason := verdict.Reason
	if trapReason == "" && len(verdict.Notes) > 0 {
		trapReason = strings.Join(verdict.Notes, "; ")
	}

	return model.QuantPick{
		MatchID:           mctx.MatchID,
		MarketType:        market,
		Odds:              odds,
		MCProb:            prob,
		MCEdge:            edge,
		MCScore:           layers.MonteCarlo,
		MomentumScore:     layers.Momentum,
		TacticalScore:     layers.Tactical,
		IntelligenceScore: layers.Intelligence,
		ClassScore:        layers.Class,
		RefereeScore:      layers.Referee,
		H2HScore:          layers.H2H,
		ScorerScore:       layers.Scorer,
		SweetSpotScore:    layers.SweetSpot,
		FinalScore:        finalScore,
		KellyFraction:     Kelly(p.cfg, prob, odds),
		DataCoverage:      data.coverage,
		IsTrap:            verdict.IsTrap,
		TrapReason:        trapReason,
		Recommendation:    label,
		ConfidenceLevel:   level,
	}, ""
}
