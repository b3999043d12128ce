// Package store is the read-only data access layer over the feature store.
// Every lookup takes a raw team name, normalizes it internally, and returns
// either a populated value or an absent marker; lookups never fail the
// caller on missing rows or infrastructure trouble.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/pitchquant/pitchquant/internal/metrics"
	"github.com/pitchquant/pitchquant/internal/model"
)

// minSampleSize is the smallest per-team, per-location sample the filtered
// stats and head-to-head lookups will serve.
const minSampleSize = 3

// Options configures a Store.
type Options struct {
	QueryTimeout time.Duration
	CupRemap     map[string]string
	Cache        *Cache // optional read-through cache; nil disables caching
}

// Store holds the connection handle and the alias map. It is safe for
// concurrent readers; nothing is mutated after construction.
type Store struct {
	db           *sqlx.DB
	aliases      aliasMap
	breaker      *gobreaker.CircuitBreaker
	cache        *Cache
	queryTimeout time.Duration
	cupRemap     map[string]string
}

// New builds a Store and loads the alias map. The alias load is the only
// query that can fail construction.
func New(ctx context.Context, db *sqlx.DB, opts Options) (*Store, error) {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	s := &Store{
		db:           db,
		breaker:      newBreaker("feature_store"),
		cache:        opts.Cache,
		queryTimeout: opts.QueryTimeout,
		cupRemap:     opts.CupRemap,
	}

	type aliasRow struct {
		Source    string `db:"source_name"`
		Canonical string `db:"canonical_name"`
	}
	var rows []aliasRow
	err := s.withRetry(ctx, "name_alias", func(qctx context.Context) error {
		return db.SelectContext(qctx, &rows,
			`SELECT source_name, canonical_name FROM name_aliases`)
	})
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load name aliases: %w", err)
	}
	aliases := make(aliasMap, len(rows)*2)
	for _, r := range rows {
		aliases[strings.ToLower(r.Source)] = r.Canonical
		// The map is bidirectional: canonical names resolve to themselves.
		aliases[strings.ToLower(r.Canonical)] = r.Canonical
	}
	s.aliases = aliases

	log.Info().Int("aliases", len(rows)).Msg("feature store ready")
	return s, nil
}

// Canonical exposes alias resolution for callers that need the canonical
// form without a lookup.
func (s *Store) Canonical(name string) string {
	return s.aliases.Canonical(name)
}

// absent logs and counts a lookup that produced no usable data.
func absent(entity, name string, err error) {
	metrics.Default().StoreAbsences.WithLabelValues(entity).Inc()
	if err != nil && err != sql.ErrNoRows {
		log.Warn().Err(err).Str("entity", entity).Str("name", name).
			Msg("lookup degraded to absence")
	}
}

// Team resolves a raw name to its canonical team row. When several rows
// match the variant set, the row whose name equals the canonical form wins;
// otherwise the most recently updated row does.
func (s *Store) Team(ctx context.Context, name string) (model.Team, bool) {
	if s.cache != nil {
		if t, ok := s.cache.Team(ctx, name); ok {
			return t, true
		}
	}

	variants := s.aliases.nameVariants(name)
	canonLower := strings.ToLower(s.aliases.Canonical(name))

	var team model.Team
	err := s.withRetry(ctx, "team", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &team, `
			SELECT name, tier, playing_style, home_fortress_factor,
			       away_weakness_factor, psychological_edge,
			       calculated_power_index, historical_strength,
			       big_game_factor, updated_at
			FROM teams
			WHERE LOWER(name) = ANY($1)
			ORDER BY (LOWER(name) = $2) DESC, updated_at DESC
			LIMIT 1`,
			pq.Array(variants), canonLower)
	})
	if err != nil {
		absent("team", name, err)
		return model.Team{}, false
	}
	if s.cache != nil {
		s.cache.PutTeam(ctx, name, team)
	}
	return team, true
}

// Intelligence returns the rolling-average row for a team.
func (s *Store) Intelligence(ctx context.Context, name string) (model.TeamIntelligence, bool) {
	variants := s.aliases.nameVariants(name)
	canonLower := strings.ToLower(s.aliases.Canonical(name))

	var intel model.TeamIntelligence
	err := s.withRetry(ctx, "intelligence", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &intel, `
			SELECT team_name, home_goals_scored_avg, home_goals_conceded_avg,
			       away_goals_scored_avg, away_goals_conceded_avg,
			       xg_for_avg, xg_against_avg, home_btts_rate, away_btts_rate,
			       home_over25_rate, away_over25_rate, clean_sheet_tendency,
			       btts_tendency, matches_analyzed, confidence_overall
			FROM team_intelligence
			WHERE LOWER(team_name) = ANY($1)
			ORDER BY (LOWER(team_name) = $2) DESC
			LIMIT 1`,
			pq.Array(variants), canonLower)
	})
	if err != nil {
		absent("intelligence", name, err)
		return model.TeamIntelligence{}, false
	}
	return intel, true
}

// Momentum returns a team's form row. Rows older than the freshness window
// are treated as absent.
func (s *Store) Momentum(ctx context.Context, name string) (model.Momentum, bool) {
	variants := s.aliases.nameVariants(name)

	var mom model.Momentum
	err := s.withRetry(ctx, "momentum", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &mom, `
			SELECT team_name, last_5_results, last_5_points, momentum_score,
			       goals_scored_last_5, goals_conceded_last_5,
			       clean_sheets_last_5, updated_at
			FROM team_momentum
			WHERE LOWER(team_name) = ANY($1)
			ORDER BY updated_at DESC
			LIMIT 1`,
			pq.Array(variants))
	})
	if err != nil {
		absent("momentum", name, err)
		return model.Momentum{}, false
	}
	if time.Since(mom.UpdatedAt) > model.MomentumFreshness {
		absent("momentum", name, nil)
		return model.Momentum{}, false
	}
	return mom, true
}

// Tactical returns the matrix row for an ordered (home, away) style pair.
func (s *Store) Tactical(ctx context.Context, home, away model.PlayingStyle) (model.TacticalRow, bool) {
	if s.cache != nil {
		if row, ok := s.cache.Tactical(ctx, home, away); ok {
			return row, true
		}
	}

	var row model.TacticalRow
	err := s.withRetry(ctx, "tactical", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &row, `
			SELECT style_a, style_b, btts_probability, over_25_probability,
			       avg_goals_total, win_rate_a
			FROM tactical_matrix
			WHERE style_a = $1 AND style_b = $2`,
			home, away)
	})
	if err != nil {
		absent("tactical", string(home)+"/"+string(away), err)
		return model.TacticalRow{}, false
	}
	if s.cache != nil {
		s.cache.PutTactical(ctx, row)
	}
	return row, true
}

// Referee returns a referee profile by exact name match.
func (s *Store) Referee(ctx context.Context, name string) (model.Referee, bool) {
	if strings.TrimSpace(name) == "" {
		return model.Referee{}, false
	}
	var ref model.Referee
	err := s.withRetry(ctx, "referee", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &ref, `
			SELECT name, avg_goals_per_game, avg_yellow_cards_per_game,
			       home_bias_factor, matches_officiated
			FROM referees
			WHERE name = $1`,
			name)
	})
	if err != nil {
		absent("referee", name, err)
		return model.Referee{}, false
	}
	return ref, true
}

// HeadToHead returns the history of an unordered team pair. Pairs with
// fewer than three meetings are absent.
func (s *Store) HeadToHead(ctx context.Context, teamA, teamB string) (model.HeadToHead, bool) {
	varsA := s.aliases.nameVariants(teamA)
	varsB := s.aliases.nameVariants(teamB)

	var h2h model.HeadToHead
	err := s.withRetry(ctx, "h2h", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &h2h, `
			SELECT team_a, team_b, total_matches, dominant_team,
			       dominance_factor, btts_percentage, over_25_percentage,
			       always_goals, low_scoring, last_5_wins_a, last_5_wins_b
			FROM head_to_head
			WHERE (LOWER(team_a) = ANY($1) AND LOWER(team_b) = ANY($2))
			   OR (LOWER(team_a) = ANY($2) AND LOWER(team_b) = ANY($1))
			ORDER BY total_matches DESC
			LIMIT 1`,
			pq.Array(varsA), pq.Array(varsB))
	})
	if err != nil {
		absent("h2h", teamA+"/"+teamB, err)
		return model.HeadToHead{}, false
	}
	if h2h.TotalMatches < minSampleSize {
		absent("h2h", teamA+"/"+teamB, nil)
		return model.HeadToHead{}, false
	}
	return h2h, true
}

// TopScorers returns a team's scorers ordered by season goals.
func (s *Store) TopScorers(ctx context.Context, name string, limit int) ([]model.ScorerProfile, bool) {
	variants := s.aliases.nameVariants(name)

	var scorers []model.ScorerProfile
	err := s.withRetry(ctx, "scorers", func(qctx context.Context) error {
		return s.db.SelectContext(qctx, &scorers, `
			SELECT player_name, team_name, season_goals, goals_per_90,
			       is_hot_streak, is_injured, is_key_player, form_score
			FROM scorer_profiles
			WHERE LOWER(team_name) = ANY($1)
			ORDER BY season_goals DESC
			LIMIT $2`,
			pq.Array(variants), limit)
	})
	if err != nil || len(scorers) == 0 {
		absent("scorers", name, err)
		return nil, false
	}
	return scorers, true
}

// Traps returns every trap rule registered for a team and market. Location
// applicability is the caller's concern.
func (s *Store) Traps(ctx context.Context, name string, market model.MarketType) []model.MarketTrap {
	variants := s.aliases.nameVariants(name)

	var traps []model.MarketTrap
	err := s.withRetry(ctx, "traps", func(qctx context.Context) error {
		return s.db.SelectContext(qctx, &traps, `
			SELECT team_name, market_type, alert_level, applies_home,
			       applies_away, alert_reason, alternative_market
			FROM market_traps
			WHERE LOWER(team_name) = ANY($1) AND market_type = $2`,
			pq.Array(variants), market)
	})
	if err != nil {
		absent("traps", name, err)
		return nil
	}
	return traps
}

// remapCompetition substitutes a cup competition with the domestic league
// whose history stands in for it. Matching is case-insensitive on the cup
// name appearing in the competition string.
func (s *Store) remapCompetition(competition string) string {
	lower := strings.ToLower(competition)
	for cup, league := range s.cupRemap {
		if strings.Contains(lower, strings.ToLower(cup)) {
			return league
		}
	}
	return competition
}

// FilteredStats averages a team's finished matches at one location within a
// competition (cups remapped to their domestic league). Samples smaller
// than three matches are absent.
func (s *Store) FilteredStats(ctx context.Context, name string, loc model.Location, competition string) (model.LocationStats, bool) {
	variants := s.aliases.nameVariants(name)
	league := s.remapCompetition(competition)

	teamCol, scoredCol, concededCol := "home_team", "score_home", "score_away"
	if loc == model.LocationAway {
		teamCol, scoredCol, concededCol = "away_team", "score_away", "score_home"
	}

	var row struct {
		Scored   sql.NullFloat64 `db:"scored"`
		Conceded sql.NullFloat64 `db:"conceded"`
		N        int             `db:"n"`
	}
	query := fmt.Sprintf(`
		SELECT AVG(%s) AS scored, AVG(%s) AS conceded, COUNT(*) AS n
		FROM match_results
		WHERE is_finished = TRUE
		  AND LOWER(%s) = ANY($1)
		  AND league ILIKE $2`,
		scoredCol, concededCol, teamCol)

	err := s.withRetry(ctx, "filtered_stats", func(qctx context.Context) error {
		return s.db.GetContext(qctx, &row, query, pq.Array(variants), "%"+league+"%")
	})
	if err != nil {
		absent("filtered_stats", name, err)
		return model.LocationStats{}, false
	}
	if row.N < minSampleSize || !row.Scored.Valid {
		absent("filtered_stats", name, nil)
		return model.LocationStats{}, false
	}
	return model.LocationStats{
		ScoredAvg:   row.Scored.Float64,
		ConcededAvg: row.Conceded.Float64,
		SampleSize:  row.N,
	}, true
}
