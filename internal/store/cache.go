package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pitchquant/pitchquant/internal/model"
)

// Cache is an optional redis read-through over name resolution and tactical
// matrix rows. It is a pure optimization: every path works with a nil Cache,
// and cache failures fall through to the database silently.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a redis client. A zero ttl defaults to 15 minutes.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func teamKey(name string) string {
	return "pq:team:" + strings.ToLower(strings.TrimSpace(name))
}

func tacticalKey(a, b model.PlayingStyle) string {
	return "pq:tactical:" + string(a) + ":" + string(b)
}

// Team fetches a cached team row.
func (c *Cache) Team(ctx context.Context, name string) (model.Team, bool) {
	raw, err := c.rdb.Get(ctx, teamKey(name)).Bytes()
	if err != nil {
		return model.Team{}, false
	}
	var team model.Team
	if err := json.Unmarshal(raw, &team); err != nil {
		return model.Team{}, false
	}
	return team, true
}

// PutTeam stores a team row under the raw lookup name.
func (c *Cache) PutTeam(ctx context.Context, name string, team model.Team) {
	raw, err := json.Marshal(team)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, teamKey(name), raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("team", name).Msg("cache write skipped")
	}
}

// Tactical fetches a cached tactical matrix row.
func (c *Cache) Tactical(ctx context.Context, a, b model.PlayingStyle) (model.TacticalRow, bool) {
	raw, err := c.rdb.Get(ctx, tacticalKey(a, b)).Bytes()
	if err != nil {
		return model.TacticalRow{}, false
	}
	var row model.TacticalRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return model.TacticalRow{}, false
	}
	return row, true
}

// PutTactical stores a tactical matrix row.
func (c *Cache) PutTactical(ctx context.Context, row model.TacticalRow) {
	raw, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, tacticalKey(row.StyleA, row.StyleB), raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("cache write skipped")
	}
}
