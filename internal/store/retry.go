package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/pitchquant/pitchquant/internal/metrics"
)

const (
	maxAttempts = 3
	baseBackoff = 100 * time.Millisecond
)

// newBreaker builds the circuit breaker guarding feature-store queries.
// Trips after 3 consecutive failures or a 5% error rate over 20+ requests.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
	}
	return gobreaker.NewCircuitBreaker(st)
}

// withRetry runs fn through the breaker with exponential backoff, up to
// maxAttempts. sql.ErrNoRows is absence, not a failure: it is returned
// without retrying and without tripping the breaker. Exhausted retries
// surface the last error; callers degrade it to data absence.
func (s *Store) withRetry(ctx context.Context, entity string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			metrics.Default().StoreRetries.Inc()
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var noRows bool
		_, err := s.breaker.Execute(func() (any, error) {
			qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
			defer cancel()
			if err := fn(qctx); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					noRows = true
					return nil, nil
				}
				return nil, err
			}
			return nil, nil
		})
		if err == nil {
			if noRows {
				return sql.ErrNoRows
			}
			return nil
		}
		lastErr = err
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		log.Warn().Err(err).Str("entity", entity).Int("attempt", attempt+1).
			Msg("feature store query failed")
	}
	return lastErr
}
