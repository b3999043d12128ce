package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pitchquant/pitchquant/internal/config"
	"github.com/pitchquant/pitchquant/internal/engine"
	"github.com/pitchquant/pitchquant/internal/model"
	"github.com/pitchquant/pitchquant/internal/store"
)

func runPredict(cmd *cobra.Command, args []string) error {
	fixturePath, _ := cmd.Flags().GetString("fixture")
	configPath, _ := cmd.Flags().GetString("config")
	dsn, _ := cmd.Flags().GetString("dsn")
	redisAddr, _ := cmd.Flags().GetString("redis")
	seed, _ := cmd.Flags().GetInt64("seed")
	budget, _ := cmd.Flags().GetDuration("budget")

	if dsn == "" {
		return fmt.Errorf("feature store DSN required (--dsn or PG_DSN)")
	}

	mctx, err := readFixture(fixturePath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open feature store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	opts := store.Options{CupRemap: cfg.CupRemap}
	if redisAddr != "" {
		opts.Cache = store.NewCache(redis.NewClient(&redis.Options{Addr: redisAddr}), 0)
	}
	src, err := store.New(ctx, db, opts)
	if err != nil {
		return err
	}

	var pipeOpts []engine.Option
	if seed != 0 {
		pipeOpts = append(pipeOpts, engine.WithSeed(seed))
	}
	if budget > 0 {
		pipeOpts = append(pipeOpts, engine.WithBudget(budget))
	}

	pipeline := engine.New(src, cfg, pipeOpts...)
	picks, err := pipeline.AnalyzeMatch(ctx, mctx)
	if err != nil {
		return err
	}

	log.Info().Str("match_id", mctx.MatchID).Int("picks", len(picks)).
		Msg("fixture analyzed")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(picks)
}

func readFixture(path string) (model.MatchContext, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return model.MatchContext{}, fmt.Errorf("read fixture: %w", err)
	}

	var mctx model.MatchContext
	if err := json.Unmarshal(raw, &mctx); err != nil {
		return model.MatchContext{}, fmt.Errorf("parse fixture: %w", err)
	}
	if mctx.HomeTeam == "" || mctx.AwayTeam == "" {
		return model.MatchContext{}, fmt.Errorf("fixture needs home_team and away_team")
	}
	return mctx, nil
}
