package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "pitchquant"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Quantitative match-outcome prediction and bet selection",
		Version: version,
		Long: `pitchquant evaluates an upcoming football fixture against bookmaker
prices across 1X2, double-chance, draw-no-bet, totals, BTTS and clean-sheet
markets, and emits ranked picks with model probability, edge, composite
score, Kelly stake fraction and a recommendation label.`,
	}

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Run the prediction pipeline for one fixture",
		Long:  "Reads a fixture (teams, competition, referee, odds map) as JSON and prints the ranked pick list.",
		RunE:  runPredict,
	}
	predictCmd.Flags().String("fixture", "-", "Fixture JSON file ('-' for stdin)")
	predictCmd.Flags().String("config", "config/engine.yaml", "Engine knob overlay (YAML)")
	predictCmd.Flags().String("dsn", os.Getenv("PG_DSN"), "Postgres DSN for the feature store")
	predictCmd.Flags().String("redis", "", "Optional redis address for the resolution cache")
	predictCmd.Flags().Int64("seed", 0, "Fixed Monte Carlo seed (0 = unseeded)")
	predictCmd.Flags().Duration("budget", 0, "Wall-clock budget for the fixture (0 = unlimited)")

	settleCmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle emitted picks against a final score",
		Long:  "Reads a pick list and a finished match result as JSON and prints per-pick settlement plus a summary.",
		RunE:  runSettle,
	}
	settleCmd.Flags().String("picks", "", "Pick list JSON file (required)")
	settleCmd.Flags().String("result", "", "Final match result JSON file (required)")
	_ = settleCmd.MarkFlagRequired("picks")
	_ = settleCmd.MarkFlagRequired("result")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(settleCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
