package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchquant/pitchquant/internal/model"
	"github.com/pitchquant/pitchquant/internal/tracker"
)

func runSettle(cmd *cobra.Command, args []string) error {
	picksPath, _ := cmd.Flags().GetString("picks")
	resultPath, _ := cmd.Flags().GetString("result")

	var picks []model.QuantPick
	if err := readJSON(picksPath, &picks); err != nil {
		return err
	}

	var result model.MatchResult
	if err := readJSON(resultPath, &result); err != nil {
		return err
	}
	if result.Outcome == "" {
		result.Outcome = model.OutcomeFromScore(result.ScoreHome, result.ScoreAway)
	}
	result.IsFinished = true

	settled := tracker.SettleAll(picks, result)

	out := struct {
		Settled []tracker.SettledPick `json:"settled"`
		Summary tracker.Summary       `json:"summary"`
	}{
		Settled: settled,
		Summary: tracker.Summarize(settled),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
