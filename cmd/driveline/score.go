package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/driveline-io/driveline/internal/cli"
	"github.com/driveline-io/driveline/internal/common"
	"github.com/driveline-io/driveline/internal/engine"
	"github.com/driveline-io/driveline/internal/ingest"
	"github.com/driveline-io/driveline/internal/model"
	"github.com/driveline-io/driveline/internal/rolling"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [results.json]",
		Short: "Score a trip from its detector results",
		Long: `Score one trip's detector-results document into a final driving score
with per-behavior sub-scores and a star rating.

With --record the session is appended to the account's history and the
updated 21-day rolling average is printed. With --dir every *.json file in
the directory is scored in turn.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScore,
	}

	cmd.Flags().Float64("total-seconds", 0, "total recorded trip duration in seconds (overrides the document)")
	cmd.Flags().String("account", "", "account to attribute the trip to")
	cmd.Flags().Bool("record", false, "append the scored session to the account history")
	cmd.Flags().Bool("json", false, "emit the scoring breakdown as JSON")
	cmd.Flags().String("dir", "", "score every *.json results file in a directory")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	totalSeconds, _ := cmd.Flags().GetFloat64("total-seconds")
	account, _ := cmd.Flags().GetString("account")
	record, _ := cmd.Flags().GetBool("record")
	asJSON, _ := cmd.Flags().GetBool("json")
	dir, _ := cmd.Flags().GetString("dir")

	if dir == "" && len(args) == 0 {
		return fmt.Errorf("either a results file or --dir is required")
	}
	if record && account == "" {
		return fmt.Errorf("--record requires --account")
	}

	eng, err := initEngine()
	if err != nil {
		return err
	}

	if dir != "" {
		return scoreDirectory(cmd, eng, dir, totalSeconds)
	}

	score, seconds, err := scoreFile(eng, args[0], totalSeconds)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode score: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderScore(score))
	}

	if record {
		return recordSession(cmd.Context(), cmd, account, score, seconds)
	}
	return nil
}

func scoreFile(eng *engine.Engine, path string, totalSeconds float64) (*model.FinalScore, float64, error) {
	doc, err := ingest.DecodeFile(path)
	if err != nil {
		return nil, 0, err
	}

	if totalSeconds <= 0 {
		totalSeconds = doc.TotalSeconds
	}
	if totalSeconds <= 0 {
		return nil, 0, common.NewUserError(
			fmt.Sprintf("trip duration unknown: pass --total-seconds or embed total_seconds in %s", path), nil)
	}

	return eng.ScoreResults(doc, totalSeconds), totalSeconds, nil
}

func recordSession(ctx context.Context, cmd *cobra.Command, account string, score *model.FinalScore, totalSeconds float64) error {
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session := &model.HistoricalSession{
		ID:           uuid.NewString(),
		AccountID:    account,
		RecordedAt:   time.Now().UTC(),
		FinalScore:   score.Value,
		TotalSeconds: totalSeconds,
	}
	if err := store.RecordSession(ctx, session); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	slog.Info("Recorded session",
		"session_id", session.ID,
		"account", account,
		"score", score.Value)

	avg, err := rolling.New(store).Average(ctx, account, session.RecordedAt)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRollingAverage(avg, rolling.WindowDays))
	return nil
}

func scoreDirectory(cmd *cobra.Command, eng *engine.Engine, dir string, totalSeconds float64) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no *.json results files in %s", dir)
	}
	sort.Strings(paths)

	bar := cli.NewScoringProgressBar(os.Stderr, len(paths))
	failed := 0

	for _, path := range paths {
		score, _, err := scoreFile(eng, path, totalSeconds)
		if err != nil {
			failed++
			slog.Warn("Failed to score trip", "file", path, "error", err)
			_ = bar.Add(1)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f %s\n",
			filepath.Base(path), score.Value, model.StarString(score.Stars))
		_ = bar.Add(1)
	}

	if failed > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("%d of %d trips failed to score", failed, len(paths))))
	}
	return nil
}
