package main

import (
	"fmt"
	"time"

	"github.com/driveline-io/driveline/internal/cli"
	"github.com/driveline-io/driveline/internal/rolling"
	"github.com/spf13/cobra"
)

func averageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Show an account's 21-day rolling average",
		Long: `Compute the duration-weighted rolling average of final driving scores
over the trailing 21-day window. An account with no sessions in the window
reports "no data" rather than a zero score.`,
		RunE: runAverage,
	}

	cmd.Flags().String("account", "", "account to evaluate (required)")
	cmd.Flags().String("as-of", "", "evaluation date in YYYY-MM-DD form (default: now)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runAverage(cmd *cobra.Command, _ []string) error {
	account, _ := cmd.Flags().GetString("account")
	asOfStr, _ := cmd.Flags().GetString("as-of")

	asOf := time.Now().UTC()
	if asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			return fmt.Errorf("invalid --as-of date %q: %w", asOfStr, err)
		}
		// Evaluate at the end of the requested day so it is fully included.
		asOf = parsed.Add(24*time.Hour - time.Second)
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	avg, err := rolling.New(store).Average(ctx, account, asOf)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRollingAverage(avg, rolling.WindowDays))
	return nil
}
