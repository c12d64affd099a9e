package main

import (
	"fmt"

	"github.com/driveline-io/driveline/internal/cli"
	"github.com/driveline-io/driveline/internal/model"
	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List an account's recorded sessions",
		RunE:  runSessions,
	}

	cmd.Flags().String("account", "", "account to list (required)")
	cmd.Flags().Int("limit", 0, "show at most this many sessions (0 = all)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runSessions(cmd *cobra.Command, _ []string) error {
	account, _ := cmd.Flags().GetString("account")
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sessions, err := store.SessionsForAccount(ctx, account)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("No sessions recorded for "+account))
		return nil
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Sessions for "+account))
	for _, s := range sessions {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %6.2f %s  %7.0fs  %s\n",
			s.RecordedAt.Format("2006-01-02 15:04"),
			s.FinalScore,
			model.StarString(model.StarsFor(s.FinalScore)),
			s.TotalSeconds,
			cli.SubtleStyle.Render(s.ID),
		)
	}
	return nil
}
