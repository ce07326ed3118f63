package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/config"
	"github.com/patcharin/innflow/internal/report"
	"github.com/patcharin/innflow/internal/sheets"
)

func exportCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a monthly ledger report to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := monthRange(month)
			if err != nil {
				return err
			}

			sheetsCfg, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("sheets not configured: %w", err)
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			inRange, summary := report.Summarize(a.ledger.List(), start, end)
			if len(inRange) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("no transactions in "+start.Format("2006-01")))
				return nil
			}

			writer, err := sheets.NewWriter(cmd.Context(), *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}

			if err := writer.Write(cmd.Context(), inRange, summary); err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ exported %d transactions for %s (net %.2f)",
					len(inRange), start.Format("2006-01"), summary.NetProfit)))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to export as YYYY-MM (defaults to the current month)")
	cmd.AddCommand(exportAuthCmd())
	return cmd
}

// monthRange resolves a YYYY-MM flag to its first and last day.
func monthRange(month string) (time.Time, time.Time, error) {
	var start time.Time
	if month == "" {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --month %q: expected YYYY-MM", month)
		}
		start = parsed
	}
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

func exportAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Run the Google Sheets OAuth2 flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}

			oauthCfg := sheets.OAuth2Config{
				ClientID:     os.Getenv("INNFLOW_SHEETS_CLIENT_ID"),
				ClientSecret: os.Getenv("INNFLOW_SHEETS_CLIENT_SECRET"),
				TokenFile:    filepath.Join(home, ".config", "innflow", "sheets_token.json"),
			}
			if oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" {
				return fmt.Errorf("set INNFLOW_SHEETS_CLIENT_ID and INNFLOW_SHEETS_CLIENT_SECRET first")
			}

			token, err := sheets.GetOrCreateToken(cmd.Context(), oauthCfg)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("✓ authenticated"))
			fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(
				"set INNFLOW_SHEETS_REFRESH_TOKEN="+token.RefreshToken))
			return nil
		},
	}
}
