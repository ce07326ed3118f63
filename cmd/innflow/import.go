package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/importer"
	"github.com/patcharin/innflow/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bookings and bank statements",
	}
	cmd.AddCommand(importOTACmd())
	cmd.AddCommand(importBankCmd())
	return cmd
}

func importOTACmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "ota <file.csv>",
		Short: "Import an OTA booking export",
		Long: `Reads a CSV export from an online travel agency and creates
confirmed bookings. English and Thai column headers are both recognized;
rows with missing or invalid fields are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			result, err := importer.ParseOTACSV(f, channel)
			if err != nil {
				return err
			}

			for _, rej := range result.Rejected {
				fmt.Fprintln(os.Stderr, cli.WarningStyle.Render("skipped "+rej.Error()))
			}

			if len(result.Rows) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("nothing to import"))
				return nil
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			bar := progressbar.NewOptions(len(result.Rows),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing bookings..."),
			)

			// Import one row at a time so the bar tracks real progress;
			// each call persists through the store's notification hook.
			var imported int
			for _, row := range result.Rows {
				a.desk.Import([]desk.ImportRow{row})
				imported++
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)

			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ imported %d bookings from %s (%d skipped)",
					imported, channel, len(result.Rejected))))
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "OTA", "source channel label (Agoda, Booking.com, ...)")
	return cmd
}

func importBankCmd() *cobra.Command {
	var (
		save     bool
		category string
	)

	cmd := &cobra.Command{
		Use:   "bank <file.ofx>",
		Short: "Import a bank statement (OFX/QFX) as ledger candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0]) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			parser := importer.NewStatementParser()
			candidates, err := parser.ParseFile(cmd.Context(), f)
			if err != nil {
				return err
			}

			if len(candidates) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("no transactions in statement"))
				return nil
			}

			if !save {
				fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Statement candidates"))
				for _, c := range candidates {
					amountStr := cli.AmountStyle(c.Type).Render(fmt.Sprintf("%10.2f", c.Amount))
					fmt.Fprintf(os.Stdout, "  %s  %-7s %s  %s\n",
						model.FormatDate(c.Date), c.Type, amountStr, c.Description)
				}
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(
					"re-run with --save --category <thai category> to record them"))
				return nil
			}

			if category == "" {
				return fmt.Errorf("--category is required with --save")
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			var recorded int
			for _, c := range candidates {
				c.Category = category
				if _, err := a.ledger.Append(c); err != nil {
					fmt.Fprintln(os.Stderr, cli.WarningStyle.Render("skipped: "+err.Error()))
					continue
				}
				recorded++
			}

			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ recorded %d of %d statement transactions", recorded, len(candidates))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "record candidates in the ledger")
	cmd.Flags().StringVar(&category, "category", "", "category to assign to every recorded transaction")
	return cmd
}
