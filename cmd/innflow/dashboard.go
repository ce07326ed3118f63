package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/report"
	"github.com/patcharin/innflow/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the reconciliation dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			txns := a.ledger.List()
			bookings := a.desk.List()
			today := time.Now().Truncate(24 * time.Hour)

			income, expense, net := report.Totals(txns)
			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(a.settings.PropertyName))
			fmt.Fprintf(os.Stdout, "  income  %s\n", cli.IncomeStyle.Render(fmt.Sprintf("%12.2f", income)))
			fmt.Fprintf(os.Stdout, "  expense %s\n", cli.ExpenseStyle.Render(fmt.Sprintf("%12.2f", expense)))
			fmt.Fprintf(os.Stdout, "  net     %s\n\n", cli.BoldStyle.Render(fmt.Sprintf("%12.2f", net)))

			occ := report.OccupancyInsights(bookings, today)
			var occupied int
			for _, b := range bookings {
				if b.Status == model.StatusCheckedIn {
					occupied++
				}
			}
			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Occupancy"))
			fmt.Fprintf(os.Stdout, "  rooms occupied: %d\n", occupied)
			if occ.NextArrival != nil {
				fmt.Fprintf(os.Stdout, "  next arrival:   %s in %s on %s\n",
					occ.NextArrival.GuestName, occ.NextArrival.RoomNumber,
					model.FormatDate(occ.NextArrival.CheckIn))
			}
			if occ.NextDeparture != nil {
				fmt.Fprintf(os.Stdout, "  next departure: %s from %s on %s\n",
					occ.NextDeparture.GuestName, occ.NextDeparture.RoomNumber,
					model.FormatDate(occ.NextDeparture.CheckOut))
			}
			fmt.Fprintln(os.Stdout)

			pending, total := report.PendingReview(txns, report.PendingWidgetLimit)
			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(fmt.Sprintf("Pending review (%d)", total)))
			if total == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("  all reconciled"))
			}
			for _, t := range pending {
				amountStr := cli.AmountStyle(t.Type).Render(fmt.Sprintf("%10.2f", t.Amount))
				fmt.Fprintf(os.Stdout, "  %s  %s  %s  %s\n",
					t.ID, model.FormatDate(t.Date), amountStr, t.Category)
			}
			if total > len(pending) {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(
					fmt.Sprintf("  ... and %d more (innflow txn list --pending)", total-len(pending))))
			}
			fmt.Fprintln(os.Stdout)

			series := report.MonthlySeries(txns)
			if len(series) > 0 {
				fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Monthly"))
				for _, m := range series {
					fmt.Fprintf(os.Stdout, "  %s  income %11.2f  expense %11.2f\n",
						m.Month.Format("2006-01"), m.Income, m.Expense)
				}
			}

			for _, section := range []struct {
				title string
				typ   model.TransactionType
			}{
				{"Income by category", model.TypeIncome},
				{"Expenses by category", model.TypeExpense},
			} {
				breakdown := report.CategoryBreakdown(txns, section.typ)
				if len(breakdown) == 0 {
					continue
				}
				fmt.Fprintln(os.Stdout)
				fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(section.title))
				for _, c := range breakdown {
					fmt.Fprintf(os.Stdout, "  %-36s %11.2f  (%d)\n", c.Category, c.Amount, c.Count)
				}
			}

			return nil
		},
	}
}

func deskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "desk",
		Short: "Open the live front-desk screen",
		Long: `Opens a full-screen booking table with live lock countdowns. The
expiry sweeper runs while the screen is open, so locks past their window
disappear in front of you.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			return tui.RunDesk(cmd.Context(), a.desk)
		},
	}
}
