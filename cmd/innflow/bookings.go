package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/report"
)

func bookingsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List bookings, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			bookings := a.desk.List()
			if status != "" {
				filtered := bookings[:0]
				for _, b := range bookings {
					if string(b.Status) == status {
						filtered = append(filtered, b)
					}
				}
				bookings = filtered
			}

			if len(bookings) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("no bookings"))
				return nil
			}

			txns := a.ledger.List()

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Bookings"))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tROOM\tGUEST\tSTATUS\tCHECK-IN\tCHECK-OUT\tTOTAL\tPAID\tLOCK")
			now := time.Now()
			for _, b := range bookings {
				lock := ""
				if b.Status == model.StatusLocked && b.LockedUntil != nil {
					if b.LockedUntil.After(now) {
						lock = "until " + b.LockedUntil.Format("15:04")
					} else {
						lock = "expired"
					}
				}
				paid := ""
				if report.IsPaid(txns, b.ID) {
					paid = "✓"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.0f\t%s\t%s\n",
					b.ID, b.RoomNumber, b.GuestName, cli.StatusBadge(b.Status),
					model.FormatDate(b.CheckIn), model.FormatDate(b.CheckOut),
					b.TotalAmount, paid, lock)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (locked, confirmed, checked_in, checked_out, pending)")
	return cmd
}
