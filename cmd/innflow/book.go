package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/model"
)

func bookCmd() *cobra.Command {
	var (
		guest    string
		room     string
		phone    string
		checkIn  string
		checkOut string
		amount   float64
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Quick-lock a room for a phone reservation",
		Long: `Creates a locked booking that holds the room for the lock window
(one hour by default). If the guest does not confirm before the lock
expires, the booking is removed automatically.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := parseDateFlag("checkin", checkIn)
			if err != nil {
				return err
			}
			out, err := parseDateFlag("checkout", checkOut)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			booking, err := a.desk.QuickLock(desk.QuickLockRequest{
				GuestName:   guest,
				RoomNumber:  room,
				Phone:       phone,
				CheckIn:     in,
				CheckOut:    out,
				TotalAmount: amount,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Room %s locked for %s until %s (%s)",
					booking.RoomNumber, booking.GuestName,
					booking.LockedUntil.Format("15:04"), booking.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&guest, "guest", "", "guest name (required)")
	cmd.Flags().StringVar(&room, "room", "", "room number (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "guest phone number")
	cmd.Flags().StringVar(&checkIn, "checkin", "", "check-in date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&checkOut, "checkout", "", "check-out date YYYY-MM-DD (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "agreed total for the stay (required)")
	_ = cmd.MarkFlagRequired("guest")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("checkin")
	_ = cmd.MarkFlagRequired("checkout")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func checkinCmd() *cobra.Command {
	var (
		guest    string
		room     string
		checkIn  string
		checkOut string
		amount   float64
		origin   string
	)

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check a guest into a room",
		Long: `Checks a guest in. If the room already has an active booking
(locked, pending, or confirmed) that booking becomes checked-in in place,
keeping its id; otherwise a new walk-in booking is created.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := parseDateFlag("checkin", checkIn)
			if err != nil {
				return err
			}
			out, err := parseDateFlag("checkout", checkOut)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			req := desk.CheckInRequest{
				RoomNumber:   room,
				CheckIn:      in,
				CheckOut:     out,
				Amount:       amount,
				CustomerType: model.CustomerType(origin),
			}
			if guest != "" {
				req.Guest = &model.GuestData{FirstNameTH: guest}
			}

			booking, created, err := a.desk.CheckIn(req)
			if err != nil {
				return err
			}

			txn, err := a.ledger.Append(checkInRevenue(booking, req))
			if err != nil {
				return err
			}

			verb := "existing booking " + booking.ID + " checked in"
			if created {
				verb = "walk-in booking " + booking.ID + " created"
			}
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Room %s: %s", booking.RoomNumber, verb)))
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ recorded %s %.2f", txn.ID, txn.Amount)))
			return nil
		},
	}

	cmd.Flags().StringVar(&guest, "guest", "", "guest name")
	cmd.Flags().StringVar(&room, "room", "", "room number (required)")
	cmd.Flags().StringVar(&checkIn, "checkin", "", "check-in date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&checkOut, "checkout", "", "check-out date YYYY-MM-DD (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount collected at the desk")
	cmd.Flags().StringVar(&origin, "origin", string(model.CustomerWalkIn), "customer origin (Walk-in, Booking, Check-in)")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("checkin")
	_ = cmd.MarkFlagRequired("checkout")

	return cmd
}

// checkInRevenue builds the reconciled room-revenue record for a completed
// check-in. The booking id goes into the description so the payment stays
// traceable to the booking.
func checkInRevenue(booking *model.Booking, req desk.CheckInRequest) model.Transaction {
	return model.Transaction{
		Date:     time.Now(),
		Type:     model.TypeIncome,
		Category: model.CategoryRoomRevenue,
		Amount:   req.Amount,
		Description: fmt.Sprintf("ค่าห้องพัก %s (%s) เช็คอิน %s - %s",
			booking.ID, req.CustomerType,
			model.FormatDate(req.CheckIn), model.FormatDate(req.CheckOut)),
		IsReconciled:   true,
		GuestData:      req.Guest,
		CustomerType:   req.CustomerType,
		PMSReferenceID: req.RoomNumber,
	}
}

func checkoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <room>",
		Short: "Check the guest in a room out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			booking, err := a.desk.CheckOut(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Room %s checked out (%s)", booking.RoomNumber, booking.ID)))
			return nil
		},
	}
}
