package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/model"
)

func txnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Manage the transaction ledger",
	}
	cmd.AddCommand(txnAddCmd())
	cmd.AddCommand(txnListCmd())
	cmd.AddCommand(txnDeleteCmd())
	cmd.AddCommand(txnReconcileCmd())
	return cmd
}

func txnAddCmd() *cobra.Command {
	var (
		txType      string
		category    string
		description string
		date        string
		bookingRef  string
		amount      float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			txn := model.Transaction{
				Type:           model.TransactionType(txType),
				Category:       category,
				Description:    description,
				Amount:         amount,
				PMSReferenceID: bookingRef,
			}
			if date != "" {
				d, err := parseDateFlag("date", date)
				if err != nil {
					return err
				}
				txn.Date = d
			}

			recorded, err := a.ledger.Append(txn)
			if err != nil {
				return err
			}

			amountStr := cli.AmountStyle(recorded.Type).Render(fmt.Sprintf("%.2f", recorded.Amount))
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("✓ recorded ")+
				recorded.ID+" "+string(recorded.Type)+" "+amountStr)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "income or expense (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount in baht (required)")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&bookingRef, "booking", "", "related booking id or room")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func txnListCmd() *cobra.Command {
	var (
		pendingOnly bool
		txType      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			txns := a.ledger.List()
			filtered := txns[:0]
			for _, t := range txns {
				if pendingOnly && t.IsReconciled {
					continue
				}
				if txType != "" && string(t.Type) != txType {
					continue
				}
				filtered = append(filtered, t)
			}

			if len(filtered) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("no transactions"))
				return nil
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Ledger"))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tDESCRIPTION\tAMOUNT\tRECONCILED")
			for _, t := range filtered {
				mark := ""
				if t.IsReconciled {
					mark = "✓"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
					t.ID, model.FormatDate(t.Date), t.Type, t.Category,
					t.Description, t.Amount, mark)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "only unreconciled transactions")
	cmd.Flags().StringVar(&txType, "type", "", "filter by type (income, expense)")
	return cmd
}

func txnDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			txn, err := a.ledger.Get(args[0])
			if err != nil {
				return err
			}

			if !force {
				confirmer := cli.NewConfirmer(os.Stdin, os.Stdout)
				question := fmt.Sprintf("Delete %s (%s %.2f, %s)?",
					txn.ID, txn.Type, txn.Amount, txn.Category)
				ok, err := confirmer.Confirm(cmd.Context(), question, false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("aborted"))
					return nil
				}
			}

			if err := a.ledger.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("✓ deleted "+args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func txnReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <id>",
		Short: "Toggle a transaction's reconciled flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			txn, err := a.ledger.ToggleReconciled(args[0])
			if err != nil {
				return err
			}

			state := "pending"
			if txn.IsReconciled {
				state = "reconciled"
			}
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("✓ "+txn.ID+" now "+state))
			return nil
		},
	}
}
