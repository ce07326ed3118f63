package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/docs"
	"github.com/patcharin/innflow/internal/model"
)

func docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Render printable front-desk documents",
	}
	cmd.AddCommand(docsRegistrationCmd())
	cmd.AddCommand(docsDepositCmd())
	cmd.AddCommand(docsInvoiceCmd())
	return cmd
}

func docsRegistrationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registration <booking-id>",
		Short: "Render the guest registration form (ror ror 3)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			booking, err := a.desk.Get(args[0])
			if err != nil {
				return err
			}

			renderer := docs.NewRenderer(a.settings)
			fmt.Fprintln(os.Stdout, renderer.RegistrationForm(*booking))
			return nil
		},
	}
}

func docsDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <booking-id>",
		Short: "Render a deposit receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			booking, err := a.desk.Get(args[0])
			if err != nil {
				return err
			}

			renderer := docs.NewRenderer(a.settings)
			fmt.Fprintln(os.Stdout, renderer.DepositReceipt(*booking, time.Now()))
			return nil
		},
	}
}

func docsInvoiceCmd() *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "invoice <transaction-id>",
		Short: "Render a tax invoice for an income transaction",
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
			if txn.Type != model.TypeIncome {
				return fmt.Errorf("tax invoices are issued for income transactions only")
			}

			if number == "" {
				number = "INV-" + time.Now().Format("2006") + "-" + txn.ID[len(txn.ID)-4:]
			}

			renderer := docs.NewRenderer(a.settings)
			fmt.Fprintln(os.Stdout, renderer.TaxInvoice(*txn, number))
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "invoice number (generated when omitted)")
	return cmd
}
