package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patcharin/innflow/internal/cli"
	"github.com/patcharin/innflow/internal/common"
	"github.com/patcharin/innflow/internal/config"
	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/ocr"
	"github.com/patcharin/innflow/internal/service"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Extract data from receipt and ID card images",
	}
	cmd.AddCommand(scanReceiptCmd())
	cmd.AddCommand(scanIDCardCmd())
	return cmd
}

var scanRetryOpts = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Second,
	MaxDelay:     10 * time.Second,
	Multiplier:   2.0,
}

func scanReceiptCmd() *cobra.Command {
	var (
		intent string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "receipt <image>",
		Short: "Extract a transaction from a receipt or payment slip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0]) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			extractor, err := ocr.NewGeminiClient(config.LoadOCRConfig(a.settings))
			if err != nil {
				return err
			}

			var result ocr.ReceiptResult
			err = common.WithRetry(cmd.Context(), func() error {
				var extractErr error
				result, extractErr = extractor.ExtractReceipt(cmd.Context(), image, ocr.Intent(intent))
				return extractErr
			}, scanRetryOpts)
			if err != nil {
				return err
			}

			amountStr := cli.AmountStyle(result.Type).Render(fmt.Sprintf("%.2f", result.Amount))
			fmt.Fprintf(os.Stdout, "%s %s  %s  %s  %s (confidence %.0f%%)\n",
				cli.SuccessStyle.Render("✓ extracted"),
				model.FormatDate(result.Date), string(result.Type),
				amountStr, result.Category, result.Confidence*100)

			if !save {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("re-run with --save to record it"))
				return nil
			}

			txn, err := a.ledger.Append(receiptTransaction(result, args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, cli.SuccessStyle.Render("✓ recorded "+txn.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&intent, "intent", string(ocr.IntentGeneral), "extraction hint (income, expense, general)")
	cmd.Flags().BoolVar(&save, "save", false, "record the extracted transaction")
	return cmd
}

// receiptTransaction maps an extraction result onto a ledger record, keeping
// the scanned image path as evidence.
func receiptTransaction(result ocr.ReceiptResult, imagePath string) model.Transaction {
	return model.Transaction{
		Date:        result.Date,
		Type:        result.Type,
		Amount:      result.Amount,
		Category:    result.Category,
		Description: result.Description,
		ImageURL:    imagePath,
	}
}

func scanIDCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idcard <image>",
		Short: "Extract guest details from a Thai national ID card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0]) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			extractor, err := ocr.NewGeminiClient(config.LoadOCRConfig(a.settings))
			if err != nil {
				return err
			}

			var guest model.GuestData
			err = common.WithRetry(cmd.Context(), func() error {
				var extractErr error
				guest, extractErr = extractor.ExtractIDCard(cmd.Context(), image)
				return extractErr
			}, scanRetryOpts)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render("Guest"))
			fmt.Fprintf(os.Stdout, "  %s %s\n", guest.Title, guest.FullNameTH())
			if guest.FirstNameEN != "" {
				fmt.Fprintf(os.Stdout, "  %s %s\n", guest.FirstNameEN, guest.LastNameEN)
			}
			fmt.Fprintf(os.Stdout, "  ID: %s  DOB: %s\n", guest.IDNumber, guest.DOB)
			fmt.Fprintf(os.Stdout, "  %s\n", guest.Address)
			return nil
		},
	}
	return cmd
}
