package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/patcharin/innflow/internal/model"
)

// StatementParser reads OFX/QFX bank exports into ledger candidates. The
// candidates carry no category; the operator assigns one before they are
// appended to the ledger.
type StatementParser struct{}

// NewStatementParser creates a new OFX statement parser.
func NewStatementParser() *StatementParser {
	return &StatementParser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in bank-exported OFX files:
// leading blank lines, mixed-case SEVERITY values, and SGML tags missing
// their closing angle bracket.
func (p *StatementParser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX file into transaction candidates. Deposits
// become income candidates and withdrawals become expense candidates.
func (p *StatementParser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var candidates []model.Transaction
	var statements int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		statements++
		accountID := string(stmt.BankAcctFrom.AcctID)
		for _, ofxTx := range stmt.BankTranList.Transactions {
			candidates = append(candidates, p.convert(ofxTx, accountID))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		statements++
		accountID := string(stmt.CCAcctFrom.AcctID)
		for _, ofxTx := range stmt.BankTranList.Transactions {
			candidates = append(candidates, p.convert(ofxTx, accountID))
		}
	}

	slog.Info("parsed bank statement",
		"candidates", len(candidates),
		"statements", statements)

	return candidates, nil
}

// convert maps one OFX transaction to a ledger candidate. OFX amounts are
// signed: negative means money left the account.
func (p *StatementParser) convert(ofxTx ofxgo.Transaction, accountID string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	txType := model.TypeIncome
	if amount < 0 {
		txType = model.TypeExpense
		amount = -amount
	}

	description := p.description(ofxTx)
	if accountID != "" {
		description = fmt.Sprintf("%s (บัญชี %s)", description, accountID)
	}

	return model.Transaction{
		Date:        ofxTx.DtPosted.Time.UTC(),
		Type:        txType,
		Amount:      amount,
		Description: description,
	}
}

// description picks the cleanest counterparty label from the OFX fields.
func (p *StatementParser) description(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || strings.EqualFold(name, "debit") || strings.EqualFold(name, "credit")) {
		name = strings.TrimSpace(string(tx.Memo))
	}
	if name == "" {
		name = fmt.Sprintf("%v", tx.TrnType)
	}
	return name
}
