package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcharin/innflow/internal/model"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>THB
<BANKACCTFROM>
<BANKID>004
<ACCTID>7771234567
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250301120000[0:GMT]
<DTEND>20250331120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250310120000[0:GMT]
<TRNAMT>4500.00
<FITID>2025031001
<NAME>TRANSFER FROM AGODA
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250312120000[0:GMT]
<TRNAMT>-1250.50
<FITID>2025031201
<NAME>PEA ELECTRIC
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>10000.00
<DTASOF>20250331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestStatementParser_ParseFile(t *testing.T) {
	parser := NewStatementParser()

	candidates, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	deposit := candidates[0]
	assert.Equal(t, model.TypeIncome, deposit.Type)
	assert.Equal(t, 4500.00, deposit.Amount)
	assert.Contains(t, deposit.Description, "TRANSFER FROM AGODA")
	assert.Contains(t, deposit.Description, "7771234567")
	assert.Equal(t, "2025-03-10", model.FormatDate(deposit.Date))
	assert.Empty(t, deposit.Category)
	assert.False(t, deposit.IsReconciled)

	withdrawal := candidates[1]
	assert.Equal(t, model.TypeExpense, withdrawal.Type)
	assert.Equal(t, 1250.50, withdrawal.Amount)
	assert.Contains(t, withdrawal.Description, "PEA ELECTRIC")
}

func TestStatementParser_PreprocessFixesSGML(t *testing.T) {
	parser := NewStatementParser()

	// Leading blank lines and mixed-case SEVERITY are common in real exports.
	mangled := "\n\n" + strings.ReplaceAll(sampleBankOFX, "<SEVERITY>INFO", "<SEVERITY>Info")

	candidates, err := parser.ParseFile(context.Background(), strings.NewReader(mangled))
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestStatementParser_InvalidFile(t *testing.T) {
	parser := NewStatementParser()

	_, err := parser.ParseFile(context.Background(), strings.NewReader("not ofx data"))
	assert.Error(t, err)
}

func TestStatementParser_CancelledContext(t *testing.T) {
	parser := NewStatementParser()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}
