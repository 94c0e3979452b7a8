package chase_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/importer/chase"
	"github.com/spendlens/spendlens/internal/transaction"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)

	return d
}

func TestImporter_Parse(t *testing.T) {
	type testCase struct {
		name        string
		csvContent  string
		wantLen     int
		wantSkipped int
		wantErr     string
		verify      func(t *testing.T, params []transaction.CreateParams)
	}

	tests := []testCase{
		{
			name: "checking export",
			csvContent: `Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
DEBIT,03/10/2025,"VENDOR   RULE    MART      03/10",-75.50,DEBIT_CARD,1000.00,
CREDIT,03/15/2025,PAYROLL DEPOSIT - TEST CORP,"2,000.00",ACH_CREDIT,3000.00,
`,
			wantLen: 2,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				first := params[0]
				assert.Equal(t, "VENDOR RULE MART 03/10", first.Description)
				assert.Equal(t, "VENDOR   RULE    MART      03/10", first.RawDescription)
				assert.True(t, first.Amount.Equal(mustDecimal(t, "-75.50")))
				assert.Equal(t, "DEBIT_CARD", first.TransactionType)
				assert.Equal(t, "checking", first.SourceAccountType)
				assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), first.Date)

				second := params[1]
				assert.True(t, second.Amount.Equal(mustDecimal(t, "2000.00")))
				assert.Equal(t, "ACH_CREDIT", second.TransactionType)
			},
		},
		{
			name: "credit export detected by transaction date column",
			csvContent: `Transaction Date,Post Date,Description,Category,Type,Amount,Memo
04/19/2024,04/20/2024,SPOTIFY USA,Entertainment,Sale,-10.99,
`,
			wantLen: 1,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, "credit", params[0].SourceAccountType)
				assert.Equal(t, time.Date(2024, 4, 19, 0, 0, 0, 0, time.UTC), params[0].Date)
				assert.True(t, params[0].Amount.Equal(mustDecimal(t, "-10.99")))
				assert.Equal(t, "Sale", params[0].TransactionType)
			},
		},
		{
			name: "type inferred when column is absent",
			csvContent: `Posting Date,Description,Amount
03/01/2025,PAYROLL DEPOSIT,1500.00
03/02/2025,ONLINE PAYMENT THANK YOU,25.00
03/03/2025,ATM WITHDRAWAL,-60.00
03/04/2025,CORNER STORE,-4.25
`,
			wantLen: 4,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, "DEPOSIT", params[0].TransactionType)
				assert.Equal(t, "PAYMENT_RECEIVED", params[1].TransactionType)
				assert.Equal(t, "WITHDRAWAL", params[2].TransactionType)
				assert.Equal(t, "DEBIT", params[3].TransactionType)
			},
		},
		{
			name: "malformed rows are skipped and counted",
			csvContent: `Posting Date,Description,Amount
03/01/2025,GOOD ROW,-10.00
not-a-date,BAD DATE,-10.00
03/03/2025,,-10.00
03/04/2025,BAD AMOUNT,ten dollars
short
03/06/2025,ANOTHER GOOD ROW,-5.00
`,
			wantLen:     2,
			wantSkipped: 4,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, "GOOD ROW", params[0].Description)
				assert.Equal(t, "ANOTHER GOOD ROW", params[1].Description)
			},
		},
		{
			name:       "missing required columns",
			csvContent: `Posting Date,Memo,Balance`,
			wantErr:    "missing required columns: Description, Amount",
		},
		{
			name:       "no recognized date column",
			csvContent: `Date,Description,Amount`,
			wantErr:    "missing required columns: Transaction Date or Posting Date",
		},
		{
			name:       "empty file",
			csvContent: "",
			wantErr:    "empty file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, skipped, err := chase.New().Parse(strings.NewReader(tc.csvContent))

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, params, tc.wantLen)
			assert.Equal(t, tc.wantSkipped, skipped)

			if tc.verify != nil {
				tc.verify(t, params)
			}
		})
	}
}
