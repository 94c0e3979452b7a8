package insights_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/insights"
	"github.com/spendlens/spendlens/internal/transaction"
)

// tx builds a test transaction. An empty date produces a record that the
// aggregators must skip rather than choke on.
func tx(date, description, amount, category string) transaction.Transaction {
	var d time.Time

	if date != "" {
		var err error

		d, err = time.Parse(time.DateOnly, date)
		if err != nil {
			panic(err)
		}
	}

	return transaction.Transaction{
		ID:          uuid.New(),
		Date:        d,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func TestSummarize(t *testing.T) {
	txs := []transaction.Transaction{
		tx("2024-05-01", "PAYROLL ACME", "2000", "income"),
		tx("2024-05-03", "SAFEWAY", "-100", "groceries"),
		tx("2024-05-10", "SAFEWAY", "-50", "groceries"),
		tx("2024-05-12", "SAFEWAY REFUND", "30", "groceries"),
		tx("2024-05-14", "TACO SPOT", "-10", "dining"),
		tx("2024-05-15", "TACO SPOT REFUND", "25", "dining"),
		tx("2024-05-16", "MYSTERY DEPOSIT", "500", ""),
		tx("2024-05-20", "TO SAVINGS", "-200", "transfers"),
		tx("2024-05-21", "FROM SAVINGS", "100", "transfers"),
		tx("", "NO DATE", "-999", "groceries"), // must be skipped, not fatal
	}

	s := insights.Summarize(txs)

	assert.Equal(t, 9, s.TransactionCount)
	assert.Equal(t, 1, s.SkippedCount)
	assert.Equal(t, "2024-05-01", s.PeriodStart)
	assert.Equal(t, "2024-05-21", s.PeriodEnd)

	// Uncategorized deposit counts as operational income.
	assertDecimal(t, "2500", s.OperationalIncome)
	assertDecimal(t, "160", s.OperationalSpending)
	assertDecimal(t, "100", s.TransfersIn)
	assertDecimal(t, "200", s.TransfersOut)

	assertDecimal(t, "2340", s.NetOperationalFlow)
	assertDecimal(t, "-100", s.NetTransferFlow)
	assertDecimal(t, "2240", s.NetTotalFlow)

	assertDecimal(t, "255", s.AverageAmount)
	assertDecimal(t, "25", s.MedianAmount)

	// Gross spending keeps refunds out; net spending subtracts them.
	assertDecimal(t, "150", s.SpendingByCategory["Groceries"])
	assertDecimal(t, "120", s.NetSpendingByCategory["Groceries"])
	assertDecimal(t, "30", s.RefundsByCategory["Groceries"])

	// A refund larger than the category's spending floors net at zero.
	assertDecimal(t, "10", s.SpendingByCategory["Dining"])
	assertDecimal(t, "0", s.NetSpendingByCategory["Dining"])
	assertDecimal(t, "25", s.RefundsByCategory["Dining"])

	assertDecimal(t, "2000", s.IncomeByCategory["Income"])
	assertDecimal(t, "500", s.IncomeByCategory["Uncategorized"])

	// Transfer categories keep raw spend with no refund netting.
	assertDecimal(t, "200", s.NetSpendingByCategory["Transfers"])
}

func TestSummarize_FlowIdentity(t *testing.T) {
	sets := [][]transaction.Transaction{
		nil,
		{
			tx("2024-01-01", "A", "123.45", "income"),
			tx("2024-01-02", "B", "-67.89", "dining"),
			tx("2024-01-03", "C", "-0.01", "transfers"),
			tx("2024-01-04", "D", "44.44", ""),
			tx("2024-01-05", "E", "10.00", "dining"),
		},
		{
			tx("2024-02-01", "F", "-5", "payments"),
			tx("2024-02-02", "G", "5", "payments"),
		},
	}

	for _, set := range sets {
		s := insights.Summarize(set)
		want := s.NetOperationalFlow.Add(s.NetTransferFlow)
		assert.True(t, s.NetTotalFlow.Equal(want), "net total flow must equal the sum of both flows")
	}
}

func TestSummarize_RefundNettingFloor(t *testing.T) {
	txs := []transaction.Transaction{
		tx("2024-03-01", "STORE", "-10", "shopping"),
		tx("2024-03-02", "STORE REFUND", "80", "shopping"),
		tx("2024-03-03", "CAFE", "-20", "coffee"),
	}

	s := insights.Summarize(txs)

	for cat, net := range s.NetSpendingByCategory {
		assert.False(t, net.IsNegative(), "net spending for %s must never be negative", cat)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := insights.Summarize(nil)

	require.NotNil(t, s.NetSpendingByCategory)
	assert.Equal(t, 0, s.TransactionCount)
	assert.Empty(t, s.PeriodStart)
	assertDecimal(t, "0", s.NetTotalFlow)
}
