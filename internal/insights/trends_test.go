package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/insights"
	"github.com/spendlens/spendlens/internal/transaction"
)

func TestCompareMonths(t *testing.T) {
	txs := []transaction.Transaction{
		// April (previous month).
		tx("2024-04-05", "SAFEWAY", "-100", "groceries"),
		tx("2024-04-10", "TACO SPOT", "-40", "dining"),
		tx("2024-04-11", "TACO SPOT REFUND", "40", "dining"), // nets April dining to zero
		tx("2024-04-15", "ARCADE", "-20", "fun"),
		tx("2024-04-20", "PAYROLL", "3000", "income"),     // income never counts as spending
		tx("2024-04-25", "TO SAVINGS", "-500", "transfers"), // transfers excluded

		// May (current month).
		tx("2024-05-03", "SAFEWAY", "-150", "groceries"),
		tx("2024-05-08", "TACO SPOT", "-60", "dining"),

		// Older history outside both months is ignored.
		tx("2024-01-01", "OLD", "-77", "misc"),
	}

	report, err := insights.CompareMonths(txs)
	require.NoError(t, err)

	assert.Equal(t, "2024-05", report.CurrentMonth)
	assert.Equal(t, "2024-04", report.PreviousMonth)

	require.Len(t, report.Rows, 3)

	// Rows sorted by category name ascending.
	dining, fun, groceries := report.Rows[0], report.Rows[1], report.Rows[2]

	assert.Equal(t, "Dining", dining.Category)
	assertDecimal(t, "60", dining.Current)
	assertDecimal(t, "0", dining.Previous)
	assertDecimal(t, "60", dining.Change)
	assert.Nil(t, dining.ChangePercent)
	assert.True(t, dining.InfiniteChange, "spending appearing from a zero base is infinite change")

	assert.Equal(t, "Fun", fun.Category)
	assertDecimal(t, "0", fun.Current)
	assertDecimal(t, "20", fun.Previous)
	assertDecimal(t, "-20", fun.Change)
	require.NotNil(t, fun.ChangePercent)
	assertDecimal(t, "-100", *fun.ChangePercent)
	assert.False(t, fun.InfiniteChange)

	assert.Equal(t, "Groceries", groceries.Category)
	assertDecimal(t, "150", groceries.Current)
	assertDecimal(t, "100", groceries.Previous)
	assertDecimal(t, "50", groceries.Change)
	require.NotNil(t, groceries.ChangePercent)
	assertDecimal(t, "50", *groceries.ChangePercent)

	assertDecimal(t, "210", report.TotalCurrent)
	assertDecimal(t, "120", report.TotalPrevious)
	assertDecimal(t, "90", report.TotalChange)
	require.NotNil(t, report.TotalChangePercent)
	assertDecimal(t, "75", *report.TotalChangePercent)
}

func TestCompareMonths_InsufficientData(t *testing.T) {
	singleMonth := []transaction.Transaction{
		tx("2024-05-03", "SAFEWAY", "-150", "groceries"),
		tx("2024-05-08", "TACO SPOT", "-60", "dining"),
		tx("2024-05-20", "PAYROLL", "3000", "income"),
	}

	report, err := insights.CompareMonths(singleMonth)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, insights.ErrInsufficientData)

	report, err = insights.CompareMonths(nil)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, insights.ErrInsufficientData)
}

func TestCompareMonths_GapMonthIsInsufficient(t *testing.T) {
	// Data in May and March but nothing in April: the comparison is against
	// the immediately preceding calendar month, which is empty.
	txs := []transaction.Transaction{
		tx("2024-03-05", "SAFEWAY", "-90", "groceries"),
		tx("2024-05-03", "SAFEWAY", "-150", "groceries"),
	}

	report, err := insights.CompareMonths(txs)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, insights.ErrInsufficientData)
}
