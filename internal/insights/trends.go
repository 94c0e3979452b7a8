package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/transaction"
)

// TrendRow compares one category's net spending across two adjacent months.
type TrendRow struct {
	Category string
	Current  decimal.Decimal
	Previous decimal.Decimal
	Change   decimal.Decimal

	// ChangePercent is nil when undefined (both months zero, or spending
	// disappeared from a zero base). InfiniteChange marks spending that
	// appeared from a zero base.
	ChangePercent  *decimal.Decimal
	InfiniteChange bool
}

// TrendReport is the month-over-month comparison for the two most recent
// calendar months in the transaction set.
type TrendReport struct {
	CurrentMonth  string // "2006-01"
	PreviousMonth string

	Rows []TrendRow

	TotalCurrent        decimal.Decimal
	TotalPrevious       decimal.Decimal
	TotalChange         decimal.Decimal
	TotalChangePercent  *decimal.Decimal
	TotalInfiniteChange bool
}

// CompareMonths compares net spending per category between the calendar month
// of the latest transaction and the immediately preceding month. Net spending
// uses the same refund-netting rules as Summarize, scoped to each month.
//
// Returns ErrInsufficientData when the set does not cover both months.
func CompareMonths(txs []transaction.Transaction) (*TrendReport, error) {
	var latest *transaction.Transaction

	for i := range txs {
		if txs[i].Date.IsZero() {
			continue
		}

		if latest == nil || txs[i].Date.After(latest.Date) {
			latest = &txs[i]
		}
	}

	if latest == nil {
		return nil, ErrInsufficientData
	}

	currentStart := firstOfMonth(latest.Date)
	previousStart := currentStart.AddDate(0, -1, 0)

	var current, previous []transaction.Transaction

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}

		switch {
		case sameMonth(tx.Date, currentStart):
			current = append(current, tx)
		case sameMonth(tx.Date, previousStart):
			previous = append(previous, tx)
		}
	}

	if len(previous) == 0 {
		return nil, ErrInsufficientData
	}

	currentNet := netSpendingForTrends(current)
	previousNet := netSpendingForTrends(previous)

	report := &TrendReport{
		CurrentMonth:  currentStart.Format("2006-01"),
		PreviousMonth: previousStart.Format("2006-01"),
	}

	categories := map[string]bool{}
	for cat := range currentNet {
		categories[cat] = true
	}

	for cat := range previousNet {
		categories[cat] = true
	}

	names := make([]string, 0, len(categories))
	for cat := range categories {
		names = append(names, cat)
	}

	sort.Strings(names)

	for _, cat := range names {
		cur := currentNet[cat]
		prev := previousNet[cat]

		// Only report categories with actual spending in either month.
		if cur.Sign() == 0 && prev.Sign() == 0 {
			continue
		}

		row := TrendRow{
			Category: displayCategory(cat),
			Current:  round2(cur),
			Previous: round2(prev),
			Change:   round2(cur.Sub(prev)),
		}
		row.ChangePercent, row.InfiniteChange = percentChange(cur, prev)

		report.Rows = append(report.Rows, row)

		report.TotalCurrent = report.TotalCurrent.Add(cur)
		report.TotalPrevious = report.TotalPrevious.Add(prev)
	}

	report.TotalChange = round2(report.TotalCurrent.Sub(report.TotalPrevious))
	report.TotalChangePercent, report.TotalInfiniteChange = percentChange(report.TotalCurrent, report.TotalPrevious)
	report.TotalCurrent = round2(report.TotalCurrent)
	report.TotalPrevious = round2(report.TotalPrevious)

	return report, nil
}

// percentChange computes (current-previous)/previous*100. A zero previous
// with positive current is reported as infinite rather than dividing by
// zero; a zero previous with zero current is undefined.
func percentChange(current, previous decimal.Decimal) (*decimal.Decimal, bool) {
	if previous.Sign() > 0 {
		p := current.Sub(previous).Div(previous).Mul(oneHundred).Round(1)
		return &p, false
	}

	if current.Sign() > 0 {
		return nil, true
	}

	return nil, false
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
