// Package insights turns a transaction stream into summaries, month-over-month
// trends, recurring-charge detection and duplicate-subscription flagging.
//
// Every entry point is a pure function of its inputs: no I/O, no shared state,
// safe to call concurrently as long as each call gets its own slice. All
// monetary math uses exact decimals; binary floats never touch money.
package insights

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spendlens/spendlens/internal/transaction"
)

// ErrInsufficientData is returned when an analysis needs more history than
// the transaction set covers. It is an expected outcome, not a failure; the
// boundary layer translates it into an explanatory payload.
var ErrInsufficientData = errors.New("insufficient data for analysis")

// Categories that represent internal movement of funds rather than real
// income or spending. Compared case-insensitively.
var transferCategories = map[string]bool{
	"transfers": true,
	"payments":  true,
}

// Categories that count as operational income.
var incomeCategories = map[string]bool{
	"income": true,
}

var titleCaser = cases.Title(language.AmericanEnglish)

// categoryKey returns the canonical lowercase category of a transaction,
// defaulting to uncategorized.
func categoryKey(tx transaction.Transaction) string {
	cat := strings.ToLower(strings.TrimSpace(tx.Category))
	if cat == "" {
		return transaction.DefaultCategory
	}

	return cat
}

func isTransfer(cat string) bool {
	return transferCategories[cat]
}

func isIncomeCategory(cat string) bool {
	return incomeCategories[cat]
}

// displayCategory title-cases a lowercase category key for output maps.
func displayCategory(cat string) string {
	return titleCaser.String(cat)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// round2 quantizes to cents, rounding half away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

var oneHundred = decimal.NewFromInt(100)

// netSpendingByMonth computes per-category net spending (gross spending minus
// same-category refunds, floored at zero) for the transactions of a single
// calendar month. Transfer categories are excluded entirely; this helper
// backs the trend comparison. Keys are lowercase category names.
func netSpendingForTrends(txs []transaction.Transaction) map[string]decimal.Decimal {
	spending := map[string]decimal.Decimal{}
	refunds := map[string]decimal.Decimal{}

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}

		cat := categoryKey(tx)
		if isTransfer(cat) || isIncomeCategory(cat) {
			continue
		}

		switch tx.Amount.Sign() {
		case -1:
			spending[cat] = spending[cat].Add(tx.Amount.Abs())
		case 1:
			refunds[cat] = refunds[cat].Add(tx.Amount)
		}
	}

	net := make(map[string]decimal.Decimal, len(spending))

	for cat, spent := range spending {
		n := spent.Sub(refunds[cat])
		if n.Sign() < 0 {
			n = decimal.Zero
		}

		net[cat] = n
	}

	return net
}
