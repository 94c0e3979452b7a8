package insights

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/transaction"
)

// Summary holds income, spending and transfer totals plus per-category
// breakdowns for one transaction set. Map keys are title-cased for display;
// all amounts are exact decimals.
type Summary struct {
	TransactionCount int
	SkippedCount     int

	PeriodStart string // ISO date of the earliest transaction, "" when empty
	PeriodEnd   string

	OperationalIncome   decimal.Decimal
	OperationalSpending decimal.Decimal
	TransfersIn         decimal.Decimal
	TransfersOut        decimal.Decimal

	NetOperationalFlow decimal.Decimal // income - spending
	NetTransferFlow    decimal.Decimal // transfers in - transfers out
	NetTotalFlow       decimal.Decimal // sum of both flows

	AverageAmount decimal.Decimal
	MedianAmount  decimal.Decimal

	SpendingByCategory    map[string]decimal.Decimal
	IncomeByCategory      map[string]decimal.Decimal
	RefundsByCategory     map[string]decimal.Decimal
	NetSpendingByCategory map[string]decimal.Decimal
}

// Summarize computes totals and per-category breakdowns, net of refunds.
//
// A positive amount in a non-transfer, non-income category is a refund
// against that category when the category has spending in the same set;
// otherwise it counts as ordinary operational income (so uncategorized
// deposits show up as income rather than disappearing). Refunds reduce the
// matching category's net spending, floored at zero; they never turn a
// category's spending negative and never reduce the gross spending total.
//
// Records without a usable date are skipped and counted, never fatal.
func Summarize(txs []transaction.Transaction) Summary {
	s := Summary{
		SpendingByCategory:    map[string]decimal.Decimal{},
		IncomeByCategory:      map[string]decimal.Decimal{},
		RefundsByCategory:     map[string]decimal.Decimal{},
		NetSpendingByCategory: map[string]decimal.Decimal{},
	}

	valid := make([]transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if tx.Date.IsZero() {
			s.SkippedCount++
			continue
		}

		valid = append(valid, tx)
	}

	if s.SkippedCount > 0 {
		slog.Warn("skipped transactions without dates in summary", "count", s.SkippedCount)
	}

	s.TransactionCount = len(valid)
	if len(valid) == 0 {
		return s
	}

	s.PeriodStart, s.PeriodEnd = period(valid)

	spending := map[string]decimal.Decimal{} // lowercase keys, absolute values
	income := map[string]decimal.Decimal{}
	refunds := map[string]decimal.Decimal{}

	type deferred struct {
		cat    string
		amount decimal.Decimal
	}

	var positives []deferred // non-transfer, non-income credits, resolved in pass two

	amounts := make([]decimal.Decimal, 0, len(valid))

	// Pass one: spending, income-category credits and transfers.
	for _, tx := range valid {
		amounts = append(amounts, tx.Amount)
		cat := categoryKey(tx)

		switch tx.Amount.Sign() {
		case -1:
			abs := tx.Amount.Abs()
			spending[cat] = spending[cat].Add(abs)

			if isTransfer(cat) {
				s.TransfersOut = s.TransfersOut.Add(abs)
			} else {
				s.OperationalSpending = s.OperationalSpending.Add(abs)
			}
		case 1:
			switch {
			case isTransfer(cat):
				s.TransfersIn = s.TransfersIn.Add(tx.Amount)
			case isIncomeCategory(cat):
				s.OperationalIncome = s.OperationalIncome.Add(tx.Amount)
				income[cat] = income[cat].Add(tx.Amount)
			default:
				positives = append(positives, deferred{cat: cat, amount: tx.Amount})
			}
		}
	}

	// Pass two: a credit is a refund only when its category actually has
	// spending to refund; otherwise it is ordinary income.
	for _, p := range positives {
		if spending[p.cat].Sign() > 0 {
			refunds[p.cat] = refunds[p.cat].Add(p.amount)
		} else {
			s.OperationalIncome = s.OperationalIncome.Add(p.amount)
			income[p.cat] = income[p.cat].Add(p.amount)
		}
	}

	for cat, spent := range spending {
		net := spent
		if !isTransfer(cat) {
			net = spent.Sub(refunds[cat])
			if net.Sign() < 0 {
				net = decimal.Zero
			}
		}

		s.SpendingByCategory[displayCategory(cat)] = spent
		s.NetSpendingByCategory[displayCategory(cat)] = net
	}

	for cat, v := range income {
		s.IncomeByCategory[displayCategory(cat)] = v
	}

	for cat, v := range refunds {
		s.RefundsByCategory[displayCategory(cat)] = v
	}

	s.NetOperationalFlow = s.OperationalIncome.Sub(s.OperationalSpending)
	s.NetTransferFlow = s.TransfersIn.Sub(s.TransfersOut)
	s.NetTotalFlow = s.NetOperationalFlow.Add(s.NetTransferFlow)

	s.AverageAmount, s.MedianAmount = averageAndMedian(amounts)

	return s
}

func period(txs []transaction.Transaction) (string, string) {
	start, end := txs[0].Date, txs[0].Date

	for _, tx := range txs[1:] {
		if tx.Date.Before(start) {
			start = tx.Date
		}

		if tx.Date.After(end) {
			end = tx.Date
		}
	}

	return start.Format(time.DateOnly), end.Format(time.DateOnly)
}

func averageAndMedian(amounts []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(amounts) == 0 {
		return decimal.Zero, decimal.Zero
	}

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}

	avg := round2(sum.Div(decimal.NewFromInt(int64(len(amounts)))))

	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2

	var median decimal.Decimal
	if len(sorted)%2 == 1 {
		median = round2(sorted[mid])
	} else {
		median = round2(sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)))
	}

	return avg, median
}
