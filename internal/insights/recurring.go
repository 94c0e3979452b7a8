package insights

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/rules"
	"github.com/spendlens/spendlens/internal/transaction"
)

// nominalMonthDays is the average Gregorian month length. Billing cycles are
// judged against it rather than a flat 30 so that 28-31 day months don't
// produce false negatives on their own.
const nominalMonthDays = 30.437

// RecurringOptions tunes the recurring-charge detector.
type RecurringOptions struct {
	MinOccurrences         int
	DaysTolerance          int
	AmountTolerancePercent decimal.Decimal
}

// DefaultRecurringOptions returns the tolerances used by the API when the
// caller does not override them.
func DefaultRecurringOptions() RecurringOptions {
	return RecurringOptions{
		MinOccurrences:         3,
		DaysTolerance:          3,
		AmountTolerancePercent: decimal.NewFromInt(5),
	}
}

// RecurringGroup is a cluster of transactions sharing a normalized
// description, a stable amount and a roughly monthly cadence. Groups are
// recomputed on every request and never persisted.
type RecurringGroup struct {
	NormalizedDescription string
	Description           string // earliest member's description, date fragment stripped, casing kept
	Category              string // most common category among members
	IsIncome              bool
	AverageAmount         decimal.Decimal // rounded to cents
	Count                 int
	Dates                 []time.Time // sorted ascending
	IntervalDays          int         // rounded average gap
}

// DetectRecurring finds recurring charges and deposits.
//
// Transactions are grouped by normalized lowercase description and
// income/expense sign. A group qualifies when it has at least MinOccurrences
// members, every amount is within AmountTolerancePercent of the group
// average, the average gap between consecutive occurrences is within
// 2×DaysTolerance days of a nominal month, and every individual gap is
// within DaysTolerance days of the average gap. Both filters are hard: a
// single outlier disqualifies the group.
func DetectRecurring(txs []transaction.Transaction, opts RecurringOptions) []RecurringGroup {
	type groupKey struct {
		desc   string
		income bool
	}

	members := map[groupKey][]transaction.Transaction{}

	var order []groupKey

	for _, tx := range txs {
		if tx.Date.IsZero() || tx.Description == "" {
			continue
		}

		if isTransfer(categoryKey(tx)) {
			continue
		}

		key := groupKey{
			desc:   rules.Key(tx.Description),
			income: tx.Amount.Sign() > 0,
		}
		if key.desc == "" {
			continue
		}

		if _, seen := members[key]; !seen {
			order = append(order, key)
		}

		members[key] = append(members[key], tx)
	}

	var groups []RecurringGroup

	for _, key := range order {
		group := members[key]
		if len(group) < opts.MinOccurrences {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if !group[i].Date.Equal(group[j].Date) {
				return group[i].Date.Before(group[j].Date)
			}

			return group[i].ID.String() < group[j].ID.String()
		})

		avg := averageAmount(group)
		if !amountsStable(group, avg, opts.AmountTolerancePercent) {
			continue
		}

		interval, ok := consistentInterval(group, opts.DaysTolerance)
		if !ok {
			continue
		}

		dates := make([]time.Time, len(group))
		for i, tx := range group {
			dates[i] = tx.Date
		}

		groups = append(groups, RecurringGroup{
			NormalizedDescription: key.desc,
			Description:           rules.Normalize(group[0].Description),
			Category:              mostCommonCategory(group),
			IsIncome:              key.income,
			AverageAmount:         round2(avg),
			Count:                 len(group),
			Dates:                 dates,
			IntervalDays:          interval,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}

		if groups[i].NormalizedDescription != groups[j].NormalizedDescription {
			return groups[i].NormalizedDescription < groups[j].NormalizedDescription
		}

		return !groups[i].IsIncome && groups[j].IsIncome
	})

	return groups
}

func averageAmount(txs []transaction.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}

	return sum.Div(decimal.NewFromInt(int64(len(txs))))
}

// amountsStable reports whether every member amount is within
// tolerancePercent of the group average. The tolerance is computed against
// the average, not pairwise.
func amountsStable(txs []transaction.Transaction, avg, tolerancePercent decimal.Decimal) bool {
	tolerance := avg.Abs().Mul(tolerancePercent).Div(oneHundred)

	for _, tx := range txs {
		if tx.Amount.Sub(avg).Abs().GreaterThan(tolerance) {
			return false
		}
	}

	return true
}

// consistentInterval checks the cadence of date-sorted members: the average
// gap must sit within 2×daysTolerance of a nominal month and each gap within
// daysTolerance of the average. Returns the rounded average gap.
func consistentInterval(txs []transaction.Transaction, daysTolerance int) (int, bool) {
	gaps := make([]int, 0, len(txs)-1)
	for i := 1; i < len(txs); i++ {
		gaps = append(gaps, daysBetween(txs[i-1].Date, txs[i].Date))
	}

	total := 0
	for _, g := range gaps {
		total += g
	}

	avgGap := float64(total) / float64(len(gaps))

	if math.Abs(avgGap-nominalMonthDays) > float64(2*daysTolerance) {
		return 0, false
	}

	for _, g := range gaps {
		if math.Abs(float64(g)-avgGap) > float64(daysTolerance) {
			return 0, false
		}
	}

	return int(math.Round(avgGap)), true
}

// mostCommonCategory picks the modal category of date-sorted members, ties
// broken by first encounter.
func mostCommonCategory(txs []transaction.Transaction) string {
	counts := map[string]int{}

	var order []string

	for _, tx := range txs {
		cat := categoryKey(tx)
		if counts[cat] == 0 {
			order = append(order, cat)
		}

		counts[cat]++
	}

	best := order[0]
	for _, cat := range order[1:] {
		if counts[cat] > counts[best] {
			best = cat
		}
	}

	return best
}
