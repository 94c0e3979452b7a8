package insights

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/transaction"
)

// FrequentOptions tunes the frequent-spending analysis.
type FrequentOptions struct {
	StartDate    *time.Time // inclusive
	EndDate      *time.Time // inclusive
	MinFrequency int
}

func DefaultFrequentOptions() FrequentOptions {
	return FrequentOptions{MinFrequency: 2}
}

// FrequentGroup is a set of spending transactions sharing an exact
// (title-cased) description. Unlike recurring groups there is no interval or
// amount-stability requirement; this is the coarse "how often did I buy from
// X" view.
type FrequentGroup struct {
	Description    string // title-cased grouping key
	Category       string // most common among members, title-cased for display
	Count          int
	TotalSpend     decimal.Decimal // absolute, rounded to cents
	AverageSpend   decimal.Decimal
	TransactionIDs []uuid.UUID
}

// FrequentSpending groups operational-spending transactions (negative
// amount, non-transfer category) by exact title-cased description and
// reports every group meeting the minimum frequency, ordered by frequency
// then total spend. Descriptions are not date-stripped here; the grouping is
// deliberately literal.
func FrequentSpending(txs []transaction.Transaction, opts FrequentOptions) []FrequentGroup {
	if opts.MinFrequency < 1 {
		opts.MinFrequency = 1
	}

	members := map[string][]transaction.Transaction{}

	var order []string

	for _, tx := range txs {
		if tx.Date.IsZero() || tx.Description == "" {
			continue
		}

		if opts.StartDate != nil && tx.Date.Before(*opts.StartDate) {
			continue
		}

		if opts.EndDate != nil && tx.Date.After(*opts.EndDate) {
			continue
		}

		if tx.Amount.Sign() >= 0 || isTransfer(categoryKey(tx)) {
			continue
		}

		key := titleCaser.String(tx.Description)
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}

		members[key] = append(members[key], tx)
	}

	var groups []FrequentGroup

	for _, key := range order {
		group := members[key]
		if len(group) < opts.MinFrequency {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if !group[i].Date.Equal(group[j].Date) {
				return group[i].Date.Before(group[j].Date)
			}

			return group[i].ID.String() < group[j].ID.String()
		})

		total := decimal.Zero
		ids := make([]uuid.UUID, 0, len(group))

		for _, tx := range group {
			total = total.Add(tx.Amount.Abs())
			ids = append(ids, tx.ID)
		}

		groups = append(groups, FrequentGroup{
			Description:    key,
			Category:       displayCategory(mostCommonCategory(group)),
			Count:          len(group),
			TotalSpend:     round2(total),
			AverageSpend:   round2(total.Div(decimal.NewFromInt(int64(len(group))))),
			TransactionIDs: ids,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}

		if !groups[i].TotalSpend.Equal(groups[j].TotalSpend) {
			return groups[i].TotalSpend.GreaterThan(groups[j].TotalSpend)
		}

		return groups[i].Description < groups[j].Description
	})

	return groups
}
