package insights

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Categories where paying twice for the same thing is plausible enough to be
// worth flagging. Income groups and everything else are left alone.
var duplicateProneCategories = map[string]bool{
	"subscriptions":      true,
	"utilities":          true,
	"services":           true,
	"fees & adjustments": true,
	"uncategorized":      true,
}

// DuplicateOptions tunes the duplicate-subscription heuristic.
type DuplicateOptions struct {
	AmountSimilarityPercent decimal.Decimal
	MaxDaysApartInMonth     int
}

func DefaultDuplicateOptions() DuplicateOptions {
	return DuplicateOptions{
		AmountSimilarityPercent: decimal.NewFromInt(10),
		MaxDaysApartInMonth:     7,
	}
}

// DuplicateGroup flags recurring groups within one category that look like
// the same real-world subscription billed twice. Output is advisory; nothing
// is merged or resolved automatically.
type DuplicateGroup struct {
	Category string // title-cased for display
	Members  []RecurringGroup
	Reason   string
}

// FindDuplicates cross-compares recurring groups within duplicate-prone
// categories. Two groups are suspect when their average amounts differ by at
// most AmountSimilarityPercent (relative to the larger amount) and any pair
// of their occurrences falls in the same calendar month no more than
// MaxDaysApartInMonth days apart. Every category with two or more suspect
// groups produces one DuplicateGroup.
func FindDuplicates(groups []RecurringGroup, opts DuplicateOptions) []DuplicateGroup {
	byCategory := map[string][]int{}

	for i, g := range groups {
		if g.IsIncome || !duplicateProneCategories[g.Category] {
			continue
		}

		byCategory[g.Category] = append(byCategory[g.Category], i)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}

	sort.Strings(categories)

	var result []DuplicateGroup

	for _, cat := range categories {
		candidates := byCategory[cat]
		flagged := map[int]bool{}

		for a := 0; a < len(candidates); a++ {
			for b := a + 1; b < len(candidates); b++ {
				ga, gb := groups[candidates[a]], groups[candidates[b]]

				if !amountsSimilar(ga.AverageAmount, gb.AverageAmount, opts.AmountSimilarityPercent) {
					continue
				}

				if !datesSuspiciouslyClose(ga, gb, opts.MaxDaysApartInMonth) {
					continue
				}

				flagged[candidates[a]] = true
				flagged[candidates[b]] = true
			}
		}

		if len(flagged) < 2 {
			continue
		}

		members := make([]RecurringGroup, 0, len(flagged))

		for _, idx := range candidates {
			if flagged[idx] {
				members = append(members, groups[idx])
			}
		}

		result = append(result, DuplicateGroup{
			Category: displayCategory(cat),
			Members:  members,
			Reason: fmt.Sprintf(
				"%d recurring charges in %s have similar amounts and bill within %d days of each other in the same month",
				len(members), displayCategory(cat), opts.MaxDaysApartInMonth,
			),
		})
	}

	return result
}

// amountsSimilar compares absolute average amounts: |a-b| / max(|a|,|b|)
// within the given percent. Pairs involving a zero amount are skipped; the
// ratio is undefined.
func amountsSimilar(a, b, percent decimal.Decimal) bool {
	a, b = a.Abs(), b.Abs()
	if a.Sign() == 0 || b.Sign() == 0 {
		return false
	}

	larger := a
	if b.GreaterThan(larger) {
		larger = b
	}

	return a.Sub(b).Abs().Div(larger).Mul(oneHundred).LessThanOrEqual(percent)
}

// datesSuspiciouslyClose reports whether any occurrence of one group falls in
// the same calendar month as an occurrence of the other, at most maxDays
// apart.
func datesSuspiciouslyClose(a, b RecurringGroup, maxDays int) bool {
	for _, da := range a.Dates {
		for _, db := range b.Dates {
			if !sameMonth(da, db) {
				continue
			}

			gap := daysBetween(da, db)
			if gap < 0 {
				gap = -gap
			}

			if gap <= maxDays {
				return true
			}
		}
	}

	return false
}
