package insights_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/insights"
	"github.com/spendlens/spendlens/internal/transaction"
)

func TestFindDuplicates_TwoSpotifySubscriptions(t *testing.T) {
	txs := []transaction.Transaction{
		tx("2024-01-19", "SPOTIFY USA", "-10.99", "subscriptions"),
		tx("2024-02-19", "SPOTIFY USA", "-10.99", "subscriptions"),
		tx("2024-03-19", "SPOTIFY USA", "-10.99", "subscriptions"),
		tx("2024-04-19", "SPOTIFY USA", "-10.99", "subscriptions"),

		tx("2024-01-21", "SPOTIFYAB", "-10.71", "subscriptions"),
		tx("2024-02-21", "SPOTIFYAB", "-10.71", "subscriptions"),
		tx("2024-03-21", "SPOTIFYAB", "-10.71", "subscriptions"),
		tx("2024-04-21", "SPOTIFYAB", "-10.71", "subscriptions"),
	}

	recurring := insights.DetectRecurring(txs, insights.DefaultRecurringOptions())
	require.Len(t, recurring, 2)

	duplicates := insights.FindDuplicates(recurring, insights.DefaultDuplicateOptions())
	require.Len(t, duplicates, 1)

	group := duplicates[0]
	assert.Equal(t, "Subscriptions", group.Category)
	require.Len(t, group.Members, 2)

	descriptions := []string{group.Members[0].NormalizedDescription, group.Members[1].NormalizedDescription}
	assert.Contains(t, descriptions, "spotify usa")
	assert.Contains(t, descriptions, "spotifyab")
	assert.NotEmpty(t, group.Reason)
}

func TestFindDuplicates_LoneRecurringChargeNotFlagged(t *testing.T) {
	txs := []transaction.Transaction{
		tx("2024-01-10", "ELECTRIC BILL", "-88", "utilities"),
		tx("2024-02-10", "ELECTRIC BILL", "-90", "utilities"),
		tx("2024-03-10", "ELECTRIC BILL", "-92", "utilities"),
		tx("2024-04-10", "ELECTRIC BILL", "-95", "utilities"),
	}

	recurring := insights.DetectRecurring(txs, insights.DefaultRecurringOptions())
	require.Len(t, recurring, 1)

	duplicates := insights.FindDuplicates(recurring, insights.DefaultDuplicateOptions())
	assert.Empty(t, duplicates)
}

func TestFindDuplicates_FiltersCategoriesAndIncome(t *testing.T) {
	groups := []insights.RecurringGroup{
		// Dissimilar amounts in the same category: not duplicates.
		recurringGroup("netflix.com", "subscriptions", "-15.99", false, "2024-01-19", "2024-02-19"),
		recurringGroup("bigstream 4k", "subscriptions", "-49.99", false, "2024-01-20", "2024-02-20"),

		// Similar amounts and close dates, but groceries is not a
		// duplicate-prone category.
		recurringGroup("safeway", "groceries", "-95.00", false, "2024-01-05", "2024-02-05"),
		recurringGroup("kroger", "groceries", "-96.00", false, "2024-01-06", "2024-02-06"),

		// Income groups are never candidates.
		recurringGroup("payroll acme", "uncategorized", "2000", true, "2024-01-01", "2024-02-01"),
		recurringGroup("payroll beta", "uncategorized", "2010", true, "2024-01-02", "2024-02-02"),
	}

	duplicates := insights.FindDuplicates(groups, insights.DefaultDuplicateOptions())
	assert.Empty(t, duplicates)
}

func TestFindDuplicates_SimilarAmountsFarApartInMonth(t *testing.T) {
	// 1st vs 20th of each month: amounts are near-identical but the billing
	// days are too far apart to look like the same subscription.
	groups := []insights.RecurringGroup{
		recurringGroup("stream one", "subscriptions", "-9.99", false, "2024-01-01", "2024-02-01"),
		recurringGroup("stream two", "subscriptions", "-9.89", false, "2024-01-20", "2024-02-20"),
	}

	duplicates := insights.FindDuplicates(groups, insights.DefaultDuplicateOptions())
	assert.Empty(t, duplicates)
}

func mustDate(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return d
}

func recurringGroup(desc, category, avgAmount string, income bool, dates ...string) insights.RecurringGroup {
	g := insights.RecurringGroup{
		NormalizedDescription: desc,
		Description:           desc,
		Category:              category,
		IsIncome:              income,
		AverageAmount:         dec(avgAmount),
		Count:                 len(dates),
	}

	for _, d := range dates {
		g.Dates = append(g.Dates, mustDate(d))
	}

	return g
}
