package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spendlens/spendlens/internal/rules"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "TrailingMonthDay", in: "NETFLIX.COM 04/12", want: "NETFLIX.COM"},
		{name: "TrailingMonthDayYear", in: "CITY PARKING 4/2/2024", want: "CITY PARKING"},
		{name: "TrailingShortYear", in: "CITY PARKING 4/2/24", want: "CITY PARKING"},
		{name: "NoDate", in: "SPOTIFY USA", want: "SPOTIFY USA"},
		{name: "EmbeddedNumbersKept", in: "7-ELEVEN 34521 PURCHASE", want: "7-ELEVEN 34521 PURCHASE"},
		{name: "EmbeddedDateKept", in: "FEE 04/12 ADJUSTMENT", want: "FEE 04/12 ADJUSTMENT"},
		{name: "BareDateKept", in: "04/12", want: "04/12"},
		{name: "Whitespace", in: "  ACME CORP 12/31  ", want: "ACME CORP"},
		{name: "TabAndNewline", in: "\tACME CORP 12/31\n", want: "ACME CORP"},
		{name: "WhitespaceOnly", in: "   ", want: ""},
		{name: "Empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	descriptions := []string{
		"NETFLIX.COM 04/12",
		"SPOTIFY USA",
		"  ACME CORP 12/31  ",
		"",
		"04/12",
	}

	for _, d := range descriptions {
		once := rules.Normalize(d)
		assert.Equal(t, once, rules.Normalize(once), "normalize should be idempotent for %q", d)
	}
}

func TestCategorize_Precedence(t *testing.T) {
	user := rules.Set{"netflix.com": "Entertainment"}
	suggested := rules.Set{"netflix.com": "Subscriptions", "blue bottle": "Coffee"}

	// User rule wins over suggested, case preserved as stored.
	assert.Equal(t, "Entertainment", rules.Categorize("NETFLIX.COM 04/12", user, suggested))

	// Suggested rule applies when no user rule matches.
	assert.Equal(t, "Coffee", rules.Categorize("BLUE BOTTLE", user, suggested))

	// Vendor table is the fallback layer.
	assert.Equal(t, "Transport", rules.Categorize("UBER TRIP 8821", nil, nil))

	// Longer vendor fragments match before their prefixes.
	assert.Equal(t, "Food Delivery", rules.Categorize("UBER EATS SF", nil, nil))

	// Nothing matches.
	assert.Equal(t, "Uncategorized", rules.Categorize("MYSTERY VENDOR", nil, nil))
	assert.Equal(t, "Uncategorized", rules.Categorize("", user, suggested))
}

func TestSave(t *testing.T) {
	set := rules.Set{}

	rules.Save(set, "NETFLIX.COM 04/12", "  Subscriptions ")
	assert.Equal(t, rules.Set{"netflix.com": "Subscriptions"}, set)

	// Overwrites the prior value for the same key.
	rules.Save(set, "netflix.com 05/14", "Entertainment")
	assert.Equal(t, "Entertainment", set["netflix.com"])

	// Empty inputs are ignored.
	rules.Save(set, "", "Food")
	rules.Save(set, "SOMETHING", "   ")
	assert.Len(t, set, 1)
}
