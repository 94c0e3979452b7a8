package rules

import "sort"

// vendorTable maps well-known vendor fragments (lowercase) to categories. It
// is the lowest-precedence rule layer and ships with the binary; user and
// suggested rules always win over it.
var vendorTable = map[string]string{
	"netflix":        "Subscriptions",
	"spotify":        "Subscriptions",
	"hulu":           "Subscriptions",
	"disney plus":    "Subscriptions",
	"audible":        "Subscriptions",
	"amazon prime":   "Subscriptions",
	"youtube":        "Subscriptions",
	"comcast":        "Utilities",
	"xfinity":        "Utilities",
	"verizon":        "Utilities",
	"t-mobile":       "Utilities",
	"electric":       "Utilities",
	"water bill":     "Utilities",
	"uber eats":      "Food Delivery",
	"doordash":       "Food Delivery",
	"grubhub":        "Food Delivery",
	"uber":           "Transport",
	"lyft":           "Transport",
	"shell":          "Gas",
	"chevron":        "Gas",
	"whole foods":    "Groceries",
	"trader joe":     "Groceries",
	"safeway":        "Groceries",
	"kroger":         "Groceries",
	"costco":         "Groceries",
	"walmart":        "Shopping",
	"target":         "Shopping",
	"amazon":         "Shopping",
	"starbucks":      "Coffee",
	"dunkin":         "Coffee",
	"mcdonald":       "Dining",
	"chipotle":       "Dining",
	"payroll":        "Income",
	"direct deposit": "Income",
	"gusto":          "Income",
	"stripe":         "Income",
	"zelle":          "Transfers",
	"venmo":          "Transfers",
	"transfer":       "Transfers",
	"payment thank":  "Payments",
	"autopay":        "Payments",
	"atm fee":        "Fees & Adjustments",
	"service fee":    "Fees & Adjustments",
	"interest":       "Fees & Adjustments",
	"gym":            "Health",
	"pharmacy":       "Health",
	"cvs":            "Health",
	"walgreens":      "Health",
}

// Categories returns the category vocabulary known to the vendor table,
// sorted, with the default category appended. Classifiers use it to constrain
// their output.
func Categories() []string {
	seen := map[string]bool{}

	var categories []string

	for _, cat := range vendorTable {
		if seen[cat] {
			continue
		}

		seen[cat] = true

		categories = append(categories, cat)
	}

	sort.Strings(categories)

	return append(categories, DefaultCategory)
}

// vendorPatterns holds the table's keys ordered longest first so that more
// specific fragments ("uber eats") match before their prefixes ("uber").
var vendorPatterns = func() []string {
	patterns := make([]string, 0, len(vendorTable))
	for p := range vendorTable {
		patterns = append(patterns, p)
	}

	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}

		return patterns[i] < patterns[j]
	})

	return patterns
}()
