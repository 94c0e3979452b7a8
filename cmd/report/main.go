// Command report renders an offline spending report for a single Chase CSV
// export. It categorizes with the built-in vendor table only; no database or
// network is involved.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/importer"
	"github.com/spendlens/spendlens/internal/insights"
	"github.com/spendlens/spendlens/internal/rules"
	"github.com/spendlens/spendlens/internal/transaction"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func main() {
	var (
		file   = flag.String("file", "", "path to the CSV export (required)")
		source = flag.String("source", string(importer.SourceChaseChecking), "chase_checking or chase_credit")
	)

	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*file, importer.Source(*source)); err != nil {
		slog.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(path string, source importer.Source) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	params, skipped, err := importer.NewService().Import(source, path, f)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	txs := make([]transaction.Transaction, len(params))
	for i, p := range params {
		category := rules.Categorize(p.Description, nil, nil)

		txs[i] = transaction.Transaction{
			ID:             uuid.New(),
			Date:           p.Date,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Amount:         p.Amount,
			Category:       strings.ToLower(category),
		}
	}

	fmt.Println(titleStyle.Render("SpendLens Report"))
	fmt.Println(labelStyle.Render(fmt.Sprintf("%s — %d transactions", path, len(txs))))

	if skipped > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d rows skipped (bad date or amount)", skipped)))
	}

	printSummary(insights.Summarize(txs))
	printTrends(txs)
	printRecurring(txs)
	printFrequent(txs)

	return nil
}

func printSummary(s insights.Summary) {
	fmt.Println(sectionStyle.Render("Summary"))
	fmt.Printf("  Period:               %s to %s\n", s.PeriodStart, s.PeriodEnd)
	fmt.Printf("  Operational income:   %s\n", s.OperationalIncome.StringFixed(2))
	fmt.Printf("  Operational spending: %s\n", s.OperationalSpending.StringFixed(2))
	fmt.Printf("  Net operational flow: %s\n", s.NetOperationalFlow.StringFixed(2))
	fmt.Printf("  Net transfer flow:    %s\n", s.NetTransferFlow.StringFixed(2))

	if len(s.NetSpendingByCategory) > 0 {
		fmt.Println(sectionStyle.Render("Net Spending by Category"))

		for _, cat := range sortedKeys(s.NetSpendingByCategory) {
			fmt.Printf("  %-24s %s\n", cat, s.NetSpendingByCategory[cat].StringFixed(2))
		}
	}
}

func printTrends(txs []transaction.Transaction) {
	fmt.Println(sectionStyle.Render("Month over Month"))

	report, err := insights.CompareMonths(txs)
	if err != nil {
		fmt.Println(labelStyle.Render("  not enough history to compare two months"))
		return
	}

	fmt.Printf("  %s vs %s\n", report.CurrentMonth, report.PreviousMonth)

	for _, row := range report.Rows {
		change := row.Change.StringFixed(2)

		switch {
		case row.InfiniteChange:
			change += " (new)"
		case row.ChangePercent != nil:
			change += fmt.Sprintf(" (%s%%)", row.ChangePercent.String())
		}

		fmt.Printf("  %-24s %s\n", row.Category, change)
	}
}

func printRecurring(txs []transaction.Transaction) {
	groups := insights.DetectRecurring(txs, insights.DefaultRecurringOptions())
	if len(groups) == 0 {
		return
	}

	fmt.Println(sectionStyle.Render("Recurring"))

	for _, g := range groups {
		kind := "charge"
		if g.IsIncome {
			kind = "deposit"
		}

		fmt.Printf("  %-24s %s every ~%d days (%d times, %s)\n",
			g.Description, g.AverageAmount.StringFixed(2), g.IntervalDays, g.Count, kind)
	}

	duplicates := insights.FindDuplicates(groups, insights.DefaultDuplicateOptions())
	if len(duplicates) == 0 {
		return
	}

	fmt.Println(sectionStyle.Render("Possible Duplicate Charges"))

	for _, d := range duplicates {
		names := make([]string, len(d.Members))
		for i, m := range d.Members {
			names[i] = m.Description
		}

		fmt.Println(warnStyle.Render(fmt.Sprintf("  %s: %s", d.Category, strings.Join(names, " / "))))
	}
}

func printFrequent(txs []transaction.Transaction) {
	groups := insights.FrequentSpending(txs, insights.DefaultFrequentOptions())
	if len(groups) == 0 {
		return
	}

	fmt.Println(sectionStyle.Render("Frequent Spending"))

	for _, g := range groups {
		fmt.Printf("  %-24s %d times, %s total\n", g.Description, g.Count, g.TotalSpend.StringFixed(2))
	}
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
