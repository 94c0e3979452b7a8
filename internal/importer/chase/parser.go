// Package chase parses Chase checking and credit card CSV exports. The two
// layouts share Description/Amount/Type columns but name the date column
// differently, so the parser detects which profile it is looking at from the
// header row.
package chase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/transaction"
)

const dateLayout = "01/02/2006"

// profile maps one export layout to its date column. Credit is listed first:
// credit exports carry both "Transaction Date" and "Post Date", and the
// transaction date is the economic one.
type profile struct {
	accountType string
	dateColumn  string
}

var profiles = []profile{
	{accountType: "credit", dateColumn: "transaction date"},
	{accountType: "checking", dateColumn: "posting date"},
}

type Importer struct{}

func New() *Importer {
	return &Importer{}
}

// Parse reads a Chase export and returns creation params plus the number of
// skipped data rows. Rows missing a date or description, or with an
// unparseable date or amount, are skipped individually; a header that matches
// no profile or lacks Description/Amount is an error.
func (i *Importer) Parse(r io.Reader) ([]transaction.CreateParams, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("empty file")
	}

	header := rows[0]

	idxDate, accountType := -1, ""

	for _, p := range profiles {
		if idx := columnIndex(header, p.dateColumn); idx != -1 {
			idxDate, accountType = idx, p.accountType
			break
		}
	}

	idxDesc := columnIndex(header, "description")
	idxAmount := columnIndex(header, "amount")
	idxType := columnIndex(header, "type")

	var missing []string

	if idxDate == -1 {
		missing = append(missing, "Transaction Date or Posting Date")
	}

	if idxDesc == -1 {
		missing = append(missing, "Description")
	}

	if idxAmount == -1 {
		missing = append(missing, "Amount")
	}

	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var (
		params  []transaction.CreateParams
		skipped int
	)

	for _, row := range rows[1:] {
		maxIdx := max(idxDate, max(idxDesc, idxAmount))
		if len(row) <= maxIdx {
			skipped++
			continue
		}

		dateStr := strings.TrimSpace(row[idxDate])
		rawDesc := strings.TrimSpace(row[idxDesc])

		if dateStr == "" || rawDesc == "" {
			skipped++
			continue
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			skipped++
			continue
		}

		amount, err := parseAmount(row[idxAmount])
		if err != nil {
			skipped++
			continue
		}

		// Collapse runs of whitespace; Chase pads descriptions to fixed
		// widths inside a single field.
		description := strings.Join(strings.Fields(rawDesc), " ")

		txType := ""
		if idxType != -1 && len(row) > idxType {
			txType = strings.TrimSpace(row[idxType])
		}

		if txType == "" {
			txType = inferType(description, amount)
		}

		params = append(params, transaction.CreateParams{
			Date:              date,
			Description:       description,
			RawDescription:    rawDesc,
			Amount:            amount,
			TransactionType:   txType,
			SourceAccountType: accountType,
		})
	}

	return params, skipped, nil
}

// columnIndex finds a header column by case-insensitive trimmed name.
func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}

	return -1
}

// parseAmount accepts plain decimals plus the "$1,234.56" shape some exports
// use.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")

	return decimal.NewFromString(clean)
}

// inferType fills in the Type column when the export omits it, from the
// amount sign and a couple of description keywords.
func inferType(description string, amount decimal.Decimal) string {
	desc := strings.ToLower(description)

	if amount.Sign() > 0 {
		switch {
		case strings.Contains(desc, "payment"):
			return "PAYMENT_RECEIVED"
		case strings.Contains(desc, "deposit"):
			return "DEPOSIT"
		default:
			return "CREDIT"
		}
	}

	if strings.Contains(desc, "withdraw") {
		return "WITHDRAWAL"
	}

	return "DEBIT"
}
