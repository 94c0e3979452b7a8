package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when no categorization rule matches.
// Categories are case-insensitive semantically and persisted lowercase.
const DefaultCategory = "uncategorized"

// Transaction is the canonical record every source format normalizes into.
//
// Amount is an exact decimal, positive for money in (income, refunds,
// transfers in) and negative for money out. Monetary math must never go
// through binary floats; precision to the cent is a correctness requirement.
type Transaction struct {
	ID             uuid.UUID
	Date           time.Time // economic date, no time component
	Description    string
	RawDescription string // original text; falls back to Description
	Amount         decimal.Decimal
	Category       string

	// Provenance, passed through untouched by the analytics core.
	TransactionType   string
	SourceAccountType string
	SourceFilename    string

	// Optional business dimensions used for slicing in reports.
	ClientName        string
	InvoiceID         string
	ProjectID         string
	PayoutSource      string
	TransactionOrigin string
	DataContext       string

	CreatedAt time.Time
	UpdatedAt *time.Time
}
