package importer

import (
	"io"

	"github.com/spendlens/spendlens/internal/transaction"
)

// Source identifies which institution exported the CSV being imported.
type Source string

const (
	SourceChaseChecking Source = "chase_checking"
	SourceChaseCredit   Source = "chase_credit"
)

// Importer parses one institution's CSV layout. The int return is the number
// of data rows skipped because of a missing or malformed date, description or
// amount; a skipped row is never fatal.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, int, error)
}
