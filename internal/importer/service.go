package importer

import (
	"fmt"
	"io"

	"github.com/spendlens/spendlens/internal/encoding"
	"github.com/spendlens/spendlens/internal/importer/chase"
	"github.com/spendlens/spendlens/internal/transaction"
)

type Service struct {
	chaseImporter Importer
}

func NewService() *Service {
	return &Service{
		chaseImporter: chase.New(),
	}
}

// Import decodes the upload to UTF-8, parses it with the importer for the
// given source and stamps filename provenance on every row. The int return is
// the skipped-row count from the parser.
func (s *Service) Import(source Source, filename string, r io.Reader) ([]transaction.CreateParams, int, error) {
	var imp Importer

	switch source {
	case SourceChaseChecking, SourceChaseCredit:
		imp = s.chaseImporter
	default:
		return nil, 0, fmt.Errorf("unknown source: %s", source)
	}

	utf8Reader, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("detect encoding: %w", err)
	}

	params, skipped, err := imp.Parse(utf8Reader)
	if err != nil {
		return nil, 0, err
	}

	for i := range params {
		params[i].SourceFilename = filename
	}

	return params, skipped, nil
}
