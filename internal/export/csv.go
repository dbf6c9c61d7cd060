package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jobpulse/analyzer/internal/domain"
)

// WriteCSV writes one row per posting under a domain.Columns header.
func WriteCSV(w io.Writer, postings []domain.Posting) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(domain.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range postings {
		if err := writer.Write(p.Row()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
