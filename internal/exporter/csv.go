package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"reel-radar/internal/models"
	"reel-radar/internal/scoring"
)

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []*models.ContentRecord, mode scoring.Mode) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Headers(mode)); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, row := range Rows(records, mode, csvCaptionLimit) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
