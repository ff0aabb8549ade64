// Package exporter turns fetched price series into downloadable artifacts:
// a combined CSV with a Symbol column, or a multi-sheet xlsx workbook with
// one sheet per symbol.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"stockdash/pkg/contracts/domain"
)

// csvHeaders is the column order of the combined CSV export.
var csvHeaders = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Symbol"}

// CSVExporter writes the combined delimited export.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	return &CSVExporter{logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteCombined writes all symbols' full series into one CSV stream, with
// the symbol as an added trailing column. order fixes the symbol ordering
// so downloads are stable across requests.
func (e *CSVExporter) WriteCombined(w io.Writer, order []string, data map[string]domain.PriceSeries) error {
	// UTF-8 BOM so Excel opens the file correctly
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	rows := 0
	for _, symbol := range order {
		for _, bar := range data[symbol] {
			record := []string{
				bar.Date.Format("2006-01-02"),
				formatFloat(bar.Open),
				formatFloat(bar.High),
				formatFloat(bar.Low),
				formatFloat(bar.Close),
				formatInt(bar.Volume),
				symbol,
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("write record for %s: %w", symbol, err)
			}
			rows++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	e.logger.Info("combined CSV written",
		slog.Int("symbols", len(order)),
		slog.Int("rows", rows))

	return nil
}

// ReadCombined parses a combined CSV stream back into per-symbol series.
// It is the inverse of WriteCombined and tolerates a leading UTF-8 BOM.
func ReadCombined(r io.Reader) (map[string]domain.PriceSeries, error) {
	reader := csv.NewReader(newBOMReader(r))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: missing header row")
	}

	data := make(map[string]domain.PriceSeries)
	for i, record := range records[1:] {
		bar, symbol, err := parseCSVRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		data[symbol] = append(data[symbol], bar)
	}

	return data, nil
}
