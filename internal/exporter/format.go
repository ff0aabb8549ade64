package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"

	"stockdash/pkg/contracts/domain"
)

// formatFloat renders a price with the shortest representation that
// round-trips exactly, so an exported file re-parses to the same values.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt renders a volume count.
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// parseCSVRow converts one combined-CSV record back into a bar and symbol.
func parseCSVRow(record []string) (domain.PriceBar, string, error) {
	if len(record) != len(csvHeaders) {
		return domain.PriceBar{}, "", fmt.Errorf("expected %d fields, got %d", len(csvHeaders), len(record))
	}

	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return domain.PriceBar{}, "", fmt.Errorf("parse date: %w", err)
	}

	var prices [4]float64
	for i := 0; i < 4; i++ {
		prices[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return domain.PriceBar{}, "", fmt.Errorf("parse %s: %w", csvHeaders[i+1], err)
		}
	}

	volume, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return domain.PriceBar{}, "", fmt.Errorf("parse volume: %w", err)
	}

	return domain.PriceBar{
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, record[6], nil
}

// newBOMReader strips a leading UTF-8 BOM if present.
func newBOMReader(r io.Reader) io.Reader {
	buffered := bufio.NewReader(r)
	if lead, err := buffered.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		buffered.Discard(3)
	}
	return buffered
}

// Filename builds the dated download name for an export artifact,
// e.g. stock_data_20250315.csv.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("stock_data_%s.%s", now.Format("20060102"), format.Extension())
}

// Format selects the export artifact type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Valid reports whether f is a supported export format.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
