package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"stockdash/pkg/contracts/domain"
)

// excelHeaders is the column order of each symbol sheet. No Symbol column:
// the sheet name carries it.
var excelHeaders = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// ExcelExporter writes the multi-sheet xlsx export.
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates an xlsx exporter.
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger.With(slog.String("component", "excel_exporter"))}
}

// WriteWorkbook writes one sheet per symbol into an xlsx stream. order fixes
// the sheet ordering so downloads are stable across requests.
func (e *ExcelExporter) WriteWorkbook(w io.Writer, order []string, data map[string]domain.PriceSeries) error {
	f, err := e.BuildWorkbook(order, data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook assembles the workbook in memory. The caller owns the file
// and must Close it.
func (e *ExcelExporter) BuildWorkbook(order []string, data map[string]domain.PriceSeries) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, symbol := range order {
		sheet := symbol
		if i == 0 {
			// Rename the default sheet instead of leaving an empty Sheet1
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet for %s: %w", symbol, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("create sheet for %s: %w", symbol, err)
			}
		}

		if err := e.writeSheet(f, sheet, data[symbol]); err != nil {
			f.Close()
			return nil, err
		}
	}

	e.logger.Info("workbook assembled", slog.Int("sheets", len(order)))
	return f, nil
}

func (e *ExcelExporter) writeSheet(f *excelize.File, sheet string, series domain.PriceSeries) error {
	header := make([]interface{}, len(excelHeaders))
	for i, h := range excelHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write headers on %s: %w", sheet, err)
	}

	for i, bar := range series {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name on %s: %w", sheet, err)
		}
		row := []interface{}{
			bar.Date.Format("2006-01-02"),
			bar.Open,
			bar.High,
			bar.Low,
			bar.Close,
			bar.Volume,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}

	return nil
}
