package results

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX returns the batch results as an XLSX workbook (as bytes), one
// row per record in insertion order.
func (s *Store) ExportXLSX() ([]byte, error) {
	start := time.Now()
	records := s.Records()

	f := excelize.NewFile()
	const sheet = "Screening"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Article Title",
		"Decision",
		"Category",
		"Reasoning",
		"Source File",
		"Timestamp",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, rec.ArticleTitle)
		write(2, rec.Decision)
		write(3, rec.Category)
		write(4, rec.Reasoning)
		write(5, rec.SourceFile)
		write(6, rec.ReviewedAt.Format(time.RFC3339))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 48) // title
	_ = f.SetColWidth(sheet, "B", "C", 16) // decision, category
	_ = f.SetColWidth(sheet, "D", "D", 80) // reasoning
	_ = f.SetColWidth(sheet, "E", "E", 36) // source file
	_ = f.SetColWidth(sheet, "F", "F", 22) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("results.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
