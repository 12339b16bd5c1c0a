package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Worked time"

// XLSX writes the table as a single sheet workbook: a title row, a header
// row, one row per month and a bold total row.
func XLSX(t YearTable) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	hoursFmt := "0.00"
	numeric, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", t.Title()); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A3", &[]any{"Month", "Worked", "Hours"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A3", "C3", bold); err != nil {
		return nil, err
	}

	row := 4
	for _, m := range t.Months {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheetName, cell, &[]any{m.Name, m.Clock, hours(m.Seconds)}); err != nil {
			return nil, err
		}
		row++
	}

	total := t.Total()
	totalCell := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(sheetName, totalCell, &[]any{total.Name, total.Clock, hours(total.Seconds)}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, totalCell, fmt.Sprintf("C%d", row), bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "C4", fmt.Sprintf("C%d", row), numeric); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", "C", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
