// Package report renders the yearly worked time table as spreadsheet or PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"go-timesheet/internal/workday"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// YearTable is one employee's twelve month buckets for a year.
type YearTable struct {
	EmployeeID   string
	EmployeeName string
	Year         int
	Months       []workday.Bucket
	GeneratedAt  time.Time
}

func (t YearTable) Total() workday.Bucket {
	return workday.Total(t.Months)
}

func (t YearTable) Title() string {
	name := t.EmployeeName
	if name == "" {
		name = t.EmployeeID
	}
	return fmt.Sprintf("Worked time %d - %s", t.Year, name)
}

// Filename is a download name such as worked-time-2024-ada-lovelace.xlsx.
func (t YearTable) Filename(format string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(t.EmployeeName), "-"))
	if slug == "" {
		slug = t.EmployeeID
	}
	return fmt.Sprintf("worked-time-%d-%s.%s", t.Year, slug, format)
}

// Render dispatches on format and returns the file body and content type.
func Render(t YearTable, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		b, err := XLSX(t)
		return b, ContentTypeXLSX, err
	case FormatPDF:
		b, err := PDF(t)
		return b, ContentTypePDF, err
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatXLSX, FormatPDF:
		return true
	}
	return false
}

func hours(seconds int64) float64 {
	return float64(seconds) / 3600
}
