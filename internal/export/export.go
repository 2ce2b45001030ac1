// Package export writes admin tables as CSV or XLSX attachments.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Format describes an export file type
type Format struct {
	Name        string
	ContentType string
	Extension   string
}

var formats = map[string]Format{
	FormatCSV:  {Name: FormatCSV, ContentType: "text/csv; charset=utf-8", Extension: "csv"},
	FormatXLSX: {Name: FormatXLSX, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Extension: "xlsx"},
}

// Lookup returns the format called name; empty defaults to CSV
func Lookup(name string) (Format, error) {
	if name == "" {
		name = FormatCSV
	}
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// Filename builds the attachment name for table exported at t
func (f Format) Filename(table string, t time.Time) string {
	return fmt.Sprintf("%s-%s.%s", table, t.UTC().Format("20060102-150405"), f.Extension)
}

// Write renders header plus one line per row in format f
func (f Format) Write(w io.Writer, sheet string, header []string, rows [][]string) error {
	switch f.Name {
	case FormatXLSX:
		return WriteXLSX(w, sheet, header, rows)
	default:
		return WriteCSV(w, header, rows)
	}
}

// WriteCSV writes header and rows as RFC 4180 CSV. Cells that a spreadsheet
// would evaluate as formulas are prefixed with a single quote.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		safe := make([]string, len(row))
		for i, cell := range row {
			safe[i] = neutralizeFormula(cell)
		}
		if err := cw.Write(safe); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes header and rows into a single-sheet workbook
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		if err := f.AutoFilter(sheet, "A1:"+lastCell(len(header), len(rows)+1), nil); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func lastCell(cols, rows int) string {
	cell, _ := excelize.CoordinatesToCellName(cols, rows)
	return cell
}

// plainNumber matches cells that are entirely a phone number or signed number.
var plainNumber = regexp.MustCompile(`^[+-]?[0-9\s()\-]+$`)

// neutralizeFormula prefixes cells a spreadsheet would evaluate. Phone
// numbers and signed numbers are left alone.
func neutralizeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '@', '\t', '\r':
		return "'" + cell
	case '+', '-':
		if !plainNumber.MatchString(cell) {
			return "'" + cell
		}
	}
	return cell
}
