package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// Workbook is the read side of an xlsx file: every sheet with its header row
// and data rows.
type Workbook struct {
	Sheets []Sheet
}

type Sheet struct {
	Name    string
	Headers []string
	Rows    []SheetRow
}

// SheetRow carries its 1-based worksheet row number; the header is row 1.
type SheetRow struct {
	Number int
	Cells  RawRow
}

// Sheet finds a sheet by name, ignoring case. It returns nil when absent.
func (w *Workbook) Sheet(name string) *Sheet {
	for i := range w.Sheets {
		if strings.EqualFold(strings.TrimSpace(w.Sheets[i].Name), name) {
			return &w.Sheets[i]
		}
	}
	return nil
}

// ReadWorkbook parses an xlsx stream. Cells are read raw, so date cells
// arrive as serial numbers rather than locale-formatted text.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %s: %v", ErrUnreadableWorkbook, name, err)
		}
		wb.Sheets = append(wb.Sheets, buildSheet(name, rows))
	}
	return wb, nil
}

func buildSheet(name string, rows [][]string) Sheet {
	s := Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	s.Headers = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		s.Headers[i] = strings.TrimSpace(h)
	}
	for i, cells := range rows[1:] {
		row := make(RawRow, len(s.Headers))
		for col, v := range cells {
			if col >= len(s.Headers) || s.Headers[col] == "" {
				continue
			}
			if _, dup := row[s.Headers[col]]; dup {
				continue
			}
			row[s.Headers[col]] = v
		}
		s.Rows = append(s.Rows, SheetRow{Number: i + 2, Cells: row})
	}
	return s
}

// SheetData is the write side of one sheet.
type SheetData struct {
	Name    string
	Headers []string
	Records [][]any
}

// WriteWorkbook renders sheets in order with a bold header row.
func WriteWorkbook(w io.Writer, sheets ...SheetData) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sd := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sd.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sd.Name); err != nil {
			return fmt.Errorf("add sheet %s: %w", sd.Name, err)
		}
		if err := writeSheet(f, sd, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sd SheetData, headerStyle int) error {
	header := make([]any, len(sd.Headers))
	for i, h := range sd.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sd.Name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sd.Name, err)
	}
	if err := f.SetRowStyle(sd.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sd.Name, err)
	}

	for i, rec := range sd.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rec
		if err := f.SetSheetRow(sd.Name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sd.Name, i+2, err)
		}
	}

	if len(sd.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(sd.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sd.Name, "A", last, 20); err != nil {
			return fmt.Errorf("size %s columns: %w", sd.Name, err)
		}
	}
	return nil
}
