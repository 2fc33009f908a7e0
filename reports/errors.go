package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFile means the request carried no workbook at all.
	ErrNoFile = errors.New("no Excel file uploaded")
	// ErrUnreadableWorkbook means the upload is not a readable xlsx file.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
	// ErrInvalidDate is returned by ParseDate.
	ErrInvalidDate = errors.New("invalid date")
)

// RowErrors collects row-level failures in the order they were found.
// Each import owns its own instance.
type RowErrors struct {
	items []string
}

func (e *RowErrors) Add(sheet string, row int, reason string) {
	e.items = append(e.items, fmt.Sprintf("%s row %d: %s", sheet, row, reason))
}

// AddSheet records an error that belongs to a whole sheet.
func (e *RowErrors) AddSheet(sheet, reason string) {
	e.items = append(e.items, fmt.Sprintf("%s sheet: %s", sheet, reason))
}

func (e *RowErrors) Len() int {
	return len(e.items)
}

func (e *RowErrors) Items() []string {
	out := make([]string, len(e.items))
	copy(out, e.items)
	return out
}
