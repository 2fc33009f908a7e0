package reports

import (
	"strconv"
	"strings"
	"time"
)

// RawRow is one worksheet row keyed by its header text.
type RawRow map[string]any

// UserRow is a Users sheet row with headers resolved and cells trimmed.
type UserRow struct {
	Row          int
	ID           string
	Name         string
	Email        string
	Role         string
	AdminKey     string
	ProfileImage string
}

// TaskRow is a Tasks sheet row with headers resolved and cells trimmed.
// DueDate keeps the raw cell since it may be a spreadsheet serial.
type TaskRow struct {
	Row           int
	ID            string
	Title         string
	Description   string
	Priority      string
	Status        string
	DueDate       any
	Progress      string
	CreatedBy     string
	AssignedTo    string
	TodoChecklist string
	Attachments   string
}

// NormalizeUserRow returns ok=false when every recognized field is blank.
func NormalizeUserRow(b Binding, rowNum int, raw RawRow) (UserRow, bool) {
	r := UserRow{
		Row:          rowNum,
		ID:           b.String(raw, FieldID),
		Name:         b.String(raw, FieldName),
		Email:        strings.ToLower(b.String(raw, FieldEmail)),
		Role:         strings.ToLower(b.String(raw, FieldRole)),
		AdminKey:     b.String(raw, FieldAdminKey),
		ProfileImage: b.String(raw, FieldProfileImage),
	}
	empty := r.ID == "" && r.Name == "" && r.Email == "" && r.Role == "" &&
		r.AdminKey == "" && r.ProfileImage == ""
	return r, !empty
}

// NormalizeTaskRow returns ok=false when every recognized field is blank.
func NormalizeTaskRow(b Binding, rowNum int, raw RawRow) (TaskRow, bool) {
	r := TaskRow{
		Row:           rowNum,
		ID:            b.String(raw, FieldID),
		Title:         b.String(raw, FieldTitle),
		Description:   b.String(raw, FieldDescription),
		Priority:      strings.ToLower(b.String(raw, FieldPriority)),
		Status:        strings.ToLower(b.String(raw, FieldStatus)),
		DueDate:       b.Value(raw, FieldDueDate),
		Progress:      b.String(raw, FieldProgress),
		CreatedBy:     b.String(raw, FieldCreatedBy),
		AssignedTo:    b.String(raw, FieldAssignedTo),
		TodoChecklist: b.String(raw, FieldChecklist),
		Attachments:   b.String(raw, FieldAttachments),
	}
	empty := r.ID == "" && r.Title == "" && r.Description == "" && r.Priority == "" &&
		r.Status == "" && r.DueDate == nil && r.Progress == "" && r.CreatedBy == "" &&
		r.AssignedTo == "" && r.TodoChecklist == "" && r.Attachments == ""
	return r, !empty
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(dueDateLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format(dueDateLayout)
	default:
		return ""
	}
}
