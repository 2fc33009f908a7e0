package reports

import (
	"sort"
	"strings"
	"unicode"
)

const (
	SheetUsers = "Users"
	SheetTasks = "Tasks"
)

type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldRole         Field = "role"
	FieldAdminKey     Field = "adminKey"
	FieldProfileImage Field = "profileImage"

	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldStatus      Field = "status"
	FieldDueDate     Field = "dueDate"
	FieldProgress    Field = "progress"
	FieldCreatedBy   Field = "createdBy"
	FieldAssignedTo  Field = "assignedTo"
	FieldChecklist   Field = "todoChecklist"
	FieldAttachments Field = "attachments"
)

// AliasTable lists, per field, the header spellings accepted for it. When a
// sheet carries several of them, the first non-blank one in list order wins.
type AliasTable map[Field][]string

var DefaultUserAliases = AliasTable{
	FieldID:           {"ID", "_id", "UserID"},
	FieldName:         {"Name", "FullName"},
	FieldEmail:        {"Email", "EmailAddress"},
	FieldRole:         {"Role"},
	FieldAdminKey:     {"Admin Key", "AdminInviteToken"},
	FieldProfileImage: {"ProfileImage", "ProfileImageUrl", "Avatar"},
}

var DefaultTaskAliases = AliasTable{
	FieldID:          {"ID", "_id", "TaskID"},
	FieldTitle:       {"Title"},
	FieldDescription: {"Description"},
	FieldPriority:    {"Priority"},
	FieldStatus:      {"Status"},
	FieldDueDate:     {"DueDate", "Due"},
	FieldProgress:    {"Progress"},
	FieldCreatedBy:   {"CreatedByEmail", "CreatedBy", "Creator"},
	FieldAssignedTo:  {"AssignedTo", "AssignedToEmails", "Assignees"},
	FieldChecklist:   {"TodoChecklist", "Checklist", "Todos"},
	FieldAttachments: {"Attachments"},
}

// Binding maps each field to the concrete headers of one sheet that carry it.
type Binding map[Field][]string

// Bind resolves the alias table against a sheet's header row once, so row
// lookups need no per-row header matching.
func (t AliasTable) Bind(headers []string) Binding {
	present := make(map[string]string, len(headers))
	for _, h := range headers {
		key := canonicalHeader(h)
		if key == "" {
			continue
		}
		if _, dup := present[key]; !dup {
			present[key] = h
		}
	}

	b := make(Binding, len(t))
	for field, aliases := range t {
		for _, alias := range aliases {
			if h, ok := present[canonicalHeader(alias)]; ok {
				b[field] = append(b[field], h)
			}
		}
	}
	return b
}

// BindRow is Bind for a row that did not come with a header list.
func (t AliasTable) BindRow(row RawRow) Binding {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	// map order is random; keep duplicate canonical keys deterministic
	sort.Strings(headers)
	return t.Bind(headers)
}

// Value returns the first non-blank cell bound to field.
func (b Binding) Value(row RawRow, field Field) any {
	for _, h := range b[field] {
		if v, ok := row[h]; ok && cellString(v) != "" {
			return v
		}
	}
	return nil
}

func (b Binding) String(row RawRow, field Field) string {
	return cellString(b.Value(row, field))
}

// canonicalHeader folds case and drops spaces, underscores and dashes, so
// "Admin Key", "adminKey" and "admin_key" match.
func canonicalHeader(h string) string {
	var sb strings.Builder
	for _, r := range h {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
