package reports

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAliasTable_Bind(t *testing.T) {
	b := DefaultUserAliases.Bind([]string{"_id", "Full Name", "EMAIL", "role", "admin_key", "Avatar", ""})

	require.Equal(t, []string{"_id"}, b[FieldID])
	require.Equal(t, []string{"Full Name"}, b[FieldName])
	require.Equal(t, []string{"EMAIL"}, b[FieldEmail])
	require.Equal(t, []string{"admin_key"}, b[FieldAdminKey])
	require.Equal(t, []string{"Avatar"}, b[FieldProfileImage])
}

func TestBinding_FirstNonBlankAliasWins(t *testing.T) {
	b := DefaultTaskAliases.Bind([]string{"CreatedBy", "CreatedByEmail", "Assignees", "AssignedTo"})
	require.Equal(t, []string{"CreatedByEmail", "CreatedBy"}, b[FieldCreatedBy])

	row := RawRow{"CreatedBy": "Ann Lee", "CreatedByEmail": "ann@x.com", "AssignedTo": "  ", "Assignees": "bob@x.com"}
	require.Equal(t, "ann@x.com", b.String(row, FieldCreatedBy))
	require.Equal(t, "bob@x.com", b.String(row, FieldAssignedTo))

	row["CreatedByEmail"] = ""
	require.Equal(t, "Ann Lee", b.String(row, FieldCreatedBy))
}

func TestNormalizeUserRow(t *testing.T) {
	b := DefaultUserAliases.Bind([]string{"Name", "Email", "Role", "Admin Key"})

	row, ok := NormalizeUserRow(b, 3, RawRow{"Name": "  Ann ", "Email": " ANN@X.com", "Role": "Admin", "Admin Key": " K1 "})
	require.True(t, ok)
	require.Equal(t, UserRow{Row: 3, Name: "Ann", Email: "ann@x.com", Role: "admin", AdminKey: "K1"}, row)

	_, ok = NormalizeUserRow(b, 4, RawRow{"Name": " ", "Email": "", "Unrelated": "x"})
	require.False(t, ok)
}

func TestNormalizeTaskRow(t *testing.T) {
	b := DefaultTaskAliases.Bind([]string{"Title", "Priority", "Status", "Due", "Checklist"})

	row, ok := NormalizeTaskRow(b, 2, RawRow{"Title": " Ship ", "Priority": "HIGH", "Status": " Pending", "Due": "45458", "Checklist": "a [✔]"})
	require.True(t, ok)
	require.Equal(t, "Ship", row.Title)
	require.Equal(t, "high", row.Priority)
	require.Equal(t, "pending", row.Status)
	require.Equal(t, "45458", row.DueDate)
	require.Equal(t, "a [✔]", row.TodoChecklist)

	_, ok = NormalizeTaskRow(b, 3, RawRow{})
	require.False(t, ok)
}

func TestAliasTable_BindRow(t *testing.T) {
	row := RawRow{"title": "x", "due_date": 45458.0}
	b := DefaultTaskAliases.BindRow(row)
	require.Equal(t, "x", b.String(row, FieldTitle))
	require.Equal(t, 45458.0, b.Value(row, FieldDueDate))
}
