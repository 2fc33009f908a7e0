package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/moh-ammad/exceltovisual/models"

	"github.com/stretchr/testify/require"
)

func TestParseChecklist_Delimited(t *testing.T) {
	v := NewValidator()
	items, err := ParseChecklist(v, "Draft [✔] | Review [✘] | Ship [ ] | Polish [x] | Loose end")
	require.NoError(t, err)
	require.Equal(t, []models.TodoItem{
		{Text: "Draft", Completed: true},
		{Text: "Review"},
		{Text: "Ship"},
		{Text: "Polish", Completed: true},
		{Text: "Loose end"},
	}, items)

	_, err = ParseChecklist(v, "Review [✘] | [✔]")
	require.ErrorContains(t, err, "checklist item 2 has no text")
}

func TestParseChecklist_JSON(t *testing.T) {
	v := NewValidator()
	items, err := ParseChecklist(v, `[{"text":"a","completed":true},{"text":"b","dueDate":"2024-06-15"}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.True(t, items[0].Completed)
	require.Nil(t, items[0].DueDate)
	require.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), *items[1].DueDate)

	_, err = ParseChecklist(v, `[{"text":"a"`)
	require.ErrorContains(t, err, "invalid checklist JSON")

	_, err = ParseChecklist(v, `[{"text":"a","dueDate":"soon"}]`)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestChecklistRoundTrip(t *testing.T) {
	in := []models.TodoItem{{Text: "one", Completed: true}, {Text: "two"}}
	cell := FormatChecklist(in)
	require.Equal(t, "one [✔] | two [✘]", cell)

	out, err := ParseChecklist(NewValidator(), cell)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestParseAttachments(t *testing.T) {
	v := NewValidator()

	atts, err := ParseAttachments(v, "Brief (https://x.io/brief.pdf), Mockups v2 (https://x.io/m.png)")
	require.NoError(t, err)
	require.Equal(t, []models.Attachment{
		{Name: "Brief", URL: "https://x.io/brief.pdf"},
		{Name: "Mockups v2", URL: "https://x.io/m.png"},
	}, atts)

	atts, err = ParseAttachments(v, `[{"name":"Brief","url":"https://x.io/brief.pdf"}]`)
	require.NoError(t, err)
	require.Len(t, atts, 1)

	_, err = ParseAttachments(v, "Brief https://x.io/brief.pdf")
	require.ErrorContains(t, err, "invalid attachment")

	_, err = ParseAttachments(v, `[{"name":"Brief"}]`)
	require.ErrorContains(t, err, "needs both name and url")

	require.Equal(t, "Brief (https://x.io/brief.pdf), Mockups v2 (https://x.io/m.png)",
		FormatAttachments([]models.Attachment{
			{Name: "Brief", URL: "https://x.io/brief.pdf"},
			{Name: "Mockups v2", URL: "https://x.io/m.png"},
		}))
}

func TestFormatFallsBackToJSON(t *testing.T) {
	v := NewValidator()
	due := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		items []models.TodoItem
	}{
		{"pipe in text", []models.TodoItem{{Text: "a | b", Completed: true}, {Text: "c"}}},
		{"brackets in text", []models.TodoItem{{Text: "[draft] notes"}, {Text: "done [x]", Completed: true}}},
		{"item due date", []models.TodoItem{{Text: "ship", DueDate: &due}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cell := FormatChecklist(tc.items)
			require.True(t, strings.HasPrefix(cell, "["), cell)
			out, err := ParseChecklist(v, cell)
			require.NoError(t, err)
			require.Equal(t, tc.items, out)
		})
	}

	atts := []models.Attachment{
		{Name: "Go", URL: "https://en.wikipedia.org/wiki/Go_(programming_language)"},
		{Name: "Plan (v2)", URL: "https://x.io/plan.pdf"},
		{Name: "Notes & more", URL: "https://x.io/a b.txt"},
	}
	cell := FormatAttachments(atts)
	require.True(t, strings.HasPrefix(cell, "["), cell)
	out, err := ParseAttachments(v, cell)
	require.NoError(t, err)
	require.Equal(t, atts, out)
}
