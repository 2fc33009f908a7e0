package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/moh-ammad/exceltovisual/models"

	"github.com/go-playground/validator/v10"
)

const (
	checklistSeparator = " | "
	markDone           = "✔"
	markOpen           = "✘"
)

var (
	checklistItemRe  = regexp.MustCompile(`^(.*?)\s*\[\s*(✔|✓|x|X|✘|✗)?\s*\]$`)
	attachmentItemRe = regexp.MustCompile(`^\s*([^()]+?)\s*\(\s*([^()\s]+)\s*\)\s*(?:,|$)`)
)

type jsonTodo struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	DueDate   any    `json:"dueDate,omitempty"`
}

// ParseChecklist accepts a JSON array or the delimited export form
// "<text> [✔] | <text> [✘]".
func ParseChecklist(v *validator.Validate, cell string) ([]models.TodoItem, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	var items []models.TodoItem
	if strings.HasPrefix(cell, "[") {
		var raw []jsonTodo
		if err := json.Unmarshal([]byte(cell), &raw); err != nil {
			return nil, fmt.Errorf("invalid checklist JSON: %w", err)
		}
		for _, r := range raw {
			item := models.TodoItem{Text: strings.TrimSpace(r.Text), Completed: r.Completed}
			if r.DueDate != nil && cellString(r.DueDate) != "" {
				due, err := ParseDate(r.DueDate)
				if err != nil {
					return nil, fmt.Errorf("checklist item %q: %w", item.Text, err)
				}
				item.DueDate = &due
			}
			items = append(items, item)
		}
	} else {
		for _, part := range strings.Split(cell, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, parseChecklistItem(part))
		}
	}

	for i := range items {
		if err := v.Struct(items[i]); err != nil {
			return nil, fmt.Errorf("checklist item %d has no text", i+1)
		}
	}
	return items, nil
}

func parseChecklistItem(s string) models.TodoItem {
	m := checklistItemRe.FindStringSubmatch(s)
	if m == nil {
		return models.TodoItem{Text: s}
	}
	done := m[2] == "✔" || m[2] == "✓" || m[2] == "x" || m[2] == "X"
	return models.TodoItem{Text: strings.TrimSpace(m[1]), Completed: done}
}

// FormatChecklist writes the delimited form, or the JSON form when an item
// carries a due date or text the delimited grammar cannot hold.
func FormatChecklist(items []models.TodoItem) string {
	for _, it := range items {
		if it.DueDate != nil || strings.ContainsAny(it.Text, "|[]") {
			return checklistJSON(items)
		}
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		mark := markOpen
		if it.Completed {
			mark = markDone
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", it.Text, mark))
	}
	return strings.Join(parts, checklistSeparator)
}

var errMalformedAttachment = errors.New("expected \"<name> (<url>)\"")

// ParseAttachments accepts a JSON array or comma-joined "<name> (<url>)".
func ParseAttachments(v *validator.Validate, cell string) ([]models.Attachment, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	var out []models.Attachment
	if strings.HasPrefix(cell, "[") {
		if err := json.Unmarshal([]byte(cell), &out); err != nil {
			return nil, fmt.Errorf("invalid attachments JSON: %w", err)
		}
	} else {
		rest := cell
		for strings.TrimSpace(rest) != "" {
			loc := attachmentItemRe.FindStringSubmatchIndex(rest)
			if loc == nil {
				return nil, fmt.Errorf("invalid attachment %q: %w", strings.TrimSpace(rest), errMalformedAttachment)
			}
			out = append(out, models.Attachment{
				Name: rest[loc[2]:loc[3]],
				URL:  rest[loc[4]:loc[5]],
			})
			rest = rest[loc[1]:]
		}
	}

	for i := range out {
		out[i].Name = strings.TrimSpace(out[i].Name)
		out[i].URL = strings.TrimSpace(out[i].URL)
		if err := v.Struct(out[i]); err != nil {
			return nil, fmt.Errorf("attachment %d needs both name and url", i+1)
		}
	}
	return out, nil
}

// FormatAttachments writes the delimited form, or the JSON form when a name
// or url would not survive it.
func FormatAttachments(atts []models.Attachment) string {
	for _, a := range atts {
		if strings.ContainsAny(a.Name, "()[]") || strings.ContainsAny(a.URL, "() \t") {
			return jsonCell(atts)
		}
	}
	parts := make([]string, 0, len(atts))
	for _, a := range atts {
		parts = append(parts, fmt.Sprintf("%s (%s)", a.Name, a.URL))
	}
	return strings.Join(parts, ", ")
}

func checklistJSON(items []models.TodoItem) string {
	raw := make([]jsonTodo, 0, len(items))
	for _, it := range items {
		r := jsonTodo{Text: it.Text, Completed: it.Completed}
		if it.DueDate != nil {
			r.DueDate = FormatDate(*it.DueDate)
		}
		raw = append(raw, r)
	}
	return jsonCell(raw)
}

func jsonCell(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
