package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportKind string

const (
	KindUsers      ReportKind = "users"
	KindTasks      ReportKind = "tasks"
	KindUsersTasks ReportKind = "users-tasks"
	KindTemplate   ReportKind = "template"
	KindMyTasks    ReportKind = "my-tasks"
)

var reportFilenames = map[ReportKind]string{
	KindUsers:      "users-report.xlsx",
	KindTasks:      "tasks-report.xlsx",
	KindUsersTasks: "users-tasks-report.xlsx",
	KindTemplate:   "empty-template.xlsx",
	KindMyTasks:    "my-tasks.xlsx",
}

func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := reportFilenames[k]; !ok {
		return "", fmt.Errorf("unknown report %q", s)
	}
	return k, nil
}

func (k ReportKind) Filename() string {
	return reportFilenames[k]
}

// AdminOnly reports whether the kind exposes other users' data.
func (k ReportKind) AdminOnly() bool {
	return k != KindMyTasks
}

var (
	UserColumns = []string{"ID", "Name", "Email", "Role", "ProfileImage", "CreatedAt", "UpdatedAt"}
	TaskColumns = []string{
		"ID", "Title", "Description", "Priority", "Status", "DueDate", "Progress",
		"CreatedBy", "CreatedByEmail", "AssignedTo", "TodoChecklist", "Attachments",
		"CreatedAt", "UpdatedAt",
	}
	TemplateUserColumns = []string{"ID", "Name", "Email", "Role", "Admin Key", "ProfileImage"}
	TemplateTaskColumns = []string{
		"ID", "Title", "Description", "Priority", "Status", "DueDate",
		"CreatedBy", "AssignedTo", "TodoChecklist", "Attachments",
	}
)

// UserRecords renders users in UserColumns order. Password hashes are never
// part of the output.
func UserRecords(users []models.User) [][]any {
	out := make([][]any, 0, len(users))
	for _, u := range users {
		out = append(out, []any{
			u.ID.Hex(),
			u.Name,
			u.Email,
			string(u.Role),
			u.ProfileImageURL,
			formatTimestamp(u.CreatedAt),
			formatTimestamp(u.UpdatedAt),
		})
	}
	return out
}

// TaskRecords renders tasks in TaskColumns order, expanding creator and
// assignee IDs through the user directory.
func TaskRecords(tasks []models.Task, directory map[primitive.ObjectID]models.User) [][]any {
	out := make([][]any, 0, len(tasks))
	for _, t := range tasks {
		creator := directory[t.CreatedBy]

		emails := make([]string, 0, len(t.AssignedTo))
		for _, id := range t.AssignedTo {
			if u, ok := directory[id]; ok {
				emails = append(emails, u.Email)
			}
		}

		out = append(out, []any{
			t.ID.Hex(),
			t.Title,
			t.Description,
			string(t.Priority),
			string(t.Status),
			FormatDate(t.DueDate),
			t.Progress,
			creator.Name,
			creator.Email,
			strings.Join(emails, ", "),
			FormatChecklist(t.TodoChecklist),
			FormatAttachments(t.Attachments),
			formatTimestamp(t.CreatedAt),
			formatTimestamp(t.UpdatedAt),
		})
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type Report struct {
	Kind     ReportKind
	Filename string
	Sheets   []SheetData
}

func (r *Report) Write(w io.Writer) error {
	return WriteWorkbook(w, r.Sheets...)
}

type Exporter struct {
	users repositories.UserStore
	tasks repositories.TaskStore
}

func NewExporter(users repositories.UserStore, tasks repositories.TaskStore) *Exporter {
	return &Exporter{users: users, tasks: tasks}
}

// Build assembles the sheets for kind. The caller enforces AdminOnly.
func (e *Exporter) Build(ctx context.Context, kind ReportKind, actor models.User) (*Report, error) {
	r := &Report{Kind: kind, Filename: kind.Filename()}

	switch kind {
	case KindTemplate:
		r.Sheets = []SheetData{
			{Name: SheetUsers, Headers: TemplateUserColumns},
			{Name: SheetTasks, Headers: TemplateTaskColumns},
		}
		return r, nil
	case KindUsers, KindTasks, KindUsersTasks, KindMyTasks:
	default:
		return nil, fmt.Errorf("unknown report %q", kind)
	}

	users, err := e.users.List(ctx, repositories.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if kind == KindUsers || kind == KindUsersTasks {
		r.Sheets = append(r.Sheets, SheetData{Name: SheetUsers, Headers: UserColumns, Records: UserRecords(users)})
	}
	if kind == KindUsers {
		return r, nil
	}

	filter := repositories.TaskFilter{}
	if kind == KindMyTasks {
		filter.CreatedBy = &actor.ID
	}
	tasks, err := e.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	directory := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		directory[u.ID] = u
	}
	r.Sheets = append(r.Sheets, SheetData{Name: SheetTasks, Headers: TaskColumns, Records: TaskRecords(tasks, directory)})
	return r, nil
}
