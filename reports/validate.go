package reports

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/moh-ammad/exceltovisual/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// NewValidator returns a validator that names fields by their `label` tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

type ValidUser struct {
	Row          int
	ID           *primitive.ObjectID
	Name         string
	Email        string
	Role         models.Role
	AdminKey     string
	ProfileImage string
}

type ValidTask struct {
	Row  int
	ID   *primitive.ObjectID
	Task models.Task
}

// TaskResult is the outcome of validating one task row; exactly one of Task
// and Reasons is set.
type TaskResult struct {
	Row     int
	Task    *ValidTask
	Reasons []string
}

type userRowInput struct {
	Name         string `label:"name" validate:"required"`
	Email        string `label:"email" validate:"required,email"`
	ProfileImage string `label:"profile image" validate:"omitempty,url"`
}

type taskRowInput struct {
	Title      string `label:"title" validate:"required"`
	DueDate    string `label:"due date" validate:"required"`
	AssignedTo string `label:"assignedTo" validate:"required"`
}

// RowValidator checks normalized rows without touching storage.
type RowValidator struct {
	validate   *validator.Validate
	resolver   *Resolver
	actor      models.User
	selfScoped bool
}

func NewRowValidator(v *validator.Validate, resolver *Resolver, actor models.User, selfScoped bool) *RowValidator {
	return &RowValidator{validate: v, resolver: resolver, actor: actor, selfScoped: selfScoped}
}

func (rv *RowValidator) ValidateUser(row UserRow) (*ValidUser, []string) {
	var reasons []string

	in := userRowInput{Name: row.Name, Email: row.Email, ProfileImage: row.ProfileImage}
	reasons = append(reasons, fieldMessages(rv.validate.Struct(in))...)

	var role models.Role
	if row.Role != "" {
		r, err := models.ParseRole(row.Role)
		if err != nil {
			reasons = append(reasons, err.Error())
		}
		role = r
	}

	id, err := parseOptionalID(row.ID)
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("invalid user ID %q", row.ID))
	}

	if len(reasons) > 0 {
		return nil, reasons
	}
	return &ValidUser{
		Row:          row.Row,
		ID:           id,
		Name:         row.Name,
		Email:        row.Email,
		Role:         role,
		AdminKey:     row.AdminKey,
		ProfileImage: row.ProfileImage,
	}, nil
}

// ValidateTask runs presence, enum, date, reference and structural checks in
// that order and reports every failure it finds.
func (rv *RowValidator) ValidateTask(row TaskRow) (*ValidTask, []string) {
	var reasons []string

	in := taskRowInput{Title: row.Title, DueDate: cellString(row.DueDate), AssignedTo: row.AssignedTo}
	reasons = append(reasons, fieldMessages(rv.validate.Struct(in))...)

	priority, err := models.ParsePriority(row.Priority)
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	status, err := models.ParseStatus(row.Status)
	if err != nil {
		reasons = append(reasons, err.Error())
	}

	var due time.Time
	if in.DueDate != "" {
		d, err := ParseDate(row.DueDate)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("invalid due date %q", in.DueDate))
		} else {
			due = d
		}
	}

	creator := rv.actor.ID
	if row.CreatedBy != "" && !rv.selfScoped {
		id, err := rv.resolver.Resolve(row.CreatedBy)
		if err != nil {
			reasons = append(reasons, "createdBy: "+err.Error())
		} else {
			creator = id
		}
	}

	var assignees []primitive.ObjectID
	if row.AssignedTo != "" {
		ids, errs := rv.resolver.ResolveList(row.AssignedTo)
		for _, e := range errs {
			reasons = append(reasons, "assignedTo: "+e.Error())
		}
		if len(errs) == 0 && len(ids) == 0 {
			reasons = append(reasons, "no valid users found for assignment")
		}
		assignees = ids
	}

	checklist, err := ParseChecklist(rv.validate, row.TodoChecklist)
	if err != nil {
		reasons = append(reasons, err.Error())
	}
	attachments, err := ParseAttachments(rv.validate, row.Attachments)
	if err != nil {
		reasons = append(reasons, err.Error())
	}

	id, err := parseOptionalID(row.ID)
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("invalid task ID %q", row.ID))
	}

	if len(reasons) > 0 {
		return nil, reasons
	}
	return &ValidTask{
		Row: row.Row,
		ID:  id,
		Task: models.Task{
			Title:         row.Title,
			Description:   row.Description,
			Priority:      priority,
			Status:        status,
			DueDate:       due,
			AssignedTo:    assignees,
			CreatedBy:     creator,
			TodoChecklist: checklist,
			Attachments:   attachments,
		},
	}, nil
}

// ValidateTasks validates rows on up to workers goroutines and returns the
// results in input order.
func (rv *RowValidator) ValidateTasks(ctx context.Context, rows []TaskRow, workers int) ([]TaskResult, error) {
	results := make([]TaskResult, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range rows {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			task, reasons := rv.ValidateTask(rows[i])
			results[i] = TaskResult{Row: rows[i].Row, Task: task, Reasons: reasons}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseOptionalID(s string) (*primitive.ObjectID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func fieldMessages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			out = append(out, fmt.Sprintf("invalid email %q", fe.Value()))
		case "url":
			out = append(out, fmt.Sprintf("invalid %s URL %q", fe.Field(), fe.Value()))
		default:
			out = append(out, fmt.Sprintf("invalid %s", fe.Field()))
		}
	}
	return out
}
