package reports

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/repositories"
)

var (
	errAdminKey      = errors.New("a valid admin key is required to grant the admin role")
	errForeignTask   = errors.New("you are not allowed to update this task")
	errNotSelfAssign = errors.New("task must be assigned to you")
)

// Writer applies validated rows to the stores one row at a time. Each row is
// a single insert, update or replace call.
type Writer struct {
	users        repositories.UserStore
	tasks        repositories.TaskStore
	adminKey     string
	passwordHash func() (string, error)
}

func NewWriter(users repositories.UserStore, tasks repositories.TaskStore, adminKey string, passwordHash func() (string, error)) *Writer {
	return &Writer{users: users, tasks: tasks, adminKey: adminKey, passwordHash: passwordHash}
}

// WriteUser upserts a user matched by ID, then by email. It reports whether
// a new user was created.
func (w *Writer) WriteUser(ctx context.Context, vu ValidUser) (bool, error) {
	existing, err := w.findUser(ctx, vu)
	if err != nil {
		return false, err
	}

	if vu.Role == models.RoleAdmin && (existing == nil || !existing.IsAdmin()) && !w.adminKeyMatches(vu.AdminKey) {
		return false, errAdminKey
	}

	if existing != nil {
		existing.Name = vu.Name
		if vu.Role != "" {
			existing.Role = vu.Role
		}
		if vu.ProfileImage != "" {
			existing.ProfileImageURL = vu.ProfileImage
		}
		if err := w.users.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("update user: %w", err)
		}
		return false, nil
	}

	hash, err := w.passwordHash()
	if err != nil {
		return false, err
	}
	user := &models.User{
		Name:            vu.Name,
		Email:           vu.Email,
		Password:        hash,
		ProfileImageURL: vu.ProfileImage,
		Role:            vu.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleMember
	}
	if vu.ID != nil {
		user.ID = *vu.ID
	}
	if err := w.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

func (w *Writer) findUser(ctx context.Context, vu ValidUser) (*models.User, error) {
	if vu.ID != nil {
		u, err := w.users.FindByID(ctx, *vu.ID)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
	}
	u, err := w.users.FindByEmail(ctx, vu.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (w *Writer) adminKeyMatches(key string) bool {
	if w.adminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(w.adminKey)) == 1
}

// WriteTask replaces the task named by the row's ID when it exists and
// inserts it otherwise. It reports whether a new task was created.
func (w *Writer) WriteTask(ctx context.Context, vt ValidTask, actor models.User, selfScoped bool) (bool, error) {
	task := vt.Task
	if selfScoped && !task.IsAssignedTo(actor.ID) {
		return false, errNotSelfAssign
	}
	task.SyncProgress()

	if vt.ID != nil {
		existing, err := w.tasks.FindByID(ctx, *vt.ID)
		switch {
		case err == nil:
			if selfScoped && existing.CreatedBy != actor.ID {
				return false, errForeignTask
			}
			task.ID = existing.ID
			task.CreatedAt = existing.CreatedAt
			if err := w.tasks.Replace(ctx, &task); err != nil {
				return false, fmt.Errorf("update task: %w", err)
			}
			return false, nil
		case errors.Is(err, repositories.ErrNotFound):
			task.ID = *vt.ID
		default:
			return false, fmt.Errorf("find task: %w", err)
		}
	}

	if err := w.tasks.Insert(ctx, &task); err != nil {
		return false, fmt.Errorf("create task: %w", err)
	}
	return true, nil
}
