package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/repositories"
	"github.com/moh-ammad/exceltovisual/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminKey = "invite-123"

type env struct {
	users   *repositories.MemoryUserStore
	tasks   *repositories.MemoryTaskStore
	auth    *AuthService
	user    *UserService
	task    *TaskService
	reports *ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	users := repositories.NewMemoryUserStore()
	tasks := repositories.NewMemoryTaskStore()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	importer := reports.NewImporter(users, tasks, reports.ImporterConfig{
		AdminKey: testAdminKey,
		Workers:  2,
		PasswordHash: func() (string, error) {
			return utils.NewTempPasswordHash(bcrypt.MinCost)
		},
	})
	return &env{
		users:   users,
		tasks:   tasks,
		auth:    NewAuthService(users, tokens, testAdminKey, bcrypt.MinCost),
		user:    NewUserService(users, tasks, testAdminKey, bcrypt.MinCost),
		task:    NewTaskService(tasks, users),
		reports: NewReportService(importer, reports.NewExporter(users, tasks)),
	}
}

func (e *env) register(t *testing.T, name, email, role, key string) models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{
		FullName: name, Email: email, Password: "secret1", Role: role, AdminKey: key,
	})
	require.NoError(t, err)
	return *u
}

func requireInputError(t *testing.T, err error, msg string) {
	t.Helper()
	var ie *InputError
	require.True(t, errors.As(err, &ie), "expected InputError, got %v", err)
	require.Equal(t, msg, ie.Msg)
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin := e.register(t, "Root", "Root@X.com", "admin", testAdminKey)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.Equal(t, "root@x.com", admin.Email)
	require.NotEqual(t, "secret1", admin.Password)

	// wrong key silently yields a member
	member := e.register(t, "Ann", "ann@x.com", "admin", "nope")
	require.Equal(t, models.RoleMember, member.Role)

	_, err := e.auth.Register(ctx, RegisterInput{FullName: "Dup", Email: "ann@x.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrUserExists)

	_, err = e.auth.Register(ctx, RegisterInput{FullName: "Bad", Email: "bad", Password: "secret1"})
	requireInputError(t, err, "please enter a valid email")

	_, err = e.auth.Register(ctx, RegisterInput{FullName: "Short", Email: "s@x.com", Password: "123"})
	requireInputError(t, err, "password must be at least 6 characters")

	token, u, err := e.auth.Login(ctx, LoginInput{Email: "ANN@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, member.ID, u.ID)

	authed, err := e.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, member.ID, authed.ID)

	_, _, err = e.auth.Login(ctx, LoginInput{Email: "ann@x.com", Password: "wrong!"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = e.auth.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = e.auth.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann := e.register(t, "Ann", "ann@x.com", "", "")

	_, _, err := e.auth.UpdateProfile(ctx, ann.ID, UserUpdateInput{Role: "admin"})
	requireInputError(t, err, "admin key required for admin role")

	_, _, err = e.auth.UpdateProfile(ctx, ann.ID, UserUpdateInput{Role: "admin", AdminKey: "nope"})
	require.ErrorIs(t, err, ErrInvalidAdminKey)

	u, token, err := e.auth.UpdateProfile(ctx, ann.ID, UserUpdateInput{Name: "Ann Lee", Role: "Admin", AdminKey: testAdminKey, Password: "newpass"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Ann Lee", u.Name)
	require.Equal(t, models.RoleAdmin, u.Role)

	_, _, err = e.auth.Login(ctx, LoginInput{Email: "ann@x.com", Password: "newpass"})
	require.NoError(t, err)

	e.register(t, "Bob", "bob@x.com", "", "")
	_, _, err = e.auth.UpdateProfile(ctx, ann.ID, UserUpdateInput{Email: "bob@x.com"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestListMembersCountsTasks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "Root", "root@x.com", "admin", testAdminKey)
	ann := e.register(t, "Ann", "ann@x.com", "", "")

	for _, done := range []bool{false, true} {
		_, err := e.task.Create(ctx, admin, TaskInput{
			Title: "T", Description: "d", Priority: "low", DueDate: "2030-01-01",
			AssignedTo:    []string{ann.ID.Hex()},
			TodoChecklist: []TodoInput{{Text: "x", Completed: done}},
		})
		require.NoError(t, err)
	}

	members, err := e.user.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, ann.ID, members[0].ID)
	require.Equal(t, 1, members[0].PendingTasks)
	require.Equal(t, 1, members[0].CompletedTasks)

	_, err = e.user.AdminUpdate(ctx, ann.ID, UserUpdateInput{Role: "owner"})
	requireInputError(t, err, "role must be one of: member admin")

	require.NoError(t, e.user.Delete(ctx, ann.ID))
	_, err = e.user.Get(ctx, ann.ID)
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTaskLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "Root", "root@x.com", "admin", testAdminKey)
	ann := e.register(t, "Ann", "ann@x.com", "", "")
	bob := e.register(t, "Bob", "bob@x.com", "", "")

	_, err := e.task.Create(ctx, ann, TaskInput{})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = e.task.Create(ctx, admin, TaskInput{Title: "T", Description: "d", Priority: "urgent", DueDate: "2030-01-01", AssignedTo: []string{ann.ID.Hex()}})
	requireInputError(t, err, "priority must be one of: low medium high")

	_, err = e.task.Create(ctx, admin, TaskInput{Title: "T", Description: "d", Priority: "low", DueDate: "someday", AssignedTo: []string{ann.ID.Hex()}})
	requireInputError(t, err, "invalid dueDate format")

	view, err := e.task.Create(ctx, admin, TaskInput{
		Title: "Ship", Description: "d", Priority: "high", DueDate: "15/06/2030",
		AssignedTo:    []string{ann.ID.Hex()},
		TodoChecklist: []TodoInput{{Text: "a"}, {Text: "b"}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, view.Status)
	require.Equal(t, time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC), view.DueDate)
	require.Len(t, view.AssignedTo, 1)
	require.Equal(t, "ann@x.com", view.AssignedTo[0].Email)
	id := view.ID

	_, err = e.task.Get(ctx, bob, id)
	require.ErrorIs(t, err, ErrForbidden)

	// assignees can only touch the checklist
	title := "Renamed"
	updated, err := e.task.Update(ctx, ann, id, TaskUpdateInput{
		Title:         &title,
		TodoChecklist: &[]TodoInput{{Text: "a", Completed: true}, {Text: "b"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Ship", updated.Title)
	require.Equal(t, models.StatusInProgress, updated.Status)
	require.Equal(t, 50, updated.Progress)

	updated, err = e.task.AppendChecklist(ctx, ann, id, []TodoInput{{Text: "c", Completed: true}})
	require.NoError(t, err)
	require.Len(t, updated.TodoChecklist, 3)
	require.Equal(t, 67, updated.Progress)

	updated, err = e.task.UpdateStatus(ctx, ann, id, []TodoInput{{Text: "a", Completed: true}})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, updated.Status)
	require.Equal(t, 100, updated.Progress)

	list, err := e.task.List(ctx, bob, "")
	require.NoError(t, err)
	require.Empty(t, list.Tasks)

	list, err = e.task.List(ctx, admin, "completed")
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	require.Equal(t, 1, list.StatusSummary.CompletedTasks)

	_, err = e.task.List(ctx, admin, "done")
	require.Error(t, err)

	dash, err := e.task.Dashboard(ctx, ann)
	require.NoError(t, err)
	require.Len(t, dash.RecentTasks, 1)
	require.Equal(t, 1, dash.Stats.TotalTasks)

	require.ErrorIs(t, e.task.Delete(ctx, ann, id), ErrForbidden)
	require.NoError(t, e.task.Delete(ctx, admin, id))
	_, err = e.task.Get(ctx, admin, id)
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreateRequiresExistingAssignees(t *testing.T) {
	e := newEnv(t)
	admin := e.register(t, "Root", "root@x.com", "admin", testAdminKey)

	_, err := e.task.Create(context.Background(), admin, TaskInput{
		Title: "T", Description: "d", Priority: "low", DueDate: "2030-01-01",
		AssignedTo: []string{"64b7f0f0f0f0f0f0f0f0f0f0"},
	})
	require.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = e.task.Create(context.Background(), admin, TaskInput{
		Title: "T", Description: "d", Priority: "low", DueDate: "2030-01-01",
		AssignedTo: []string{"not-an-id"},
	})
	requireInputError(t, err, "invalid user ID: not-an-id")
}

func TestReportExportPermissions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "Root", "root@x.com", "admin", testAdminKey)
	ann := e.register(t, "Ann", "ann@x.com", "", "")

	_, err := e.reports.Export(ctx, reports.KindUsers, ann)
	require.ErrorIs(t, err, ErrForbidden)

	r, err := e.reports.Export(ctx, reports.KindMyTasks, ann)
	require.NoError(t, err)
	require.Equal(t, "my-tasks.xlsx", r.Filename)

	r, err = e.reports.Export(ctx, reports.KindUsersTasks, admin)
	require.NoError(t, err)
	require.Len(t, r.Sheets, 2)
}

func TestImportFileRemovesUpload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "Root", "root@x.com", "admin", testAdminKey)

	var buf bytes.Buffer
	require.NoError(t, reports.WriteWorkbook(&buf,
		reports.SheetData{Name: reports.SheetUsers, Headers: reports.TemplateUserColumns, Records: [][]any{
			{"", "Ann", "ann@x.com", "member", "", ""},
		}},
		reports.SheetData{Name: reports.SheetTasks, Headers: reports.TemplateTaskColumns, Records: [][]any{
			{"", "Ship", "", "", "", "2030-01-01", "", "ann@x.com", "", ""},
		}},
	))
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	res, err := e.reports.ImportFile(ctx, path, admin, false)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Errors)
	require.Equal(t, 1, res.UsersCreated)
	require.Equal(t, 1, res.TasksCreated)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	_, err = e.reports.ImportFile(ctx, "", admin, false)
	require.ErrorIs(t, err, reports.ErrNoFile)

	bad := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0o600))
	_, err = e.reports.ImportFile(ctx, bad, admin, false)
	require.ErrorIs(t, err, reports.ErrUnreadableWorkbook)
	_, err = os.Stat(bad)
	require.True(t, os.IsNotExist(err))
}
