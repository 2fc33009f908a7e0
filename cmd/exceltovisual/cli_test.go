package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/moh-ammad/exceltovisual/config"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/repositories"

	"github.com/stretchr/testify/require"
)

func withMemoryStores(t *testing.T) *stores {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "app.log"))

	s := &stores{
		users: repositories.NewMemoryUserStore(),
		tasks: repositories.NewMemoryTaskStore(),
		close: func() {},
	}
	admin := &models.User{Name: "Root", Email: "root@x.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, s.users.Create(context.Background(), admin))

	prev := openStores
	openStores = func(context.Context, *config.Config, bool) (*stores, error) { return s, nil }
	t.Cleanup(func() { openStores = prev })
	return s
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeWorkbook(t *testing.T, sheets ...reports.SheetData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, reports.WriteWorkbook(&buf, sheets...))
	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestImportThenExportRoundTrip(t *testing.T) {
	s := withMemoryStores(t)
	in := writeWorkbook(t,
		reports.SheetData{Name: reports.SheetUsers, Headers: reports.TemplateUserColumns, Records: [][]any{
			{"", "Ann", "ann@x.com", "member", "", ""},
		}},
		reports.SheetData{Name: reports.SheetTasks, Headers: reports.TemplateTaskColumns, Records: [][]any{
			{"", "Ship", "", "high", "", "2030-01-01", "", "ann@x.com", "a [✔] | b [ ]", ""},
		}},
	)

	out, err := run(t, "import", in, "--as", "Root@X.com")
	require.NoError(t, err, out)
	var res importOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Success)

	tasks, err := s.tasks.List(context.Background(), repositories.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, models.StatusInProgress, tasks[0].Status)

	exported := filepath.Join(t.TempDir(), "all.xlsx")
	out, err = run(t, "export", "users-tasks", "-o", exported)
	require.NoError(t, err, out)
	require.Contains(t, out, exported)

	// re-importing an export only updates
	out, err = run(t, "import", exported, "--as", "root@x.com")
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Success, res.Errors)

	tasks, err = s.tasks.List(context.Background(), repositories.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestImportReportsRowErrors(t *testing.T) {
	withMemoryStores(t)
	in := writeWorkbook(t,
		reports.SheetData{Name: reports.SheetTasks, Headers: reports.TemplateTaskColumns, Records: [][]any{
			{"", "Lost", "", "", "", "2030-01-01", "", "ghost@x.com", "", ""},
		}},
	)

	out, err := run(t, "import", in, "--as", "root@x.com")
	require.EqualError(t, err, "1 row errors")
	require.Contains(t, out, "Tasks row 2")
}

func TestExportRequiresActorForMyTasks(t *testing.T) {
	withMemoryStores(t)

	_, err := run(t, "export", "my-tasks")
	require.EqualError(t, err, "--as is required")

	_, err = run(t, "export", "payroll")
	require.Error(t, err)

	_, err = run(t, "import", "x.xlsx", "--as", "nobody@x.com")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}
