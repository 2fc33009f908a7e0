package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func todos(done ...bool) []TodoItem {
	items := make([]TodoItem, 0, len(done))
	for _, d := range done {
		items = append(items, TodoItem{Text: "item", Completed: d})
	}
	return items
}

func TestSyncProgress(t *testing.T) {
	tests := []struct {
		name     string
		items    []TodoItem
		status   TaskStatus
		progress int
	}{
		{"empty checklist", nil, StatusPending, 0},
		{"nothing done", todos(false, false), StatusPending, 0},
		{"one of three", todos(true, false, false), StatusInProgress, 33},
		{"two of three", todos(true, true, false), StatusInProgress, 67},
		{"half", todos(true, false), StatusInProgress, 50},
		{"all done", todos(true, true, true), StatusCompleted, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Status: StatusCompleted, Progress: 42, TodoChecklist: tt.items}
			task.SyncProgress()
			require.Equal(t, tt.status, task.Status)
			require.Equal(t, tt.progress, task.Progress)
		})
	}
}

func TestParseEnums(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	require.Equal(t, PriorityHigh, p)

	p, err = ParsePriority("")
	require.NoError(t, err)
	require.Equal(t, PriorityMedium, p)

	_, err = ParsePriority("urgent")
	require.Error(t, err)

	s, err := ParseStatus("In-Progress")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("done")
	require.Error(t, err)

	r, err := ParseRole("Admin")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, r)

	_, err = ParseRole("owner")
	require.Error(t, err)
}

func TestComputeTaskStats(t *testing.T) {
	tasks := []Task{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusInProgress},
	}
	s := ComputeTaskStats(tasks)
	require.Equal(t, 3, s.TotalTasks)
	require.Equal(t, 2, s.PendingTasks)
	require.Equal(t, 1, s.InProgressTasks)
	require.Equal(t, 0, s.CompletedTasks)
	require.Equal(t, StatusPercentages{Pending: 67, InProgress: 33, Completed: 0}, s.Percentages)

	require.Equal(t, TaskStats{}, ComputeTaskStats(nil))
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	var tasks []Task
	for i := 0; i < 7; i++ {
		tasks = append(tasks, Task{
			ID:        primitive.NewObjectID(),
			Title:     "t",
			Status:    StatusPending,
			Priority:  PriorityLow,
			DueDate:   now.AddDate(0, 0, i-3),
			CreatedAt: now.Add(time.Duration(i) * time.Hour),
		})
	}
	tasks[0].Status = StatusCompleted
	tasks[1].Priority = PriorityHigh

	d := BuildDashboard(tasks, now)
	require.Equal(t, []GroupCount{{ID: "pending", Count: 2}}, d.StatusSummary)
	require.Equal(t, []GroupCount{{ID: "high", Count: 1}, {ID: "low", Count: 6}}, d.PrioritySummary)
	require.Len(t, d.RecentTasks, 5)
	require.Equal(t, tasks[6].ID.Hex(), d.RecentTasks[0].ID)
	require.Equal(t, 7, d.Stats.TotalTasks)
}

func TestCountsForMember(t *testing.T) {
	u := User{ID: primitive.NewObjectID()}
	other := primitive.NewObjectID()
	tasks := []Task{
		{AssignedTo: []primitive.ObjectID{u.ID}, Status: StatusPending},
		{AssignedTo: []primitive.ObjectID{u.ID, other}, Status: StatusCompleted},
		{AssignedTo: []primitive.ObjectID{other}, Status: StatusInProgress},
	}
	c := CountsForMember(u, tasks)
	require.Equal(t, 1, c.PendingTasks)
	require.Equal(t, 0, c.InProgressTasks)
	require.Equal(t, 1, c.CompletedTasks)
}
