package models

import (
	"math"
	"sort"
	"time"
)

type StatusPercentages struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type TaskStats struct {
	TotalTasks      int               `json:"totalTasks"`
	PendingTasks    int               `json:"pendingTasks"`
	InProgressTasks int               `json:"inProgressTasks"`
	CompletedTasks  int               `json:"completedTasks"`
	Percentages     StatusPercentages `json:"percentages"`
}

// ComputeTaskStats counts tasks per status.
func ComputeTaskStats(tasks []Task) TaskStats {
	var s TaskStats
	for _, t := range tasks {
		s.TotalTasks++
		switch t.Status {
		case StatusPending:
			s.PendingTasks++
		case StatusInProgress:
			s.InProgressTasks++
		case StatusCompleted:
			s.CompletedTasks++
		}
	}
	s.Percentages = StatusPercentages{
		Pending:    percent(s.PendingTasks, s.TotalTasks),
		InProgress: percent(s.InProgressTasks, s.TotalTasks),
		Completed:  percent(s.CompletedTasks, s.TotalTasks),
	}
	return s
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

type GroupCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

type RecentTask struct {
	ID        string       `json:"_id"`
	Title     string       `json:"title"`
	Status    TaskStatus   `json:"status"`
	Priority  TaskPriority `json:"priority"`
	CreatedAt time.Time    `json:"createdAt"`
}

type Dashboard struct {
	StatusSummary   []GroupCount `json:"statusSummary"`
	PrioritySummary []GroupCount `json:"prioritySummary"`
	RecentTasks     []RecentTask `json:"recentTasks"`
	Stats           TaskStats    `json:"stats"`
}

// BuildDashboard groups overdue unfinished tasks by status, all tasks by
// priority, and lists the five newest tasks.
func BuildDashboard(tasks []Task, now time.Time) Dashboard {
	overdue := map[string]int{}
	byPriority := map[string]int{}
	for _, t := range tasks {
		if t.Status != StatusCompleted && t.DueDate.Before(now) {
			overdue[string(t.Status)]++
		}
		byPriority[string(t.Priority)]++
	}

	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	recent := make([]RecentTask, 0, len(sorted))
	for _, t := range sorted {
		recent = append(recent, RecentTask{
			ID:        t.ID.Hex(),
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			CreatedAt: t.CreatedAt,
		})
	}

	return Dashboard{
		StatusSummary:   groupCounts(overdue),
		PrioritySummary: groupCounts(byPriority),
		RecentTasks:     recent,
		Stats:           ComputeTaskStats(tasks),
	}
}

func groupCounts(m map[string]int) []GroupCount {
	out := make([]GroupCount, 0, len(m))
	for k, v := range m {
		out = append(out, GroupCount{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CountsForMember tallies the tasks assigned to one user.
func CountsForMember(u User, tasks []Task) UserWithCounts {
	out := UserWithCounts{User: u}
	for i := range tasks {
		if !tasks[i].IsAssignedTo(u.ID) {
			continue
		}
		switch tasks[i].Status {
		case StatusPending:
			out.PendingTasks++
		case StatusInProgress:
			out.InProgressTasks++
		case StatusCompleted:
			out.CompletedTasks++
		}
	}
	return out
}
