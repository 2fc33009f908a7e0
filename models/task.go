package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseStatus returns StatusPending for a blank value.
func ParseStatus(s string) (TaskStatus, error) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusPending:
		return StatusPending, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// ParsePriority returns PriorityMedium for a blank value.
func ParsePriority(s string) (TaskPriority, error) {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}

type TodoItem struct {
	Text      string     `bson:"text" json:"text" validate:"required"`
	Completed bool       `bson:"completed" json:"completed"`
	DueDate   *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
}

type Attachment struct {
	Name string `bson:"name" json:"name" validate:"required"`
	URL  string `bson:"url" json:"url" validate:"required"`
}

type Task struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description,omitempty" json:"description"`
	Priority      TaskPriority         `bson:"priority" json:"priority"`
	Status        TaskStatus           `bson:"status" json:"status"`
	DueDate       time.Time            `bson:"dueDate" json:"dueDate"`
	AssignedTo    []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy     primitive.ObjectID   `bson:"createdBy,omitempty" json:"createdBy"`
	Attachments   []Attachment         `bson:"attachments" json:"attachments"`
	TodoChecklist []TodoItem           `bson:"todoChecklist" json:"todoChecklist"`
	Progress      int                  `bson:"progress" json:"progress"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// SyncProgress derives Progress and Status from the checklist. Any status set
// by the caller is overwritten.
func (t *Task) SyncProgress() {
	total := len(t.TodoChecklist)
	done := t.CompletedTodoCount()

	if total == 0 {
		t.Progress = 0
	} else {
		t.Progress = int(math.Round(float64(done) * 100 / float64(total)))
	}

	switch {
	case total > 0 && done == total:
		t.Status = StatusCompleted
	case done > 0:
		t.Status = StatusInProgress
	default:
		t.Status = StatusPending
	}
}

func (t *Task) CompletedTodoCount() int {
	n := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			n++
		}
	}
	return n
}

func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
