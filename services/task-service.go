package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moh-ammad/exceltovisual/logging"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/repositories"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TodoInput struct {
	Text      string `json:"text" validate:"required"`
	Completed bool   `json:"completed"`
	DueDate   string `json:"dueDate,omitempty"`
}

type TaskInput struct {
	Title         string              `json:"title" validate:"required"`
	Description   string              `json:"description" validate:"required"`
	Priority      string              `json:"priority" validate:"required,oneof=low medium high"`
	DueDate       string              `json:"dueDate" validate:"required"`
	AssignedTo    []string            `json:"assignedTo" validate:"required,min=1,dive,mongodb"`
	Attachments   []models.Attachment `json:"attachments" validate:"dive"`
	TodoChecklist []TodoInput         `json:"todoChecklist" validate:"dive"`
}

// TaskUpdateInput carries a partial update; nil fields are left unchanged.
type TaskUpdateInput struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Priority      *string              `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate       *string              `json:"dueDate"`
	AssignedTo    *[]string            `json:"assignedTo" validate:"omitempty,min=1,dive,mongodb"`
	Attachments   *[]models.Attachment `json:"attachments" validate:"omitempty,dive"`
	TodoChecklist *[]TodoInput         `json:"todoChecklist" validate:"omitempty,dive"`
}

type UserSummary struct {
	ID              primitive.ObjectID `json:"_id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	ProfileImageURL string             `json:"profileImageUrl"`
}

// TaskView is a task with its assignees expanded for display.
type TaskView struct {
	models.Task
	AssignedTo         []UserSummary `json:"assignedTo"`
	CompletedTodoCount int           `json:"completedTodoCount"`
}

type StatusSummary struct {
	TotalTasks      int `json:"totalTasks"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

type TaskList struct {
	Tasks         []TaskView    `json:"tasks"`
	StatusSummary StatusSummary `json:"statusSummary"`
}

type TaskService struct {
	tasks    repositories.TaskStore
	users    repositories.UserStore
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(tasks repositories.TaskStore, users repositories.UserStore) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		validate: reports.NewValidator(),
		now:      time.Now,
	}
}

// scope limits members to the tasks assigned to them.
func scope(actor models.User) repositories.TaskFilter {
	if actor.IsAdmin() {
		return repositories.TaskFilter{}
	}
	id := actor.ID
	return repositories.TaskFilter{AssignedTo: &id}
}

func (s *TaskService) List(ctx context.Context, actor models.User, status string) (*TaskList, error) {
	all, err := s.tasks.List(ctx, scope(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	var filtered []models.Task
	if status == "" {
		filtered = all
	} else {
		st, err := models.ParseStatus(status)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		for _, t := range all {
			if t.Status == st {
				filtered = append(filtered, t)
			}
		}
	}

	views, err := s.views(ctx, filtered)
	if err != nil {
		return nil, err
	}
	stats := models.ComputeTaskStats(all)
	return &TaskList{
		Tasks: views,
		StatusSummary: StatusSummary{
			TotalTasks:      stats.TotalTasks,
			PendingTasks:    stats.PendingTasks,
			InProgressTasks: stats.InProgressTasks,
			CompletedTasks:  stats.CompletedTasks,
		},
	}, nil
}

func (s *TaskService) Get(ctx context.Context, actor models.User, id primitive.ObjectID) (*TaskView, error) {
	task, err := s.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TaskService) Create(ctx context.Context, actor models.User, in TaskInput) (*TaskView, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}
	due, err := parseDue(in.DueDate)
	if err != nil {
		return nil, err
	}
	assignees, err := s.existingUsers(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	checklist, err := todoItems(in.TodoChecklist)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Priority:      models.TaskPriority(in.Priority),
		DueDate:       due,
		AssignedTo:    assignees,
		CreatedBy:     actor.ID,
		Attachments:   in.Attachments,
		TodoChecklist: checklist,
	}
	task.SyncProgress()
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), actor.Email)

	views, err := s.views(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update lets admins change every field; assignees may only touch the
// checklist.
func (s *TaskService) Update(ctx context.Context, actor models.User, id primitive.ObjectID, in TaskUpdateInput) (*models.Task, error) {
	task, err := s.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}

	if in.TodoChecklist != nil {
		items, err := todoItems(*in.TodoChecklist)
		if err != nil {
			return nil, err
		}
		task.TodoChecklist = items
	}

	if actor.IsAdmin() {
		if in.Title != nil {
			task.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Priority != nil {
			task.Priority = models.TaskPriority(*in.Priority)
		}
		if in.DueDate != nil {
			due, err := parseDue(*in.DueDate)
			if err != nil {
				return nil, err
			}
			task.DueDate = due
		}
		if in.AssignedTo != nil {
			ids, err := s.existingUsers(ctx, *in.AssignedTo)
			if err != nil {
				return nil, err
			}
			task.AssignedTo = ids
		}
		if in.Attachments != nil {
			task.Attachments = *in.Attachments
		}
	}

	return s.save(ctx, task)
}

// UpdateStatus replaces the checklist; status follows from it.
func (s *TaskService) UpdateStatus(ctx context.Context, actor models.User, id primitive.ObjectID, checklist []TodoInput) (*models.Task, error) {
	task, err := s.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if checklist != nil {
		items, err := todoItems(checklist)
		if err != nil {
			return nil, err
		}
		task.TodoChecklist = items
	}
	return s.save(ctx, task)
}

// AppendChecklist adds items to the end of the checklist.
func (s *TaskService) AppendChecklist(ctx context.Context, actor models.User, id primitive.ObjectID, checklist []TodoInput) (*models.Task, error) {
	if checklist == nil {
		return nil, invalidf("checklist must be an array")
	}
	task, err := s.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, err := todoItems(checklist)
	if err != nil {
		return nil, err
	}
	task.TodoChecklist = append(task.TodoChecklist, items...)
	return s.save(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, actor models.User, id primitive.ObjectID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) Dashboard(ctx context.Context, actor models.User) (models.Dashboard, error) {
	tasks, err := s.tasks.List(ctx, scope(actor))
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("failed to fetch dashboard data: %w", err)
	}
	return models.BuildDashboard(tasks, s.now()), nil
}

func (s *TaskService) save(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.SyncProgress()
	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) visibleTask(ctx context.Context, actor models.User, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !task.IsAssignedTo(actor.ID) {
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *TaskService) existingUsers(ctx context.Context, hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, invalidf("invalid user ID: %s", h)
		}
		if _, err := s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, &NotFoundError{Msg: "User not found: " + h}
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *TaskService) views(ctx context.Context, tasks []models.Task) ([]TaskView, error) {
	users, err := s.users.List(ctx, repositories.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		v := TaskView{Task: t, CompletedTodoCount: t.CompletedTodoCount(), AssignedTo: []UserSummary{}}
		for _, id := range t.AssignedTo {
			u, ok := byID[id]
			if !ok {
				continue
			}
			v.AssignedTo = append(v.AssignedTo, UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, ProfileImageURL: u.ProfileImageURL})
		}
		out = append(out, v)
	}
	return out, nil
}

func parseDue(s string) (time.Time, error) {
	due, err := reports.ParseDate(s)
	if err != nil {
		return time.Time{}, invalidf("invalid dueDate format")
	}
	return due, nil
}

func todoItems(in []TodoInput) ([]models.TodoItem, error) {
	out := make([]models.TodoItem, 0, len(in))
	for _, t := range in {
		item := models.TodoItem{Text: strings.TrimSpace(t.Text), Completed: t.Completed}
		if item.Text == "" {
			return nil, invalidf("checklist items need text")
		}
		if t.DueDate != "" {
			due, err := reports.ParseDate(t.DueDate)
			if err != nil {
				return nil, invalidf("invalid todo dueDate format")
			}
			item.DueDate = &due
		}
		out = append(out, item)
	}
	return out, nil
}
