package handlers

import (
	"net/http"

	"github.com/moh-ammad/exceltovisual/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tasks.List(r.Context(), currentUser(r), r.URL.Query().Get("status"))
	if err != nil {
		fail(w, err, "Task not found", "Failed to fetch tasks")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid task ID")
	if !ok {
		return
	}
	view, err := h.tasks.Get(r.Context(), currentUser(r), id)
	if err != nil {
		fail(w, err, "Task not found", "Error fetching task")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.TaskInput
	if !decode(w, r, &in) {
		return
	}
	view, err := h.tasks.Create(r.Context(), currentUser(r), in)
	if err != nil {
		fail(w, err, "Task not found", "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid task ID")
	if !ok {
		return
	}
	var in services.TaskUpdateInput
	if !decode(w, r, &in) {
		return
	}
	task, err := h.tasks.Update(r.Context(), currentUser(r), id, in)
	if err != nil {
		fail(w, err, "Task not found", "Error updating task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid task ID")
	if !ok {
		return
	}
	var body struct {
		TodoChecklist []services.TodoInput `json:"todoChecklist"`
	}
	if !decode(w, r, &body) {
		return
	}
	task, err := h.tasks.UpdateStatus(r.Context(), currentUser(r), id, body.TodoChecklist)
	if err != nil {
		fail(w, err, "Task not found", "Error updating task status")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) AppendChecklist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid task ID")
	if !ok {
		return
	}
	var body struct {
		Checklist []services.TodoInput `json:"checklist"`
	}
	if !decode(w, r, &body) {
		return
	}
	task, err := h.tasks.AppendChecklist(r.Context(), currentUser(r), id, body.Checklist)
	if err != nil {
		fail(w, err, "Task not found.", "Error updating checklist")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid task ID")
	if !ok {
		return
	}
	if err := h.tasks.Delete(r.Context(), currentUser(r), id); err != nil {
		fail(w, err, "Task not found", "Error deleting task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.tasks.Dashboard(r.Context(), currentUser(r))
	if err != nil {
		fail(w, err, "Task not found", "Error fetching dashboard data")
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
