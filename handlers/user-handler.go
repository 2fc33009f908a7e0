package handlers

import (
	"net/http"

	"github.com/moh-ammad/exceltovisual/middleware"
	"github.com/moh-ammad/exceltovisual/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.users.ListMembers(r.Context())
	if err != nil {
		fail(w, err, "User not found", "Error fetching users")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid user ID format")
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		fail(w, err, "User not found", "Error fetching user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid user ID format")
	if !ok {
		return
	}
	var in services.UserUpdateInput
	if !decode(w, r, &in) {
		return
	}
	if _, err := h.users.AdminUpdate(r.Context(), id, in); err != nil {
		fail(w, err, "User not found", "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid user ID format")
	if !ok {
		return
	}
	if id == currentUser(r).ID {
		middleware.WriteError(w, http.StatusBadRequest, "You cannot delete your own account", nil)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		fail(w, err, "User not found", "Error deleting user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
