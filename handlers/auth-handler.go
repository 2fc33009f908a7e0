package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/moh-ammad/exceltovisual/middleware"
	"github.com/moh-ammad/exceltovisual/services"
)

type AuthHandler struct {
	auth     *services.AuthService
	uploader *Uploader
}

func NewAuthHandler(auth *services.AuthService, uploader *Uploader) *AuthHandler {
	return &AuthHandler{auth: auth, uploader: uploader}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// optionalImage stores the "image" part when present.
func (h *AuthHandler) optionalImage(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !isMultipart(r) {
		return "", true
	}
	url, err := h.uploader.SaveImage(w, r, "image")
	switch {
	case err == nil:
		return url, true
	case errors.Is(err, errNoUpload):
		return "", true
	case errors.Is(err, errUnsupportedType):
		middleware.WriteError(w, http.StatusBadRequest, "Only .jpg, .jpeg, .png, .avif and .webp files are allowed", nil)
	default:
		middleware.WriteError(w, http.StatusBadRequest, "Failed to upload image", err)
	}
	return "", false
}

// Register accepts JSON or a multipart form with an optional "image" part.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if isMultipart(r) {
		image, ok := h.optionalImage(w, r)
		if !ok {
			return
		}
		in = services.RegisterInput{
			FullName:        r.FormValue("fullName"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			Role:            r.FormValue("role"),
			AdminKey:        r.FormValue("adminKey"),
			ProfileImageURL: image,
		}
	} else if !decode(w, r, &in) {
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, err, "User not found", "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(user, ""))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !decode(w, r, &in) {
		return
	}
	token, user, err := h.auth.Login(r.Context(), in)
	if err != nil {
		fail(w, err, "User not found", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  newUserResponse(user, ""),
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, err, "User not found", "Error fetching user profile")
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user, ""))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in services.UserUpdateInput
	if isMultipart(r) {
		image, ok := h.optionalImage(w, r)
		if !ok {
			return
		}
		in = services.UserUpdateInput{
			Name:            r.FormValue("name"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			Role:            r.FormValue("role"),
			AdminKey:        r.FormValue("adminKey"),
			ProfileImageURL: image,
		}
	} else if !decode(w, r, &in) {
		return
	}

	user, token, err := h.auth.UpdateProfile(r.Context(), currentUser(r).ID, in)
	if err != nil {
		fail(w, err, "User not found", "Error updating profile")
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user, token))
}

func (h *AuthHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	url, err := h.uploader.SaveImage(w, r, "image")
	switch {
	case errors.Is(err, errNoUpload):
		middleware.WriteError(w, http.StatusBadRequest, "No file uploaded", nil)
	case errors.Is(err, errUnsupportedType):
		middleware.WriteError(w, http.StatusBadRequest, "Only .jpg, .jpeg, .png, .avif and .webp files are allowed", nil)
	case err != nil:
		middleware.WriteError(w, http.StatusBadRequest, "Failed to upload image", err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
	}
}
