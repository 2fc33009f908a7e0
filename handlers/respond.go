package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moh-ammad/exceltovisual/logging"
	"github.com/moh-ammad/exceltovisual/middleware"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/repositories"
	"github.com/moh-ammad/exceltovisual/services"
	"github.com/moh-ammad/exceltovisual/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var writeJSON = middleware.WriteJSON

// fail maps service and store errors to a status. notFound is the message
// for a bare ErrNotFound, failed the message for anything unexpected.
func fail(w http.ResponseWriter, err error, notFound, failed string) {
	var inputErr *services.InputError
	var missing *services.NotFoundError
	switch {
	case errors.As(err, &inputErr):
		middleware.WriteError(w, http.StatusBadRequest, inputErr.Msg, nil)
	case errors.As(err, &missing):
		middleware.WriteError(w, http.StatusNotFound, missing.Msg, nil)
	case errors.Is(err, repositories.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, notFound, nil)
	case errors.Is(err, services.ErrForbidden):
		middleware.WriteError(w, http.StatusForbidden, "Access denied", nil)
	case errors.Is(err, services.ErrInvalidAdminKey):
		middleware.WriteError(w, http.StatusForbidden, "Invalid admin key", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, utils.ErrInvalidToken):
		middleware.WriteError(w, http.StatusUnauthorized, "Token failed", err)
	case errors.Is(err, services.ErrUserExists):
		middleware.WriteError(w, http.StatusBadRequest, "User already exists", nil)
	case errors.Is(err, reports.ErrNoFile):
		middleware.WriteError(w, http.StatusBadRequest, "No Excel file uploaded.", nil)
	case errors.Is(err, reports.ErrUnreadableWorkbook):
		middleware.WriteError(w, http.StatusBadRequest, "Could not read the Excel file.", err)
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s: %v", failed, err)
		middleware.WriteError(w, http.StatusInternalServerError, failed, err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request data", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, invalid string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, invalid, nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser is only called behind middleware.Protect.
func currentUser(r *http.Request) models.User {
	u, _ := middleware.UserFrom(r.Context())
	return u
}

type userResponse struct {
	ID              primitive.ObjectID `json:"_id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	ProfileImageURL string             `json:"profileImageUrl"`
	Role            models.Role        `json:"role"`
	Token           string             `json:"token,omitempty"`
}

func newUserResponse(u *models.User, token string) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		Token:           token,
	}
}
