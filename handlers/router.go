package handlers

import (
	"net/http"

	"github.com/moh-ammad/exceltovisual/metrics"
	"github.com/moh-ammad/exceltovisual/middleware"
	"github.com/moh-ammad/exceltovisual/services"

	"github.com/gorilla/mux"
)

type Deps struct {
	Auth           *services.AuthService
	Users          *services.UserService
	Tasks          *services.TaskService
	Reports        *services.ReportService
	Uploader       *Uploader
	AllowedOrigins []string
}

// NewRouter wires every API route behind request logging, metrics and CORS.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth, d.Uploader)
	userHandler := NewUserHandler(d.Users)
	taskHandler := NewTaskHandler(d.Tasks)
	reportHandler := NewReportHandler(d.Reports, d.Uploader)

	protect := middleware.Protect(d.Auth)
	user := func(h http.HandlerFunc) http.Handler { return protect(h) }
	admin := func(h http.HandlerFunc) http.Handler { return protect(middleware.AdminOnly(h)) }

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, metrics.Instrument)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	metrics.Register(r, "/metrics")
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Uploader.Dir))))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/profile", user(authHandler.Profile)).Methods(http.MethodGet)
	api.Handle("/auth/profile", user(authHandler.UpdateProfile)).Methods(http.MethodPut)
	api.Handle("/auth/upload-image", user(authHandler.UploadImage)).Methods(http.MethodPost)

	api.Handle("/users", admin(userHandler.List)).Methods(http.MethodGet)
	api.Handle("/users/{id}", user(userHandler.Get)).Methods(http.MethodGet)
	api.Handle("/users/{id}", admin(userHandler.Update)).Methods(http.MethodPut)
	api.Handle("/users/{id}", admin(userHandler.Delete)).Methods(http.MethodDelete)

	// fixed paths before {id}
	api.Handle("/tasks/dashboard-data", user(taskHandler.Dashboard)).Methods(http.MethodGet)
	api.Handle("/tasks/create", admin(taskHandler.Create)).Methods(http.MethodPost)
	api.Handle("/tasks/{id}/status", user(taskHandler.UpdateStatus)).Methods(http.MethodPut)
	api.Handle("/tasks/{id}/checklist", user(taskHandler.AppendChecklist)).Methods(http.MethodPut)
	api.Handle("/tasks", user(taskHandler.List)).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", user(taskHandler.Get)).Methods(http.MethodGet)
	api.Handle("/tasks/{id}", user(taskHandler.Update)).Methods(http.MethodPut)
	api.Handle("/tasks/{id}", admin(taskHandler.Delete)).Methods(http.MethodDelete)

	// my-tasks is open to members; the service rejects the other kinds for them.
	api.Handle("/reports/exports/{kind}", user(reportHandler.Export)).Methods(http.MethodGet)
	api.Handle("/reports/upload/users-tasks", admin(reportHandler.ImportAll)).Methods(http.MethodPost)
	api.Handle("/reports/upload/tasks", user(reportHandler.ImportTasks)).Methods(http.MethodPost)

	return middleware.CORS(d.AllowedOrigins)(r)
}
