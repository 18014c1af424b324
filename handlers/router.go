package handlers

import (
	"net/http"

	"github.com/MuhammadFattan/task-management/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Tasks     *TaskHandler
	Dashboard *DashboardHandler
	Users     *UserHandler
	Auth      *AuthHandler
}

func NewRouter(auth middleware.Authenticator, h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Protect(auth))

	protected.HandleFunc("/auth/profile", h.Auth.GetProfile).Methods(http.MethodGet)

	// Dashboard paths are registered before /tasks/{id} so they are not read as ids.
	protected.Handle("/tasks/dashboard-data", adminOnly(h.Dashboard.GetDashboardData)).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/user-dashboard-data", h.Dashboard.GetUserDashboardData).Methods(http.MethodGet)

	protected.HandleFunc("/tasks", h.Tasks.GetTasks).Methods(http.MethodGet)
	protected.Handle("/tasks", adminOnly(h.Tasks.CreateTask)).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id}", h.Tasks.GetTaskByID).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", h.Tasks.UpdateTask).Methods(http.MethodPut)
	protected.Handle("/tasks/{id}", adminOnly(h.Tasks.DeleteTask)).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id}/status", h.Tasks.UpdateTaskStatus).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}/todo", h.Tasks.UpdateTaskChecklist).Methods(http.MethodPut)

	protected.Handle("/users", adminOnly(h.Users.GetUsers)).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.Users.GetUserByID).Methods(http.MethodGet)

	return r
}

func adminOnly(fn http.HandlerFunc) http.Handler {
	return middleware.AdminOnly(fn)
}
