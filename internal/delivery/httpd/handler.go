package httpd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/auth"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/service"
)

type Handler struct {
	authService   service.AuthService
	courseService service.CourseService
	taskService   service.TaskService
	tokens        *auth.TokenManager
	validate      *validator.Validate
	maxFileSize   int64
	logger        zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	courseService service.CourseService,
	taskService service.TaskService,
	tokens *auth.TokenManager,
	maxFileSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:   authService,
		courseService: courseService,
		taskService:   taskService,
		tokens:        tokens,
		validate:      validator.New(),
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		api.Route("/courses", func(r chi.Router) {
			r.Get("/", h.ListCourses)
			r.Get("/{id}", h.GetCourse)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Post("/", h.CreateCourse)
				r.Put("/{id}", h.UpdateCourse)
				r.Post("/{id}/enroll", h.EnrollCourse)
				r.Post("/{id}/tasks", h.AddCourseTask)
			})
		})

		api.Route("/tasks", func(r chi.Router) {
			r.Get("/course/{courseId}", h.ListCourseTasks)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Post("/", h.CreateTask)
				r.Put("/{id}", h.UpdateTask)
				r.Post("/{id}/submit", h.SubmitTask)
			})
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "edunest-backend",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// validateRequest reports a dedicated 400 for missing or malformed fields
// instead of letting them surface as server errors.
func (h *Handler) validateRequest(w http.ResponseWriter, req interface{}) bool {
	err := h.validate.Struct(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Field %q is missing or invalid", field))
		return false
	}

	writeError(w, http.StatusBadRequest, "Invalid request")
	return false
}

// pathUUID extracts a UUID path parameter. Ids are checked here so that
// malformed ones never reach a typed column comparison in the repositories.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"message": message,
	})
}
