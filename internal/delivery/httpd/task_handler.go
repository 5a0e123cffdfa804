package httpd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/service"
)

func (h *Handler) ListCourseTasks(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksForCourse(r.Context(), courseID)
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateRequest(w, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), caller, &req, nil)
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// AddCourseTask creates a task on a course from a multipart form carrying the
// task fields plus an optional single file attachment.
func (h *Handler) AddCourseTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	// Some slack over the attachment cap for the text fields; the service
	// enforces the exact limit.
	if err := r.ParseMultipartForm(h.maxFileSize + 512*1024); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	dueDate, err := parseDueDate(r.FormValue("dueDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due date")
		return
	}

	req := models.CreateTaskRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DueDate:     dueDate,
		CourseID:    courseID,
	}
	if !h.validateRequest(w, &req) {
		return
	}

	upload, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), caller, &req, upload)
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), caller, taskID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotCourseOwner) {
			writeError(w, http.StatusForbidden, "Not authorized to update this task")
			return
		}
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.SubmitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateRequest(w, &req) {
		return
	}

	sub, err := h.taskService.SubmitTask(r.Context(), caller, taskID, &req)
	if err != nil {
		h.handleTaskError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, "Course not found")
	case errors.Is(err, service.ErrNotInstructor):
		writeError(w, http.StatusForbidden, "Only instructors can create tasks")
	case errors.Is(err, service.ErrNotCourseOwner):
		writeError(w, http.StatusForbidden, "Not authorized to add tasks to this course")
	case errors.Is(err, service.ErrNotEnrolled):
		writeError(w, http.StatusForbidden, "Must be enrolled in the course to submit")
	case errors.Is(err, service.ErrAlreadySubmitted):
		writeError(w, http.StatusBadRequest, "Already submitted this task")
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, "File exceeds the maximum allowed size")
	default:
		h.logger.Error().Err(err).Msg("Task service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// readUpload pulls the optional single "file" field out of a parsed
// multipart form. A request without the field is valid.
func readUpload(r *http.Request) (*models.UploadedFile, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.UploadedFile{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}

func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
