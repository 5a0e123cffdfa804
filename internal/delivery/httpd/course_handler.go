package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/service"
)

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list courses")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleCourseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateRequest(w, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), caller, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotInstructor) {
			writeError(w, http.StatusForbidden, "Only instructors can create courses")
			return
		}
		h.handleCourseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), caller, courseID, &req)
	if err != nil {
		h.handleCourseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

func (h *Handler) EnrollCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.courseService.Enroll(r.Context(), caller, courseID); err != nil {
		h.handleCourseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Enrolled successfully",
	})
}

func (h *Handler) handleCourseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, "Course not found")
	case errors.Is(err, service.ErrNotCourseOwner):
		writeError(w, http.StatusForbidden, "Not authorized to modify this course")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		writeError(w, http.StatusBadRequest, "Already enrolled in this course")
	default:
		h.logger.Error().Err(err).Msg("Course service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
