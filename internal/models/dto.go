package models

import (
	"time"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=instructor student"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
}

// UpdateCourseRequest carries merge semantics: an empty field leaves the
// stored value unchanged.
type UpdateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	CourseID    string    `json:"courseId" validate:"required,uuid"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

type SubmitTaskRequest struct {
	Content string `json:"content" validate:"required"`
}

// UploadedFile is an attachment read out of a multipart task-creation
// request before it is handed to the object store.
type UploadedFile struct {
	Name     string
	MimeType string
	Content  []byte
}
