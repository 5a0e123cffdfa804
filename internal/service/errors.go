package service

import "errors"

// Domain errors surfaced to the delivery layer. Handlers map these onto HTTP
// statuses; everything else is treated as an internal error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotInstructor      = errors.New("instructor role required")
	ErrNotCourseOwner     = errors.New("caller does not own this course")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrAlreadySubmitted   = errors.New("already submitted this task")
	ErrFileTooLarge       = errors.New("file size exceeds limit")
)
