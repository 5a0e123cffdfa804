package models

import (
	"time"
)

type Task struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	DueDate     time.Time       `json:"due_date" db:"due_date"`
	CourseID    string          `json:"course_id" db:"course_id"`
	File        *FileAttachment `json:"file,omitempty"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// FileAttachment is set once at task creation and never replaced or removed.
type FileAttachment struct {
	FileName     string `json:"file_name" db:"file_name"`
	OriginalName string `json:"original_name" db:"file_original_name"`
	StoragePath  string `json:"storage_path" db:"file_storage_path"`
	MimeType     string `json:"mime_type" db:"file_mime_type"`
}

type TaskSummary struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

func (t *Task) Summary() TaskSummary {
	return TaskSummary{
		ID:      t.ID,
		Title:   t.Title,
		DueDate: t.DueDate,
	}
}

type Submission struct {
	ID          string    `json:"id" db:"id"`
	TaskID      string    `json:"task_id" db:"task_id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	Content     string    `json:"content" db:"content"`
	Grade       *float64  `json:"grade,omitempty" db:"grade"`
	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
}

type SubmissionWithStudent struct {
	Submission
	Student UserSummary `json:"student"`
}

type TaskWithDetails struct {
	Task
	Course      CourseSummary           `json:"course"`
	Submissions []SubmissionWithStudent `json:"submissions"`
}
