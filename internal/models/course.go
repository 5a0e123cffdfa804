package models

import (
	"time"
)

type Course struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Category     string    `json:"category" db:"category"`
	InstructorID string    `json:"instructor_id" db:"instructor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CourseSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:       c.ID,
		Title:    c.Title,
		Category: c.Category,
	}
}

// CourseWithDetails expands the instructor, enrolled students and the
// course's tasks to summary form. Students and tasks are derived by query,
// there is no stored back-reference on the course row.
type CourseWithDetails struct {
	Course
	Instructor UserSummary   `json:"instructor"`
	Students   []UserSummary `json:"students"`
	Tasks      []TaskSummary `json:"tasks"`
}
