package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetDetails(ctx context.Context, id string) (*models.CourseWithDetails, error)
	GetAll(ctx context.Context) ([]models.CourseWithDetails, error)
	Update(ctx context.Context, course *models.Course) error
	Exists(ctx context.Context, id string) (bool, error)
	// Enroll inserts the membership atomically and reports false when the
	// student is already enrolled.
	Enroll(ctx context.Context, courseID, studentID string) (bool, error)
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
}

type courseRepository struct {
	*PostgresRepository
}

func NewCourseRepository(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, title, description, category, instructor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.InstructorID,
		course.CreatedAt,
		course.UpdatedAt,
	)

	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT id, title, description, category, instructor_id, created_at, updated_at
		FROM courses
		WHERE id = $1
	`

	course := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.InstructorID,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return course, err
}

func (r *courseRepository) GetDetails(ctx context.Context, id string) (*models.CourseWithDetails, error) {
	query := `
		SELECT
			c.id, c.title, c.description, c.category, c.instructor_id,
			c.created_at, c.updated_at,
			u.id, u.name, u.email, u.role
		FROM courses c
		JOIN users u ON c.instructor_id = u.id
		WHERE c.id = $1
	`

	courses, index, err := r.queryCourses(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, nil
	}

	studentsQuery := `
		SELECT e.course_id, u.id, u.name, u.email, u.role
		FROM enrollments e
		JOIN users u ON e.student_id = u.id
		WHERE e.course_id = $1
		ORDER BY e.enrolled_at
	`
	if err := r.attachStudents(ctx, studentsQuery, courses, index, id); err != nil {
		return nil, err
	}

	tasksQuery := `
		SELECT course_id, id, title, due_date
		FROM tasks
		WHERE course_id = $1
		ORDER BY created_at
	`
	if err := r.attachTasks(ctx, tasksQuery, courses, index, id); err != nil {
		return nil, err
	}

	return &courses[0], nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.CourseWithDetails, error) {
	query := `
		SELECT
			c.id, c.title, c.description, c.category, c.instructor_id,
			c.created_at, c.updated_at,
			u.id, u.name, u.email, u.role
		FROM courses c
		JOIN users u ON c.instructor_id = u.id
		ORDER BY c.created_at DESC
	`

	courses, index, err := r.queryCourses(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return courses, nil
	}

	studentsQuery := `
		SELECT e.course_id, u.id, u.name, u.email, u.role
		FROM enrollments e
		JOIN users u ON e.student_id = u.id
		ORDER BY e.enrolled_at
	`
	if err := r.attachStudents(ctx, studentsQuery, courses, index); err != nil {
		return nil, err
	}

	tasksQuery := `
		SELECT course_id, id, title, due_date
		FROM tasks
		ORDER BY created_at
	`
	if err := r.attachTasks(ctx, tasksQuery, courses, index); err != nil {
		return nil, err
	}

	return courses, nil
}

// queryCourses scans course rows joined with their instructor into summary
// form and returns an index from course id to slice position.
func (r *courseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]models.CourseWithDetails, map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var courses []models.CourseWithDetails
	index := make(map[string]int)
	for rows.Next() {
		var course models.CourseWithDetails
		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Category,
			&course.InstructorID,
			&course.CreatedAt,
			&course.UpdatedAt,
			&course.Instructor.ID,
			&course.Instructor.Name,
			&course.Instructor.Email,
			&course.Instructor.Role,
		)
		if err != nil {
			return nil, nil, err
		}
		course.Students = []models.UserSummary{}
		course.Tasks = []models.TaskSummary{}
		index[course.ID] = len(courses)
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return courses, index, nil
}

func (r *courseRepository) attachStudents(ctx context.Context, query string, courses []models.CourseWithDetails, index map[string]int, args ...interface{}) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var courseID string
		var student models.UserSummary
		if err := rows.Scan(&courseID, &student.ID, &student.Name, &student.Email, &student.Role); err != nil {
			return err
		}
		if i, ok := index[courseID]; ok {
			courses[i].Students = append(courses[i].Students, student)
		}
	}

	return rows.Err()
}

func (r *courseRepository) attachTasks(ctx context.Context, query string, courses []models.CourseWithDetails, index map[string]int, args ...interface{}) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var courseID string
		var task models.TaskSummary
		if err := rows.Scan(&courseID, &task.ID, &task.Title, &task.DueDate); err != nil {
			return err
		}
		if i, ok := index[courseID]; ok {
			courses[i].Tasks = append(courses[i].Tasks, task)
		}
	}

	return rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.UpdatedAt,
		course.ID,
	)

	return err
}

func (r *courseRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *courseRepository) Enroll(ctx context.Context, courseID, studentID string) (bool, error) {
	query := `
		INSERT INTO enrollments (course_id, student_id, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id, student_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, courseID, studentID, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`
	var enrolled bool
	err := r.db.QueryRowContext(ctx, query, courseID, studentID).Scan(&enrolled)
	return enrolled, err
}
