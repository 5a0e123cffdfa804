package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.TaskWithDetails, error)
	Update(ctx context.Context, task *models.Task) error
	// AddSubmission appends the submission atomically and reports false when
	// the student has already submitted for this task.
	AddSubmission(ctx context.Context, sub *models.Submission) (bool, error)
}

type taskRepository struct {
	*PostgresRepository
}

func NewTaskRepository(db *sql.DB, logger zerolog.Logger) TaskRepository {
	return &taskRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, due_date, course_id,
			file_name, file_original_name, file_storage_path, file_mime_type,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var fileName, originalName, storagePath, mimeType sql.NullString
	if task.File != nil {
		fileName = sql.NullString{String: task.File.FileName, Valid: true}
		originalName = sql.NullString{String: task.File.OriginalName, Valid: true}
		storagePath = sql.NullString{String: task.File.StoragePath, Valid: true}
		mimeType = sql.NullString{String: task.File.MimeType, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.CourseID,
		fileName,
		originalName,
		storagePath,
		mimeType,
		task.CreatedAt,
		task.UpdatedAt,
	)

	return err
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `
		SELECT
			id, title, description, due_date, course_id,
			file_name, file_original_name, file_storage_path, file_mime_type,
			created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task := &models.Task{}
	var fileName, originalName, storagePath, mimeType sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.CourseID,
		&fileName,
		&originalName,
		&storagePath,
		&mimeType,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if fileName.Valid {
		task.File = &models.FileAttachment{
			FileName:     fileName.String,
			OriginalName: originalName.String,
			StoragePath:  storagePath.String,
			MimeType:     mimeType.String,
		}
	}

	return task, nil
}

func (r *taskRepository) GetByCourse(ctx context.Context, courseID string) ([]models.TaskWithDetails, error) {
	query := `
		SELECT
			t.id, t.title, t.description, t.due_date, t.course_id,
			t.file_name, t.file_original_name, t.file_storage_path, t.file_mime_type,
			t.created_at, t.updated_at,
			c.id, c.title, c.category
		FROM tasks t
		JOIN courses c ON t.course_id = c.id
		WHERE t.course_id = $1
		ORDER BY t.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.TaskWithDetails
	index := make(map[string]int)
	for rows.Next() {
		var task models.TaskWithDetails
		var fileName, originalName, storagePath, mimeType sql.NullString
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.CourseID,
			&fileName,
			&originalName,
			&storagePath,
			&mimeType,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.Course.ID,
			&task.Course.Title,
			&task.Course.Category,
		)
		if err != nil {
			return nil, err
		}
		if fileName.Valid {
			task.File = &models.FileAttachment{
				FileName:     fileName.String,
				OriginalName: originalName.String,
				StoragePath:  storagePath.String,
				MimeType:     mimeType.String,
			}
		}
		task.Submissions = []models.SubmissionWithStudent{}
		index[task.ID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	if err := r.attachSubmissions(ctx, courseID, tasks, index); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) attachSubmissions(ctx context.Context, courseID string, tasks []models.TaskWithDetails, index map[string]int) error {
	query := `
		SELECT
			s.id, s.task_id, s.student_id, s.content, s.grade, s.submitted_at,
			u.id, u.name, u.email, u.role
		FROM submissions s
		JOIN tasks t ON s.task_id = t.id
		JOIN users u ON s.student_id = u.id
		WHERE t.course_id = $1
		ORDER BY s.submitted_at
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sub models.SubmissionWithStudent
		err := rows.Scan(
			&sub.ID,
			&sub.TaskID,
			&sub.StudentID,
			&sub.Content,
			&sub.Grade,
			&sub.SubmittedAt,
			&sub.Student.ID,
			&sub.Student.Name,
			&sub.Student.Email,
			&sub.Student.Role,
		)
		if err != nil {
			return err
		}
		if i, ok := index[sub.TaskID]; ok {
			tasks[i].Submissions = append(tasks[i].Submissions, sub)
		}
	}

	return rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, updated_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
	)

	return err
}

func (r *taskRepository) AddSubmission(ctx context.Context, sub *models.Submission) (bool, error) {
	query := `
		INSERT INTO submissions (id, task_id, student_id, content, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (task_id, student_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		sub.ID,
		sub.TaskID,
		sub.StudentID,
		sub.Content,
		sub.SubmittedAt,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
