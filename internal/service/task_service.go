package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/auth"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/repository"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/storage"
)

// FileStore is the slice of the attachment store the task service needs.
type FileStore interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	ObjectPath(key string) string
}

type TaskService interface {
	ListTasksForCourse(ctx context.Context, courseID string) ([]models.TaskWithDetails, error)
	CreateTask(ctx context.Context, caller auth.Identity, req *models.CreateTaskRequest, file *models.UploadedFile) (*models.Task, error)
	UpdateTask(ctx context.Context, caller auth.Identity, id string, req *models.UpdateTaskRequest) (*models.Task, error)
	SubmitTask(ctx context.Context, caller auth.Identity, taskID string, req *models.SubmitTaskRequest) (*models.Submission, error)
}

type taskService struct {
	taskRepo    repository.TaskRepository
	courseRepo  repository.CourseRepository
	files       FileStore
	maxFileSize int64
	logger      zerolog.Logger
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	courseRepo repository.CourseRepository,
	files FileStore,
	maxFileSize int64,
	logger zerolog.Logger,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		courseRepo:  courseRepo,
		files:       files,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (s *taskService) ListTasksForCourse(ctx context.Context, courseID string) ([]models.TaskWithDetails, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	tasks, err := s.taskRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.TaskWithDetails{}
	}
	return tasks, nil
}

func (s *taskService) CreateTask(ctx context.Context, caller auth.Identity, req *models.CreateTaskRequest, file *models.UploadedFile) (*models.Task, error) {
	if !caller.IsInstructor() {
		return nil, ErrNotInstructor
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.InstructorID != caller.UserID {
		return nil, ErrNotCourseOwner
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CourseID:    req.CourseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if file != nil {
		attachment, err := s.storeAttachment(ctx, file)
		if err != nil {
			return nil, err
		}
		task.File = attachment
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("course_id", task.CourseID).
		Bool("has_file", task.File != nil).
		Msg("Task created")

	return task, nil
}

// storeAttachment enforces the size cap and writes the file to the object
// store. Any content type is accepted.
func (s *taskService) storeAttachment(ctx context.Context, file *models.UploadedFile) (*models.FileAttachment, error) {
	size := int64(len(file.Content))
	if size > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	key := storage.UniqueKey(file.Name)
	if err := s.files.Upload(ctx, key, bytes.NewReader(file.Content), size, file.MimeType); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	return &models.FileAttachment{
		FileName:     key,
		OriginalName: file.Name,
		StoragePath:  s.files.ObjectPath(key),
		MimeType:     file.MimeType,
	}, nil
}

func (s *taskService) UpdateTask(ctx context.Context, caller auth.Identity, id string, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, task.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrTaskNotFound
	}
	if course.InstructorID != caller.UserID {
		return nil, ErrNotCourseOwner
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("Task updated")

	return task, nil
}

func (s *taskService) SubmitTask(ctx context.Context, caller auth.Identity, taskID string, req *models.SubmitTaskRequest) (*models.Submission, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	enrolled, err := s.courseRepo.IsEnrolled(ctx, task.CourseID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	// Due dates are deliberately not checked; late submissions are accepted.
	sub := &models.Submission{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		StudentID:   caller.UserID,
		Content:     req.Content,
		SubmittedAt: time.Now(),
	}

	added, err := s.taskRepo.AddSubmission(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to add submission: %w", err)
	}
	if !added {
		return nil, ErrAlreadySubmitted
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("student_id", caller.UserID).
		Msg("Submission recorded")

	return sub, nil
}
