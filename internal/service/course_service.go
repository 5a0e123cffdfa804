package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/auth"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/repository"
)

type CourseService interface {
	ListCourses(ctx context.Context) ([]models.CourseWithDetails, error)
	GetCourse(ctx context.Context, id string) (*models.CourseWithDetails, error)
	CreateCourse(ctx context.Context, caller auth.Identity, req *models.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, caller auth.Identity, id string, req *models.UpdateCourseRequest) (*models.Course, error)
	Enroll(ctx context.Context, caller auth.Identity, courseID string) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *courseService) ListCourses(ctx context.Context) ([]models.CourseWithDetails, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	if courses == nil {
		courses = []models.CourseWithDetails{}
	}
	return courses, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*models.CourseWithDetails, error) {
	course, err := s.courseRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) CreateCourse(ctx context.Context, caller auth.Identity, req *models.CreateCourseRequest) (*models.Course, error) {
	if !caller.IsInstructor() {
		return nil, ErrNotInstructor
	}

	now := time.Now()
	course := &models.Course{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		InstructorID: caller.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("instructor_id", caller.UserID).
		Str("title", course.Title).
		Msg("Course created")

	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, caller auth.Identity, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.InstructorID != caller.UserID {
		return nil, ErrNotCourseOwner
	}

	// Merge semantics: an empty field leaves the stored value unchanged.
	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	course.UpdatedAt = time.Now()

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Msg("Course updated")

	return course, nil
}

func (s *courseService) Enroll(ctx context.Context, caller auth.Identity, courseID string) error {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return ErrCourseNotFound
	}

	enrolled, err := s.courseRepo.Enroll(ctx, courseID, caller.UserID)
	if err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	if !enrolled {
		return ErrAlreadyEnrolled
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("student_id", caller.UserID).
		Msg("Student enrolled")

	return nil
}
