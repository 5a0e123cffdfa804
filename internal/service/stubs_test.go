package service_test

import (
	"context"
	"fmt"
	"io"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
)

// In-memory repository doubles. They honor the same atomicity contracts as
// the Postgres implementations: Enroll and AddSubmission report false on
// duplicates instead of failing.

type memUserRepo struct {
	byID    map[string]models.User
	byEmail map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) (bool, error) {
	if _, taken := r.byEmail[user.Email]; taken {
		return false, nil
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return true, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

type memCourseRepo struct {
	courses  map[string]models.Course
	enrolled map[string]map[string]bool
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{
		courses:  make(map[string]models.Course),
		enrolled: make(map[string]map[string]bool),
	}
}

func (r *memCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.courses[course.ID] = *course
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return &course, nil
}

func (r *memCourseRepo) GetDetails(_ context.Context, id string) (*models.CourseWithDetails, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	details := &models.CourseWithDetails{
		Course:   course,
		Students: []models.UserSummary{},
		Tasks:    []models.TaskSummary{},
	}
	for studentID := range r.enrolled[id] {
		details.Students = append(details.Students, models.UserSummary{ID: studentID})
	}
	return details, nil
}

func (r *memCourseRepo) GetAll(ctx context.Context) ([]models.CourseWithDetails, error) {
	var all []models.CourseWithDetails
	for id := range r.courses {
		details, _ := r.GetDetails(ctx, id)
		all = append(all, *details)
	}
	return all, nil
}

func (r *memCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return fmt.Errorf("course %s does not exist", course.ID)
	}
	r.courses[course.ID] = *course
	return nil
}

func (r *memCourseRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.courses[id]
	return ok, nil
}

func (r *memCourseRepo) Enroll(_ context.Context, courseID, studentID string) (bool, error) {
	if r.enrolled[courseID] == nil {
		r.enrolled[courseID] = make(map[string]bool)
	}
	if r.enrolled[courseID][studentID] {
		return false, nil
	}
	r.enrolled[courseID][studentID] = true
	return true, nil
}

func (r *memCourseRepo) IsEnrolled(_ context.Context, courseID, studentID string) (bool, error) {
	return r.enrolled[courseID][studentID], nil
}

type memTaskRepo struct {
	tasks       map[string]models.Task
	submissions map[string]map[string]models.Submission
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks:       make(map[string]models.Task),
		submissions: make(map[string]map[string]models.Submission),
	}
}

func (r *memTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (r *memTaskRepo) GetByCourse(_ context.Context, courseID string) ([]models.TaskWithDetails, error) {
	var tasks []models.TaskWithDetails
	for _, task := range r.tasks {
		if task.CourseID != courseID {
			continue
		}
		details := models.TaskWithDetails{
			Task:        task,
			Submissions: []models.SubmissionWithStudent{},
		}
		for _, sub := range r.submissions[task.ID] {
			details.Submissions = append(details.Submissions, models.SubmissionWithStudent{
				Submission: sub,
				Student:    models.UserSummary{ID: sub.StudentID},
			})
		}
		tasks = append(tasks, details)
	}
	return tasks, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return fmt.Errorf("task %s does not exist", task.ID)
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) AddSubmission(_ context.Context, sub *models.Submission) (bool, error) {
	if r.submissions[sub.TaskID] == nil {
		r.submissions[sub.TaskID] = make(map[string]models.Submission)
	}
	if _, ok := r.submissions[sub.TaskID][sub.StudentID]; ok {
		return false, nil
	}
	r.submissions[sub.TaskID][sub.StudentID] = *sub
	return true, nil
}

type memFileStore struct {
	objects map[string][]byte
	err     error
}

func newMemFileStore() *memFileStore {
	return &memFileStore{objects: make(map[string][]byte)}
}

func (s *memFileStore) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) error {
	if s.err != nil {
		return s.err
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.objects[key] = content
	return nil
}

func (s *memFileStore) ObjectPath(key string) string {
	return "test-bucket/" + key
}
