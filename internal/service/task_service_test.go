package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/auth"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/models"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/service"
)

const testMaxFileSize = 5 * 1024 * 1024

type taskFixture struct {
	svc      service.TaskService
	courses  *memCourseRepo
	tasks    *memTaskRepo
	files    *memFileStore
	owner    auth.Identity
	courseID string
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	courses := newMemCourseRepo()
	tasks := newMemTaskRepo()
	files := newMemFileStore()
	owner := instructor()

	courseID := uuid.New().String()
	require.NoError(t, courses.Create(context.Background(), &models.Course{
		ID:           courseID,
		Title:        "Operating Systems",
		Category:     "cs",
		InstructorID: owner.UserID,
	}))

	return &taskFixture{
		svc:      service.NewTaskService(tasks, courses, files, testMaxFileSize, zerolog.Nop()),
		courses:  courses,
		tasks:    tasks,
		files:    files,
		owner:    owner,
		courseID: courseID,
	}
}

func (f *taskFixture) createTask(t *testing.T) *models.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), f.owner, &models.CreateTaskRequest{
		Title:    "Lab 1",
		DueDate:  time.Now().Add(48 * time.Hour),
		CourseID: f.courseID,
	}, nil)
	require.NoError(t, err)
	return task
}

func (f *taskFixture) enroll(t *testing.T, caller auth.Identity) {
	t.Helper()
	enrolled, err := f.courses.Enroll(context.Background(), f.courseID, caller.UserID)
	require.NoError(t, err)
	require.True(t, enrolled)
}

func TestCreateTask(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)

		assert.Equal(t, f.courseID, task.CourseID)
		assert.Nil(t, task.File)
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.CreateTask(context.Background(), student(), &models.CreateTaskRequest{
			Title:    "Lab 1",
			DueDate:  time.Now(),
			CourseID: f.courseID,
		}, nil)
		assert.ErrorIs(t, err, service.ErrNotInstructor)
	})

	t.Run("OtherInstructorForbidden", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.CreateTask(context.Background(), instructor(), &models.CreateTaskRequest{
			Title:    "Lab 1",
			DueDate:  time.Now(),
			CourseID: f.courseID,
		}, nil)
		assert.ErrorIs(t, err, service.ErrNotCourseOwner)
		assert.Empty(t, f.tasks.tasks)
	})

	t.Run("CourseNotFound", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.CreateTask(context.Background(), f.owner, &models.CreateTaskRequest{
			Title:    "Lab 1",
			DueDate:  time.Now(),
			CourseID: uuid.New().String(),
		}, nil)
		assert.ErrorIs(t, err, service.ErrCourseNotFound)
	})

	t.Run("WithAttachment", func(t *testing.T) {
		f := newTaskFixture(t)
		content := []byte("assignment brief")

		task, err := f.svc.CreateTask(context.Background(), f.owner, &models.CreateTaskRequest{
			Title:    "Lab 2",
			DueDate:  time.Now().Add(24 * time.Hour),
			CourseID: f.courseID,
		}, &models.UploadedFile{
			Name:     "brief.pdf",
			MimeType: "application/pdf",
			Content:  content,
		})
		require.NoError(t, err)
		require.NotNil(t, task.File)
		assert.Equal(t, "brief.pdf", task.File.OriginalName)
		assert.Equal(t, "application/pdf", task.File.MimeType)
		assert.Contains(t, task.File.StoragePath, task.File.FileName)
		assert.True(t, bytes.Equal(content, f.files.objects[task.File.FileName]))
	})

	t.Run("AttachmentTooLarge", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.CreateTask(context.Background(), f.owner, &models.CreateTaskRequest{
			Title:    "Lab 3",
			DueDate:  time.Now(),
			CourseID: f.courseID,
		}, &models.UploadedFile{
			Name:    "huge.bin",
			Content: make([]byte, testMaxFileSize+1),
		})
		assert.ErrorIs(t, err, service.ErrFileTooLarge)
		assert.Empty(t, f.tasks.tasks, "no task is created when the attachment is rejected")
		assert.Empty(t, f.files.objects)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("PartialMerge", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)

		updated, err := f.svc.UpdateTask(context.Background(), f.owner, task.ID, &models.UpdateTaskRequest{
			Description: "Read chapters 1-3",
		})
		require.NoError(t, err)
		assert.Equal(t, task.Title, updated.Title)
		assert.Equal(t, "Read chapters 1-3", updated.Description)
		assert.True(t, task.DueDate.Equal(updated.DueDate))
	})

	t.Run("DueDateUpdated", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)
		newDue := time.Now().Add(96 * time.Hour)

		updated, err := f.svc.UpdateTask(context.Background(), f.owner, task.ID, &models.UpdateTaskRequest{
			DueDate: &newDue,
		})
		require.NoError(t, err)
		assert.True(t, newDue.Equal(updated.DueDate))
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)

		_, err := f.svc.UpdateTask(context.Background(), instructor(), task.ID, &models.UpdateTaskRequest{
			Title: "Hijacked",
		})
		assert.ErrorIs(t, err, service.ErrNotCourseOwner)
	})

	t.Run("TaskNotFound", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.UpdateTask(context.Background(), f.owner, uuid.New().String(), &models.UpdateTaskRequest{})
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})
}

func TestSubmitTask(t *testing.T) {
	t.Run("EnrolledStudentSubmits", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)
		caller := student()
		f.enroll(t, caller)

		sub, err := f.svc.SubmitTask(context.Background(), caller, task.ID, &models.SubmitTaskRequest{
			Content: "answer",
		})
		require.NoError(t, err)
		assert.Equal(t, caller.UserID, sub.StudentID)
		assert.Equal(t, "answer", sub.Content)
		assert.Nil(t, sub.Grade)
		assert.False(t, sub.SubmittedAt.IsZero())
	})

	t.Run("NotEnrolledForbidden", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)

		_, err := f.svc.SubmitTask(context.Background(), student(), task.ID, &models.SubmitTaskRequest{
			Content: "answer",
		})
		assert.ErrorIs(t, err, service.ErrNotEnrolled)
		assert.Empty(t, f.tasks.submissions[task.ID])
	})

	t.Run("SecondSubmitConflicts", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)
		caller := student()
		f.enroll(t, caller)

		_, err := f.svc.SubmitTask(context.Background(), caller, task.ID, &models.SubmitTaskRequest{Content: "first"})
		require.NoError(t, err)

		_, err = f.svc.SubmitTask(context.Background(), caller, task.ID, &models.SubmitTaskRequest{Content: "second"})
		assert.ErrorIs(t, err, service.ErrAlreadySubmitted)
		assert.Len(t, f.tasks.submissions[task.ID], 1)
	})

	t.Run("TaskNotFound", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.SubmitTask(context.Background(), student(), uuid.New().String(), &models.SubmitTaskRequest{Content: "x"})
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("LateSubmissionAccepted", func(t *testing.T) {
		f := newTaskFixture(t)
		caller := student()
		f.enroll(t, caller)

		task, err := f.svc.CreateTask(context.Background(), f.owner, &models.CreateTaskRequest{
			Title:    "Overdue lab",
			DueDate:  time.Now().Add(-24 * time.Hour),
			CourseID: f.courseID,
		}, nil)
		require.NoError(t, err)

		_, err = f.svc.SubmitTask(context.Background(), caller, task.ID, &models.SubmitTaskRequest{Content: "late"})
		assert.NoError(t, err, "due dates are not enforced on submission")
	})
}

func TestListTasksForCourse(t *testing.T) {
	t.Run("ExpandsSubmissions", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t)
		caller := student()
		f.enroll(t, caller)

		_, err := f.svc.SubmitTask(context.Background(), caller, task.ID, &models.SubmitTaskRequest{Content: "done"})
		require.NoError(t, err)

		tasks, err := f.svc.ListTasksForCourse(context.Background(), f.courseID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.Len(t, tasks[0].Submissions, 1)
		assert.Equal(t, caller.UserID, tasks[0].Submissions[0].Student.ID)
	})

	t.Run("CourseNotFound", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.svc.ListTasksForCourse(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, service.ErrCourseNotFound)
	})
}
