package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// Generic boundary errors. Anything unexpected that escapes an
// operation is mapped to one of these; store errors pass through with
// their original message.
var (
	ErrFetchTasksFailed = errors.New("Failed to fetch tasks")
	ErrCreateTaskFailed = errors.New("Failed to create task")
	ErrUpdateTaskFailed = errors.New("Failed to update task")
	ErrDeleteTaskFailed = errors.New("Failed to delete task")
)

// StatusFilterAll disables status filtering in GetTasks.
const StatusFilterAll = "all"

// TaskListObserver is notified after every successful mutation of a
// user's task list. The HTTP layer registers the dashboard view cache
// here; tests register recorders.
type TaskListObserver interface {
	TaskListChanged(ownerID uuid.UUID)
}

// TaskListObserverFunc adapts a function to TaskListObserver.
type TaskListObserverFunc func(ownerID uuid.UUID)

func (f TaskListObserverFunc) TaskListChanged(ownerID uuid.UUID) {
	f(ownerID)
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Status      *string
}

// TaskService is the action layer: every operation validates the
// session, scopes the repository call to the session's owner id, and
// never lets a panic escape its boundary.
type TaskService struct {
	repo      *repository.TaskRepository
	observers []TaskListObserver
}

// NewTaskService creates a new task service
func NewTaskService(repo *repository.TaskRepository, observers ...TaskListObserver) *TaskService {
	return &TaskService{
		repo:      repo,
		observers: observers,
	}
}

// Subscribe registers an observer for task list mutations.
func (s *TaskService) Subscribe(observer TaskListObserver) {
	s.observers = append(s.observers, observer)
}

// GetTasks lists the caller's tasks. An empty or "all" filterStatus
// returns every status; sortOrder "asc"/"desc" sorts by due date and
// the empty value sorts by creation time, newest first. The two sort
// modes are mutually exclusive.
func (s *TaskService) GetTasks(ctx context.Context, filterStatus, sortOrder string) (tasks []models.Task, err error) {
	defer recoverTo(&err, ErrFetchTasksFailed)

	user, ok := middleware.SessionUserFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	filter := repository.ListFilter{SortOrder: sortOrder}
	if filterStatus != "" && filterStatus != StatusFilterAll {
		if !models.ValidTaskStatus(filterStatus) {
			return nil, fmt.Errorf("invalid status filter: %s", filterStatus)
		}
		filter.Status = &filterStatus
	}

	return s.repo.List(ctx, user.ID, filter)
}

// CreateTask creates a task owned by the session user. The owner is
// always injected from the session; the input cannot carry one.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (task *models.Task, err error) {
	defer recoverTo(&err, ErrCreateTaskFailed)

	user, ok := middleware.SessionUserFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if err := validateTaskFields(input.Title, input.DueDate, input.Status); err != nil {
		return nil, err
	}

	task, err = s.repo.Create(ctx, user.ID, &repository.TaskInput{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
	})
	if err != nil {
		return nil, err
	}

	s.notify(user.ID)
	return task, nil
}

// UpdateTask applies a partial patch to one of the caller's tasks. A
// task that does not exist and a task owned by someone else fail with
// the same error.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (task *models.Task, err error) {
	defer recoverTo(&err, ErrUpdateTaskFailed)

	user, ok := middleware.SessionUserFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if input.Title != nil && *input.Title == "" {
		return nil, errors.New("title is required")
	}
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, fmt.Errorf("invalid status: %s", *input.Status)
	}
	if input.DueDate != nil {
		if _, err := time.Parse(models.DueDateLayout, *input.DueDate); err != nil {
			return nil, errors.New("invalid due date")
		}
	}

	task, err = s.repo.Update(ctx, user.ID, id, &repository.TaskPatch{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
	})
	if err != nil {
		return nil, err
	}

	s.notify(user.ID)
	return task, nil
}

// DeleteTask removes one of the caller's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) (err error) {
	defer recoverTo(&err, ErrDeleteTaskFailed)

	user, ok := middleware.SessionUserFromContext(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := s.repo.Delete(ctx, user.ID, id); err != nil {
		return err
	}

	s.notify(user.ID)
	return nil
}

func (s *TaskService) notify(ownerID uuid.UUID) {
	for _, observer := range s.observers {
		observer.TaskListChanged(ownerID)
	}
}

func validateTaskFields(title, dueDate, status string) error {
	if title == "" {
		return errors.New("title is required")
	}
	if !models.ValidTaskStatus(status) {
		return fmt.Errorf("invalid status: %s", status)
	}
	if _, err := time.Parse(models.DueDateLayout, dueDate); err != nil {
		return errors.New("invalid due date")
	}
	return nil
}

// recoverTo converts a panic escaping an action into its generic
// user-facing error. Must be invoked directly by defer.
func recoverTo(err *error, generic error) {
	if r := recover(); r != nil {
		slog.Error("action layer panic", slog.Any("panic", r))
		*err = generic
	}
}
