package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Task status constants
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// DueDateLayout is the calendar-date format used for task due dates.
// Due dates carry no time component.
const DueDateLayout = "2006-01-02"

// ValidTaskStatus reports whether s is one of the three task statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	OwnerID     uuid.UUID      `db:"owner_id" json:"owner_id"`
	Title       string         `db:"title" json:"title"`
	Description sql.NullString `db:"description" json:"description"`
	DueDate     string         `db:"due_date" json:"due_date"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
