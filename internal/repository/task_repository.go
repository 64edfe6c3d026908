package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/models"
)

// ErrTaskNotFound is returned when no row matches the compound
// id+owner filter. A task owned by someone else and a task that does
// not exist are deliberately indistinguishable.
var ErrTaskNotFound = errors.New("task not found")

// Sort orders accepted by List. The zero value sorts by creation time,
// newest first; the other two sort by due date.
const (
	SortDefault     = ""
	SortDueDateAsc  = "asc"
	SortDueDateDesc = "desc"
)

type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Status      *string
}

type ListFilter struct {
	Status    *string
	SortOrder string
}

const taskColumns = "id, owner_id, title, description, due_date, status, created_at"

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// ownerScope is the one place the row-level isolation predicate is
// built. Every read and every mutation appends it, so a caller can
// never touch a row whose owner_id differs from its session identity.
func ownerScope(ownerID uuid.UUID) (string, []interface{}) {
	return "owner_id = ?", []interface{}{ownerID}
}

// List returns the owner's tasks, optionally narrowed to one status.
// Queries are written with ? placeholders and rebound for the active
// driver so the same statements run on Postgres and sqlite.
func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]models.Task, error) {
	where, args := ownerScope(ownerID)

	if filter.Status != nil {
		where += " AND status = ?"
		args = append(args, *filter.Status)
	}

	order := "created_at DESC"
	switch filter.SortOrder {
	case SortDueDateAsc:
		order = "due_date ASC"
	case SortDueDateDesc:
		order = "due_date DESC"
	}

	query := r.db.Rebind("SELECT " + taskColumns + " FROM tasks WHERE " + where + " ORDER BY " + order)

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// GetByID returns a single task scoped to the owner.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	where, args := ownerScope(ownerID)
	query := r.db.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ? AND " + where)

	var t models.Task
	err := r.db.GetContext(ctx, &t, query, append([]interface{}{id}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &t, nil
}

// Create inserts a new task for the owner. The id and creation
// timestamp are assigned here, never taken from the input; an empty
// description is stored as NULL.
func (r *TaskRepository) Create(ctx context.Context, ownerID uuid.UUID, in *TaskInput) (*models.Task, error) {
	t := &models.Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     in.Title,
		DueDate:   in.DueDate,
		Status:    in.Status,
		CreatedAt: time.Now().UTC(),
	}

	if t.Status == "" {
		t.Status = models.TaskStatusTodo
	}
	if in.Description != "" {
		t.Description = sql.NullString{String: in.Description, Valid: true}
	}

	query := r.db.Rebind("INSERT INTO tasks (" + taskColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.Title, t.Description, t.DueDate, t.Status, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return t, nil
}

// Update applies a partial patch under the compound id+owner filter
// and returns the updated row. Zero matched rows surface as
// ErrTaskNotFound whether the task is missing or owned by someone
// else.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id uuid.UUID, patch *TaskPatch) (*models.Task, error) {
	sets := []string{}
	args := []interface{}{}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			sets = append(sets, "description = NULL")
		} else {
			sets = append(sets, "description = ?")
			args = append(args, *patch.Description)
		}
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}

	where, whereArgs := ownerScope(ownerID)
	query := r.db.Rebind("UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND " + where)
	args = append(args, id)
	args = append(args, whereArgs...)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.GetByID(ctx, ownerID, id)
}

// Delete removes a task under the compound id+owner filter.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	where, whereArgs := ownerScope(ownerID)
	query := r.db.Rebind("DELETE FROM tasks WHERE id = ? AND " + where)

	res, err := r.db.ExecContext(ctx, query, append([]interface{}{id}, whereArgs...)...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
