package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/database"
	"github.com/taskdeck/taskdeck/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Test helpers
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, email string) *models.User {
	t.Helper()

	user, err := NewUserRepository(db).Create(context.Background(), email, "x")
	require.NoError(t, err)
	return user
}

// setCreatedAt rewrites a task's creation timestamp so ordering tests
// do not depend on sub-millisecond insert timing.
func setCreatedAt(t *testing.T, db *sqlx.DB, id uuid.UUID, ts time.Time) {
	t.Helper()

	_, err := db.Exec(db.Rebind("UPDATE tasks SET created_at = ? WHERE id = ?"), ts, id)
	require.NoError(t, err)
}

func strptr(s string) *string {
	return &s
}

func TestTaskRepository_CreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	owner := createTestUser(t, db, "owner@example.com")
	ctx := context.Background()

	task, err := repo.Create(ctx, owner.ID, &TaskInput{
		Title:   "Write report",
		DueDate: "2025-06-01",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, owner.ID, task.OwnerID)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.False(t, task.Description.Valid, "empty description must be stored as NULL")
	assert.False(t, task.CreatedAt.IsZero())

	// The stored row matches what Create returned.
	stored, err := repo.GetByID(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, stored.Title)
	assert.Equal(t, task.DueDate, stored.DueDate)
	assert.False(t, stored.Description.Valid)
}

func TestTaskRepository_OwnerIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	aliceTask, err := repo.Create(ctx, alice.ID, &TaskInput{Title: "Alice's task", DueDate: "2025-01-01"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, bob.ID, &TaskInput{Title: "Bob's task", DueDate: "2025-01-02"})
	require.NoError(t, err)

	tasks, err := repo.List(ctx, alice.ID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Alice's task", tasks[0].Title)

	// Bob cannot read, update, or delete Alice's task; the failures
	// look exactly like a missing row.
	_, err = repo.GetByID(ctx, bob.ID, aliceTask.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = repo.Update(ctx, bob.ID, aliceTask.ID, &TaskPatch{Title: strptr("hijacked")})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = repo.Delete(ctx, bob.ID, aliceTask.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// The row is untouched.
	kept, err := repo.GetByID(ctx, alice.ID, aliceTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's task", kept.Title)
}

func TestTaskRepository_ListFilterAndSort(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		title   string
		dueDate string
		status  string
	}{
		{"first created", "2025-03-20", models.TaskStatusTodo},
		{"second created", "2025-03-10", models.TaskStatusDone},
		{"third created", "2025-03-15", models.TaskStatusInProgress},
	}
	for i, s := range seed {
		task, err := repo.Create(ctx, owner.ID, &TaskInput{Title: s.title, DueDate: s.dueDate, Status: s.status})
		require.NoError(t, err)
		setCreatedAt(t, db, task.ID, base.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		name       string
		filter     ListFilter
		wantTitles []string
	}{
		{
			name:       "default sorts by creation time newest first",
			filter:     ListFilter{},
			wantTitles: []string{"third created", "second created", "first created"},
		},
		{
			name:       "asc sorts by due date",
			filter:     ListFilter{SortOrder: SortDueDateAsc},
			wantTitles: []string{"second created", "third created", "first created"},
		},
		{
			name:       "desc sorts by due date",
			filter:     ListFilter{SortOrder: SortDueDateDesc},
			wantTitles: []string{"first created", "third created", "second created"},
		},
		{
			name:       "status filter",
			filter:     ListFilter{Status: strptr(models.TaskStatusDone)},
			wantTitles: []string{"second created"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.List(ctx, owner.ID, tt.filter)
			require.NoError(t, err)

			titles := make([]string, len(tasks))
			for i, task := range tasks {
				titles[i] = task.Title
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestTaskRepository_UpdatePatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")

	task, err := repo.Create(ctx, owner.ID, &TaskInput{
		Title:       "original",
		Description: "keep me",
		DueDate:     "2025-05-01",
		Status:      models.TaskStatusTodo,
	})
	require.NoError(t, err)

	t.Run("partial patch leaves other fields alone", func(t *testing.T) {
		updated, err := repo.Update(ctx, owner.ID, task.ID, &TaskPatch{Status: strptr(models.TaskStatusDone)})
		require.NoError(t, err)

		assert.Equal(t, models.TaskStatusDone, updated.Status)
		assert.Equal(t, "original", updated.Title)
		assert.Equal(t, "2025-05-01", updated.DueDate)
		require.True(t, updated.Description.Valid)
		assert.Equal(t, "keep me", updated.Description.String)
	})

	t.Run("empty description clears to NULL", func(t *testing.T) {
		updated, err := repo.Update(ctx, owner.ID, task.ID, &TaskPatch{Description: strptr("")})
		require.NoError(t, err)
		assert.False(t, updated.Description.Valid)
	})

	t.Run("empty patch returns the current row", func(t *testing.T) {
		current, err := repo.Update(ctx, owner.ID, task.ID, &TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, task.ID, current.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.Update(ctx, owner.ID, uuid.New(), &TaskPatch{Title: strptr("x")})
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")

	task, err := repo.Create(ctx, owner.ID, &TaskInput{Title: "doomed", DueDate: "2025-01-01"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, owner.ID, task.ID))

	_, err = repo.GetByID(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Hard delete: a second attempt reports not found.
	assert.ErrorIs(t, repo.Delete(ctx, owner.ID, task.ID), ErrTaskNotFound)
}
