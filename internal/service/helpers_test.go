package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/database"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/repository"

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

	user, err := repository.NewUserRepository(db).Create(context.Background(), email, "hash")
	require.NoError(t, err)
	return user
}

// sessionContext returns a context carrying the user's session, the
// way the route gate prepares it for a live request.
func sessionContext(user *models.User) context.Context {
	return middleware.WithSessionUser(context.Background(), &middleware.SessionUser{
		ID:    user.ID,
		Email: user.Email,
	})
}

// observerRecorder records TaskListChanged notifications.
type observerRecorder struct {
	changed []uuid.UUID
}

func (o *observerRecorder) TaskListChanged(ownerID uuid.UUID) {
	o.changed = append(o.changed, ownerID)
}
