package database_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/config"
	"go-todo-lists/internal/database"
)

func TestRebind(t *testing.T) {
	q := "INSERT INTO todo_item (list_id, title) VALUES ($1, $2) RETURNING id, list_id, title, checked"

	assert.Equal(t, q, database.Postgres.Rebind(q))
	assert.Equal(t,
		"INSERT INTO todo_item (list_id, title) VALUES (?, ?) RETURNING id, list_id, title, checked",
		database.SQLite.Rebind(q))
	assert.Equal(t, "SELECT * FROM todo_list WHERE id = ?", database.SQLite.Rebind("SELECT * FROM todo_list WHERE id = $12"))
	assert.Equal(t, "SELECT '$' FROM todo_list", database.SQLite.Rebind("SELECT '$' FROM todo_list"))
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default().Database
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "todo.db")
	cfg.ConnMaxLifetime.Duration = time.Minute

	db, dialect, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", dialect.Name)

	require.NoError(t, database.Migrate(ctx, db, dialect))
	// 2回目も成功すること (IF NOT EXISTS)
	require.NoError(t, database.Migrate(ctx, db, dialect))

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err = db.ExecContext(ctx, "INSERT INTO todo_item (list_id, title) VALUES (999, 'orphan')")
	assert.Error(t, err, "foreign key constraint should reject orphaned items")
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := config.Default().Database
	cfg.Driver = "oracle"

	_, _, err := database.Open(context.Background(), cfg)
	require.Error(t, err)
}

func TestOpenAndMigrate_DoNotLogThroughDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	cfg := config.Default().Database
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "todo.db")

	db, dialect, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(ctx, db, dialect))

	assert.Zero(t, buf.Len(), "unexpected log output: %s", buf.String())
}
