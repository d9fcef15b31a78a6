package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/apperror"
	"go-todo-lists/internal/logging"
	"go-todo-lists/internal/repositories"
	"go-todo-lists/internal/services"
	"go-todo-lists/testutil"
)

// captureContext はJSONでログを書き出すロガーを持つ context を返します。
func captureContext(buf *bytes.Buffer, handler string) context.Context {
	log := logging.New(buf, "json", "debug").With("handler", handler)
	return logging.WithContext(context.Background(), log)
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestTodoService_RoundTrip(t *testing.T) {
	db, dialect := testutil.SetupTestDB(t)
	svc := services.NewTodoService(db, repositories.NewTodoRepository(dialect))

	var buf bytes.Buffer
	ctx := captureContext(&buf, "create_todo")

	list, err := svc.CreateTodo(ctx, "Groceries")
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, list.ID, "milk")
	require.NoError(t, err)

	checked, err := svc.CheckItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, checked.Checked)

	items, err := svc.GetItems(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *checked, items[0])

	_, err = svc.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	_, err = svc.DeleteTodo(ctx, list.ID)
	require.NoError(t, err)

	todos, err := svc.GetTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	assert.Zero(t, buf.Len(), "successful operations should not log")

	// コネクションはすべてプールに返却されていること
	assert.Zero(t, db.Stats().InUse)
}

func TestTodoService_PoolFailureLogsCritical(t *testing.T) {
	db, dialect := testutil.SetupTestDB(t)
	svc := services.NewTodoService(db, repositories.NewTodoRepository(dialect))
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	_, err := svc.GetTodos(captureContext(&buf, "get_todos"))

	appErr := apperror.As(err)
	assert.Equal(t, apperror.DbError, appErr.Kind)
	assert.Equal(t, "Database error!", appErr.UserMessage())

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "CRITICAL", entries[0]["level"])
	assert.Equal(t, "Error getting client from pool", entries[0]["msg"])
	assert.Equal(t, "get_todos", entries[0]["handler"])
	assert.Equal(t, appErr.Cause, entries[0]["cause"])
}

func TestTodoService_OperationFailureLogsError(t *testing.T) {
	db, dialect := testutil.SetupTestDB(t)
	svc := services.NewTodoService(db, repositories.NewTodoRepository(dialect))

	var buf bytes.Buffer
	_, err := svc.CheckItem(captureContext(&buf, "check_item"), 31337)
	require.Error(t, err)
	assert.Equal(t, "Error checking todo item", apperror.As(err).UserMessage())

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, "Error in handler", entries[0]["msg"])
	assert.Equal(t, "check_item", entries[0]["handler"])
	assert.Contains(t, entries[0], "cause")
	assert.Zero(t, db.Stats().InUse)
}
