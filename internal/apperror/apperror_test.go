package apperror_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/apperror"
)

func TestDB_RecordsCauseWithoutMessage(t *testing.T) {
	err := apperror.DB(errors.New("pq: relation \"todo_list\" does not exist"))

	assert.Equal(t, apperror.DbError, err.Kind)
	assert.Empty(t, err.Message)
	assert.Equal(t, `pq: relation "todo_list" does not exist`, err.Cause)
	assert.Equal(t, "Database error!", err.UserMessage())
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
}

func TestResponse_NeverLeaksCause(t *testing.T) {
	err := apperror.DB(errors.New("password authentication failed for user \"app\""))

	body, marshalErr := json.Marshal(err.Response())
	require.NoError(t, marshalErr)

	assert.JSONEq(t, `{"error":"Database error!"}`, string(body))
	assert.NotContains(t, string(body), "password")
}

func TestUserMessage_PrefersCuratedMessage(t *testing.T) {
	err := apperror.New(apperror.DbError, "Error creating todo list")

	assert.Equal(t, "Error creating todo list", err.UserMessage())
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
}

func TestStatusCode_ByKind(t *testing.T) {
	tests := []struct {
		kind    apperror.Kind
		status  int
		message string
	}{
		{apperror.DbError, http.StatusInternalServerError, "Database error!"},
		{apperror.NotFoundError, http.StatusNotFound, "Not found"},
		{apperror.BadRequestError, http.StatusBadRequest, "Bad request"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &apperror.AppError{Kind: tt.kind}
			assert.Equal(t, tt.status, err.StatusCode())
			assert.Equal(t, tt.message, err.UserMessage())
		})
	}
}

func TestAs(t *testing.T) {
	t.Run("wrapped AppError is unwrapped", func(t *testing.T) {
		orig := apperror.New(apperror.NotFoundError, "")
		got := apperror.As(fmt.Errorf("get item: %w", orig))
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes DbError", func(t *testing.T) {
		got := apperror.As(errors.New("boom"))
		assert.Equal(t, apperror.DbError, got.Kind)
		assert.Equal(t, "boom", got.Cause)
	})
}

func TestError_IncludesCauseForLogs(t *testing.T) {
	err := apperror.DB(errors.New("connection refused"))
	assert.Equal(t, "DbError: Database error! (cause: connection refused)", err.Error())

	err = apperror.New(apperror.DbError, "Error deleting todo item")
	assert.Equal(t, "DbError: Error deleting todo item", err.Error())
}
