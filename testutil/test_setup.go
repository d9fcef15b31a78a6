package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/config"
	"go-todo-lists/internal/database"
	"go-todo-lists/internal/logging"
	"go-todo-lists/internal/metrics"
	"go-todo-lists/internal/models"
	"go-todo-lists/internal/routes"
)

// SetupTestDB はテスト用のSQLiteデータベースを一時ディレクトリに作成し、テーブルを作成します。
// データベースはテスト終了時に閉じられます。
func SetupTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	cfg := config.Default().Database
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "todo_test.db")

	db, dialect, err := database.Open(context.Background(), cfg)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, dialect), "Failed to create tables")
	return db, dialect
}

// SetupTestRouter はテスト用のルーターをセットアップします。log が nil の場合はログを捨てます。
func SetupTestRouter(t *testing.T, db *sql.DB, dialect database.Dialect, log *slog.Logger) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if log == nil {
		log = logging.Discard()
	}
	return routes.SetupRouter(&routes.App{
		DB:      db,
		Dialect: dialect,
		Logger:  log,
		CORS:    config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		Metrics: metrics.New(db),
	})
}

// Setup はデータベースとルーターをまとめて作成します。
func Setup(t *testing.T) (*sql.DB, http.Handler) {
	t.Helper()
	db, dialect := SetupTestDB(t)
	return db, SetupTestRouter(t, db, dialect, nil)
}

// DoRequest はJSONボディ付きのリクエストをルーターに送ります。body が nil の場合はボディ無しです。
func DoRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DoRawRequest はボディをそのまま送ります。不正なJSONのテストに使います。
func DoRawRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeJSON はレスポンスボディを v にデコードします。
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "response should be valid JSON: %s", w.Body.String())
}

// CreateTestList はAPI経由でTodoリストを作成します。
func CreateTestList(t *testing.T, router http.Handler, title string) models.TodoList {
	t.Helper()

	w := DoRequest(t, router, http.MethodPost, "/todos", gin.H{"title": title})
	require.Equal(t, http.StatusOK, w.Code, "Todoリストの作成に失敗しました: %s", w.Body.String())

	var list models.TodoList
	DecodeJSON(t, w, &list)
	return list
}

// CreateTestItem はAPI経由でアイテムを作成します。
func CreateTestItem(t *testing.T, router http.Handler, listID int, title string) models.TodoItem {
	t.Helper()

	w := DoRequest(t, router, http.MethodPost, fmt.Sprintf("/todos/%d/items", listID), gin.H{"title": title})
	require.Equal(t, http.StatusOK, w.Code, "アイテムの作成に失敗しました: %s", w.Body.String())

	var item models.TodoItem
	DecodeJSON(t, w, &item)
	return item
}
