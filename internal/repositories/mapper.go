package repositories

import (
	"database/sql"
	"fmt"

	"go-todo-lists/internal/models"
)

// rowScanner は *sql.Rows のうち行のマッピングに必要な部分です。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTargets はカラム名ごとのスキャン先を並べます。
// 列の順序には依存せず、名前は大文字小文字を区別して照合します。未知の列は読み捨てます。
func scanTargets(columns []string, fields map[string]any) []any {
	dest := make([]any, len(columns))
	for i, name := range columns {
		if f, ok := fields[name]; ok {
			dest[i] = f
		} else {
			dest[i] = new(sql.RawBytes)
		}
	}
	return dest
}

// requireColumns は結果セットにエンティティの全フィールドが含まれているか確認します。
func requireColumns(columns []string, required ...string) error {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	for _, r := range required {
		if !seen[r] {
			return fmt.Errorf("column %q not found in result set %v", r, columns)
		}
	}
	return nil
}

var (
	todoListColumns = []string{"id", "title"}
	todoItemColumns = []string{"id", "list_id", "title", "checked"}
)

// scanTodoList は現在の行を TodoList に変換します。
func scanTodoList(rows rowScanner, columns []string) (models.TodoList, error) {
	var l models.TodoList
	err := rows.Scan(scanTargets(columns, map[string]any{
		"id":    &l.ID,
		"title": &l.Title,
	})...)
	return l, err
}

// scanTodoItem は現在の行を TodoItem に変換します。
func scanTodoItem(rows rowScanner, columns []string) (models.TodoItem, error) {
	var it models.TodoItem
	err := rows.Scan(scanTargets(columns, map[string]any{
		"id":      &it.ID,
		"list_id": &it.ListID,
		"title":   &it.Title,
		"checked": &it.Checked,
	})...)
	return it, err
}
