package repositories

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/models"
)

// fakeRow は列の値をスキャン先に代入するだけのテスト用の行です。
type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("expected %d destinations, got %d", len(r), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r[i].(int)
		case *string:
			*p = r[i].(string)
		case *bool:
			*p = r[i].(bool)
		case *sql.RawBytes:
			*p = sql.RawBytes(fmt.Sprint(r[i]))
		default:
			return fmt.Errorf("unexpected destination %T", d)
		}
	}
	return nil
}

func TestScanTodoItem_ColumnOrderDoesNotMatter(t *testing.T) {
	columns := []string{"checked", "title", "extra", "list_id", "id"}
	row := fakeRow{true, "milk", "ignored", 3, 7}

	item, err := scanTodoItem(row, columns)
	require.NoError(t, err)
	assert.Equal(t, models.TodoItem{ID: 7, ListID: 3, Title: "milk", Checked: true}, item)
}

func TestScanTodoList(t *testing.T) {
	list, err := scanTodoList(fakeRow{"Groceries", 12}, []string{"title", "id"})
	require.NoError(t, err)
	assert.Equal(t, models.TodoList{ID: 12, Title: "Groceries"}, list)
}

func TestRequireColumns_CaseSensitive(t *testing.T) {
	assert.NoError(t, requireColumns([]string{"id", "title"}, todoListColumns...))

	err := requireColumns([]string{"ID", "title"}, todoListColumns...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}
