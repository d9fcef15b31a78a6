// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"

	"go-todo-lists/internal/apperror"
	"go-todo-lists/internal/database"
	"go-todo-lists/internal/models"
)

// Preparer はステートメントを準備できるコネクションです。
// プールから取得した *sql.Conn を渡すことを想定していますが、*sql.DB も満たします。
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// 行が返らなかった場合のメッセージ
const (
	msgCreateTodo = "Error creating todo list"
	msgDeleteTodo = "Error deleting todo list"
	msgCreateItem = "Error creating todo item"
	msgDeleteItem = "Error deleting todo item"
	msgCheckItem  = "Error checking todo item"
)

// TodoRepository は todo_list と todo_item に対する操作を提供します。
// 各操作はステートメントを1つ準備し、1回だけ実行します。
type TodoRepository struct {
	dialect database.Dialect
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(dialect database.Dialect) *TodoRepository {
	return &TodoRepository{dialect: dialect}
}

// GetTodos はすべてのTodoリストを新しい順 (id 降順) で取得します。
func (r *TodoRepository) GetTodos(ctx context.Context, conn Preparer) ([]models.TodoList, error) {
	return queryAll(ctx, conn, r.dialect.Rebind(
		"SELECT * FROM todo_list ORDER BY id DESC",
	), todoListColumns, scanTodoList)
}

// GetItems は指定リストのアイテムを作成順 (id 昇順) で取得します。
func (r *TodoRepository) GetItems(ctx context.Context, conn Preparer, listID int) ([]models.TodoItem, error) {
	return queryAll(ctx, conn, r.dialect.Rebind(
		"SELECT * FROM todo_item WHERE list_id = $1 ORDER BY id",
	), todoItemColumns, scanTodoItem, listID)
}

// CreateTodo は新しいTodoリストを作成し、採番された行を返します。
func (r *TodoRepository) CreateTodo(ctx context.Context, conn Preparer, title string) (*models.TodoList, error) {
	return queryOne(ctx, conn, r.dialect.Rebind(
		"INSERT INTO todo_list (title) VALUES ($1) RETURNING id, title",
	), todoListColumns, scanTodoList, msgCreateTodo, title)
}

// DeleteTodo は指定IDのTodoリストを削除し、削除した行を返します。
// 該当する行が無い場合もエラーです。
func (r *TodoRepository) DeleteTodo(ctx context.Context, conn Preparer, id int) (*models.TodoList, error) {
	return queryOne(ctx, conn, r.dialect.Rebind(
		"DELETE FROM todo_list WHERE id = $1 RETURNING id, title",
	), todoListColumns, scanTodoList, msgDeleteTodo, id)
}

// CreateItem は指定リストにアイテムを作成します。checked は false で作成されます。
// 存在しないリストを指定した場合は外部キー制約によりエラーになります。
func (r *TodoRepository) CreateItem(ctx context.Context, conn Preparer, listID int, title string) (*models.TodoItem, error) {
	return queryOne(ctx, conn, r.dialect.Rebind(
		"INSERT INTO todo_item (list_id, title) VALUES ($1, $2) RETURNING id, list_id, title, checked",
	), todoItemColumns, scanTodoItem, msgCreateItem, listID, title)
}

// DeleteItem は指定IDのアイテムを削除し、削除した行を返します。
func (r *TodoRepository) DeleteItem(ctx context.Context, conn Preparer, id int) (*models.TodoItem, error) {
	return queryOne(ctx, conn, r.dialect.Rebind(
		"DELETE FROM todo_item WHERE id = $1 RETURNING id, list_id, title, checked",
	), todoItemColumns, scanTodoItem, msgDeleteItem, id)
}

// CheckItem は指定IDのアイテムの checked を反転し、更新後の行を返します。
func (r *TodoRepository) CheckItem(ctx context.Context, conn Preparer, id int) (*models.TodoItem, error) {
	return queryOne(ctx, conn, r.dialect.Rebind(
		"UPDATE todo_item SET checked = NOT checked WHERE id = $1 RETURNING id, list_id, title, checked",
	), todoItemColumns, scanTodoItem, msgCheckItem, id)
}

// queryAll はステートメントを準備・実行し、すべての行を変換して返します。
// 失敗はすべて DbError として返します。
func queryAll[T any](ctx context.Context, conn Preparer, query string, required []string, scan func(rowScanner, []string) (T, error), args ...any) ([]T, error) {
	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, apperror.DB(err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, apperror.DB(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperror.DB(err)
	}
	if err := requireColumns(columns, required...); err != nil {
		return nil, apperror.DB(err)
	}

	result := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows, columns)
		if err != nil {
			return nil, apperror.DB(err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.DB(err)
	}
	return result, nil
}

// queryOne は RETURNING 付きのステートメントを実行し、返された行を1つ返します。
// 行が返らなかった場合は emptyMessage を持つ DbError です。
func queryOne[T any](ctx context.Context, conn Preparer, query string, required []string, scan func(rowScanner, []string) (T, error), emptyMessage string, args ...any) (*T, error) {
	rows, err := queryAll(ctx, conn, query, required, scan, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.New(apperror.DbError, emptyMessage)
	}
	v := rows[len(rows)-1]
	return &v, nil
}
