package services

import (
	"context"
	"database/sql"

	"go-todo-lists/internal/apperror"
	"go-todo-lists/internal/logging"
	"go-todo-lists/internal/models"
	"go-todo-lists/internal/repositories"
)

// TodoService はプールからのコネクション取得とエラーログを一か所で扱い、
// リポジトリの各操作を呼び出します。
type TodoService struct {
	pool     *sql.DB
	todoRepo *repositories.TodoRepository
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(pool *sql.DB, todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{pool: pool, todoRepo: todoRepo}
}

// GetTodos はすべてのTodoリストを取得します。
func (s *TodoService) GetTodos(ctx context.Context) ([]models.TodoList, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) ([]models.TodoList, error) {
		return s.todoRepo.GetTodos(ctx, conn)
	})
}

// GetItems は指定リストのアイテムを取得します。
func (s *TodoService) GetItems(ctx context.Context, listID int) ([]models.TodoItem, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) ([]models.TodoItem, error) {
		return s.todoRepo.GetItems(ctx, conn, listID)
	})
}

// CreateTodo はTodoリストを作成します。
func (s *TodoService) CreateTodo(ctx context.Context, title string) (*models.TodoList, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) (*models.TodoList, error) {
		return s.todoRepo.CreateTodo(ctx, conn, title)
	})
}

// DeleteTodo はTodoリストを削除します。
func (s *TodoService) DeleteTodo(ctx context.Context, id int) (*models.TodoList, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) (*models.TodoList, error) {
		return s.todoRepo.DeleteTodo(ctx, conn, id)
	})
}

// CreateItem はアイテムを作成します。
func (s *TodoService) CreateItem(ctx context.Context, listID int, title string) (*models.TodoItem, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) (*models.TodoItem, error) {
		return s.todoRepo.CreateItem(ctx, conn, listID, title)
	})
}

// DeleteItem はアイテムを削除します。
func (s *TodoService) DeleteItem(ctx context.Context, id int) (*models.TodoItem, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) (*models.TodoItem, error) {
		return s.todoRepo.DeleteItem(ctx, conn, id)
	})
}

// CheckItem はアイテムの checked を反転します。
func (s *TodoService) CheckItem(ctx context.Context, id int) (*models.TodoItem, error) {
	return withConn(ctx, s.pool, func(conn repositories.Preparer) (*models.TodoItem, error) {
		return s.todoRepo.CheckItem(ctx, conn, id)
	})
}

// withConn はプールからコネクションを1つ取得して op を実行し、返す前に解放します。
// 取得の失敗は CRITICAL、op の失敗は ERROR でログに残し、エラーはそのまま返します。
func withConn[T any](ctx context.Context, pool *sql.DB, op func(conn repositories.Preparer) (T, error)) (T, error) {
	var zero T
	log := logging.FromContext(ctx)

	conn, err := pool.Conn(ctx)
	if err != nil {
		logging.Critical(ctx, log, "Error getting client from pool", "cause", err.Error())
		return zero, apperror.DB(err)
	}
	defer conn.Close()

	v, err := op(conn)
	if err != nil {
		appErr := apperror.As(err)
		log.ErrorContext(ctx, "Error in handler", "cause", appErr.Cause, "error", appErr.Error())
		return zero, err
	}
	return v, nil
}
