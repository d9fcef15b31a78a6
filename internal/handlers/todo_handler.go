package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/apperror"
	"go-todo-lists/internal/logging"
	"go-todo-lists/internal/models"
	"go-todo-lists/internal/services"
)

// TodoHandler はTodoリストとアイテムのハンドラーを管理します。
// エラーは c.Error で登録し、レスポンスへの変換は routes.ErrorHandler が行います。
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// handlerContext はハンドラー名をタグ付けしたロガーを持つ context を返します。
func handlerContext(c *gin.Context, name string) context.Context {
	ctx := c.Request.Context()
	return logging.WithContext(ctx, logging.FromContext(ctx).With("handler", name))
}

// pathID はパスパラメータを todo_list / todo_item の id として解釈します。
func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperror.BadRequest("Invalid ID format", err)
	}
	return int(id), nil
}

// StatusHandler は死活監視用のエンドポイントです。データベースにはアクセスしません。
func (h *TodoHandler) StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.Status{Status: "UP"})
}

// GetTodosHandler はすべてのTodoリストを返します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	ctx := handlerContext(c, "get_todos")

	todos, err := h.todoService.GetTodos(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodoHandler は新しいTodoリストを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	ctx := handlerContext(c, "create_todo")

	var req models.CreateTodoList
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request payload", err))
		return
	}

	todo, err := h.todoService.CreateTodo(ctx, *req.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodoHandler は指定されたIDのTodoリストを削除します。
// 残っているアイテムの扱いはストレージ側の制約に従います。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	ctx := handlerContext(c, "delete_todo")

	listID, err := pathID(c, "list_id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	todo, err := h.todoService.DeleteTodo(ctx, listID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// GetItemsHandler は指定リストのアイテムを返します。
func (h *TodoHandler) GetItemsHandler(c *gin.Context) {
	ctx := handlerContext(c, "get_items")

	listID, err := pathID(c, "list_id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	items, err := h.todoService.GetItems(ctx, listID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItemHandler は指定リストにアイテムを作成します。
func (h *TodoHandler) CreateItemHandler(c *gin.Context) {
	ctx := handlerContext(c, "create_item")

	listID, err := pathID(c, "list_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req models.CreateTodoItem
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request payload", err))
		return
	}

	item, err := h.todoService.CreateItem(ctx, listID, *req.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItemHandler はアイテムを削除します。
// list_id はパスに含まれますが、削除対象の絞り込みには item_id のみを使います。
func (h *TodoHandler) DeleteItemHandler(c *gin.Context) {
	ctx := handlerContext(c, "delete_item")

	if _, err := pathID(c, "list_id"); err != nil {
		_ = c.Error(err)
		return
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := h.todoService.DeleteItem(ctx, itemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CheckItemHandler はアイテムの checked を反転します。
// DeleteItemHandler と同様に list_id では絞り込みません。
func (h *TodoHandler) CheckItemHandler(c *gin.Context) {
	ctx := handlerContext(c, "check_item")

	if _, err := pathID(c, "list_id"); err != nil {
		_ = c.Error(err)
		return
	}
	itemID, err := pathID(c, "item_id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := h.todoService.CheckItem(ctx, itemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}
