// Package models はTodoリストとTodoアイテムを定義します。
package models

// TodoList は todo_list テーブルの1行を表します。
type TodoList struct {
	ID    int    `json:"id"`    // 主キー (サーバー採番)
	Title string `json:"title"` // リスト名
}

// TodoItem は todo_item テーブルの1行を表します。
type TodoItem struct {
	ID      int    `json:"id"`      // 主キー (サーバー採番)
	ListID  int    `json:"list_id"` // 所属する todo_list.id
	Title   string `json:"title"`
	Checked bool   `json:"checked"` // 唯一変更可能なフィールド (トグルのみ)
}

// CreateTodoList はリスト作成リクエストのボディです。
// title キーが無い場合のみ拒否します。空文字列はそのまま保存します。
type CreateTodoList struct {
	Title *string `json:"title" binding:"required"`
}

// CreateTodoItem はアイテム作成リクエストのボディです。
type CreateTodoItem struct {
	Title *string `json:"title" binding:"required"`
}

// Status は死活監視エンドポイントのレスポンスです。
type Status struct {
	Status string `json:"status"`
}
