package database

import (
	"context"
	"database/sql"
	"fmt"
)

// todo_item.list_id は todo_list.id を参照します。リスト削除時のアイテムの扱いはストレージ側の責務です。
const postgresSchema = `
CREATE TABLE IF NOT EXISTS todo_list (
    id SERIAL PRIMARY KEY,
    title VARCHAR(150) NOT NULL
);

CREATE TABLE IF NOT EXISTS todo_item (
    id SERIAL PRIMARY KEY,
    title VARCHAR(150) NOT NULL,
    checked BOOLEAN NOT NULL DEFAULT FALSE,
    list_id INTEGER NOT NULL,
    FOREIGN KEY (list_id) REFERENCES todo_list(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_todo_item_list_id ON todo_item(list_id);
`

// AUTOINCREMENT により削除済みのIDは再利用されません。
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS todo_list (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS todo_item (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    checked BOOLEAN NOT NULL DEFAULT FALSE,
    list_id INTEGER NOT NULL,
    FOREIGN KEY (list_id) REFERENCES todo_list(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_todo_item_list_id ON todo_item(list_id);
`

// Migrate は todo_list と todo_item のテーブルが無ければ作成します。
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		return fmt.Errorf("failed to run migrations (%s): %w", d.Name, err)
	}
	return nil
}
