// Package database はコネクションプールの構築とスキーマの作成を行います。
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL (driver name "pgx")
	_ "modernc.org/sqlite"             // Pure Go SQLite (driver name "sqlite")

	"go-todo-lists/internal/config"
)

// SQLiteDSN はSQLiteのファイルパスから接続文字列を構築します。
// 外部キー制約はコネクションごとの設定なので、DSNの _pragma で全コネクションに適用します。
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open は設定に従ってコネクションプールを作成し、接続を確認します。
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	var (
		driverName string
		dsn        string
		dialect    Dialect
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		driverName, dsn, dialect = "pgx", cfg.Postgres.DSN(), Postgres
	case config.DriverSQLite:
		driverName, dsn, dialect = "sqlite", SQLiteDSN(cfg.SQLitePath), SQLite
	default:
		return nil, Dialect{}, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, dialect, nil
}
