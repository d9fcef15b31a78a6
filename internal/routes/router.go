// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/config"
	"go-todo-lists/internal/database"
	"go-todo-lists/internal/handlers"
	"go-todo-lists/internal/metrics"
	"go-todo-lists/internal/repositories"
	"go-todo-lists/internal/services"
)

// App はリクエスト処理で共有するリソースです。起動時に一度だけ作成し、読み取り専用で使います。
type App struct {
	DB      *sql.DB
	Dialect database.Dialect
	Logger  *slog.Logger
	CORS    config.CORSConfig
	Metrics *metrics.Metrics // nil の場合 /metrics を公開しない
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(app *App) http.Handler {
	r := gin.New()
	r.RedirectTrailingSlash = false

	r.Use(gin.Recovery())
	r.Use(RequestLogger(app.Logger))
	if app.Metrics != nil {
		r.Use(app.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(app.CORS)))
	r.Use(ErrorHandler())

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(app.Dialect)

	// サービス
	todoService := services.NewTodoService(app.DB, todoRepo)

	// ハンドラー
	todoHandler := handlers.NewTodoHandler(todoService)

	// ルーティング
	r.GET("/", todoHandler.StatusHandler)
	r.GET("/todos", todoHandler.GetTodosHandler)
	r.POST("/todos", todoHandler.CreateTodoHandler)
	r.DELETE("/todos/:list_id", todoHandler.DeleteTodoHandler)
	r.GET("/todos/:list_id/items", todoHandler.GetItemsHandler)
	r.POST("/todos/:list_id/items", todoHandler.CreateItemHandler)
	r.DELETE("/todos/:list_id/items/:item_id", todoHandler.DeleteItemHandler)
	r.PUT("/todos/:list_id/items/:item_id", todoHandler.CheckItemHandler)
	if app.Metrics != nil {
		r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}
	r.NoRoute(NotFoundHandler)

	return stripTrailingSlash(r)
}

func corsConfig(c config.CORSConfig) cors.Config {
	cfg := cors.DefaultConfig()
	if len(c.AllowOrigins) == 0 || slices.Contains(c.AllowOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.AllowOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	cfg.ExposeHeaders = []string{RequestIDHeader}
	return cfg
}
