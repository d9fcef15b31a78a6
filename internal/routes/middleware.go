package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-todo-lists/internal/apperror"
	"go-todo-lists/internal/logging"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダーです。
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen を超えるリクエストIDは採用せず、新しく払い出します。
const maxRequestIDLen = 128

// RequestLogger はリクエストIDを払い出し、リクエストスコープのロガーを context に設定するミドルウェアです。
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLog := log.With("request_id", requestID)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLog))

		start := time.Now()
		c.Next()

		reqLog.Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// ErrorHandler はハンドラーが c.Error で登録したエラーをHTTPレスポンスに変換します。
// クライアントには AppError のメッセージだけを返し、原因 (Cause) は返しません。
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := apperror.As(c.Errors.Last().Err)
		c.JSON(appErr.StatusCode(), appErr.Response())
	}
}

// NotFoundHandler は未定義のルートを NotFoundError として扱います。
func NotFoundHandler(c *gin.Context) {
	_ = c.Error(apperror.New(apperror.NotFoundError, ""))
}

// stripTrailingSlash は末尾のスラッシュを1つだけ取り除いてからルーティングします。
// "/todos/" と "/todos" を同じルートとして扱い、リダイレクトは返しません。"/todos//" は一致しません。
func stripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimSuffix(p, "/")
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}
