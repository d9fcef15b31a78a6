// Package apperror はアプリケーション全体で使うエラー分類とHTTPレスポンスへの変換を提供します。
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はエラーの種類です。
type Kind int

const (
	// DbError はプール取得・ステートメント準備・実行の失敗、または期待した行が返らなかった場合です。
	DbError Kind = iota
	// NotFoundError は要求されたエンティティやルートが存在しない場合です。
	NotFoundError
	// BadRequestError はパスパラメータやリクエストボディを解釈できない場合です。
	BadRequestError
)

func (k Kind) String() string {
	switch k {
	case DbError:
		return "DbError"
	case NotFoundError:
		return "NotFoundError"
	case BadRequestError:
		return "BadRequestError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// AppError はハンドラーから境界まで伝搬するエラーです。
// Cause はログ専用で、クライアントには送信しません。
type AppError struct {
	Message string // 空の場合は種類ごとのデフォルトメッセージを使う
	Cause   string
	Kind    Kind
}

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// DB は下位のエラーから DbError を作成します。Message は設定しません。
func DB(cause error) *AppError {
	e := &AppError{Kind: DbError}
	if cause != nil {
		e.Cause = cause.Error()
	}
	return e
}

// New は指定した種類とメッセージで AppError を作成します。
func New(kind Kind, message string) *AppError {
	return &AppError{Message: message, Kind: kind}
}

// BadRequest は BadRequestError を作成します。cause は nil でも構いません。
func BadRequest(message string, cause error) *AppError {
	e := New(BadRequestError, message)
	if cause != nil {
		e.Cause = cause.Error()
	}
	return e
}

// As は err を AppError として取り出します。AppError でない場合は DbError として扱います。
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return DB(err)
}

// UserMessage はクライアントに返すメッセージです。
func (e *AppError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case DbError:
		return "Database error!"
	case NotFoundError:
		return "Not found"
	case BadRequestError:
		return "Bad request"
	default:
		return "Unexpected Error"
	}
}

// StatusCode はエラーの種類に対応するHTTPステータスコードです。
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case NotFoundError:
		return http.StatusNotFound
	case BadRequestError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Response はクライアントに返すボディを組み立てます。Cause は含めません。
func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{Error: e.UserMessage()}
}

func (e *AppError) Error() string {
	if e.Cause == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.UserMessage())
	}
	return fmt.Sprintf("%s: %s (cause: %s)", e.Kind, e.UserMessage(), e.Cause)
}
