// Package logging は log/slog のロガーを構築し、リクエストスコープのロガーを context で受け渡します。
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelCritical はプールからコネクションを取得できないなど、サービス継続に関わる障害のレベルです。
const LevelCritical = slog.LevelError + 4

// Version はルートロガーに付与するバージョンです。ビルド時に -ldflags で上書きします。
var Version = "dev"

// New は format ("text" または "json") と level に従ってルートロガーを作成します。
func New(w io.Writer, format, level string) *slog.Logger {
	lvl := ParseLevel(level)

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       lvl,
			ReplaceAttr: replaceLevel,
		})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:       lvl,
			TimeFormat:  time.DateTime,
			ReplaceAttr: replaceLevel,
		})
	}
	return slog.New(h).With("v", Version)
}

// ParseLevel は "debug", "info", "warn", "error", "critical" を slog.Level に変換します。
// 不明な値は INFO として扱います。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical", "crit":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
			a.Value = slog.StringValue("CRITICAL")
		}
	}
	return a
}

// Critical は LevelCritical でログを出力します。
func Critical(ctx context.Context, log *slog.Logger, msg string, args ...any) {
	log.Log(ctx, LevelCritical, msg, args...)
}

type ctxKey struct{}

// WithContext はロガーを context に格納します。
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext は context に格納されたロガーを返します。無い場合は slog.Default() です。
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// Discard は何も出力しないロガーです (テスト用)。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
