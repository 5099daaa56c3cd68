// Package log はアプリケーション共通の slog ロガーを組み立てるのだ。
package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/samber/lo"
)

type contextKey struct{}

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// New は JSON ハンドラー付きのロガーを生成します。verbose で Debug まで出します。
func New(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lo.Ternary[slog.Level](verbose, slog.LevelDebug, slog.LevelInfo),
	}))
}

// Setup はプロセス全体のデフォルトロガーを差し替えます。
func Setup(w io.Writer, verbose bool) *slog.Logger {
	logger := New(w, verbose)
	slog.SetDefault(logger)
	return logger
}

// NewContext はリクエストスコープのロガーをコンテキストに載せるのだ。
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContextOrDiscard はコンテキストからロガーを取り出すのだ。
// 載っていなければ何も出力しないロガーを返すのだ。
func FromContextOrDiscard(ctx context.Context) *slog.Logger {
	if v, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return v
	}
	return discardLogger
}
