// Package server は絵本生成パイプラインを包む薄いHTTPトランスポートなのだ。
// フォーム入力を注文内容へ写してジョブを実行し、成果物を一定時間だけ
// 再ダウンロード可能な形で保持するのだよ。
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shouni/go-storybook-kit/internal/config"
	applog "github.com/shouni/go-storybook-kit/internal/log"
	"github.com/shouni/go-storybook-kit/internal/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

//go:embed templates/form.html
var templateFS embed.FS

// shutdownGrace は SIGINT 後に進行中のリクエストへ与える猶予です。
const shutdownGrace = 10 * time.Second

// Server は注文フォームの表示・ジョブ実行・成果物配信を担います。
// 生成済みの成果物はジョブIDをキーに TTL 付きで保持され、期限が切れると
// 自動的に破棄されます（絵本は再生成できるので永続化はしません）。
type Server struct {
	runner    *pipeline.Runner
	artifacts *cache.Cache
	tmpl      *template.Template
}

// New は Server の新しいインスタンスを生成して返す。
func New(runner *pipeline.Runner) *Server {
	return &Server{
		runner:    runner,
		artifacts: cache.New(config.DefaultArtifactTTL, 2*config.DefaultArtifactTTL),
		tmpl:      template.Must(template.ParseFS(templateFS, "templates/form.html")),
	}
}

// Handler はルーティング済みの http.Handler を返すのだ。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /create", s.handleCreate)
	mux.HandleFunc("GET /download/{id}", s.handleDownload)
	return withRequestLog(mux)
}

// withRequestLog はリクエストIDつきのロガーをコンテキストに載せるミドルウェアなのだ。
// 各ハンドラーのログが同じリクエストに紐づくのだよ。
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default().With(
			"request_id", uuid.NewString()[:8],
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(applog.NewContext(r.Context(), logger)))
	})
}

// ListenAndServe はHTTPサーバーを起動し、ctx のキャンセルで丁寧に停止するのだ。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTPサーバーを起動するのだ", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		slog.Info("シャットダウン要求を受け取ったのだ。進行中のジョブを待つのだ...")
		return srv.Shutdown(shutdownCtx)
	}
}

// handleIndex は注文フォームを表示するのだ。
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.tmpl.Execute(w, map[string]any{
		"DefaultName":  domain.DefaultSubjectName,
		"DefaultAge":   domain.DefaultAge,
		"DefaultTheme": domain.DefaultTheme,
		"DefaultTone":  domain.DefaultTone,
		"DefaultPages": domain.DefaultPageCount,
	})
	if err != nil {
		slog.Error("フォームの描画に失敗しました", "error", err)
	}
}

// handleCreate はフォーム入力から1冊の絵本を生成し、成果物ページへ転送するのだ。
// 空欄や不正なページ数は拒否せずデフォルトへ丸めるのだ（子ども向けサービスで
// 入力エラー画面を見せたくないのだよ）。
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	// ページ数は数値に変換できなければ 0 のまま渡し、パイプライン側の補正に任せるのだ
	pageCount, _ := strconv.Atoi(r.PostFormValue("pages"))
	req := domain.StoryRequest{
		SubjectName: r.PostFormValue("name"),
		Age:         r.PostFormValue("age"),
		Theme:       r.PostFormValue("theme"),
		Tone:        r.PostFormValue("tone"),
		PageCount:   pageCount,
	}

	artifact, err := s.runner.Run(r.Context(), req)
	if err != nil {
		applog.FromContextOrDiscard(r.Context()).Error("絵本の生成に失敗しました",
			"error", err, "kind", domain.ErrorKindOf(err).String())
		http.Error(w, "絵本の生成に失敗しました。しばらくしてからもう一度お試しください。", http.StatusBadGateway)
		return
	}

	jobID := uuid.NewString()
	s.artifacts.SetDefault(jobID, artifact)

	http.Redirect(w, r, fmt.Sprintf("/download/%s", jobID), http.StatusSeeOther)
}

// handleDownload は保持中の成果物をPDFとして配信するのだ。TTL が切れていたら 404 なのだ。
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if _, err := uuid.Parse(jobID); err != nil {
		http.Error(w, "不正なジョブIDです", http.StatusBadRequest)
		return
	}

	v, found := s.artifacts.Get(jobID)
	if !found {
		http.Error(w, "成果物が見つかりません。期限切れの可能性があります。", http.StatusNotFound)
		return
	}
	artifact, ok := v.(*pipeline.Artifact)
	if !ok {
		http.Error(w, "内部エラー", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.PDF)))
	if _, err := w.Write(artifact.PDF); err != nil && !errors.Is(err, context.Canceled) {
		applog.FromContextOrDiscard(r.Context()).Warn("成果物の送信に失敗しました", "job_id", jobID, "error", err)
	}
}
