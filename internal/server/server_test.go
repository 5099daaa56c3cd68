package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/assemble"
	"github.com/shouni/go-storybook-kit/pkg/illustrate"
	"github.com/shouni/go-storybook-kit/pkg/imagegen"
	"github.com/shouni/go-storybook-kit/pkg/textgen"

	"github.com/google/uuid"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, _ string, _ string) ([]byte, error) {
	return []byte("%PDF-test"), nil
}

func newTestServer() *Server {
	cfg := &config.Config{StoryTimeout: 5 * time.Second}
	illustrator := illustrate.NewIllustrator(imagegen.NoneGenerator{}, illustrate.Config{
		Workers:      4,
		RateInterval: time.Millisecond,
		PageTimeout:  time.Second,
	})
	assembler := assemble.NewAssembler(fakeRenderer{}, nil, "")
	appCtx := builder.NewAppContext(cfg, textgen.NewStubGenerator(), illustrator, assembler, nil)
	return New(pipeline.NewRunner(&appCtx))
}

func TestServer(t *testing.T) {
	handler := newTestServer().Handler()

	t.Run("トップページで注文フォームが表示されること", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("期待ステータス 200, 実際 %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `action="/create"`) {
			t.Error("フォームの送信先が含まれていません")
		}
	})

	t.Run("注文から成果物のダウンロードまで一気通貫で動くこと", func(t *testing.T) {
		form := url.Values{
			"name":  {"Mina"},
			"age":   {"5"},
			"theme": {"ocean"},
			"tone":  {"playful"},
			"pages": {"4"},
		}
		req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("期待ステータス 303, 実際 %d: %s", rec.Code, rec.Body.String())
		}
		location := rec.Header().Get("Location")
		if !strings.HasPrefix(location, "/download/") {
			t.Fatalf("転送先が成果物ページではありません: %s", location)
		}

		// 転送先から成果物を取得するのだ
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, location, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("成果物の取得に失敗しました: %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type が不正です: %s", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Mina_storybook.pdf") {
			t.Errorf("ダウンロード名が不正です: %s", cd)
		}
		if rec.Body.String() != "%PDF-test" {
			t.Error("PDFバイト列が成果物と一致しません")
		}
	})

	t.Run("ページ数が数値でなくても注文が拒否されないこと", func(t *testing.T) {
		form := url.Values{"name": {"Mina"}, "pages": {"six"}}
		req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("不正なページ数で注文が失敗しました: %d", rec.Code)
		}
	})

	t.Run("存在しないジョブIDは404になること", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/"+uuid.NewString(), nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("期待ステータス 404, 実際 %d", rec.Code)
		}
	})

	t.Run("不正な形式のジョブIDは400になること", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/not-a-uuid", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("期待ステータス 400, 実際 %d", rec.Code)
		}
	})
}
