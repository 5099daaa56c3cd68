// Package assemble は台本とページごとの挿絵結果を1冊のドキュメントに綴じ、
// 外部のレンダリングエンジンを通して最終的なバイト列（PDF）を得るのだ。
package assemble

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/google/uuid"
)

// placeholderSVG は挿絵が欠けたページに埋めるプレースホルダー画像です。
// 生成失敗のページがあってもレイアウトが崩れないよう、必ず何かを描画します。
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="1024">` +
	`<rect width="100%" height="100%" fill="#f2efe9"/>` +
	`<text x="50%" y="50%" font-size="48" fill="#b8b2a7" text-anchor="middle">illustration coming soon</text>` +
	`</svg>`

// Renderer は中間ドキュメントから最終バイト列を得る外部コラボレーターなのだ。
// 中身（ヘッドレスブラウザ等）はブラックボックスとして扱うのだよ。
type Renderer interface {
	Render(ctx context.Context, title string, markdown string) ([]byte, error)
}

// ArtifactWriter は成果物を永続ストレージへ保存するためのインターフェースです。
type ArtifactWriter interface {
	Write(ctx context.Context, path string, data []byte) error
}

// Assembler は成果物の組み立てと、監査用の控え保存を担います。
type Assembler struct {
	renderer  Renderer
	writer    ArtifactWriter // nil なら控え保存を行わない
	outputDir string
}

// NewAssembler は Assembler の新しいインスタンスを生成して返す。
func NewAssembler(renderer Renderer, writer ArtifactWriter, outputDir string) *Assembler {
	return &Assembler{renderer: renderer, writer: writer, outputDir: outputDir}
}

// Assemble は台本と挿絵結果を中間Markdownに綴じ、レンダラーでPDF化するのだ。
// ページ順は受け取った順序を厳密に保つのだ。控え保存の失敗はログに残すだけで、
// 戻り値のバイト列こそが正であり、保存の成否に影響されないのだ。
func (a *Assembler) Assemble(ctx context.Context, story domain.Story, illustrations []domain.IllustrationResult) ([]byte, error) {
	content := a.buildMarkdown(story, illustrations)

	jobID := uuid.NewString()[:8]
	a.persist(ctx, fmt.Sprintf("story_%s.md", jobID), []byte(content))

	pdf, err := a.renderer.Render(ctx, story.Title, content)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントのレンダリングに失敗しました: %w", err)
	}

	a.persist(ctx, fmt.Sprintf("storybook_%s.pdf", jobID), pdf)
	return pdf, nil
}

// buildMarkdown returns the intermediate Markdown document for the storybook.
func (a *Assembler) buildMarkdown(story domain.Story, illustrations []domain.IllustrationResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", story.Title))

	if story.Synopsis != "" {
		sb.WriteString(fmt.Sprintf("*%s*\n\n", story.Synopsis))
	}

	for _, ill := range illustrations {
		sb.WriteString(fmt.Sprintf("## Page %d\n\n", ill.Page.PageNumber))

		// 挿絵はファイル参照ではなくデータURIとして埋め込みます。
		// レンダラーが中間表現だけで完結し、ディスク上の控えに依存しないためです。
		if ill.HasImage() {
			sb.WriteString(fmt.Sprintf("![Page %d](data:image/png;base64,%s)\n\n",
				ill.Page.PageNumber, base64.StdEncoding.EncodeToString(ill.ImageBytes)))
		} else {
			sb.WriteString(fmt.Sprintf("![Page %d](data:image/svg+xml;base64,%s)\n\n",
				ill.Page.PageNumber, base64.StdEncoding.EncodeToString([]byte(placeholderSVG))))
		}

		sb.WriteString(ill.Page.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// persist は控え保存を行うのだ。失敗してもジョブは止めないのだよ。
func (a *Assembler) persist(ctx context.Context, name string, data []byte) {
	if a.writer == nil {
		return
	}
	fullPath := path.Join(a.outputDir, name)
	if err := a.writer.Write(ctx, fullPath, data); err != nil {
		slog.Warn("成果物の控え保存に失敗しました。処理は続行します", "path", fullPath, "error", err)
	}
}
