package assemble

import (
	"context"
	"fmt"

	md2pdf "github.com/alnah/go-md2pdf"
)

// PDFRenderer は go-md2pdf（ヘッドレスブラウザによるHTML→PDF変換）を包む
// 既定の Renderer 実装です。変換エンジン自体はブラックボックスとして扱い、
// このパッケージはデータ契約（Markdown in / PDFバイト列 out）だけに依存します。
type PDFRenderer struct {
	conv *md2pdf.Converter
}

// NewPDFRenderer はコンバーターを初期化します。ブラウザインスタンスを抱えるため、
// ジョブごとではなくプロセスで1つを使い回してください。
func NewPDFRenderer() (*PDFRenderer, error) {
	conv, err := md2pdf.NewConverter()
	if err != nil {
		return nil, fmt.Errorf("PDFコンバーターの初期化に失敗しました: %w", err)
	}
	return &PDFRenderer{conv: conv}, nil
}

// Render は中間Markdownを1つのページ付きPDFに変換するのだ。
func (r *PDFRenderer) Render(ctx context.Context, title string, markdown string) ([]byte, error) {
	result, err := r.conv.Convert(ctx, md2pdf.Input{
		Markdown: markdown,
		Page:     &md2pdf.PageSettings{Size: "a4"},
		Footer:   &md2pdf.Footer{ShowPageNumber: true},
		Cover:    &md2pdf.Cover{Title: title},
	})
	if err != nil {
		return nil, fmt.Errorf("PDF変換に失敗しました: %w", err)
	}
	return result.PDF, nil
}

// Close はヘッドレスブラウザを解放します。
func (r *PDFRenderer) Close() error {
	return r.conv.Close()
}
