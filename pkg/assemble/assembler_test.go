package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// fakeRenderer はレンダリングエンジンの代役なのだ。受け取ったMarkdownを記録して、
// 固定のバイト列を返すのだ。
type fakeRenderer struct {
	title    string
	markdown string
	fail     bool
}

func (f *fakeRenderer) Render(_ context.Context, title string, markdown string) ([]byte, error) {
	f.title = title
	f.markdown = markdown
	if f.fail {
		return nil, errors.New("renderer exploded")
	}
	return []byte("%PDF-fake"), nil
}

// failWriter は常に保存に失敗する ArtifactWriter なのだ。
type failWriter struct{ calls int }

func (w *failWriter) Write(_ context.Context, _ string, _ []byte) error {
	w.calls++
	return errors.New("disk full")
}

func storyWithIllustrations(pages int, withImages bool) (domain.Story, []domain.IllustrationResult) {
	story := domain.Story{Title: "Mina and the Ocean Adventure", Synopsis: "A short playful tale about Mina."}
	var illus []domain.IllustrationResult
	for i := 1; i <= pages; i++ {
		page := domain.Page{PageNumber: i, Text: fmt.Sprintf("text of page %d", i), ImageDescription: "scene"}
		story.Pages = append(story.Pages, page)
		r := domain.IllustrationResult{Page: page}
		if withImages {
			r.ImageBytes = []byte{0x89, byte(i)}
		}
		illus = append(illus, r)
	}
	return story, illus
}

func TestAssembler_Assemble(t *testing.T) {
	t.Run("ページ数と順序が入力通りに保たれること", func(t *testing.T) {
		renderer := &fakeRenderer{}
		asm := NewAssembler(renderer, nil, "")

		story, illus := storyWithIllustrations(4, true)
		pdf, err := asm.Assemble(context.Background(), story, illus)
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		if !bytes.Equal(pdf, []byte("%PDF-fake")) {
			t.Error("レンダラーの出力がそのまま返っていません")
		}

		if got := strings.Count(renderer.markdown, "## Page "); got != 4 {
			t.Errorf("期待セクション数 4, 実際 %d", got)
		}
		// 本文の出現順が story.Pages の順序と一致すること
		lastIdx := -1
		for i := 1; i <= 4; i++ {
			idx := strings.Index(renderer.markdown, fmt.Sprintf("text of page %d", i))
			if idx < 0 {
				t.Fatalf("ページ %d の本文がドキュメントに含まれていません", i)
			}
			if idx < lastIdx {
				t.Errorf("ページ %d の本文の順序が崩れています", i)
			}
			lastIdx = idx
		}
	})

	t.Run("挿絵が無いページにはプレースホルダーが埋まること", func(t *testing.T) {
		renderer := &fakeRenderer{}
		asm := NewAssembler(renderer, nil, "")

		story, illus := storyWithIllustrations(3, false)
		if _, err := asm.Assemble(context.Background(), story, illus); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(renderer.markdown, "data:image/png") {
			t.Error("挿絵なしのドキュメントにPNGデータURIが含まれています")
		}
		if got := strings.Count(renderer.markdown, "data:image/svg+xml"); got != 3 {
			t.Errorf("プレースホルダーの数が不正です: %d", got)
		}
	})

	t.Run("タイトルとあらすじがドキュメント先頭に含まれること", func(t *testing.T) {
		renderer := &fakeRenderer{}
		asm := NewAssembler(renderer, nil, "")

		story, illus := storyWithIllustrations(1, true)
		if _, err := asm.Assemble(context.Background(), story, illus); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(renderer.markdown, "# Mina and the Ocean Adventure\n") {
			t.Error("タイトル見出しがドキュメント先頭にありません")
		}
		if renderer.title != story.Title {
			t.Errorf("レンダラーへ渡るタイトルが不正です: %s", renderer.title)
		}
	})

	t.Run("控え保存が失敗しても戻り値のバイト列は正であること", func(t *testing.T) {
		renderer := &fakeRenderer{}
		writer := &failWriter{}
		asm := NewAssembler(renderer, writer, "output")

		story, illus := storyWithIllustrations(2, true)
		pdf, err := asm.Assemble(context.Background(), story, illus)
		if err != nil {
			t.Fatalf("保存失敗がジョブを失敗させました: %v", err)
		}
		if len(pdf) == 0 {
			t.Error("PDFバイト列が返っていません")
		}
		if writer.calls == 0 {
			t.Error("控え保存が一度も試みられていません")
		}
	})

	t.Run("レンダラーの失敗はそのまま呼び出し元へ返ること", func(t *testing.T) {
		asm := NewAssembler(&fakeRenderer{fail: true}, nil, "")
		story, illus := storyWithIllustrations(1, true)
		if _, err := asm.Assemble(context.Background(), story, illus); err == nil {
			t.Error("レンダラー失敗でエラーが返りませんでした")
		}
	})
}
