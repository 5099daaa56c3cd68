package textgen

import (
	"context"
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StubGenerator は認証情報なしでも動く決定論的なオフライン台本生成器なのだ。
// 同じリクエストからは必ず同じ台本が生成されるのだ。ページ数はリクエスト通り
// ぴったり揃えるのだよ。
type StubGenerator struct {
	titleCaser cases.Caser
}

// NewStubGenerator はオフライン用のスタブを生成します。
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{titleCaser: cases.Title(language.English)}
}

// GenerateStory は外部呼び出しなしで汎用的な台本を合成するのだ。
func (g *StubGenerator) GenerateStory(_ context.Context, req domain.StoryRequest) (domain.Story, error) {
	story := domain.Story{
		Title:    fmt.Sprintf("%s and the %s Adventure", req.SubjectName, g.titleCaser.String(req.Theme)),
		Synopsis: fmt.Sprintf("A short %s tale about %s.", req.Tone, req.SubjectName),
		Pages:    make([]domain.Page, 0, req.PageCount),
	}

	for i := 1; i <= req.PageCount; i++ {
		story.Pages = append(story.Pages, domain.Page{
			PageNumber:       i,
			Text:             fmt.Sprintf("Page %d: %s does something fun in the %s.", i, req.SubjectName, req.Theme),
			ImageDescription: fmt.Sprintf("%s (age %s) in a %s scene, playful composition.", req.SubjectName, req.Age, req.Theme),
		})
	}

	return story, nil
}
