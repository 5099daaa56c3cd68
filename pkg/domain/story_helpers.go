package domain

import (
	"fmt"
	"strings"
)

// フォーム入力が欠けていたときに採用するデフォルト値なのだ。
const (
	DefaultSubjectName = "Child"
	DefaultAge         = "5"
	DefaultTheme       = "jungle"
	DefaultTone        = "playful"
	DefaultPageCount   = 6
)

// Normalized は欠損フィールドをデフォルトで補い、ページ数を正の整数に矯正した
// コピーを返します。レシーバーは変更しません。
func (r StoryRequest) Normalized() StoryRequest {
	out := r
	if strings.TrimSpace(out.SubjectName) == "" {
		out.SubjectName = DefaultSubjectName
	}
	if strings.TrimSpace(out.Age) == "" {
		out.Age = DefaultAge
	}
	if strings.TrimSpace(out.Theme) == "" {
		out.Theme = DefaultTheme
	}
	if strings.TrimSpace(out.Tone) == "" {
		out.Tone = DefaultTone
	}
	if out.PageCount < 1 {
		out.PageCount = DefaultPageCount
	}
	return out
}

// Filename は成果物のダウンロード名を返します。例: "Mina_storybook.pdf"
func (r StoryRequest) Filename() string {
	name := strings.TrimSpace(r.SubjectName)
	if name == "" {
		name = DefaultSubjectName
	}
	return fmt.Sprintf("%s_storybook.pdf", strings.ReplaceAll(name, " ", "_"))
}

// MissingCount は挿絵が欠けているページ数を数えるのだ。
func MissingCount(results []IllustrationResult) int {
	missing := 0
	for _, r := range results {
		if !r.HasImage() {
			missing++
		}
	}
	return missing
}
