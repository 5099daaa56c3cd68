package textgen

import (
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// systemInstruction は応答スキーマを固定するためのシステム指示です。
// ここを崩すと parseStory がすべて MalformedResponse になるので注意。
const systemInstruction = "You are a children's story writer. Output valid JSON with fields: title, synopsis, pages. " +
	"pages should be a list of objects with page (int), page_text (1-2 short sentences), image_description (short)."

// userInstruction は依頼内容（名前・年齢・テーマ・トーン・ページ数）を埋め込んだ
// ユーザー指示を構築します。
func userInstruction(req domain.StoryRequest) string {
	return fmt.Sprintf(
		"Write a children's story for a %s-year-old named %s. Theme: %s. Tone: %s. "+
			"Make %d pages. Return only JSON (no extra text).",
		req.Age, req.SubjectName, req.Theme, req.Tone, req.PageCount,
	)
}
