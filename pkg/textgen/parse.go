package textgen

import (
	"encoding/json"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// parseStory は、AIが返したテキストからMarkdownのコードブロック等を除去して
// 台本スキーマとしてパースするのだ。スキーマに合わない応答は、診断用に
// 生テキストを抱えた MalformedResponse として返すのだ。
func parseStory(raw string) (domain.Story, error) {
	// 余計な空白や、AIが付けがちなMarkdownタグ (```json ... ```) を取り除く処理なのだ
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	var story domain.Story
	if err := json.Unmarshal([]byte(rawJSON), &story); err != nil {
		return domain.Story{}, domain.NewMalformedError(raw, err)
	}
	return story, nil
}
