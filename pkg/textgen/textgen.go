// Package textgen は、絵本の台本（タイトル・あらすじ・ページ構成）を
// テキスト生成プロバイダから取得するアダプター群なのだ。
package textgen

import (
	"context"
	"net/http"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// プロバイダ識別子の閉じた集合なのだ。新しいプロバイダは分岐の追加ではなく
// StoryGenerator 実装の追加で対応するのだよ。
const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

// DefaultStoryTimeout は台本生成のリモート呼び出し1回分のタイムアウトです。
const DefaultStoryTimeout = 30 * time.Second

// StoryGenerator は「リクエストから検証済みの台本を1つ生成する」能力です。
// 失敗は domain.GenerationError で分類されます。
type StoryGenerator interface {
	GenerateStory(ctx context.Context, req domain.StoryRequest) (domain.Story, error)
}

// Config は StoryGenerator を組み立てるための明示的な設定です。
// 認証情報の有無をコンストラクタ引数として渡すことで、関数本体の中で
// 環境変数を覗くようなグローバルな挙動を避けています。
type Config struct {
	Provider     string // openai | gemini | offline。空なら鍵の有無から自動選択
	OpenAIAPIKey string
	GeminiAPIKey string
	OpenAIModel  string
	GeminiModel  string
	OpenAIURL    string        // テスト用の差し替え口。空ならデフォルトURL
	HTTPClient   *http.Client  // nil なら Timeout 付きのクライアントを生成
	Timeout      time.Duration // 0 なら DefaultStoryTimeout
}

// New は設定に応じた StoryGenerator を返すのだ。
// 鍵が1つも無いときはオフラインのスタブに必ずフォールバックするのだ。
// これはデモ用ではなく、外部依存なしでパイプライン全体を動かすための
// 正式な縮退経路なのだよ。
func New(ctx context.Context, cfg Config) (StoryGenerator, error) {
	provider := cfg.Provider
	if provider == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			provider = ProviderOpenAI
		case cfg.GeminiAPIKey != "":
			provider = ProviderGemini
		default:
			provider = ProviderOffline
		}
	}

	switch provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return NewStubGenerator(), nil
		}
		return NewOpenAIGenerator(cfg), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return NewStubGenerator(), nil
		}
		return NewGeminiGenerator(ctx, cfg)
	default:
		return NewStubGenerator(), nil
	}
}
