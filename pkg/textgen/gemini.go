package textgen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// DefaultGeminiModel は Gemini での台本生成に使う既定のモデル名です。
const DefaultGeminiModel = "gemini-3-flash-preview"

// 子ども向けの文章なので、少し遊びのある温度にしています。
const defaultGeminiTemperature = float32(0.8)

// GeminiGenerator は Gemini API を使った StoryGenerator 実装なのだ。
// OpenAI 実装と同じプロンプト・同じパース経路を通るので、台本スキーマの
// 取り扱いはプロバイダに依存しないのだ。
type GeminiGenerator struct {
	aiClient gemini.GenerativeModel
	model    string
}

// NewGeminiGenerator は gemini クライアントを初期化してジェネレーターを返します。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	clientConfig := gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{aiClient: aiClient, model: model}, nil
}

// GenerateStory は Gemini に台本（JSON形式を期待）を生成させるのだ。
func (g *GeminiGenerator) GenerateStory(ctx context.Context, req domain.StoryRequest) (domain.Story, error) {
	prompt := systemInstruction + "\n\n" + userInstruction(req)

	slog.Debug("台本生成のリクエストを送信します", "provider", ProviderGemini, "model", g.model, "pages", req.PageCount)

	resp, err := g.aiClient.GenerateContent(ctx, prompt, g.model)
	if err != nil {
		return domain.Story{}, domain.NewTransportError(fmt.Errorf("台本の生成に失敗したのだ: %w", err))
	}

	return parseStory(resp.Text)
}
