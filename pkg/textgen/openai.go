package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const defaultOpenAIChatURL = "https://api.openai.com/v1/chat/completions"

// DefaultOpenAIModel は台本生成に使う既定のモデル名です。
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIGenerator は OpenAI Chat Completions API を使った StoryGenerator 実装です。
// 呼び出し間で状態は一切保持しません。
type OpenAIGenerator struct {
	client *http.Client
	apiKey string
	model  string
	url    string
}

// NewOpenAIGenerator は OpenAI 向けの台本ジェネレーターを生成します。
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultStoryTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = DefaultOpenAIModel
	}
	url := cfg.OpenAIURL
	if url == "" {
		url = defaultOpenAIChatURL
	}
	return &OpenAIGenerator{client: client, apiKey: cfg.OpenAIAPIKey, model: model, url: url}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateStory は台本の生成を1回のブロッキング呼び出しで行うのだ。
// リトライはしないのだ（リトライ方針を持つのは通信側の協調コンポーネントなのだよ）。
func (g *OpenAIGenerator) GenerateStory(ctx context.Context, req domain.StoryRequest) (domain.Story, error) {
	payload := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userInstruction(req)},
		},
		MaxTokens:   800,
		Temperature: 0.8,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Story{}, fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return domain.Story{}, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	slog.Debug("台本生成のリクエストを送信します", "provider", ProviderOpenAI, "model", g.model, "pages", req.PageCount)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.Story{}, domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Story{}, domain.NewTransportError(
			fmt.Errorf("text provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var parsed chatResponse
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Story{}, domain.NewTransportError(err)
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.Story{}, domain.NewMalformedError(string(raw), err)
	}
	if len(parsed.Choices) == 0 {
		return domain.Story{}, domain.NewMalformedError(string(raw), fmt.Errorf("応答に choices が含まれていません"))
	}

	return parseStory(parsed.Choices[0].Message.Content)
}
