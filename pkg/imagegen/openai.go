package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const defaultOpenAIImageURL = "https://api.openai.com/v1/images/generations"

// OpenAIGenerator は OpenAI Images API を使う Generator 実装です。
// 応答は base64 エンコードされた画像フィールド (b64_json) を持ちます。
type OpenAIGenerator struct {
	client *http.Client
	apiKey string
	url    string
	size   string
}

// NewOpenAIGenerator は OpenAI 向けの画像ジェネレーターを生成します。
func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	url := cfg.OpenAIURL
	if url == "" {
		url = defaultOpenAIImageURL
	}
	return &OpenAIGenerator{
		client: httpClientFor(cfg),
		apiKey: cfg.OpenAIAPIKey,
		url:    url,
		size:   "1024x1024",
	}
}

type openAIImageRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
	Seed   uint32 `json:"seed,omitempty"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage は1枚の画像を生成して生バイト列を返すのだ。
// 鍵が未設定のときは (nil, nil) で縮退するのだ。挿絵が無くても絵本は作れるのだよ。
func (g *OpenAIGenerator) GenerateImage(ctx context.Context, prompt string, seed uint32) ([]byte, error) {
	if g.apiKey == "" {
		return nil, nil
	}

	body, err := json.Marshal(openAIImageRequest{Prompt: prompt, N: 1, Size: g.size, Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	slog.Debug("画像生成のリクエストを送信します", "provider", ProviderOpenAI, "seed", seed)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, domain.NewTransportError(
			fmt.Errorf("image provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var parsed openAIImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("応答のデコードに失敗しました: %w", err))
	}
	if len(parsed.Data) == 0 {
		return nil, domain.NewTransportError(fmt.Errorf("応答に画像データが含まれていません"))
	}

	// エンコード済みペイロードの破損も通信レイヤーの失敗と同じ分類で扱います。
	img, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("画像ペイロードのデコードに失敗しました: %w", err))
	}
	return img, nil
}
