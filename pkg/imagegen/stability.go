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

const defaultStabilityURL = "https://api.stability.ai/v1/generation/stable-diffusion-v1-5/text-to-image"

// StabilityGenerator は Stability AI の text-to-image API を使う Generator 実装です。
// 応答は artifacts 配列の base64 フィールドに画像を持ちます。
type StabilityGenerator struct {
	client *http.Client
	apiKey string
	url    string
	width  int
	height int
}

// NewStabilityGenerator は Stability 向けの画像ジェネレーターを生成します。
func NewStabilityGenerator(cfg Config) *StabilityGenerator {
	url := cfg.StabilityURL
	if url == "" {
		url = defaultStabilityURL
	}
	return &StabilityGenerator{
		client: httpClientFor(cfg),
		apiKey: cfg.StabilityAPIKey,
		url:    url,
		width:  1024,
		height: 1024,
	}
}

type stabilityTextPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Samples     int                   `json:"samples"`
	Seed        uint32                `json:"seed,omitempty"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// GenerateImage は1枚の画像を生成して生バイト列を返すのだ。
func (g *StabilityGenerator) GenerateImage(ctx context.Context, prompt string, seed uint32) ([]byte, error) {
	if g.apiKey == "" {
		return nil, nil
	}

	payload := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: prompt}},
		Width:       g.width,
		Height:      g.height,
		Samples:     1,
		Seed:        seed,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", g.apiKey)

	slog.Debug("画像生成のリクエストを送信します", "provider", ProviderStability, "seed", seed)

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

	var parsed stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("応答のデコードに失敗しました: %w", err))
	}
	if len(parsed.Artifacts) == 0 {
		return nil, domain.NewTransportError(fmt.Errorf("応答に artifacts が含まれていません"))
	}

	img, err := base64.StdEncoding.DecodeString(parsed.Artifacts[0].Base64)
	if err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("画像ペイロードのデコードに失敗しました: %w", err))
	}
	return img, nil
}
