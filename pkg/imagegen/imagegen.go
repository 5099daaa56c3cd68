// Package imagegen は「プロンプトと整数シードから1枚のラスタ画像を得る」という
// 単一の能力の背後に、各画像生成プロバイダ固有のペイロード形状を隠すのだ。
// オーケストレーター側はプロバイダを一切区別しないのだよ。
package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ProviderKind は画像プロバイダの閉じた集合です。
// 新しいプロバイダの追加は、このバリアントと Generator 実装の追加であって、
// オーケストレーションロジックの変更ではありません。
type ProviderKind string

const (
	ProviderNone      ProviderKind = "none"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderStability ProviderKind = "stability"
	ProviderGemini    ProviderKind = "gemini"
)

// DefaultImageTimeout は画像生成のリモート呼び出し1回分のタイムアウトです。
const DefaultImageTimeout = 60 * time.Second

// Generator は画像生成の単一能力です。
//
// 戻り値の規約:
//   - (bytes, nil)  … 生成成功
//   - (nil, nil)    … 「画像なし」。認証情報が未設定のときの正規の縮退で、
//     エラーではありません。ジョブを中断させてはいけません。
//   - (nil, err)    … 回復可能な失敗。err は domain.GenerationError の
//     TransportFailure として分類され、呼び出し側がページ単位で吸収します。
type Generator interface {
	GenerateImage(ctx context.Context, prompt string, seed uint32) ([]byte, error)
}

// Config は Generator を組み立てるための明示的な設定です。
type Config struct {
	OpenAIAPIKey    string
	StabilityAPIKey string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIURL       string       // テスト用の差し替え口。空ならデフォルトURL
	StabilityURL    string       // 同上
	HTTPClient      *http.Client // nil なら Timeout 付きのクライアントを生成
	Timeout         time.Duration
}

// ForKind はバリアントに対応する Generator を返すのだ。
// 未知のバリアントだけがエラーになるのだ（設定ミスは早めに知らせたいのだよ）。
func ForKind(ctx context.Context, kind ProviderKind, cfg Config) (Generator, error) {
	switch kind {
	case ProviderNone, "":
		return NoneGenerator{}, nil
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg), nil
	case ProviderStability:
		return NewStabilityGenerator(cfg), nil
	case ProviderGemini:
		return NewGeminiGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("サポートされていない画像プロバイダ: '%s'", kind)
	}
}

// NoneGenerator は画像生成を行わないバリアントです。常に「画像なし」を返します。
type NoneGenerator struct{}

// GenerateImage は常に (nil, nil) を返します。
func (NoneGenerator) GenerateImage(_ context.Context, _ string, _ uint32) ([]byte, error) {
	return nil, nil
}

func httpClientFor(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultImageTimeout
	}
	return &http.Client{Timeout: timeout}
}
