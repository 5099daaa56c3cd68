package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-ai-client/v2/pkg/ai/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"
)

// DefaultGeminiImageModel は Gemini での画像生成に使う既定のモデル名です。
const DefaultGeminiImageModel = "gemini-3-pro-image-preview"

const (
	defaultGeminiTemperature = float32(0.2)
	geminiCacheExpiration    = 30 * time.Minute
	geminiCacheCleanup       = 1 * time.Hour
	geminiCacheTTL           = 1 * time.Hour
)

// GeminiGenerator は gemini-image-kit を介した Generator 実装なのだ。
// 鍵が未設定のときは内部ジェネレーターを持たず、常に「画像なし」で縮退するのだ。
type GeminiGenerator struct {
	imgGen imagekit.ImageGenerator
}

// NewGeminiGenerator は画像処理コアと gemini クライアントを初期化します。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return &GeminiGenerator{}, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultImageTimeout
	}
	httpClient := httpkit.New(timeout)

	// 参照画像のダウンロード結果を保持するキャッシュ
	imgCache := cache.New(geminiCacheExpiration, geminiCacheCleanup)

	core, err := imagekit.NewGeminiImageCore(httpClient, imgCache, geminiCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCoreの初期化に失敗したのだ: %w", err)
	}

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
		model = DefaultGeminiImageModel
	}

	imgGen, err := imagekit.NewGeminiGenerator(core, aiClient, model)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	return &GeminiGenerator{imgGen: imgGen}, nil
}

// GenerateImage は1枚の画像を生成して生バイト列を返すのだ。
func (g *GeminiGenerator) GenerateImage(ctx context.Context, prompt string, seed uint32) ([]byte, error) {
	if g.imgGen == nil {
		return nil, nil
	}

	// Geminiのシード値は正の数が望ましいため、最上位ビットを落とすのが安全なのだ
	seed64 := int64(seed & 0x7FFFFFFF)

	slog.Debug("画像生成のリクエストを送信します", "provider", ProviderGemini, "seed", seed64)

	resp, err := g.imgGen.GenerateMangaPanel(ctx, imagedom.ImageGenerationRequest{
		Prompt:      prompt,
		Seed:        &seed64,
		AspectRatio: "1:1",
	})
	if err != nil {
		return nil, domain.NewTransportError(err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, domain.NewTransportError(fmt.Errorf("応答に画像データが含まれていません"))
	}
	return resp.Data, nil
}
