package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-storybook-kit/internal/config"

	"github.com/shouni/go-storybook-kit/pkg/assemble"
	"github.com/shouni/go-storybook-kit/pkg/illustrate"
	"github.com/shouni/go-storybook-kit/pkg/imagegen"
	"github.com/shouni/go-storybook-kit/pkg/textgen"
)

// InitializeAppContext は設定からすべての依存関係を組み立てて AppContext を返すのだ。
// 認証情報が1つも無くても失敗しないのだ（台本はスタブ、挿絵はプレースホルダーに
// 縮退して、パイプライン全体は最後まで動くのだよ）。
func InitializeAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	storyGen, err := BuildStoryGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("StoryGeneratorの構築に失敗したのだ: %w", err)
	}

	illustrator, err := BuildIllustrator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("Illustratorの構築に失敗したのだ: %w", err)
	}

	assembler, renderer, err := BuildAssembler(cfg)
	if err != nil {
		return nil, fmt.Errorf("Assemblerの構築に失敗したのだ: %w", err)
	}

	appCtx := NewAppContext(cfg, storyGen, illustrator, assembler, renderer)
	return &appCtx, nil
}

// BuildStoryGenerator は台本生成を担当するプロバイダを構築します。
func BuildStoryGenerator(ctx context.Context, cfg *config.Config) (textgen.StoryGenerator, error) {
	return textgen.New(ctx, textgen.Config{
		Provider:     cfg.TextProvider,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIModel:  cfg.TextModel,
		GeminiModel:  cfg.GeminiModel,
		Timeout:      cfg.StoryTimeout,
	})
}

// BuildIllustrator は画像プロバイダを解決し、並列挿絵生成のオーケストレーターを構築します。
func BuildIllustrator(ctx context.Context, cfg *config.Config) (*illustrate.Illustrator, error) {
	imgGen, err := imagegen.ForKind(ctx, cfg.ImageProvider, imagegen.Config{
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		StabilityAPIKey: cfg.StabilityAPIKey,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiImageModel,
		Timeout:         cfg.ImageTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("画像プロバイダの解決に失敗したのだ: %w", err)
	}

	return illustrate.NewIllustrator(imgGen, illustrate.Config{
		StyleSuffix:  cfg.ImagePromptSuffix,
		Workers:      cfg.Workers,
		RateInterval: cfg.RateInterval,
		PageTimeout:  cfg.ImageTimeout,
	}), nil
}

// BuildAssembler は組版コンポーネントとPDFレンダラーを構築します。
// レンダラーはブラウザインスタンスを抱えるため、呼び出し側が Close の責任を持ちます。
func BuildAssembler(cfg *config.Config) (*assemble.Assembler, *assemble.PDFRenderer, error) {
	renderer, err := assemble.NewPDFRenderer()
	if err != nil {
		return nil, nil, fmt.Errorf("PDFレンダラーの初期化に失敗しました: %w", err)
	}

	assembler := assemble.NewAssembler(renderer, assemble.LocalWriter{}, cfg.OutputDir)
	return assembler, renderer, nil
}
