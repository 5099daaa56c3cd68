package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-storybook-kit/pkg/illustrate"
	"github.com/shouni/go-storybook-kit/pkg/imagegen"
	"github.com/shouni/go-storybook-kit/pkg/textgen"
)

// デフォルト値の定義なのだ
const (
	DefaultOutputDir    = "output"
	DefaultListenAddr   = ":8080"
	DefaultStoryTimeout = 30 * time.Second
	DefaultImageTimeout = 60 * time.Second
	DefaultRateInterval = 10 * time.Second
	DefaultWorkers      = 3
	DefaultArtifactTTL  = 30 * time.Minute
)

// Config はアプリケーション全体の環境設定（APIキーや出力先）を保持する構造体なのだ。
// 認証情報が1つも無い状態も正式にサポートされる設定なのだ（縮退経路が動くのだよ）。
type Config struct {
	OpenAIAPIKey    string
	StabilityAPIKey string
	GeminiAPIKey    string

	TextProvider  string                // openai | gemini | offline。空なら自動選択
	ImageProvider imagegen.ProviderKind // none | openai | stability | gemini

	TextModel        string
	GeminiModel      string
	GeminiImageModel string

	ImagePromptSuffix string
	OutputDir         string

	StoryTimeout time.Duration
	ImageTimeout time.Duration
	RateInterval time.Duration
	Workers      int

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		OpenAIAPIKey:    envutil.GetEnv("OPENAI_API_KEY", ""),
		StabilityAPIKey: envutil.GetEnv("STABILITY_API_KEY", ""),
		GeminiAPIKey:    envutil.GetEnv("GEMINI_API_KEY", ""),

		TextProvider:  envutil.GetEnv("TEXT_PROVIDER", ""),
		ImageProvider: imagegen.ProviderKind(envutil.GetEnv("IMAGE_PROVIDER", string(imagegen.ProviderNone))),

		TextModel:        envutil.GetEnv("TEXT_MODEL", textgen.DefaultOpenAIModel),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", textgen.DefaultGeminiModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", imagegen.DefaultGeminiImageModel),

		ImagePromptSuffix: envutil.GetEnv("IMAGE_PROMPT_SUFFIX", illustrate.DefaultStyleSuffix),
		OutputDir:         envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),

		StoryTimeout: DefaultStoryTimeout,
		ImageTimeout: DefaultImageTimeout,
		RateInterval: DefaultRateInterval,
		Workers:      DefaultWorkers,
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 絵本の注文内容
	SubjectName string // --name
	Age         string // --age
	Theme       string // --theme
	Tone        string // --tone
	PageCount   int    // --pages

	// 出力と実行制御
	OutputFile string // --output-file
	ListenAddr string // --addr (serve)
	Verbose    bool   // --verbose
}
