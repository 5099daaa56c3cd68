// Package illustrate は台本の各ページに対して挿絵生成をファンアウトし、
// ページ単位で失敗を隔離するオーケストレーターなのだ。
package illustrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/imagegen"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// デフォルト値の定義なのだ
const (
	// DefaultStyleSuffix は全ページ共通で適用する画風（スタイル）の指示です。
	DefaultStyleSuffix = "Cartoon style, kid-friendly, bright colors, soft rounded shapes. " +
		"Full scene for a children's book. High detail for print, 300 DPI."
	DefaultWorkers      = 3
	DefaultRateInterval = 10 * time.Second
	DefaultPageTimeout  = 60 * time.Second
)

// Config はオーケストレーターの実行時パラメータです。ゼロ値はデフォルトに補正されます。
type Config struct {
	StyleSuffix  string        // 画像プロンプトの末尾に付ける共通の画風指示
	Workers      int           // 同時に実行する挿絵生成の上限
	RateInterval time.Duration // プロバイダのレート制限に合わせた発射間隔
	PageTimeout  time.Duration // 1ページ分の生成にかけてよい時間
}

// Illustrator は、キャラクターの一貫性を保ちながら並列で挿絵生成を行う実体。
// ジョブ間で共有される状態は持たず、ワーカープールとレートリミッターは
// Illustrate の呼び出し（=1ジョブ）ごとに作られます。
type Illustrator struct {
	gen imagegen.Generator
	cfg Config
}

// NewIllustrator は Illustrator の新しいインスタンスを生成して返す。
func NewIllustrator(gen imagegen.Generator, cfg Config) *Illustrator {
	if cfg.StyleSuffix == "" {
		cfg.StyleSuffix = DefaultStyleSuffix
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.RateInterval <= 0 {
		cfg.RateInterval = DefaultRateInterval
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	return &Illustrator{gen: gen, cfg: cfg}
}

// Illustrate は並列処理を用いて各ページの挿絵を生成するメインロジックなのだ。
// 結果は必ず入力ページと同じ順序・同じ件数で返るのだ。1ページの失敗は
// そのページの「挿絵なし」として記録するだけで、残りのページもジョブ全体も
// 絶対に中断しないのだ。これがこのコンポーネントの一番大事な性質なのだよ。
//
// ハードな失敗はページが1枚も無い台本を渡されたときだけです（契約違反）。
func (il *Illustrator) Illustrate(ctx context.Context, story domain.Story, identity domain.CharacterIdentity) ([]domain.IllustrationResult, error) {
	if len(story.Pages) == 0 {
		return nil, fmt.Errorf("ページが1枚も無い台本は挿絵を生成できません")
	}

	results := make([]domain.IllustrationResult, len(story.Pages))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(il.cfg.Workers)

	// Burst 2 により、開始直後に2枚までは同時にリクエストを開始できるのだ
	limiter := rate.NewLimiter(rate.Every(il.cfg.RateInterval), 2)
	slog.Info("並列挿絵生成を開始するのだ", "pages", len(story.Pages), "workers", il.cfg.Workers, "interval", il.cfg.RateInterval)

	for i, page := range story.Pages {
		i, page := i, page // ゴルーチンのクロージャ対策なのだ
		results[i] = domain.IllustrationResult{Page: page}

		eg.Go(func() error {
			// 1. レートリミットに従って、自分の番が来るまで待機するのだ
			if err := limiter.Wait(egCtx); err != nil {
				// ジョブのキャンセルも通常の失敗と区別せず「挿絵なし」で記録するのだ
				slog.Warn("挿絵生成が開始前に打ち切られました", "page", page.PageNumber, "error", err)
				return nil
			}

			// 2. キャラクターの同一性、シーンの指示、画風を組み合わせてプロンプトを作るのだ
			prompt := il.buildPrompt(identity, page)

			// 3. 同じ子が同じ見た目で描かれるよう、決定論的なシードで生成を誘導するのだ
			seed := domain.DeriveSeed(identity.Token, page.PageNumber)

			pageCtx, cancel := context.WithTimeout(egCtx, il.cfg.PageTimeout)
			defer cancel()

			data, err := il.gen.GenerateImage(pageCtx, prompt, seed)
			switch {
			case err != nil:
				// ページ境界で失敗を吸収する。エラーをゴルーチンから返すと
				// errgroup が兄弟ページまで巻き込んでしまうのでここで握るのだ。
				slog.Warn("挿絵生成に失敗したため、このページは挿絵なしで続行します",
					"page", page.PageNumber, "kind", domain.ErrorKindOf(err).String(), "error", err)
			case data == nil:
				slog.Debug("画像プロバイダが未設定のため挿絵なしで続行します", "page", page.PageNumber)
			default:
				results[i].ImageBytes = data
				slog.Info("挿絵生成に成功したのだ", "page", page.PageNumber, "bytes", len(data))
			}
			return nil
		})
	}

	// すべての並列処理が完了するのを待つのだ
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("挿絵生成が完了したのだ", "total", len(results), "missing", domain.MissingCount(results))
	return results, nil
}

// buildPrompt は、同一性トークン・外見描写・シーン描写・画風を結合するのだ。
func (il *Illustrator) buildPrompt(identity domain.CharacterIdentity, page domain.Page) string {
	return fmt.Sprintf("%s: %s. %s. %s",
		identity.Token,
		identity.Descriptor,
		page.ImageDescription,
		il.cfg.StyleSuffix,
	)
}
