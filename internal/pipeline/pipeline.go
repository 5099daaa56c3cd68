package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/assemble"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// Artifact は1回の生成ジョブの最終成果物なのだ。
type Artifact struct {
	PDF      []byte       // 完成した絵本のバイト列（これが正）
	Filename string       // ダウンロード名。例: "Mina_storybook.pdf"
	Story    domain.Story // 生成された台本（ログやUI表示用）
	Missing  int          // 挿絵が欠けたまま綴じられたページ数
}

// Runner は台本生成・挿絵生成・組版の3フェーズを1本のジョブとして実行するのだ。
// 内部に可変状態を持たないので、同じ Runner を複数のジョブで使い回せるのだよ
// （HTTPサーバーはリクエストごとにこれを呼ぶのだ）。
type Runner struct {
	appCtx *builder.AppContext
}

// NewRunner は Runner の新しいインスタンスを生成して返す。
func NewRunner(appCtx *builder.AppContext) *Runner {
	return &Runner{appCtx: appCtx}
}

// Run は注文内容から1冊の絵本を生成するのだ。
// 挿絵の失敗はページ単位で吸収されるので、ここまでエラーとして届くのは
// 台本生成の失敗と組版の失敗だけなのだ。
func (r *Runner) Run(ctx context.Context, req domain.StoryRequest) (*Artifact, error) {
	req = req.Normalized()

	// --- Phase 1: Story Phase (台本生成) ---
	slog.Info("Phase 1: 台本生成を開始するのだ...", "name", req.SubjectName, "theme", req.Theme, "pages", req.PageCount)
	storyCtx, cancel := context.WithTimeout(ctx, r.appCtx.Config.StoryTimeout)
	story, err := r.appCtx.StoryGen.GenerateStory(storyCtx, req)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("台本生成に失敗したのだ: %w", err)
	}

	// --- Phase 2: Illustration Phase (挿絵生成) ---
	identity := domain.NewCharacterIdentity(req.SubjectName, req.Age)
	slog.Info("Phase 2: 挿絵生成を開始するのだ...", "pages", len(story.Pages), "character", identity.Token)
	illustrations, err := r.appCtx.Illustrator.Illustrate(ctx, story, identity)
	if err != nil {
		return nil, fmt.Errorf("挿絵生成に失敗したのだ: %w", err)
	}

	// --- Phase 3: Assembly Phase (組版) ---
	slog.Info("Phase 3: 組版を開始するのだ...")
	pdf, err := r.appCtx.Assembler.Assemble(ctx, story, illustrations)
	if err != nil {
		return nil, fmt.Errorf("PDFの組み立てに失敗したのだ: %w", err)
	}

	artifact := &Artifact{
		PDF:      pdf,
		Filename: req.Filename(),
		Story:    story,
		Missing:  domain.MissingCount(illustrations),
	}
	slog.Info("絵本が完成したのだ！", "title", story.Title, "bytes", len(pdf), "missing", artifact.Missing)
	return artifact, nil
}

// ExecuteGenerate は CLI からの1回きりの生成を実行し、成果物をローカルへ保存するのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.InitializeAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := appCtx.Close(); cerr != nil {
			slog.Warn("レンダラーの解放に失敗しました", "error", cerr)
		}
	}()

	req := requestFromOptions(cfg.Options)
	artifact, err := NewRunner(appCtx).Run(ctx, req)
	if err != nil {
		return err
	}

	outputPath := cfg.Options.OutputFile
	if outputPath == "" {
		outputPath = filepath.Join(cfg.OutputDir, artifact.Filename)
	}
	if err := (assemble.LocalWriter{}).Write(ctx, outputPath, artifact.PDF); err != nil {
		return fmt.Errorf("絵本の保存に失敗したのだ: %w", err)
	}

	slog.Info("物語の集大成が完成したのだ！", "path", outputPath)
	return nil
}

// requestFromOptions は CLI フラグを注文内容へ写すのだ。欠損は Run 側で補正されるのだ。
func requestFromOptions(opts config.GenerateOptions) domain.StoryRequest {
	return domain.StoryRequest{
		SubjectName: opts.SubjectName,
		Age:         opts.Age,
		Theme:       opts.Theme,
		Tone:        opts.Tone,
		PageCount:   opts.PageCount,
	}
}
