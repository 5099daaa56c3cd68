package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、1冊の絵本を生成してローカルに保存する単発実行なのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "AIに絵本の台本と挿絵を生成させてPDFに綴じますなのだ。",
	Long: `名前・年齢・テーマ・トーンから台本を生成し、ページごとの挿絵を
並列に作って1冊のPDFに組み上げるのだ。挿絵の失敗はそのページだけ
プレースホルダーになって、絵本自体は必ず完成するのだよ。`,
	RunE: generateCommand,
}

func init() {
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("絵本生成パイプラインを起動するのだ！",
		"name", opts.SubjectName,
		"theme", opts.Theme,
		"pages", opts.PageCount,
		"image_provider", cfg.ImageProvider)

	// 2. 更新した config を考慮しつつパイプラインを実行するのだ
	if err := pipeline.ExecuteGenerate(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
