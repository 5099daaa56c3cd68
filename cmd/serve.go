package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/pipeline"
	"github.com/shouni/go-storybook-kit/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd は、注文フォーム付きのHTTPサーバーとして常駐するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "絵本の注文フォームを提供するHTTPサーバーを起動しますなのだ。",
	Long: `ブラウザから名前やテーマを入力して絵本を注文できるサーバーなのだ。
生成されたPDFは一定時間だけ再ダウンロードできるのだよ。`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&opts.ListenAddr, "addr", config.DefaultListenAddr, "待ち受けアドレスなのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts

	// 2. 依存関係を一度だけ組み立てて、全リクエストで使い回すのだ
	appCtx, err := builder.InitializeAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}
	defer func() {
		if cerr := appCtx.Close(); cerr != nil {
			slog.Warn("レンダラーの解放に失敗しました", "error", cerr)
		}
	}()

	slog.Info("絵本サーバーを起動するのだ！",
		"addr", opts.ListenAddr,
		"image_provider", cfg.ImageProvider,
		"output_dir", cfg.OutputDir)

	srv := server.New(pipeline.NewRunner(appCtx))
	return srv.ListenAndServe(ctx, opts.ListenAddr)
}
