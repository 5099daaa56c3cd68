package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-storybook-kit/internal/config"
	applog "github.com/shouni/go-storybook-kit/internal/log"

	"github.com/spf13/cobra"
)

// opts は、コマンドラインフラグの値を受け取る共有の実行時オプションなのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "storybook",
	Short: "名前入りの挿絵つき絵本をPDFで生成するツールなのだ。",
	Long: `子どもの名前・年齢・テーマから、AIで台本と挿絵を生成して
1冊の印刷可能なPDF絵本に綴じるのだ。APIキーが1つも無くても
スタブとプレースホルダーで最後まで動くのだよ。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applog.Setup(os.Stderr, opts.Verbose)
	},
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 絵本の注文内容 ---
	rootCmd.PersistentFlags().StringVarP(&opts.SubjectName, "name", "n", "", "主人公となる子どもの名前なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Age, "age", "", "子どもの年齢なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Theme, "theme", "t", "", "物語のテーマ（jungle, ocean など）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Tone, "tone", "", "物語のトーン（playful, gentle など）なのだ。")
	rootCmd.PersistentFlags().IntVarP(&opts.PageCount, "pages", "p", 0, "生成するページ数なのだ（0ならデフォルト）。")

	// --- 出力と実行制御 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", "", "PDFの保存パスなのだ（空なら出力ディレクトリに自動命名）。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, serveCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("コマンドの実行に失敗したのだ", "error", err)
		os.Exit(1)
	}
}
