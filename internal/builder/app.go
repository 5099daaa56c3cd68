package builder

import (
	"github.com/shouni/go-storybook-kit/internal/config"

	"github.com/shouni/go-storybook-kit/pkg/assemble"
	"github.com/shouni/go-storybook-kit/pkg/illustrate"
	"github.com/shouni/go-storybook-kit/pkg/textgen"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各実行経路（CLI / HTTPサーバー）に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config      *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、出力先など）。
	Options     config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（名前、テーマ、ページ数など）。
	StoryGen    textgen.StoryGenerator  // StoryGenは、絵本の台本を生成するテキストプロバイダです。
	Illustrator *illustrate.Illustrator // Illustratorは、キャラクターの一貫性を保つ並列挿絵生成オーケストレーターです。
	Assembler   *assemble.Assembler     // Assemblerは、台本と挿絵を1冊のPDFに綴じる組版コンポーネントです。

	renderer *assemble.PDFRenderer // renderer はヘッドレスブラウザを抱えるので Close 用に保持する
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	storyGen textgen.StoryGenerator,
	illustrator *illustrate.Illustrator,
	assembler *assemble.Assembler,
	renderer *assemble.PDFRenderer,
) AppContext {
	return AppContext{
		Config:      cfg,
		Options:     cfg.Options,
		StoryGen:    storyGen,
		Illustrator: illustrator,
		Assembler:   assembler,
		renderer:    renderer,
	}
}

// Close は保持しているレンダリングエンジンを解放するのだ。
// プロセス終了前に必ず呼ぶのだよ（ブラウザが残ってしまうのだ）。
func (a *AppContext) Close() error {
	if a.renderer == nil {
		return nil
	}
	return a.renderer.Close()
}
