package assemble

import (
	"context"
	"os"
	"path/filepath"
)

// LocalWriter はローカルディスクへ成果物を保存する ArtifactWriter 実装です。
type LocalWriter struct{}

// Write は必要なディレクトリを掘ってからファイルを書き込みます。
func (LocalWriter) Write(_ context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
