package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestGenerationError(t *testing.T) {
	t.Run("MalformedResponse は生テキストを保持すること", func(t *testing.T) {
		raw := "I cannot write JSON today."
		err := NewMalformedError(raw, errors.New("invalid character 'I'"))

		var ge *GenerationError
		if !errors.As(err, &ge) {
			t.Fatal("GenerationError として取り出せませんでした")
		}
		if ge.Raw != raw {
			t.Errorf("生テキストが失われています: %q", ge.Raw)
		}
		if ge.Kind != KindMalformedResponse {
			t.Errorf("分類が不正です: %s", ge.Kind)
		}
	})

	t.Run("ラップされても分類を判定できること", func(t *testing.T) {
		err := fmt.Errorf("台本の生成に失敗しました: %w", NewTransportError(errors.New("status 502")))
		if !IsTransportFailure(err) {
			t.Error("ラップ後に TransportFailure を判定できませんでした")
		}
		if IsMalformedResponse(err) {
			t.Error("TransportFailure が MalformedResponse として判定されました")
		}
	})

	t.Run("型なしエラーの分類は 0 になること", func(t *testing.T) {
		if kind := ErrorKindOf(errors.New("plain")); kind != 0 {
			t.Errorf("期待値 0, 実際の値 %d", kind)
		}
	})
}
