package imagegen

import (
	"context"
	"testing"
)

func TestForKind(t *testing.T) {
	ctx := context.Background()

	t.Run("none と空文字は常に画像なしのバリアントになること", func(t *testing.T) {
		for _, kind := range []ProviderKind{ProviderNone, ""} {
			gen, err := ForKind(ctx, kind, Config{})
			if err != nil {
				t.Fatalf("ForKind(%q) でエラーが発生しました: %v", kind, err)
			}
			img, err := gen.GenerateImage(ctx, "prompt", 1)
			if img != nil || err != nil {
				t.Errorf("NoneGenerator の規約違反です: img=%v err=%v", img, err)
			}
		}
	})

	t.Run("openai と stability が対応する実装に解決されること", func(t *testing.T) {
		gen, err := ForKind(ctx, ProviderOpenAI, Config{OpenAIAPIKey: "k"})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := gen.(*OpenAIGenerator); !ok {
			t.Errorf("OpenAI 実装が選択されていません: %T", gen)
		}

		gen, err = ForKind(ctx, ProviderStability, Config{StabilityAPIKey: "k"})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := gen.(*StabilityGenerator); !ok {
			t.Errorf("Stability 実装が選択されていません: %T", gen)
		}
	})

	t.Run("未知のバリアントはエラーになること", func(t *testing.T) {
		if _, err := ForKind(ctx, ProviderKind("dalle9000"), Config{}); err == nil {
			t.Error("未知のプロバイダでエラーが発生しませんでした")
		}
	})
}
