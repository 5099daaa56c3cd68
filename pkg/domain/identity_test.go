package domain

import (
	"testing"
)

func TestDeriveSeed(t *testing.T) {
	t.Run("同じ入力からは必ず同じシードが得られること", func(t *testing.T) {
		s1 := DeriveSeed("Mina", 3)
		s2 := DeriveSeed("Mina", 3)
		if s1 != s2 {
			t.Errorf("同じ入力から異なるシードが生成されました: %d != %d", s1, s2)
		}
	})

	t.Run("固定ハッシュなので既知の値と一致すること", func(t *testing.T) {
		// FNV-1a 32bit over "Mina:3"。ランタイムハッシュと違い、
		// プロセスを再起動しても絶対に変わらない値です。
		want := fnvReference("Mina:3")
		if got := DeriveSeed("Mina", 3); got != want {
			t.Errorf("期待値 %d, 実際の値 %d", want, got)
		}
	})

	t.Run("同じ名前でもページ1〜50で系統的な衝突がないこと", func(t *testing.T) {
		seen := make(map[uint32]int)
		for page := 1; page <= 50; page++ {
			seed := DeriveSeed("Mina", page)
			if prev, ok := seen[seed]; ok {
				t.Errorf("ページ %d と %d のシードが衝突しました: %d", prev, page, seed)
			}
			seen[seed] = page
		}
	})

	t.Run("名前が違えばシードも変わること", func(t *testing.T) {
		if DeriveSeed("Mina", 1) == DeriveSeed("Theo", 1) {
			t.Error("異なる名前から同じシードが生成されました")
		}
	})
}

// fnvReference はテスト内での独立した FNV-1a 参照実装なのだ。
func fnvReference(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

func TestNewCharacterIdentity(t *testing.T) {
	id := NewCharacterIdentity("Mina", "6")

	if id.Token != "CHAR_MINA_V1" {
		t.Errorf("トークンが期待と異なります: %s", id.Token)
	}
	if id.Descriptor != "Mina, age 6, child character, friendly face, consistent across pages." {
		t.Errorf("外見描写が期待と異なります: %s", id.Descriptor)
	}

	t.Run("空白を含む名前はトークン内でアンダースコアになること", func(t *testing.T) {
		id := NewCharacterIdentity("Mina Lou", "6")
		if id.Token != "CHAR_MINA_LOU_V1" {
			t.Errorf("トークンが期待と異なります: %s", id.Token)
		}
	})
}
