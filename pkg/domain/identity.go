package domain

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// CharacterIdentity は全ページの画像プロンプトに注入する「キャラクターの同一性」です。
// 同じトークンと外見描写を毎ページ繰り返すことで、画像生成モデルが同一人物を
// 描き続けるよう誘導します。ジョブごとに名前と年齢から導出され、永続化されません。
type CharacterIdentity struct {
	Token      string // 例: "CHAR_MINA_V1"
	Descriptor string // プロンプトに注入する外見上の特徴
}

// NewCharacterIdentity は名前と年齢からキャラクターの同一性を導出します。
func NewCharacterIdentity(name, age string) CharacterIdentity {
	return CharacterIdentity{
		Token:      fmt.Sprintf("CHAR_%s_V1", strings.ToUpper(strings.ReplaceAll(name, " ", "_"))),
		Descriptor: fmt.Sprintf("%s, age %s, child character, friendly face, consistent across pages.", name, age),
	}
}

// DeriveSeed は (subject, ページ番号) から決定論的な32bitシードを導出するのだ。
// FNV-1a の固定ハッシュを使うので、プロセスをまたいでも必ず同じ値になるのだ。
// ランタイムのハッシュ（マップの順序等に使われるもの）はシードがランダム化される
// ので、ここでは絶対に使ってはいけないのだ。
func DeriveSeed(subjectName string, pageNumber int) uint32 {
	h := fnv.New32a()
	h.Write([]byte(subjectName))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.Itoa(pageNumber)))
	return h.Sum32()
}
