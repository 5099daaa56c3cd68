package domain

import (
	"errors"
	"fmt"
)

// ErrorKind は生成系の失敗を分類するタグです。
type ErrorKind int

const (
	// KindUnconfigured は認証情報が未設定であることを示します。致命的ではなく、
	// 呼び出し側は縮退（スタブ台本やプレースホルダー画像）に切り替えます。
	KindUnconfigured ErrorKind = iota + 1
	// KindTransportFailure は外部プロバイダとの通信の失敗（接続、非2xx、
	// ペイロード破損）を示します。台本生成では致命的、挿絵生成ではページ単位で
	// 吸収されます。
	KindTransportFailure
	// KindMalformedResponse はプロバイダの応答が台本スキーマとして解釈できない
	// ことを示します。診断のため生テキストを保持します。
	KindMalformedResponse
)

// String は ErrorKind のログ向け表現を返します。
func (k ErrorKind) String() string {
	switch k {
	case KindUnconfigured:
		return "unconfigured"
	case KindTransportFailure:
		return "transport_failure"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// GenerationError はテキスト・画像プロバイダ共通の型付きエラーです。
type GenerationError struct {
	Kind ErrorKind
	Raw  string // MalformedResponse のときのみ: プロバイダが返した生テキスト
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation error (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("generation error (%s)", e.Kind)
}

// Unwrap は errors.Is / errors.As の連鎖のために内部エラーを返すのだ。
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewTransportError は通信レイヤーの失敗を包みます。
func NewTransportError(err error) *GenerationError {
	return &GenerationError{Kind: KindTransportFailure, Err: err}
}

// NewMalformedError はスキーマ違反の応答を、生テキストごと包みます。
func NewMalformedError(raw string, err error) *GenerationError {
	return &GenerationError{Kind: KindMalformedResponse, Raw: raw, Err: err}
}

// NewUnconfiguredError は認証情報の欠如を表すエラーを返します。
func NewUnconfiguredError(what string) *GenerationError {
	return &GenerationError{Kind: KindUnconfigured, Err: errors.New(what + " is not configured")}
}

// ErrorKindOf はエラー連鎖から GenerationError の分類を取り出すのだ。
// 型付きエラーが見つからないときは 0 を返すのだ。
func ErrorKindOf(err error) ErrorKind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// IsTransportFailure は通信失敗かどうかを判定します。
func IsTransportFailure(err error) bool {
	return ErrorKindOf(err) == KindTransportFailure
}

// IsMalformedResponse はスキーマ違反の応答かどうかを判定します。
func IsMalformedResponse(err error) bool {
	return ErrorKindOf(err) == KindMalformedResponse
}
