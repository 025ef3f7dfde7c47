package domain

import (
	"context"
	"errors"
)

// FailureKind は1タスクの失敗を区別する分類です。
// いずれの種別も兄弟タスクを巻き込まず、そのタスクだけを error 終端に導きます。
type FailureKind string

const (
	// FailureTransport はネットワーク断などサービスに届かなかった失敗です。
	FailureTransport FailureKind = "transport"
	// FailureRejection はサービスが明示的な理由付きで生成を拒否した失敗です。
	FailureRejection FailureKind = "rejection"
	// FailureTimeout はショット個別のデッドライン超過です。
	FailureTimeout FailureKind = "timeout"
	// FailureCancelled はラン全体のキャンセルに巻き込まれた失敗です。
	FailureCancelled FailureKind = "cancelled"
)

// 終端メッセージとして使う定型の失敗理由なのだ。
const (
	ReasonTimeout   = "画像生成がタイムアウトしました"
	ReasonCancelled = "ランがキャンセルされました"
)

// RejectionError は生成サービスが返した明示的な拒否理由を保持します。
// トランスポート障害と区別可能にするための型で、Reason はそのまま
// タスクの ErrorMessage として利用者に提示されます。
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// ClassifyFailure は外部呼び出しのエラーを失敗分類と表示用メッセージに写すのだ。
// サービス拒否は理由をそのまま通し、タイムアウトとキャンセルは定型文にするのだ。
func ClassifyFailure(err error) (FailureKind, string) {
	var rejection *RejectionError
	switch {
	case errors.As(err, &rejection):
		return FailureRejection, rejection.Reason
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout, ReasonTimeout
	case errors.Is(err, context.Canceled):
		return FailureCancelled, ReasonCancelled
	default:
		return FailureTransport, err.Error()
	}
}
