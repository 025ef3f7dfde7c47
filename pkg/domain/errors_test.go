package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantKind FailureKind
		wantMsg  string
	}{
		{
			name:     "サービス拒否は理由がそのまま通るのだ",
			err:      &RejectionError{Reason: "policy violation"},
			wantKind: FailureRejection,
			wantMsg:  "policy violation",
		},
		{
			name:     "ラップされた拒否も見抜くのだ",
			err:      fmt.Errorf("生成に失敗: %w", &RejectionError{Reason: "nsfw content"}),
			wantKind: FailureRejection,
			wantMsg:  "nsfw content",
		},
		{
			name:     "デッドライン超過はタイムアウトなのだ",
			err:      context.DeadlineExceeded,
			wantKind: FailureTimeout,
			wantMsg:  ReasonTimeout,
		},
		{
			name:     "コンテキストキャンセルはキャンセルなのだ",
			err:      fmt.Errorf("呼び出し中断: %w", context.Canceled),
			wantKind: FailureCancelled,
			wantMsg:  ReasonCancelled,
		},
		{
			name:     "その他はトランスポート障害なのだ",
			err:      errors.New("connection refused"),
			wantKind: FailureTransport,
			wantMsg:  "connection refused",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, msg := ClassifyFailure(tc.err)
			if kind != tc.wantKind {
				t.Errorf("分類が違うのだ: 期待 %s, 実際 %s", tc.wantKind, kind)
			}
			if msg != tc.wantMsg {
				t.Errorf("メッセージが違うのだ: 期待 %q, 実際 %q", tc.wantMsg, msg)
			}
		})
	}
}
