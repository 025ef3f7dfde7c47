package progress

import (
	"fmt"

	"github.com/shouni/go-photoshoot-kit/pkg/domain"
)

// Failure は表示用の失敗エントリです。Index 順に並びます。
type Failure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Snapshot はランのタスク集合から導出される読み取り専用の進捗ビューです。
// 表示レイヤーが消費するためだけのもので、ここから新しいディスパッチが
// 発生することはありません。
type Snapshot struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Generating int `json:"generating"`
	Completed  int `json:"completed"`
	Errored    int `json:"errored"`

	// PercentComplete は completed のみを母数 Total に対して数えた完成率です。
	// error は settled には数えるが完成率には含めない、という報告規約に従います。
	PercentComplete float64 `json:"percent_complete"`

	// StatusByIndex はショットごとのインジケーター表示に使う状態マップです。
	StatusByIndex map[int]domain.TaskStatus `json:"status_by_index"`

	// Failures は現在 error 状態のタスクの (index, 理由) を Index 順に並べたものです。
	Failures []Failure `json:"failures"`

	// Message は人間向けの進捗サマリーです。
	Message string `json:"message"`
}

// Settled は全タスクが終端状態に達しているかどうかを返します。
func (s Snapshot) Settled() bool {
	return s.Pending == 0 && s.Generating == 0
}

// Project はランから進捗ビューを再計算する純粋関数なのだ。
// タスク状態が変わるたびに呼び直して、常に最新のビューを導出するのだ。
func Project(run *domain.SequenceRun) Snapshot {
	snap := Snapshot{
		Total:         run.Total,
		StatusByIndex: make(map[int]domain.TaskStatus, len(run.Tasks)),
	}

	for _, t := range run.Tasks {
		snap.StatusByIndex[t.Index] = t.Status
		switch t.Status {
		case domain.StatusPending:
			snap.Pending++
		case domain.StatusGenerating:
			snap.Generating++
		case domain.StatusCompleted:
			snap.Completed++
		case domain.StatusError:
			snap.Errored++
			snap.Failures = append(snap.Failures, Failure{Index: t.Index, Message: t.ErrorMessage})
		}
	}

	if snap.Total > 0 {
		snap.PercentComplete = float64(snap.Completed) / float64(snap.Total) * 100
	}
	snap.Message = buildMessage(snap)
	return snap
}

// buildMessage は進捗の状況を1行のサマリーにするのだ。
func buildMessage(s Snapshot) string {
	switch {
	case s.Total == 0:
		return "ショットがありません"
	case s.Generating > 0:
		return fmt.Sprintf("%d/%d 枚が完成（%d 枚を生成中、失敗 %d）", s.Completed, s.Total, s.Generating, s.Errored)
	case !s.Settled():
		return fmt.Sprintf("%d/%d 枚が完成（%d 枚が待機中、失敗 %d）", s.Completed, s.Total, s.Pending, s.Errored)
	case s.Errored == 0:
		return fmt.Sprintf("全 %d 枚の撮影が完了したのだ！", s.Total)
	default:
		return fmt.Sprintf("撮影が完了（成功 %d / 失敗 %d）", s.Completed, s.Errored)
	}
}
