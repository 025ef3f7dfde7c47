package progress

import (
	"math"
	"testing"

	"github.com/shouni/go-photoshoot-kit/pkg/domain"
)

func TestProject(t *testing.T) {
	t.Run("3枚中2枚成功・1枚拒否のシナリオなのだ", func(t *testing.T) {
		run := domain.NewSequenceRun(domain.BaseRequest{}, []string{"wide shot", "close-up", "side profile"})
		run.Tasks[0].Status = domain.StatusCompleted
		run.Tasks[1].Status = domain.StatusError
		run.Tasks[1].ErrorMessage = "policy violation"
		run.Tasks[2].Status = domain.StatusCompleted

		snap := Project(run)

		if snap.Completed != 2 || snap.Errored != 1 || snap.Pending != 0 || snap.Generating != 0 {
			t.Fatalf("カウントが違うのだ: %+v", snap)
		}
		if math.Abs(snap.PercentComplete-66.7) > 0.1 {
			t.Errorf("完成率は66.7%%前後のはずなのだ: %.1f", snap.PercentComplete)
		}
		if len(snap.Failures) != 1 || snap.Failures[0].Index != 1 || snap.Failures[0].Message != "policy violation" {
			t.Errorf("失敗リストが違うのだ: %+v", snap.Failures)
		}
		if !snap.Settled() {
			t.Error("settledのはずなのだ")
		}
	})

	t.Run("errorは完成率に含めないのだ", func(t *testing.T) {
		run := domain.NewSequenceRun(domain.BaseRequest{}, []string{"a", "b"})
		run.Tasks[0].Status = domain.StatusError
		run.Tasks[1].Status = domain.StatusError

		snap := Project(run)
		if snap.PercentComplete != 0 {
			t.Errorf("全滅なら完成率0%%のはずなのだ: %.1f", snap.PercentComplete)
		}
		if !snap.Settled() {
			t.Error("全タスク終端ならsettledなのだ")
		}
	})

	t.Run("ショットごとの状態マップが引けるのだ", func(t *testing.T) {
		run := domain.NewSequenceRun(domain.BaseRequest{}, []string{"a", "b", "c"})
		run.Tasks[1].Status = domain.StatusGenerating

		snap := Project(run)
		if snap.StatusByIndex[0] != domain.StatusPending {
			t.Errorf("インデックス0はpendingのはずなのだ: %s", snap.StatusByIndex[0])
		}
		if snap.StatusByIndex[1] != domain.StatusGenerating {
			t.Errorf("インデックス1はgeneratingのはずなのだ: %s", snap.StatusByIndex[1])
		}
		if snap.Settled() {
			t.Error("飛行中があるのにsettledなのだ")
		}
	})

	t.Run("進捗メッセージが状況に応じて変わるのだ", func(t *testing.T) {
		run := domain.NewSequenceRun(domain.BaseRequest{}, []string{"a"})
		if msg := Project(run).Message; msg == "" {
			t.Error("メッセージが空なのだ")
		}

		run.Tasks[0].Status = domain.StatusCompleted
		done := Project(run)
		if done.Message == "" || done.PercentComplete != 100 {
			t.Errorf("完了メッセージと100%%のはずなのだ: %+v", done)
		}
	})
}
