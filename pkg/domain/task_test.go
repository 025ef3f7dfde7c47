package domain

import (
	"testing"
)

func TestNewSequenceRun(t *testing.T) {
	t.Run("全タスクがpendingで連続インデックスを持つのだ", func(t *testing.T) {
		base := BaseRequest{Subject: "赤いハンドバッグ", ThemeModifiers: "studio"}
		run := NewSequenceRun(base, []string{"front", "side", "back"})

		if run.Total != 3 || len(run.Tasks) != 3 {
			t.Fatalf("タスク数が違うのだ: total=%d tasks=%d", run.Total, len(run.Tasks))
		}
		for i, task := range run.Tasks {
			if task.Index != i {
				t.Errorf("インデックスが連続していないのだ: position=%d index=%d", i, task.Index)
			}
			if task.Status != StatusPending {
				t.Errorf("初期状態はpendingのはずなのだ: %s", task.Status)
			}
			if task.Artifact != nil || task.ErrorMessage != "" {
				t.Errorf("初期タスクに成果物やエラーがあるのだ: %+v", task)
			}
		}
		if run.Tasks[1].AngleDescription != "side" {
			t.Errorf("アングルの割り当てが違うのだ: %q", run.Tasks[1].AngleDescription)
		}
	})
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	cases := map[TaskStatus]bool{
		StatusPending:    false,
		StatusGenerating: false,
		StatusCompleted:  true,
		StatusError:      true,
	}
	for status, want := range cases {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s: 期待 %v, 実際 %v", status, want, got)
		}
	}
}

func TestSequenceRun_Settled(t *testing.T) {
	run := NewSequenceRun(BaseRequest{}, []string{"a", "b"})
	if run.Settled() {
		t.Error("pendingが残っているのにsettledなのだ")
	}

	run.Tasks[0].Status = StatusCompleted
	run.Tasks[1].Status = StatusError
	if !run.Settled() {
		t.Error("全タスク終端なのにsettledでないのだ")
	}
}

func TestSequenceRun_Clone(t *testing.T) {
	t.Run("複製への変更が元に波及しないのだ", func(t *testing.T) {
		run := NewSequenceRun(BaseRequest{Subject: "subject"}, []string{"a"})
		clone := run.Clone()
		clone.Tasks[0].Status = StatusError

		if run.Tasks[0].Status != StatusPending {
			t.Error("元のランが書き換わってしまったのだ")
		}
	})
}

func TestBuildSequenceResult(t *testing.T) {
	t.Run("成功と失敗がインデックス順に振り分けられるのだ", func(t *testing.T) {
		run := NewSequenceRun(BaseRequest{}, []string{"a", "b", "c"})
		run.Tasks[0].Status = StatusCompleted
		run.Tasks[1].Status = StatusError
		run.Tasks[1].ErrorMessage = "policy violation"
		run.Tasks[2].Status = StatusCompleted

		result := BuildSequenceResult(run)

		if result.Total != 3 {
			t.Errorf("Totalが違うのだ: %d", result.Total)
		}
		if len(result.Succeeded) != 2 || result.Succeeded[0].Index != 0 || result.Succeeded[1].Index != 2 {
			t.Errorf("成功リストが違うのだ: %+v", result.Succeeded)
		}
		if len(result.Failed) != 1 || result.Failed[0].Index != 1 || result.Failed[0].Reason != "policy violation" {
			t.Errorf("失敗リストが違うのだ: %+v", result.Failed)
		}
	})
}
