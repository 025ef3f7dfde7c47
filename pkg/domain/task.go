package domain

import (
	"time"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// TaskStatus は1枚のショット生成タスクの状態を表します。
type TaskStatus string

const (
	// StatusPending はディスパッチ待ちの初期状態です。
	StatusPending TaskStatus = "pending"
	// StatusGenerating は外部サービスへのリクエストが飛行中の状態です。
	StatusGenerating TaskStatus = "generating"
	// StatusCompleted は画像が正常に生成された終端状態です。
	StatusCompleted TaskStatus = "completed"
	// StatusError は失敗・タイムアウト・キャンセルで終わった終端状態です。
	StatusError TaskStatus = "error"
)

// IsTerminal は completed / error のいずれかに到達したかどうかを返すのだ。
// 終端状態のタスクは、明示的なリトライ以外で巻き戻されることはないのだ。
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// BaseRequest は1回の撮影シーケンス全体で共有される不変の基礎情報です。
// 被写体の一貫性を保つため、全タスクが同一のスナップショットを参照します。
type BaseRequest struct {
	// Subject は被写体の説明テキストです。(例: "赤い革のハンドバッグ")
	Subject string `json:"subject"`
	// ThemeModifiers はテーマ/画風の修飾テキストです。プロンプトに合成されます。
	ThemeModifiers string `json:"theme_modifiers"`
	// ReferenceURL は被写体の参照画像の場所です。(ローカルパス / gs:// / https)
	ReferenceURL string `json:"reference_url,omitempty"`
}

// ShotTask は生成されるべき1枚の画像を表すタスクエンティティです。
// オーケストレーターが所有し、状態遷移もオーケストレーターだけが行います。
type ShotTask struct {
	// Index はシーケンス内の0始まりの位置で、ラン内で安定した識別子です。
	Index int `json:"index"`
	// Status は pending | generating | completed | error のいずれかです。
	Status TaskStatus `json:"status"`
	// AngleDescription はこのショットのカメラアングル指示です。タスク生成時に確定し、以後不変です。
	AngleDescription string `json:"angle_description"`
	// Artifact は Status == completed のときのみセットされる生成結果です。
	Artifact *imagedom.ImageResponse `json:"-"`
	// ErrorMessage は Status == error のときのみセットされる失敗理由です。
	ErrorMessage string `json:"error_message,omitempty"`
	// DispatchedAt は generating へ遷移した時刻です。タイムアウト判定の基準になります。
	DispatchedAt time.Time `json:"dispatched_at,omitzero"`
}

// SequenceRun はオーケストレーターが所有する1回分の撮影シーケンスの集約なのだ。
// 全タスクが終端状態に達する（= settled）まで生存し、その後は履歴へ引き渡されるのだ。
type SequenceRun struct {
	// Total はラン開始時に固定される要求枚数です。
	Total int `json:"total"`
	// Base は全タスク共有の不変スナップショットです。
	Base BaseRequest `json:"base"`
	// Tasks は Index 順の長さ Total のタスク列です。
	Tasks []ShotTask `json:"tasks"`
}

// NewSequenceRun は角度リストの各要素に対して pending タスクを1つずつ持つランを生成します。
// インデックスは 0..len(angles)-1 で連続することが保証されます。
func NewSequenceRun(base BaseRequest, angles []string) *SequenceRun {
	tasks := make([]ShotTask, len(angles))
	for i, angle := range angles {
		tasks[i] = ShotTask{
			Index:            i,
			Status:           StatusPending,
			AngleDescription: angle,
		}
	}
	return &SequenceRun{
		Total: len(angles),
		Base:  base,
		Tasks: tasks,
	}
}

// Settled は全タスクが終端状態に到達したかどうかを返します。
func (r *SequenceRun) Settled() bool {
	for _, t := range r.Tasks {
		if !t.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Clone はタスク列を新しいスライスに複製した防御的コピーを返すのだ。
// 進捗ビューなど、ロックの外へ持ち出す読み取り専用スナップショットに使うのだ。
func (r *SequenceRun) Clone() *SequenceRun {
	tasks := make([]ShotTask, len(r.Tasks))
	copy(tasks, r.Tasks)
	return &SequenceRun{
		Total: r.Total,
		Base:  r.Base,
		Tasks: tasks,
	}
}
