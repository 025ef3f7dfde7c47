package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-photoshoot-kit/pkg/domain"
	"github.com/shouni/go-photoshoot-kit/pkg/progress"
	"github.com/shouni/go-photoshoot-kit/pkg/prompts"
)

// デフォルト値の定義なのだ
const (
	// DefaultMaxInFlight は同時に generating 状態にできるタスク数の上限です。
	// 外部生成APIのレート制限を尊重するため、全Nを一斉射撃にはしません。
	DefaultMaxInFlight = 2
	// DefaultRateInterval はディスパッチ間の最小間隔です。
	DefaultRateInterval = 10 * time.Second
	// DefaultShotTimeout は1ショットあたりの生成デッドラインです。
	DefaultShotTimeout = 5 * time.Minute
	// ShotAspectRatio は全ショット共通の推奨アスペクト比です。
	ShotAspectRatio = "3:4"
)

// ShotGenerator は外部画像生成サービスへの1回分の呼び出しを抽象化します。
type ShotGenerator interface {
	GenerateShot(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// Options は Orchestrator の実行時パラメータです。
type Options struct {
	// MaxInFlight は同時飛行中タスク数の上限です。0以下なら DefaultMaxInFlight。
	MaxInFlight int
	// RateInterval はディスパッチのレート制限間隔です。0以下なら DefaultRateInterval。
	RateInterval time.Duration
	// ShotTimeout は1ショットのデッドラインです。0以下なら DefaultShotTimeout。
	ShotTimeout time.Duration
	// OnProgress はタスク状態が変わるたびに最新の進捗ビューで呼ばれます。省略可。
	OnProgress func(progress.Snapshot)
}

// Orchestrator は撮影シーケンス1回分のタスク集合を所有し、
// 状態遷移 (pending → generating → completed | error) を一手に管理する
// 調整役なのだ。タスクの失敗は兄弟タスクを道連れにせず、ランは必ず
// settled な結果に到達するのだ。
type Orchestrator struct {
	generator ShotGenerator
	prompts   *prompts.ShotPromptBuilder
	opts      Options
	limiter   *rate.Limiter

	mu        sync.Mutex
	run       *domain.SequenceRun
	cancelRun context.CancelFunc
}

// New は Orchestrator を生成します。opts のゼロ値はデフォルトに補正されます。
func New(gen ShotGenerator, pb *prompts.ShotPromptBuilder, opts Options) *Orchestrator {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = DefaultRateInterval
	}
	if opts.ShotTimeout <= 0 {
		opts.ShotTimeout = DefaultShotTimeout
	}

	return &Orchestrator{
		generator: gen,
		prompts:   pb,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Every(opts.RateInterval), opts.MaxInFlight),
	}
}

// Run は角度リストの各要素に対応するタスク群を生成し、昇順インデックスで
// 同時実行上限つきのディスパッチを行い、全タスクが終端状態に達した時点の
// 最終結果を返すのだ。タスク単位の失敗ではエラーを返さず、部分的な成功を
// そのまま SequenceResult として報告するのだ。
func (o *Orchestrator) Run(ctx context.Context, base domain.BaseRequest, angleTexts []string) (domain.SequenceResult, error) {
	if len(angleTexts) == 0 {
		return domain.SequenceResult{}, fmt.Errorf("アングル指示が1つも指定されていません")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	o.run = domain.NewSequenceRun(base, angleTexts)
	o.cancelRun = cancel
	run := o.run
	o.mu.Unlock()
	o.notify()

	slog.Info("撮影シーケンスを開始するのだ",
		"total", run.Total,
		"max_in_flight", o.opts.MaxInFlight,
		"rate_interval", o.opts.RateInterval)

	// SetLimit により eg.Go が空きスロット待ちでブロックするため、
	// ディスパッチ順は常にインデックス昇順になる。完了順は保証しない。
	eg := new(errgroup.Group)
	eg.SetLimit(o.opts.MaxInFlight)
	for i := range run.Tasks {
		index := i
		eg.Go(func() error {
			o.dispatch(runCtx, index)
			return nil
		})
	}

	// タスク単位の失敗は dispatch 内で解決済みなので、ここでエラーは出ないのだ
	_ = eg.Wait()

	o.mu.Lock()
	result := domain.BuildSequenceResult(o.run)
	o.mu.Unlock()

	slog.Info("撮影シーケンスが settled に到達したのだ",
		"total", result.Total,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))
	return result, nil
}

// Progress は現在のランの読み取り専用スナップショットを返します。
// ディスパッチが飛行中でも安全に呼び出せます。
func (o *Orchestrator) Progress() progress.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.run == nil {
		return progress.Snapshot{StatusByIndex: map[int]domain.TaskStatus{}}
	}
	return progress.Project(o.run)
}

// CurrentRun は現在のランの防御的コピーを返します。ランが無ければ nil です。
// 履歴・保存レイヤーへの引き渡しなど、読み取り専用の用途に使います。
func (o *Orchestrator) CurrentRun() *domain.SequenceRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.run == nil {
		return nil
	}
	return o.run.Clone()
}

// Cancel は協調的なキャンセルを要求するのだ。以後のディスパッチは止まり、
// 飛行中のタスクは呼び出しが放棄された時点でキャンセル理由の error になるのだ。
// すでに終端状態のタスクには一切触れないのだ。
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	cancel := o.cancelRun
	o.mu.Unlock()

	if cancel != nil {
		slog.Info("ランのキャンセルが要求されたのだ")
		cancel()
	}
}

// Retry は settled したランの1タスクだけを明示的に再ディスパッチします。
// 対象タスクを pending に戻してから generating へ進め、兄弟タスクには
// 一切触れません。終端状態でないタスクの Retry はエラーです。
func (o *Orchestrator) Retry(ctx context.Context, index int) (domain.ShotTask, error) {
	o.mu.Lock()
	if o.run == nil {
		o.mu.Unlock()
		return domain.ShotTask{}, fmt.Errorf("リトライ対象のランが存在しません")
	}
	if index < 0 || index >= len(o.run.Tasks) {
		o.mu.Unlock()
		return domain.ShotTask{}, fmt.Errorf("インデックス %d は範囲外です (total=%d)", index, o.run.Total)
	}
	task := o.run.Tasks[index]
	if !task.Status.IsTerminal() {
		o.mu.Unlock()
		return domain.ShotTask{}, fmt.Errorf("インデックス %d はまだ終端状態ではありません (status=%s)", index, task.Status)
	}

	// 終端状態からの巻き戻しは、この明示的なリトライ経路だけに許されるのだ
	o.run.Tasks[index] = domain.ShotTask{
		Index:            index,
		Status:           domain.StatusPending,
		AngleDescription: task.AngleDescription,
	}
	o.mu.Unlock()
	o.notify()

	slog.Info("単一ショットのリトライを開始するのだ", "index", index)
	o.dispatch(ctx, index)

	o.mu.Lock()
	retried := o.run.Tasks[index]
	o.mu.Unlock()
	return retried, nil
}

// dispatch は1タスク分の外部呼び出しとその状態遷移を実行します。
// 失敗はすべてこの中で error 終端に解決され、エラーが外へ伝播することはありません。
func (o *Orchestrator) dispatch(ctx context.Context, index int) {
	// キャンセル済みなら外部サービスを呼ばずに終端へ落とすのだ
	if ctx.Err() != nil {
		o.resolveFailure(index, ctx.Err())
		return
	}

	if err := o.limiter.Wait(ctx); err != nil {
		o.resolveFailure(index, err)
		return
	}

	base, angle, ok := o.markGenerating(index)
	if !ok {
		return
	}

	positive, negative := o.prompts.BuildShotPrompt(base, angle)
	logger := slog.With("index", index, "angle", angle)
	logger.Info("ショットの生成を開始するのだ")

	shotCtx, cancel := context.WithTimeout(ctx, o.opts.ShotTimeout)
	defer cancel()

	startTime := time.Now()
	resp, err := o.generator.GenerateShot(shotCtx, imagedom.ImagePanelRequest{
		GenerationOptions: imagedom.GenerationOptions{
			Prompt:         positive,
			NegativePrompt: negative,
			AspectRatio:    ShotAspectRatio,
		},
		Image: imagedom.ImageURI{ReferenceURL: base.ReferenceURL},
	})
	if err != nil {
		o.resolveFailure(index, err)
		return
	}

	logger.Info("ショットの生成に成功したのだ", "duration", time.Since(startTime).Round(time.Millisecond))
	o.markCompleted(index, resp)
}

// markGenerating はタスクを generating へ遷移させ、ディスパッチ時刻を記録します。
// プロンプト構築に必要な不変情報を同じロックの中で取り出して返します。
func (o *Orchestrator) markGenerating(index int) (domain.BaseRequest, string, bool) {
	o.mu.Lock()
	task := &o.run.Tasks[index]
	if task.Status.IsTerminal() {
		o.mu.Unlock()
		return domain.BaseRequest{}, "", false
	}
	task.Status = domain.StatusGenerating
	task.DispatchedAt = time.Now()
	base := o.run.Base
	angle := task.AngleDescription
	o.mu.Unlock()

	o.notify()
	return base, angle, true
}

// markCompleted はタスクを completed 終端へ遷移させ、成果物を保存します。
// すでに終端状態のタスクへの遅延結果は黙って捨てます。
func (o *Orchestrator) markCompleted(index int, artifact *imagedom.ImageResponse) {
	o.mu.Lock()
	task := &o.run.Tasks[index]
	if task.Status.IsTerminal() {
		o.mu.Unlock()
		return
	}
	task.Status = domain.StatusCompleted
	task.Artifact = artifact
	task.ErrorMessage = ""
	o.mu.Unlock()

	o.notify()
}

// resolveFailure は失敗を分類してタスクを error 終端へ遷移させるのだ。
// すでに終端状態なら遅延エラーとして黙殺するのだ。
func (o *Orchestrator) resolveFailure(index int, err error) {
	kind, message := domain.ClassifyFailure(err)

	o.mu.Lock()
	task := &o.run.Tasks[index]
	if task.Status.IsTerminal() {
		o.mu.Unlock()
		return
	}
	task.Status = domain.StatusError
	task.ErrorMessage = message
	task.Artifact = nil
	o.mu.Unlock()

	slog.Warn("ショットの生成に失敗したのだ", "index", index, "kind", kind, "reason", message)
	o.notify()
}

// notify は最新の進捗ビューを購読者へ届けます。
// コールバックはロックの外で呼び、デッドロックを避けます。
func (o *Orchestrator) notify() {
	if o.opts.OnProgress == nil {
		return
	}

	o.mu.Lock()
	if o.run == nil {
		o.mu.Unlock()
		return
	}
	snap := progress.Project(o.run)
	o.mu.Unlock()

	o.opts.OnProgress(snap)
}
