package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoshoot-kit/internal/builder"
	"github.com/shouni/go-photoshoot-kit/internal/config"
	"github.com/shouni/go-photoshoot-kit/pkg/angles"
	"github.com/shouni/go-photoshoot-kit/pkg/domain"
	"github.com/shouni/go-photoshoot-kit/pkg/progress"
	"github.com/shouni/go-photoshoot-kit/pkg/publisher"

	"github.com/shouni/go-http-kit/httpkit"
	gcsfactory "github.com/shouni/go-remote-io/remoteio/gcs"
)

// Execute は撮影シーケンス全体（アングル解決 → テーマ解決 → 生成 → 保存）を実行するのだ。
// タスク単位の失敗はランを止めず、保存側の失敗も生成結果を無効にはしないのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// 1. アングルリストの解決（既存指定を保持し、空きスロットはカタログで補完）
	angleTexts := resolveAngles(ctx, cfg)

	// 2. テーマのクリエイティブディレクションを修飾テキストへ解決
	themeCatalog := builder.BuildThemeCatalog(cfg)
	modifier := themeCatalog.ResolveModifier(ctx, cfg.Options.Theme)

	base := domain.BaseRequest{
		Subject:        cfg.Options.Subject,
		ThemeModifiers: modifier,
		ReferenceURL:   cfg.Options.ReferenceImage,
	}

	// 3. オーケストレーターを構築し、進捗はそのままログへ流すのだ
	orch, err := builder.BuildOrchestrator(appCtx, func(snap progress.Snapshot) {
		slog.Info(snap.Message,
			"completed", snap.Completed,
			"generating", snap.Generating,
			"errored", snap.Errored,
			"percent", fmt.Sprintf("%.1f", snap.PercentComplete))
	})
	if err != nil {
		return fmt.Errorf("オーケストレーターの構築に失敗したのだ: %w", err)
	}

	// 4. 撮影シーケンスの実行（部分的な失敗込みで必ず settled まで進む）
	result, err := orch.Run(ctx, base, angleTexts)
	if err != nil {
		return fmt.Errorf("撮影シーケンスの実行に失敗したのだ: %w", err)
	}

	reportResult(result)

	// 5. 成果物の保存。生成と保存は独立した失敗ドメインなので、
	//    ここで失敗してもランの結果自体は有効なまま警告に留めるのだ。
	run := orch.CurrentRun()
	if run != nil {
		pub := builder.BuildPublisher(appCtx)
		published, err := pub.Publish(ctx, run, result, publisher.Options{OutputDir: cfg.Options.OutputDir})
		if err != nil {
			slog.Warn("成果物の保存に失敗したのだ。生成結果自体は有効なのだ", "error", err)
		} else {
			slog.Info("成果物を保存したのだ",
				"manifest", published.ManifestPath,
				"images", len(published.ImagePaths))
		}
	}

	if len(result.Failed) > 0 && len(result.Succeeded) == 0 {
		return fmt.Errorf("全 %d ショットが失敗したのだ", result.Total)
	}
	return nil
}

// resolveAngles は要求枚数にあわせたアングルリストを組み立てるのだ。
// ユーザー指定のアングルはインデックスを保って引き継ぎ、空きスロットだけ
// カタログの提案で埋めるのだ。カタログ障害はフォールバック済みで届くのだ。
func resolveAngles(ctx context.Context, cfg *config.Config) []string {
	count := angles.ClampCount(cfg.Options.Count)
	resolved := angles.Resolve(count, cfg.Options.Angles)

	catalog := builder.BuildAngleCatalog(cfg)
	return angles.FillEmpty(resolved, catalog.Suggestions(ctx))
}

// reportResult は settled した結果のサマリーと、失敗ショットの明細を出力するのだ。
func reportResult(result domain.SequenceResult) {
	slog.Info("撮影シーケンスの結果なのだ",
		"total", result.Total,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))

	for _, f := range result.Failed {
		slog.Warn("失敗したショットなのだ", "index", f.Index, "reason", f.Reason)
	}
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}
