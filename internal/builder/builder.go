package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shouni/go-photoshoot-kit/internal/config"
	"github.com/shouni/go-photoshoot-kit/pkg/angles"
	"github.com/shouni/go-photoshoot-kit/pkg/orchestrator"
	"github.com/shouni/go-photoshoot-kit/pkg/progress"
	"github.com/shouni/go-photoshoot-kit/pkg/prompts"
	"github.com/shouni/go-photoshoot-kit/pkg/publisher"
	"github.com/shouni/go-photoshoot-kit/pkg/themes"

	"github.com/patrickmn/go-cache"
	imagedom "github.com/shouni/gemini-image-kit/ports"
	imagekit "github.com/shouni/gemini-image-kit/generator"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/remoteio"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultTTL             = 5 * time.Minute
	catalogHTTPTimeout     = 5 * time.Second
)

// BuildOrchestrator は撮影シーケンスの調整役を構築します。
func BuildOrchestrator(appCtx *AppContext, onProgress func(progress.Snapshot)) (*orchestrator.Orchestrator, error) {
	gen, err := initializeShotGenerator(appCtx)
	if err != nil {
		return nil, fmt.Errorf("ShotGeneratorの初期化に失敗したのだ: %w", err)
	}

	pb := prompts.NewShotPromptBuilder(appCtx.Config.StyleSuffix)

	return orchestrator.New(gen, pb, orchestrator.Options{
		MaxInFlight:  appCtx.Options.MaxInFlight,
		RateInterval: appCtx.Options.RateInterval,
		ShotTimeout:  appCtx.Options.ShotTimeout,
		OnProgress:   onProgress,
	}), nil
}

// BuildPublisher はコンテンツ保存を行う ShootPublisher を構築します。
func BuildPublisher(appCtx *AppContext) *publisher.ShootPublisher {
	return publisher.NewShootPublisher(appCtx.Writer)
}

// BuildAngleCatalog はアングル提案カタログを構築します。
func BuildAngleCatalog(cfg *config.Config) *angles.Catalog {
	return angles.NewCatalog(newCatalogClient(), cfg.AngleCatalogURL)
}

// BuildThemeCatalog はテーマカタログを構築します。
func BuildThemeCatalog(cfg *config.Config) *themes.Catalog {
	return themes.NewCatalog(newCatalogClient(), cfg.ThemeCatalogURL)
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey: apiKey,
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeShotGenerator は gemini-image-kit のジェネレーターを組み立て、
// オーケストレーターが使う単発呼び出しのアダプターに包んで返します。
func initializeShotGenerator(appCtx *AppContext) (orchestrator.ShotGenerator, error) {
	core, err := initializeCore(appCtx.Reader, appCtx.httpClient, appCtx.aiClient)
	if err != nil {
		return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
	}

	imageGenerator, err := imagekit.NewGeminiGenerator(
		appCtx.Config.GeminiImageModel,
		core,
	)
	if err != nil {
		return nil, fmt.Errorf("ImageGeneratorの初期化に失敗しました: %w", err)
	}

	return &geminiShotGenerator{gen: imageGenerator}, nil
}

// initializeCore 提供された依存関係で構成された GeminiImageCore インスタンスを初期化して返します。
func initializeCore(reader remoteio.InputReader, httpClient httpkit.ClientInterface, aiClient gemini.GenerativeModel) (*imagekit.GeminiImageCore, error) {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		reader,
		httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}

	return core, nil
}

// newCatalogClient はカタログ取得専用の短タイムアウトHTTPクライアントを返すのだ。
func newCatalogClient() *http.Client {
	return &http.Client{Timeout: catalogHTTPTimeout}
}

// geminiShotGenerator は gemini-image-kit の単発パネル生成APIを
// ShotGenerator インターフェースに適合させるアダプターです。
type geminiShotGenerator struct {
	gen imagekit.ImageGenerator
}

// GenerateShot は1ショット分の画像生成を実行します。
func (g *geminiShotGenerator) GenerateShot(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	return g.gen.GenerateMangaPanel(ctx, req)
}
