package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultShotCount    = 4
	DefaultMaxInFlight  = 2
	DefaultRateInterval = 10 * time.Second
	DefaultShotTimeout  = 5 * time.Minute
	DefaultOutputDir    = "output/shoot" // パブリッシャーで使用するデフォルト保存先なのだ
	DefaultStyleSuffix  = "professional product photography, studio quality, sharp focus, realistic materials, high resolution, clean composition, masterpiece"
)

// Config はアプリケーション全体の環境設定（APIキーやカタログ設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiImageModel string
	StyleSuffix      string

	// リモートカタログのエンドポイント。空ならローカル既定セットのみで動くのだ。
	AngleCatalogURL string
	ThemeCatalogURL string

	Options ShootOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		StyleSuffix:      envutil.GetEnv("SHOT_STYLE_SUFFIX", DefaultStyleSuffix),
		AngleCatalogURL:  envutil.GetEnv("ANGLE_CATALOG_URL", ""),
		ThemeCatalogURL:  envutil.GetEnv("THEME_CATALOG_URL", ""),
	}
}

// ShootOptions は CLI フラグから渡される実行時のパラメータなのだ。
type ShootOptions struct {
	// 被写体とテーマ
	Subject        string   // --subject: 被写体の説明テキスト
	Theme          string   // --theme: テーマID または 直接の修飾テキスト
	ReferenceImage string   // --reference-image: 参照画像（ローカル or gs://...）
	Count          int      // --count: 生成するショット枚数
	Angles         []string // --angle: インデックス順のアングル指示（不足分はカタログで補完）

	// 生成結果の出力設定
	OutputDir string // --output-dir: 保存先（ローカル or gs://...）

	// AIモデル・挙動設定
	ImageModel  string        // --image-model: 画像生成用のGeminiモデル
	HTTPTimeout time.Duration // --http-timeout

	// 同時実行制御
	MaxInFlight  int           // --max-in-flight: 同時に飛行中にできるショット数
	RateInterval time.Duration // --rate-interval: ディスパッチ間隔
	ShotTimeout  time.Duration // --shot-timeout: 1ショットのデッドライン
}
