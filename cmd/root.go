package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-photoshoot-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全サブコマンドで共有する実行時パラメータなのだ。
var opts config.ShootOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 被写体・テーマ関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Subject, "subject", "s", "", "被写体の説明テキストなのだ。(例: \"赤い革のハンドバッグ\")")
	rootCmd.PersistentFlags().StringVarP(&opts.Theme, "theme", "t", "", "テーマID（studio等）または直接の修飾テキストなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.ReferenceImage, "reference-image", "r", "", "被写体の参照画像のパス（ローカル or gs://...）なのだ。")

	// --- ショット構成 ---
	rootCmd.PersistentFlags().IntVarP(&opts.Count, "count", "n", config.DefaultShotCount, "生成するショット枚数なのだ。(1〜20)")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.Angles, "angle", "a", nil, "インデックス順のアングル指示なのだ。不足分はカタログの提案で補完するのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "保存先ディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")

	// --- 同時実行制御 ---
	rootCmd.PersistentFlags().IntVar(&opts.MaxInFlight, "max-in-flight", config.DefaultMaxInFlight, "同時に生成中にできるショット数の上限なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.DefaultRateInterval, "ディスパッチ間の最小間隔なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.ShotTimeout, "shot-timeout", config.DefaultShotTimeout, "1ショットあたりの生成デッドラインなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"photoshoot-kit",
		addAppFlags,
		preRunAppE,
		shootCmd,
		anglesCmd,
		themesCmd,
	)
}
