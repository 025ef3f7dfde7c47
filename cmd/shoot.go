package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoshoot-kit/internal/config"
	"github.com/shouni/go-photoshoot-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// shootCmd は、1つの被写体に対する複数アングルの撮影シーケンスを実行するのだ。
var shootCmd = &cobra.Command{
	Use:   "shoot",
	Short: "被写体のマルチアングル撮影シーケンスを実行するのだ。",
	Long: `1つの参照被写体から、アングル違いのN枚の画像を並行生成するのだ。
各ショットは独立に進行し、一部が失敗しても残りは完走して部分的な結果を保存するのだよ。`,
	RunE: shootCommand,
}

func init() {
}

// shootCommand は、shoot サブコマンドの実行ロジック本体なのだ。
// 設定のバリデーションを行い、pipeline.Execute を呼び出して一連の処理をキックするのだ。
func shootCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる被写体の存在チェック
	if opts.Subject == "" {
		return fmt.Errorf("被写体（--subject）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiImageModel = opts.ImageModel

	slog.Info("撮影パイプラインを起動するのだ！",
		"subject", opts.Subject,
		"count", opts.Count,
		"theme", opts.Theme,
		"image_model", cfg.GeminiImageModel,
		"output_dir", opts.OutputDir)

	// 3. パイプライン実行
	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての撮影工程が完了したのだ！")
	return nil
}
