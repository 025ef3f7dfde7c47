package cmd

import (
	"fmt"

	"github.com/shouni/go-photoshoot-kit/internal/builder"
	"github.com/shouni/go-photoshoot-kit/internal/config"
	"github.com/shouni/go-photoshoot-kit/pkg/angles"

	"github.com/spf13/cobra"
)

// anglesCmd は、現在の設定で解決されるアングル提案を確認するためのサブコマンドなのだ。
// 実際に生成を走らせる前に、各インデックスにどの指示が入るかを見られるのだ。
var anglesCmd = &cobra.Command{
	Use:   "angles",
	Short: "各ショットに割り当てられるアングル指示を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg := config.LoadConfig()
		cfg.Options = opts

		count := angles.ClampCount(opts.Count)
		resolved := angles.Resolve(count, opts.Angles)

		catalog := builder.BuildAngleCatalog(cfg)
		filled := angles.FillEmpty(resolved, catalog.Suggestions(ctx))

		for i, angle := range filled {
			fmt.Printf("%2d: %s\n", i, angle)
		}
		return nil
	},
}
