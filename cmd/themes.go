package cmd

import (
	"fmt"

	"github.com/shouni/go-photoshoot-kit/internal/builder"
	"github.com/shouni/go-photoshoot-kit/internal/config"

	"github.com/spf13/cobra"
)

// themesCmd は、利用可能なクリエイティブディレクションの一覧を表示するのだ。
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "利用可能なテーマ（クリエイティブディレクション）を一覧するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg := config.LoadConfig()
		catalog := builder.BuildThemeCatalog(cfg)

		for _, t := range catalog.List(ctx) {
			fmt.Printf("%-12s %s\n    %s\n", t.ID, t.Name, t.Modifier)
		}
		return nil
	},
}
