package themes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Theme は1つのクリエイティブディレクション（画風・演出の方向性）です。
type Theme struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Modifier string `json:"modifier"`
}

// defaultThemes はリモートカタログが使えないときのローカル既定セットなのだ。
var defaultThemes = []Theme{
	{
		ID:       "studio",
		Name:     "スタジオ撮影",
		Modifier: "professional studio photography, softbox lighting, seamless backdrop, sharp focus",
	},
	{
		ID:       "editorial",
		Name:     "エディトリアル",
		Modifier: "editorial fashion photography, dramatic lighting, high contrast, magazine quality",
	},
	{
		ID:       "natural",
		Name:     "自然光",
		Modifier: "natural daylight, golden hour, soft shadows, candid atmosphere",
	},
	{
		ID:       "noir",
		Name:     "ノワール",
		Modifier: "film noir style, monochrome, hard rim light, deep shadows, cinematic mood",
	},
}

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	remoteFetchTimeout     = 3 * time.Second

	themesCacheKey = "themes"
)

// Doer は HTTP リクエストを実行できるクライアントの最小インターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Catalog はテーマカタログの2段構えの解決器です。リモートのエントリを
// ローカル既定セットにマージし、取得に失敗した場合は既定セットだけで
// 動作を続けます。解決が撮影ランを失敗させることはありません。
type Catalog struct {
	client   Doer
	endpoint string
	cache    *cache.Cache
}

// NewCatalog は新しい Catalog を生成します。endpoint が空ならリモート解決は行いません。
func NewCatalog(client Doer, endpoint string) *Catalog {
	return &Catalog{
		client:   client,
		endpoint: endpoint,
		cache:    cache.New(defaultCacheExpiration, cacheCleanupInterval),
	}
}

// List は利用可能なテーマを返すのだ。同じ ID はリモート側が勝つのだ。
func (c *Catalog) List(ctx context.Context) []Theme {
	merged := append([]Theme(nil), defaultThemes...)

	remote := c.fetchRemote(ctx)
	for _, rt := range remote {
		replaced := false
		for i, t := range merged {
			if t.ID == rt.ID {
				merged[i] = rt
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, rt)
		}
	}
	return merged
}

// ResolveModifier はテーマ指定をプロンプト修飾テキストへ解決します。
// 既知のテーマ ID ならその Modifier を、未知の文字列ならそのまま
// リテラルの修飾テキストとして返します。空指定は既定テーマに落ちます。
func (c *Catalog) ResolveModifier(ctx context.Context, idOrText string) string {
	idOrText = strings.TrimSpace(idOrText)
	if idOrText == "" {
		return defaultThemes[0].Modifier
	}

	for _, t := range c.List(ctx) {
		if t.ID == idOrText {
			return t.Modifier
		}
	}

	// ID に一致しないものは、ユーザーが直接書いた修飾テキストとして扱うのだ
	return idOrText
}

// fetchRemote はリモートカタログを取得します。失敗はすべて警告ログ止まりです。
func (c *Catalog) fetchRemote(ctx context.Context) []Theme {
	if c.client == nil || c.endpoint == "" {
		return nil
	}

	if cached, ok := c.cache.Get(themesCacheKey); ok {
		if ts, ok := cached.([]Theme); ok {
			return ts
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()

	ts, err := c.doFetch(fetchCtx)
	if err != nil {
		slog.Warn("リモートのテーマカタログ取得に失敗したため、ローカル既定セットを使うのだ",
			"endpoint", c.endpoint, "error", err)
		return nil
	}

	c.cache.Set(themesCacheKey, ts, cache.DefaultExpiration)
	return ts
}

func (c *Catalog) doFetch(ctx context.Context) ([]Theme, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗しました: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("カタログの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("カタログが異常な状態を返しました: %d", resp.StatusCode)
	}

	var ts []Theme
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		return nil, fmt.Errorf("カタログのデコードに失敗しました: %w", err)
	}
	return ts, nil
}
