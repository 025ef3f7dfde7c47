package angles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultShotList はリモートカタログが使えないときに必ず利用できる、
// 組み込みの定番アングル集なのだ。順序はそのまま提案順として使われるのだ。
var DefaultShotList = []string{
	"front view, eye level, centered composition",
	"three-quarter view from the left, slightly above eye level",
	"side profile, eye level",
	"back view, eye level",
	"close-up on key details, shallow depth of field",
	"low angle looking up, dramatic perspective",
	"high angle looking down, full subject visible",
	"wide establishing shot with environment context",
}

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	remoteFetchTimeout     = 3 * time.Second

	suggestionsCacheKey = "angle-suggestions"
)

// Doer は HTTP リクエストを実行できるクライアントの最小インターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Catalog はアングル提案の2段構えの解決器です。
// リモートカタログを短いタイムアウト付きで取得し、失敗したら黙って
// 組み込みの DefaultShotList へフォールバックします。カタログ解決が
// 撮影ラン本体をブロックしたり失敗させたりすることはありません。
type Catalog struct {
	client   Doer
	endpoint string
	cache    *cache.Cache
}

// remoteShotList はリモートカタログのレスポンス形式です。
type remoteShotList struct {
	Angles []string `json:"angles"`
}

// NewCatalog は新しい Catalog を生成します。endpoint が空の場合、
// リモート解決は行わず常に組み込みリストを返します。
func NewCatalog(client Doer, endpoint string) *Catalog {
	return &Catalog{
		client:   client,
		endpoint: endpoint,
		cache:    cache.New(defaultCacheExpiration, cacheCleanupInterval),
	}
}

// Suggestions はアングル提案のリストを返すのだ。リモートの取得結果があれば
// それを優先し、空スロットは組み込みリストで補完するのだ。
func (c *Catalog) Suggestions(ctx context.Context) []string {
	remote := c.fetchRemote(ctx)
	if len(remote) == 0 {
		return append([]string(nil), DefaultShotList...)
	}

	// リモートのエントリをローカルのデフォルトに重ねてマージするのだ
	merged := append([]string(nil), DefaultShotList...)
	for i, angle := range remote {
		if i < len(merged) {
			merged[i] = angle
			continue
		}
		merged = append(merged, angle)
	}
	return merged
}

// fetchRemote はリモートカタログを取得します。失敗はすべて警告ログ止まりで、
// nil を返してフォールバックに委ねます。
func (c *Catalog) fetchRemote(ctx context.Context) []string {
	if c.client == nil || c.endpoint == "" {
		return nil
	}

	if cached, ok := c.cache.Get(suggestionsCacheKey); ok {
		if angles, ok := cached.([]string); ok {
			return angles
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()

	angles, err := c.doFetch(fetchCtx)
	if err != nil {
		slog.Warn("リモートのアングルカタログ取得に失敗したため、組み込みリストを使うのだ",
			"endpoint", c.endpoint, "error", err)
		return nil
	}

	c.cache.Set(suggestionsCacheKey, angles, cache.DefaultExpiration)
	return angles
}

func (c *Catalog) doFetch(ctx context.Context) ([]string, error) {
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

	var list remoteShotList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("カタログのデコードに失敗しました: %w", err)
	}
	return list.Angles, nil
}
