package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"io"

	"github.com/shouni/go-photoshoot-kit/pkg/asset"
	"github.com/shouni/go-photoshoot-kit/pkg/domain"
)

// OutputWriter は成果物の書き出し先です。remoteio.OutputWriter がこれを満たします。
type OutputWriter interface {
	Write(ctx context.Context, path string, reader io.Reader, mimeType string) error
}

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	ManifestPath string   // 保存された shoot_result.json のパス
	ImagePaths   []string // 保存された全ショット画像のパスリスト
}

// manifestEntry はマニフェストに記録する1ショット分の情報です。
type manifestEntry struct {
	Index    int    `json:"index"`
	Status   string `json:"status"`
	Angle    string `json:"angle"`
	Path     string `json:"path,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// manifest は settled したランの保存用マニフェストです。
type manifest struct {
	Total   int             `json:"total"`
	Subject string          `json:"subject"`
	Theme   string          `json:"theme_modifiers"`
	Shots   []manifestEntry `json:"shots"`
}

// ShootPublisher は settled したランの成果物の永続化を担います。
// 生成と永続化は独立した失敗ドメインであり、ここでのエラーがラン自体を
// 失敗扱いに変えることはありません（呼び出し側は警告に留めます）。
type ShootPublisher struct {
	writer OutputWriter
}

// NewShootPublisher は指定されたライターを使う ShootPublisher を生成します。
func NewShootPublisher(writer OutputWriter) *ShootPublisher {
	return &ShootPublisher{writer: writer}
}

// Publish は成功ショットの画像保存と結果マニフェストの書き出しを一括して実行し、
// 生成されたファイル情報を返却するのだ！失敗したインデックスの画像はスキップし、
// マニフェスト側に理由つきで記録するのだ。
func (p *ShootPublisher) Publish(ctx context.Context, run *domain.SequenceRun, result domain.SequenceResult, opts Options) (PublishResult, error) {
	published := PublishResult{}

	basePath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultShotFileName)
	if err != nil {
		return published, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	entries := make([]manifestEntry, 0, run.Total)
	savedByIndex := make(map[int]string, len(result.Succeeded))

	// 1. 成功ショットの画像を連番つきで保存
	for _, art := range result.Succeeded {
		if art.Image == nil || len(art.Image.Data) == 0 {
			continue
		}
		shotPath, err := asset.GenerateIndexedPath(basePath, art.Index+1)
		if err != nil {
			return published, fmt.Errorf("ショット %d の出力パス生成に失敗しました: %w", art.Index+1, err)
		}

		slog.InfoContext(ctx, "ショット画像を保存しています", "index", art.Index, "path", shotPath)
		if err := p.writer.Write(ctx, shotPath, bytes.NewReader(art.Image.Data), art.Image.MimeType); err != nil {
			return published, fmt.Errorf("ショット %d の保存に失敗しました (path: %s): %w", art.Index+1, shotPath, err)
		}
		published.ImagePaths = append(published.ImagePaths, shotPath)
		savedByIndex[art.Index] = shotPath
	}

	// 2. マニフェストの構築（インデックス順に全ショットを記録）
	for _, t := range run.Tasks {
		entry := manifestEntry{
			Index:  t.Index,
			Status: string(t.Status),
			Angle:  t.AngleDescription,
		}
		if path, ok := savedByIndex[t.Index]; ok {
			entry.Path = path
			entry.MimeType = t.Artifact.MimeType
		}
		if t.Status == domain.StatusError {
			entry.Reason = t.ErrorMessage
		}
		entries = append(entries, entry)
	}

	content, err := json.MarshalIndent(manifest{
		Total:   run.Total,
		Subject: run.Base.Subject,
		Theme:   run.Base.ThemeModifiers,
		Shots:   entries,
	}, "", "  ")
	if err != nil {
		return published, fmt.Errorf("マニフェストのエンコードに失敗しました: %w", err)
	}

	// 3. マニフェストの書き出し
	manifestPath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultManifestName)
	if err != nil {
		return published, err
	}
	if err := p.writer.Write(ctx, manifestPath, bytes.NewReader(content), "application/json; charset=utf-8"); err != nil {
		return published, fmt.Errorf("マニフェストの書き込みに失敗しました: %w", err)
	}
	published.ManifestPath = manifestPath

	return published, nil
}
