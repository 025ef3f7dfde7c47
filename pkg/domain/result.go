package domain

import (
	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// ShotArtifact は成功したショットの成果物です。
type ShotArtifact struct {
	Index int                     `json:"index"`
	Image *imagedom.ImageResponse `json:"-"`
}

// ShotFailure は失敗したショットのインデックスと理由です。
type ShotFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SequenceResult は settled したランの最終結果です。
// Succeeded と Failed のインデックスを合わせると、重複なく 0..Total-1 を
// ちょうど覆うことが保証されます。部分的な成功も正当な結果として報告されます。
type SequenceResult struct {
	Total     int            `json:"total"`
	Succeeded []ShotArtifact `json:"succeeded"`
	Failed    []ShotFailure  `json:"failed"`
}

// BuildSequenceResult は settled したランから Index 順の最終結果を組み立てるのだ。
// 完了順はバラバラでも、タスク列自体が Index 順なので並び替えは不要なのだ。
func BuildSequenceResult(run *SequenceRun) SequenceResult {
	result := SequenceResult{Total: run.Total}
	for _, t := range run.Tasks {
		switch t.Status {
		case StatusCompleted:
			result.Succeeded = append(result.Succeeded, ShotArtifact{Index: t.Index, Image: t.Artifact})
		case StatusError:
			result.Failed = append(result.Failed, ShotFailure{Index: t.Index, Reason: t.ErrorMessage})
		}
	}
	return result
}
