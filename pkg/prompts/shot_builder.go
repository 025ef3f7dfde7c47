package prompts

import (
	"strings"

	"github.com/shouni/go-photoshoot-kit/pkg/domain"
)

// NegativeShotPrompt は全ショット共通で排除したい要素の指示です。
const NegativeShotPrompt = "text, letters, watermark, signature, username, collage, multiple subjects, extra objects, low quality, distorted, bad anatomy, cropped subject"

// subjectConsistencyNote は、全ショットで同一の被写体を維持させるための共通指示なのだ。
const subjectConsistencyNote = "same single subject in every shot, identical appearance, consistent colors and materials, photoshoot series"

// ShotPromptBuilder は被写体・テーマ・アングルから1ショット分のプロンプトを構築します。
type ShotPromptBuilder struct {
	styleSuffix string // "professional photography, high resolution" 等の共通サフィックス
}

// NewShotPromptBuilder は新しい ShotPromptBuilder を生成します。
func NewShotPromptBuilder(styleSuffix string) *ShotPromptBuilder {
	return &ShotPromptBuilder{styleSuffix: styleSuffix}
}

// BuildShotPrompt は1ショット分のポジティブ/ネガティブプロンプトを生成するのだ。
// 被写体説明 → テーマ修飾 → アングル指示 → 一貫性指示 → 画風サフィックス の順に
// 空要素を除いてカンマで結合するのだ。
func (b *ShotPromptBuilder) BuildShotPrompt(base domain.BaseRequest, angle string) (string, string) {
	parts := []string{
		base.Subject,
		base.ThemeModifiers,
		angle,
		subjectConsistencyNote,
		b.styleSuffix,
	}

	var cleanParts []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			cleanParts = append(cleanParts, s)
		}
	}

	return strings.Join(cleanParts, ", "), NegativeShotPrompt
}
