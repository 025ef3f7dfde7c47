package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-photoshoot-kit/pkg/domain"
)

func TestShotPromptBuilder_BuildShotPrompt(t *testing.T) {
	builder := NewShotPromptBuilder("studio quality, high resolution")

	t.Run("被写体・テーマ・アングル・画風の順に合成されるのだ", func(t *testing.T) {
		base := domain.BaseRequest{
			Subject:        "red leather handbag",
			ThemeModifiers: "editorial lighting",
		}
		positive, negative := builder.BuildShotPrompt(base, "three-quarter view")

		for _, part := range []string{"red leather handbag", "editorial lighting", "three-quarter view", "studio quality"} {
			if !strings.Contains(positive, part) {
				t.Errorf("%q がプロンプトに含まれていないのだ: %q", part, positive)
			}
		}
		subjectPos := strings.Index(positive, "red leather handbag")
		anglePos := strings.Index(positive, "three-quarter view")
		if subjectPos > anglePos {
			t.Error("被写体がアングルより先に来るはずなのだ")
		}
		if negative != NegativeShotPrompt {
			t.Errorf("ネガティブプロンプトが違うのだ: %q", negative)
		}
	})

	t.Run("空の要素はスキップされるのだ", func(t *testing.T) {
		positive, _ := builder.BuildShotPrompt(domain.BaseRequest{Subject: "subject"}, "")
		if strings.Contains(positive, ", ,") || strings.HasSuffix(positive, ", ") {
			t.Errorf("空要素の跡が残っているのだ: %q", positive)
		}
	})

	t.Run("全ショット共通の一貫性指示が入るのだ", func(t *testing.T) {
		positive, _ := builder.BuildShotPrompt(domain.BaseRequest{Subject: "subject"}, "front view")
		if !strings.Contains(positive, "same single subject") {
			t.Errorf("一貫性指示が含まれていないのだ: %q", positive)
		}
	})
}
