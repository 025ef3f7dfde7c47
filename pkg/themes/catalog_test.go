package themes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCatalog_ResolveModifier(t *testing.T) {
	catalog := NewCatalog(nil, "")

	t.Run("既知のテーマIDは修飾テキストに解決されるのだ", func(t *testing.T) {
		got := catalog.ResolveModifier(context.Background(), "noir")
		if got == "noir" || got == "" {
			t.Errorf("IDがModifierへ解決されていないのだ: %q", got)
		}
	})

	t.Run("未知の文字列はリテラルの修飾テキストとして通すのだ", func(t *testing.T) {
		got := catalog.ResolveModifier(context.Background(), "underwater, caustic light")
		if got != "underwater, caustic light" {
			t.Errorf("リテラルがそのまま通るはずなのだ: %q", got)
		}
	})

	t.Run("空指定は既定テーマに落ちるのだ", func(t *testing.T) {
		got := catalog.ResolveModifier(context.Background(), "  ")
		if got != defaultThemes[0].Modifier {
			t.Errorf("既定テーマのModifierになるはずなのだ: %q", got)
		}
	})
}

func TestCatalog_List(t *testing.T) {
	t.Run("リモート障害時はローカル既定セットだけで動くのだ", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		catalog := NewCatalog(server.Client(), server.URL)
		got := catalog.List(context.Background())

		if len(got) != len(defaultThemes) {
			t.Errorf("既定セットと同数になるはずなのだ: %d", len(got))
		}
	})

	t.Run("同じIDはリモート側が勝ち、新規IDは追加されるのだ", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id": "studio", "name": "Remote Studio", "modifier": "remote studio modifier"},
				{"id": "cyberpunk", "name": "Cyberpunk", "modifier": "neon lights, rain"}
			]`))
		}))
		defer server.Close()

		catalog := NewCatalog(server.Client(), server.URL)
		got := catalog.List(context.Background())

		if len(got) != len(defaultThemes)+1 {
			t.Fatalf("新規ID分だけ増えるはずなのだ: %d", len(got))
		}
		for _, theme := range got {
			if theme.ID == "studio" && theme.Modifier != "remote studio modifier" {
				t.Errorf("リモート側が優先されていないのだ: %+v", theme)
			}
		}
	})
}
