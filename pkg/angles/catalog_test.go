package angles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestCatalog_Suggestions(t *testing.T) {
	t.Run("リモートが死んでいても組み込みリストで動くのだ", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		catalog := NewCatalog(server.Client(), server.URL)
		got := catalog.Suggestions(context.Background())

		if !reflect.DeepEqual(got, DefaultShotList) {
			t.Errorf("組み込みリストへフォールバックするはずなのだ: %v", got)
		}
	})

	t.Run("エンドポイント未設定なら常に組み込みリストなのだ", func(t *testing.T) {
		catalog := NewCatalog(nil, "")
		got := catalog.Suggestions(context.Background())

		if !reflect.DeepEqual(got, DefaultShotList) {
			t.Errorf("組み込みリストになるはずなのだ: %v", got)
		}
	})

	t.Run("リモートのエントリが先頭から上書きされるのだ", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"angles": ["remote front", "remote side"]}`))
		}))
		defer server.Close()

		catalog := NewCatalog(server.Client(), server.URL)
		got := catalog.Suggestions(context.Background())

		if got[0] != "remote front" || got[1] != "remote side" {
			t.Errorf("リモートのエントリが優先されるはずなのだ: %v", got[:2])
		}
		if len(got) != len(DefaultShotList) {
			t.Errorf("残りは組み込みリストで補完されるはずなのだ: %d", len(got))
		}
	})

	t.Run("フォールバック結果を書き換えても組み込みリストは汚れないのだ", func(t *testing.T) {
		catalog := NewCatalog(nil, "")
		got := catalog.Suggestions(context.Background())
		got[0] = "changed"

		if DefaultShotList[0] == "changed" {
			t.Error("組み込みリストが書き換わってしまったのだ")
		}
	})
}
