package content

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/you/deenreels/internal/config"
)

func testConfig(apiBase string) config.Config {
	cfg := config.Load()
	cfg.HadithAPIBase = apiBase
	cfg.MaxRetries = 0
	cfg.HadithBooks = []string{"bukhari"}
	return cfg
}

func TestHadithFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/books/bukhari") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"code": 200,
			"data": {
				"name": "HR. Bukhari",
				"hadiths": [
					{"number": 42, "arab": "النية", "en": "Actions are by intentions."}
				]
			}
		}`))
	}))
	defer srv.Close()

	p := NewHadithProvider(testConfig(srv.URL), rand.New(rand.NewSource(1)))
	unit, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if unit.Kind != KindHadith {
		t.Errorf("Kind = %q, want hadith", unit.Kind)
	}
	if len(unit.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(unit.Items))
	}
	it := unit.Items[0]
	if it.Number != 42 || it.SourceName != "HR. Bukhari" {
		t.Errorf("item attribution = %q #%d", it.SourceName, it.Number)
	}
	if !strings.Contains(unit.Caption, "HR. Bukhari") || !strings.Contains(unit.Caption, "#42") {
		t.Errorf("caption missing book/number: %q", unit.Caption)
	}
	if it.EstDuration <= 0 {
		t.Errorf("EstDuration = %f, want > 0", it.EstDuration)
	}
}

func TestHadithFetchSkipsIncompleteEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"code": 200,
			"data": {
				"name": "HR. Bukhari",
				"hadiths": [
					{"number": 1, "arab": "نص", "en": ""},
					{"number": 2, "arab": "", "en": "text"},
					{"number": 3, "arab": "نص", "en": "Only complete entry."}
				]
			}
		}`))
	}))
	defer srv.Close()

	p := NewHadithProvider(testConfig(srv.URL), rand.New(rand.NewSource(7)))
	unit, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if unit.Items[0].Number != 3 {
		t.Errorf("picked hadith #%d, want the only complete one (#3)", unit.Items[0].Number)
	}
}

func TestHadithFetchServerErrorExhaustsRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1
	p := NewHadithProvider(cfg, rand.New(rand.NewSource(1)))

	unit, err := p.Fetch(context.Background())
	if err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if unit != nil {
		t.Errorf("unit = %+v, want nil", unit)
	}
	if attempts != 2 {
		t.Errorf("server saw %d attempts, want 2 (initial + 1 retry)", attempts)
	}
}

func TestHadithFetchAPICode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 404, "data": {"name": "", "hadiths": []}}`))
	}))
	defer srv.Close()

	p := NewHadithProvider(testConfig(srv.URL), rand.New(rand.NewSource(1)))
	if _, err := p.Fetch(context.Background()); err == nil {
		t.Fatal("want error on non-200 API code")
	}
}
