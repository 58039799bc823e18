package share

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/brandqr/pkg/cache"
)

const validTemplate = "<html>{{TITLE}}{{SUBTITLE}}{{QR_SVG}}{{BRAND_TEXT}}{{TARGET_URL}}{{NORMALIZED_URL}}</html>"

func TestParseSource(t *testing.T) {
	if ParseSource("") != nil {
		t.Error("empty string should give nil source")
	}
	if _, ok := ParseSource("https://x.test/t.html").(*HTTPSource); !ok {
		t.Error("https URL should give HTTPSource")
	}
	if _, ok := ParseSource("./share.html").(FileSource); !ok {
		t.Error("path should give FileSource")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.html")
	if err := os.WriteFile(path, []byte(validTemplate), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != validTemplate {
		t.Errorf("Load = %q", got)
	}

	if _, err := (FileSource{Path: path + ".missing"}).Load(context.Background()); err == nil {
		t.Error("missing file should fail")
	}
}

func TestHTTPSourceCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(validTemplate))
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL, Client: srv.Client(), Cache: cache.NewMemoryCache()}
	for range 3 {
		got, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got != validTemplate {
			t.Fatalf("Load = %q", got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestHTTPSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL, Client: srv.Client()}
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("404 should fail")
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.html")
	bad := filepath.Join(dir, "bad.html")
	os.WriteFile(good, []byte(validTemplate), 0644)
	os.WriteFile(bad, []byte("<p>{{TITLE}}</p>"), 0644)

	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"nil", nil, DefaultTemplate},
		{"valid", FileSource{Path: good}, validTemplate},
		{"incomplete", FileSource{Path: bad}, DefaultTemplate},
		{"missing", FileSource{Path: filepath.Join(dir, "nope.html")}, DefaultTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoadTemplate(context.Background(), tt.src, nil); got != tt.want {
				t.Errorf("LoadTemplate() = %.40q, want %.40q", got, tt.want)
			}
		})
	}
}
