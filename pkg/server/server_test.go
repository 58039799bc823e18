package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brandqr/pkg/cache"
	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/share"
)

func testConfig() Config {
	return Config{
		Addr:         ":0",
		Cache:        CacheNone,
		ShareStore:   StoreMemory,
		ShareTTL:     time.Hour,
		MaxLogoBytes: 1 << 20,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, cache.NewMemoryCache(), nil, logger)
	s := New(testConfig(), runner, share.NewMemoryStore(), logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/qr", map[string]any{
		"text":      "example.com",
		"ecc":       "L",
		"clickable": true,
		"caption":   map[string]any{"text": "Acme"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got generateResponse
	decodeBody(t, resp, &got)
	if !strings.Contains(got.SVG, "<svg") || got.Width != 290 || got.Modules != 21 {
		t.Errorf("response = %+v", got)
	}
	if !got.Clickable || got.Link != "https://example.com" {
		t.Errorf("clickable = %v link = %q", got.Clickable, got.Link)
	}
	if !strings.HasPrefix(got.Filename, "qr-code-acme-") || !strings.HasSuffix(got.Filename, ".svg") {
		t.Errorf("filename = %q", got.Filename)
	}
}

func TestGenerateErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   any
		status int
		code   errors.Code
	}{
		{"empty text", map[string]any{"text": "  "}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad scale", map[string]any{"text": "x", "scale": -2}, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"bad color", map[string]any{"text": "x", "fg": "blue"}, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"scale above limit", map[string]any{"text": "x", "scale": 500}, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"border above limit", map[string]any{"text": "x", "border": 1000}, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"unknown field", map[string]any{"text": "x", "colour": "#000"}, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"too long", map[string]any{"text": strings.Repeat("x", 2900), "ecc": "H"}, http.StatusUnprocessableEntity, errors.ErrCodeEncode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/qr", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			decodeBody(t, resp, &body)
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
		})
	}
}

func TestSVGDownload(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/qr.svg?text=hello&border=0&scale=2&caption=Acme%20Corp")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "qr-code-acme-corp-") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("<?xml")) {
		t.Errorf("body = %.60q", body)
	}
}

func TestSVGDownloadBadQuery(t *testing.T) {
	ts := newTestServer(t)
	for _, q := range []string{"text=x&scale=big", "text=x&border=1.5", "text=x&clickable=maybe", "text=x&caption=a&caption_size=huge"} {
		resp, err := http.Get(ts.URL + "/api/qr.svg?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestPNGDownload(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/qr.png?text=hello&ecc=L&scale=1&border=0")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 84 || b.Dy() != 84 {
		t.Errorf("bounds = %v, want 84x84", b)
	}
}

func TestPNGDownloadRejectsOversizedGeometry(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name  string
		query string
	}{
		{"astronomical scale", "text=a&scale=1e300"},
		{"scale above limit", "text=a&scale=500"},
		{"border above limit", "text=a&border=1000"},
		{"raster above limit", "text=hello&scale=64&border=64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/qr.png?" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body errorBody
			decodeBody(t, resp, &body)
			if body.Error.Code != errors.ErrCodeInvalidConfig {
				t.Errorf("code = %s, want %s", body.Error.Code, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestShareFlow(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/share", map[string]any{
		"text":    "https://go.dev",
		"caption": map[string]any{"text": "<Gophers>"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var created shareResponse
	decodeBody(t, resp, &created)
	if !share.ValidID(created.ID) || created.URL != ts.URL+"/s/"+created.ID {
		t.Fatalf("created = %+v", created)
	}
	if !strings.HasPrefix(created.WhatsApp, "https://wa.me/?text=") {
		t.Errorf("whatsapp = %q", created.WhatsApp)
	}

	page, err := http.Get(created.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer page.Body.Close()
	if page.StatusCode != http.StatusOK {
		t.Fatalf("page status = %d", page.StatusCode)
	}
	if ct := page.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if csp := page.Header.Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'none'") {
		t.Errorf("CSP = %q", csp)
	}
	html, _ := io.ReadAll(page.Body)
	if !bytes.Contains(html, []byte("&lt;Gophers&gt;")) || bytes.Contains(html, []byte("<Gophers>")) {
		t.Error("caption not escaped in share page")
	}
}

func TestSharePageNotFound(t *testing.T) {
	ts := newTestServer(t)
	for _, id := range []string{share.GenerateID(), "nope"} {
		resp, err := http.Get(ts.URL + "/s/" + id)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET /s/%s = %d, want 404", id, resp.StatusCode)
		}
	}
}

func TestClassify(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		text string
		want classifyResponse
	}{
		{"example.com", classifyResponse{IsURL: true, WebLink: true, Normalized: "https://example.com"}},
		{"mailto:a@b.c", classifyResponse{IsURL: true, WebLink: false, Normalized: "mailto:a@b.c"}},
		{"hello world", classifyResponse{IsURL: false, WebLink: false, Normalized: "hello world"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/classify", classifyRequest{Text: tt.text})
			var got classifyResponse
			decodeBody(t, resp, &got)
			if got != tt.want {
				t.Errorf("classify(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLogoBytes = 1
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(cfg, pipeline.NewRunner(nil, nil, nil, logger), share.NewMemoryStore(), logger)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	big := map[string]any{"text": strings.Repeat("a", 100<<10)}
	resp := postJSON(t, ts.URL+"/api/qr", big)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, 400},
		{errors.ErrCodeInvalidConfig, 400},
		{errors.ErrCodeInvalidTemplate, 400},
		{errors.ErrCodeNotFound, 404},
		{errors.ErrCodeEncode, 422},
		{errors.ErrCodeExport, 500},
		{errors.ErrCodeInternal, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := statusFor(tt.code); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
