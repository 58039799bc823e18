package share

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brandqr/pkg/cache"
	"github.com/matzehuels/brandqr/pkg/httputil"
)

// MaxTemplateBytes caps template files and downloads.
const MaxTemplateBytes = 1 << 20

// Source supplies a share template.
type Source interface {
	Load(ctx context.Context) (string, error)
	String() string
}

// ParseSource returns an HTTPSource for http(s) URLs, a FileSource for any
// other non-empty string and nil for "".
func ParseSource(s string) Source {
	switch {
	case s == "":
		return nil
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return &HTTPSource{URL: s}
	}
	return FileSource{Path: s}
}

// FileSource reads a template from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxTemplateBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxTemplateBytes {
		return "", fmt.Errorf("template %s exceeds %d bytes", s.Path, MaxTemplateBytes)
	}
	return string(data), nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource downloads a template, retrying transient failures. When Cache
// is set, successful downloads are kept for cache.TTLTemplate.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
}

func (s *HTTPSource) Load(ctx context.Context) (string, error) {
	key := ""
	if s.Cache != nil {
		keyer := s.Keyer
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		key = keyer.TemplateKey(s.URL)
		if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
			return string(data), nil
		}
	}

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = httputil.Fetch(ctx, s.Client, s.URL, MaxTemplateBytes)
		return err
	})
	if err != nil {
		return "", err
	}

	if s.Cache != nil {
		_ = s.Cache.Set(ctx, key, body, cache.TTLTemplate)
	}
	return string(body), nil
}

func (s *HTTPSource) String() string { return s.URL }

// LoadTemplate loads a template from src. Load errors and templates missing
// a placeholder are logged at debug level and replaced by DefaultTemplate;
// the result is always usable. A nil src or logger is allowed.
func LoadTemplate(ctx context.Context, src Source, logger *log.Logger) string {
	if src == nil {
		return DefaultTemplate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tmpl, err := src.Load(ctx)
	if err != nil {
		logger.Debug("share template unavailable, using built-in", "source", src.String(), "error", err)
		return DefaultTemplate
	}
	if err := ValidateTemplate(tmpl); err != nil {
		logger.Debug("share template rejected, using built-in", "source", src.String(), "error", err)
		return DefaultTemplate
	}
	logger.Debug("share template loaded", "source", src.String(), "bytes", len(tmpl))
	return tmpl
}
