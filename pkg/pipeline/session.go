package pipeline

import (
	"context"
	"sync"

	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/share"
)

// Session holds the current result of an interactive user. Generate
// replaces it atomically; exports work on the snapshot taken when they
// start, so a concurrent regeneration never changes an in-flight export.
type Session struct {
	runner *Runner

	mu      sync.RWMutex
	current *Result
}

// NewSession creates an empty session backed by runner.
func NewSession(runner *Runner) *Session {
	return &Session{runner: runner}
}

// Current returns the latest result, or nil before the first generation.
func (s *Session) Current() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Generate runs the pipeline and makes the result current. On error the
// previous result stays current.
func (s *Session) Generate(ctx context.Context, opts Options) (*Result, error) {
	res, err := s.runner.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = res
	s.mu.Unlock()
	return res, nil
}

// Clear drops the current result.
func (s *Session) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// ExportPNG exports the current result.
func (s *Session) ExportPNG(ctx context.Context) ([]byte, error) {
	return s.runner.ExportPNG(ctx, s.Current())
}

// Share builds a share page for the current result.
func (s *Session) Share(ctx context.Context) (share.Document, error) {
	res := s.Current()
	if res == nil {
		return share.Document{}, errors.New(errors.ErrCodeInvalidInput, "nothing to share, generate a QR code first")
	}
	return s.runner.Share(ctx, res), nil
}
