package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Exported PNG (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnGenerateStart(_ context.Context, textLen int, ecc string) {
	h.logger.Debug("generate start", "bytes", textLen, "ecc", ecc)
}

func (h logHooks) OnGenerateComplete(_ context.Context, matrixSize int, d time.Duration, err error) {
	h.logger.Debug("generate done", "modules", matrixSize, "duration", d, "error", err)
}

func (h logHooks) OnExportStart(_ context.Context, format string) {
	h.logger.Debug("export start", "format", format)
}

func (h logHooks) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("export done", "format", format, "bytes", size, "duration", d, "error", err)
}

func (h logHooks) OnShare(_ context.Context, isURL bool, size int) {
	h.logger.Debug("share page built", "url", isURL, "bytes", size)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "host", host, "path", path, "error", err)
}
