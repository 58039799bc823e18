// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. Libraries emit events
// through the registered hooks; main decides what receives them. The
// defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnGenerateStart(ctx, len(text), level)
//	// ... encode and render ...
//	observability.Pipeline().OnGenerateComplete(ctx, size, duration, err)
package observability

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the generate/export/share pipeline.
type PipelineHooks interface {
	OnGenerateStart(ctx context.Context, textLen int, ecc string)
	OnGenerateComplete(ctx context.Context, matrixSize int, duration time.Duration, err error)

	OnExportStart(ctx context.Context, format string)
	OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error)

	OnShare(ctx context.Context, isURL bool, size int)
}

// CacheHooks receives events from cache operations. keyType is the key
// prefix ("svg", "png", "tmpl", "share").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from outgoing HTTP requests (remote templates).
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure or timeout.
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop implementations, used until hooks are registered.
type (
	NoopPipelineHooks struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopPipelineHooks) OnGenerateStart(context.Context, int, string)                        {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnExportStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnShare(context.Context, bool, int)                                  {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// registry is the set of hooks in effect. It is replaced as a whole, so
// readers never see a partial update.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func load() registry { return *current.Load() }

func update(fn func(*registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

func Pipeline() PipelineHooks { return load().pipeline }
func Cache() CacheHooks       { return load().cache }
func HTTP() HTTPHooks         { return load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}

// KeyType returns the prefix of a cache key ("svg:ab12..." -> "svg").
func KeyType(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
