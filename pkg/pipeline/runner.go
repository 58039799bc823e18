package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brandqr/pkg/cache"
	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/observability"
	"github.com/matzehuels/brandqr/pkg/qr"
	"github.com/matzehuels/brandqr/pkg/render"
	"github.com/matzehuels/brandqr/pkg/share"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators; it doesn't store
// results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Encoder qr.Encoder
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	// Template is where share page templates come from. Nil uses the
	// built-in template.
	Template share.Source
}

// NewRunner creates a runner. A nil encoder uses the go-qrcode adapter, a
// nil cache disables caching and a nil keyer uses cache.DefaultKeyer.
func NewRunner(enc qr.Encoder, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if enc == nil {
		enc = qr.NewSkip2Encoder()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Encoder: enc,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// cachedVector is the cache payload of a rendered SVG. The matrix is
// recovered from the SVG path on a hit.
type cachedVector struct {
	Size int    `json:"size"`
	SVG  []byte `json:"svg"`
}

// Generate encodes opts.Text and renders it.
func (r *Runner) Generate(ctx context.Context, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cfg, err := opts.RenderConfig()
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, len(opts.Text), opts.ECC)
	start := time.Now()
	defer func() {
		size := 0
		if res != nil {
			size = res.Matrix.Size()
		}
		hooks.OnGenerateComplete(ctx, size, time.Since(start), err)
	}()

	res = &Result{
		Text:           opts.Text,
		Level:          opts.Level(),
		Config:         cfg,
		ClickRequested: opts.Clickable,
		CreatedAt:      time.Now(),
	}

	key := r.Keyer.VectorKey(opts.VectorKeyOpts())
	if !opts.Refresh && r.loadVector(ctx, key, res) {
		res.CacheInfo.VectorHit = true
		r.Logger.Debug("vector cache hit", "size", res.Matrix.Size())
		return res, nil
	}

	encodeStart := time.Now()
	m, err := r.Encoder.Encode(ctx, opts.Text, res.Level)
	if err != nil {
		return nil, err
	}
	res.Matrix = m
	res.Stats.EncodeTime = time.Since(encodeStart)

	renderStart := time.Now()
	if res.Geometry, err = render.Plan(m.Size(), cfg); err != nil {
		return nil, err
	}
	if res.Image, err = render.RenderSVG(m, cfg); err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("generated QR code",
		"modules", m.Size(),
		"ecc", res.Level,
		"size", res.Geometry.TotalSize,
		"duration", res.Stats.EncodeTime+res.Stats.RenderTime)

	if data, err := json.Marshal(cachedVector{Size: m.Size(), SVG: res.Image.SVG}); err == nil {
		r.store(ctx, key, data, cache.TTLVector)
	}
	return res, nil
}

// loadVector fills res from the cache. Corrupt entries count as misses.
func (r *Runner) loadVector(ctx context.Context, key string, res *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, observability.KeyType(key))
		return false
	}

	var cv cachedVector
	if err := json.Unmarshal(data, &cv); err != nil {
		return false
	}
	g, err := render.Plan(cv.Size, res.Config)
	if err != nil {
		return false
	}
	m, err := render.ParseModules(cv.SVG, g)
	if err != nil {
		r.Logger.Debug("discarding cached vector", "error", err)
		return false
	}

	observability.Cache().OnCacheHit(ctx, observability.KeyType(key))
	res.Matrix = m
	res.Geometry = g
	res.Image = render.VectorImage{SVG: cv.SVG, Width: g.TotalSize, Height: g.TotalSize}
	return true
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", observability.KeyType(key), "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, observability.KeyType(key), len(data))
}

// ExportPNG rasterizes res at render.Supersample times its size. A failed
// export leaves res untouched and can be retried.
func (r *Runner) ExportPNG(ctx context.Context, res *Result) (data []byte, err error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to export, generate a QR code first")
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, string(render.KindPNG))
	start := time.Now()
	defer func() {
		hooks.OnExportComplete(ctx, string(render.KindPNG), len(data), time.Since(start), err)
	}()

	key := r.Keyer.RasterKey(cache.Hash(res.Image.SVG), render.Supersample)
	if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, observability.KeyType(key))
		return cached, nil
	}
	observability.Cache().OnCacheMiss(ctx, observability.KeyType(key))

	total := res.Geometry.TotalSize
	data, err = render.ToPNG(ctx, res.Image,
		render.WithScale(render.Supersample),
		render.WithBackground(res.Config.Background),
		render.WithFallbackSize(func() (float64, error) {
			if total <= 0 {
				return 0, fmt.Errorf("no geometry for fallback size")
			}
			return total, nil
		}),
	)
	if err != nil {
		r.Logger.Warn("PNG export failed", "error", err)
		return nil, err
	}

	r.Logger.Info("exported PNG", "bytes", len(data), "duration", time.Since(start))
	r.store(ctx, key, data, cache.TTLRaster)
	return data, nil
}

// Share builds the share page for res. Template problems fall back to the
// built-in template, so Share never fails.
func (r *Runner) Share(ctx context.Context, res *Result) share.Document {
	tmpl := share.LoadTemplate(ctx, r.Template, r.Logger)
	in := share.Input{Text: res.Text, Image: res.Image, Caption: res.Config.Caption}
	doc := share.NewBuilder(tmpl).Build(in)
	observability.Pipeline().OnShare(ctx, doc.IsURL, len(doc.HTML))
	return doc
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
