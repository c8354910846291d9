package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/styletower/pkg/cache"
	"github.com/matzehuels/styletower/pkg/catalog"
	"github.com/matzehuels/styletower/pkg/observability"
	"github.com/matzehuels/styletower/pkg/ssr"
)

// Runner executes the pipeline against one catalog and cache.
//
// The Runner holds no per-render state, so one Runner can serve many
// goroutines.
type Runner struct {
	Catalog *catalog.Catalog
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(cat *catalog.Catalog, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Catalog: cat, Cache: c, Keyer: keyer, Logger: logger}
}

// Execute renders opts.Component into a page, serving it from the cache when
// possible. Cache failures are logged and never fail the render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	def, err := r.Catalog.Lookup(opts.Component)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		data, hit, err := cache.LoadPage(ctx, r.Cache, r.Keyer, opts.Component, opts.Props)
		switch {
		case err != nil:
			r.Logger.Warn("page cache lookup failed", "component", opts.Component, "err", err)
		case hit:
			r.Logger.Debug("page cache hit", "component", opts.Component)
			return &Result{Page: data, Cached: true}, nil
		}
	}

	observability.Render().OnRenderStart(ctx, opts.Component)
	start := time.Now()

	sc := ssr.NewContext(ssr.Options{Tag: opts.Tag})
	el, err := sc.Render(def, opts.styledProps())
	elapsed := time.Since(start)
	observability.Render().OnRenderComplete(ctx, opts.Component, len(sc.Blocks()), elapsed, err)
	if err != nil {
		return nil, err
	}

	data, err := page(opts.Component, el.ClassName(), sc.HTML())
	if err != nil {
		return nil, err
	}
	result := &Result{
		Page:       data,
		Blocks:     sc.Blocks(),
		ClassName:  el.ClassName(),
		RenderTime: elapsed,
	}
	r.Logger.Info("rendered component",
		"component", opts.Component,
		"blocks", len(result.Blocks),
		"duration", elapsed)

	if err := cache.StoreBlocks(ctx, r.Cache, r.Keyer, result.Blocks, opts.TTL); err != nil {
		r.Logger.Warn("store blocks failed", "component", opts.Component, "err", err)
	}
	if err := cache.StorePage(ctx, r.Cache, r.Keyer, opts.Component, opts.Props, data, opts.TTL); err != nil {
		r.Logger.Warn("store page failed", "component", opts.Component, "err", err)
	}
	return result, nil
}

// Block returns the CSS of a previously emitted block.
func (r *Runner) Block(ctx context.Context, token string) (string, error) {
	return cache.LoadBlock(ctx, r.Cache, r.Keyer, token)
}
