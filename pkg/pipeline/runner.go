package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/molview/pkg/cache"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner doesn't store pipeline results. Multiple goroutines can safely
// use the same Runner with different options; identical concurrent layout
// requests are collapsed into one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind default lifetimes when non-zero.
	TTL time.Duration

	layouts singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	st, layoutHit, err := r.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Structure = st
	result.Topology = molecule.Analyze(st)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.AtomCount = len(st.Atoms)
	result.Stats.BondCount = len(st.Bonds)
	result.CacheInfo.LayoutHit = layoutHit
	result.CacheInfo.Reference = opts.Reference != ""
	result.StructureHash = structureHash(st)

	opts.Logger.Info("computed layout",
		"atoms", result.Stats.AtomCount,
		"bonds", result.Stats.BondCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, st, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo resolves the structure with caching and returns cache hit info.
// Reference molecules are static data and bypass the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (molecule.Structure, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return molecule.Structure{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Description())
	start := time.Now()

	if opts.Reference != "" {
		st, err := Resolve(opts)
		hooks.OnLayoutComplete(ctx, len(st.Atoms), len(st.Bonds), false, time.Since(start), err)
		return st, false, err
	}

	type layoutResult struct {
		st  molecule.Structure
		hit bool
	}

	// A refresh must not join a flight that may return a cached layout.
	cacheKey := r.Keyer.LayoutKey(opts.Source)
	flightKey := cacheKey
	if opts.Refresh {
		flightKey += "|refresh"
	}
	v, err, shared := r.layouts.Do(flightKey, func() (any, error) {
		if !opts.Refresh {
			if st, ok := r.cachedLayout(ctx, cacheKey); ok {
				return layoutResult{st: st, hit: true}, nil
			}
		}

		st, err := Resolve(opts)
		if err != nil {
			return nil, err
		}
		r.store(ctx, "layout", cacheKey, r.ttl(cache.TTLLayout), func() ([]byte, error) {
			return molecule.MarshalStructure(st)
		})
		return layoutResult{st: st}, nil
	})
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, false, time.Since(start), err)
		return molecule.Structure{}, false, err
	}

	res := v.(layoutResult)
	st := res.st
	if shared {
		st = st.Clone()
		opts.Logger.Debug("layout shared with concurrent request", "source", opts.Source)
	}
	hooks.OnLayoutComplete(ctx, len(st.Atoms), len(st.Bonds), res.hit, time.Since(start), nil)
	return st, res.hit, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (molecule.Structure, error) {
	st, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return st, err
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (molecule.Structure, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "layout")
		return molecule.Structure{}, false
	}
	st, err := molecule.UnmarshalStructure(data)
	if err != nil {
		// Unreadable entry: recompute
		hooks.OnCacheMiss(ctx, "layout")
		return molecule.Structure{}, false
	}
	hooks.OnCacheHit(ctx, "layout")
	return st, true
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Formats missing from the cache are rendered concurrently.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, st molecule.Structure, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	hash := structureHash(st)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, true, time.Since(start), nil)
		return artifacts, true, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range missing {
		g.Go(func() error {
			data, err := RenderFormat(gctx, st, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, false, time.Since(start), err)
		return nil, false, err
	}

	for _, format := range missing {
		data := artifacts[format]
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, r.ttl(cache.TTLArtifact), func() ([]byte, error) { return data, nil })
	}

	opts.Logger.Debug("rendered formats", "rendered", sorted(missing), "cached", len(opts.Formats)-len(missing))
	hooks.OnRenderComplete(ctx, opts.Formats, false, time.Since(start), nil)
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, st molecule.Structure, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, st, opts)
	return artifacts, err
}

// store writes an entry. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, ttl time.Duration, encode func() ([]byte, error)) {
	data, err := encode()
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// structureHash is the content hash used in artifact keys.
func structureHash(st molecule.Structure) string {
	data, err := molecule.MarshalStructure(st)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
