package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spendinglol/spending/pkg/cache"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/observability"
)

// Loader supplies hierarchy levels. [dataset.Loader] implements it.
type Loader interface {
	Level(ctx context.Context, key hierarchy.Key) (hierarchy.Level, error)
}

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Loader Loader
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects [cache.NewDefaultKeyer].
func NewRunner(loader Loader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Loader: loader,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	level, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Level = level
	result.Stats.Records = len(level.Records)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit
	if data, err := json.Marshal(level); err == nil {
		result.LevelHash = cache.Hash(data)
	}

	r.Logger.Info("loaded level",
		"level", opts.Key.String(),
		"records", len(level.Records),
		"cached", loadHit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	if err := r.layout(ctx, result, opts); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Debug("computed layout",
		"view", opts.View,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the level at opts.Key and reports whether it came
// from the cache. Refresh skips the cache read but still stores the result.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (hierarchy.Level, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return hierarchy.Level{}, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnLoadStart(ctx, opts.Key.String())
	start := time.Now()

	cacheKey := r.Keyer.LevelKey(opts.FiscalYear, opts.Key.String())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var level hierarchy.Level
			if err := json.Unmarshal(data, &level); err == nil {
				cacheHooks.OnCacheHit(ctx, "level")
				hooks.OnLoadComplete(ctx, opts.Key.String(), len(level.Records), time.Since(start), nil)
				return level, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "level")
	}

	level, err := r.Loader.Level(ctx, opts.Key)
	hooks.OnLoadComplete(ctx, opts.Key.String(), len(level.Records), time.Since(start), err)
	if err != nil {
		return hierarchy.Level{}, false, err
	}

	if data, err := json.Marshal(level); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLLevel) == nil {
			cacheHooks.OnCacheSet(ctx, "level", len(data))
		}
	}
	return level, false, nil
}

// Load is LoadWithCacheInfo without the cache hit flag.
func (r *Runner) Load(ctx context.Context, opts Options) (hierarchy.Level, error) {
	level, _, err := r.LoadWithCacheInfo(ctx, opts)
	return level, err
}

func (r *Runner) layout(ctx context.Context, result *Result, opts Options) (err error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.View, len(result.Level.Records))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, opts.View, time.Since(start), err) }()

	switch opts.View {
	case ViewTree:
		l := BuildTreemap(result.Level, opts)
		result.Treemap = &l
	case ViewTable:
		t, err := BuildTable(result.Level, opts)
		if err != nil {
			return err
		}
		result.Table = &t
	}
	return nil
}

// RenderWithCacheInfo renders every requested format of an executed
// layout, serving all of them from the cache when each one is present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()

	levelHash := result.LevelHash
	if levelHash == "" {
		data, err := json.Marshal(result.Level)
		if err != nil {
			return nil, false, fmt.Errorf("serialize level for cache key: %w", err)
		}
		levelHash = cache.Hash(data)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(levelHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	rendered, err := r.Render(ctx, result, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(levelHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render renders without consulting the cache.
func (r *Runner) Render(ctx context.Context, result *Result, opts Options) (out map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	switch opts.View {
	case ViewTree:
		l := result.Treemap
		if l == nil {
			built := BuildTreemap(result.Level, opts)
			l = &built
		}
		return RenderTreemap(ctx, *l, opts)
	case ViewTable:
		t := result.Table
		if t == nil {
			built, err := BuildTable(result.Level, opts)
			if err != nil {
				return nil, err
			}
			t = &built
		}
		return RenderTable(*t, opts)
	default:
		return RenderNodelink(ctx, result.Level, opts)
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
