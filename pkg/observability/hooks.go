// Package observability lets the binary attach metrics to the pipeline,
// the cache, upstream HTTP calls and prefetch runs without those packages
// importing a metrics backend.
//
// Libraries emit events through the installed hooks:
//
//	observability.Pipeline().OnLoadStart(ctx, key.String())
//	// ... load the level ...
//	observability.Pipeline().OnLoadComplete(ctx, key.String(), len(records), time.Since(start), err)
//
// The binary installs one [Hooks] set at startup; the prometheus subpackage
// provides one. Until then every hook is a no-op.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the load → layout → render pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, level string)
	OnLoadComplete(ctx context.Context, level string, records int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, view string, records int)
	OnLayoutComplete(ctx context.Context, view string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is "level", "artifact" or "http".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from upstream API calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, status int, duration time.Duration)
	// OnError records a transport failure (no response received).
	OnError(ctx context.Context, method, host, path string, err error)
}

// Prefetch outcomes for one level file.
const (
	PrefetchWritten = "written"
	PrefetchSkipped = "skipped"
	PrefetchFailed  = "failed"
)

// PrefetchHooks receives one event per level the prefetcher visits.
type PrefetchHooks interface {
	OnPrefetchLevel(ctx context.Context, level, outcome string, rows int)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

type NoopPrefetchHooks struct{}

func (NoopPrefetchHooks) OnPrefetchLevel(context.Context, string, string, int) {}

// Hooks is the set of event sinks installed together. Nil fields are
// no-ops.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
	Prefetch PrefetchHooks
}

func (h Hooks) withDefaults() *Hooks {
	if h.Pipeline == nil {
		h.Pipeline = NoopPipelineHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	if h.Prefetch == nil {
		h.Prefetch = NoopPrefetchHooks{}
	}
	return &h
}

var installed atomic.Pointer[Hooks]

func init() { Reset() }

// Install replaces every hook at once. Readers see either the old set or
// the new one, never a mix.
func Install(h Hooks) {
	installed.Store(h.withDefaults())
}

// Reset restores the no-op hooks.
func Reset() {
	Install(Hooks{})
}

// Installed returns the current hook set.
func Installed() Hooks {
	return *installed.Load()
}

func Pipeline() PipelineHooks { return installed.Load().Pipeline }
func Cache() CacheHooks       { return installed.Load().Cache }
func HTTP() HTTPHooks         { return installed.Load().HTTP }
func Prefetch() PrefetchHooks { return installed.Load().Prefetch }
