// Package prefetch fills a data directory with every level of the spending
// hierarchy so the CLI and server can run without touching the API.
//
// Files that already exist are kept; rerunning after a partial failure only
// fetches what is missing. Agencies are walked one at a time with a pause
// after each fresh agency fetch, and the accounts of one agency are fetched
// with bounded concurrency.
package prefetch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/spendinglol/spending/pkg/dataset"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/observability"
)

// Defaults.
const (
	DefaultDelay       = time.Second
	DefaultConcurrency = 4
)

// Options configures a prefetch run.
type Options struct {
	// Dir receives the level files.
	Dir *dataset.Dir
	// Source fetches levels that are not yet on disk.
	Source dataset.Source
	// Delay is the pause after each agency fetched from Source.
	Delay time.Duration
	// Concurrency bounds parallel account fetches within one agency.
	Concurrency int
	// Agencies limits the run to these agency ids. Empty means all.
	Agencies []string
	// Refresh rewrites files that already exist.
	Refresh bool
	Logger  *log.Logger
}

// Summary counts what a run did.
type Summary struct {
	Agencies int
	Accounts int
	Written  int
	Skipped  int
	Failed   int
}

// Run walks the hierarchy and writes missing level files. Per-agency
// failures are logged and counted; Run only returns an error when the top
// level cannot be loaded or ctx is canceled.
func Run(ctx context.Context, opts Options) (Summary, error) {
	opts.setDefaults()
	p := &prefetcher{opts: opts}

	top, err := p.level(ctx, hierarchy.Key{})
	if err != nil {
		return p.summary(), err
	}

	wanted := make(map[string]bool, len(opts.Agencies))
	for _, id := range opts.Agencies {
		wanted[id] = true
	}

	for _, rec := range top.Records(hierarchy.Key{}) {
		if len(wanted) > 0 && !wanted[rec.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return p.summary(), err
		}
		p.agencies.Add(1)
		if err := p.agency(ctx, rec); err != nil {
			if ctx.Err() != nil {
				return p.summary(), ctx.Err()
			}
			p.failed.Add(1)
			opts.Logger.Error("failed to process agency", "agency", rec.ID, "name", rec.Name, "err", err)
		}
	}
	return p.summary(), nil
}

func (o *Options) setDefaults() {
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

type prefetcher struct {
	opts     Options
	agencies atomic.Int64
	accounts atomic.Int64
	written  atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

func (p *prefetcher) summary() Summary {
	return Summary{
		Agencies: int(p.agencies.Load()),
		Accounts: int(p.accounts.Load()),
		Written:  int(p.written.Load()),
		Skipped:  int(p.skipped.Load()),
		Failed:   int(p.failed.Load()),
	}
}

func (p *prefetcher) agency(ctx context.Context, rec hierarchy.Record) error {
	key := hierarchy.Key{AgencyID: rec.ID}
	fetched := !p.opts.Dir.Exists(key) || p.opts.Refresh

	resp, err := p.level(ctx, key)
	if err != nil {
		return err
	}
	if fetched && p.opts.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.opts.Delay):
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for _, res := range resp.Results {
		if res.ID == "" {
			continue
		}
		child := hierarchy.Key{AgencyID: rec.ID, AccountID: string(res.ID)}
		p.accounts.Add(1)
		g.Go(func() error {
			_, err := p.level(gctx, child)
			return err
		})
	}
	return g.Wait()
}

// level returns the response at key, reading it from disk when present and
// fetching and saving it otherwise.
func (p *prefetcher) level(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error) {
	hooks := observability.Prefetch()
	if !p.opts.Refresh && p.opts.Dir.Exists(key) {
		p.skipped.Add(1)
		p.opts.Logger.Debug("using existing file", "level", key.String())
		resp, err := p.opts.Dir.Response(ctx, key)
		hooks.OnPrefetchLevel(ctx, key.String(), outcome(observability.PrefetchSkipped, err), len(resp.Results))
		return resp, err
	}

	p.opts.Logger.Debug("fetching", "level", key.String())
	resp, err := p.opts.Source.Response(ctx, key)
	if err == nil {
		err = p.opts.Dir.Write(key, resp)
	}
	hooks.OnPrefetchLevel(ctx, key.String(), outcome(observability.PrefetchWritten, err), len(resp.Results))
	if err != nil {
		return hierarchy.Response{}, err
	}
	p.written.Add(1)
	p.opts.Logger.Info("saved", "level", key.String(), "file", p.opts.Dir.FileName(key), "rows", len(resp.Results))
	return resp, nil
}

func outcome(ok string, err error) string {
	if err != nil {
		return observability.PrefetchFailed
	}
	return ok
}
