package treemap

import (
	"sync"

	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/hierarchy"
)

// View keeps a treemap in sync with its host. Each change to the records,
// the host width or the user's contribution triggers a fresh [Build] and a
// call to the redraw callback with the new layout.
//
// The height is fixed by the options; only the width follows the host.
// Call [View.Close] when the host goes away to release the contribution
// subscription; a closed view never redraws again.
type View struct {
	mu      sync.Mutex
	records []hierarchy.Record
	opts    Options
	redraw  func(Layout)
	current Layout
	cancel  func()
	closed  bool
	builds  int
}

// NewView builds the initial layout and calls redraw with it. When store is
// non-nil the view follows its changes.
func NewView(records []hierarchy.Record, opts Options, store *contribution.Store, redraw func(Layout)) *View {
	v := &View{records: records, opts: opts, redraw: redraw}
	if store != nil {
		v.opts.Personalize = store.Get()
		v.cancel = store.Subscribe(v.onContribution)
	}
	v.mu.Lock()
	v.rebuild()
	return v
}

func (v *View) onContribution(s contribution.State) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.opts.Personalize = s
	v.rebuild()
}

// SetRecords replaces the displayed records, e.g. after navigation.
func (v *View) SetRecords(records []hierarchy.Record) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.records = records
	v.rebuild()
}

// SetOptions replaces the options, keeping the current width and the
// followed contribution state.
func (v *View) SetOptions(opts Options) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	opts.Width = v.opts.Width
	opts.Personalize = v.opts.Personalize
	v.opts = opts
	v.rebuild()
}

// Resize reports a new host width. It recomputes only when the width
// actually changed and reports whether it did.
func (v *View) Resize(width float64) bool {
	v.mu.Lock()
	if v.closed || width == v.opts.Width {
		v.mu.Unlock()
		return false
	}
	v.opts.Width = width
	v.rebuild()
	return true
}

// Layout returns the most recent layout.
func (v *View) Layout() Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Builds returns how many times the layout has been computed.
func (v *View) Builds() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.builds
}

// Close stops following the contribution store. It is safe to call more
// than once.
func (v *View) Close() {
	v.mu.Lock()
	cancel := v.cancel
	v.cancel = nil
	v.closed = true
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// rebuild must be called with v.mu held; it releases the lock before
// calling redraw.
func (v *View) rebuild() {
	l := Build(v.records, v.opts)
	v.current = l
	v.builds++
	redraw := v.redraw
	v.mu.Unlock()
	if redraw != nil {
		redraw(l)
	}
}
