// Package contribution holds the user's personal contribution amount and the
// personalize toggle.
//
// A [Store] is created once per session and handed to every component that
// computes a "from you" figure. It is never a package-level global: the CLI
// creates one per run and the HTTP server one per browser session.
package contribution

import (
	"math"
	"sync"

	"github.com/spendinglol/spending/pkg/budget"
)

// DefaultAmount is the contribution a new session starts with.
const DefaultAmount = 1

// State is a snapshot of the user's contribution settings.
type State struct {
	Amount  float64 `json:"amount"`
	Enabled bool    `json:"enabled"`
}

// Active reports whether a "from you" figure should be shown at all: the
// toggle is on and the amount is strictly positive.
func (s State) Active() bool {
	return s.Enabled && s.Amount > 0 && !math.IsInf(s.Amount, 0)
}

// Share returns the user's portion of an item worth value out of
// denominator. When parentShare is set the user's amount is first narrowed to
// that fraction of the whole budget, so a drill-down level reports the part
// of the contribution that reached this subtree. A zero parentShare yields
// zero; only a nil one leaves the amount unscaled.
//
// ok is false when the share does not apply: personalization is off, the
// amount is not positive, or the denominator is not positive.
func (s State) Share(value, denominator float64, parentShare *float64) (amount float64, ok bool) {
	if !s.Active() || denominator <= 0 {
		return 0, false
	}
	effective := s.Amount
	if parentShare != nil {
		effective = budget.CalculateUserPortion(s.Amount, *parentShare, 1)
	}
	return budget.CalculateUserPortion(effective, value, denominator), true
}

// LevelShare returns the part of the contribution that reaches a whole
// level: all of it at the root, parentShare of it below. ok is false when
// personalization does not apply.
func (s State) LevelShare(parentShare *float64) (amount float64, ok bool) {
	if !s.Active() {
		return 0, false
	}
	if parentShare == nil {
		return s.Amount, true
	}
	return budget.CalculateAgencyAmount(s.Amount, *parentShare, 1, true), true
}

// Listener is called with the new state after every change.
type Listener func(State)

// Store holds a State and notifies listeners synchronously when it changes.
// It is safe for concurrent use; listeners run on the goroutine that made the
// change, in subscription order, after the lock is released.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
}

// New returns a store with the default amount and personalization disabled.
func New() *Store {
	return NewWithState(State{Amount: DefaultAmount})
}

// NewWithState returns a store seeded with s.
func NewWithState(s State) *Store {
	return &Store{state: s, listeners: make(map[int]Listener)}
}

// Get returns the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set updates the contribution amount.
func (s *Store) Set(amount float64) {
	s.update(func(st *State) { st.Amount = amount })
}

// SetEnabled turns personalization on or off.
func (s *Store) SetEnabled(enabled bool) {
	s.update(func(st *State) { st.Enabled = enabled })
}

// Subscribe registers l and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (s *Store) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Listeners returns the number of active subscriptions.
func (s *Store) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	prev := s.state
	fn(&s.state)
	next := s.state
	if prev == next {
		s.mu.Unlock()
		return
	}
	ls := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		ls = append(ls, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(next)
	}
}
