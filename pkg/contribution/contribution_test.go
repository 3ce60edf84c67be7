package contribution

import (
	"math"
	"testing"

	"github.com/spendinglol/spending/pkg/budget"
)

func TestNewDefaults(t *testing.T) {
	got := New().Get()
	want := State{Amount: 1, Enabled: false}
	if got != want {
		t.Errorf("New().Get() = %+v, want %+v", got, want)
	}
}

func TestStateActive(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"disabled", State{Amount: 100}, false},
		{"zero amount", State{Amount: 0, Enabled: true}, false},
		{"negative amount", State{Amount: -5, Enabled: true}, false},
		{"infinite amount", State{Amount: math.Inf(1), Enabled: true}, false},
		{"positive amount", State{Amount: 5, Enabled: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Active(); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func share(v float64) *float64 { return &v }

func TestStateShare(t *testing.T) {
	s := State{Amount: 1000, Enabled: true}

	tests := []struct {
		name        string
		value       float64
		denominator float64
		parent      *float64
		want        float64
	}{
		{"no parent", 300, 1000, nil, 300},
		{"parent quarter", 300, 1000, share(0.25), 75},
		{"parent whole", 300, 1000, share(1), 300},
		{"explicit zero parent", 300, 1000, share(0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Share(tt.value, tt.denominator, tt.parent)
			if !ok || got != tt.want {
				t.Errorf("Share() = %v, %v; want %v, true", got, ok, tt.want)
			}
		})
	}

	if _, ok := s.Share(300, 0, nil); ok {
		t.Error("Share with zero denominator should not apply")
	}
	if _, ok := (State{Amount: 0, Enabled: true}).Share(300, 1000, nil); ok {
		t.Error("Share with zero amount should not apply")
	}
	if _, ok := (State{Amount: 1000}).Share(300, 1000, nil); ok {
		t.Error("Share while disabled should not apply")
	}
}

func TestStateShareMatchesUserPortion(t *testing.T) {
	s := State{Amount: 2500, Enabled: true}
	parent := 0.37
	got, _ := s.Share(120, 900, &parent)
	want := budget.CalculateUserPortion(budget.CalculateUserPortion(2500, parent, 1), 120, 900)
	if got != want {
		t.Errorf("Share() = %v, want %v", got, want)
	}
}

func TestStateLevelShare(t *testing.T) {
	on := State{Amount: 1000, Enabled: true}
	tests := []struct {
		name   string
		state  State
		parent *float64
		want   float64
		ok     bool
	}{
		{"root keeps the whole amount", on, nil, 1000, true},
		{"agency level", on, share(0.7), budget.CalculateAgencyAmount(1000, 0.7, 1, true), true},
		{"explicit zero parent", on, share(0), 0, true},
		{"disabled", State{Amount: 1000}, share(0.7), 0, false},
		{"zero amount", State{Enabled: true}, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.state.LevelShare(tt.parent)
			if got != tt.want || ok != tt.ok {
				t.Errorf("LevelShare() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStoreNotifiesOnChange(t *testing.T) {
	s := New()
	var got []State
	cancel := s.Subscribe(func(st State) { got = append(got, st) })
	defer cancel()

	s.Set(50)
	s.SetEnabled(true)
	s.SetEnabled(true) // no change, no notification
	s.Set(50)          // no change, no notification

	want := []State{{Amount: 50}, {Amount: 50, Enabled: true}}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStoreNotifiesInSubscriptionOrder(t *testing.T) {
	s := New()
	var order []string
	defer s.Subscribe(func(State) { order = append(order, "a") })()
	defer s.Subscribe(func(State) { order = append(order, "b") })()

	s.Set(2)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestStoreCancel(t *testing.T) {
	s := New()
	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })

	s.Set(2)
	cancel()
	cancel()
	s.Set(3)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := s.Listeners(); n != 0 {
		t.Errorf("Listeners() = %d, want 0", n)
	}
}

func TestStoreListenerMaySubscribe(t *testing.T) {
	s := New()
	inner := 0
	defer s.Subscribe(func(State) {
		s.Subscribe(func(State) { inner++ })
	})()

	s.Set(2)
	if inner != 0 {
		t.Errorf("listener added during notify ran %d times, want 0", inner)
	}
	s.Set(3)
	if inner != 1 {
		t.Errorf("inner = %d, want 1", inner)
	}
}
