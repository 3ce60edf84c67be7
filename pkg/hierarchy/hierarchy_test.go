package hierarchy

import (
	"encoding/json"
	"testing"

	"github.com/spendinglol/spending/pkg/errors"
)

func TestKeyNavigation(t *testing.T) {
	top := Key{}
	agency, ok := top.Child("1125")
	if !ok || agency != (Key{AgencyID: "1125"}) {
		t.Fatalf("top.Child = %+v, %v", agency, ok)
	}
	account, ok := agency.Child("070-0530")
	if !ok || account != (Key{AgencyID: "1125", AccountID: "070-0530"}) {
		t.Fatalf("agency.Child = %+v, %v", account, ok)
	}
	if _, ok := account.Child("x"); ok {
		t.Error("account.Child should report false at the deepest level")
	}

	if account.Parent() != agency {
		t.Errorf("account.Parent() = %+v", account.Parent())
	}
	if agency.Parent() != top {
		t.Errorf("agency.Parent() = %+v", agency.Parent())
	}
	if top.Parent() != top {
		t.Errorf("top.Parent() = %+v", top.Parent())
	}

	for k, want := range map[Key]int{top: 0, agency: 1, account: 2} {
		if got := k.Depth(); got != want {
			t.Errorf("%v.Depth() = %d, want %d", k, got, want)
		}
	}
}

func TestKeyPath(t *testing.T) {
	tests := []struct {
		key  Key
		view View
		want string
	}{
		{Key{}, ViewTree, "/"},
		{Key{AgencyID: "12"}, ViewTree, "/agency/12"},
		{Key{AgencyID: "12"}, ViewTable, "/agency/12?view=table"},
		{Key{AgencyID: "12", AccountID: "34"}, "", "/agency/12/account/34"},
	}
	for _, tt := range tests {
		if got := tt.key.Path(tt.view); got != tt.want {
			t.Errorf("%+v.Path(%q) = %q, want %q", tt.key, tt.view, got, tt.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"", Key{}, false},
		{"total", Key{}, false},
		{"/", Key{}, false},
		{"agency/12", Key{AgencyID: "12"}, false},
		{"/agency/12/account/34", Key{AgencyID: "12", AccountID: "34"}, false},
		{"agency/..", Key{}, true},
		{"program/1", Key{}, true},
		{"agency/12/account", Key{}, true},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	k := Key{AgencyID: "12", AccountID: "34"}
	round, err := ParseKey(k.String())
	if err != nil || round != k {
		t.Errorf("ParseKey(String()) = %+v, %v", round, err)
	}
}

func TestKeyValidate(t *testing.T) {
	if err := (Key{AccountID: "34"}).Validate(); !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("account without agency: err = %v", err)
	}
	if err := (Key{AgencyID: "a b"}).Validate(); !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("bad agency id: err = %v", err)
	}
	if err := (Key{AgencyID: "12", AccountID: "34"}).Validate(); err != nil {
		t.Errorf("valid key: err = %v", err)
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{"", ViewTree, false},
		{"tree", ViewTree, false},
		{"TABLE", ViewTable, false},
		{"list", ViewTable, false},
		{"graph", ViewGraph, false},
		{"pie", "", true},
	}
	for _, tt := range tests {
		got, err := ParseView(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseView(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDenominator(t *testing.T) {
	records := []Record{{Value: 300}, {Value: 700}, {Value: -50}}

	if got := SumOfSiblings().Resolve(records); got != 1000 {
		t.Errorf("SumOfSiblings = %v, want 1000", got)
	}
	if got := Fixed(9.7e12).Resolve(records); got != 9.7e12 {
		t.Errorf("Fixed = %v, want 9.7e12", got)
	}
	var zero Denominator
	if zero.IsFixed() {
		t.Error("zero Denominator should be SumOfSiblings")
	}
	if !Fixed(1).IsFixed() {
		t.Error("Fixed(1).IsFixed() = false")
	}
}

func TestClickBehavior(t *testing.T) {
	navigable := Record{Name: "A", ID: "A", Value: 1}
	inert := Record{Name: "Other", Value: 1}

	t.Run("default navigates to child", func(t *testing.T) {
		var got []Key
		b := Default(func(k Key) { got = append(got, k) })
		if !b.Dispatch(navigable, Key{}) {
			t.Fatal("Dispatch returned false")
		}
		if len(got) != 1 || got[0] != (Key{AgencyID: "A"}) {
			t.Errorf("navigated to %+v", got)
		}
	})

	t.Run("override receives record", func(t *testing.T) {
		var got []Record
		navigated := false
		b := Override(func(r Record) { got = append(got, r) })
		b.navigate = func(Key) { navigated = true }
		if !b.Dispatch(navigable, Key{}) {
			t.Fatal("Dispatch returned false")
		}
		if len(got) != 1 || got[0].ID != "A" || navigated {
			t.Errorf("override got %+v, navigated %v", got, navigated)
		}
	})

	t.Run("inert records never dispatch", func(t *testing.T) {
		calls := 0
		for _, b := range []ClickBehavior{
			Default(func(Key) { calls++ }),
			Override(func(Record) { calls++ }),
		} {
			if b.Dispatch(inert, Key{}) {
				t.Error("Dispatch on inert record returned true")
			}
		}
		if calls != 0 {
			t.Errorf("calls = %d, want 0", calls)
		}
	})

	t.Run("default at deepest level", func(t *testing.T) {
		calls := 0
		b := Default(func(Key) { calls++ })
		if b.Dispatch(navigable, Key{AgencyID: "1", AccountID: "2"}) || calls != 0 {
			t.Error("program activities should not navigate")
		}
	})

	t.Run("zero value", func(t *testing.T) {
		var b ClickBehavior
		if b.Dispatch(navigable, Key{}) {
			t.Error("zero ClickBehavior should ignore clicks")
		}
	})
}

func TestResponseRecords(t *testing.T) {
	raw := `{
		"total": 1000,
		"results": [
			{"id": 12, "name": "Agency A", "amount": 600},
			{"id": "34", "name": "Agency B", "amount": 400, "account_number": "034-1"},
			{"id": null, "name": "Unreported", "amount": 50},
			{"id": "56", "name": "Refunds", "amount": -10}
		]
	}`
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatal(err)
	}

	top := resp.Records(Key{})
	if len(top) != 2 {
		t.Fatalf("top-level records = %d, want 2: %+v", len(top), top)
	}
	if top[0].ID != "12" || top[1].Metadata["account_number"] != "034-1" {
		t.Errorf("unexpected records: %+v", top)
	}

	deep := resp.Records(Key{AgencyID: "12"})
	if len(deep) != 4 {
		t.Fatalf("agency-level records = %d, want 4", len(deep))
	}
	if deep[2].Navigable() {
		t.Error("null id should be display-only")
	}

	if r, ok := resp.Find("34"); !ok || r.Name != "Agency B" {
		t.Errorf("Find(34) = %+v, %v", r, ok)
	}
}

func TestIDJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "12"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":"12","b":null}` {
		t.Errorf("Marshal = %s", out)
	}
}
