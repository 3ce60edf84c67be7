package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spendinglol/spending/pkg/hierarchy"
)

func sample() []hierarchy.Record {
	return []hierarchy.Record{
		{Name: "health", ID: "75", Value: 300},
		{Name: "Defense", ID: "97", Value: 700},
		{Name: "All other", Value: 1000},
	}
}

func TestBuildDefaultSort(t *testing.T) {
	tbl := Build(sample(), DefaultOptions())

	if tbl.Total != 2000 {
		t.Errorf("Total = %v, want 2000", tbl.Total)
	}
	names := []string{tbl.Rows[0].Name, tbl.Rows[1].Name, tbl.Rows[2].Name}
	if names[0] != "All other" || names[1] != "Defense" || names[2] != "health" {
		t.Errorf("order = %v", names)
	}
	if tbl.Rows[1].PercentText != "35.00%" || tbl.Rows[1].AmountText != "$700.00" {
		t.Errorf("Defense row = %+v", tbl.Rows[1])
	}
	if tbl.Rows[0].Rank != 1 || tbl.Rows[2].Rank != 3 {
		t.Errorf("ranks = %d, %d", tbl.Rows[0].Rank, tbl.Rows[2].Rank)
	}
}

func TestBuildSorting(t *testing.T) {
	tests := []struct {
		by    SortBy
		order Order
		want  string
	}{
		{SortName, Asc, "All other,Defense,health"},
		{SortName, Desc, "health,Defense,All other"},
		{SortAmount, Asc, "health,Defense,All other"},
		{SortPercent, Desc, "All other,Defense,health"},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.SortBy, opts.Order = tt.by, tt.order
		tbl := Build(sample(), opts)
		var names []string
		for _, r := range tbl.Rows {
			names = append(names, r.Name)
		}
		if got := strings.Join(names, ","); got != tt.want {
			t.Errorf("%s %s: order = %s, want %s", tt.by, tt.order, got, tt.want)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	if by, err := ParseSort(""); err != nil || by != SortAmount {
		t.Errorf("ParseSort(\"\") = %q, %v", by, err)
	}
	if _, err := ParseSort("size"); err == nil {
		t.Error("ParseSort(size) should fail")
	}
	if o, _ := ParseOrder("", SortName); o != Asc {
		t.Errorf("default order for name = %q", o)
	}
	if o, _ := ParseOrder("", SortAmount); o != Desc {
		t.Errorf("default order for amount = %q", o)
	}
	if _, err := ParseOrder("up", SortAmount); err == nil {
		t.Error("ParseOrder(up) should fail")
	}
}

func TestClick(t *testing.T) {
	var visited []hierarchy.Key
	opts := DefaultOptions()
	opts.Key = hierarchy.Key{AgencyID: "97"}
	opts.Click = hierarchy.Default(func(k hierarchy.Key) { visited = append(visited, k) })
	tbl := Build(sample(), opts)

	if tbl.Click(0) {
		t.Error("inert row should not navigate")
	}
	if !tbl.Click(1) {
		t.Error("navigable row should navigate")
	}
	want := hierarchy.Key{AgencyID: "97", AccountID: "97"}
	if len(visited) != 1 || visited[0] != want {
		t.Errorf("visited = %+v, want %+v", visited, want)
	}
	if tbl.Rows[1].Href != "/agency/97/account/97?view=table" {
		t.Errorf("Href = %q", tbl.Rows[1].Href)
	}
}

func TestMarshalCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Build(sample(), DefaultOptions()).MarshalCSV(&buf); err != nil {
		t.Fatalf("MarshalCSV() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "rank,name,id,amount,amount_text,percent,percent_text" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,Defense,97,700,$700.00,35,35.00%") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestRenderText(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "Agencies"
	out := Build(sample(), opts).RenderText(WithLimit(2))
	for _, want := range []string{"Agencies", "Obligated Amount", "Defense", "35.00%", "Total: $2,000.00", "1 more"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "health") {
		t.Error("limit not applied")
	}
}
