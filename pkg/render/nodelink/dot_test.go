package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/spendinglol/spending/pkg/hierarchy"
)

func sampleLevel() hierarchy.Level {
	return hierarchy.Level{
		Title: "Department of Energy",
		Key:   hierarchy.Key{AgencyID: "89"},
		Records: []hierarchy.Record{
			{Name: "Weapons Activities", ID: "089-0240", Value: 300, Metadata: map[string]string{"account_number": "089-0240"}},
			{Name: "Science", ID: "089-0222", Value: 700},
			{Name: "Unreported", Value: 100},
		},
	}
}

func TestToDOTBasic(t *testing.T) {
	dot := ToDOT(sampleLevel(), Options{})

	for _, want := range []string{
		"digraph G",
		`root [label="Department of Energy\n$1,100.00"`,
		`n0 [label="Science"`,
		`root -> n0 [label="63.6%"]`,
		`root -> n1 [label="27.3%"]`,
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "URL=") {
		t.Error("links should be opt-in")
	}
}

func TestToDOTDetailedLinks(t *testing.T) {
	dot := ToDOT(sampleLevel(), Options{Detailed: true, Links: true, View: hierarchy.ViewTable})

	if !strings.Contains(dot, `Weapons Activities\n$300.00\n089-0240`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `URL="/agency/89/account/089-0222?view=table"`) {
		t.Errorf("link missing:\n%s", dot)
	}
	if strings.Count(dot, "URL=") != 2 {
		t.Errorf("inert record should not link:\n%s", dot)
	}
}

func TestToDOTLimit(t *testing.T) {
	dot := ToDOT(sampleLevel(), Options{Limit: 1})
	if !strings.Contains(dot, `more [label="2 more\n$400.00"`) {
		t.Errorf("summary node missing:\n%s", dot)
	}
	if !strings.Contains(dot, `root -> more [label="36.4%"]`) {
		t.Errorf("summary edge missing:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(hierarchy.Level{}, Options{})
	if !strings.Contains(dot, "Government Spending") || strings.Contains(dot, "->") {
		t.Errorf("empty level DOT = \n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleLevel(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Science") {
		t.Error("rendered SVG missing content")
	}
}
