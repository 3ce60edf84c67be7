package server

import (
	"html/template"
	"net/http"

	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/pipeline"
	"github.com/spendinglol/spending/pkg/render/table"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | Federal Spending</title>
<style>
  body { font-family: Inter, system-ui, Avenir, Helvetica, Arial, sans-serif; margin: 1.5rem; color: #222; }
  nav a, nav span { margin-right: .5rem; }
  .views a { margin-right: .75rem; }
  .views a.active { font-weight: bold; text-decoration: none; color: #222; }
  table { border-collapse: collapse; }
  th, td { padding: .25rem .75rem; text-align: left; }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }
  tr:nth-child(even) { background: #f4f4f4; }
</style>
</head>
<body>
<nav>{{range .Crumbs}}<a href="{{.Href}}">{{.Name}}</a> &rsaquo; {{end}}<span>{{.Title}}</span></nav>
<h1>{{.Title}}</h1>
<p>{{.Total}}{{if .FromYou}} &middot; {{.FromYou}}{{end}}</p>
<form id="contribution">
  <label>Your contribution <input name="amount" type="number" min="0" step="any" value="{{.Contribution.Amount}}"></label>
  <label><input name="enabled" type="checkbox"{{if .Contribution.Enabled}} checked{{end}}> Personalize</label>
  <button type="submit">Apply</button>
</form>
<p class="views">{{range .Views}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Name}}</a>{{end}}</p>
{{if .Table}}
<table>
  <thead><tr><th>#</th><th>Name</th><th>Amount</th><th>Percent</th></tr></thead>
  <tbody>
  {{range .Table.Rows}}<tr><td>{{.Rank}}</td><td>{{if .Href}}<a href="{{.Href}}">{{.Name}}</a>{{else}}{{.Name}}{{end}}</td><td class="num">{{.AmountText}}</td><td class="num">{{.PercentText}}</td></tr>
  {{end}}</tbody>
</table>
{{else}}
{{.SVG}}
{{end}}
<script>
document.getElementById('contribution').addEventListener('submit', async (e) => {
  e.preventDefault();
  const f = e.target;
  await fetch('/api/contribution', {
    method: 'PUT',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({amount: Number(f.amount.value), enabled: f.enabled.checked}),
  });
  location.reload();
});
</script>
</body>
</html>
`))

type link struct {
	Name   string
	Href   string
	Active bool
}

type pageData struct {
	Title        string
	Total        string
	FromYou      string
	Crumbs       []link
	Views        []link
	Contribution contribution.State
	SVG          template.HTML
	Table        *table.Table
}

var pageViews = []struct {
	name string
	view string
}{
	{"Treemap", pipeline.ViewTree},
	{"Table", pipeline.ViewTable},
	{"Graph", pipeline.ViewNodelink},
}

// handlePage serves one level as an HTML page. Drill-down links keep the
// current view.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.store(w, r).Get()
	opts, err := s.options(r, st)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Links = true
	if opts.View == pipeline.ViewTable {
		opts.Formats = []string{pipeline.FormatJSON}
	} else {
		opts.Formats = []string{pipeline.FormatSVG}
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	level := res.Level
	data := pageData{
		Title:        level.Title,
		Total:        format.Dollars(level.Total),
		Contribution: st,
		Table:        res.Table,
	}
	if data.Title == "" {
		data.Title = "Federal Spending"
	}
	if amount, ok := st.LevelShare(level.ParentShare); ok {
		data.FromYou = format.FromYou(amount)
	}
	if res.Table == nil {
		// Rendered by this process from escaped labels.
		data.SVG = template.HTML(res.Artifacts[pipeline.FormatSVG])
	}

	for _, c := range level.Breadcrumbs {
		data.Crumbs = append(data.Crumbs, link{Name: c.Name, Href: c.Key.Path(hierarchy.View(opts.View))})
	}
	for _, v := range pageViews {
		data.Views = append(data.Views, link{
			Name:   v.name,
			Href:   level.Key.Path(hierarchy.View(v.view)),
			Active: v.view == opts.View,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "err", err)
	}
}
