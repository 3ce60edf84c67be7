package table

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spendinglol/spending/pkg/format"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	linkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	inertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	numberStyle = lipgloss.NewStyle().Align(lipgloss.Right)
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

// headerRow is the row index lipgloss passes to StyleFunc for the header.
const headerRow = -1

// TextOption configures [Table.RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	limit    int
	selected int
	nameMax  int
}

// WithLimit shows only the first n rows.
func WithLimit(n int) TextOption { return func(r *textRenderer) { r.limit = n } }

// WithSelected highlights row i.
func WithSelected(i int) TextOption { return func(r *textRenderer) { r.selected = i } }

// WithNameWidth truncates names to n characters.
func WithNameWidth(n int) TextOption { return func(r *textRenderer) { r.nameMax = n } }

// RenderText renders the table for a terminal.
func (t Table) RenderText(opts ...TextOption) string {
	r := textRenderer{selected: -1, nameMax: 60}
	for _, opt := range opts {
		opt(&r)
	}

	rows := t.Rows
	if r.limit > 0 && len(rows) > r.limit {
		rows = rows[:r.limit]
	}
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{clip(row.Name, r.nameMax), row.AmountText, row.PercentText})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Name", "Obligated Amount", "Percent of Total").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col > 0 {
				base = numberStyle
			}
			if row < 0 || row >= len(rows) {
				return base
			}
			if row == r.selected {
				base = base.Bold(true).Reverse(true)
			}
			if col == 0 {
				if rows[row].Navigable {
					return base.Inherit(linkStyle)
				}
				return base.Inherit(inertStyle)
			}
			return base
		})

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(totalStyle.Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	b.WriteString(totalStyle.Render("Total: " + format.Dollars(t.Total)))
	if hidden := len(t.Rows) - len(rows); hidden > 0 {
		b.WriteString(inertStyle.Render("  (" + strconv.Itoa(hidden) + " more)"))
	}
	b.WriteString("\n")
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
