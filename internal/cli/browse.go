package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render/table"
)

// browseCommand opens the interactive drill-down browser.
func (c *CLI) browseCommand() *cobra.Command {
	var lf levelFlags

	cmd := &cobra.Command{
		Use:   "browse [level]",
		Short: "Browse the spending hierarchy interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseLevel(args)
			if err != nil {
				return err
			}
			opts := c.baseOptions()
			if err := lf.apply(cmd, c, &opts); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, lf.noCache, opts.Refresh)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			load := func(ctx context.Context, k hierarchy.Key) (hierarchy.Level, error) {
				o := opts
				o.Key = k
				return runner.Load(ctx, o)
			}
			store := contribution.NewWithState(opts.Contribution())
			m := NewBrowseModel(ctx, load, store, key)

			// Log lines would tear the alt screen.
			c.Logger.SetOutput(io.Discard)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	lf.register(cmd)
	cmd.ValidArgsFunction = c.completeLevel
	return cmd
}

// =============================================================================
// BrowseModel - Interactive level browser
// =============================================================================

// LevelFunc loads one hierarchy level.
type LevelFunc func(ctx context.Context, key hierarchy.Key) (hierarchy.Level, error)

type levelMsg struct {
	level hierarchy.Level
	err   error
}

var sortCycle = []table.SortBy{table.SortAmount, table.SortName, table.SortPercent}

// BrowseModel is the bubbletea model for drilling through levels.
type BrowseModel struct {
	ctx   context.Context
	load  LevelFunc
	store *contribution.Store

	Level   hierarchy.Level
	Table   table.Table
	Cursor  int
	Offset  int
	Height  int
	SortBy  table.SortBy
	Order   table.Order
	Loading bool
	Err     error

	// Editing is set while the contribution amount is being typed.
	Editing  bool
	InputErr error

	key    hierarchy.Key
	next   *hierarchy.Key
	spin   spinner.Model
	amount textinput.Model
}

// NewBrowseModel creates a browser that starts at key.
func NewBrowseModel(ctx context.Context, load LevelFunc, store *contribution.Store, key hierarchy.Key) BrowseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleIconSpinner

	ti := textinput.New()
	ti.Prompt = "Your contribution: "
	ti.Placeholder = "$1,000"
	ti.CharLimit = 24
	ti.Width = 16
	ti.Cursor.SetMode(cursor.CursorStatic)

	return BrowseModel{
		ctx:     ctx,
		load:    load,
		store:   store,
		Height:  15,
		SortBy:  table.SortAmount,
		Order:   table.Desc,
		Loading: true,
		key:     key,
		next:    new(hierarchy.Key),
		spin:    sp,
		amount:  ti,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.key), m.spin.Tick)
}

// loadLevel starts fetching key and restarts the spinner.
func (m *BrowseModel) loadLevel(key hierarchy.Key) tea.Cmd {
	m.Loading = true
	return tea.Batch(m.fetch(key), m.spin.Tick)
}

func (m BrowseModel) fetch(key hierarchy.Key) tea.Cmd {
	return func() tea.Msg {
		lv, err := m.load(m.ctx, key)
		return levelMsg{level: lv, err: err}
	}
}

// rebuild sorts the current level into m.Table.
func (m *BrowseModel) rebuild() {
	opts := table.DefaultOptions()
	opts.Title = m.Level.Title
	opts.Key = m.Level.Key
	opts.SortBy = m.SortBy
	opts.Order = m.Order
	next := m.next
	opts.Click = hierarchy.Default(func(k hierarchy.Key) { *next = k })
	m.Table = table.Build(m.Level.Records, opts)
	m.Cursor = min(m.Cursor, max(0, len(m.Table.Rows)-1))
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.Editing {
			return m.updateAmount(msg)
		}
	}

	switch msg := msg.(type) {
	case levelMsg:
		m.Loading = false
		m.Err = msg.err
		if msg.err == nil {
			m.Level = msg.level
			m.Cursor, m.Offset = 0, 0
			m.rebuild()
		}
	case tea.KeyMsg:
		if m.Loading {
			if s := msg.String(); s == "q" || s == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case "down", "j":
			if m.Cursor < len(m.Table.Rows)-1 {
				m.Cursor++
				m.scroll()
			}
		case "enter", "right", "l":
			if m.Table.Click(m.Cursor) {
				return m, m.loadLevel(*m.next)
			}
		case "backspace", "left", "h":
			if m.Level.Key.Depth() > 0 {
				return m, m.loadLevel(m.Level.Key.Parent())
			}
		case "s":
			for i, by := range sortCycle {
				if by == m.SortBy {
					m.SortBy = sortCycle[(i+1)%len(sortCycle)]
					break
				}
			}
			m.Order, _ = table.ParseOrder("", m.SortBy)
			m.rebuild()
		case "r":
			if m.Order == table.Desc {
				m.Order = table.Asc
			} else {
				m.Order = table.Desc
			}
			m.rebuild()
		case "p":
			m.store.SetEnabled(!m.store.Get().Enabled)
		case "a":
			m.Editing = true
			m.InputErr = nil
			m.amount.SetValue("")
			m.amount.Focus()
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-10)
		m.scroll()
	}
	return m, nil
}

// updateAmount handles keys while the amount prompt is open. A valid
// amount also turns personalize on.
func (m BrowseModel) updateAmount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.Editing = false
		m.amount.Blur()
		return m, nil
	case "enter":
		v, err := format.ParseAmount(m.amount.Value())
		if err != nil {
			m.InputErr = err
			return m, nil
		}
		m.store.Set(v)
		m.store.SetEnabled(true)
		m.Editing = false
		m.amount.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	return m, cmd
}

func (m BrowseModel) View() string {
	var b strings.Builder

	title := m.Level.Title
	if title == "" {
		title = "Federal Spending"
	}
	var crumbs []string
	for _, c := range m.Level.Breadcrumbs {
		crumbs = append(crumbs, c.Name)
	}
	if len(crumbs) > 0 {
		b.WriteString(StyleDim.Render(strings.Join(crumbs, " › ")+" ›"))
		b.WriteString("\n")
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	line := format.DollarsLong(m.Level.Total)
	if amount, ok := m.store.Get().LevelShare(m.Level.ParentShare); ok {
		line += StyleDim.Render(" · ") + StyleSuccess.Render(format.FromYou(amount))
	}
	b.WriteString(line)
	b.WriteString("\n")
	if m.Editing {
		b.WriteString(m.amount.View())
		if m.InputErr != nil {
			b.WriteString("  " + styleIconError.Render(m.InputErr.Error()))
		}
	} else {
		b.WriteString(StyleDim.Render("↑/↓ move  ⏎ open  ⌫ back  s sort  r reverse  p personalize  a amount  q quit"))
	}
	b.WriteString("\n\n")

	switch {
	case m.Loading:
		b.WriteString(m.spin.View() + StyleDim.Render(" Loading..."))
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
	default:
		window := m.Table
		end := min(len(window.Rows), m.Offset+m.Height)
		window.Rows = window.Rows[m.Offset:end]
		b.WriteString(window.RenderText(table.WithSelected(m.Cursor - m.Offset)))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d] sorted by %s %s",
			m.Cursor+1, len(m.Table.Rows), m.SortBy, m.Order)))
	}
	return b.String()
}
