// Package tui is a terminal result browser for incremental catalog search.
// Scrolling the result list publishes viewport readings that drive paging.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"storefront.GO/search"
)

// DefaultThreshold is the near-bottom distance in terminal lines.
const DefaultThreshold = 3

// chrome is the number of lines around the result list.
const chrome = 4

// Searcher starts search sessions.
type Searcher interface {
	Search(ctx context.Context, p search.Params) error
}

// ScrollPublisher receives viewport readings.
type ScrollPublisher interface {
	Publish(v search.Viewport)
}

// SnapshotMsg carries a controller state change into the program.
type SnapshotMsg struct {
	search.Snapshot
}

type searchErrMsg struct{ err error }

// Notify returns an on-change callback that forwards snapshots to p.
func Notify(p *tea.Program) func(search.Snapshot) {
	return func(s search.Snapshot) { p.Send(SnapshotMsg{s}) }
}

type Model struct {
	ctx      context.Context
	searcher Searcher
	scroll   ScrollPublisher
	table    search.SortTable
	sortIdx  int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	snap    search.Snapshot
	err     error
	ready   bool
	width   int
	session string
}

// New builds the browser. sort and query seed the first search, which
// starts as soon as the program runs.
func New(ctx context.Context, s Searcher, scroll ScrollPublisher, table search.SortTable, sort, query string) Model {
	in := textinput.New()
	in.Placeholder = "Search for products..."
	in.Prompt = "/ "
	in.CharLimit = 256
	in.SetValue(query)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		searcher: s,
		scroll:   scroll,
		table:    table,
		input:    in,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		sortIdx:  -1,
	}
	for i, o := range table.Options {
		if o.Slug == sort && sort != "" {
			m.sortIdx = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.search())
}

// sortOption is the selected option, or the table default.
func (m Model) sortOption() search.SortOption {
	if m.sortIdx >= 0 && m.sortIdx < len(m.table.Options) {
		return m.table.Options[m.sortIdx]
	}
	return m.table.Default
}

// search runs off the update loop: Search blocks on the controller queue,
// and the controller blocks on Send while notifying.
func (m Model) search() tea.Cmd {
	params := search.ResolveParams(m.sortOption().Slug, strings.TrimSpace(m.input.Value()), m.table)
	ctx, s := m.ctx, m.searcher
	return func() tea.Msg {
		if err := s.Search(ctx, params); err != nil {
			return searchErrMsg{err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.input.Width = max(msg.Width-30, 10)
		m.ready = true
		m.viewport.SetContent(m.renderProducts())
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.err = nil
		m.viewport.SetContent(m.renderProducts())
		if m.snap.Session != m.session {
			m.session = m.snap.Session
			m.viewport.GotoTop()
		}
		return m, nil

	case searchErrMsg:
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.scrollBy(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.search()
		case tea.KeyTab:
			m.sortIdx = (m.sortIdx + 1) % max(len(m.table.Options), 1)
			return m, m.search()
		case tea.KeyShiftTab:
			n := max(len(m.table.Options), 1)
			m.sortIdx = (m.sortIdx - 1 + n) % n
			return m, m.search()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			return m.scrollBy(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// scrollBy moves the result list and reports the new position.
func (m Model) scrollBy(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	if m.scroll != nil && m.ready {
		m.scroll.Publish(m.Viewport())
	}
	return m, cmd
}

// Viewport is the current scroll position in lines.
func (m Model) Viewport() search.Viewport {
	return search.Viewport{
		ScrollTop:     float64(m.viewport.YOffset),
		Height:        float64(m.viewport.Height),
		ContentHeight: float64(m.viewport.TotalLineCount()),
	}
}

func (m Model) renderProducts() string {
	if len(m.snap.Products) == 0 {
		if m.snap.Loading {
			return ""
		}
		return mutedStyle.Render("  no products")
	}
	var b strings.Builder
	for i, p := range m.snap.Products {
		if i > 0 {
			b.WriteByte('\n')
		}
		price := priceStyle.Render(fmt.Sprintf("%s %s", humanize.FormatFloat("#,###.##", p.Price), p.CurrencyCode))
		line := fmt.Sprintf("%4d  %s  %s  %s", i+1, p.Title, price, mutedStyle.Render(p.SKU))
		if !p.Available {
			line += "  " + soldOutStyle.Render("sold out")
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  " + m.spinner.View() + " starting..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("Search "),
		m.input.View(),
		"  ",
		sortStyle.Render("["+m.sortOption().Title+"]"),
	)

	summary := m.snap.Summary
	if m.err != nil {
		summary = errorStyle.Render(m.err.Error())
	} else {
		summary = summaryStyle.Render(summary)
	}

	status := fmt.Sprintf("page %d · %d products", m.snap.Page, len(m.snap.Products))
	if m.snap.Loading {
		status = m.spinner.View() + " loading · " + status
	}
	status += " · tab: sort · enter: search · esc: quit"

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		summary,
		m.viewport.View(),
		statusStyle.Width(m.width).Render(status),
	)
}
