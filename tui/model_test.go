package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront.GO/search"
)

type fakeSearcher struct {
	params []search.Params
}

func (f *fakeSearcher) Search(_ context.Context, p search.Params) error {
	f.params = append(f.params, p)
	return nil
}

type recorder struct {
	readings []search.Viewport
}

func (r *recorder) Publish(v search.Viewport) { r.readings = append(r.readings, v) }

func productsN(n int) []search.Product {
	out := make([]search.Product, n)
	for i := range out {
		out[i] = search.Product{ID: fmt.Sprint(i + 1), Title: fmt.Sprintf("Product %d", i+1), Price: 1234.5, CurrencyCode: "USD", Available: true}
	}
	return out
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runSearch executes cmd when it is the search command, ignoring batches.
func runSearch(cmd tea.Cmd) {
	if cmd != nil {
		cmd()
	}
}

func TestModel_EnterSearchesWithSelectedSort(t *testing.T) {
	s := &fakeSearcher{}
	m := New(context.Background(), s, &recorder{}, search.DefaultSortTable(), "price-desc", "shoes")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	runSearch(cmd)
	require.Len(t, s.params, 1)
	assert.Equal(t, search.Params{SortKey: search.SortPrice, Reverse: true, Query: "shoes"}, s.params[0])

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	runSearch(cmd)
	require.Len(t, s.params, 2)
	assert.Equal(t, search.Params{SortKey: search.SortRelevance, Query: "shoes"}, s.params[1], "tab wraps to the first option")
	assert.Equal(t, "Relevance", m.sortOption().Title)
}

func TestModel_UnknownSortUsesDefault(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, nil, search.DefaultSortTable(), "bogus", "")
	assert.Equal(t, search.DefaultSortTable().Default, m.sortOption())
}

func TestModel_ScrollPublishesViewport(t *testing.T) {
	rec := &recorder{}
	m := New(context.Background(), &fakeSearcher{}, rec, search.DefaultSortTable(), "", "q")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 14})
	m, _ = update(t, m, SnapshotMsg{search.Snapshot{Session: "s1", Products: productsN(30), Page: 1, Summary: `Showing 30 results for "q"`}})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Len(t, rec.readings, 1)
	assert.Equal(t, search.Viewport{ScrollTop: 1, Height: 10, ContentHeight: 30}, rec.readings[0])
	assert.False(t, rec.readings[0].NearBottom(DefaultThreshold))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	last := rec.readings[len(rec.readings)-1]
	assert.True(t, last.NearBottom(DefaultThreshold), "reading %+v", last)
}

func TestModel_NewSessionScrollsToTop(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, &recorder{}, search.DefaultSortTable(), "", "")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 14})
	m, _ = update(t, m, SnapshotMsg{search.Snapshot{Session: "s1", Products: productsN(30)}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	require.Positive(t, m.Viewport().ScrollTop)

	m, _ = update(t, m, SnapshotMsg{search.Snapshot{Session: "s1", Products: productsN(40)}})
	assert.Positive(t, m.Viewport().ScrollTop, "appending keeps the position")

	m, _ = update(t, m, SnapshotMsg{search.Snapshot{Session: "s2", Products: productsN(30)}})
	assert.Zero(t, m.Viewport().ScrollTop)
}

func TestModel_View(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, nil, search.DefaultSortTable(), "latest-desc", "hat")
	assert.Contains(t, m.View(), "starting")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	m, _ = update(t, m, SnapshotMsg{search.Snapshot{
		Session: "s", Products: productsN(2), Page: 1, Loading: true, Summary: `Showing 2 results for "hat"`,
	}})
	view := m.View()
	assert.Contains(t, view, "Latest arrivals")
	assert.Contains(t, view, `Showing 2 results for "hat"`)
	assert.Contains(t, view, "Product 2")
	assert.Contains(t, view, "1,234.50 USD")
	assert.Contains(t, view, "loading")

	m, _ = update(t, m, searchErrMsg{err: context.Canceled})
	assert.True(t, strings.Contains(m.View(), "context canceled"))
}

func TestModel_Quit(t *testing.T) {
	m := New(context.Background(), &fakeSearcher{}, nil, search.DefaultSortTable(), "", "")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
