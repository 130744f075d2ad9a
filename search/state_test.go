package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bottom = Viewport{ScrollTop: 950, Height: 500, ContentHeight: 1500}

func products(ids ...string) []Product {
	out := make([]Product, len(ids))
	for i, id := range ids {
		out[i] = Product{ID: id, Title: "Product " + id}
	}
	return out
}

func ids(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestState_InitialFetch(t *testing.T) {
	s := NewState()
	assert.Equal(t, PhaseInit, s.Phase())

	s.Reset(Params{SortKey: SortRelevance})
	tk := s.BeginInitial(20)
	assert.True(t, s.Loading())
	assert.Equal(t, PhaseFetchingInitial, s.Phase())
	assert.Equal(t, Request{SortKey: SortRelevance, Page: 1, First: 20}, tk.Request)

	out := s.Complete(tk, Page{Products: products("a", "b"), EndCursor: "C1"}, nil)
	assert.Equal(t, OutcomeApplied, out)
	assert.Equal(t, []string{"a", "b"}, ids(s.Products()))
	assert.Equal(t, "C1", s.Cursor())
	assert.False(t, s.Loading())
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestState_NoMoreFetchOnFirstPage(t *testing.T) {
	s := NewState()
	s.Reset(Params{})
	s.Complete(s.BeginInitial(0), Page{Products: products("a")}, nil)

	_, ok := s.BeginMore(0)
	assert.False(t, ok, "page 1 is covered by the initial fetch")
	assert.False(t, s.Loading())
}

func TestState_AdvancePageIgnoredWhileLoading(t *testing.T) {
	s := NewState()
	assert.False(t, s.AdvancePage(bottom, DefaultScrollThreshold), "no session yet")

	s.Reset(Params{})
	tk := s.BeginInitial(0)
	assert.False(t, s.AdvancePage(bottom, DefaultScrollThreshold))
	assert.Equal(t, 1, s.Page())

	s.Complete(tk, Page{}, nil)
	assert.False(t, s.AdvancePage(Viewport{Height: 500, ContentHeight: 5000}, DefaultScrollThreshold))
	assert.True(t, s.AdvancePage(bottom, DefaultScrollThreshold))
	assert.Equal(t, 2, s.Page())
	assert.Equal(t, PhasePageAdvanced, s.Phase())
}

func TestState_FailedMoreKeepsResults(t *testing.T) {
	s := NewState()
	s.Reset(Params{Query: "shoes"})
	s.Complete(s.BeginInitial(0), Page{Products: products("a", "b"), EndCursor: "C1"}, nil)

	require.True(t, s.AdvancePage(bottom, DefaultScrollThreshold))
	tk, ok := s.BeginMore(0)
	require.True(t, ok)
	assert.Equal(t, "C1", tk.Request.Cursor)
	assert.Equal(t, PhaseFetchingMore, s.Phase())

	out := s.Complete(tk, Page{Products: products("x")}, errors.New("boom"))
	assert.Equal(t, OutcomeFailed, out)
	assert.Equal(t, []string{"a", "b"}, ids(s.Products()))
	assert.Equal(t, "C1", s.Cursor())
	assert.False(t, s.Loading())

	require.True(t, s.AdvancePage(bottom, DefaultScrollThreshold))
	retry, ok := s.BeginMore(0)
	require.True(t, ok)
	assert.Equal(t, "C1", retry.Request.Cursor, "retry re-requests from the same cursor")
	assert.Equal(t, 3, retry.Request.Page)
}

func TestState_StaleResultAfterReset(t *testing.T) {
	s := NewState()
	s.Reset(Params{Query: "old"})
	old := s.BeginInitial(0)

	s.Reset(Params{Query: "new"})
	assert.Equal(t, 1, s.Page())
	assert.Empty(t, s.Products())
	assert.Equal(t, "", s.Cursor())
	assert.False(t, s.Loading())
	fresh := s.BeginInitial(0)

	assert.Equal(t, OutcomeStale, s.Complete(old, Page{Products: products("old")}, nil))
	assert.True(t, s.Loading(), "stale result must not clear the current fetch")
	assert.Equal(t, OutcomeApplied, s.Complete(fresh, Page{Products: products("new")}, nil))
	assert.Equal(t, []string{"new"}, ids(s.Products()))
}

func TestState_DuplicateCompletionIsStale(t *testing.T) {
	s := NewState()
	s.Reset(Params{})
	tk := s.BeginInitial(0)
	assert.Equal(t, OutcomeApplied, s.Complete(tk, Page{Products: products("a")}, nil))
	assert.Equal(t, OutcomeStale, s.Complete(tk, Page{Products: products("a")}, nil))
	assert.Len(t, s.Products(), 1)
}

func TestState_SnapshotIsCopy(t *testing.T) {
	s := NewState()
	s.Reset(Params{Query: "hat"})
	s.Complete(s.BeginInitial(0), Page{Products: products("a")}, nil)

	snap := s.Snapshot()
	snap.Products[0].ID = "mutated"
	assert.Equal(t, "a", s.Products()[0].ID)
	assert.Equal(t, `Showing 1 result for "hat"`, snap.Summary)
	assert.NotEmpty(t, snap.Session)
}

func TestState_ShoesScenario(t *testing.T) {
	s := NewState()
	s.Reset(Params{SortKey: SortRelevance, Query: "shoes"})
	s.Complete(s.BeginInitial(0), Page{Products: products("p1", "p2"), EndCursor: "C1"}, nil)

	require.True(t, s.AdvancePage(bottom, DefaultScrollThreshold))
	tk, ok := s.BeginMore(0)
	require.True(t, ok)
	assert.Equal(t, Request{SortKey: SortRelevance, Query: "shoes", Cursor: "C1", Page: 2}, tk.Request)
	s.Complete(tk, Page{Products: products("p3"), EndCursor: "C2"}, nil)

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(s.Products()))
	assert.Equal(t, "C2", s.Cursor())
}
