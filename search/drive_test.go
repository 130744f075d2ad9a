package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPages_StopsAtRequestedPages(t *testing.T) {
	f := &pagedFetcher{pages: map[string]Page{
		"":   {Products: products("a"), EndCursor: "C1"},
		"C1": {Products: products("b"), EndCursor: "C2"},
		"C2": {Products: products("c"), EndCursor: "C3"},
	}}
	c := startController(t, f)

	snap, err := LoadPages(context.Background(), c, Params{Query: "x"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(snap.Products))
	assert.Equal(t, 2, snap.Page)
	assert.Len(t, f.calls(), 2)
}

func TestLoadPages_StopsWhenPageAddsNothing(t *testing.T) {
	f := &pagedFetcher{pages: map[string]Page{
		"":   {Products: products("a", "b"), EndCursor: "C1"},
		"C1": {},
	}}
	c := startController(t, f)

	snap, err := LoadPages(context.Background(), c, Params{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(snap.Products))
	assert.Len(t, f.calls(), 2)
}

func TestLoadPages_StopsOnFailure(t *testing.T) {
	f := &pagedFetcher{
		pages: map[string]Page{"": {Products: products("a"), EndCursor: "C1"}},
		fail:  map[string]error{"C1": errors.New("down")},
	}
	c := startController(t, f)

	snap, err := LoadPages(context.Background(), c, Params{}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(snap.Products))
	assert.Equal(t, "C1", snap.Cursor)
}

func TestLoadPages_ContextDeadline(t *testing.T) {
	block := FetcherFunc(func(ctx context.Context, _ Request) (Page, error) {
		<-ctx.Done()
		return Page{}, ctx.Err()
	})
	c := startController(t, block)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := LoadPages(ctx, c, Params{}, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadPages_ReturnsWhenSessionReplaced(t *testing.T) {
	pageTwo := make(chan struct{})
	f := FetcherFunc(func(ctx context.Context, req Request) (Page, error) {
		if req.Query == "a" && req.Cursor == "C1" {
			close(pageTwo)
			<-ctx.Done()
			return Page{}, ctx.Err()
		}
		return Page{Products: products(req.Query + "-1"), EndCursor: "C1"}, nil
	})
	c := startController(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := LoadPages(ctx, c, Params{Query: "a"}, 3)
		done <- result{snap, err}
	}()

	select {
	case <-pageTwo:
	case <-time.After(waitFor):
		t.Fatal("page 2 was never requested")
	}
	require.NoError(t, c.Search(context.Background(), Params{Query: "b"}))

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, "b", res.snap.Params.Query)
	case <-time.After(waitFor):
		t.Fatal("LoadPages kept waiting after its session was replaced")
	}
}
