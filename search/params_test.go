package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParams_KnownSlug(t *testing.T) {
	p := ResolveParams("price-desc", "shoes", DefaultSortTable())
	assert.Equal(t, Params{SortKey: SortPrice, Reverse: true, Query: "shoes"}, p)
}

func TestResolveParams_UnknownSlugFallsBackToDefault(t *testing.T) {
	table := DefaultSortTable()
	want := Params{SortKey: SortRelevance, Reverse: false}
	for _, slug := range []string{"", "nope", "PRICE-ASC", "price-asc ", "relevance"} {
		got := ResolveParams(slug, "", table)
		assert.Equal(t, want, got, "slug %q", slug)
		assert.Equal(t, got, ResolveParams(slug, "", table), "fallback must be stable for %q", slug)
	}
}

func TestResolveParams_QueryVerbatim(t *testing.T) {
	q := "  Red  \"Shoes\" "
	assert.Equal(t, q, ResolveParams("latest-desc", q, DefaultSortTable()).Query)
}

func TestDefaultSortTable(t *testing.T) {
	table := DefaultSortTable()
	require.Len(t, table.Options, 5)
	assert.Equal(t, table.Default, table.Options[0])
	latest, ok := table.Lookup("latest-desc")
	require.True(t, ok)
	assert.Equal(t, SortCreatedAt, latest.SortKey)
	assert.True(t, latest.Reverse)
}

func TestLoadSortTable(t *testing.T) {
	doc := `
default: cheap
options:
  - title: Newest
    slug: newest
    sort_key: CREATED_AT
    reverse: true
  - title: Cheapest
    slug: cheap
    sort_key: PRICE
`
	table, err := LoadSortTable(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, table.Options, 2)
	assert.Equal(t, "cheap", table.Default.Slug)
	assert.Equal(t, Params{SortKey: SortPrice, Query: "x"}, ResolveParams("missing", "x", table))
}

func TestLoadSortTable_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":           "options: []",
		"missing key":     "options:\n  - {title: A, slug: a}",
		"unknown default": "default: zzz\noptions:\n  - {title: A, slug: a, sort_key: PRICE}",
		"bad yaml":        "options: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSortTable(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
