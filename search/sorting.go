package search

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Sort keys understood by the catalog.
const (
	SortRelevance   = "RELEVANCE"
	SortBestSelling = "BEST_SELLING"
	SortCreatedAt   = "CREATED_AT"
	SortPrice       = "PRICE"
)

// SortOption maps a URL slug to a catalog sort.
type SortOption struct {
	Title   string `yaml:"title" json:"title"`
	Slug    string `yaml:"slug" json:"slug"`
	SortKey string `yaml:"sort_key" json:"sort_key"`
	Reverse bool   `yaml:"reverse" json:"reverse"`
}

// SortTable is the ordered list of sort options plus the one used when a slug
// does not match.
type SortTable struct {
	Options []SortOption `json:"options"`
	Default SortOption   `json:"default"`
}

// DefaultSortTable returns the built-in storefront sort options.
func DefaultSortTable() SortTable {
	relevance := SortOption{Title: "Relevance", SortKey: SortRelevance}
	return SortTable{
		Default: relevance,
		Options: []SortOption{
			relevance,
			{Title: "Trending", Slug: "trending-desc", SortKey: SortBestSelling},
			{Title: "Latest arrivals", Slug: "latest-desc", SortKey: SortCreatedAt, Reverse: true},
			{Title: "Price: Low to high", Slug: "price-asc", SortKey: SortPrice},
			{Title: "Price: High to low", Slug: "price-desc", SortKey: SortPrice, Reverse: true},
		},
	}
}

// Lookup finds the option for slug. Empty slugs never match.
func (t SortTable) Lookup(slug string) (SortOption, bool) {
	if slug == "" {
		return SortOption{}, false
	}
	for _, o := range t.Options {
		if o.Slug == slug {
			return o, true
		}
	}
	return SortOption{}, false
}

type sortTableFile struct {
	Default string       `yaml:"default"`
	Options []SortOption `yaml:"options"`
}

// LoadSortTable reads a YAML sort table:
//
//	default: relevance
//	options:
//	  - {title: Relevance, slug: relevance, sort_key: RELEVANCE}
//	  - {title: Price, slug: price-asc, sort_key: PRICE}
//
// default names the slug of the fallback option; when empty the first option is used.
func LoadSortTable(r io.Reader) (SortTable, error) {
	var f sortTableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return SortTable{}, fmt.Errorf("decode sort table: %w", err)
	}
	if len(f.Options) == 0 {
		return SortTable{}, fmt.Errorf("sort table has no options")
	}
	for i, o := range f.Options {
		if o.SortKey == "" {
			return SortTable{}, fmt.Errorf("sort option %d (%q) has no sort_key", i, o.Title)
		}
	}
	t := SortTable{Options: f.Options, Default: f.Options[0]}
	if f.Default != "" {
		d, ok := t.Lookup(f.Default)
		if !ok {
			return SortTable{}, fmt.Errorf("default sort %q not in options", f.Default)
		}
		t.Default = d
	}
	return t, nil
}
