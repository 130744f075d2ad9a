package search

import "context"

// Product is a single catalog item as shown in the result list.
type Product struct {
	ID           string  `json:"id" mapstructure:"id"`
	Handle       string  `json:"handle" mapstructure:"handle"`
	SKU          string  `json:"sku" mapstructure:"sku"`
	Title        string  `json:"title" mapstructure:"title"`
	Price        float64 `json:"price" mapstructure:"price"`
	CurrencyCode string  `json:"currency_code" mapstructure:"currency_code"`
	ImageURL     string  `json:"image_url,omitempty" mapstructure:"image_url"`
	Available    bool    `json:"available" mapstructure:"available"`
}

// Request is one paged call against the catalog.
type Request struct {
	SortKey string
	Reverse bool
	Query   string
	// Cursor is empty for the first page.
	Cursor string
	Page   int
	// First is the page size; zero lets the fetcher pick its default.
	First int
}

// Page is the catalog's answer to a Request. EndCursor is empty when the
// catalog did not return one.
type Page struct {
	Products  []Product
	EndCursor string
}

// Fetcher is the remote catalog. Implementations must tolerate being called
// again with a cursor that was already used.
type Fetcher interface {
	FetchProducts(ctx context.Context, req Request) (Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req Request) (Page, error)

func (f FetcherFunc) FetchProducts(ctx context.Context, req Request) (Page, error) {
	return f(ctx, req)
}
