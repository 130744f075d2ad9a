package models

import gql "github.com/graph-gophers/graphql-go"

// Product is the storefront view of a catalog row. Field names follow the
// schema so graphql-go resolves them directly.
type Product struct {
	ID               gql.ID
	Handle           string
	SKU              string
	Title            string
	Description      *string
	AvailableForSale bool
	SalesCount       int32
	CreatedAt        string
	PriceRange       *ProductPriceRange
	FeaturedImage    *Image
}

type ProductPriceRange struct {
	MinVariantPrice *MoneyV2
}

// MoneyV2 carries the amount as a decimal string.
type MoneyV2 struct {
	Amount       string
	CurrencyCode string
}

type Image struct {
	URL string
}

type ProductEdge struct {
	Cursor string
	Node   *Product
}

type PageInfo struct {
	HasNextPage bool
	EndCursor   *string
}

type ProductConnection struct {
	Edges    []*ProductEdge
	PageInfo *PageInfo
}
