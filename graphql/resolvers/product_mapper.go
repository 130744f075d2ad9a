package resolvers

import (
	"strconv"
	"time"

	gql "github.com/graph-gophers/graphql-go"

	"storefront.GO/catalog"
	gqlmodels "storefront.GO/graphql/models"
	productEntity "storefront.GO/model/entity/product"
)

func toProduct(p productEntity.Product, mediaURL string) *gqlmodels.Product {
	out := &gqlmodels.Product{
		ID:               gql.ID(strconv.FormatUint(uint64(p.EntityID), 10)),
		Handle:           p.Handle(),
		SKU:              p.SKU,
		Title:            p.Name,
		AvailableForSale: p.IsInStock,
		SalesCount:       int32(p.SalesCount),
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		PriceRange: &gqlmodels.ProductPriceRange{
			MinVariantPrice: &gqlmodels.MoneyV2{
				Amount:       strconv.FormatFloat(p.Price, 'f', 2, 64),
				CurrencyCode: p.CurrencyCode,
			},
		},
	}
	if p.Description != "" {
		d := p.Description
		out.Description = &d
	}
	if url := catalog.MediaURL(mediaURL, p.Image); url != "" {
		out.FeaturedImage = &gqlmodels.Image{URL: url}
	}
	return out
}
