// Package catalog provides search.Fetcher backends for the storefront
// catalog: the GraphQL storefront API, Elasticsearch and the local database,
// plus caching and metrics decorators.
package catalog

import (
	"strconv"
	"strings"

	productEntity "storefront.GO/model/entity/product"
	"storefront.GO/search"
)

// FromEntity converts a catalog row to a result item. Relative image paths
// are resolved against mediaURL.
func FromEntity(p productEntity.Product, mediaURL string) search.Product {
	return search.Product{
		ID:           strconv.FormatUint(uint64(p.EntityID), 10),
		Handle:       p.Handle(),
		SKU:          p.SKU,
		Title:        p.Name,
		Price:        p.Price,
		CurrencyCode: p.CurrencyCode,
		ImageURL:     MediaURL(mediaURL, p.Image),
		Available:    p.IsInStock,
	}
}

// MediaURL joins base and image unless image is already absolute.
func MediaURL(base, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") || base == "" {
		return image
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(image, "/")
}
