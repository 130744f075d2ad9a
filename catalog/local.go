package catalog

import (
	"context"

	"storefront.GO/search"
	catalogService "storefront.GO/service/catalog"
)

// LocalFetcher reads pages straight from the catalog database.
type LocalFetcher struct {
	service  *catalogService.SearchService
	storeID  uint16
	mediaURL string
}

func NewLocalFetcher(service *catalogService.SearchService, storeID uint16, mediaURL string) *LocalFetcher {
	return &LocalFetcher{service: service, storeID: storeID, mediaURL: mediaURL}
}

func (f *LocalFetcher) FetchProducts(ctx context.Context, req search.Request) (search.Page, error) {
	res, err := f.service.Search(ctx, catalogService.Query{
		StoreID: f.storeID,
		SortKey: req.SortKey,
		Reverse: req.Reverse,
		Text:    req.Query,
		After:   req.Cursor,
		First:   req.First,
	})
	if err != nil {
		return search.Page{}, err
	}
	page := search.Page{
		Products:  make([]search.Product, len(res.Products)),
		EndCursor: res.EndCursor,
	}
	for i, p := range res.Products {
		page.Products[i] = FromEntity(p, f.mediaURL)
	}
	return page, nil
}
