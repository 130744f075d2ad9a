package resolvers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront.GO/graphql"
	gqlmodels "storefront.GO/graphql/models"
	catalogService "storefront.GO/service/catalog"
)

// Products resolves the cursor-paginated products connection.
func (r *QueryResolver) Products(ctx context.Context, args graphql.ProductsArgs) (*gqlmodels.ProductConnection, error) {
	q := catalogService.Query{
		StoreID: r.storeID(ctx),
		SortKey: args.SortKey,
		Text:    stringOrEmpty(args.Query),
		After:   stringOrEmpty(args.After),
		First:   defaultFirst(&args.First),
	}
	q.Reverse = args.Reverse

	res, err := r.searchService().Search(ctx, q)
	if err != nil {
		return nil, err
	}

	conn := &gqlmodels.ProductConnection{
		Edges:    make([]*gqlmodels.ProductEdge, len(res.Products)),
		PageInfo: &gqlmodels.PageInfo{HasNextPage: res.HasNextPage},
	}
	for i, p := range res.Products {
		conn.Edges[i] = &gqlmodels.ProductEdge{
			Cursor: res.Cursors[i],
			Node:   toProduct(p, r.mediaURL),
		}
	}
	if res.EndCursor != "" {
		end := res.EndCursor
		conn.PageInfo.EndCursor = &end
	}
	return conn, nil
}

// Product resolves a single product by URL key or SKU. Unknown handles are null.
func (r *QueryResolver) Product(ctx context.Context, args graphql.ProductArgs) (*gqlmodels.Product, error) {
	p, err := r.productRepo().FindByHandle(ctx, r.storeID(ctx), args.Handle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toProduct(*p, r.mediaURL), nil
}
