// Package catalog serves cursor-paginated product searches from the database.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	productEntity "storefront.GO/model/entity/product"
	productRepo "storefront.GO/model/repository/product"
)

// ErrUnknownSortKey is returned for sort keys the catalog cannot order by.
var ErrUnknownSortKey = errors.New("catalog: unknown sort key")

// Storefront sort keys.
const (
	SortRelevance   = "RELEVANCE"
	SortBestSelling = "BEST_SELLING"
	SortCreatedAt   = "CREATED_AT"
	SortPrice       = "PRICE"
)

const (
	columnEntityID  = productRepo.ColumnEntityID
	columnCreatedAt = productRepo.ColumnCreatedAt
)

type ordering struct {
	column string
	// descending is the direction when reverse is false
	descending bool
}

var orderings = map[string]ordering{
	SortRelevance:   {column: productRepo.ColumnEntityID},
	SortBestSelling: {column: productRepo.ColumnSalesCount, descending: true},
	SortCreatedAt:   {column: productRepo.ColumnCreatedAt},
	SortPrice:       {column: productRepo.ColumnPrice},
}

// SortKeys lists the accepted sort keys.
func SortKeys() []string {
	return []string{SortRelevance, SortBestSelling, SortCreatedAt, SortPrice}
}

// Query is one page request. An empty SortKey means RELEVANCE and an empty
// After means the first page.
type Query struct {
	StoreID uint16
	SortKey string
	Reverse bool
	Text    string
	After   string
	First   int
}

// Result is one page of products in order. Cursors[i] resumes after
// Products[i].
type Result struct {
	Products    []productEntity.Product
	Cursors     []string
	EndCursor   string
	HasNextPage bool
}

type SearchService struct {
	repo *productRepo.ProductRepository
}

var (
	serviceMu   sync.Mutex
	serviceByDB = map[*gorm.DB]*SearchService{}
)

func NewSearchService(repo *productRepo.ProductRepository) *SearchService {
	return &SearchService{repo: repo}
}

// GetSearchService returns one service per *gorm.DB.
func GetSearchService(db *gorm.DB) *SearchService {
	serviceMu.Lock()
	defer serviceMu.Unlock()
	if s, ok := serviceByDB[db]; ok {
		return s
	}
	s := NewSearchService(productRepo.GetProductRepository(db))
	serviceByDB[db] = s
	return s
}

// Search returns the page after q.After. EndCursor is empty only when the
// page is empty.
func (s *SearchService) Search(ctx context.Context, q Query) (*Result, error) {
	sortKey := q.SortKey
	if sortKey == "" {
		sortKey = SortRelevance
	}
	ord, ok := orderings[sortKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, q.SortKey)
	}
	first := q.First
	if first <= 0 {
		first = productRepo.DefaultLimit
	}
	if first > productRepo.MaxLimit {
		first = productRepo.MaxLimit
	}

	rq := productRepo.SearchQuery{
		StoreID: q.StoreID,
		Text:    q.Text,
		Column:  ord.column,
		Desc:    ord.descending != q.Reverse,
		Limit:   first + 1,
	}
	if q.After != "" {
		c, err := decodeCursor(q.After)
		if err != nil {
			return nil, err
		}
		if c.SortKey != sortKey || c.Reverse != q.Reverse {
			return nil, fmt.Errorf("%w: issued for %s reverse=%t", ErrInvalidCursor, c.SortKey, c.Reverse)
		}
		v, err := keysetValue(ord.column, c.Value)
		if err != nil {
			return nil, err
		}
		rq.After = &productRepo.Keyset{Value: v, ID: c.ID}
	}

	rows, err := s.repo.Search(ctx, rq)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	res := &Result{Products: rows}
	if len(rows) > first {
		res.Products = rows[:first]
		res.HasNextPage = true
	}
	res.Cursors = make([]string, len(res.Products))
	for i, p := range res.Products {
		res.Cursors[i] = encodeCursor(cursor{
			SortKey: sortKey,
			Reverse: q.Reverse,
			Value:   cursorValue(ord.column, p),
			ID:      p.EntityID,
		})
	}
	if n := len(res.Cursors); n > 0 {
		res.EndCursor = res.Cursors[n-1]
	}
	return res, nil
}

func cursorValue(column string, p productEntity.Product) interface{} {
	switch column {
	case productRepo.ColumnPrice:
		return p.Price
	case productRepo.ColumnSalesCount:
		return p.SalesCount
	case productRepo.ColumnCreatedAt:
		return p.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return nil
}
