package product

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productEntity "storefront.GO/model/entity/product"
)

const (
	DefaultLimit = 20
	MaxLimit     = 250
)

// Sortable columns. Every ordering is tie-broken by entity_id.
const (
	ColumnEntityID   = "entity_id"
	ColumnSalesCount = "sales_count"
	ColumnCreatedAt  = "created_at"
	ColumnPrice      = "price"
)

var sortable = map[string]bool{
	ColumnEntityID:   true,
	ColumnSalesCount: true,
	ColumnCreatedAt:  true,
	ColumnPrice:      true,
}

// Keyset is the position of the last row of a page.
type Keyset struct {
	Value interface{}
	ID    uint
}

// SearchQuery selects one page of products in keyset order.
type SearchQuery struct {
	StoreID uint16
	// Text is split on whitespace; every term must match name, sku or description.
	Text   string
	Column string
	Desc   bool
	After  *Keyset
	Limit  int
}

type ProductRepository struct {
	db *gorm.DB
}

var (
	repoMu   sync.Mutex
	repoByDB = map[*gorm.DB]*ProductRepository{}
)

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProductRepository returns one repository per *gorm.DB.
func GetProductRepository(db *gorm.DB) *ProductRepository {
	repoMu.Lock()
	defer repoMu.Unlock()
	if r, ok := repoByDB[db]; ok {
		return r
	}
	r := NewProductRepository(db)
	repoByDB[db] = r
	return r
}

// Search returns up to q.Limit products after q.After.
func (r *ProductRepository) Search(ctx context.Context, q SearchQuery) ([]productEntity.Product, error) {
	column := q.Column
	if column == "" {
		column = ColumnEntityID
	}
	if !sortable[column] {
		return nil, fmt.Errorf("product repository: column %q is not sortable", column)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit+1 {
		limit = MaxLimit + 1
	}

	tx := r.db.WithContext(ctx).Model(&productEntity.Product{})
	if q.StoreID > 0 {
		tx = tx.Where("store_id IN ?", []uint16{0, q.StoreID})
	}
	for _, term := range strings.Fields(strings.ToLower(q.Text)) {
		like := "%" + term + "%"
		tx = tx.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?)", like, like, like)
	}

	op := ">"
	if q.Desc {
		op = "<"
	}
	if q.After != nil {
		if column == ColumnEntityID {
			tx = tx.Where("entity_id "+op+" ?", q.After.ID)
		} else {
			tx = tx.Where(
				"(("+column+" "+op+" ?) OR ("+column+" = ? AND entity_id "+op+" ?))",
				q.After.Value, q.After.Value, q.After.ID,
			)
		}
	}

	if column != ColumnEntityID {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Desc})
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: ColumnEntityID}, Desc: q.Desc})

	var products []productEntity.Product
	if err := tx.Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Upsert inserts products, updating existing rows matched by SKU.
func (r *ProductRepository) Upsert(ctx context.Context, products []productEntity.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"store_id", "url_key", "name", "description", "price", "currency_code",
			"image", "is_in_stock", "sales_count", "attributes", "updated_at",
		}),
	}).CreateInBatches(&products, batchSize).Error
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*productEntity.Product, error) {
	var p productEntity.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByHandle matches url_key first, then SKU, within the store's visibility.
func (r *ProductRepository) FindByHandle(ctx context.Context, storeID uint16, handle string) (*productEntity.Product, error) {
	tx := r.db.WithContext(ctx).Where("(url_key = ? OR sku = ?)", handle, handle)
	if storeID > 0 {
		tx = tx.Where("store_id IN ?", []uint16{0, storeID})
	}
	var p productEntity.Product
	urlKeyFirst := clause.OrderBy{Expression: clause.Expr{
		SQL:  "CASE WHEN url_key = ? THEN 0 ELSE 1 END",
		Vars: []interface{}{handle},
	}}
	if err := tx.Order(urlKeyFirst).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productEntity.Product{}).Count(&n).Error
	return n, err
}

// LookupSKUs maps existing SKUs to entity IDs, querying batchSize SKUs at a time.
func (r *ProductRepository) LookupSKUs(ctx context.Context, skus []string, batchSize int) (map[string]uint, error) {
	type skuRow struct {
		EntityID uint   `gorm:"column:entity_id"`
		SKU      string `gorm:"column:sku"`
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	out := make(map[string]uint, len(skus))
	for i := 0; i < len(skus); i += batchSize {
		end := min(i+batchSize, len(skus))
		var rows []skuRow
		err := r.db.WithContext(ctx).Model(&productEntity.Product{}).
			Select("entity_id, sku").
			Where("sku IN ?", skus[i:end]).
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("lookup skus: %w", err)
		}
		for _, row := range rows {
			out[row.SKU] = row.EntityID
		}
	}
	return out, nil
}
