// Package testutil opens throwaway catalog databases for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	productEntity "storefront.GO/model/entity/product"
)

// OpenDB returns a migrated in-memory SQLite catalog.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&productEntity.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a compact product definition for seeding.
type Fixture struct {
	SKU   string
	Name  string
	Price float64
	Sales int
}

// Seed inserts fixtures in order, so entity_id follows slice position
// starting at 1. created_at increases by one hour per row.
func Seed(t testing.TB, db *gorm.DB, fixtures ...Fixture) []productEntity.Product {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]productEntity.Product, 0, len(fixtures))
	for i, f := range fixtures {
		p := productEntity.Product{
			SKU:          f.SKU,
			URLKey:       fmt.Sprintf("product-%d", i+1),
			Name:         f.Name,
			Price:        f.Price,
			CurrencyCode: "USD",
			IsInStock:    true,
			SalesCount:   f.Sales,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.WithContext(context.Background()).Create(&p).Error; err != nil {
			t.Fatalf("seed %s: %v", f.SKU, err)
		}
		out = append(out, p)
	}
	return out
}

// Catalog is the default fixture set used across packages.
var Catalog = []Fixture{
	{SKU: "SHOE-RED", Name: "Red Running Shoe", Price: 10, Sales: 7},
	{SKU: "SHOE-BLUE", Name: "Blue Running Shoe", Price: 20, Sales: 3},
	{SKU: "HAT-RED", Name: "Red Hat", Price: 20, Sales: 9},
	{SKU: "BOOT-BLK", Name: "Black Boot", Price: 30, Sales: 1},
	{SKU: "SOCK-WHT", Name: "White Sock", Price: 5, Sales: 5},
}
