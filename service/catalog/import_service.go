package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	productEntity "storefront.GO/model/entity/product"
	productRepo "storefront.GO/model/repository/product"
)

// ImportOptions configures a product import run.
type ImportOptions struct {
	StoreID   uint16
	BatchSize int
	// Currency is used for rows without a currency_code column.
	Currency string
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows   int
	Created     int
	Updated     int
	Skipped     int
	Warnings    []string
	ProcessTime time.Duration
	DBTime      time.Duration
	TotalTime   time.Duration
}

// Columns mapped onto catalog_product. Any other column is kept in attributes.
var staticColumns = map[string]bool{
	"sku": true, "name": true, "url_key": true, "description": true, "price": true,
	"currency_code": true, "image": true, "is_in_stock": true, "qty": true,
	"sales_count": true, "created_at": true,
}

// ImportProducts reads CSV rows from r and upserts them by SKU.
func ImportProducts(ctx context.Context, repo *productRepo.ProductRepository, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	startTotal := time.Now()
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}

	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(headers))
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
		colIndex[headers[i]] = i
	}
	if _, ok := colIndex["sku"]; !ok {
		return nil, fmt.Errorf("CSV must contain a 'sku' column")
	}
	if _, ok := colIndex["name"]; !ok {
		return nil, fmt.Errorf("CSV must contain a 'name' column")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}
	result := &ImportResult{TotalRows: len(rows)}

	startProcess := time.Now()
	products := make([]productEntity.Product, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for n, row := range rows {
		line := n + 2
		get := func(col string) string {
			if i, ok := colIndex[col]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		p, warns := rowToProduct(get, headers, row, opts)
		for _, w := range warns {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %s", line, w))
		}
		switch {
		case p == nil:
			result.Skipped++
			continue
		case seen[p.SKU]:
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: duplicate sku %q, skipping", line, p.SKU))
			result.Skipped++
			continue
		}
		seen[p.SKU] = true
		products = append(products, *p)
	}
	result.ProcessTime = time.Since(startProcess)

	startDB := time.Now()
	skus := make([]string, len(products))
	for i := range products {
		skus[i] = products[i].SKU
	}
	existing, err := repo.LookupSKUs(ctx, skus, opts.BatchSize)
	if err != nil {
		return nil, err
	}
	if err := repo.Upsert(ctx, products, opts.BatchSize); err != nil {
		return nil, fmt.Errorf("upsert products: %w", err)
	}
	result.DBTime = time.Since(startDB)

	result.Updated = len(existing)
	result.Created = len(products) - result.Updated
	result.TotalTime = time.Since(startTotal)
	return result, nil
}

func rowToProduct(get func(string) string, headers, row []string, opts ImportOptions) (*productEntity.Product, []string) {
	var warns []string
	sku := get("sku")
	if sku == "" {
		return nil, []string{"empty sku, skipping"}
	}
	name := get("name")
	if name == "" {
		return nil, []string{fmt.Sprintf("sku=%s: empty name, skipping", sku)}
	}

	p := &productEntity.Product{
		StoreID:      opts.StoreID,
		SKU:          sku,
		Name:         name,
		URLKey:       get("url_key"),
		Description:  get("description"),
		Image:        get("image"),
		CurrencyCode: strings.ToUpper(get("currency_code")),
		IsInStock:    true,
	}
	if p.URLKey == "" {
		p.URLKey = slugify(name)
	}
	if p.CurrencyCode == "" {
		p.CurrencyCode = opts.Currency
	}

	if v := get("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			warns = append(warns, fmt.Sprintf("sku=%s: invalid price %q", sku, v))
		} else {
			p.Price = price
		}
	}
	if v := get("sales_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			warns = append(warns, fmt.Sprintf("sku=%s: invalid sales_count %q", sku, v))
		} else {
			p.SalesCount = n
		}
	}
	if v := get("is_in_stock"); v != "" {
		in, err := strconv.ParseBool(v)
		if err != nil {
			warns = append(warns, fmt.Sprintf("sku=%s: invalid is_in_stock %q", sku, v))
		} else {
			p.IsInStock = in
		}
	} else if v := get("qty"); v != "" {
		qty, err := strconv.ParseFloat(v, 64)
		if err != nil {
			warns = append(warns, fmt.Sprintf("sku=%s: invalid qty %q", sku, v))
		} else {
			p.IsInStock = qty > 0
		}
	}
	if v := get("created_at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse(time.DateTime, v)
		}
		if err != nil {
			warns = append(warns, fmt.Sprintf("sku=%s: invalid created_at %q", sku, v))
		} else {
			p.CreatedAt = t.UTC()
		}
	}

	attrs := make(map[string]string)
	for i, h := range headers {
		if staticColumns[h] || h == "" || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			attrs[h] = v
		}
	}
	if len(attrs) > 0 {
		raw, _ := json.Marshal(attrs)
		p.Attributes = datatypes.JSON(raw)
	}
	return p, warns
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
