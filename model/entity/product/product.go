package product

import (
	"time"

	"gorm.io/datatypes"
)

// Product represents the catalog_product table searched by the storefront.
type Product struct {
	EntityID     uint           `gorm:"column:entity_id;primaryKey;autoIncrement" json:"entity_id"`
	StoreID      uint16         `gorm:"column:store_id;type:smallint unsigned;not null;default:0;index" json:"store_id"`
	SKU          string         `gorm:"column:sku;size:64;not null;uniqueIndex" json:"sku"`
	URLKey       string         `gorm:"column:url_key;size:255;index" json:"url_key"`
	Name         string         `gorm:"column:name;size:255;not null" json:"name"`
	Description  string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Price        float64        `gorm:"column:price;type:decimal(20,6);not null;default:0;index" json:"price"`
	CurrencyCode string         `gorm:"column:currency_code;size:3;not null;default:USD" json:"currency_code"`
	Image        string         `gorm:"column:image;size:255" json:"image,omitempty"`
	IsInStock    bool           `gorm:"column:is_in_stock;not null" json:"is_in_stock"`
	SalesCount   int            `gorm:"column:sales_count;not null;default:0;index" json:"sales_count"`
	Attributes   datatypes.JSON `gorm:"column:attributes" json:"attributes,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "catalog_product"
}

// Handle is the URL key, falling back to the SKU.
func (p *Product) Handle() string {
	if p.URLKey != "" {
		return p.URLKey
	}
	return p.SKU
}
