package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string           `gorm:"not null;index" json:"name"`
	Slug          string           `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string           `gorm:"type:text;not null" json:"description"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	StockQuantity int              `gorm:"not null" json:"stock_quantity"`
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	IsActive      bool             `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID" json:"images"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ProductInput struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Slug          string           `json:"slug" binding:"required,max=200"`
	Description   string           `json:"description" binding:"required"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	StockQuantity int              `json:"stock_quantity" binding:"gte=0"`
	CategoryID    uuid.UUID        `json:"category_id" binding:"required"`
	IsActive      *bool            `json:"is_active"`
}

// Validate checks the money fields, which struct tags cannot express.
func (in ProductInput) Validate() error {
	if in.Price == nil {
		return fmt.Errorf("price is required")
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		return fmt.Errorf("sale_price must not be negative")
	}
	return nil
}

func (in ProductInput) Product() Product {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Product{
		Name:          in.Name,
		Slug:          in.Slug,
		Description:   in.Description,
		Price:         *in.Price,
		SalePrice:     in.SalePrice,
		StockQuantity: in.StockQuantity,
		CategoryID:    in.CategoryID,
		IsActive:      active,
	}
}

type ProductPatch struct {
	Name          Optional[string]           `json:"name"`
	Slug          Optional[string]           `json:"slug"`
	Description   Optional[string]           `json:"description"`
	Price         Optional[decimal.Decimal]  `json:"price"`
	SalePrice     Optional[*decimal.Decimal] `json:"sale_price"`
	StockQuantity Optional[int]              `json:"stock_quantity"`
	CategoryID    Optional[uuid.UUID]        `json:"category_id"`
	IsActive      Optional[bool]             `json:"is_active"`
}

func (p ProductPatch) Validate() error {
	if p.Name.Set && p.Name.Value == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.Slug.Set && p.Slug.Value == "" {
		return fmt.Errorf("slug must not be empty")
	}
	if p.Price.Set && p.Price.Value.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if p.SalePrice.Set && p.SalePrice.Value != nil && p.SalePrice.Value.IsNegative() {
		return fmt.Errorf("sale_price must not be negative")
	}
	if p.StockQuantity.Set && p.StockQuantity.Value < 0 {
		return fmt.Errorf("stock_quantity must not be negative")
	}
	return nil
}

func (p ProductPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	column(cols, "name", p.Name)
	column(cols, "slug", p.Slug)
	column(cols, "description", p.Description)
	column(cols, "price", p.Price)
	column(cols, "sale_price", p.SalePrice)
	column(cols, "stock_quantity", p.StockQuantity)
	column(cols, "category_id", p.CategoryID)
	column(cols, "is_active", p.IsActive)
	return cols
}
