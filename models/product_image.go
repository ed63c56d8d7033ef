package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	AltText      *string   `json:"alt_text"`
	IsPrimary    bool      `gorm:"not null" json:"is_primary"`
	DisplayOrder int       `gorm:"not null" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductImageInput creates an image. A nil IsPrimary lets the image set
// decide: the first image of a product becomes primary.
type ProductImageInput struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	ImageURL     string    `json:"image_url" binding:"required,max=500"`
	AltText      *string   `json:"alt_text" binding:"omitempty,max=200"`
	IsPrimary    *bool     `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
}

type ProductImagePatch struct {
	ImageURL     Optional[string]  `json:"image_url"`
	AltText      Optional[*string] `json:"alt_text"`
	IsPrimary    Optional[bool]    `json:"is_primary"`
	DisplayOrder Optional[int]     `json:"display_order"`
}

func (p ProductImagePatch) Validate() error {
	if p.ImageURL.Set && p.ImageURL.Value == "" {
		return fmt.Errorf("image_url must not be empty")
	}
	return nil
}

func (p ProductImagePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	column(cols, "image_url", p.ImageURL)
	column(cols, "alt_text", p.AltText)
	column(cols, "is_primary", p.IsPrimary)
	column(cols, "display_order", p.DisplayOrder)
	return cols
}
