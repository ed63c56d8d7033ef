package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string     `gorm:"not null;index" json:"name"`
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description   *string    `json:"description"`
	ParentID      *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	ImageURL      *string    `json:"image_url"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Subcategories []Category `gorm:"foreignKey:ParentID" json:"subcategories"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CategoryNode is one entry of the nested category tree.
type CategoryNode struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
	IsActive    bool           `json:"is_active"`
	Children    []CategoryNode `json:"children"`
}

// NewCategoryNode copies the display fields of c. Children start empty.
func NewCategoryNode(c *Category) CategoryNode {
	return CategoryNode{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		Children:    []CategoryNode{},
	}
}

type CategoryInput struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Slug        string     `json:"slug" binding:"required,max=100"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,max=500"`
	IsActive    *bool      `json:"is_active"`
}

// Category builds the row to insert. IsActive defaults to true.
func (in CategoryInput) Category() Category {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		ImageURL:    in.ImageURL,
		IsActive:    active,
	}
}

type CategoryPatch struct {
	Name        Optional[string]     `json:"name"`
	Slug        Optional[string]     `json:"slug"`
	Description Optional[*string]    `json:"description"`
	ParentID    Optional[*uuid.UUID] `json:"parent_id"`
	ImageURL    Optional[*string]    `json:"image_url"`
	IsActive    Optional[bool]       `json:"is_active"`
}

func (p CategoryPatch) Validate() error {
	if p.Name.Set && p.Name.Value == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.Slug.Set && p.Slug.Value == "" {
		return fmt.Errorf("slug must not be empty")
	}
	return nil
}

// Columns returns the supplied fields keyed by column name.
func (p CategoryPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	column(cols, "name", p.Name)
	column(cols, "slug", p.Slug)
	column(cols, "description", p.Description)
	column(cols, "parent_id", p.ParentID)
	column(cols, "image_url", p.ImageURL)
	column(cols, "is_active", p.IsActive)
	return cols
}
