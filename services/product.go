package services

import (
	"context"
	"fmt"
	"strings"

	"blackmarket-backend/database"
	"blackmarket-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	errProductSlugTaken = "Product with this slug already exists"
	errCategoryNotFound = "Category not found"
)

type ProductFilter struct {
	Skip       int
	Limit      int
	CategoryID *uuid.UUID
	Search     string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	IsActive   *bool
}

type ProductService struct {
	DB *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{DB: db}
}

func withImages(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC, created_at ASC")
	})
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.find(s.DB.WithContext(ctx), "id = ?", id)
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.find(s.DB.WithContext(ctx), "slug = ?", slug)
}

func (s *ProductService) find(tx *gorm.DB, query string, args ...interface{}) (*models.Product, error) {
	var product models.Product
	found, err := first(withImages(tx), &product, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &product, nil
}

func (s *ProductService) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if f.PriceMin != nil {
		query = query.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		query = query.Where("price <= ?", *f.PriceMax)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	products := []models.Product{}
	if err := withImages(query).Order("created_at DESC").Offset(f.Skip).Limit(f.Limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var product models.Product
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		product = in.Product()

		taken, err := exists(tx, &models.Product{}, "slug = ?", in.Slug)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return &ConflictError{Reason: errProductSlugTaken}
		}

		if err := requireCategory(tx, in.CategoryID); err != nil {
			return err
		}

		if err := tx.Create(&product).Error; err != nil {
			return conflictOnDuplicate(err, errProductSlugTaken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	product.Images = []models.ProductImage{}
	log.Info().Str("product_id", product.ID.String()).Str("slug", product.Slug).Msg("product created")
	return &product, nil
}

// Update applies the supplied fields. Returns nil when the product does not
// exist.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, patch models.ProductPatch) (*models.Product, error) {
	var updated *models.Product
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		updated = nil

		var current models.Product
		found, err := first(tx, &current, "id = ?", id)
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}
		if !found {
			return nil
		}

		if patch.Slug.Set && patch.Slug.Value != current.Slug {
			taken, err := exists(tx, &models.Product{}, "slug = ? AND id <> ?", patch.Slug.Value, id)
			if err != nil {
				return fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return &ConflictError{Reason: errProductSlugTaken}
			}
		}

		if patch.CategoryID.Set && patch.CategoryID.Value != current.CategoryID {
			if err := requireCategory(tx, patch.CategoryID.Value); err != nil {
				return err
			}
		}

		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&current).Updates(cols).Error; err != nil {
				return conflictOnDuplicate(err, errProductSlugTaken)
			}
		}

		updated, err = s.find(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated != nil {
		log.Info().Str("product_id", id.String()).Msg("product updated")
	}
	return updated, nil
}

// Delete removes a product with its images and returns the removed images so
// their stored files can be cleaned up.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) ([]models.ProductImage, bool, error) {
	var (
		images  []models.ProductImage
		deleted bool
	)
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		images, deleted = nil, false

		found, err := lockProduct(tx, id)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		if err := tx.Where("product_id = ?", id).Find(&images).Error; err != nil {
			return fmt.Errorf("load images: %w", err)
		}
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete images: %w", err)
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if deleted {
		log.Info().Str("product_id", id.String()).Int("images", len(images)).Msg("product deleted")
	}
	return images, deleted, nil
}

func requireCategory(tx *gorm.DB, categoryID uuid.UUID) error {
	found, err := exists(tx, &models.Category{}, "id = ?", categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !found {
		return &ValidationError{Reason: errCategoryNotFound}
	}
	return nil
}
