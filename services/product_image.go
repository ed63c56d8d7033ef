package services

import (
	"context"
	"fmt"

	"blackmarket-backend/database"
	"blackmarket-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const errProductNotFound = "Product not found"

// promotionOrder picks the image that replaces a deleted primary.
const promotionOrder = "display_order ASC, created_at ASC, id ASC"

// ProductImageService keeps each product's image set consistent: a product
// has at most one primary image. The first image of a product and the
// promotion after deleting the primary keep one whenever the caller did not
// ask otherwise; an explicit is_primary=false leaves the set without one.
//
// Every mutation locks the owning product row first, so concurrent changes
// to one product's images are serialized.
type ProductImageService struct {
	DB *gorm.DB
}

func NewProductImageService(db *gorm.DB) *ProductImageService {
	return &ProductImageService{DB: db}
}

func (s *ProductImageService) Get(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	found, err := first(s.DB.WithContext(ctx), &image, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("find image: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &image, nil
}

// ListForProduct returns the product's images by ascending display order.
func (s *ProductImageService) ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	images := []models.ProductImage{}
	err := s.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("display_order ASC, created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// URLInUse reports whether any image row still references imageURL.
func (s *ProductImageService) URLInUse(ctx context.Context, imageURL string) (bool, error) {
	found, err := exists(s.DB.WithContext(ctx), &models.ProductImage{}, "image_url = ?", imageURL)
	if err != nil {
		return false, fmt.Errorf("check image url: %w", err)
	}
	return found, nil
}

// Create adds an image. Without an explicit is_primary the first image of a
// product becomes primary. A primary image demotes all of its siblings.
func (s *ProductImageService) Create(ctx context.Context, in models.ProductImageInput) (*models.ProductImage, error) {
	var image models.ProductImage
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		found, err := lockProduct(tx, in.ProductID)
		if err != nil {
			return err
		}
		if !found {
			return &ValidationError{Reason: errProductNotFound}
		}

		var count int64
		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", in.ProductID).Count(&count).Error; err != nil {
			return fmt.Errorf("count images: %w", err)
		}

		isPrimary := count == 0
		if in.IsPrimary != nil {
			isPrimary = *in.IsPrimary
		}
		if isPrimary {
			if err := demoteSiblings(tx, in.ProductID, uuid.Nil); err != nil {
				return err
			}
		}

		image = models.ProductImage{
			ProductID:    in.ProductID,
			ImageURL:     in.ImageURL,
			AltText:      in.AltText,
			IsPrimary:    isPrimary,
			DisplayOrder: in.DisplayOrder,
		}
		if err := tx.Create(&image).Error; err != nil {
			return fmt.Errorf("create image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("image_id", image.ID.String()).
		Str("product_id", image.ProductID.String()).
		Bool("is_primary", image.IsPrimary).
		Msg("product image created")
	return &image, nil
}

// Update applies the supplied fields. Setting is_primary demotes the
// siblings; clearing it promotes nothing. Returns nil when the image does
// not exist.
func (s *ProductImageService) Update(ctx context.Context, id uuid.UUID, patch models.ProductImagePatch) (*models.ProductImage, error) {
	var updated *models.ProductImage
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		updated = nil

		image, err := lockImage(tx, id)
		if err != nil || image == nil {
			return err
		}

		if patch.IsPrimary.Set && patch.IsPrimary.Value {
			if err := demoteSiblings(tx, image.ProductID, image.ID); err != nil {
				return err
			}
		}

		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(image).Updates(cols).Error; err != nil {
				return fmt.Errorf("update image: %w", err)
			}
		}

		var fresh models.ProductImage
		if err := tx.Take(&fresh, "id = ?", id).Error; err != nil {
			return fmt.Errorf("reload image: %w", err)
		}
		updated = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated != nil {
		log.Info().Str("image_id", id.String()).Msg("product image updated")
	}
	return updated, nil
}

// Delete removes an image and returns it. When it was the primary image the
// remaining image that sorts first by promotionOrder becomes primary.
func (s *ProductImageService) Delete(ctx context.Context, id uuid.UUID) (*models.ProductImage, bool, error) {
	var deleted *models.ProductImage
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		deleted = nil

		image, err := lockImage(tx, id)
		if err != nil || image == nil {
			return err
		}

		if err := tx.Delete(&models.ProductImage{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete image: %w", err)
		}

		if image.IsPrimary {
			if err := promoteNext(tx, image.ProductID); err != nil {
				return err
			}
		}
		deleted = image
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if deleted == nil {
		return nil, false, nil
	}

	log.Info().
		Str("image_id", id.String()).
		Str("product_id", deleted.ProductID.String()).
		Bool("was_primary", deleted.IsPrimary).
		Msg("product image deleted")
	return deleted, true, nil
}

// lockProduct takes the row lock that serializes image changes for one
// product. SQLite ignores the locking clause.
func lockProduct(tx *gorm.DB, productID uuid.UUID) (bool, error) {
	var product models.Product
	found, err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id"), &product, "id = ?", productID)
	if err != nil {
		return false, fmt.Errorf("lock product: %w", err)
	}
	return found, nil
}

// lockImage loads an image, locks its product and loads the image again so
// the caller sees the state after the lock was granted.
func lockImage(tx *gorm.DB, id uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	found, err := first(tx, &image, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("find image: %w", err)
	}
	if !found {
		return nil, nil
	}

	if _, err := lockProduct(tx, image.ProductID); err != nil {
		return nil, err
	}

	found, err = first(tx, &image, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("find image: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &image, nil
}

// demoteSiblings clears is_primary on the product's images other than keep.
// It runs before the new primary is written so the one-primary index holds
// throughout.
func demoteSiblings(tx *gorm.DB, productID, keep uuid.UUID) error {
	query := tx.Model(&models.ProductImage{}).Where("product_id = ? AND is_primary = ?", productID, true)
	if keep != uuid.Nil {
		query = query.Where("id <> ?", keep)
	}
	if err := query.Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("demote images: %w", err)
	}
	return nil
}

func promoteNext(tx *gorm.DB, productID uuid.UUID) error {
	var next models.ProductImage
	found, err := first(tx.Order(promotionOrder), &next, "product_id = ?", productID)
	if err != nil {
		return fmt.Errorf("find next primary: %w", err)
	}
	if !found {
		return nil
	}
	if err := tx.Model(&next).Update("is_primary", true).Error; err != nil {
		return fmt.Errorf("promote image: %w", err)
	}
	return nil
}
