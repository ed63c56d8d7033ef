package services

import (
	"context"
	"fmt"

	"blackmarket-backend/database"
	"blackmarket-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	errCategorySlugTaken   = "Category with this slug already exists"
	errParentNotFound      = "Parent category not found"
	errOwnParent           = "Category cannot be its own parent"
	errDescendantOfItself  = "Category cannot be a descendant of itself"
	errCategoryHasChildren = "Cannot delete category with subcategories. Delete or reassign subcategories first."
)

type CategoryFilter struct {
	Skip     int
	Limit    int
	ParentID *uuid.UUID
	IsActive *bool
}

// CategoryService owns the category hierarchy: slugs are unique, every parent
// exists and no category is its own ancestor.
type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// Get returns nil when no category has the id.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.find(s.DB.WithContext(ctx), "id = ?", id)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.find(s.DB.WithContext(ctx), "slug = ?", slug)
}

func (s *CategoryService) find(tx *gorm.DB, query string, args ...interface{}) (*models.Category, error) {
	var category models.Category
	found, err := first(tx.Preload("Subcategories"), &category, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &category, nil
}

// List returns one page of categories and the size of the filtered set.
func (s *CategoryService) List(ctx context.Context, f CategoryFilter) ([]models.Category, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Category{})
	if f.ParentID != nil {
		query = query.Where("parent_id = ?", *f.ParentID)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	categories := []models.Category{}
	if err := query.Preload("Subcategories").Order("name").Offset(f.Skip).Limit(f.Limit).Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return categories, total, nil
}

// Tree returns the nested hierarchy below parentID, or below the roots when
// parentID is nil. A non-nil isActive keeps only matching categories at every
// level, so an inactive category hides its whole subtree.
func (s *CategoryService) Tree(ctx context.Context, parentID *uuid.UUID, isActive *bool) ([]models.CategoryNode, error) {
	var all []models.Category
	if err := s.DB.WithContext(ctx).Order("name").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return newCategoryIndex(all).tree(parentID, isActive), nil
}

func (s *CategoryService) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var category models.Category
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		category = in.Category()

		taken, err := exists(tx, &models.Category{}, "slug = ?", in.Slug)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return &ConflictError{Reason: errCategorySlugTaken}
		}

		if in.ParentID != nil {
			found, err := exists(tx, &models.Category{}, "id = ?", *in.ParentID)
			if err != nil {
				return fmt.Errorf("check parent: %w", err)
			}
			if !found {
				return &ValidationError{Reason: errParentNotFound}
			}
		}

		if err := tx.Create(&category).Error; err != nil {
			return conflictOnDuplicate(err, errCategorySlugTaken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	category.Subcategories = []models.Category{}
	log.Info().Str("category_id", category.ID.String()).Str("slug", category.Slug).Msg("category created")
	return &category, nil
}

// Update applies the supplied fields. It returns nil when the category does
// not exist.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	var updated *models.Category
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		updated = nil

		var current models.Category
		found, err := first(tx, &current, "id = ?", id)
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		if !found {
			return nil
		}

		if patch.Slug.Set && patch.Slug.Value != current.Slug {
			taken, err := exists(tx, &models.Category{}, "slug = ? AND id <> ?", patch.Slug.Value, id)
			if err != nil {
				return fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return &ConflictError{Reason: errCategorySlugTaken}
			}
		}

		if patch.ParentID.Set && !sameID(patch.ParentID.Value, current.ParentID) && patch.ParentID.Value != nil {
			if err := validateParent(tx, id, *patch.ParentID.Value); err != nil {
				return err
			}
		}

		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&current).Updates(cols).Error; err != nil {
				return conflictOnDuplicate(err, errCategorySlugTaken)
			}
		}

		updated, err = s.find(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated != nil {
		log.Info().Str("category_id", id.String()).Msg("category updated")
	}
	return updated, nil
}

// validateParent checks that parentID exists and that moving id below it
// keeps the hierarchy acyclic.
func validateParent(tx *gorm.DB, id, parentID uuid.UUID) error {
	if parentID == id {
		return &ValidationError{Reason: errOwnParent}
	}

	found, err := exists(tx, &models.Category{}, "id = ?", parentID)
	if err != nil {
		return fmt.Errorf("check parent: %w", err)
	}
	if !found {
		return &ValidationError{Reason: errParentNotFound}
	}

	// Walk up from the new parent. Reaching id means id would sit below itself.
	seen := map[uuid.UUID]bool{}
	next := &parentID
	for next != nil && !seen[*next] {
		if *next == id {
			return &ValidationError{Reason: errDescendantOfItself}
		}
		seen[*next] = true

		var ancestor models.Category
		found, err := first(tx.Select("id", "parent_id"), &ancestor, "id = ?", *next)
		if err != nil {
			return fmt.Errorf("walk ancestors: %w", err)
		}
		if !found {
			break
		}
		next = ancestor.ParentID
	}
	return nil
}

// Delete removes a category without children. It returns false when the
// category does not exist. Products in the category are not checked; the
// products foreign key rejects deleting a category that still has any.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		deleted = false

		found, err := exists(tx, &models.Category{}, "id = ?", id)
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		if !found {
			return nil
		}

		hasChildren, err := exists(tx, &models.Category{}, "parent_id = ?", id)
		if err != nil {
			return fmt.Errorf("check subcategories: %w", err)
		}
		if hasChildren {
			return &ConflictError{Reason: errCategoryHasChildren}
		}

		if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		log.Info().Str("category_id", id.String()).Msg("category deleted")
	}
	return deleted, nil
}
