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

const errEmailTaken = "Email already registered"

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.find(s.DB.WithContext(ctx), "id = ?", id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(s.DB.WithContext(ctx), "email = ?", email)
}

func (s *UserService) find(tx *gorm.DB, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	found, err := first(tx, &user, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.User, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := []models.User{}
	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	var user models.User
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		user = in.User()

		taken, err := exists(tx, &models.User{}, "email = ?", in.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return &ConflictError{Reason: errEmailTaken}
		}

		if err := tx.Create(&user).Error; err != nil {
			return conflictOnDuplicate(err, errEmailTaken)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user created")
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error) {
	var updated *models.User
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		updated = nil

		var current models.User
		found, err := first(tx, &current, "id = ?", id)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if !found {
			return nil
		}

		if patch.Email.Set && patch.Email.Value != current.Email {
			taken, err := exists(tx, &models.User{}, "email = ? AND id <> ?", patch.Email.Value, id)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if taken {
				return &ConflictError{Reason: errEmailTaken}
			}
		}

		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&current).Updates(cols).Error; err != nil {
				return conflictOnDuplicate(err, errEmailTaken)
			}
		}

		updated, err = s.find(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Info().Str("user_id", id.String()).Msg("user deleted")
	}
	return result.RowsAffected > 0, nil
}

// Sync creates or refreshes the user identified by email, which the caller
// resolves from the identity token. Only the profile fields are written on
// an existing user.
func (s *UserService) Sync(ctx context.Context, email string, profile models.UserProfile) (*models.User, bool, error) {
	var (
		user    models.User
		created bool
	)
	err := database.WithTx(ctx, s.DB, func(tx *gorm.DB) error {
		user, created = models.User{}, false

		found, err := first(tx, &user, "email = ?", email)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}

		if !found {
			user = models.User{
				Email:           email,
				FirstName:       profile.FirstName,
				LastName:        profile.LastName,
				ProfileImageURL: profile.ProfileImageURL,
				Role:            models.RoleUser,
			}
			if err := tx.Create(&user).Error; err != nil {
				return conflictOnDuplicate(err, errEmailTaken)
			}
			created = true
			return nil
		}

		cols := map[string]interface{}{
			"first_name": profile.FirstName,
			"last_name":  profile.LastName,
		}
		if profile.ProfileImageURL != nil {
			cols["profile_image_url"] = *profile.ProfileImageURL
		}
		if err := tx.Model(&user).Updates(cols).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return tx.Take(&user, "id = ?", user.ID).Error
	})
	if err != nil {
		return nil, false, err
	}

	log.Info().Str("user_id", user.ID.String()).Bool("created", created).Msg("user synced")
	return &user, created, nil
}
