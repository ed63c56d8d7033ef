package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName       string    `gorm:"not null" json:"first_name"`
	LastName        string    `gorm:"not null" json:"last_name"`
	ProfileImageURL *string   `json:"profile_image_url"`
	PhoneNumber     *string   `json:"phone_number"`
	Role            UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

type UserInput struct {
	Email           string   `json:"email" binding:"required,email"`
	FirstName       string   `json:"first_name" binding:"required,max=100"`
	LastName        string   `json:"last_name" binding:"required,max=100"`
	ProfileImageURL *string  `json:"profile_image_url" binding:"omitempty,max=500"`
	PhoneNumber     *string  `json:"phone_number" binding:"omitempty,max=20"`
	Role            UserRole `json:"role" binding:"omitempty,oneof=admin user"`
}

func (in UserInput) User() User {
	return User{
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		ProfileImageURL: in.ProfileImageURL,
		PhoneNumber:     in.PhoneNumber,
		Role:            in.Role,
	}
}

type UserPatch struct {
	Email           Optional[string]   `json:"email"`
	FirstName       Optional[string]   `json:"first_name"`
	LastName        Optional[string]   `json:"last_name"`
	ProfileImageURL Optional[*string]  `json:"profile_image_url"`
	PhoneNumber     Optional[*string]  `json:"phone_number"`
	Role            Optional[UserRole] `json:"role"`
}

func (p UserPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	column(cols, "email", p.Email)
	column(cols, "first_name", p.FirstName)
	column(cols, "last_name", p.LastName)
	column(cols, "profile_image_url", p.ProfileImageURL)
	column(cols, "phone_number", p.PhoneNumber)
	column(cols, "role", p.Role)
	return cols
}

var validate = validator.New()

// Validate applies the create-time field rules to the supplied fields.
func (p UserPatch) Validate() error {
	if p.Email.Set {
		if err := validate.Var(p.Email.Value, "required,email"); err != nil {
			return fmt.Errorf("email must be a valid email address")
		}
	}
	if p.FirstName.Set && p.FirstName.Value == "" {
		return fmt.Errorf("first_name must not be empty")
	}
	if p.LastName.Set && p.LastName.Value == "" {
		return fmt.Errorf("last_name must not be empty")
	}
	if p.Role.Set && p.Role.Value != RoleAdmin && p.Role.Value != RoleUser {
		return fmt.Errorf("role must be one of admin, user")
	}
	return nil
}

// UserProfile is the body of a sync request. The email comes from the
// caller's identity token, never from the body.
type UserProfile struct {
	FirstName       string  `json:"first_name" binding:"required,max=100"`
	LastName        string  `json:"last_name" binding:"required,max=100"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=500"`
}
