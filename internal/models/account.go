package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account is a user able to authenticate against the API.
type Account struct {
	ID        string  `gorm:"primaryKey;type:uuid;column:uid" json:"uid"`
	Email     *string `gorm:"uniqueIndex;size:320" json:"email"`
	Phone     *string `gorm:"uniqueIndex;size:32" json:"phone"`
	Name      string  `json:"name"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  string  `json:"image_url"`
	Role      Role    `gorm:"size:16;not null;default:user" json:"role"`

	IsEmailVerified bool `gorm:"default:false" json:"is_email_verified"`
	IsPhoneVerified bool `gorm:"default:false" json:"is_phone_verified"`
	HasPassword     bool `gorm:"default:false" json:"has_password"`

	PasswordHash     string `json:"-"`
	CurrentSessionID string `gorm:"size:64" json:"-"`

	TwoFactorEnabled bool            `gorm:"default:false" json:"two_factor_enabled"`
	TwoFactorOption  TwoFactorOption `gorm:"size:16;not null;default:none" json:"two_factor_option"`

	BusinessID  *string                     `gorm:"type:uuid;index" json:"business_id"`
	Business    *Business                   `json:"business,omitempty"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps accounts in the users table.
func (Account) TableName() string {
	return "users"
}

// BeforeCreate ensures a UUID is present and defaults are populated before persisting.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	if a.TwoFactorOption == "" {
		a.TwoFactorOption = TwoFactorNone
	}
	if a.Permissions == nil {
		a.Permissions = datatypes.JSONSlice[string]{}
	}
	return nil
}

// EmailAddress returns the account email or an empty string.
func (a *Account) EmailAddress() string {
	if a == nil || a.Email == nil {
		return ""
	}
	return *a.Email
}

// PhoneNumber returns the account phone or an empty string.
func (a *Account) PhoneNumber() string {
	if a == nil || a.Phone == nil {
		return ""
	}
	return *a.Phone
}

// NormaliseEmail lower-cases and trims an email address.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
