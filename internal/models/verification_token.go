package models

import "time"

// VerificationToken holds the single active code for an identifier (email or phone).
// Reissuing a code overwrites the row in place.
type VerificationToken struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Identifier string    `gorm:"uniqueIndex;size:320;not null" json:"identifier"`
	Code       string    `gorm:"size:16;not null" json:"-"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	Expiry     time.Time `gorm:"not null" json:"expiry"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps verification codes in the tokens table.
func (VerificationToken) TableName() string {
	return "tokens"
}
