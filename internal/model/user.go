package model

import (
	"time"
)

// User is a registered credential. The reset token is stored as a SHA-256
// hex digest and is set together with its expiry.
type User struct {
	ID               uint       `gorm:"primaryKey"`
	Name             string     `gorm:"column:name;size:100;not null"`
	Email            string     `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	ResetTokenHash   *string    `gorm:"column:reset_token;size:64;index:idx_address_book_entries_reset_token,where:reset_token IS NOT NULL"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (User) TableName() string {
	return "address_book_entries"
}

// HasPendingReset reports whether an unexpired reset token is stored
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now)
}
