package models

import "time"

type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// Accepts reports whether code textually matches and the row is unexpired
// at now.
func (r *PasswordReset) Accepts(code string, now time.Time) bool {
	return r.Code == code && now.Before(r.ExpiresAt)
}
