package models

import (
	"errors"
	"time"
)

var ErrRatingRange = errors.New("rating must be between 1 and 5")

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	ProviderID uint      `json:"provider_id" gorm:"index;not null"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks the rating range.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrRatingRange
	}
	return nil
}

// ReviewView is a review joined with its author's display fields.
type ReviewView struct {
	Review
	ClientName  string `json:"client_name"`
	ClientPhoto string `json:"client_photo"`
}
