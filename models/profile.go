package models

import (
	"strings"
	"time"
)

type ProfileStatus string

const (
	ProfilePending ProfileStatus = "pending"
	ProfileActive  ProfileStatus = "active"
	ProfileBlocked ProfileStatus = "blocked"
)

// Valid reports whether s is one of the moderation states.
func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfilePending, ProfileActive, ProfileBlocked:
		return true
	}
	return false
}

const (
	DefaultNiche  = "domestica"
	DefaultRating = 5.0
)

type ProfessionalProfile struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UserID      uint          `json:"user_id" gorm:"uniqueIndex;not null"`
	Niche       string        `json:"niche" gorm:"index"`
	BasePrice   float64       `json:"base_price" gorm:"type:decimal(10,2);default:0"`
	Rating      float64       `json:"rating" gorm:"type:decimal(2,1);default:5.0"`
	Status      ProfileStatus `json:"status" gorm:"index;default:pending"`
	WorkingDays string        `json:"working_days"`
	Bio         string        `json:"bio"`
	PhotoURL    string        `json:"photo_url"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Days splits the comma-joined working days, dropping blanks.
func (p *ProfessionalProfile) Days() []string {
	return SplitDays(p.WorkingDays)
}

func SplitDays(joined string) []string {
	days := []string{}
	for _, d := range strings.Split(joined, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return days
}

// JoinDays is the inverse of SplitDays; duplicates are kept once.
func JoinDays(days []string) string {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return strings.Join(out, ",")
}

// ProviderListing is a provider user joined with its profile, as served by
// GET /providers and GET /admin/providers.
type ProviderListing struct {
	ID          uint          `json:"id"`
	UserID      uint          `json:"user_id"`
	Name        string        `json:"name"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone"`
	City        string        `json:"city"`
	UserPhoto   string        `json:"user_photo"`
	Niche       string        `json:"niche"`
	BasePrice   float64       `json:"base_price"`
	Rating      float64       `json:"rating"`
	Status      ProfileStatus `json:"status"`
	WorkingDays string        `json:"working_days"`
	Bio         string        `json:"bio"`
	PhotoURL    string        `json:"photo_url"`
}
