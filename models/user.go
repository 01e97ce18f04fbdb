package models

import (
	"time"
)

type AccountType string

const (
	AccountClient   AccountType = "client"
	AccountProvider AccountType = "provider"
	AccountAdmin    AccountType = "admin"
)

type User struct {
	ID          uint                 `json:"id" gorm:"primaryKey"`
	Name        string               `json:"name" gorm:"not null"`
	Phone       string               `json:"phone" gorm:"uniqueIndex;not null"`
	Email       string               `json:"email" gorm:"uniqueIndex;not null"`
	Password    string               `json:"password,omitempty"`
	AccountType AccountType          `json:"account_type" gorm:"not null;default:client"`
	City        string               `json:"city"`
	AvatarURL   string               `json:"avatar_url"`
	IsAdmin     bool                 `json:"is_admin" gorm:"default:false"`
	Profile     *ProfessionalProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// IsAdminAccount reports whether the user may use the moderation routes.
func (u *User) IsAdminAccount() bool {
	return u.IsAdmin || u.AccountType == AccountAdmin
}

// UserLookup is the public projection served by find-by-email.
type UserLookup struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	AccountType AccountType `json:"account_type"`
	IsAdmin     bool        `json:"is_admin"`
}
