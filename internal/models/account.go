package models

import (
	"strings"
	"time"
)

type Account struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	Phone        string `gorm:"size:20" json:"phone"`

	Role string `gorm:"size:20;default:'customer';index:idx_accounts_role_deleted,priority:1;index:idx_accounts_owner_role,priority:2" json:"role"`

	// Meaningful only when Role == barbershop; not enforced at this level.
	ShopName      string `gorm:"size:255" json:"shop_name,omitempty"`
	ShopOwnerName string `gorm:"size:255" json:"shop_owner_name,omitempty"`
	ShopLogoURL   string `gorm:"size:512" json:"shop_logo_url,omitempty"`

	IsActive        bool `gorm:"default:true" json:"is_active"`
	IsEmailVerified bool `gorm:"default:false" json:"is_email_verified"`

	// Ownership chain: set for admin-created barbershops and
	// super-admin-created admins, nil for system/self-registered accounts.
	CreatedByID *uint `gorm:"index:idx_accounts_owner_role,priority:1" json:"created_by"`

	DeletedAt   *time.Time `gorm:"index:idx_accounts_role_deleted,priority:2" json:"deleted_at,omitempty"`
	DeletedByID *uint      `json:"deleted_by,omitempty"`

	Address    string `gorm:"size:255" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *Account) FullName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

// DisplayName prefers the shop name for barbershop accounts.
func (a *Account) DisplayName() string {
	if a.ShopName != "" {
		return a.ShopName
	}
	return a.FullName()
}

func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}
