package models

import "time"

// EmailVerificationToken is a one-shot token mailed on registration.
type EmailVerificationToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	Token     string    `gorm:"size:36;uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *EmailVerificationToken) IsValid(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}

// PasswordResetToken is a one-shot token for the forgot-password flow.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	Token     string    `gorm:"size:36;uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}

// LoginHistory keeps one row per login attempt, including failures.
type LoginHistory struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AccountID *uint  `gorm:"index" json:"account_id,omitempty"`
	Email     string `gorm:"size:100;index" json:"email"`
	Status    string `gorm:"size:20" json:"status"`
	Reason    string `gorm:"size:255" json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
	LoginBlocked = "blocked"
)
