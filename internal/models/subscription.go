package models

import "time"

const (
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

const (
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionSuspended = "suspended"
	SubscriptionExpired   = "expired"
)

func ValidPlan(p string) bool {
	return p == PlanBasic || p == PlanPremium || p == PlanEnterprise
}

func ValidSubscriptionStatus(s string) bool {
	switch s {
	case SubscriptionActive, SubscriptionInactive, SubscriptionSuspended, SubscriptionExpired:
		return true
	}
	return false
}

// Subscription is 1:1 with a barbershop account.
type Subscription struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"uniqueIndex;not null" json:"account_id"`

	Plan   string `gorm:"size:20;default:'basic';index:idx_subscriptions_plan_status,priority:1" json:"plan"`
	Status string `gorm:"size:20;default:'active';index:idx_subscriptions_plan_status,priority:2;index:idx_subscriptions_status_expiry,priority:1" json:"status"`

	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `gorm:"index:idx_subscriptions_status_expiry,priority:2" json:"expires_at"`

	MaxAppointments int `gorm:"default:100" json:"max_appointments"`
	MaxStaff        int `gorm:"default:5" json:"max_staff"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsActive reports whether the subscription currently blocks shop deletion.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && !s.IsExpired(now)
}

func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.IsExpired(now) {
		return 0
	}
	return int(s.ExpiresAt.Sub(now).Hours() / 24)
}

// SubscriptionHistory is an append-only change log of subscription updates.
type SubscriptionHistory struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SubscriptionID uint `gorm:"index;not null" json:"subscription_id"`

	Action    string `gorm:"size:50;not null" json:"action"`
	OldPlan   string `gorm:"size:20" json:"old_plan,omitempty"`
	NewPlan   string `gorm:"size:20" json:"new_plan,omitempty"`
	OldStatus string `gorm:"size:20" json:"old_status,omitempty"`
	NewStatus string `gorm:"size:20" json:"new_status,omitempty"`

	PerformedByID *uint  `json:"performed_by,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
