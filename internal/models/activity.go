package models

import "time"

// Activity action types. The set is closed; handlers reject unknown values.
const (
	ActionServiceUpdate       = "service_update"
	ActionAppointmentAdded    = "appointment_added"
	ActionPaymentProcessed    = "payment_processed"
	ActionProfileUpdated      = "profile_updated"
	ActionStatusChanged       = "status_changed"
	ActionSubscriptionChanged = "subscription_changed"
	ActionStaffAdded          = "staff_added"
	ActionHoursUpdated        = "hours_updated"
	ActionSaleRecorded        = "sale_recorded"
	ActionCustomerAdded       = "customer_added"
	ActionInventoryAdded      = "inventory_added"
	ActionInventoryLowStock   = "inventory_low_stock"
	ActionTransferOut         = "transfer_out"
	ActionShopArchived        = "shop_archived"
	ActionShopRestored        = "shop_restored"
	ActionLogin               = "login"
)

// Activity is an append-only audit record scoped to a barbershop account.
// Rows are never updated or deleted by application flows.
type Activity struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint   `gorm:"index:idx_activities_shop_time,priority:1;not null" json:"barbershop_id"`
	ActionType   string `gorm:"size:50;index;not null" json:"action_type"`
	Description  string `gorm:"type:text" json:"description"`

	Amount   *float64 `json:"amount,omitempty"`
	Metadata string   `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_activities_shop_time,priority:2" json:"created_at"`
}
