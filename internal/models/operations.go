package models

import "time"

// Per-shop operational rows. Every type carries the owning barbershop account
// FK and every query filters on it; there is no cross-shop access path.

const (
	AppointmentConfirmed = "confirmed"
	AppointmentPending   = "pending"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
	AppointmentNoShow    = "no_show"
)

func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentConfirmed, AppointmentPending, AppointmentCancelled, AppointmentCompleted, AppointmentNoShow:
		return true
	}
	return false
}

type ShopAppointment struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index:idx_shop_appointments_shop_date,priority:1;not null" json:"barbershop_id"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`
	CustomerEmail string `gorm:"size:100" json:"customer_email,omitempty"`

	Service     string    `gorm:"size:100;not null" json:"service"`
	BarberName  string    `gorm:"size:100" json:"barber_name"`
	ScheduledAt time.Time `gorm:"index:idx_shop_appointments_shop_date,priority:2" json:"scheduled_at"`
	DurationMin int       `gorm:"default:60" json:"duration_min"`

	Status string  `gorm:"size:20;default:'confirmed';index" json:"status"`
	Amount float64 `json:"amount"`
	Notes  string  `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShopSale struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index:idx_shop_sales_shop_date,priority:1;not null" json:"barbershop_id"`

	CustomerName  string  `gorm:"size:100;not null" json:"customer_name"`
	Service       string  `gorm:"size:100;not null" json:"service"`
	BarberName    string  `gorm:"size:100" json:"barber_name"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `gorm:"size:20" json:"payment_method"`

	AppointmentID *uint `gorm:"uniqueIndex" json:"appointment_id,omitempty"`

	Notes    string    `gorm:"type:text" json:"notes,omitempty"`
	SaleDate time.Time `gorm:"index:idx_shop_sales_shop_date,priority:2" json:"sale_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShopStaff struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null;uniqueIndex:idx_shop_staff_phone,priority:1" json:"barbershop_id"`

	Name   string   `gorm:"size:100;not null" json:"name"`
	Role   string   `gorm:"size:30" json:"role"`
	Phone  string   `gorm:"size:20;uniqueIndex:idx_shop_staff_phone,priority:2" json:"phone"`
	Email  string   `gorm:"size:100" json:"email,omitempty"`
	Status string   `gorm:"size:20;default:'Active'" json:"status"`
	Salary *float64 `json:"salary,omitempty"`

	JoinDate  time.Time `json:"join_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShopCustomer struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null;uniqueIndex:idx_shop_customers_phone,priority:1" json:"barbershop_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex:idx_shop_customers_phone,priority:2" json:"phone"`
	Email string `gorm:"size:100" json:"email,omitempty"`

	TotalVisits   int        `gorm:"default:0" json:"total_visits"`
	LastVisitDate *time.Time `json:"last_visit_date,omitempty"`
	TotalSpent    float64    `gorm:"default:0" json:"total_spent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShopInventoryItem struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`

	Name     string  `gorm:"size:100;not null" json:"name"`
	Category string  `gorm:"size:50" json:"category"`
	Quantity int     `gorm:"default:0" json:"quantity"`
	MinStock int     `gorm:"default:5" json:"min_stock"`
	Price    float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *ShopInventoryItem) LowStock() bool {
	return i.Quantity <= i.MinStock
}

type ShopService struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description,omitempty"`
	DurationMin int     `gorm:"default:30" json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
