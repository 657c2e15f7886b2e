package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipperhub/barbershop-platform/internal/activity"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/httpresp"
	"github.com/clipperhub/barbershop-platform/internal/middleware"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

// ShopHandler serves the barbershop's own surface. The acting account ID is
// the tenant key: every query filters on it and every write stamps it.
type ShopHandler struct {
	db         *gorm.DB
	dispatcher *activity.Dispatcher
}

func NewShopHandler(db *gorm.DB, dispatcher *activity.Dispatcher) *ShopHandler {
	return &ShopHandler{db: db, dispatcher: dispatcher}
}

func (h *ShopHandler) dispatch(ev activity.Event) {
	if h.dispatcher != nil {
		h.dispatcher.Dispatch(ev)
	}
}

// scoped returns a query on model pre-filtered to the actor's shop.
func (h *ShopHandler) scoped(c *gin.Context, model any) *gorm.DB {
	actor := middleware.Actor(c)
	return h.db.Model(model).Where("barbershop_id = ?", actor.ID)
}

// --------- Profile ---------

func (h *ShopHandler) GetProfile(c *gin.Context) {
	actor := middleware.Actor(c)
	httpresp.OK(c, "Profile retrieved successfully.", barbershopDetail(h.db, actor))
}

func (h *ShopHandler) UpdateProfile(c *gin.Context) {
	actor := middleware.Actor(c)

	var req UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid profile payload.", err.Error())
		return
	}

	applyBarbershopUpdate(actor, &req)
	if err := h.db.Save(actor).Error; err != nil {
		httperr.Internal(c, "Failed to update profile.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionProfileUpdated,
		Description:  "Shop profile updated",
	})
	httpresp.OK(c, "Profile updated successfully.", barbershopDetail(h.db, actor))
}

// --------- Dashboard ---------

func (h *ShopHandler) Dashboard(c *gin.Context) {
	actor := middleware.Actor(c)
	monthStart := startOfMonth(time.Now())

	var monthRevenue float64
	h.scoped(c, &models.ShopSale{}).
		Where("sale_date >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthRevenue)

	var upcoming, totalCustomers, staffCount, lowStock int64
	h.scoped(c, &models.ShopAppointment{}).
		Where("scheduled_at >= ? AND status IN ?", time.Now(),
			[]string{models.AppointmentConfirmed, models.AppointmentPending}).
		Count(&upcoming)
	h.scoped(c, &models.ShopCustomer{}).Count(&totalCustomers)
	h.scoped(c, &models.ShopStaff{}).Count(&staffCount)
	h.scoped(c, &models.ShopInventoryItem{}).
		Where("quantity <= min_stock").
		Count(&lowStock)

	var recent []models.Activity
	h.db.Where("barbershop_id = ?", actor.ID).
		Order("created_at DESC").
		Limit(10).
		Find(&recent)

	httpresp.OK(c, "Dashboard retrieved successfully.", gin.H{
		"stats": gin.H{
			"month_revenue":         monthRevenue,
			"upcoming_appointments": upcoming,
			"total_customers":       totalCustomers,
			"staff_count":           staffCount,
			"low_stock_items":       lowStock,
		},
		"recent_activities": recent,
	})
}

func (h *ShopHandler) Activities(c *gin.Context) {
	actor := middleware.Actor(c)

	q := h.db.Model(&models.Activity{}).Where("barbershop_id = ?", actor.ID)
	if v := c.Query("action_type"); v != "" {
		q = q.Where("action_type = ?", v)
	}

	var total int64
	q.Count(&total)

	page, pageSize := pagination(c)
	var items []models.Activity
	if err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load activities.")
		return
	}
	httpresp.List(c, "Activities retrieved successfully.", items, total)
}

// --------- Appointments ---------

type AppointmentRequest struct {
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerPhone string    `json:"customer_phone"`
	CustomerEmail string    `json:"customer_email"`
	Service       string    `json:"service" binding:"required"`
	BarberName    string    `json:"barber_name"`
	ScheduledAt   time.Time `json:"scheduled_at" binding:"required"`
	DurationMin   int       `json:"duration_min"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Notes         string    `json:"notes"`
}

func (h *ShopHandler) ListAppointments(c *gin.Context) {
	q := h.scoped(c, &models.ShopAppointment{})
	if v := c.Query("status"); v != "" {
		if !models.ValidAppointmentStatus(v) {
			httperr.BadRequest(c, "Unknown appointment status.")
			return
		}
		q = q.Where("status = ?", v)
	}
	if v := c.Query("date"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "Invalid date, expected YYYY-MM-DD.")
			return
		}
		q = q.Where("scheduled_at >= ? AND scheduled_at < ?", day, day.AddDate(0, 0, 1))
	}

	var items []models.ShopAppointment
	if err := q.Order("scheduled_at ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load appointments.")
		return
	}
	httpresp.List(c, "Appointments retrieved successfully.", items, int64(len(items)))
}

func (h *ShopHandler) CreateAppointment(c *gin.Context) {
	actor := middleware.Actor(c)

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid appointment payload.", err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = models.AppointmentConfirmed
	}
	if !models.ValidAppointmentStatus(status) {
		httperr.BadRequest(c, "Unknown appointment status.")
		return
	}

	appt := models.ShopAppointment{
		BarbershopID:  actor.ID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Service:       req.Service,
		BarberName:    req.BarberName,
		ScheduledAt:   req.ScheduledAt,
		DurationMin:   req.DurationMin,
		Status:        status,
		Amount:        req.Amount,
		Notes:         req.Notes,
	}
	if appt.DurationMin <= 0 {
		appt.DurationMin = 60
	}
	if err := h.db.Create(&appt).Error; err != nil {
		httperr.Internal(c, "Failed to create appointment.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionAppointmentAdded,
		Description:  fmt.Sprintf("Appointment booked for %s (%s)", appt.CustomerName, appt.Service),
		Amount:       &appt.Amount,
		Metadata:     map[string]any{"appointment_id": appt.ID},
	})
	httpresp.Created(c, "Appointment created successfully.", appt)
}

func (h *ShopHandler) UpdateAppointment(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var appt models.ShopAppointment
	if err := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).First(&appt).Error; err != nil {
		httperr.NotFound(c, "Appointment not found.")
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid appointment payload.", err.Error())
		return
	}
	if req.Status != "" && !models.ValidAppointmentStatus(req.Status) {
		httperr.BadRequest(c, "Unknown appointment status.")
		return
	}

	appt.CustomerName = req.CustomerName
	appt.CustomerPhone = req.CustomerPhone
	appt.CustomerEmail = req.CustomerEmail
	appt.Service = req.Service
	appt.BarberName = req.BarberName
	appt.ScheduledAt = req.ScheduledAt
	if req.DurationMin > 0 {
		appt.DurationMin = req.DurationMin
	}
	if req.Status != "" {
		appt.Status = req.Status
	}
	appt.Amount = req.Amount
	appt.Notes = req.Notes

	if err := h.db.Save(&appt).Error; err != nil {
		httperr.Internal(c, "Failed to update appointment.")
		return
	}
	httpresp.OK(c, "Appointment updated successfully.", appt)
}

func (h *ShopHandler) DeleteAppointment(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).Delete(&models.ShopAppointment{})
	if res.Error != nil {
		httperr.Internal(c, "Failed to delete appointment.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Appointment not found.")
		return
	}
	httpresp.OK(c, "Appointment deleted successfully.", nil)
}

// --------- Sales ---------

type SaleRequest struct {
	CustomerName  string  `json:"customer_name" binding:"required"`
	Service       string  `json:"service" binding:"required"`
	BarberName    string  `json:"barber_name"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	AppointmentID *uint   `json:"appointment_id"`
	Notes         string  `json:"notes"`
}

func (h *ShopHandler) ListSales(c *gin.Context) {
	q := h.scoped(c, &models.ShopSale{})
	if v := c.Query("date"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "Invalid date, expected YYYY-MM-DD.")
			return
		}
		q = q.Where("sale_date >= ? AND sale_date < ?", day, day.AddDate(0, 0, 1))
	}

	var items []models.ShopSale
	if err := q.Order("sale_date DESC").Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load sales.")
		return
	}
	httpresp.List(c, "Sales retrieved successfully.", items, int64(len(items)))
}

// CreateSale records a sale; a linked appointment is marked completed in the
// same transaction so revenue and appointment state cannot diverge.
func (h *ShopHandler) CreateSale(c *gin.Context) {
	actor := middleware.Actor(c)

	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid sale payload.", err.Error())
		return
	}

	sale := models.ShopSale{
		BarbershopID:  actor.ID,
		CustomerName:  req.CustomerName,
		Service:       req.Service,
		BarberName:    req.BarberName,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		AppointmentID: req.AppointmentID,
		Notes:         req.Notes,
		SaleDate:      time.Now(),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.AppointmentID != nil {
			res := tx.Model(&models.ShopAppointment{}).
				Where("id = ? AND barbershop_id = ?", *req.AppointmentID, actor.ID).
				Update("status", models.AppointmentCompleted)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return httperr.ErrBusiness("not_found")
			}
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionSaleRecorded,
		Description:  fmt.Sprintf("Sale recorded for %s (%s)", sale.CustomerName, sale.Service),
		Amount:       &sale.Amount,
		Metadata:     map[string]any{"sale_id": sale.ID, "payment_method": sale.PaymentMethod},
	})
	httpresp.Created(c, "Sale recorded successfully.", sale)
}

// --------- Staff ---------

type StaffRequest struct {
	Name   string   `json:"name" binding:"required"`
	Role   string   `json:"role"`
	Phone  string   `json:"phone" binding:"required"`
	Email  string   `json:"email"`
	Status string   `json:"status"`
	Salary *float64 `json:"salary"`
}

func (h *ShopHandler) ListStaff(c *gin.Context) {
	var items []models.ShopStaff
	if err := h.scoped(c, &models.ShopStaff{}).Order("name ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load staff.")
		return
	}
	httpresp.List(c, "Staff retrieved successfully.", items, int64(len(items)))
}

func (h *ShopHandler) CreateStaff(c *gin.Context) {
	actor := middleware.Actor(c)

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid staff payload.", err.Error())
		return
	}

	var count int64
	h.scoped(c, &models.ShopStaff{}).Where("phone = ?", req.Phone).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "A staff member with this phone already exists.")
		return
	}

	staff := models.ShopStaff{
		BarbershopID: actor.ID,
		Name:         req.Name,
		Role:         req.Role,
		Phone:        req.Phone,
		Email:        req.Email,
		Status:       req.Status,
		Salary:       req.Salary,
		JoinDate:     time.Now(),
	}
	if staff.Status == "" {
		staff.Status = "Active"
	}
	if err := h.db.Create(&staff).Error; err != nil {
		httperr.Internal(c, "Failed to create staff member.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionStaffAdded,
		Description:  fmt.Sprintf("Staff member %s added", staff.Name),
	})
	httpresp.Created(c, "Staff member created successfully.", staff)
}

func (h *ShopHandler) UpdateStaff(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var staff models.ShopStaff
	if err := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).First(&staff).Error; err != nil {
		httperr.NotFound(c, "Staff member not found.")
		return
	}

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid staff payload.", err.Error())
		return
	}

	staff.Name = req.Name
	staff.Role = req.Role
	staff.Phone = req.Phone
	staff.Email = req.Email
	if req.Status != "" {
		staff.Status = req.Status
	}
	if req.Salary != nil {
		staff.Salary = req.Salary
	}

	if err := h.db.Save(&staff).Error; err != nil {
		httperr.Internal(c, "Failed to update staff member.")
		return
	}
	httpresp.OK(c, "Staff member updated successfully.", staff)
}

func (h *ShopHandler) DeleteStaff(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).Delete(&models.ShopStaff{})
	if res.Error != nil {
		httperr.Internal(c, "Failed to delete staff member.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Staff member not found.")
		return
	}
	httpresp.OK(c, "Staff member deleted successfully.", nil)
}

// --------- Customers ---------

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

func (h *ShopHandler) ListCustomers(c *gin.Context) {
	q := h.scoped(c, &models.ShopCustomer{})
	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var items []models.ShopCustomer
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load customers.")
		return
	}
	httpresp.List(c, "Customers retrieved successfully.", items, int64(len(items)))
}

func (h *ShopHandler) CreateCustomer(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid customer payload.", err.Error())
		return
	}

	var count int64
	h.scoped(c, &models.ShopCustomer{}).Where("phone = ?", req.Phone).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "A customer with this phone already exists.")
		return
	}

	customer := models.ShopCustomer{
		BarbershopID: actor.ID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		httperr.Internal(c, "Failed to create customer.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionCustomerAdded,
		Description:  fmt.Sprintf("Customer %s added", customer.Name),
	})
	httpresp.Created(c, "Customer created successfully.", customer)
}

func (h *ShopHandler) UpdateCustomer(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var customer models.ShopCustomer
	if err := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).First(&customer).Error; err != nil {
		httperr.NotFound(c, "Customer not found.")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid customer payload.", err.Error())
		return
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email

	if err := h.db.Save(&customer).Error; err != nil {
		httperr.Internal(c, "Failed to update customer.")
		return
	}
	httpresp.OK(c, "Customer updated successfully.", customer)
}

func (h *ShopHandler) DeleteCustomer(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).Delete(&models.ShopCustomer{})
	if res.Error != nil {
		httperr.Internal(c, "Failed to delete customer.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Customer not found.")
		return
	}
	httpresp.OK(c, "Customer deleted successfully.", nil)
}

// --------- Inventory ---------

type InventoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	MinStock int     `json:"min_stock"`
	Price    float64 `json:"price"`
}

func (h *ShopHandler) ListInventory(c *gin.Context) {
	q := h.scoped(c, &models.ShopInventoryItem{})
	if c.Query("low_stock") == "true" {
		q = q.Where("quantity <= min_stock")
	}

	var items []models.ShopInventoryItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load inventory.")
		return
	}
	httpresp.List(c, "Inventory retrieved successfully.", items, int64(len(items)))
}

func (h *ShopHandler) CreateInventoryItem(c *gin.Context) {
	actor := middleware.Actor(c)

	var req InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid inventory payload.", err.Error())
		return
	}

	item := models.ShopInventoryItem{
		BarbershopID: actor.ID,
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		MinStock:     req.MinStock,
		Price:        req.Price,
	}
	if item.MinStock <= 0 {
		item.MinStock = 5
	}
	if err := h.db.Create(&item).Error; err != nil {
		httperr.Internal(c, "Failed to create inventory item.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionInventoryAdded,
		Description:  fmt.Sprintf("Inventory item %s added", item.Name),
	})
	httpresp.Created(c, "Inventory item created successfully.", item)
}

func (h *ShopHandler) UpdateInventoryItem(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var item models.ShopInventoryItem
	if err := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).First(&item).Error; err != nil {
		httperr.NotFound(c, "Inventory item not found.")
		return
	}

	var req InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid inventory payload.", err.Error())
		return
	}

	wasLow := item.LowStock()
	item.Name = req.Name
	item.Category = req.Category
	item.Quantity = req.Quantity
	if req.MinStock > 0 {
		item.MinStock = req.MinStock
	}
	item.Price = req.Price

	if err := h.db.Save(&item).Error; err != nil {
		httperr.Internal(c, "Failed to update inventory item.")
		return
	}

	if !wasLow && item.LowStock() {
		h.dispatch(activity.Event{
			BarbershopID: actor.ID,
			ActionType:   models.ActionInventoryLowStock,
			Description:  fmt.Sprintf("Inventory item %s is low on stock (%d left)", item.Name, item.Quantity),
			Metadata:     map[string]any{"item_id": item.ID, "quantity": item.Quantity, "min_stock": item.MinStock},
		})
	}
	httpresp.OK(c, "Inventory item updated successfully.", item)
}

func (h *ShopHandler) DeleteInventoryItem(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).Delete(&models.ShopInventoryItem{})
	if res.Error != nil {
		httperr.Internal(c, "Failed to delete inventory item.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Inventory item not found.")
		return
	}
	httpresp.OK(c, "Inventory item deleted successfully.", nil)
}

// --------- Services ---------

type ServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      *bool   `json:"active"`
}

func (h *ShopHandler) ListServices(c *gin.Context) {
	var items []models.ShopService
	if err := h.scoped(c, &models.ShopService{}).Order("name ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "Failed to load services.")
		return
	}
	httpresp.List(c, "Services retrieved successfully.", items, int64(len(items)))
}

func (h *ShopHandler) CreateService(c *gin.Context) {
	actor := middleware.Actor(c)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid service payload.", err.Error())
		return
	}

	svc := models.ShopService{
		BarbershopID: actor.ID,
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		Active:       true,
	}
	if svc.DurationMin <= 0 {
		svc.DurationMin = 30
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "Failed to create service.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionServiceUpdate,
		Description:  fmt.Sprintf("Service %s added", svc.Name),
	})
	httpresp.Created(c, "Service created successfully.", svc)
}

func (h *ShopHandler) UpdateService(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var svc models.ShopService
	if err := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).First(&svc).Error; err != nil {
		httperr.NotFound(c, "Service not found.")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid service payload.", err.Error())
		return
	}

	svc.Name = req.Name
	svc.Description = req.Description
	if req.DurationMin > 0 {
		svc.DurationMin = req.DurationMin
	}
	svc.Price = req.Price
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "Failed to update service.")
		return
	}

	h.dispatch(activity.Event{
		BarbershopID: actor.ID,
		ActionType:   models.ActionServiceUpdate,
		Description:  fmt.Sprintf("Service %s updated", svc.Name),
	})
	httpresp.OK(c, "Service updated successfully.", svc)
}

func (h *ShopHandler) DeleteService(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND barbershop_id = ?", id, actor.ID).Delete(&models.ShopService{})
	if res.Error != nil {
		httperr.Internal(c, "Failed to delete service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Service not found.")
		return
	}
	httpresp.OK(c, "Service deleted successfully.", nil)
}
