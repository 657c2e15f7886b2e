package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/httpresp"
	"github.com/clipperhub/barbershop-platform/internal/middleware"
	"github.com/clipperhub/barbershop-platform/internal/models"
	usecase "github.com/clipperhub/barbershop-platform/internal/usecase/account"
)

// AdminHandler serves the admin surface: every query it runs is scoped to
// barbershops the acting admin created.
type AdminHandler struct {
	db   *gorm.DB
	repo domain.Repository

	createManaged *usecase.CreateManaged
	softDelete    *usecase.SoftDelete
	restore       *usecase.Restore
	transfer      *usecase.Transfer
}

func NewAdminHandler(db *gorm.DB, repo domain.Repository) *AdminHandler {
	return &AdminHandler{
		db:            db,
		repo:          repo,
		createManaged: usecase.NewCreateManaged(repo),
		softDelete:    usecase.NewSoftDelete(repo),
		restore:       usecase.NewRestore(repo),
		transfer:      usecase.NewTransfer(repo),
	}
}

// --------- Dashboard ---------

func (h *AdminHandler) Dashboard(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	shops, err := h.repo.ListActiveOwned(ctx, domain.RoleBarbershop, actor.ID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	var archivedCount int64
	h.db.Model(&models.Account{}).
		Where("created_by_id = ? AND role = ? AND deleted_at IS NOT NULL", actor.ID, domain.RoleBarbershop.String()).
		Count(&archivedCount)

	shopIDs := make([]uint, 0, len(shops))
	for _, s := range shops {
		shopIDs = append(shopIDs, s.ID)
	}

	monthStart := startOfMonth(time.Now())
	var monthRevenue float64
	var upcoming int64
	if len(shopIDs) > 0 {
		h.db.Model(&models.ShopAppointment{}).
			Where("barbershop_id IN ? AND status = ? AND scheduled_at >= ?",
				shopIDs, models.AppointmentCompleted, monthStart).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&monthRevenue)
		h.db.Model(&models.ShopAppointment{}).
			Where("barbershop_id IN ? AND scheduled_at >= ? AND status IN ?",
				shopIDs, time.Now(),
				[]string{models.AppointmentConfirmed, models.AppointmentPending}).
			Count(&upcoming)
	}

	var recent []models.Activity
	if len(shopIDs) > 0 {
		h.db.Where("barbershop_id IN ?", shopIDs).
			Order("created_at DESC").
			Limit(10).
			Find(&recent)
	}

	httpresp.OK(c, "Dashboard retrieved successfully.", gin.H{
		"stats": gin.H{
			"total_barbershops":     len(shops),
			"archived_barbershops":  archivedCount,
			"month_revenue":         monthRevenue,
			"upcoming_appointments": upcoming,
		},
		"barbershops":       barbershopSummaries(h.db, shops),
		"recent_activities": recent,
	})
}

// Activities lists audit records for the admin's shops, newest first, with
// optional action_type, barbershop_id and date-range filters.
func (h *AdminHandler) Activities(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	shops, err := h.repo.ListActiveOwned(ctx, domain.RoleBarbershop, actor.ID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	shopIDs := make([]uint, 0, len(shops))
	for _, s := range shops {
		shopIDs = append(shopIDs, s.ID)
	}
	if len(shopIDs) == 0 {
		httpresp.List(c, "Activities retrieved successfully.", []models.Activity{}, 0)
		return
	}

	q := h.db.Model(&models.Activity{}).Where("barbershop_id IN ?", shopIDs)

	if v := c.Query("barbershop_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "Invalid barbershop_id.")
			return
		}
		if !containsID(shopIDs, uint(id)) {
			httperr.NotFound(c, "Resource not found.")
			return
		}
		q = q.Where("barbershop_id = ?", uint(id))
	}
	if v := c.Query("action_type"); v != "" {
		q = q.Where("action_type = ?", v)
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at >= ?", t)
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at < ?", t.AddDate(0, 0, 1))
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

	httpresp.OK(c, "Activities retrieved successfully.", gin.H{
		"items":     items,
		"count":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// --------- Barbershops ---------

func (h *AdminHandler) ListBarbershops(c *gin.Context) {
	actor := middleware.Actor(c)

	shops, err := h.repo.ListActiveOwned(c.Request.Context(), domain.RoleBarbershop, actor.ID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.List(c, "Barbershops retrieved successfully.", barbershopSummaries(h.db, shops), int64(len(shops)))
}

type CreateBarbershopRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	ShopName      string `json:"shop_name" binding:"required"`
	ShopOwnerName string `json:"shop_owner_name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
}

func (h *AdminHandler) CreateBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid barbershop payload.", err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Failed to process password.")
		return
	}

	shop, err := h.createManaged.Execute(c.Request.Context(), actor, usecase.CreateManagedInput{
		Role:          domain.RoleBarbershop,
		Email:         req.Email,
		PasswordHash:  string(hashed),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		ShopName:      req.ShopName,
		ShopOwnerName: req.ShopOwnerName,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.Created(c, "Barbershop created successfully.", barbershopDetail(h.db, shop))
}

func (h *AdminHandler) GetBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	shop, err := h.repo.FindActiveOwned(c.Request.Context(), id, domain.RoleBarbershop, actor.ID)
	if err != nil {
		httperr.NotFound(c, "Barbershop not found.")
		return
	}
	httpresp.OK(c, "Barbershop retrieved successfully.", barbershopDetail(h.db, shop))
}

type UpdateBarbershopRequest struct {
	ShopName      *string `json:"shop_name"`
	ShopOwnerName *string `json:"shop_owner_name"`
	ShopLogoURL   *string `json:"shop_logo_url"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	PostalCode    *string `json:"postal_code"`
}

func (h *AdminHandler) UpdateBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	shop, err := h.repo.FindActiveOwned(ctx, id, domain.RoleBarbershop, actor.ID)
	if err != nil {
		httperr.NotFound(c, "Barbershop not found.")
		return
	}

	var req UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid barbershop payload.", err.Error())
		return
	}

	applyBarbershopUpdate(shop, &req)
	if err := h.repo.Update(ctx, shop); err != nil {
		httperr.Internal(c, "Failed to update barbershop.")
		return
	}
	httpresp.OK(c, "Barbershop updated successfully.", barbershopDetail(h.db, shop))
}

func (h *AdminHandler) DeleteBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	shop, err := h.softDelete.Execute(c.Request.Context(), actor, id, domain.RoleBarbershop)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, "Barbershop archived successfully.", gin.H{
		"id":         shop.ID,
		"shop_name":  shop.ShopName,
		"deleted_at": shop.DeletedAt,
	})
}

// ToggleStatus flips is_active without archiving; the shop keeps its data and
// can be flipped back at any time.
func (h *AdminHandler) ToggleStatus(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	shop, err := h.repo.FindActiveOwned(ctx, id, domain.RoleBarbershop, actor.ID)
	if err != nil {
		httperr.NotFound(c, "Barbershop not found.")
		return
	}

	shop.IsActive = !shop.IsActive
	if err := h.repo.Update(ctx, shop); err != nil {
		httperr.Internal(c, "Failed to update barbershop.")
		return
	}

	desc := "Barbershop deactivated by " + actor.FullName()
	if shop.IsActive {
		desc = "Barbershop activated by " + actor.FullName()
	}
	h.db.Create(&models.Activity{
		BarbershopID: shop.ID,
		ActionType:   models.ActionStatusChanged,
		Description:  desc,
	})

	httpresp.OK(c, "Barbershop status updated.", gin.H{
		"id":        shop.ID,
		"is_active": shop.IsActive,
	})
}

// --------- Archive ---------

func (h *AdminHandler) ArchivedBarbershops(c *gin.Context) {
	actor := middleware.Actor(c)

	shops, err := h.repo.ListDeletedOwned(c.Request.Context(), domain.RoleBarbershop, actor.ID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.List(c, "Archived barbershops retrieved successfully.", shops, int64(len(shops)))
}

type RestoreRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *AdminHandler) RestoreBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)

	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid restore payload.", err.Error())
		return
	}

	shop, err := h.restore.Execute(c.Request.Context(), actor, req.UserID, domain.RoleBarbershop)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, "Barbershop restored successfully.", barbershopDetail(h.db, shop))
}

// --------- Transfer ---------

type TransferRequest struct {
	BarbershopID uint `json:"barbershop_id" binding:"required"`
	ToAdminID    uint `json:"to_admin_id" binding:"required"`
}

func (h *AdminHandler) TransferBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid transfer payload.", err.Error())
		return
	}

	result, err := h.transfer.Execute(c.Request.Context(), actor, req.BarbershopID, req.ToAdminID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, "Barbershop transferred successfully.", result)
}

// AvailableAdmins lists active admins a shop could be transferred to. The
// acting admin is excluded since a self-transfer is rejected anyway.
func (h *AdminHandler) AvailableAdmins(c *gin.Context) {
	actor := middleware.Actor(c)

	admins, err := h.repo.ListActive(c.Request.Context(), domain.RoleAdmin)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	out := make([]gin.H, 0, len(admins))
	for i := range admins {
		if admins[i].ID == actor.ID {
			continue
		}
		out = append(out, gin.H{
			"id":    admins[i].ID,
			"name":  admins[i].FullName(),
			"email": admins[i].Email,
		})
	}
	httpresp.List(c, "Available admins retrieved successfully.", out, int64(len(out)))
}

// --------- Shared helpers ---------

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func applyBarbershopUpdate(shop *models.Account, req *UpdateBarbershopRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&shop.ShopName, req.ShopName)
	set(&shop.ShopOwnerName, req.ShopOwnerName)
	set(&shop.ShopLogoURL, req.ShopLogoURL)
	set(&shop.FirstName, req.FirstName)
	set(&shop.LastName, req.LastName)
	set(&shop.Phone, req.Phone)
	set(&shop.Address, req.Address)
	set(&shop.City, req.City)
	set(&shop.State, req.State)
	set(&shop.Country, req.Country)
	set(&shop.PostalCode, req.PostalCode)
}

func barbershopSummaries(db *gorm.DB, shops []models.Account) []gin.H {
	out := make([]gin.H, 0, len(shops))
	for i := range shops {
		s := &shops[i]
		item := gin.H{
			"id":         s.ID,
			"shop_name":  s.ShopName,
			"owner_name": s.ShopOwnerName,
			"email":      s.Email,
			"phone":      s.Phone,
			"is_active":  s.IsActive,
			"created_at": s.CreatedAt,
		}
		var sub models.Subscription
		if err := db.Where("account_id = ?", s.ID).First(&sub).Error; err == nil {
			item["subscription"] = subscriptionView(&sub)
		}
		out = append(out, item)
	}
	return out
}

func barbershopDetail(db *gorm.DB, s *models.Account) gin.H {
	view := gin.H{
		"id":              s.ID,
		"email":           s.Email,
		"shop_name":       s.ShopName,
		"shop_owner_name": s.ShopOwnerName,
		"shop_logo_url":   s.ShopLogoURL,
		"first_name":      s.FirstName,
		"last_name":       s.LastName,
		"phone":           s.Phone,
		"address":         s.Address,
		"city":            s.City,
		"state":           s.State,
		"country":         s.Country,
		"postal_code":     s.PostalCode,
		"is_active":       s.IsActive,
		"created_by":      s.CreatedByID,
		"created_at":      s.CreatedAt,
		"deleted_at":      s.DeletedAt,
	}
	var sub models.Subscription
	if err := db.Where("account_id = ?", s.ID).First(&sub).Error; err == nil {
		view["subscription"] = subscriptionView(&sub)
	}
	return view
}

func subscriptionView(sub *models.Subscription) gin.H {
	now := time.Now()
	return gin.H{
		"id":               sub.ID,
		"plan":             sub.Plan,
		"status":           sub.Status,
		"started_at":       sub.StartedAt,
		"expires_at":       sub.ExpiresAt,
		"is_expired":       sub.IsExpired(now),
		"days_remaining":   sub.DaysRemaining(now),
		"max_appointments": sub.MaxAppointments,
		"max_staff":        sub.MaxStaff,
	}
}
