package handlers

import (
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

// SuperAdminHandler serves the platform-wide surface: admins, every
// barbershop regardless of owner, subscriptions and the full archive.
type SuperAdminHandler struct {
	db   *gorm.DB
	repo domain.Repository

	createManaged      *usecase.CreateManaged
	softDelete         *usecase.SoftDelete
	restore            *usecase.Restore
	transfer           *usecase.Transfer
	transferAll        *usecase.TransferAll
	updateSubscription *usecase.UpdateSubscription
}

func NewSuperAdminHandler(db *gorm.DB, repo domain.Repository) *SuperAdminHandler {
	return &SuperAdminHandler{
		db:                 db,
		repo:               repo,
		createManaged:      usecase.NewCreateManaged(repo),
		softDelete:         usecase.NewSoftDelete(repo),
		restore:            usecase.NewRestore(repo),
		transfer:           usecase.NewTransfer(repo),
		transferAll:        usecase.NewTransferAll(repo),
		updateSubscription: usecase.NewUpdateSubscription(repo),
	}
}

// --------- Dashboard ---------

func (h *SuperAdminHandler) Dashboard(c *gin.Context) {
	var totalAdmins, totalShops, archivedShops, activeSubs int64
	h.db.Model(&models.Account{}).
		Where("role = ? AND deleted_at IS NULL", domain.RoleAdmin.String()).
		Count(&totalAdmins)
	h.db.Model(&models.Account{}).
		Where("role = ? AND deleted_at IS NULL", domain.RoleBarbershop.String()).
		Count(&totalShops)
	h.db.Model(&models.Account{}).
		Where("role = ? AND deleted_at IS NOT NULL", domain.RoleBarbershop.String()).
		Count(&archivedShops)
	h.db.Model(&models.Subscription{}).
		Where("status = ? AND expires_at > ?", models.SubscriptionActive, time.Now()).
		Count(&activeSubs)

	now := time.Now()
	thisMonth := startOfMonth(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	revenueSince := func(from, to time.Time) float64 {
		var total float64
		h.db.Model(&models.ShopAppointment{}).
			Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?",
				models.AppointmentCompleted, from, to).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total)
		return total
	}
	currentRevenue := revenueSince(thisMonth, now)
	previousRevenue := revenueSince(lastMonth, thisMonth)

	var growth *float64
	if previousRevenue > 0 {
		g := (currentRevenue - previousRevenue) / previousRevenue * 100
		growth = &g
	}

	var recent []models.Activity
	h.db.Order("created_at DESC").Limit(10).Find(&recent)

	httpresp.OK(c, "Dashboard retrieved successfully.", gin.H{
		"stats": gin.H{
			"total_admins":         totalAdmins,
			"total_barbershops":    totalShops,
			"archived_barbershops": archivedShops,
			"active_subscriptions": activeSubs,
			"month_revenue":        currentRevenue,
			"previous_revenue":     previousRevenue,
			"revenue_growth_pct":   growth,
		},
		"recent_activities": recent,
	})
}

// --------- Admins ---------

func (h *SuperAdminHandler) ListAdmins(c *gin.Context) {
	ctx := c.Request.Context()
	admins, err := h.repo.ListActive(ctx, domain.RoleAdmin)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	out := make([]gin.H, 0, len(admins))
	for i := range admins {
		a := &admins[i]
		shopCount, err := h.repo.CountActiveOwned(ctx, domain.RoleBarbershop, a.ID)
		if err != nil {
			writeBusinessError(c, err)
			return
		}
		out = append(out, gin.H{
			"id":               a.ID,
			"email":            a.Email,
			"name":             a.FullName(),
			"first_name":       a.FirstName,
			"last_name":        a.LastName,
			"phone":            a.Phone,
			"is_active":        a.IsActive,
			"barbershop_count": shopCount,
			"created_at":       a.CreatedAt,
		})
	}
	httpresp.List(c, "Admins retrieved successfully.", out, int64(len(out)))
}

type CreateAdminRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (h *SuperAdminHandler) CreateAdmin(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid admin payload.", err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Failed to process password.")
		return
	}

	admin, err := h.createManaged.Execute(c.Request.Context(), actor, usecase.CreateManagedInput{
		Role:         domain.RoleAdmin,
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.Created(c, "Admin created successfully.", accountView(admin))
}

func (h *SuperAdminHandler) GetAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	admin, err := h.repo.FindActive(ctx, id, domain.RoleAdmin)
	if err != nil {
		httperr.NotFound(c, "Admin not found.")
		return
	}

	shops, err := h.repo.ListActiveOwned(ctx, domain.RoleBarbershop, admin.ID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	view := accountView(admin)
	view["barbershop_count"] = len(shops)
	view["barbershops"] = barbershopSummaries(h.db, shops)
	httpresp.OK(c, "Admin retrieved successfully.", view)
}

type UpdateAdminRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

func (h *SuperAdminHandler) UpdateAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	admin, err := h.repo.FindActive(ctx, id, domain.RoleAdmin)
	if err != nil {
		httperr.NotFound(c, "Admin not found.")
		return
	}

	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid admin payload.", err.Error())
		return
	}
	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		admin.LastName = *req.LastName
	}
	if req.Phone != nil {
		admin.Phone = *req.Phone
	}

	if err := h.repo.Update(ctx, admin); err != nil {
		httperr.Internal(c, "Failed to update admin.")
		return
	}
	httpresp.OK(c, "Admin updated successfully.", accountView(admin))
}

// DeleteAdmin archives an admin. The usecase refuses while the admin still
// owns active barbershops; callers are expected to transfer those first.
func (h *SuperAdminHandler) DeleteAdmin(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	admin, err := h.softDelete.Execute(c.Request.Context(), actor, id, domain.RoleAdmin)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, "Admin archived successfully.", gin.H{
		"id":         admin.ID,
		"email":      admin.Email,
		"deleted_at": admin.DeletedAt,
	})
}

func (h *SuperAdminHandler) ToggleAdminStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	admin, err := h.repo.FindActive(ctx, id, domain.RoleAdmin)
	if err != nil {
		httperr.NotFound(c, "Admin not found.")
		return
	}

	admin.IsActive = !admin.IsActive
	if err := h.repo.Update(ctx, admin); err != nil {
		httperr.Internal(c, "Failed to update admin.")
		return
	}
	httpresp.OK(c, "Admin status updated.", gin.H{
		"id":        admin.ID,
		"is_active": admin.IsActive,
	})
}

func (h *SuperAdminHandler) AdminBarbershops(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.repo.FindActive(ctx, id, domain.RoleAdmin); err != nil {
		httperr.NotFound(c, "Admin not found.")
		return
	}

	shops, err := h.repo.ListActiveOwned(ctx, domain.RoleBarbershop, id)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.List(c, "Barbershops retrieved successfully.", barbershopSummaries(h.db, shops), int64(len(shops)))
}

// --------- Barbershops (all owners) ---------

func (h *SuperAdminHandler) ListBarbershops(c *gin.Context) {
	shops, err := h.repo.ListActive(c.Request.Context(), domain.RoleBarbershop)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.List(c, "Barbershops retrieved successfully.", barbershopSummaries(h.db, shops), int64(len(shops)))
}

type SuperCreateBarbershopRequest struct {
	CreateBarbershopRequest
	AdminID *uint `json:"admin_id"`
}

// CreateBarbershop mints a shop owned by the given admin, or by the super
// admin itself when no admin_id is sent.
func (h *SuperAdminHandler) CreateBarbershop(c *gin.Context) {
	actor := middleware.Actor(c)
	ctx := c.Request.Context()

	var req SuperCreateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid barbershop payload.", err.Error())
		return
	}

	owner := actor
	if req.AdminID != nil {
		admin, err := h.repo.FindActive(ctx, *req.AdminID, domain.RoleAdmin)
		if err != nil {
			httperr.NotFound(c, "Admin not found.")
			return
		}
		owner = admin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "Failed to process password.")
		return
	}

	shop, err := h.createManaged.Execute(ctx, owner, usecase.CreateManagedInput{
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

func (h *SuperAdminHandler) GetBarbershop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	shop, err := h.repo.FindActive(c.Request.Context(), id, domain.RoleBarbershop)
	if err != nil {
		httperr.NotFound(c, "Barbershop not found.")
		return
	}
	httpresp.OK(c, "Barbershop retrieved successfully.", barbershopDetail(h.db, shop))
}

func (h *SuperAdminHandler) UpdateBarbershop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	shop, err := h.repo.FindActive(ctx, id, domain.RoleBarbershop)
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

func (h *SuperAdminHandler) DeleteBarbershop(c *gin.Context) {
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

func (h *SuperAdminHandler) ToggleShopStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	shop, err := h.repo.FindActive(ctx, id, domain.RoleBarbershop)
	if err != nil {
		httperr.NotFound(c, "Barbershop not found.")
		return
	}

	shop.IsActive = !shop.IsActive
	if err := h.repo.Update(ctx, shop); err != nil {
		httperr.Internal(c, "Failed to update barbershop.")
		return
	}

	actor := middleware.Actor(c)
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

// --------- Subscription ---------

type UpdateSubscriptionRequest struct {
	Plan      *string    `json:"plan"`
	Status    *string    `json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`
	Notes     string     `json:"notes"`
}

func (h *SuperAdminHandler) UpdateShopSubscription(c *gin.Context) {
	actor := middleware.Actor(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid subscription payload.", err.Error())
		return
	}

	sub, err := h.updateSubscription.Execute(c.Request.Context(), actor, id, usecase.UpdateSubscriptionInput{
		Plan:      req.Plan,
		Status:    req.Status,
		ExpiresAt: req.ExpiresAt,
		Notes:     req.Notes,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, "Subscription updated successfully.", subscriptionView(sub))
}

// --------- Transfer ---------

func (h *SuperAdminHandler) TransferBarbershop(c *gin.Context) {
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

type TransferAllRequest struct {
	FromAdminID uint `json:"from_admin_id" binding:"required"`
	ToAdminID   uint `json:"to_admin_id" binding:"required"`
}

func (h *SuperAdminHandler) TransferAllBarbershops(c *gin.Context) {
	actor := middleware.Actor(c)

	var req TransferAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid transfer payload.", err.Error())
		return
	}

	result, err := h.transferAll.Execute(c.Request.Context(), actor, req.FromAdminID, req.ToAdminID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, "Barbershops transferred successfully.", result)
}

// --------- Archive ---------

func (h *SuperAdminHandler) ArchivedAdmins(c *gin.Context) {
	admins, err := h.repo.ListDeleted(c.Request.Context(), domain.RoleAdmin)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.List(c, "Archived admins retrieved successfully.", admins, int64(len(admins)))
}

func (h *SuperAdminHandler) ArchivedBarbershops(c *gin.Context) {
	shops, err := h.repo.ListDeleted(c.Request.Context(), domain.RoleBarbershop)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.List(c, "Archived barbershops retrieved successfully.", shops, int64(len(shops)))
}

type SuperRestoreRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	UserType string `json:"user_type" binding:"required"`
}

func (h *SuperAdminHandler) RestoreAccount(c *gin.Context) {
	actor := middleware.Actor(c)

	var req SuperRestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequestWith(c, "Invalid restore payload.", err.Error())
		return
	}

	role, ok := domain.ParseRole(req.UserType)
	if !ok || (role != domain.RoleAdmin && role != domain.RoleBarbershop) {
		httperr.BadRequest(c, "user_type must be admin or barbershop.")
		return
	}

	acct, err := h.restore.Execute(c.Request.Context(), actor, req.UserID, role)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	if role == domain.RoleBarbershop {
		httpresp.OK(c, "Barbershop restored successfully.", barbershopDetail(h.db, acct))
		return
	}
	httpresp.OK(c, "Admin restored successfully.", accountView(acct))
}
