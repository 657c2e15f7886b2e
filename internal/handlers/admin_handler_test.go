package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/clipperhub/barbershop-platform/internal/domain/account"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

func expireSubscription(t *testing.T, db *gorm.DB, shopID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("account_id = ?", shopID).
		Update("status", models.SubscriptionInactive).Error)
}

func TestAdminBarbershopLifecycle(t *testing.T) {
	r, db := newTestServer(t)
	adminToken, _ := seedLogin(t, db, r, domain.RoleAdmin, "admin@example.com", nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/admin/barbershops", adminToken, map[string]any{
		"email":     "fade@example.com",
		"password":  "password123",
		"shop_name": "Fade Factory",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)
	shop := env.Data.(map[string]any)
	shopID := uint(shop["id"].(float64))

	// The default subscription comes back with the shop.
	sub := shop["subscription"].(map[string]any)
	require.Equal(t, models.PlanBasic, sub["plan"])
	require.Equal(t, models.SubscriptionActive, sub["status"])

	// Archiving is blocked while the subscription is active.
	w, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/barbershops/%d", shopID), adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
	errs := env.Errors.(map[string]any)
	require.Equal(t, models.PlanBasic, errs["plan"])

	expireSubscription(t, db, shopID)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/barbershops/%d", shopID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Archived shops leave the active list and show up in the archive.
	w, env = doJSON(t, r, http.MethodGet, "/api/admin/barbershops", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := env.Data.(map[string]any)
	require.EqualValues(t, 0, list["count"])

	w, env = doJSON(t, r, http.MethodGet, "/api/admin/archive/barbershops", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	archive := env.Data.(map[string]any)
	require.EqualValues(t, 1, archive["count"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/admin/archive/restore", adminToken, map[string]any{
		"user_id": shopID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Restoring twice reports the no-op.
	w, _ = doJSON(t, r, http.MethodPost, "/api/admin/archive/restore", adminToken, map[string]any{
		"user_id": shopID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCannotSeeForeignShops(t *testing.T) {
	r, db := newTestServer(t)
	adminAToken, _ := seedLogin(t, db, r, domain.RoleAdmin, "admina@example.com", nil)
	_, adminB := seedLogin(t, db, r, domain.RoleAdmin, "adminb@example.com", nil)

	foreign := &models.Account{
		Email:        "foreign@example.com",
		PasswordHash: "x",
		Role:         domain.RoleBarbershop.String(),
		ShopName:     "Foreign Shop",
		IsActive:     true,
		CreatedByID:  &adminB.ID,
	}
	require.NoError(t, db.Create(foreign).Error)

	// Foreign shops are indistinguishable from missing ones.
	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/admin/barbershops/%d", foreign.ID), adminAToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/barbershops/%d", foreign.ID), adminAToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/barbershops/999999", adminAToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminTransferBarbershop(t *testing.T) {
	r, db := newTestServer(t)
	adminAToken, adminA := seedLogin(t, db, r, domain.RoleAdmin, "admina@example.com", nil)
	adminBToken, adminB := seedLogin(t, db, r, domain.RoleAdmin, "adminb@example.com", nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/admin/barbershops", adminAToken, map[string]any{
		"email":     "moved@example.com",
		"password":  "password123",
		"shop_name": "Moving Shop",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	shopID := uint(env.Data.(map[string]any)["id"].(float64))

	// The target list excludes the caller.
	w, env = doJSON(t, r, http.MethodGet, "/api/admin/transfer/available-admins", adminAToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := env.Data.(map[string]any)["items"].([]any)
	for _, it := range items {
		require.NotEqual(t, float64(adminA.ID), it.(map[string]any)["id"])
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/admin/transfer/barbershop", adminAToken, map[string]any{
		"barbershop_id": shopID,
		"to_admin_id":   adminB.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := env.Data.(map[string]any)
	require.Equal(t, float64(adminB.ID), result["to_admin"].(map[string]any)["id"])

	// The new owner sees it, the old one does not.
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/admin/barbershops/%d", shopID), adminBToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/admin/barbershops/%d", shopID), adminAToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var act models.Activity
	require.NoError(t, db.Where("barbershop_id = ? AND action_type = ?", shopID, models.ActionTransferOut).
		First(&act).Error)
	require.Contains(t, act.Metadata, "ownership_change")
}

func TestSuperAdminAdminLifecycle(t *testing.T) {
	r, db := newTestServer(t)
	superToken, _ := seedLogin(t, db, r, domain.RoleSuperAdmin, "root@example.com", nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/super-admin/admins", superToken, map[string]any{
		"email":      "newadmin@example.com",
		"password":   "password123",
		"first_name": "New",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	adminID := uint(env.Data.(map[string]any)["id"].(float64))

	w, env = doJSON(t, r, http.MethodPost, "/api/super-admin/barbershops", superToken, map[string]any{
		"email":     "supershop@example.com",
		"password":  "password123",
		"shop_name": "Super Shop",
		"admin_id":  adminID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	shopID := uint(env.Data.(map[string]any)["id"].(float64))

	// The admin list carries per-admin shop counts.
	w, env = doJSON(t, r, http.MethodGet, "/api/super-admin/admins", superToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	admins := env.Data.(map[string]any)["items"].([]any)
	require.Len(t, admins, 1)
	require.EqualValues(t, 1, admins[0].(map[string]any)["barbershop_count"])

	// Archiving the admin is blocked while it owns the shop.
	w, env = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/super-admin/admins/%d", adminID), superToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := env.Errors.(map[string]any)
	require.EqualValues(t, 1, errs["barbershop_count"])
	require.Contains(t, errs["barbershop_names"], "Super Shop")

	expireSubscription(t, db, shopID)
	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/super-admin/barbershops/%d", shopID), superToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/super-admin/admins/%d", adminID), superToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Restore by type brings the admin back.
	w, _ = doJSON(t, r, http.MethodPost, "/api/super-admin/archive/restore", superToken, map[string]any{
		"user_id":   adminID,
		"user_type": "admin",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSuperAdminSubscriptionUpdate(t *testing.T) {
	r, db := newTestServer(t)
	superToken, _ := seedLogin(t, db, r, domain.RoleSuperAdmin, "root@example.com", nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/super-admin/barbershops", superToken, map[string]any{
		"email":     "subshop@example.com",
		"password":  "password123",
		"shop_name": "Sub Shop",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	shopID := uint(env.Data.(map[string]any)["id"].(float64))

	w, env = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/super-admin/barbershops/%d/subscription", shopID), superToken, map[string]any{
			"plan":  models.PlanEnterprise,
			"notes": "annual upsell",
		})
	require.Equal(t, http.StatusOK, w.Code)
	sub := env.Data.(map[string]any)
	require.Equal(t, models.PlanEnterprise, sub["plan"])

	var hist []models.SubscriptionHistory
	require.NoError(t, db.Order("id ASC").Find(&hist).Error)
	require.Len(t, hist, 2)
	require.Equal(t, "upgraded", hist[1].Action)
	require.Equal(t, "annual upsell", hist[1].Notes)

	w, env = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/super-admin/barbershops/%d/subscription", shopID), superToken, map[string]any{
			"plan": "platinum",
		})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
}

func TestSuperAdminBulkTransfer(t *testing.T) {
	r, db := newTestServer(t)
	superToken, _ := seedLogin(t, db, r, domain.RoleSuperAdmin, "root@example.com", nil)
	_, adminA := seedLogin(t, db, r, domain.RoleAdmin, "admina@example.com", nil)
	_, adminB := seedLogin(t, db, r, domain.RoleAdmin, "adminb@example.com", nil)

	for i := 0; i < 2; i++ {
		shop := &models.Account{
			Email:        fmt.Sprintf("bulk%d@example.com", i),
			PasswordHash: "x",
			Role:         domain.RoleBarbershop.String(),
			ShopName:     fmt.Sprintf("Bulk Shop %d", i),
			IsActive:     true,
			CreatedByID:  &adminA.ID,
		}
		require.NoError(t, db.Create(shop).Error)
	}

	w, env := doJSON(t, r, http.MethodPost, "/api/super-admin/transfer/all", superToken, map[string]any{
		"from_admin_id": adminA.ID,
		"to_admin_id":   adminB.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := env.Data.(map[string]any)
	require.EqualValues(t, 2, result["transferred_count"])

	var n int64
	require.NoError(t, db.Model(&models.Account{}).
		Where("created_by_id = ? AND role = ? AND deleted_at IS NULL", adminB.ID, domain.RoleBarbershop.String()).
		Count(&n).Error)
	require.EqualValues(t, 2, n)

	// A second run has nothing left to move.
	w, _ = doJSON(t, r, http.MethodPost, "/api/super-admin/transfer/all", superToken, map[string]any{
		"from_admin_id": adminA.ID,
		"to_admin_id":   adminB.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShopOperationsAreTenantScoped(t *testing.T) {
	r, db := newTestServer(t)
	shopAToken, shopA := seedLogin(t, db, r, domain.RoleBarbershop, "shopa@example.com", nil)
	shopBToken, _ := seedLogin(t, db, r, domain.RoleBarbershop, "shopb@example.com", nil)

	w, env := doJSON(t, r, http.MethodPost, "/api/me/appointments", shopAToken, map[string]any{
		"customer_name": "Jordan",
		"service":       "Fade",
		"scheduled_at":  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"amount":        35.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	apptID := uint(env.Data.(map[string]any)["id"].(float64))

	var appt models.ShopAppointment
	require.NoError(t, db.First(&appt, apptID).Error)
	require.Equal(t, shopA.ID, appt.BarbershopID)

	// Another shop cannot read or touch it.
	w, env = doJSON(t, r, http.MethodGet, "/api/me/appointments", shopBToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 0, env.Data.(map[string]any)["count"])

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/me/appointments/%d", apptID), shopBToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// A linked sale completes the appointment.
	w, _ = doJSON(t, r, http.MethodPost, "/api/me/sales", shopAToken, map[string]any{
		"customer_name":  "Jordan",
		"service":        "Fade",
		"amount":         35.0,
		"payment_method": "cash",
		"appointment_id": apptID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, db.First(&appt, apptID).Error)
	require.Equal(t, models.AppointmentCompleted, appt.Status)
}
