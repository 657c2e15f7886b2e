package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

func TestCanSoftDeleteShopWithActiveSubscription(t *testing.T) {
	now := time.Now()
	super := acct(1, RoleSuperAdmin, nil)
	shop := acct(2, RoleBarbershop, nil)

	sub := &models.Subscription{
		Plan:      models.PlanPremium,
		Status:    models.SubscriptionActive,
		ExpiresAt: now.AddDate(0, 6, 0),
	}

	err := CanSoftDelete(super, shop, sub, nil, now)
	require.True(t, httperr.IsBusiness(err, "active_subscription"))

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	require.Equal(t, models.PlanPremium, be.Details["plan"])
}

func TestCanSoftDeleteShopWithExpiredSubscription(t *testing.T) {
	now := time.Now()
	super := acct(1, RoleSuperAdmin, nil)
	shop := acct(2, RoleBarbershop, nil)

	sub := &models.Subscription{
		Plan:      models.PlanBasic,
		Status:    models.SubscriptionActive,
		ExpiresAt: now.AddDate(0, 0, -1),
	}
	require.NoError(t, CanSoftDelete(super, shop, sub, nil, now))

	sub.Status = models.SubscriptionInactive
	sub.ExpiresAt = now.AddDate(0, 6, 0)
	require.NoError(t, CanSoftDelete(super, shop, sub, nil, now))
}

func TestCanSoftDeleteAdminOwningShops(t *testing.T) {
	now := time.Now()
	super := acct(1, RoleSuperAdmin, nil)
	admin := acct(2, RoleAdmin, &super.ID)

	err := CanSoftDelete(super, admin, nil, []string{"Fade Factory", "Sharp Cuts"}, now)
	require.True(t, httperr.IsBusiness(err, "owns_active_barbershops"))

	be, _ := httperr.AsBusiness(err)
	require.Equal(t, 2, be.Details["barbershop_count"])
	require.Contains(t, be.Details["barbershop_names"], "Fade Factory")

	require.NoError(t, CanSoftDelete(super, admin, nil, nil, now))
}

func TestCanSoftDeleteAlreadyArchived(t *testing.T) {
	now := time.Now()
	super := acct(1, RoleSuperAdmin, nil)
	shop := acct(2, RoleBarbershop, nil)
	shop.DeletedAt = &now

	err := CanSoftDelete(super, shop, nil, nil, now)
	require.True(t, httperr.IsBusiness(err, "already_archived"))
}

func TestCanSoftDeleteForbiddenScope(t *testing.T) {
	now := time.Now()
	adminA := acct(2, RoleAdmin, nil)
	adminB := acct(3, RoleAdmin, nil)
	foreignShop := acct(4, RoleBarbershop, &adminB.ID)

	err := CanSoftDelete(adminA, foreignShop, nil, nil, now)
	require.True(t, httperr.IsBusiness(err, "forbidden"))
}

func TestCanRestore(t *testing.T) {
	now := time.Now()
	super := acct(1, RoleSuperAdmin, nil)
	adminA := acct(2, RoleAdmin, &super.ID)
	adminB := acct(3, RoleAdmin, &super.ID)

	shop := acct(4, RoleBarbershop, &adminA.ID)
	shop.DeletedAt = &now

	require.NoError(t, CanRestore(super, shop))
	require.NoError(t, CanRestore(adminA, shop))
	require.True(t, httperr.IsBusiness(CanRestore(adminB, shop), "forbidden"))

	active := acct(5, RoleBarbershop, &adminA.ID)
	require.True(t, httperr.IsBusiness(CanRestore(adminA, active), "already_active"))
}

func TestCanTransfer(t *testing.T) {
	super := acct(1, RoleSuperAdmin, nil)
	adminA := acct(2, RoleAdmin, &super.ID)
	adminB := acct(3, RoleAdmin, &super.ID)
	shop := acct(4, RoleBarbershop, &adminA.ID)

	require.NoError(t, CanTransfer(adminA, shop, adminB))
	require.NoError(t, CanTransfer(super, shop, adminB))

	// Transferring to the current owner is a no-op rejected up front.
	require.True(t, httperr.IsBusiness(CanTransfer(adminA, shop, adminA), "self_transfer"))
	require.True(t, httperr.IsBusiness(CanTransfer(super, shop, adminA), "self_transfer"))

	// Foreign admin cannot learn the shop exists.
	require.True(t, httperr.IsBusiness(CanTransfer(adminB, shop, adminA), "not_found"))

	inactive := acct(5, RoleAdmin, &super.ID)
	inactive.IsActive = false
	require.True(t, httperr.IsBusiness(CanTransfer(adminA, shop, inactive), "target_admin_not_found"))
}
