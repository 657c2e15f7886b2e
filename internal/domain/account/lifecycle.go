package account

import (
	"time"

	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/models"
)

// Lifecycle guards. Pure checks over snapshots; callers re-run the guarded
// UPDATE inside a transaction so a concurrent delete cannot double-apply.

// CanSoftDelete validates an archive request.
//
// sub is the target's subscription (barbershops only, nil otherwise).
// ownedActiveShops holds the shop names still owned by an admin target.
func CanSoftDelete(actor, target *models.Account, sub *models.Subscription, ownedActiveShops []string, now time.Time) error {
	if !CanManage(actor, target) {
		return httperr.ErrBusiness("forbidden")
	}
	if target.IsDeleted() {
		return httperr.ErrBusiness("already_archived")
	}

	switch Role(target.Role) {
	case RoleBarbershop:
		if sub != nil && sub.IsActive(now) {
			return httperr.ErrBusinessWithDetails(
				"active_subscription",
				"Cannot archive a barbershop with an active subscription. Cancel the subscription first.",
				map[string]any{"plan": sub.Plan, "expires_at": sub.ExpiresAt},
			)
		}
	case RoleAdmin:
		if n := len(ownedActiveShops); n > 0 {
			return httperr.ErrBusinessWithDetails(
				"owns_active_barbershops",
				"Cannot archive an admin that still owns active barbershops. Transfer ownership first.",
				map[string]any{"barbershop_count": n, "barbershop_names": ownedActiveShops},
			)
		}
	}
	return nil
}

// CanRestore validates un-archiving. Admins only restore accounts they
// created; super admins restore anything archived.
func CanRestore(actor, target *models.Account) error {
	if actor == nil || target == nil || actor.IsDeleted() {
		return httperr.ErrBusiness("forbidden")
	}
	if !target.IsDeleted() {
		return httperr.ErrBusiness("already_active")
	}
	switch Role(actor.Role) {
	case RoleSuperAdmin:
		return nil
	case RoleAdmin:
		if target.CreatedByID != nil && *target.CreatedByID == actor.ID {
			return nil
		}
		return httperr.ErrBusiness("forbidden")
	case RoleBarbershop, RoleBarber, RoleCustomer:
		return httperr.ErrBusiness("forbidden")
	}
	return httperr.ErrBusiness("forbidden")
}

// CanTransfer validates moving a barbershop to another admin.
func CanTransfer(actor, shop, newAdmin *models.Account) error {
	if actor == nil || shop == nil || newAdmin == nil || actor.IsDeleted() {
		return httperr.ErrBusiness("forbidden")
	}
	if Role(shop.Role) != RoleBarbershop || shop.IsDeleted() {
		return httperr.ErrBusiness("not_found")
	}
	switch Role(actor.Role) {
	case RoleSuperAdmin:
		// any active shop
	case RoleAdmin:
		if shop.CreatedByID == nil || *shop.CreatedByID != actor.ID {
			return httperr.ErrBusiness("not_found")
		}
	default:
		return httperr.ErrBusiness("forbidden")
	}
	if Role(newAdmin.Role) != RoleAdmin || newAdmin.IsDeleted() || !newAdmin.IsActive {
		return httperr.ErrBusiness("target_admin_not_found")
	}
	if newAdmin.ID == actor.ID {
		return httperr.ErrBusiness("self_transfer")
	}
	if shop.CreatedByID != nil && *shop.CreatedByID == newAdmin.ID {
		return httperr.ErrBusiness("self_transfer")
	}
	return nil
}
