package account

import "github.com/clipperhub/barbershop-platform/internal/models"

// Role is the closed set of account roles. Authorization predicates switch
// exhaustively over it so a new role is a compile-visible change here.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleBarber     Role = "barber"
	RoleBarbershop Role = "barbershop"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleBarber, RoleBarbershop, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// CanCreateRole reports whether actor may create accounts with the given role.
// Admins only mint barbershops; super admins mint admins and barbershops.
func CanCreateRole(actor *models.Account, role Role) bool {
	if actor == nil || actor.IsDeleted() {
		return false
	}
	switch Role(actor.Role) {
	case RoleSuperAdmin:
		return role == RoleAdmin || role == RoleBarbershop
	case RoleAdmin:
		return role == RoleBarbershop
	case RoleBarbershop, RoleBarber, RoleCustomer:
		return false
	}
	return false
}

// CanManage maps (actor, target) to allow/deny for mutations.
//
// super_admin manages admin and barbershop targets (never other super
// admins); admin manages only barbershops it created; barbershop manages
// only itself. Everyone else has no administrative capability.
func CanManage(actor, target *models.Account) bool {
	if actor == nil || target == nil || actor.IsDeleted() {
		return false
	}
	switch Role(actor.Role) {
	case RoleSuperAdmin:
		return Role(target.Role) == RoleAdmin || Role(target.Role) == RoleBarbershop
	case RoleAdmin:
		return Role(target.Role) == RoleBarbershop &&
			target.CreatedByID != nil && *target.CreatedByID == actor.ID
	case RoleBarbershop:
		return target.ID == actor.ID
	case RoleBarber, RoleCustomer:
		return false
	}
	return false
}

// CanView is CanManage plus super-admin read access to everything.
func CanView(actor, target *models.Account) bool {
	if actor == nil || target == nil || actor.IsDeleted() {
		return false
	}
	if Role(actor.Role) == RoleSuperAdmin {
		return true
	}
	return CanManage(actor, target)
}
