package service

import "github.com/excellense/api/internal/core/domain"

// requireRole fails with an access-denied error unless actor holds one of allowed.
func requireRole(actor domain.Identity, allowed ...domain.Role) error {
	for _, r := range allowed {
		if actor.Role == r {
			return nil
		}
	}
	return domain.AccessDenied(actor.Role)
}

// authorizeRoleChange decides whether actor may move an account from target to next.
//
//	superadmin: anything
//	admin:      only plain users, and never to superadmin
//	user:       nothing
func authorizeRoleChange(actor, target, next domain.Role) error {
	switch actor {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleAdmin:
		switch target {
		case domain.RoleSuperAdmin:
			return domain.ErrSuperAdminTarget
		case domain.RoleAdmin:
			return domain.ErrAdminTargetNotUser
		case domain.RoleUser:
			if next == domain.RoleSuperAdmin {
				return domain.ErrSuperAdminGrant
			}
			return nil
		default:
			return domain.ErrAdminTargetNotUser
		}
	default:
		return domain.AccessDenied(actor)
	}
}
