// Package policy holds the single authorization rule shared by every mutating operation.
package policy

import (
	"showroom/internal/models"

	"github.com/google/uuid"
)

// CanManage reports whether actor may mutate an entity whose room is owned by ownerAdminID.
// A superadmin may manage anything. An admin may manage only rooms it owns.
// A room with no owner (uuid.Nil) is reachable by a superadmin only.
func CanManage(actor *models.User, ownerAdminID uuid.UUID) bool {
	if actor == nil {
		return false
	}

	switch actor.Role {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return ownerAdminID != uuid.Nil && actor.ID == ownerAdminID
	}
	return false
}

func IsSuperadmin(actor *models.User) bool {
	return actor != nil && actor.Role == models.RoleSuperadmin
}

func IsStaff(actor *models.User) bool {
	return actor != nil && actor.Role.IsStaff()
}
