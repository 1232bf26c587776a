// Package policy holds the pure access-control decisions. Handlers resolve
// the principal and the resource, then ask here; nothing in this package
// touches the database or the request.
package policy

import (
	"gorm.io/gorm"

	"github.com/tasmeem-studio/tasmeem-api/models"
)

// Principal is the authenticated identity for the current request.
type Principal struct {
	UserID uint
	Role   models.Role
}

// CanAccessOrder decides whether p may read or act on order, and by
// extension on anything scoped to it (plans, revisions, messages).
//
// Admins see everything. Clients see their own orders. Engineers see orders
// assigned to them plus unclaimed ones, which any engineer may inspect and
// claim.
func CanAccessOrder(p Principal, order *models.Order) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return order.ClientID == p.UserID
	case models.RoleEngineer:
		return order.EngineerID == nil || *order.EngineerID == p.UserID
	}
	return false
}

// CanClaimOrder decides whether engineer p may claim (or re-claim) order.
// Re-claiming an order already bound to the same engineer is allowed so the
// operation stays idempotent.
func CanClaimOrder(p Principal, order *models.Order) bool {
	if p.Role != models.RoleEngineer {
		return false
	}
	return order.EngineerID == nil || *order.EngineerID == p.UserID
}

// CanReviewApplications reports whether p may invite, approve or reject
// engineer applications.
func CanReviewApplications(p Principal) bool {
	return p.Role == models.RoleAdmin
}

// CanManageUsers reports whether p may list users or change roles.
func CanManageUsers(p Principal) bool {
	return p.Role == models.RoleAdmin
}

// OrderScope applies the list-filter equivalent of CanAccessOrder: the
// caller never supplies its own scope, the role implies it.
func OrderScope(p Principal, tx *gorm.DB) *gorm.DB {
	switch p.Role {
	case models.RoleAdmin:
		return tx
	case models.RoleClient:
		return tx.Where("client_id = ?", p.UserID)
	case models.RoleEngineer:
		return tx.Where("engineer_id = ? OR engineer_id IS NULL", p.UserID)
	}
	return tx.Where("1 = 0")
}
