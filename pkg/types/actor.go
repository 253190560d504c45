package types

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// ActorRoleSystemAdmin represents site-wide administrators with unrestricted access.
	ActorRoleSystemAdmin = "system_admin"
	// ActorRoleTenantAdmin represents administrators scoped to a tenant/org.
	ActorRoleTenantAdmin = "tenant_admin"
	// ActorRoleSupport represents support agents.
	ActorRoleSupport = "support"
)

// ActorRef identifies the user performing an operation.
type ActorRef struct {
	ID   uuid.UUID
	Type string
}

// RoleName normalizes the actor role for comparisons.
func (a ActorRef) RoleName() string {
	return normalizeRole(a.Type)
}

// IsRole reports whether the actor matches the provided role.
func (a ActorRef) IsRole(role string) bool {
	role = normalizeRole(role)
	if role == "" {
		return a.RoleName() == ""
	}
	return a.RoleName() == role
}

// IsSystemAdmin reports whether the actor is a global/system administrator.
func (a ActorRef) IsSystemAdmin() bool {
	return a.IsRole(ActorRoleSystemAdmin)
}

// Anonymous reports whether the actor carries no user id.
func (a ActorRef) Anonymous() bool {
	return a.ID == uuid.Nil
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
