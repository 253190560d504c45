package types

import "context"

// RoleScopePolicy restricts each dismissal scope to a set of actor roles.
// Scopes without an entry are open to every actor.
type RoleScopePolicy struct {
	roles map[DismissScope]map[string]struct{}
}

// NewRoleScopePolicy creates a policy from a scope to roles table.
func NewRoleScopePolicy(table map[DismissScope][]string) *RoleScopePolicy {
	internal := make(map[DismissScope]map[string]struct{}, len(table))
	for scope, roles := range table {
		set := make(map[string]struct{}, len(roles))
		for _, role := range roles {
			role = normalizeRole(role)
			if role == "" {
				continue
			}
			set[role] = struct{}{}
		}
		internal[scope] = set
	}
	return &RoleScopePolicy{roles: internal}
}

// AdminGlobalPolicy only lets system administrators touch the shared
// dismissal set. Per-user dismissals stay open to everyone.
func AdminGlobalPolicy() *RoleScopePolicy {
	return NewRoleScopePolicy(map[DismissScope][]string{
		DismissGlobal: {ActorRoleSystemAdmin},
	})
}

// Authorize implements AuthorizationPolicy.
func (p *RoleScopePolicy) Authorize(_ context.Context, check PolicyCheck) error {
	if p == nil {
		return nil
	}
	allowed, ok := p.roles[check.Scope]
	if !ok || len(allowed) == 0 {
		return nil
	}
	if _, ok := allowed[check.Actor.RoleName()]; ok {
		return nil
	}
	return ErrUnauthorizedScope
}

// AllowedRoles returns the roles accepted for the scope. Nil means unrestricted.
func (p *RoleScopePolicy) AllowedRoles(scope DismissScope) []string {
	allowed := p.roles[scope]
	if len(allowed) == 0 {
		return nil
	}
	out := make([]string, 0, len(allowed))
	for role := range allowed {
		out = append(out, role)
	}
	return out
}
