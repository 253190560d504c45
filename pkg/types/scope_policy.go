package types

import (
	"context"
	"errors"
)

// PolicyAction enumerates the authorization actions enforced by the scope
// guard. Host applications can remap these actions to their own ACL systems.
type PolicyAction string

const (
	PolicyActionNoticesDismiss PolicyAction = "notices:dismiss"
	PolicyActionNoticesRestore PolicyAction = "notices:restore"
	PolicyActionNoticesRead    PolicyAction = "notices:read"
)

// PolicyCheck captures the authorization context for a single command/query.
type PolicyCheck struct {
	Actor    ActorRef
	Scope    DismissScope
	Action   PolicyAction
	NoticeID string
}

// AuthorizationPolicy governs whether an actor can act on the dismissal
// scope for the supplied action.
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, check PolicyCheck) error
}

// AuthorizationPolicyFunc adapts bare functions to AuthorizationPolicy.
type AuthorizationPolicyFunc func(ctx context.Context, check PolicyCheck) error

// Authorize implements AuthorizationPolicy.
func (f AuthorizationPolicyFunc) Authorize(ctx context.Context, check PolicyCheck) error {
	return f(ctx, check)
}

var (
	// ErrUnauthorizedScope indicates the actor may not act on the dismissal
	// scope according to the configured authorization policy.
	ErrUnauthorizedScope = errors.New("go-notices: actor not authorized for scope")
)

// AllowAllAuthorizationPolicy allows every action/scope combination.
type AllowAllAuthorizationPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (AllowAllAuthorizationPolicy) Authorize(context.Context, PolicyCheck) error {
	return nil
}
