// Package scope authorizes dismissal writes and reads against a host
// supplied policy before they reach the option store.
package scope

import (
	"context"

	"github.com/goliatone/go-notices/pkg/types"
)

// Guard enforces authorization policies for commands and queries.
type Guard interface {
	Enforce(ctx context.Context, actor types.ActorRef, scope types.DismissScope, action types.PolicyAction, noticeID string) error
}

type guard struct {
	policy types.AuthorizationPolicy
}

// NewGuard builds a Guard from the supplied policy. A nil policy allows
// everything.
func NewGuard(policy types.AuthorizationPolicy) Guard {
	return guard{policy: policy}
}

// Ensure returns a non-nil guard so command/query constructors can accept nil
// guards when tests instantiate them directly.
func Ensure(g Guard) Guard {
	if g == nil {
		return guard{}
	}
	return g
}

// NopGuard returns a guard that never blocks.
func NopGuard() Guard {
	return guard{}
}

// Enforce authorizes the action on the dismissal scope.
func (g guard) Enforce(ctx context.Context, actor types.ActorRef, scope types.DismissScope, action types.PolicyAction, noticeID string) error {
	if !scope.Valid() {
		return types.ErrUnknownDismissScope
	}
	if g.policy == nil || action == "" {
		return nil
	}
	return g.policy.Authorize(ctx, types.PolicyCheck{
		Actor:    actor,
		Scope:    scope,
		Action:   action,
		NoticeID: noticeID,
	})
}
