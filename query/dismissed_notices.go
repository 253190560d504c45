package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/scope"
	"github.com/google/uuid"
)

// DismissedNoticesInput selects the dismissal set to read. UserID defaults
// to the actor for user scoped reads.
type DismissedNoticesInput struct {
	Scope  types.DismissScope
	UserID uuid.UUID
	Actor  types.ActorRef
}

// DismissedNotices lists the dismissed ids of one set.
type DismissedNotices struct {
	Scope  types.DismissScope
	UserID uuid.UUID
	IDs    []string
}

// DismissedNoticesQuery reads a dismissal set through types.Dismissals.
type DismissedNoticesQuery struct {
	dismissals types.Dismissals
	guard      scope.Guard
}

// NewDismissedNoticesQuery constructs the query helper.
func NewDismissedNoticesQuery(dismissals types.Dismissals, guard scope.Guard) *DismissedNoticesQuery {
	return &DismissedNoticesQuery{
		dismissals: dismissals,
		guard:      safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[DismissedNoticesInput, DismissedNotices] = (*DismissedNoticesQuery)(nil)

// Query returns the dismissed ids. Unreadable sets come back empty.
func (q *DismissedNoticesQuery) Query(ctx context.Context, input DismissedNoticesInput) (DismissedNotices, error) {
	if q.dismissals == nil {
		return DismissedNotices{}, types.ErrMissingDismissals
	}
	dismissScope := input.Scope
	if dismissScope == "" {
		dismissScope = types.DismissUser
	}
	userID := input.UserID
	if dismissScope == types.DismissGlobal {
		userID = uuid.Nil
	} else if userID == uuid.Nil {
		userID = input.Actor.ID
	}
	if _, err := types.KeyFor(dismissScope, userID); err != nil {
		return DismissedNotices{}, err
	}
	if err := q.guard.Enforce(ctx, input.Actor, dismissScope, types.PolicyActionNoticesRead, ""); err != nil {
		return DismissedNotices{}, err
	}
	return DismissedNotices{
		Scope:  dismissScope,
		UserID: userID,
		IDs:    q.dismissals.Dismissed(ctx, dismissScope, userID),
	}, nil
}
