package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-notices/dismissal"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/scope"
	"github.com/google/uuid"
)

// DismissalSnapshotInput scopes snapshot resolution. UserID defaults to the
// actor.
type DismissalSnapshotInput struct {
	UserID    uuid.UUID
	NoticeIDs []string
	Actor     types.ActorRef
}

// DismissalSnapshotQuery resolves the effective dismissals for a user via
// the injected resolver.
type DismissalSnapshotQuery struct {
	resolver snapshotResolver
	guard    scope.Guard
}

type snapshotResolver interface {
	Resolve(ctx context.Context, input dismissal.ResolveInput) (types.DismissalSnapshot, error)
}

// NewDismissalSnapshotQuery constructs the query helper.
func NewDismissalSnapshotQuery(resolver snapshotResolver, guard scope.Guard) *DismissalSnapshotQuery {
	return &DismissalSnapshotQuery{
		resolver: resolver,
		guard:    safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[DismissalSnapshotInput, types.DismissalSnapshot] = (*DismissalSnapshotQuery)(nil)

// Query resolves the global and user layers into a snapshot.
func (q *DismissalSnapshotQuery) Query(ctx context.Context, input DismissalSnapshotInput) (types.DismissalSnapshot, error) {
	if q.resolver == nil {
		return types.DismissalSnapshot{}, types.ErrMissingDismissals
	}
	userID := input.UserID
	if userID == uuid.Nil {
		userID = input.Actor.ID
	}
	if err := q.guard.Enforce(ctx, input.Actor, types.DismissUser, types.PolicyActionNoticesRead, ""); err != nil {
		return types.DismissalSnapshot{}, err
	}
	return q.resolver.Resolve(ctx, dismissal.ResolveInput{
		UserID:    userID,
		NoticeIDs: input.NoticeIDs,
	})
}
