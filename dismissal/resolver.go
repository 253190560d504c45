package dismissal

import (
	"context"
	"sort"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
)

// Resolver merges the global and user dismissal sets via go-options.
type Resolver struct {
	store *Store
}

// ResolveInput controls which scopes participate in the resolution process.
type ResolveInput struct {
	UserID uuid.UUID
	// NoticeIDs restricts the traces to the listed ids. Empty traces every
	// dismissed id.
	NoticeIDs []string
}

// NewResolver constructs a dismissal resolver.
func NewResolver(store *Store) (*Resolver, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Resolver{store: store}, nil
}

// Resolve builds the effective dismissal snapshot. The user layer is skipped
// when no user id is supplied.
func (r *Resolver) Resolve(ctx context.Context, input ResolveInput) (types.DismissalSnapshot, error) {
	order := resolutionOrder(input.UserID)
	layers := make([]opts.Layer[map[string]any], 0, len(order))
	layerValues := make(map[types.DismissScope]map[string]any, len(order))

	for _, scope := range order {
		ids, err := r.store.load(ctx, scope, input.UserID)
		if err != nil {
			return types.DismissalSnapshot{}, err
		}
		payload := make(map[string]any, len(ids))
		for _, id := range ids {
			payload[id] = string(scope)
		}
		layerValues[scope] = payload

		optScope := opts.NewScope(string(scope), scopePriority(scope),
			opts.WithScopeLabel(scopeLabel(scope)),
			opts.WithScopeMetadata(map[string]any{"user_id": userIDFor(scope, input.UserID).String()}))
		layers = append(layers, opts.NewLayer(optScope, copyPayload(payload), opts.WithSnapshotID[map[string]any](optScope.Name)))
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return types.DismissalSnapshot{}, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return types.DismissalSnapshot{}, err
	}

	effective := make(map[string]types.DismissScope, len(merged.Value))
	for id, value := range merged.Value {
		if scope, ok := value.(string); ok {
			effective[id] = types.DismissScope(scope)
		}
	}
	return types.DismissalSnapshot{
		UserID:    input.UserID,
		Effective: effective,
		Traces:    buildTraces(order, input, layerValues),
	}, nil
}

func resolutionOrder(userID uuid.UUID) []types.DismissScope {
	if userID == uuid.Nil {
		return []types.DismissScope{types.DismissGlobal}
	}
	return []types.DismissScope{types.DismissGlobal, types.DismissUser}
}

func scopePriority(scope types.DismissScope) int {
	if scope == types.DismissUser {
		return opts.ScopePriorityUser
	}
	return opts.ScopePrioritySystem
}

func scopeLabel(scope types.DismissScope) string {
	if scope == types.DismissUser {
		return "User"
	}
	return "Global"
}

func userIDFor(scope types.DismissScope, userID uuid.UUID) uuid.UUID {
	if scope == types.DismissUser {
		return userID
	}
	return uuid.Nil
}

func copyPayload(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func buildTraces(order []types.DismissScope, input ResolveInput, values map[types.DismissScope]map[string]any) []types.DismissalTrace {
	idSet := make(map[string]struct{})
	for _, id := range Normalize(input.NoticeIDs) {
		idSet[id] = struct{}{}
	}
	if len(idSet) == 0 {
		for _, scopeValues := range values {
			for id := range scopeValues {
				idSet[id] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	traces := make([]types.DismissalTrace, 0, len(ids))
	for _, id := range ids {
		layers := make([]types.DismissalTraceLayer, 0, len(order))
		for _, scope := range order {
			_, found := values[scope][id]
			layers = append(layers, types.DismissalTraceLayer{
				Scope:      scope,
				UserID:     userIDFor(scope, input.UserID),
				SnapshotID: string(scope),
				Found:      found,
			})
		}
		traces = append(traces, types.DismissalTrace{NoticeID: id, Layers: layers})
	}
	return traces
}
