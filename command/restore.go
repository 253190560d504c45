package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/registry"
	"github.com/goliatone/go-notices/scope"
	"github.com/google/uuid"
)

// RestoreNoticeInput removes a notice id from a dismissal set so the notice
// shows again. Scope defaults to the registered notice's scope and UserID
// defaults to the actor.
type RestoreNoticeInput struct {
	NoticeID string
	Scope    types.DismissScope
	UserID   uuid.UUID
	Actor    types.ActorRef
}

// Type implements gocommand.Message.
func (RestoreNoticeInput) Type() string {
	return "command.notice.restore"
}

// Validate implements gocommand.Message.
func (input RestoreNoticeInput) Validate() error {
	if strings.TrimSpace(input.NoticeID) == "" {
		return ErrNoticeIDRequired
	}
	if input.Scope != "" && !input.Scope.Valid() {
		return types.ErrUnknownDismissScope
	}
	return nil
}

// RestoreNoticeCommand undoes a dismissal.
type RestoreNoticeCommand struct {
	registry   *registry.Registry
	dismissals types.Dismissals
	hooks      types.Hooks
	activity   types.ActivitySink
	clock      types.Clock
	logger     types.Logger
	guard      scope.Guard
}

// NewRestoreNoticeCommand constructs the restore handler.
func NewRestoreNoticeCommand(cfg NoticeCommandConfig) *RestoreNoticeCommand {
	return &RestoreNoticeCommand{
		registry:   cfg.Registry,
		dismissals: cfg.Dismissals,
		hooks:      cfg.Hooks,
		activity:   cfg.Activity,
		clock:      safeClock(cfg.Clock),
		logger:     safeLogger(cfg.Logger),
		guard:      safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[RestoreNoticeInput] = (*RestoreNoticeCommand)(nil)

// Execute removes the id from the resolved dismissal set.
func (c *RestoreNoticeCommand) Execute(ctx context.Context, input RestoreNoticeInput) error {
	if c.dismissals == nil {
		return types.ErrMissingDismissals
	}
	if err := input.Validate(); err != nil {
		return err
	}
	id := strings.TrimSpace(input.NoticeID)
	dismissScope := input.Scope
	if dismissScope == "" && c.registry != nil {
		if notice, ok := c.registry.Notice(id); ok {
			dismissScope = notice.DismissScope()
		}
	}
	if dismissScope == "" {
		return ErrScopeRequired
	}
	userID := input.UserID
	if userID == uuid.Nil {
		userID = input.Actor.ID
	}
	if dismissScope == types.DismissUser && userID == uuid.Nil {
		return ErrUserIDRequired
	}
	if err := c.guard.Enforce(ctx, input.Actor, dismissScope, types.PolicyActionNoticesRestore, id); err != nil {
		return err
	}

	if err := c.dismissals.Restore(ctx, dismissScope, userID, id); err != nil {
		return err
	}

	occurredAt := now(c.clock)
	logActivity(ctx, c.activity, c.logger, types.ActivityRecord{
		UserID:     userFor(dismissScope, userID),
		ActorID:    input.Actor.ID,
		Verb:       "notice.restored",
		ObjectType: "notice",
		ObjectID:   id,
		Channel:    activityChannel,
		Data: map[string]any{
			"scope": string(dismissScope),
		},
		OccurredAt: occurredAt,
	})
	emitRestoreHook(ctx, c.hooks, types.DismissEvent{
		NoticeID:   id,
		Scope:      dismissScope,
		ActorID:    input.Actor.ID,
		Action:     "notice.restore",
		OccurredAt: occurredAt,
	})
	return nil
}
