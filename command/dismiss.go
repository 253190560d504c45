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

// DismissNoticeInput identifies the notice to dismiss and the request it
// was dismissed from.
type DismissNoticeInput struct {
	NoticeID string
	Request  types.Request
	Result   *DismissNoticeResult
}

// DismissNoticeResult reports the scope the dismissal was written to.
type DismissNoticeResult struct {
	Scope types.DismissScope
}

// Type implements gocommand.Message.
func (DismissNoticeInput) Type() string {
	return "command.notice.dismiss"
}

// Validate implements gocommand.Message.
func (input DismissNoticeInput) Validate() error {
	if strings.TrimSpace(input.NoticeID) == "" {
		return ErrNoticeIDRequired
	}
	return nil
}

// DismissNoticeCommand records a registered notice as dismissed through the
// notice's own dismiss operation.
type DismissNoticeCommand struct {
	registry   *registry.Registry
	dismissals types.Dismissals
	hooks      types.Hooks
	activity   types.ActivitySink
	clock      types.Clock
	logger     types.Logger
	guard      scope.Guard
}

// NewDismissNoticeCommand constructs the dismiss handler.
func NewDismissNoticeCommand(cfg NoticeCommandConfig) *DismissNoticeCommand {
	return &DismissNoticeCommand{
		registry:   cfg.Registry,
		dismissals: cfg.Dismissals,
		hooks:      cfg.Hooks,
		activity:   cfg.Activity,
		clock:      safeClock(cfg.Clock),
		logger:     safeLogger(cfg.Logger),
		guard:      safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[DismissNoticeInput] = (*DismissNoticeCommand)(nil)

// Execute dismisses the notice. ErrNoticeNotFound is returned for ids that
// are not registered.
func (c *DismissNoticeCommand) Execute(ctx context.Context, input DismissNoticeInput) error {
	if c.registry == nil {
		return types.ErrMissingRegistry
	}
	if c.dismissals == nil {
		return types.ErrMissingDismissals
	}
	if err := input.Validate(); err != nil {
		return err
	}
	id := strings.TrimSpace(input.NoticeID)
	notice, ok := c.registry.Notice(id)
	if !ok {
		return ErrNoticeNotFound
	}
	dismissScope := notice.DismissScope()
	actor := input.Request.Actor
	if dismissScope == types.DismissUser && actor.ID == uuid.Nil {
		return ErrUserIDRequired
	}
	if err := c.guard.Enforce(ctx, actor, dismissScope, types.PolicyActionNoticesDismiss, id); err != nil {
		return err
	}

	env := types.NoticeEnv{Request: input.Request, Dismissals: c.dismissals}
	if err := notice.Dismiss(ctx, env); err != nil {
		return err
	}
	if input.Result != nil {
		input.Result.Scope = dismissScope
	}

	occurredAt := now(c.clock)
	logActivity(ctx, c.activity, c.logger, types.ActivityRecord{
		UserID:     userFor(dismissScope, actor.ID),
		ActorID:    actor.ID,
		Verb:       "notice.dismissed",
		ObjectType: "notice",
		ObjectID:   id,
		Channel:    activityChannel,
		Data: map[string]any{
			"scope":  string(dismissScope),
			"screen": input.Request.Screen,
		},
		OccurredAt: occurredAt,
	})
	emitDismissHook(ctx, c.hooks, types.DismissEvent{
		NoticeID:   id,
		Scope:      dismissScope,
		ActorID:    actor.ID,
		Action:     "notice.dismiss",
		OccurredAt: occurredAt,
	})
	return nil
}

func userFor(dismissScope types.DismissScope, userID uuid.UUID) uuid.UUID {
	if dismissScope == types.DismissUser {
		return userID
	}
	return uuid.Nil
}
