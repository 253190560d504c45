package command

import (
	"context"
	"time"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/scope"
)

const activityChannel = "notices"

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func emitDismissHook(ctx context.Context, hooks types.Hooks, event types.DismissEvent) {
	if hooks.AfterDismiss == nil {
		return
	}
	hooks.AfterDismiss(ctx, event)
}

func emitRestoreHook(ctx context.Context, hooks types.Hooks, event types.DismissEvent) {
	if hooks.AfterRestore == nil {
		return
	}
	hooks.AfterRestore(ctx, event)
}

func logActivity(ctx context.Context, sink types.ActivitySink, logger types.Logger, record types.ActivityRecord) {
	if sink == nil {
		return
	}
	if err := sink.Log(ctx, record); err != nil {
		logger.Error("notice activity log failed", err, "verb", record.Verb, "notice_id", record.ObjectID)
	}
}
