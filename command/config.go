package command

import (
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/registry"
	"github.com/goliatone/go-notices/scope"
)

// NoticeCommandConfig wires the dependencies shared by the dismissal commands.
type NoticeCommandConfig struct {
	Registry   *registry.Registry
	Dismissals types.Dismissals
	Hooks      types.Hooks
	Activity   types.ActivitySink
	Clock      types.Clock
	Logger     types.Logger
	ScopeGuard scope.Guard
}
