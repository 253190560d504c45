// Package notice provides a configurable implementation of types.Notice.
package notice

import (
	"context"
	"errors"
	"html/template"
	"strings"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
)

// ErrDismissalsUnavailable indicates a dismiss call without a dismissal store
// in the environment.
var ErrDismissalsUnavailable = errors.New("go-notices: dismissals unavailable")

// Condition decides whether the notice applies to the current request.
type Condition func(ctx context.Context, env types.NoticeEnv) bool

// ContentFunc produces the notice content per request.
type ContentFunc func(ctx context.Context, env types.NoticeEnv) (types.Content, error)

// Notice is a dismissible notice with static or computed content. It hides
// itself once dismissed in its scope.
type Notice struct {
	id         string
	scope      types.DismissScope
	content    types.Content
	contentFn  ContentFunc
	conditions []Condition
	screens    map[string]struct{}
	gate       featuregate.FeatureGate
	featureKey string
}

// Option customizes a notice.
type Option func(*Notice)

// New builds a notice identified by id. Notices are user scoped unless
// WithScope says otherwise.
func New(id string, opts ...Option) *Notice {
	n := &Notice{
		id:      strings.TrimSpace(id),
		scope:   types.DismissUser,
		content: types.Content{Level: types.NoticeLevelInfo},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// WithScope fixes the dismiss scope. Unknown scopes are ignored.
func WithScope(scope types.DismissScope) Option {
	return func(n *Notice) {
		if scope.Valid() {
			n.scope = scope
		}
	}
}

// WithTitle sets the static title.
func WithTitle(title string) Option {
	return func(n *Notice) {
		n.content.Title = title
	}
}

// WithMessage sets a plain text body. The text is escaped.
func WithMessage(message string) Option {
	return func(n *Notice) {
		n.content.Body = template.HTML(template.HTMLEscapeString(message))
	}
}

// WithHTML sets a trusted markup body.
func WithHTML(body template.HTML) Option {
	return func(n *Notice) {
		n.content.Body = body
	}
}

// WithLevel sets the visual level.
func WithLevel(level types.NoticeLevel) Option {
	return func(n *Notice) {
		n.content.Level = level
	}
}

// WithContent computes the content per request, overriding static content.
func WithContent(fn ContentFunc) Option {
	return func(n *Notice) {
		n.contentFn = fn
	}
}

// WithCondition adds a display condition. All conditions must hold.
func WithCondition(cond Condition) Option {
	return func(n *Notice) {
		if cond != nil {
			n.conditions = append(n.conditions, cond)
		}
	}
}

// OnScreens limits the notice to the named admin screens.
func OnScreens(screens ...string) Option {
	return func(n *Notice) {
		for _, screen := range screens {
			screen = strings.TrimSpace(screen)
			if screen == "" {
				continue
			}
			if n.screens == nil {
				n.screens = make(map[string]struct{})
			}
			n.screens[screen] = struct{}{}
		}
	}
}

// WithFeature hides the notice unless key is enabled on gate for the actor.
func WithFeature(gate featuregate.FeatureGate, key string) Option {
	return func(n *Notice) {
		key = strings.TrimSpace(key)
		if gate == nil || key == "" {
			return
		}
		n.gate = gate
		n.featureKey = key
	}
}

var _ types.Notice = (*Notice)(nil)

// ID implements types.Notice.
func (n *Notice) ID() string { return n.id }

// DismissScope implements types.Notice.
func (n *Notice) DismissScope() types.DismissScope { return n.scope }

// ShouldDisplay implements types.Notice.
func (n *Notice) ShouldDisplay(ctx context.Context, env types.NoticeEnv) bool {
	if n.id == "" {
		return false
	}
	if len(n.screens) > 0 {
		if _, ok := n.screens[env.Screen]; !ok {
			return false
		}
	}
	if env.Dismissals != nil && env.Dismissals.IsDismissed(ctx, n.scope, env.Actor.ID, n.id) {
		return false
	}
	if !n.featureEnabled(ctx, env.Actor.ID) {
		return false
	}
	for _, cond := range n.conditions {
		if !cond(ctx, env) {
			return false
		}
	}
	return true
}

// Content implements types.Notice.
func (n *Notice) Content(ctx context.Context, env types.NoticeEnv) (types.Content, error) {
	if n.contentFn != nil {
		return n.contentFn(ctx, env)
	}
	return n.content, nil
}

// Dismiss implements types.Notice by recording the id in the notice's scope.
func (n *Notice) Dismiss(ctx context.Context, env types.NoticeEnv) error {
	if env.Dismissals == nil {
		return ErrDismissalsUnavailable
	}
	return env.Dismissals.Dismiss(ctx, n.scope, env.Actor.ID, n.id)
}

func (n *Notice) featureEnabled(ctx context.Context, userID uuid.UUID) bool {
	if n.gate == nil {
		return true
	}
	var (
		enabled bool
		err     error
	)
	if userID == uuid.Nil {
		enabled, err = n.gate.Enabled(ctx, n.featureKey)
	} else {
		enabled, err = n.gate.Enabled(ctx, n.featureKey, featuregate.WithScopeSet(featuregate.ScopeSet{
			System: true,
			UserID: userID.String(),
		}))
	}
	return err == nil && enabled
}
