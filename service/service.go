package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-notices/activity"
	"github.com/goliatone/go-notices/command"
	"github.com/goliatone/go-notices/dismissal"
	"github.com/goliatone/go-notices/pkg/metrics"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/query"
	"github.com/goliatone/go-notices/registry"
	"github.com/goliatone/go-notices/render"
	"github.com/goliatone/go-notices/scope"
	"github.com/google/uuid"
)

// FeatureNoticesRender gates the whole render pass when a FeatureGate is
// configured.
const FeatureNoticesRender = "notices.render"

// Service is the entry point for go-notices. It owns the notice registry and
// wires the dismissal store, renderer and command/query facades supplied by
// the host application.
type Service struct {
	cfg        Config
	registry   *registry.Registry
	dismissals types.Dismissals
	resolver   *dismissal.Resolver
	renderer   *render.Renderer
	scopeGuard scope.Guard
	commands   Commands
	queries    Queries
}

// Commands exposes the service command handlers.
type Commands struct {
	DismissNotice *command.DismissNoticeCommand
	RestoreNotice *command.RestoreNoticeCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	DismissedNotices  *query.DismissedNoticesQuery
	DismissalSnapshot *query.DismissalSnapshotQuery
}

// Config captures the dependencies supplied by the host application.
type Config struct {
	// Store persists the dismissal sets.
	Store types.OptionStore
	// Nonces signs and verifies dismiss links.
	Nonces types.NonceManager
	// Registry defaults to an empty registry.
	Registry      *registry.Registry
	RenderOptions []render.Option
	// FeatureGate, when set, can switch off rendering via FeatureNoticesRender.
	FeatureGate         featuregate.FeatureGate
	Hooks               types.Hooks
	ActivitySink        types.ActivitySink
	AuthorizationPolicy types.AuthorizationPolicy
	Clock               types.Clock
	Logger              types.Logger
	Metrics             *metrics.Metrics
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)
	s := &Service{
		cfg:        norm,
		registry:   norm.Registry,
		scopeGuard: scope.Ensure(scope.NewGuard(norm.AuthorizationPolicy)),
	}

	if norm.Store != nil {
		store, err := dismissal.NewStore(norm.Store, dismissal.WithLogger(norm.Logger))
		if err != nil {
			norm.Logger.Error("go-notices: dismissal store initialization failed", err)
		} else {
			s.dismissals = store
			if resolver, err := dismissal.NewResolver(store); err == nil {
				s.resolver = resolver
			}
		}
	}
	if norm.Nonces != nil {
		opts := append([]render.Option{render.WithLogger(norm.Logger)}, norm.RenderOptions...)
		renderer, err := render.New(norm.Nonces, opts...)
		if err != nil {
			norm.Logger.Error("go-notices: renderer initialization failed", err)
		} else {
			s.renderer = renderer
		}
	}

	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Registry == nil {
		cfg.Registry = registry.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New(nil)
	}
	if cfg.ActivitySink == nil {
		cfg.ActivitySink = activity.NewLoggerSink(cfg.Logger, activity.WithClock(cfg.Clock))
	} else {
		cfg.ActivitySink = activity.NewSanitizingSink(cfg.ActivitySink, activity.WithClock(cfg.Clock))
	}
	return cfg
}

// Register adds or replaces a notice. See registry.Registry.Register.
func (s *Service) Register(notice types.Notice, opts ...registry.Option) bool {
	return s.registry.Register(notice, opts...)
}

// Unregister removes a notice by id.
func (s *Service) Unregister(id string) bool {
	return s.registry.Unregister(id)
}

// Notice returns the registered notice for id.
func (s *Service) Notice(id string) (types.Notice, bool) {
	return s.registry.Notice(id)
}

// Registry returns the notice registry owned by the service.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Dismissals returns the dismissal store, nil when no option store was configured.
func (s *Service) Dismissals() types.Dismissals {
	return s.dismissals
}

// ScopeGuard exposes the guard instance used internally so transports can
// reuse the same policy.
func (s *Service) ScopeGuard() scope.Guard {
	if s == nil {
		return scope.NopGuard()
	}
	return scope.Ensure(s.scopeGuard)
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.registry != nil &&
		s.dismissals != nil &&
		s.renderer != nil
}

// HealthCheck surfaces missing configuration.
func (s *Service) HealthCheck(_ context.Context) error {
	if s == nil {
		return types.ErrServiceNotReady
	}
	if s.cfg.Store == nil {
		return types.ErrMissingOptionStore
	}
	if s.cfg.Nonces == nil {
		return types.ErrMissingNonceManager
	}
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	return nil
}

// DismissedNotices returns the ids dismissed in scope. User scoped reads use
// userID; unreadable or absent sets come back empty.
func (s *Service) DismissedNotices(ctx context.Context, dismissScope types.DismissScope, userID uuid.UUID) []string {
	if s.dismissals == nil {
		return []string{}
	}
	return s.dismissals.Dismissed(ctx, dismissScope, userID)
}

// RenderAll writes every visible notice in priority order and returns the
// number of notices written.
func (s *Service) RenderAll(ctx context.Context, w io.Writer, req types.Request) int {
	if s.renderer == nil {
		s.cfg.Logger.Error("go-notices: render skipped", types.ErrMissingNonceManager)
		return 0
	}
	if !s.renderEnabled(ctx, req.Actor.ID) {
		return 0
	}
	start := time.Now()
	env := types.NoticeEnv{Request: req, Dismissals: s.dismissals}
	written := 0
	for _, entry := range s.registry.Entries() {
		if s.renderer.Render(ctx, w, render.Context{
			Entry:    entry,
			Priority: entry.Priority,
			Template: entry.Template,
			Env:      env,
		}) {
			written++
		}
	}
	s.cfg.Metrics.ObserveRender(start)
	s.cfg.Metrics.AddRendered(written)
	return written
}

// HandleDismissRequest applies the dismiss request carried by req, if any.
// The outcome is a value; nothing here is surfaced to the page.
func (s *Service) HandleDismissRequest(ctx context.Context, req types.Request) DismissResult {
	result := s.handleDismiss(ctx, req)
	s.cfg.Metrics.IncrementDismissOutcome(string(result.Outcome))
	switch {
	case result.Err != nil:
		s.cfg.Logger.Error("notice dismissal failed", result.Err, "notice_id", result.NoticeID, "actor_id", req.Actor.ID.String())
	case result.Outcome != OutcomeNoRequest:
		s.cfg.Logger.Debug("notice dismiss request", "outcome", string(result.Outcome), "notice_id", result.NoticeID)
	}
	return result
}

func (s *Service) handleDismiss(ctx context.Context, req types.Request) DismissResult {
	values := req.Query()
	if !values.Has(types.DismissQueryArg) {
		return DismissResult{Outcome: OutcomeNoRequest}
	}
	id := strings.TrimSpace(values.Get(types.DismissQueryArg))
	if s.cfg.Nonces == nil {
		return DismissResult{Outcome: OutcomeInvalidToken, NoticeID: id}
	}
	token := values.Get(types.NonceQueryArg)
	if token == "" || s.cfg.Nonces.Verify(token, types.DismissNonceAction(req.Actor.ID)) != nil {
		return DismissResult{Outcome: OutcomeInvalidToken, NoticeID: id}
	}

	out := &command.DismissNoticeResult{}
	err := s.commands.DismissNotice.Execute(ctx, command.DismissNoticeInput{
		NoticeID: id,
		Request:  req,
		Result:   out,
	})
	switch {
	case errors.Is(err, command.ErrNoticeNotFound), errors.Is(err, command.ErrNoticeIDRequired):
		return DismissResult{Outcome: OutcomeUnknownNotice, NoticeID: id}
	case errors.Is(err, types.ErrUnauthorizedScope):
		return DismissResult{Outcome: OutcomeForbidden, NoticeID: id}
	}
	dismissScope := out.Scope
	if dismissScope == "" {
		if notice, ok := s.registry.Notice(id); ok {
			dismissScope = notice.DismissScope()
		}
	}
	return DismissResult{
		Outcome:  OutcomeDismissed,
		NoticeID: id,
		Scope:    dismissScope,
		Err:      err,
	}
}

func (s *Service) renderEnabled(ctx context.Context, userID uuid.UUID) bool {
	if s.cfg.FeatureGate == nil {
		return true
	}
	var (
		enabled bool
		err     error
	)
	if userID == uuid.Nil {
		enabled, err = s.cfg.FeatureGate.Enabled(ctx, FeatureNoticesRender)
	} else {
		enabled, err = s.cfg.FeatureGate.Enabled(ctx, FeatureNoticesRender, featuregate.WithScopeSet(featuregate.ScopeSet{
			System: true,
			UserID: userID.String(),
		}))
	}
	if err != nil {
		s.cfg.Logger.Error("go-notices: render feature check failed", err)
		return false
	}
	return enabled
}

func (s *Service) buildCommands() Commands {
	cfg := command.NoticeCommandConfig{
		Registry:   s.registry,
		Dismissals: s.dismissals,
		Hooks:      s.cfg.Hooks,
		Activity:   s.cfg.ActivitySink,
		Clock:      s.cfg.Clock,
		Logger:     s.cfg.Logger,
		ScopeGuard: s.scopeGuard,
	}
	return Commands{
		DismissNotice: command.NewDismissNoticeCommand(cfg),
		RestoreNotice: command.NewRestoreNoticeCommand(cfg),
	}
}

func (s *Service) buildQueries() Queries {
	snapshot := query.NewDismissalSnapshotQuery(nil, s.scopeGuard)
	if s.resolver != nil {
		snapshot = query.NewDismissalSnapshotQuery(s.resolver, s.scopeGuard)
	}
	return Queries{
		DismissedNotices:  query.NewDismissedNoticesQuery(s.dismissals, s.scopeGuard),
		DismissalSnapshot: snapshot,
	}
}
