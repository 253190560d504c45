package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-notices/activity"
	"github.com/goliatone/go-notices/command"
	"github.com/goliatone/go-notices/notice"
	"github.com/goliatone/go-notices/options"
	"github.com/goliatone/go-notices/pkg/metrics"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/query"
	"github.com/goliatone/go-notices/registry"
	"github.com/goliatone/go-notices/service"
	"github.com/goliatone/go-notices/tokens"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestService_RegisterOverwrites(t *testing.T) {
	svc, _ := newService(t, service.Config{})

	first := notice.New("welcome", notice.WithTitle("first"))
	second := notice.New("welcome", notice.WithTitle("second"))
	require.True(t, svc.Register(first))
	require.True(t, svc.Register(second))

	got, ok := svc.Notice("welcome")
	require.True(t, ok)
	require.Same(t, second, got)
	require.Equal(t, 1, svc.Registry().Len())
}

func TestService_DismissRoundTripUserScope(t *testing.T) {
	ctx := context.Background()
	svc, nonces := newService(t, service.Config{})
	welcome := notice.New("welcome", notice.WithMessage("Hello"))
	svc.Register(welcome)

	actor := types.ActorRef{ID: uuid.New()}
	req := dismissRequest(t, nonces, actor, "welcome")

	result := svc.HandleDismissRequest(ctx, req)
	require.Equal(t, service.OutcomeDismissed, result.Outcome)
	require.True(t, result.OK())
	require.True(t, result.Handled())
	require.Equal(t, types.DismissUser, result.Scope)

	require.Contains(t, svc.DismissedNotices(ctx, types.DismissUser, actor.ID), "welcome")
	require.Empty(t, svc.DismissedNotices(ctx, types.DismissGlobal, uuid.Nil))

	env := types.NoticeEnv{Request: types.Request{Actor: actor}, Dismissals: svc.Dismissals()}
	require.False(t, welcome.ShouldDisplay(ctx, env))

	var buf bytes.Buffer
	require.Zero(t, svc.RenderAll(ctx, &buf, types.Request{Actor: actor, URL: mustURL(t, "/wp-admin/")}))
	require.Zero(t, buf.Len())
}

func TestService_InvalidTokenLeavesSetUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, nonces := newService(t, service.Config{})
	svc.Register(notice.New("welcome"))
	actor := types.ActorRef{ID: uuid.New()}

	cases := map[string]types.Request{
		"missing token": {Actor: actor, URL: mustURL(t, "/wp-admin/?aeg-notice-manager-dismiss=welcome")},
		"garbage token": {Actor: actor, URL: mustURL(t, "/wp-admin/?aeg-notice-manager-dismiss=welcome&_nonce=nope")},
		"other user":    dismissRequest(t, nonces, types.ActorRef{ID: uuid.New()}, "welcome"),
	}
	for name, req := range cases {
		req.Actor = actor
		result := svc.HandleDismissRequest(ctx, req)
		require.Equal(t, service.OutcomeInvalidToken, result.Outcome, name)
		require.False(t, result.Handled(), name)
		require.False(t, result.OK(), name)
	}
	require.Empty(t, svc.DismissedNotices(ctx, types.DismissUser, actor.ID))
}

func TestService_UnknownNoticeLeavesSetUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, nonces := newService(t, service.Config{})
	svc.Register(notice.New("welcome"))
	actor := types.ActorRef{ID: uuid.New()}

	result := svc.HandleDismissRequest(ctx, dismissRequest(t, nonces, actor, "missing"))
	require.Equal(t, service.OutcomeUnknownNotice, result.Outcome)
	require.False(t, result.Handled())
	require.Empty(t, svc.DismissedNotices(ctx, types.DismissUser, actor.ID))

	result = svc.HandleDismissRequest(ctx, dismissRequest(t, nonces, actor, ""))
	require.Equal(t, service.OutcomeUnknownNotice, result.Outcome)
}

func TestService_NoRequest(t *testing.T) {
	svc, _ := newService(t, service.Config{})
	result := svc.HandleDismissRequest(context.Background(), types.Request{URL: mustURL(t, "/wp-admin/?page=x")})
	require.Equal(t, service.OutcomeNoRequest, result.Outcome)
	require.False(t, result.Handled())

	result = svc.HandleDismissRequest(context.Background(), types.Request{})
	require.Equal(t, service.OutcomeNoRequest, result.Outcome)
}

func TestService_GlobalDismissForbidden(t *testing.T) {
	ctx := context.Background()
	svc, nonces := newService(t, service.Config{AuthorizationPolicy: types.AdminGlobalPolicy()})
	svc.Register(notice.New("maintenance", notice.WithScope(types.DismissGlobal)))

	editor := types.ActorRef{ID: uuid.New(), Type: "editor"}
	result := svc.HandleDismissRequest(ctx, dismissRequest(t, nonces, editor, "maintenance"))
	require.Equal(t, service.OutcomeForbidden, result.Outcome)
	require.Empty(t, svc.DismissedNotices(ctx, types.DismissGlobal, uuid.Nil))

	admin := types.ActorRef{ID: uuid.New(), Type: types.ActorRoleSystemAdmin}
	result = svc.HandleDismissRequest(ctx, dismissRequest(t, nonces, admin, "maintenance"))
	require.True(t, result.OK())
	require.Equal(t, types.DismissGlobal, result.Scope)
	require.Equal(t, []string{"maintenance"}, svc.DismissedNotices(ctx, types.DismissGlobal, uuid.New()))
}

func TestService_PersistenceFailureIsReported(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	svc, nonces := newService(t, service.Config{Store: &failingStore{MemoryStore: options.NewMemoryStore(), err: boom}})
	svc.Register(notice.New("welcome"))

	result := svc.HandleDismissRequest(ctx, dismissRequest(t, nonces, types.ActorRef{ID: uuid.New()}, "welcome"))
	require.Equal(t, service.OutcomeDismissed, result.Outcome)
	require.True(t, result.Handled())
	require.False(t, result.OK())
	require.ErrorIs(t, result.Err, boom)
}

func TestService_RenderOrdersByPriority(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, service.Config{})
	svc.Register(notice.New("five", notice.WithMessage("five")), registry.WithPriority(5))
	svc.Register(notice.New("ten", notice.WithMessage("ten")))
	svc.Register(notice.New("one", notice.WithMessage("one")), registry.WithPriority(1))
	svc.Register(notice.New("ten-b", notice.WithMessage("ten-b")), registry.WithPriority(10))

	var buf bytes.Buffer
	written := svc.RenderAll(ctx, &buf, types.Request{Actor: types.ActorRef{ID: uuid.New()}, URL: mustURL(t, "/wp-admin/")})
	require.Equal(t, 4, written)

	out := buf.String()
	positions := []int{
		strings.Index(out, `id="aeg-notice-one"`),
		strings.Index(out, `id="aeg-notice-five"`),
		strings.Index(out, `id="aeg-notice-ten"`),
		strings.Index(out, `id="aeg-notice-ten-b"`),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "notice %d missing", i)
		if i > 0 {
			require.Greater(t, pos, positions[i-1])
		}
	}
}

func TestService_RenderedLinkDismisses(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, service.Config{})
	svc.Register(notice.New("welcome", notice.WithMessage("Hello")), registry.WithTemplate("compact"))
	actor := types.ActorRef{ID: uuid.New()}

	var buf bytes.Buffer
	require.Equal(t, 1, svc.RenderAll(ctx, &buf, types.Request{Actor: actor, URL: mustURL(t, "https://example.com/wp-admin/?page=x")}))

	href := extractHref(t, buf.String())
	link, err := url.Parse(href)
	require.NoError(t, err)

	result := svc.HandleDismissRequest(ctx, types.Request{Actor: actor, URL: link})
	require.True(t, result.OK())
	require.Equal(t, "welcome", result.NoticeID)
}

func TestService_MetricsAndActivity(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())
	sink := activity.NewMemorySink(10)
	var hooked []string
	svc, nonces := newService(t, service.Config{
		Metrics:      m,
		ActivitySink: sink,
		Hooks: types.Hooks{AfterDismiss: func(_ context.Context, e types.DismissEvent) {
			hooked = append(hooked, e.NoticeID)
		}},
	})
	svc.Register(notice.New("welcome"))
	actor := types.ActorRef{ID: uuid.New()}

	svc.HandleDismissRequest(ctx, dismissRequest(t, nonces, actor, "welcome"))
	svc.HandleDismissRequest(ctx, types.Request{Actor: actor, URL: mustURL(t, "/wp-admin/?aeg-notice-manager-dismiss=welcome")})
	svc.HandleDismissRequest(ctx, types.Request{Actor: actor})

	require.Equal(t, float64(1), testutil.ToFloat64(m.DismissRequests.WithLabelValues(string(service.OutcomeDismissed))))
	require.Equal(t, float64(1), testutil.ToFloat64(m.DismissRequests.WithLabelValues(string(service.OutcomeInvalidToken))))
	require.Equal(t, float64(1), testutil.ToFloat64(m.DismissRequests.WithLabelValues(string(service.OutcomeNoRequest))))

	records := sink.Records()
	require.Len(t, records, 1)
	require.Equal(t, "notice.dismissed", records[0].Verb)
	require.Equal(t, []string{"welcome"}, hooked)
}

func TestService_FeatureGateDisablesRender(t *testing.T) {
	gate := &stubFeatureGate{}
	svc, _ := newService(t, service.Config{FeatureGate: gate})
	svc.Register(notice.New("welcome"))

	var buf bytes.Buffer
	require.Zero(t, svc.RenderAll(context.Background(), &buf, types.Request{Actor: types.ActorRef{ID: uuid.New()}}))
	require.Equal(t, []string{service.FeatureNoticesRender}, gate.keys)

	gate.enabled = true
	require.Equal(t, 1, svc.RenderAll(context.Background(), &buf, types.Request{Actor: types.ActorRef{ID: uuid.New()}}))
}

func TestService_CommandsAndQueries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, service.Config{})
	svc.Register(notice.New("welcome"))
	svc.Register(notice.New("maintenance", notice.WithScope(types.DismissGlobal)))
	actor := types.ActorRef{ID: uuid.New()}

	require.NoError(t, svc.Commands().DismissNotice.Execute(ctx, command.DismissNoticeInput{
		NoticeID: "welcome",
		Request:  types.Request{Actor: actor},
	}))
	require.NoError(t, svc.Commands().DismissNotice.Execute(ctx, command.DismissNoticeInput{
		NoticeID: "maintenance",
		Request:  types.Request{Actor: actor},
	}))

	snapshot, err := svc.Queries().DismissalSnapshot.Query(ctx, query.DismissalSnapshotInput{Actor: actor})
	require.NoError(t, err)
	require.Equal(t, []string{"maintenance", "welcome"}, snapshot.IDs())
	require.Equal(t, types.DismissGlobal, snapshot.Effective["maintenance"])

	require.NoError(t, svc.Commands().RestoreNotice.Execute(ctx, command.RestoreNoticeInput{NoticeID: "welcome", Actor: actor}))
	dismissed, err := svc.Queries().DismissedNotices.Query(ctx, query.DismissedNoticesInput{Actor: actor})
	require.NoError(t, err)
	require.Empty(t, dismissed.IDs)
}

func TestService_HealthCheck(t *testing.T) {
	require.ErrorIs(t, service.New(service.Config{}).HealthCheck(context.Background()), types.ErrMissingOptionStore)
	require.ErrorIs(t, service.New(service.Config{Store: options.NewMemoryStore()}).HealthCheck(context.Background()), types.ErrMissingNonceManager)

	svc, _ := newService(t, service.Config{})
	require.True(t, svc.Ready())
	require.NoError(t, svc.HealthCheck(context.Background()))
}

func TestService_WithoutDependenciesDegrades(t *testing.T) {
	svc := service.New(service.Config{})
	svc.Register(notice.New("welcome"))

	var buf bytes.Buffer
	require.Zero(t, svc.RenderAll(context.Background(), &buf, types.Request{}))
	require.Empty(t, svc.DismissedNotices(context.Background(), types.DismissGlobal, uuid.Nil))

	result := svc.HandleDismissRequest(context.Background(), types.Request{URL: mustURL(t, "/?aeg-notice-manager-dismiss=welcome&_nonce=x")})
	require.Equal(t, service.OutcomeInvalidToken, result.Outcome)
}

func newService(t *testing.T, cfg service.Config) (*service.Service, *tokens.Manager) {
	t.Helper()
	nonces, err := tokens.NewManager([]byte("test-signing-key"))
	require.NoError(t, err)
	if cfg.Store == nil {
		cfg.Store = options.NewMemoryStore()
	}
	cfg.Nonces = nonces
	return service.New(cfg), nonces
}

func dismissRequest(t *testing.T, nonces *tokens.Manager, actor types.ActorRef, noticeID string) types.Request {
	t.Helper()
	token, err := nonces.Create(types.DismissNonceAction(actor.ID))
	require.NoError(t, err)
	values := url.Values{}
	values.Set(types.DismissQueryArg, noticeID)
	values.Set(types.NonceQueryArg, token)
	return types.Request{
		Actor: actor,
		URL:   &url.URL{Path: "/wp-admin/index.php", RawQuery: values.Encode()},
	}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func extractHref(t *testing.T, markup string) string {
	t.Helper()
	const marker = `href="`
	start := strings.Index(markup, marker)
	require.GreaterOrEqual(t, start, 0)
	rest := markup[start+len(marker):]
	end := strings.Index(rest, `"`)
	require.Greater(t, end, 0)
	return strings.ReplaceAll(rest[:end], "&amp;", "&")
}

type failingStore struct {
	*options.MemoryStore
	err error
}

func (f *failingStore) SetOption(context.Context, types.StoreKey, string, any) error {
	return f.err
}

type stubFeatureGate struct {
	enabled bool
	keys    []string
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, _ ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	return s.enabled, nil
}
