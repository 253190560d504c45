package types

import (
	"context"
	"errors"
	"html/template"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// DismissQueryArg is the query parameter carrying the id of the notice to dismiss.
	DismissQueryArg = "aeg-notice-manager-dismiss"
	// NonceQueryArg is the query parameter carrying the anti-forgery token.
	NonceQueryArg = "_nonce"
	// DismissedNoticesOption names the persisted option holding dismissed ids.
	DismissedNoticesOption = "aeg-dismissed-notices"
	// DefaultPriority is the render priority used when none is supplied.
	DefaultPriority = 10
)

// DismissNonceAction returns the action a dismiss nonce is bound to for userID.
func DismissNonceAction(userID uuid.UUID) string {
	return DismissQueryArg + "-" + userID.String()
}

// DismissScope selects which persisted dismissal set a notice reads and writes.
type DismissScope string

const (
	// DismissGlobal shares one dismissal set across every user.
	DismissGlobal DismissScope = "global"
	// DismissUser keeps one dismissal set per user.
	DismissUser DismissScope = "user"
)

// Valid reports whether the scope is one of the known values.
func (s DismissScope) Valid() bool {
	return s == DismissGlobal || s == DismissUser
}

// StoreKey addresses a row in the option store: either the shared global
// bucket or a single user's metadata bucket.
type StoreKey struct {
	Scope  DismissScope
	UserID uuid.UUID
}

// GlobalKey returns the key of the shared option bucket.
func GlobalKey() StoreKey {
	return StoreKey{Scope: DismissGlobal}
}

// UserKey returns the key of the metadata bucket owned by userID.
func UserKey(userID uuid.UUID) StoreKey {
	return StoreKey{Scope: DismissUser, UserID: userID}
}

// KeyFor builds the store key for the scope. User scoped keys require a user id.
func KeyFor(scope DismissScope, userID uuid.UUID) (StoreKey, error) {
	switch scope {
	case DismissGlobal:
		return GlobalKey(), nil
	case DismissUser:
		if userID == uuid.Nil {
			return StoreKey{}, ErrUserIDRequired
		}
		return UserKey(userID), nil
	default:
		return StoreKey{}, ErrUnknownDismissScope
	}
}

// String renders a stable identifier for the key, used for logging and caches.
func (k StoreKey) String() string {
	if k.Scope == DismissUser {
		return string(DismissUser) + "/" + k.UserID.String()
	}
	return string(DismissGlobal)
}

// OptionStore is the host key/value contract used to persist dismissal sets.
// GetOption returns (nil, nil) when the option has never been written.
type OptionStore interface {
	GetOption(ctx context.Context, key StoreKey, name string) (any, error)
	SetOption(ctx context.Context, key StoreKey, name string, value any) error
	DeleteOption(ctx context.Context, key StoreKey, name string) error
}

// Dismissals reads and updates dismissal sets on behalf of notices.
type Dismissals interface {
	Dismissed(ctx context.Context, scope DismissScope, userID uuid.UUID) []string
	IsDismissed(ctx context.Context, scope DismissScope, userID uuid.UUID, noticeID string) bool
	Dismiss(ctx context.Context, scope DismissScope, userID uuid.UUID, noticeID string) error
	Restore(ctx context.Context, scope DismissScope, userID uuid.UUID, noticeID string) error
}

// NoticeLevel maps to the visual style of a rendered notice.
type NoticeLevel string

const (
	NoticeLevelInfo    NoticeLevel = "info"
	NoticeLevelSuccess NoticeLevel = "success"
	NoticeLevelWarning NoticeLevel = "warning"
	NoticeLevelError   NoticeLevel = "error"
)

// Content is the payload a notice hands to the renderer.
type Content struct {
	Title string
	Body  template.HTML
	Level NoticeLevel
}

// Request describes the admin page load a notice is evaluated against.
type Request struct {
	Actor  ActorRef
	URL    *url.URL
	Screen string
}

// Query returns the parsed query string of the request URL.
func (r Request) Query() url.Values {
	if r.URL == nil {
		return url.Values{}
	}
	return r.URL.Query()
}

// NoticeEnv is handed to notices when they decide visibility, produce
// content or dismiss themselves.
type NoticeEnv struct {
	Request
	Dismissals Dismissals
}

// Notice is a dismissible admin banner.
type Notice interface {
	ID() string
	DismissScope() DismissScope
	ShouldDisplay(ctx context.Context, env NoticeEnv) bool
	Content(ctx context.Context, env NoticeEnv) (Content, error)
	Dismiss(ctx context.Context, env NoticeEnv) error
}

// NonceManager issues and verifies per-action anti-forgery tokens.
type NonceManager interface {
	Create(action string) (string, error)
	Verify(token, action string) error
}

// DismissalSnapshot reports the effective dismissed ids for a user plus the
// scope each dismissal came from.
type DismissalSnapshot struct {
	UserID    uuid.UUID
	Effective map[string]DismissScope
	Traces    []DismissalTrace
}

// IDs returns the effective dismissed ids in lexical order.
func (s DismissalSnapshot) IDs() []string {
	out := make([]string, 0, len(s.Effective))
	for id := range s.Effective {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DismissalTrace captures how each scope contributed to a notice id.
type DismissalTrace struct {
	NoticeID string
	Layers   []DismissalTraceLayer
}

// DismissalTraceLayer captures a single scope contribution.
type DismissalTraceLayer struct {
	Scope      DismissScope
	UserID     uuid.UUID
	SnapshotID string
	Found      bool
}

// DismissEvent is emitted after a notice dismissal or restore is persisted.
type DismissEvent struct {
	NoticeID   string
	Scope      DismissScope
	ActorID    uuid.UUID
	Action     string
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterDismiss func(context.Context, DismissEvent)
	AfterRestore func(context.Context, DismissEvent)
}

// ActivityRecord describes sink inputs.
type ActivityRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ActorID    uuid.UUID
	Verb       string
	ObjectType string
	ObjectID   string
	Channel    string
	Data       map[string]any
	OccurredAt time.Time
}

// ActivitySink is the minimal DI contract for emitting activity.
type ActivitySink interface {
	Log(context.Context, ActivityRecord) error
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-notices: user id required")
	// ErrUnknownDismissScope indicates a dismiss scope outside global/user.
	ErrUnknownDismissScope = errors.New("go-notices: unknown dismiss scope")
	// ErrMissingOptionStore occurs when no option store was supplied.
	ErrMissingOptionStore = errors.New("go-notices: missing option store")
	// ErrMissingDismissals occurs when commands run without a dismissal store.
	ErrMissingDismissals = errors.New("go-notices: missing dismissal store")
	// ErrMissingNonceManager occurs when no nonce manager was supplied.
	ErrMissingNonceManager = errors.New("go-notices: missing nonce manager")
	// ErrMissingRegistry occurs when commands run without a notice registry.
	ErrMissingRegistry = errors.New("go-notices: missing notice registry")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-notices: service not ready")
)
