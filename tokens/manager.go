package tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL bounds how long a rendered dismiss link stays valid.
const DefaultTTL = 24 * time.Hour

const issuer = "go-notices"

var (
	// ErrSigningKeyRequired indicates the manager was built without a key.
	ErrSigningKeyRequired = errors.New("go-notices: nonce signing key required")
	// ErrTokenRequired indicates an empty nonce.
	ErrTokenRequired = errors.New("go-notices: nonce required")
	// ErrTokenInvalid indicates a nonce that failed signature or format checks.
	ErrTokenInvalid = errors.New("go-notices: nonce invalid")
	// ErrTokenExpired indicates a nonce past its expiry.
	ErrTokenExpired = errors.New("go-notices: nonce expired")
	// ErrActionRequired indicates a nonce requested without an action.
	ErrActionRequired = errors.New("go-notices: nonce action required")
	// ErrActionMismatch indicates a nonce issued for a different action.
	ErrActionMismatch = errors.New("go-notices: nonce action mismatch")
)

// nonceClaims binds a nonce to an action.
type nonceClaims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// Manager implements types.NonceManager with signed JWTs.
type Manager struct {
	signingKey []byte
	ttl        time.Duration
	clock      types.Clock
}

// Option customizes the manager.
type Option func(*Manager)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the clock used to stamp and validate nonces.
func WithClock(clock types.Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewManager constructs a nonce manager signing with key.
func NewManager(key []byte, opts ...Option) (*Manager, error) {
	if len(key) == 0 {
		return nil, ErrSigningKeyRequired
	}
	m := &Manager{
		signingKey: append([]byte(nil), key...),
		ttl:        DefaultTTL,
		clock:      types.SystemClock{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

var _ types.NonceManager = (*Manager)(nil)

// Create issues a nonce for action.
func (m *Manager) Create(action string) (string, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return "", ErrActionRequired
	}
	now := m.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, nonceClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(m.signingKey)
}

// Verify checks the nonce signature, expiry and action.
func (m *Manager) Verify(token, action string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	claims := new(nonceClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenInvalid
		}
		return m.signingKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	if claims.Action != strings.TrimSpace(action) {
		return ErrActionMismatch
	}
	return nil
}
