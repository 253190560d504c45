// Package nethttp plugs go-notices into net/http admin pages: a middleware
// that applies dismiss requests and a helper that renders the notices.
package nethttp

import (
	"io"
	"net/http"
	"net/url"

	"github.com/goliatone/go-notices/pkg/authctx"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/service"
)

// ActorResolver extracts the acting user from a request.
type ActorResolver func(r *http.Request) (types.ActorRef, error)

// ScreenResolver names the admin screen a request renders.
type ScreenResolver func(r *http.Request) string

// Handler binds a service to http requests.
type Handler struct {
	svc      *service.Service
	actor    ActorResolver
	screen   ScreenResolver
	redirect bool
	logger   types.Logger
}

// Option customizes the handler.
type Option func(*Handler)

// WithActorResolver overrides the go-auth based actor lookup.
func WithActorResolver(resolver ActorResolver) Option {
	return func(h *Handler) {
		if resolver != nil {
			h.actor = resolver
		}
	}
}

// WithScreenResolver sets how the screen name is read. Defaults to the
// "page" query parameter.
func WithScreenResolver(resolver ScreenResolver) Option {
	return func(h *Handler) {
		if resolver != nil {
			h.screen = resolver
		}
	}
}

// WithRedirect makes the middleware answer a handled dismiss request with a
// 303 to the same URL minus the dismiss parameters.
func WithRedirect(enabled bool) Option {
	return func(h *Handler) {
		h.redirect = enabled
	}
}

// WithLogger sets the logger used to report actor resolution failures.
func WithLogger(logger types.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New builds a handler for svc.
func New(svc *service.Service, opts ...Option) *Handler {
	h := &Handler{
		svc: svc,
		actor: func(r *http.Request) (types.ActorRef, error) {
			return authctx.ResolveActor(r.Context())
		},
		screen: func(r *http.Request) string {
			return r.URL.Query().Get("page")
		},
		logger: types.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Request converts r into a notice request. Requests without a resolvable
// actor are treated as anonymous.
func (h *Handler) Request(r *http.Request) types.Request {
	actor, err := h.actor(r)
	if err != nil {
		h.logger.Debug("notice request without actor", "error", err.Error(), "path", r.URL.Path)
		actor = types.ActorRef{}
	}
	return types.Request{
		Actor:  actor,
		URL:    r.URL,
		Screen: h.screen(r),
	}
}

// Middleware applies dismiss requests before the admin page renders.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := h.svc.HandleDismissRequest(r.Context(), h.Request(r))
		if h.redirect && result.Handled() {
			http.Redirect(w, r, CleanURL(r.URL), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Render writes the visible notices for r and returns how many were written.
func (h *Handler) Render(w io.Writer, r *http.Request) int {
	return h.svc.RenderAll(r.Context(), w, h.Request(r))
}

// CleanURL returns u without the dismiss and nonce parameters.
func CleanURL(u *url.URL) string {
	if u == nil {
		return "/"
	}
	clean := *u
	values := clean.Query()
	values.Del(types.DismissQueryArg)
	values.Del(types.NonceQueryArg)
	clean.RawQuery = values.Encode()
	return clean.RequestURI()
}
