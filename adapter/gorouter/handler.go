// Package gorouter exposes the dismiss listener as a go-router handler for
// hosts that dismiss notices over XHR instead of a full page load.
package gorouter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-router"
	"github.com/goliatone/go-notices/pkg/authctx"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/service"
)

// ScreenQueryArg names the query parameter carrying the admin screen.
const ScreenQueryArg = "page"

// DismissResponse is the JSON body returned by DismissHandler.
type DismissResponse struct {
	Outcome  string `json:"outcome"`
	NoticeID string `json:"notice_id,omitempty"`
	Scope    string `json:"scope,omitempty"`
	OK       bool   `json:"ok"`
}

// ActorResolver extracts the acting user from a router context.
type ActorResolver func(ctx router.Context) (types.ActorRef, error)

// Option customizes DismissHandler.
type Option func(*handlerConfig)

type handlerConfig struct {
	actor ActorResolver
}

// WithActorResolver overrides the go-auth based actor lookup.
func WithActorResolver(resolver ActorResolver) Option {
	return func(cfg *handlerConfig) {
		if resolver != nil {
			cfg.actor = resolver
		}
	}
}

// DismissHandler applies the dismiss request carried by the query string
// and reports the outcome as JSON. Requests without a resolvable actor get
// a 401.
func DismissHandler(svc *service.Service, opts ...Option) router.HandlerFunc {
	cfg := handlerConfig{actor: authctx.ResolveActorFromRouter}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return func(ctx router.Context) error {
		actor, err := cfg.actor(ctx)
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, DismissResponse{Outcome: "unauthorized"})
		}
		status, body := Dismiss(ctx.Context(), svc, actor, queryValues(ctx.Queries()))
		return ctx.JSON(status, body)
	}
}

// Dismiss runs the dismiss listener for actor against the raw query values
// and returns the HTTP status and body to answer with.
func Dismiss(ctx context.Context, svc *service.Service, actor types.ActorRef, values url.Values) (int, DismissResponse) {
	result := svc.HandleDismissRequest(ctx, types.Request{
		Actor:  actor,
		URL:    &url.URL{RawQuery: values.Encode()},
		Screen: values.Get(ScreenQueryArg),
	})
	return StatusFor(result), DismissResponse{
		Outcome:  string(result.Outcome),
		NoticeID: result.NoticeID,
		Scope:    string(result.Scope),
		OK:       result.OK(),
	}
}

// StatusFor maps a dismiss result to an HTTP status code.
func StatusFor(result service.DismissResult) int {
	switch result.Outcome {
	case service.OutcomeNoRequest:
		return http.StatusBadRequest
	case service.OutcomeInvalidToken:
		return http.StatusForbidden
	case service.OutcomeForbidden:
		return http.StatusForbidden
	case service.OutcomeUnknownNotice:
		return http.StatusNotFound
	case service.OutcomeDismissed:
		if result.Err != nil {
			return http.StatusInternalServerError
		}
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func queryValues(queries map[string]string) url.Values {
	values := make(url.Values, len(queries))
	for key, value := range queries {
		values.Set(key, value)
	}
	return values
}
