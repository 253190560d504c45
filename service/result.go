package service

import "github.com/goliatone/go-notices/pkg/types"

// DismissOutcome is the terminal state of a dismiss request.
type DismissOutcome string

const (
	// OutcomeNoRequest means the request carried no dismiss parameter.
	OutcomeNoRequest DismissOutcome = "no_request"
	// OutcomeInvalidToken means the nonce was missing or failed verification.
	OutcomeInvalidToken DismissOutcome = "invalid_token"
	// OutcomeUnknownNotice means the id is not registered.
	OutcomeUnknownNotice DismissOutcome = "unknown_notice"
	// OutcomeForbidden means the authorization policy rejected the dismissal.
	OutcomeForbidden DismissOutcome = "forbidden"
	// OutcomeDismissed means the dismissal was attempted. Err reports a
	// failed write.
	OutcomeDismissed DismissOutcome = "dismissed"
)

// DismissResult reports how a dismiss request was handled.
type DismissResult struct {
	Outcome  DismissOutcome
	NoticeID string
	Scope    types.DismissScope
	Err      error
}

// Handled reports whether the request reached the notice's dismiss operation.
func (r DismissResult) Handled() bool {
	return r.Outcome == OutcomeDismissed
}

// OK reports whether the dismissal was persisted.
func (r DismissResult) OK() bool {
	return r.Outcome == OutcomeDismissed && r.Err == nil
}
