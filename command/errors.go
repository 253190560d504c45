package command

import (
	"errors"

	"github.com/goliatone/go-notices/pkg/types"
)

var (
	// ErrNoticeIDRequired indicates the command omitted the notice id.
	ErrNoticeIDRequired = errors.New("go-notices: notice id required")
	// ErrNoticeNotFound indicates the notice id is not registered.
	ErrNoticeNotFound = errors.New("go-notices: notice not registered")
	// ErrScopeRequired indicates a restore for an unregistered notice omitted the scope.
	ErrScopeRequired = errors.New("go-notices: dismiss scope required")
	// ErrUserIDRequired occurs when a user scoped command has no user.
	ErrUserIDRequired = types.ErrUserIDRequired
)
