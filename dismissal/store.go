package dismissal

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
)

// Store implements types.Dismissals on top of a host option store.
type Store struct {
	options types.OptionStore
	logger  types.Logger
}

// StoreOption customizes the dismissal store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report unreadable dismissal sets.
func WithLogger(logger types.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wraps the option store.
func NewStore(options types.OptionStore, opts ...StoreOption) (*Store, error) {
	if options == nil {
		return nil, types.ErrMissingOptionStore
	}
	store := &Store{
		options: options,
		logger:  types.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

var _ types.Dismissals = (*Store)(nil)

// Dismissed returns the dismissed ids for the scope. Read failures and
// malformed values are logged and reported as an empty set. Anonymous user
// scoped reads have no set to read and come back empty.
func (s *Store) Dismissed(ctx context.Context, scope types.DismissScope, userID uuid.UUID) []string {
	ids, err := s.load(ctx, scope, userID)
	if errors.Is(err, types.ErrUserIDRequired) {
		s.logger.Debug("dismissal set skipped for anonymous user", "scope", scope)
		return []string{}
	}
	if err != nil {
		s.logger.Error("dismissal set unreadable", err, "scope", scope, "user_id", userID.String())
		return []string{}
	}
	return ids
}

// IsDismissed reports whether noticeID is in the scope's set.
func (s *Store) IsDismissed(ctx context.Context, scope types.DismissScope, userID uuid.UUID, noticeID string) bool {
	return Contains(s.Dismissed(ctx, scope, userID), strings.TrimSpace(noticeID))
}

// Dismiss appends noticeID to the scope's set and persists it. Dismissing an
// id that is already present does not write.
func (s *Store) Dismiss(ctx context.Context, scope types.DismissScope, userID uuid.UUID, noticeID string) error {
	noticeID = strings.TrimSpace(noticeID)
	if noticeID == "" {
		return ErrNoticeIDRequired
	}
	key, err := types.KeyFor(scope, userID)
	if err != nil {
		return err
	}
	ids, err := s.read(ctx, key)
	if err != nil {
		return err
	}
	if Contains(ids, noticeID) {
		return nil
	}
	return s.options.SetOption(ctx, key, types.DismissedNoticesOption, append(ids, noticeID))
}

// Restore removes noticeID from the scope's set. The option is deleted once
// the set is empty.
func (s *Store) Restore(ctx context.Context, scope types.DismissScope, userID uuid.UUID, noticeID string) error {
	noticeID = strings.TrimSpace(noticeID)
	if noticeID == "" {
		return ErrNoticeIDRequired
	}
	key, err := types.KeyFor(scope, userID)
	if err != nil {
		return err
	}
	ids, err := s.read(ctx, key)
	if err != nil {
		return err
	}
	if !Contains(ids, noticeID) {
		return nil
	}
	remaining := without(ids, noticeID)
	if len(remaining) == 0 {
		return s.options.DeleteOption(ctx, key, types.DismissedNoticesOption)
	}
	return s.options.SetOption(ctx, key, types.DismissedNoticesOption, remaining)
}

func (s *Store) load(ctx context.Context, scope types.DismissScope, userID uuid.UUID) ([]string, error) {
	key, err := types.KeyFor(scope, userID)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, key)
}

func (s *Store) read(ctx context.Context, key types.StoreKey) ([]string, error) {
	raw, err := s.options.GetOption(ctx, key, types.DismissedNoticesOption)
	if err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}
