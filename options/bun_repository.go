package options

import (
	"context"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires dependencies for the Bun-backed option store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Record]
	Clock      types.Clock
}

type optionStore interface {
	repository.Repository[*Record]
}

// Repository implements types.OptionStore on top of go-repository-bun.
type Repository struct {
	optionStore
	clock types.Clock
}

// NewRepository constructs the default option repository.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("options: db or repository required")
	}
	opts := applyRepositoryOptions(options)

	repo := cfg.Repository
	if repo == nil {
		repo = newRecordRepository(cfg.DB)
	}
	if opts.CacheEnabled {
		cached, err := withCache(repo, opts)
		if err != nil {
			return nil, err
		}
		repo = cached
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}

	return &Repository{
		optionStore: repo,
		clock:       clock,
	}, nil
}

var (
	_ repository.Repository[*Record] = (*Repository)(nil)
	_ types.OptionStore              = (*Repository)(nil)
)

func newRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.NewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			if rec != nil {
				rec.ID = id
			}
		},
	})
}

func withCache(repo repository.Repository[*Record], opts RepositoryOptions) (repository.Repository[*Record], error) {
	if _, ok := repo.(*repositorycache.CachedRepository[*Record]); ok {
		return repo, nil
	}
	cfg := cache.DefaultConfig()
	if opts.CacheConfig != nil {
		cfg = *opts.CacheConfig
	}
	service, err := cache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return repositorycache.New(repo, service, cache.NewDefaultKeySerializer()), nil
}

// GetOption returns the stored value or nil when the option was never written.
func (r *Repository) GetOption(ctx context.Context, key types.StoreKey, name string) (any, error) {
	existing, err := r.findExisting(ctx, key, name)
	if repository.IsRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return existing.Value[valueKey], nil
}

// SetOption inserts or replaces the option value for the key.
func (r *Repository) SetOption(ctx context.Context, key types.StoreKey, name string, value any) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	now := r.clock.Now()
	payload := &Record{
		ScopeLevel: string(key.Scope),
		UserID:     key.UserID,
		Name:       strings.TrimSpace(name),
		Value:      map[string]any{valueKey: value},
	}

	existing, err := r.findExisting(ctx, key, name)
	switch {
	case err == nil && existing != nil:
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
		payload.Version = existing.Version + 1
		payload.UpdatedAt = now
		_, err := r.Update(ctx, payload)
		return err
	case repository.IsRecordNotFound(err):
		payload.ID = RecordID(key, name)
		payload.Version = 1
		payload.CreatedAt = now
		payload.UpdatedAt = now
		_, err := r.Create(ctx, payload)
		return err
	default:
		return err
	}
}

// DeleteOption removes the option. Deleting a missing option is a no-op.
func (r *Repository) DeleteOption(ctx context.Context, key types.StoreKey, name string) error {
	existing, err := r.findExisting(ctx, key, name)
	if repository.IsRecordNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.Delete(ctx, existing)
}

// optionNamespace seeds the name based record ids.
var optionNamespace = uuid.MustParse("6f1c9a52-4d2e-5b7a-9c11-0e8d3f4a2b60")

// RecordID returns the id of the row holding option name under key. Ids
// are derived from the key and the case folded name, so every lookup is a
// GetByID and cached entries never cross scopes or users.
func RecordID(key types.StoreKey, name string) uuid.UUID {
	return uuid.NewSHA1(optionNamespace, []byte(key.String()+"/"+strings.ToLower(strings.TrimSpace(name))))
}

func (r *Repository) findExisting(ctx context.Context, key types.StoreKey, name string) (*Record, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("options: name required")
	}
	record, err := r.GetByID(ctx, RecordID(key, name).String())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, repository.NewRecordNotFound()
	}
	return record, nil
}

func normalizeKey(key types.StoreKey) (types.StoreKey, error) {
	return types.KeyFor(key.Scope, key.UserID)
}
