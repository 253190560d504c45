package activity

import (
	"context"
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-notices/pkg/types"
	"github.com/google/uuid"
)

// Option customizes the sinks in this package.
type Option func(*sinkOptions)

type sinkOptions struct {
	masker *masker.Masker
	clock  types.Clock
	ids    types.IDGenerator
}

// WithMasker overrides DefaultMasker.
func WithMasker(mask *masker.Masker) Option {
	return func(o *sinkOptions) {
		if mask != nil {
			o.masker = mask
		}
	}
}

// WithClock stamps records missing OccurredAt.
func WithClock(clock types.Clock) Option {
	return func(o *sinkOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator assigns ids to records missing one.
func WithIDGenerator(ids types.IDGenerator) Option {
	return func(o *sinkOptions) {
		if ids != nil {
			o.ids = ids
		}
	}
}

func buildOptions(opts []Option) sinkOptions {
	cfg := sinkOptions{
		clock: types.SystemClock{},
		ids:   types.UUIDGenerator{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.masker == nil {
		cfg.masker = DefaultMasker()
	}
	return cfg
}

func (o sinkOptions) prepare(record types.ActivityRecord) types.ActivityRecord {
	if record.ID == uuid.Nil {
		record.ID = o.ids.UUID()
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = o.clock.Now()
	}
	return SanitizeRecord(o.masker, record)
}

// SanitizingSink masks records before forwarding them to another sink.
type SanitizingSink struct {
	next types.ActivitySink
	opts sinkOptions
}

// NewSanitizingSink wraps next. A nil next discards records.
func NewSanitizingSink(next types.ActivitySink, opts ...Option) *SanitizingSink {
	return &SanitizingSink{next: next, opts: buildOptions(opts)}
}

var _ types.ActivitySink = (*SanitizingSink)(nil)

// Log implements types.ActivitySink.
func (s *SanitizingSink) Log(ctx context.Context, record types.ActivityRecord) error {
	if s.next == nil {
		return nil
	}
	return s.next.Log(ctx, s.opts.prepare(record))
}

// LoggerSink writes records as structured log lines.
type LoggerSink struct {
	logger types.Logger
	opts   sinkOptions
}

// NewLoggerSink logs through logger.
func NewLoggerSink(logger types.Logger, opts ...Option) *LoggerSink {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &LoggerSink{logger: logger, opts: buildOptions(opts)}
}

var _ types.ActivitySink = (*LoggerSink)(nil)

// Log implements types.ActivitySink.
func (s *LoggerSink) Log(_ context.Context, record types.ActivityRecord) error {
	record = s.opts.prepare(record)
	s.logger.Info("notice activity",
		"id", record.ID.String(),
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"channel", record.Channel,
		"actor_id", record.ActorID.String(),
		"user_id", record.UserID.String(),
		"occurred_at", record.OccurredAt,
		"data", record.Data,
	)
	return nil
}

// MemorySink keeps the most recent records in memory.
type MemorySink struct {
	mu      sync.RWMutex
	limit   int
	records []types.ActivityRecord
	opts    sinkOptions
}

// DefaultMemoryLimit caps MemorySink when no limit is given.
const DefaultMemoryLimit = 500

// NewMemorySink keeps at most limit records, dropping the oldest first.
func NewMemorySink(limit int, opts ...Option) *MemorySink {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemorySink{limit: limit, opts: buildOptions(opts)}
}

var _ types.ActivitySink = (*MemorySink)(nil)

// Log implements types.ActivitySink.
func (s *MemorySink) Log(_ context.Context, record types.ActivityRecord) error {
	record = s.opts.prepare(record)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	if overflow := len(s.records) - s.limit; overflow > 0 {
		s.records = append([]types.ActivityRecord(nil), s.records[overflow:]...)
	}
	return nil
}

// Records returns a copy of the stored records, oldest first.
func (s *MemorySink) Records() []types.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.ActivityRecord(nil), s.records...)
}
