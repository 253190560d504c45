package options

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the notice_options row. Global options carry a nil user id.
type Record struct {
	bun.BaseModel `bun:"table:notice_options"`

	ID         uuid.UUID      `bun:"id,pk,type:uuid"`
	ScopeLevel string         `bun:"scope_level"`
	UserID     uuid.UUID      `bun:"user_id,type:uuid"`
	Name       string         `bun:"name"`
	Value      map[string]any `bun:"value,type:jsonb"`
	Version    int            `bun:"version"`
	CreatedAt  time.Time      `bun:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at"`
}

// valueKey wraps the raw option value so any JSON shape fits the jsonb column.
const valueKey = "value"
