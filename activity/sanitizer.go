package activity

import (
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-notices/pkg/types"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns a configured masker instance with the default denylist.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeRecord masks sensitive values in the record data payload. Data that
// cannot be masked is dropped rather than passed through.
func SanitizeRecord(mask *masker.Masker, record types.ActivityRecord) types.ActivityRecord {
	if len(record.Data) == 0 {
		return record
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		record.Data = map[string]any{}
		return record
	}

	cloned := cloneStringMap(record.Data)
	masked, err := mask.Mask(cloned)
	if err != nil {
		record.Data = map[string]any{}
		return record
	}

	switch masked := masked.(type) {
	case map[string]any:
		record.Data = masked
	default:
		record.Data = map[string]any{}
	}
	return record
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	for _, field := range []string{"Secret", "secret", "Nonce", "nonce", "_nonce"} {
		mask.RegisterMaskField(field, "filled4")
	}
}

func cloneStringMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
