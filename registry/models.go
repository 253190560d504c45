package registry

import "github.com/goliatone/go-notices/pkg/types"

// Entry is a registered notice plus its render metadata.
type Entry struct {
	ID       string
	Notice   types.Notice
	Priority int
	Template string
	Seq      uint64
}

// Option customizes an entry at registration time.
type Option func(*Entry)

// WithPriority sets the render priority. Lower values render first.
func WithPriority(priority int) Option {
	return func(e *Entry) {
		if e == nil {
			return
		}
		e.Priority = priority
	}
}

// WithTemplate selects the layout used to render the notice.
func WithTemplate(name string) Option {
	return func(e *Entry) {
		if e == nil {
			return
		}
		e.Template = name
	}
}
