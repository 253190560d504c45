package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-notices/pkg/types"
	"github.com/goliatone/go-notices/registry"
)

// Context carries everything needed to render one registry entry.
type Context struct {
	Entry    registry.Entry
	Priority int
	Template string
	Env      types.NoticeEnv
}

// View is the data handed to layout templates.
type View struct {
	ID         string
	Title      string
	Body       template.HTML
	Level      types.NoticeLevel
	DismissURL string
	Priority   int
}

// Renderer writes notice markup using named layouts.
type Renderer struct {
	nonces  types.NonceManager
	layouts map[string]*template.Template
	logger  types.Logger
}

// Option customizes the renderer.
type Option func(*Renderer)

// WithTemplate registers a custom layout under name. Registering a built-in
// name replaces it.
func WithTemplate(name string, tmpl *template.Template) Option {
	return func(r *Renderer) {
		name = strings.TrimSpace(name)
		if name == "" || tmpl == nil {
			return
		}
		r.layouts[name] = tmpl
	}
}

// WithLogger sets the logger used to report render failures.
func WithLogger(logger types.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a renderer that signs dismiss links with nonces.
func New(nonces types.NonceManager, opts ...Option) (*Renderer, error) {
	if nonces == nil {
		return nil, types.ErrMissingNonceManager
	}
	r := &Renderer{
		nonces:  nonces,
		layouts: builtinLayouts(),
		logger:  types.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Layouts lists the registered layout names.
func (r *Renderer) Layouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	return names
}

// Render writes the notice if it should display and reports whether
// anything was written. Failures are logged and produce no output.
func (r *Renderer) Render(ctx context.Context, w io.Writer, rc Context) (written bool) {
	notice := rc.Entry.Notice
	if notice == nil {
		return false
	}
	id := notice.ID()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("notice render panicked", fmt.Errorf("panic: %v", rec), "notice_id", id)
			written = false
		}
	}()

	if !notice.ShouldDisplay(ctx, rc.Env) {
		return false
	}
	content, err := notice.Content(ctx, rc.Env)
	if err != nil {
		r.logger.Error("notice content failed", err, "notice_id", id)
		return false
	}
	nonce, err := r.nonces.Create(types.DismissNonceAction(rc.Env.Actor.ID))
	if err != nil {
		r.logger.Error("notice nonce failed", err, "notice_id", id)
		return false
	}

	view := View{
		ID:         id,
		Title:      content.Title,
		Body:       content.Body,
		Level:      levelOrDefault(content.Level),
		DismissURL: DismissURL(rc.Env.URL, id, nonce),
		Priority:   rc.Priority,
	}
	var buf bytes.Buffer
	if err := r.layout(rc.Template, id).Execute(&buf, view); err != nil {
		r.logger.Error("notice template failed", err, "notice_id", id, "template", rc.Template)
		return false
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("notice write failed", err, "notice_id", id)
		return false
	}
	return true
}

func (r *Renderer) layout(name, noticeID string) *template.Template {
	name = strings.TrimSpace(name)
	if name == "" {
		return r.layouts[LayoutStandard]
	}
	if tmpl, ok := r.layouts[name]; ok {
		return tmpl
	}
	r.logger.Debug("unknown notice template, using standard", "notice_id", noticeID, "template", name)
	return r.layouts[LayoutStandard]
}

// DismissURL returns current with the dismiss and nonce query parameters
// set, replacing any existing values.
func DismissURL(current *url.URL, noticeID, nonce string) string {
	var u url.URL
	if current != nil {
		u = *current
	}
	u.Fragment = ""
	query := u.Query()
	query.Set(types.DismissQueryArg, noticeID)
	query.Set(types.NonceQueryArg, nonce)
	u.RawQuery = query.Encode()
	return u.String()
}

func levelOrDefault(level types.NoticeLevel) types.NoticeLevel {
	switch level {
	case types.NoticeLevelSuccess, types.NoticeLevelWarning, types.NoticeLevelError:
		return level
	default:
		return types.NoticeLevelInfo
	}
}
