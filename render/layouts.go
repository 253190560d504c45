package render

import "html/template"

const (
	// LayoutStandard is the default boxed notice with title, body and dismiss link.
	LayoutStandard = "standard"
	// LayoutInline renders the title and body on a single line.
	LayoutInline = "inline"
	// LayoutCompact renders only the body and a dismiss control.
	LayoutCompact = "compact"
)

const standardLayout = `<div class="notice notice-{{.Level}} is-dismissible aeg-notice" id="aeg-notice-{{.ID}}" data-notice-id="{{.ID}}">` +
	`{{if .Title}}<p class="aeg-notice-title"><strong>{{.Title}}</strong></p>{{end}}` +
	`<div class="aeg-notice-body">{{.Body}}</div>` +
	`<p class="aeg-notice-actions"><a class="aeg-notice-dismiss" href="{{.DismissURL}}">Dismiss</a></p>` +
	`</div>`

const inlineLayout = `<div class="notice notice-{{.Level}} aeg-notice aeg-notice-inline" data-notice-id="{{.ID}}">` +
	`<p>{{if .Title}}<strong>{{.Title}}</strong> {{end}}{{.Body}} <a class="aeg-notice-dismiss" href="{{.DismissURL}}">Dismiss</a></p>` +
	`</div>`

const compactLayout = `<div class="notice notice-{{.Level}} aeg-notice aeg-notice-compact" data-notice-id="{{.ID}}">` +
	`{{.Body}}<a class="aeg-notice-dismiss" href="{{.DismissURL}}" aria-label="Dismiss">&times;</a>` +
	`</div>`

func builtinLayouts() map[string]*template.Template {
	return map[string]*template.Template{
		LayoutStandard: template.Must(template.New(LayoutStandard).Parse(standardLayout)),
		LayoutInline:   template.Must(template.New(LayoutInline).Parse(inlineLayout)),
		LayoutCompact:  template.Must(template.New(LayoutCompact).Parse(compactLayout)),
	}
}
