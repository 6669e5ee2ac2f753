// Package template renders the configurable ticket description texts.
package template

import (
	"strings"
	texttemplate "text/template"
)

// Template identifiers known to the renderer.
const (
	DescriptionTemplateID = "description"
	DetailTemplateID      = "detail"
)

// Context holds the values available for templating the ticket attribute
// values. Absent values are empty strings, never an error.
type Context struct {
	Operation      string
	CIName         string
	Identifier     string
	AccountChanges string
}

// templateData is what the parsed templates see. NL is a literal newline so
// templates stored in single-line configuration values can still produce
// multi-line text.
type templateData struct {
	Operation      string
	CIName         string
	Identifier     string
	AccountChanges string
	NL             string
}

// Renderer fills the description and detail templates. Templates are parsed
// once at construction; an ID with no configured template text falls back to
// a static built-in rendering.
type Renderer struct {
	templates map[string]*texttemplate.Template
}

// NewRenderer parses the configured template texts. Empty texts are valid
// and select the static fallback for that ID.
func NewRenderer(descriptionTemplate, detailTemplate string) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*texttemplate.Template)}

	for id, text := range map[string]string{
		DescriptionTemplateID: descriptionTemplate,
		DetailTemplateID:      detailTemplate,
	} {
		if text == "" {
			continue
		}
		tmpl, err := texttemplate.New(id).Parse(text)
		if err != nil {
			return nil, err
		}
		r.templates[id] = tmpl
	}

	return r, nil
}

// Render fills the template identified by templateID from the context.
func (r *Renderer) Render(templateID string, ctx Context) (string, error) {
	data := templateData{
		Operation:      ctx.Operation,
		CIName:         ctx.CIName,
		Identifier:     ctx.Identifier,
		AccountChanges: ctx.AccountChanges,
		NL:             "\n",
	}

	tmpl, ok := r.templates[templateID]
	if !ok {
		return staticRender(templateID, data), nil
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// staticRender is the built-in rendering used when no template text is
// configured.
func staticRender(templateID string, data templateData) string {
	switch templateID {
	case DescriptionTemplateID:
		return "IDM request: " + data.Operation + " account on " + data.CIName
	case DetailTemplateID:
		return "Account details are:\n" + data.AccountChanges
	default:
		return "Missing template for " + templateID
	}
}
