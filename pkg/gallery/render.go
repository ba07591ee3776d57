// Package gallery filters, orders and renders the list of picture cards.
package gallery

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// EmptyMessage is shown when there is nothing to render
const EmptyMessage = "No results found. Please try again later."

// Renderer writes card markup, all text is escaped by html/template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded card templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("cards").Funcs(template.FuncMap{
		"activationTrigger":  ActivationTrigger,
		"activationKeyGuard": ActivationKeyGuard,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse gallery templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes one card per entry or the empty placeholder when there are no cards
func (r *Renderer) Render(w io.Writer, cards []Card) error {
	if len(cards) == 0 {
		return r.RenderPlaceholder(w, EmptyMessage)
	}
	if err := r.tmpl.ExecuteTemplate(w, "gallery", cards); err != nil {
		return fmt.Errorf("render gallery: %w", err)
	}
	return nil
}

// RenderPlaceholder writes a status placeholder with the given message
func (r *Renderer) RenderPlaceholder(w io.Writer, msg string) error {
	if err := r.tmpl.ExecuteTemplate(w, "placeholder", msg); err != nil {
		return fmt.Errorf("render placeholder: %w", err)
	}
	return nil
}
