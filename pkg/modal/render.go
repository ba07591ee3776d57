package modal

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/apodview/pkg/gallery"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer writes the overlay markup
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
}

type dialogData struct {
	ID          uint64
	Title       string
	Date        string
	DisplayDate string
	Body        template.HTML
	Explanation string
}

// NewRenderer parses the embedded overlay templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("modal").Funcs(template.FuncMap{
		"dismissVals": dismissVals,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse modal templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, policy: BodyPolicy()}, nil
}

// Render writes the dialog for the session. The media body is rendered first
// and passed through the body policy before it is placed into the dialog.
func (r *Renderer) Render(w io.Writer, s Session) error {
	var body bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&body, "body", s.Content); err != nil {
		return fmt.Errorf("render modal body: %w", err)
	}

	data := dialogData{
		ID:          s.ID,
		Title:       s.Record.DisplayTitle("Astronomy Picture"),
		Date:        s.Record.Date,
		DisplayDate: gallery.FormatDate(s.Record.Date),
		Body:        template.HTML(r.policy.SanitizeBytes(body.Bytes())), //nolint:gosec // sanitized by body policy
		Explanation: s.Record.Explanation,
	}
	if err := r.tmpl.ExecuteTemplate(w, "dialog", data); err != nil {
		return fmt.Errorf("render modal: %w", err)
	}
	return nil
}

// BodyPolicy allows only the elements the overlay body is made of
func BodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	p.RequireNoReferrerOnLinks(true)

	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("src").Matching(regexp.MustCompile(`^https://`)).OnElements("iframe")
	p.AllowAttrs("title", "allowfullscreen", "loading").OnElements("iframe")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^modal-note$`)).OnElements("p")
	p.AllowElements("p")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^[a-z ]+$`)).OnElements("a")
	return p
}

// dismissVals builds the hx-vals payload of a dismissal control
func dismissVals(id uint64, source, key string) string {
	vals := map[string]string{"session": strconv.FormatUint(id, 10), "source": source}
	if key != "" {
		vals["key"] = key
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "{}"
	}
	return string(b)
}
