// Package render turns a resume into a standalone HTML page using one of
// the three layouts in templates.ResumeFS.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/redmonkez12/cvbuilder/internal/resume"
	"github.com/redmonkez12/cvbuilder/templates"
)

const baseTemplate = "resume/base.html.tmpl"

// Renderer holds one parsed template set per layout
type Renderer struct {
	modern  *template.Template
	classic *template.Template
	minimal *template.Template
}

// New parses every layout. It only fails if the embedded files are broken.
func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcMap()).ParseFS(templates.ResumeFS, baseTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	layout := func(name string) (*template.Template, error) {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templates.ResumeFS, "resume/"+name+".html.tmpl"); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		return t, nil
	}

	r := &Renderer{}
	if r.modern, err = layout(string(resume.TemplateModern)); err != nil {
		return nil, err
	}
	if r.classic, err = layout(string(resume.TemplateClassic)); err != nil {
		return nil, err
	}
	if r.minimal, err = layout(string(resume.TemplateMinimal)); err != nil {
		return nil, err
	}
	return r, nil
}

// Render writes res as HTML using tpl. Unknown templates render as modern.
// Nothing is written if rendering fails.
func (r *Renderer) Render(w io.Writer, tpl resume.Template, res *resume.Resume) error {
	var t *template.Template
	switch tpl {
	case resume.TemplateClassic:
		t = r.classic
	case resume.TemplateMinimal:
		t = r.minimal
	default:
		t = r.modern
		tpl = resume.TemplateModern
	}

	// render a normalized copy so nil sections behave like empty ones
	view := *res
	view.Content = res.Content.Clone()
	view.Content.Normalize()
	view.Template = tpl

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", &view); err != nil {
		return fmt.Errorf("failed to render %s template: %w", tpl, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
	defaultErr      error
)

// Render renders with a lazily parsed shared Renderer
func Render(w io.Writer, tpl resume.Template, res *resume.Resume) error {
	defaultOnce.Do(func() {
		defaultRenderer, defaultErr = New()
	})
	if defaultErr != nil {
		return defaultErr
	}
	return defaultRenderer.Render(w, tpl, res)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": FormatDate,
		"dateRange":  DateRange,
		"capitalize": func(v any) string { return Capitalize(fmt.Sprint(v)) },
		"lines":      Lines,
		"linkHref":   LinkHref,
	}
}

var dateLayouts = []string{"2006-01", "2006-01-02", time.RFC3339, time.RFC3339Nano}

// FormatDate renders "2022-01" as "Jan 2022". Values it cannot parse are
// returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return s
}

// DateRange joins the formatted start and end with " - ". A current entry
// ends at "Present". Blank halves are dropped.
func DateRange(start, end string, current bool) string {
	from := FormatDate(start)
	to := FormatDate(end)
	if current {
		to = "Present"
	}

	switch {
	case from != "" && to != "":
		return from + " - " + to
	case from != "":
		return from
	default:
		return to
	}
}

// Capitalize upper-cases the first letter
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Lines splits free text into its non-blank lines
func Lines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
