// Package web renders quiz sessions as HTML and serves them for preview.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/aliskhannn/labquiz/internal/domain/entities"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// ScriptID is the id of the feedback script element.
const ScriptID = "labquiz-feedback"

// IndexEntry is one line of the chapter index.
type IndexEntry struct {
	Title string
	Href  string
	Count int
}

type pageData struct {
	Title       string
	ContainerID string
	IndexHref   string
	Fragment    template.HTML
}

type indexData struct {
	Title   string
	Entries []IndexEntry
}

// Renderer turns quiz sessions into markup. It holds no per-quiz state.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("web").Funcs(template.FuncMap{
		"answer": func(key entities.AnswerKey, id string) string {
			letter, _ := key.Lookup(id)
			return letter
		},
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Fragment renders the questions of a session without any page chrome.
func (r *Renderer) Fragment(session *entities.QuizSession) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "fragment", session); err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Script renders the feedback script element.
func (r *Renderer) Script() (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "script", nil); err != nil {
		return "", fmt.Errorf("render script: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Page writes a standalone document with the quiz inside a form with containerID.
// indexHref may be empty.
func (r *Renderer) Page(w io.Writer, session *entities.QuizSession, containerID, indexHref string) error {
	fragment, err := r.Fragment(session)
	if err != nil {
		return err
	}

	title := session.Title
	if title == "" {
		title = session.Chapter
	}

	return r.tmpl.ExecuteTemplate(w, "page", pageData{
		Title:       title,
		ContainerID: containerID,
		IndexHref:   indexHref,
		Fragment:    fragment,
	})
}

// Index writes the chapter list page.
func (r *Renderer) Index(w io.Writer, title string, entries []IndexEntry) error {
	return r.tmpl.ExecuteTemplate(w, "index", indexData{
		Title:   title,
		Entries: entries,
	})
}
