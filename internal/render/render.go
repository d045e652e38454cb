// Package render turns talks into the markup of the talks page: one card per
// talk in the talks container, and the options of the category selector.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/testcontainers/talks-explorer/internal/talks"
)

// Placeholders for missing talk fields.
const (
	NotAvailable = "N/A"
	NoSummary    = "No summary available."
	Untitled     = "Untitled Talk"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// Templates returns the parsed fragment templates, "content" and "options",
// so pages can embed them.
func Templates() *template.Template {
	return templates
}

// Card is the display form of a talk, with placeholders already applied.
type Card struct {
	Title      string
	ID         string
	Speakers   string
	Categories string
	Duration   string
	Summary    string
}

// NewCard maps a talk to its card.
func NewCard(t talks.Talk) Card {
	card := Card{
		Title:      t.Title,
		ID:         string(t.ID),
		Speakers:   NotAvailable,
		Categories: NotAvailable,
		Duration:   NotAvailable,
		Summary:    t.Summary,
	}

	if card.Title == "" {
		card.Title = Untitled
	}
	if t.ID.Empty() {
		card.ID = NotAvailable
	}
	if card.Summary == "" {
		card.Summary = NoSummary
	}

	if len(t.Speakers) > 0 {
		names := make([]string, 0, len(t.Speakers))
		for _, s := range t.Speakers {
			names = append(names, s.FullName())
		}
		card.Speakers = strings.Join(names, ", ")
	}

	if len(t.Categories) > 0 {
		card.Categories = strings.Join(t.Categories, ", ")
	}

	if t.Duration != "" {
		card.Duration = t.Duration.String() + " minutes"
	}

	return card
}

// ContentKind is the state of the talks container.
type ContentKind int

const (
	ContentLoading ContentKind = iota
	ContentTalks
	ContentEmpty
	ContentError
)

func (k ContentKind) String() string {
	switch k {
	case ContentTalks:
		return "talks"
	case ContentEmpty:
		return "empty"
	case ContentError:
		return "error"
	default:
		return "loading"
	}
}

// Content is what the talks container shows. The zero value is the loading state.
type Content struct {
	Kind    ContentKind
	Talks   []talks.Talk
	Message string
}

// Loading returns the content shown while a fetch is in flight.
func Loading() Content {
	return Content{Kind: ContentLoading}
}

// Loaded returns the content for a successful fetch.
func Loaded(ts []talks.Talk) Content {
	if len(ts) == 0 {
		return Content{Kind: ContentEmpty}
	}
	return Content{Kind: ContentTalks, Talks: ts}
}

// Failed returns the content for a failed fetch.
func Failed(err error) Content {
	return Content{Kind: ContentError, Message: err.Error()}
}

func (c Content) IsLoading() bool { return c.Kind == ContentLoading }
func (c Content) IsEmpty() bool   { return c.Kind == ContentEmpty }
func (c Content) IsError() bool   { return c.Kind == ContentError }

// Cards returns one card per talk, in order.
func (c Content) Cards() []Card {
	cards := make([]Card, 0, len(c.Talks))
	for _, t := range c.Talks {
		cards = append(cards, NewCard(t))
	}
	return cards
}

// ContentHTML renders the inner markup of the talks container.
func ContentHTML(c Content) (template.HTML, error) {
	return execute("content", c)
}

// Option is one entry of the category selector.
type Option struct {
	Value    string
	Selected bool
}

// Options is the data of the category selector, beyond its default
// "All Categories" entry.
type Options struct {
	Options []Option
	Failed  bool
}

// NewOptions builds the selector entries. A selected category that is not in
// the list is still offered, so the control reflects the current filter.
// failed adds the disabled error entry, unless categories were loaded before.
func NewOptions(categories []string, selected string, failed bool) Options {
	opts := Options{Failed: failed && len(categories) == 0}

	found := false
	for _, c := range categories {
		isSelected := selected != "" && c == selected
		found = found || isSelected
		opts.Options = append(opts.Options, Option{Value: c, Selected: isSelected})
	}
	if selected != "" && !found {
		opts.Options = append(opts.Options, Option{Value: selected, Selected: true})
	}

	return opts
}

// OptionsHTML renders the option elements of the category selector.
func OptionsHTML(opts Options) (template.HTML, error) {
	return execute("options", opts)
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
