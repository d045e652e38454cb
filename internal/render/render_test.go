package render_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/talks-explorer/internal/render"
	"github.com/testcontainers/talks-explorer/internal/talks"
)

func decodeTalks(t *testing.T, body string) []talks.Talk {
	t.Helper()

	var ts []talks.Talk
	require.NoError(t, json.Unmarshal([]byte(body), &ts))
	return ts
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// field returns the text of the card row labelled with the given name, without the label.
func field(card *goquery.Selection, label string) string {
	var value string
	card.Find("p").Each(func(_ int, p *goquery.Selection) {
		strong := p.Find("strong").Text()
		if strong == label+":" {
			value = strings.TrimSpace(strings.TrimPrefix(p.Text(), strong))
		}
	})
	return value
}

func TestNewCard(t *testing.T) {
	t.Run("Placeholders for missing fields", func(t *testing.T) {
		card := render.NewCard(talks.Talk{})

		assert.Equal(t, render.Card{
			Title:      render.Untitled,
			ID:         render.NotAvailable,
			Speakers:   render.NotAvailable,
			Categories: render.NotAvailable,
			Duration:   render.NotAvailable,
			Summary:    render.NoSummary,
		}, card)
	})

	t.Run("Speakers and categories are joined", func(t *testing.T) {
		card := render.NewCard(talks.Talk{
			ID:         "42",
			Title:      "Delightful Integration Tests with Testcontainers for Go",
			Speakers:   []talks.Speaker{{FirstName: "Grace", LastName: "Hopper"}, {LastName: "Lovelace"}},
			Categories: []string{"Go", "Testing"},
			Duration:   json.Number("45"),
			Summary:    "Containers all the way down.",
		})

		assert.Equal(t, "42", card.ID)
		assert.Equal(t, "Grace Hopper, Lovelace", card.Speakers)
		assert.Equal(t, "Go, Testing", card.Categories)
		assert.Equal(t, "45 minutes", card.Duration)
		assert.Equal(t, "Containers all the way down.", card.Summary)
	})

	t.Run("Zero duration is still a duration", func(t *testing.T) {
		card := render.NewCard(talks.Talk{Duration: json.Number("0")})
		assert.Equal(t, "0 minutes", card.Duration)
	})

	t.Run("Zero identifier is not available", func(t *testing.T) {
		card := render.NewCard(talks.Talk{ID: "0"})
		assert.Equal(t, render.NotAvailable, card.ID)
	})
}

func TestContentHTML(t *testing.T) {
	t.Run("One card per talk", func(t *testing.T) {
		ts := decodeTalks(t, `[
			{"id":1,"title":"Intro","speakers":[{"firstName":"Ada"}],"categories":[],"duration":30},
			{"id":2,"title":"Deep dive","categories":["Go"]},
			{"id":3}
		]`)

		html, err := render.ContentHTML(render.Loaded(ts))
		require.NoError(t, err)

		cards := parse(t, string(html)).Find("div.talk-card")
		require.Equal(t, len(ts), cards.Length())

		first := cards.First()
		assert.Equal(t, "Intro", first.Find("h3").Text())
		assert.Equal(t, "1", field(first, "ID"))
		assert.Equal(t, "Ada", field(first, "Speakers"))
		assert.Equal(t, "N/A", field(first, "Categories"))
		assert.Equal(t, "30 minutes", field(first, "Duration"))
		assert.Equal(t, "No summary available.", field(first, "Summary"))

		last := cards.Last()
		assert.Equal(t, "Untitled Talk", last.Find("h3").Text())
		assert.Equal(t, "N/A", field(last, "Duration"))
	})

	t.Run("Empty list renders the no talks message only", func(t *testing.T) {
		html, err := render.ContentHTML(render.Loaded(nil))
		require.NoError(t, err)

		doc := parse(t, string(html))
		assert.Equal(t, 0, doc.Find("div.talk-card").Length())
		assert.Equal(t, "No talks available for the current selection.", doc.Find("p").Text())
	})

	t.Run("Loading message", func(t *testing.T) {
		html, err := render.ContentHTML(render.Loading())
		require.NoError(t, err)
		assert.Equal(t, "<p>Loading talks...</p>", string(html))
	})

	t.Run("Error message", func(t *testing.T) {
		html, err := render.ContentHTML(render.Failed(errors.New("No talks found for category: rust")))
		require.NoError(t, err)
		assert.Equal(t, "Error loading talks: No talks found for category: rust. Make sure the backend API is running and the URL is correct.", parse(t, string(html)).Text())
	})

	t.Run("Talk fields are escaped", func(t *testing.T) {
		ts := []talks.Talk{{Title: `<script>alert("x")</script>`, Summary: "a & b"}}

		html, err := render.ContentHTML(render.Loaded(ts))
		require.NoError(t, err)
		assert.NotContains(t, string(html), "<script>")

		doc := parse(t, string(html))
		assert.Equal(t, `<script>alert("x")</script>`, doc.Find("h3").Text())
		assert.Equal(t, "a & b", field(doc.Find("div.talk-card"), "Summary"))
	})
}

func TestOptionsHTML(t *testing.T) {
	t.Run("Default option followed by the categories", func(t *testing.T) {
		html, err := render.OptionsHTML(render.NewOptions([]string{"Cloud", "Go"}, "Go", false))
		require.NoError(t, err)

		opts := parse(t, "<select>"+string(html)+"</select>").Find("option")
		require.Equal(t, 3, opts.Length())

		assert.Equal(t, "All Categories", opts.Eq(0).Text())
		assert.Equal(t, "", opts.Eq(0).AttrOr("value", "missing"))
		assert.Equal(t, "Cloud", opts.Eq(1).AttrOr("value", ""))

		_, selected := opts.Eq(2).Attr("selected")
		assert.True(t, selected)
	})

	t.Run("Failure adds a single disabled placeholder", func(t *testing.T) {
		html, err := render.OptionsHTML(render.NewOptions(nil, "", true))
		require.NoError(t, err)

		opts := parse(t, "<select>"+string(html)+"</select>").Find("option")
		require.Equal(t, 2, opts.Length())

		placeholder := opts.Eq(1)
		assert.Equal(t, "Error loading categories", placeholder.Text())
		assert.Equal(t, "", placeholder.AttrOr("value", "missing"))
		_, disabled := placeholder.Attr("disabled")
		assert.True(t, disabled)
	})

	t.Run("Unknown selected category is still offered", func(t *testing.T) {
		opts := render.NewOptions([]string{"Go"}, "Rust", false)
		assert.Equal(t, []render.Option{{Value: "Go"}, {Value: "Rust", Selected: true}}, opts.Options)
	})
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := render.WriteText(&buf, render.Loaded([]talks.Talk{{ID: "1", Title: "Intro", Speakers: []talks.Speaker{{FirstName: "Ada"}}, Duration: "30"}}))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Intro\n"))
	assert.Regexp(t, `Speakers:\s+Ada\n`, out)
	assert.Regexp(t, `Categories:\s+N/A\n`, out)
	assert.Regexp(t, `Duration:\s+30 minutes\n`, out)
	assert.Regexp(t, `Summary:\s+No summary available\.\n`, out)

	buf.Reset()
	require.NoError(t, render.WriteText(&buf, render.Loaded(nil)))
	assert.Equal(t, "No talks available for the current selection.\n", buf.String())
}
