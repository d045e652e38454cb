package app

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testcontainers/talks-explorer/internal/browse"
	"github.com/testcontainers/talks-explorer/internal/render"
)

type handlers struct {
	deps Dependencies
}

// pageView is the data of the index template.
type pageView struct {
	Generation   uint64
	Category     string
	Search       string
	ContentState string
	Options      template.HTML
	Content      template.HTML
}

func newPageView(s browse.State) (pageView, error) {
	options, err := render.OptionsHTML(s.Options())
	if err != nil {
		return pageView{}, err
	}

	content, err := render.ContentHTML(s.Content)
	if err != nil {
		return pageView{}, err
	}

	return pageView{
		Generation:   s.Generation,
		Category:     s.Category,
		Search:       s.SearchText,
		ContentState: s.Content.Kind.String(),
		Options:      options,
		Content:      content,
	}, nil
}

func (h *handlers) newPage(opts ...browse.PageOption) *browse.Page {
	opts = append([]browse.PageOption{
		browse.WithRecorder(h.deps.Recorder),
		browse.WithLogger(h.deps.Logger),
	}, opts...)

	return browse.NewPage(h.deps.Fetcher, opts...)
}

// parseAction maps the action of a form or a websocket message to a page action.
func parseAction(s string) (browse.Action, bool) {
	switch s {
	case "", "load":
		return browse.ActionLoad, true
	case "category", "selectCategory":
		return browse.ActionSelectCategory, true
	case "search":
		return browse.ActionSearch, true
	default:
		return "", false
	}
}

// Root renders the talks page. The query replays the action of the submitted form:
//
//	/?action=category&category=Go
//	/?action=search&title=testcontainers
func (h *handlers) Root(c *gin.Context) {
	action, ok := parseAction(c.Query("action"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown action: " + c.Query("action")})
		return
	}

	var value string
	switch action {
	case browse.ActionSelectCategory:
		value = c.Query("category")
	case browse.ActionSearch:
		value = c.Query("title")
	}

	page := h.newPage()
	if err := page.Open(c.Request.Context(), action, value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	view, err := newPageView(page.State())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.HTML(http.StatusOK, "index.tmpl", view)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
