package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/testcontainers/talks-explorer/internal/browse"
)

// upgrader keeps the default same-origin check.
var upgrader = websocket.Upgrader{}

// liveRequest is the incoming WebSocket message format.
type liveRequest struct {
	Type  string `json:"type"` // "load", "selectCategory" or "search"
	Value string `json:"value"`
}

// liveResponse is the outgoing WebSocket message format.
type liveResponse struct {
	Type         string `json:"type"` // "state" or "error"
	Generation   uint64 `json:"generation"`
	Category     string `json:"category"`
	Search       string `json:"search"`
	Options      string `json:"options,omitempty"`
	ContentState string `json:"contentState,omitempty"`
	Content      string `json:"content,omitempty"`
	Message      string `json:"message,omitempty"`
}

func stateResponse(s browse.State) (liveResponse, error) {
	view, err := newPageView(s)
	if err != nil {
		return liveResponse{}, err
	}

	resp := liveResponse{
		Type:       "state",
		Generation: view.Generation,
		Category:   view.Category,
		Search:     view.Search,
		Options:    string(view.Options),
	}

	// before the first action the browser keeps the server-rendered talks
	if view.Generation > 0 {
		resp.ContentState = view.ContentState
		resp.Content = string(view.Content)
	}

	return resp, nil
}

// Live binds a websocket to a fresh page. Every message starts its action right
// away and fetches in its own goroutine, so actions may overlap; every change of
// the page is pushed back to the browser.
func (h *handlers) Live(c *gin.Context) {
	logger := h.deps.Logger

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	out := make(chan liveResponse, 16)
	send := func(resp liveResponse) {
		select {
		case out <- resp:
		case <-ctx.Done():
		}
	}

	page := h.newPage(browse.WithListener(func(s browse.State) {
		resp, err := stateResponse(s)
		if err != nil {
			logger.Error("rendering page state", "error", err)
			return
		}
		send(resp)
	}))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case resp := <-out:
				if err := conn.WriteJSON(resp); err != nil {
					logger.Warn("websocket write", "page", page.ID(), "error", err)
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		page.LoadCategories(ctx)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read", "page", page.ID(), "error", err)
			}
			break
		}

		var req liveRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			send(liveResponse{Type: "error", Message: "invalid message format"})
			continue
		}

		action, ok := parseAction(req.Type)
		if !ok || req.Type == "" {
			send(liveResponse{Type: "error", Message: "unknown message type: " + req.Type})
			continue
		}

		if action == browse.ActionLoad {
			wg.Add(1)
			go func() {
				defer wg.Done()
				page.LoadCategories(ctx)
			}()
		}

		// dispatched in arrival order, so the latest message owns the latest generation
		fetch, err := page.Dispatch(ctx, action, req.Value)
		if err != nil {
			send(liveResponse{Type: "error", Message: err.Error()})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			fetch()
		}()
	}

	cancel()
	wg.Wait()
	<-writerDone
}
