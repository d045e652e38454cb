package browse

import (
	"context"
	"time"
)

// Action is a user action on a page.
type Action string

const (
	ActionLoad           Action = "load"
	ActionSelectCategory Action = "selectCategory"
	ActionSearch         Action = "search"
)

// Outcome is how the talks fetch of an action settled.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeEmpty Outcome = "empty"
	OutcomeError Outcome = "error"
	// OutcomeStale means a newer action started before the fetch settled,
	// so its result was discarded.
	OutcomeStale Outcome = "stale"
)

// Event describes one settled action of a page.
type Event struct {
	Page       string    `json:"page"`
	Action     Action    `json:"action"`
	Value      string    `json:"value,omitempty"`
	Path       string    `json:"path"`
	Generation uint64    `json:"generation"`
	Outcome    Outcome   `json:"outcome"`
	Count      int       `json:"count"`
	Error      string    `json:"error,omitempty"`
	Time       time.Time `json:"time"`
}

// Recorder receives the events of a page. Record must not block the page for long.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, event Event)

func (f RecorderFunc) Record(ctx context.Context, event Event) {
	f(ctx, event)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Event) {}
