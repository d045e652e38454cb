// Package browse holds the state of a talks page: the category filter, the
// title search, and the content of the talks container.
//
// Every action takes a new generation and cancels the talks fetch of the
// previous action. A fetch that settles after a newer action started is
// discarded, so the container always shows the result of the latest action.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/testcontainers/talks-explorer/internal/render"
	"github.com/testcontainers/talks-explorer/internal/talks"
)

// Fetcher is the talks API as seen by a page.
type Fetcher interface {
	Talks(ctx context.Context, q talks.Query) ([]talks.Talk, error)
	Categories(ctx context.Context) ([]string, error)
}

// State is a snapshot of a page.
type State struct {
	Generation       uint64
	Category         string
	SearchText       string
	Categories       []string
	CategoriesFailed bool
	Content          render.Content
}

// Options returns the entries of the category selector for this state.
func (s State) Options() render.Options {
	return render.NewOptions(s.Categories, s.Category, s.CategoriesFailed)
}

// Listener is notified with a snapshot after every change of the page.
type Listener func(State)

// Page is the state of one browsing view. It is safe for concurrent use:
// actions may overlap, the latest one wins.
type Page struct {
	id       string
	fetcher  Fetcher
	recorder Recorder
	listener Listener
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithListener registers the function notified on every change.
func WithListener(l Listener) PageOption {
	return func(p *Page) {
		p.listener = l
	}
}

// WithRecorder reports the outcome of every fetch to the given recorder.
func WithRecorder(r Recorder) PageOption {
	return func(p *Page) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the page logger.
func WithLogger(logger *slog.Logger) PageOption {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPage creates a page in the loading state.
func NewPage(fetcher Fetcher, opts ...PageOption) *Page {
	p := &Page{
		id:       uuid.NewString(),
		fetcher:  fetcher,
		recorder: nopRecorder{},
		logger:   slog.Default(),
		state:    State{Content: render.Loading()},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("page", p.id)
	return p
}

// ID identifies the page in logs and browse events.
func (p *Page) ID() string {
	return p.id
}

// State returns a snapshot of the page.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Load fetches all the talks and the category list, concurrently.
// It returns once both fetches settled.
func (p *Page) Load(ctx context.Context) {
	_ = p.Open(ctx, ActionLoad, "")
}

// Open fetches the category list while applying the given action, as a page
// opened with a filter does. It returns once both fetches settled.
func (p *Page) Open(ctx context.Context, action Action, value string) error {
	var g errgroup.Group

	g.Go(func() error {
		p.LoadCategories(ctx)
		return nil
	})
	g.Go(func() error {
		return p.Apply(ctx, action, value)
	})

	return g.Wait()
}

// Apply runs the operation of the given action and returns once its fetch settled.
func (p *Page) Apply(ctx context.Context, action Action, value string) error {
	fetch, err := p.Dispatch(ctx, action, value)
	if err != nil {
		return err
	}
	fetch()
	return nil
}

// Dispatch starts the operation of the given action: when it returns, the
// controls changed, the container shows the loading message and the action
// owns the current generation. The returned function performs the fetch and
// may run in another goroutine.
func (p *Page) Dispatch(ctx context.Context, action Action, value string) (func(), error) {
	switch action {
	case ActionLoad:
		return p.begin(ctx, ActionLoad, "", talks.AllTalks(), func(*State) {}), nil
	case ActionSelectCategory:
		return p.beginSelectCategory(ctx, value), nil
	case ActionSearch:
		return p.beginSearch(ctx, value), nil
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
}

// SelectCategory clears the title search and shows the talks of the given
// category, or all the talks when the category is empty.
func (p *Page) SelectCategory(ctx context.Context, category string) {
	p.beginSelectCategory(ctx, category)()
}

// SubmitSearch resets the category filter and shows the talks whose title
// contains the trimmed term, or all the talks when the term is blank.
func (p *Page) SubmitSearch(ctx context.Context, term string) {
	p.beginSearch(ctx, term)()
}

func (p *Page) beginSelectCategory(ctx context.Context, category string) func() {
	q := talks.AllTalks()
	if category != "" {
		q = talks.ByCategory(category)
	}

	return p.begin(ctx, ActionSelectCategory, category, q, func(s *State) {
		s.SearchText = ""
		s.Category = category
	})
}

func (p *Page) beginSearch(ctx context.Context, term string) func() {
	term = strings.TrimSpace(term)

	q := talks.AllTalks()
	if term != "" {
		q = talks.ByTitle(term)
	}

	return p.begin(ctx, ActionSearch, term, q, func(s *State) {
		s.SearchText = term
		s.Category = ""
	})
}

// begin applies the control changes, cancels the previous fetch and switches the
// container to loading. The returned function fetches the talks for q; its result
// is applied only if no other action began in the meantime.
func (p *Page) begin(ctx context.Context, action Action, value string, q talks.Query, controls func(*State)) func() {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.state.Generation++
	gen := p.state.Generation
	controls(&p.state)
	p.state.Content = render.Loading()
	p.notifyLocked()
	p.mu.Unlock()

	return func() {
		defer cancel()
		p.fetch(ctx, action, value, q, gen)
	}
}

func (p *Page) fetch(ctx context.Context, action Action, value string, q talks.Query, gen uint64) {
	ts, err := p.fetcher.Talks(ctx, q)

	p.mu.Lock()
	current := p.state.Generation == gen
	if current {
		p.cancel = nil
		if err != nil {
			p.state.Content = render.Failed(err)
		} else {
			p.state.Content = render.Loaded(ts)
		}
		p.notifyLocked()
	}
	p.mu.Unlock()

	event := Event{
		Page:       p.id,
		Action:     action,
		Value:      value,
		Path:       q.Path(),
		Generation: gen,
		Count:      len(ts),
		Time:       time.Now(),
	}

	switch {
	case !current:
		event.Outcome = OutcomeStale
		p.logger.Debug("discarding stale talks response", "path", q.Path(), "generation", gen)
	case err != nil:
		event.Outcome = OutcomeError
		event.Error = err.Error()
	case len(ts) == 0:
		event.Outcome = OutcomeEmpty
	default:
		event.Outcome = OutcomeOK
	}

	// the fetch context is cancelled once a newer action begins
	p.recorder.Record(context.WithoutCancel(ctx), event)
}

// LoadCategories fetches the category list. On failure the selector gets its
// disabled error entry.
func (p *Page) LoadCategories(ctx context.Context) {
	categories, err := p.fetcher.Categories(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state.CategoriesFailed = true
	} else {
		p.state.Categories = categories
		p.state.CategoriesFailed = false
	}
	p.notifyLocked()
}

func (p *Page) snapshot() State {
	s := p.state
	s.Categories = append([]string(nil), p.state.Categories...)
	return s
}

// notifyLocked must be called with p.mu held, so listeners observe changes in order.
func (p *Page) notifyLocked() {
	if p.listener != nil {
		p.listener(p.snapshot())
	}
}
