package modal

import (
	"context"
	"errors"
	"sync"

	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/common"
	"github.com/hbk8784/ai-note-client/internal/logging"
)

// ErrNoForm is returned when form input arrives while neither the add nor
// the edit modal is open.
var ErrNoForm = errors.New("no form is open")

// Notes is the part of the notes service the coordinator submits to.
type Notes interface {
	Create(ctx context.Context, title, content string) (models.Note, error)
	Update(ctx context.Context, id, title, content string) (models.Note, error)
}

// Refresher reloads the collection after a modal closes on success.
type Refresher interface {
	Load(ctx context.Context) ([]models.Note, error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRefresher makes a successful Submit reload the collection through r.
func WithRefresher(r Refresher) Option {
	return func(c *Coordinator) { c.refresher = r }
}

// WithLogger sets the logger for submission outcomes.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// Coordinator owns the modal state and its form buffer. It never changes
// the note collection itself; submissions go through Notes.
type Coordinator struct {
	notes     Notes
	refresher Refresher
	log       logging.Logger

	mu      sync.Mutex
	state   State
	form    Form
	pending bool
	// opened counts modal openings so a slow submit cannot close a modal
	// that was opened after it started.
	opened uint64
}

// New returns a coordinator with no modal open that submits to notes.
func New(notes Notes, opts ...Option) *Coordinator {
	c := &Coordinator{notes: notes, log: logging.NopLogger{}, state: None{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the active modal.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a submission is outstanding.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// open must be called with mu held.
func (c *Coordinator) open(s State, f Form) error {
	if c.state.Kind() != KindNone {
		return common.ErrModalBusy
	}
	c.state = s
	c.form = f
	c.opened++
	return nil
}

// OpenAdd opens the add modal with an empty form. It fails with
// common.ErrModalBusy while another modal is open.
func (c *Coordinator) OpenAdd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open(Add{}, Form{})
}

// OpenEdit opens the edit modal with the note's current values.
func (c *Coordinator) OpenEdit(note models.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open(
		Edit{ID: note.ID, Title: note.Title, Content: note.Content},
		Form{Title: note.Title, Content: note.Content},
	)
}

// ShowSummary opens the read-only summary modal with text.
func (c *Coordinator) ShowSummary(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open(Summary{Text: text}, Form{})
}

// Close returns to None. A submission still in flight keeps running but
// its result no longer affects the modal.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = None{}
	c.form = Form{}
}

func (c *Coordinator) hasForm() bool {
	k := c.state.Kind()
	return k == KindAdd || k == KindEdit
}

// SetTitle updates the form title. Without an add or edit modal open it
// returns ErrNoForm.
func (c *Coordinator) SetTitle(title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasForm() {
		return ErrNoForm
	}
	c.form.Title = title
	return nil
}

// SetContent updates the form content, like SetTitle.
func (c *Coordinator) SetContent(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasForm() {
		return ErrNoForm
	}
	c.form.Content = content
	return nil
}

// Form returns a copy of the form buffer.
func (c *Coordinator) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submit sends the form of the open add or edit modal. On success the
// modal closes and the refresher, if any, runs. On failure the modal stays
// open with the form intact.
func (c *Coordinator) Submit(ctx context.Context) (models.Note, error) {
	c.mu.Lock()
	if !c.hasForm() {
		c.mu.Unlock()
		return models.Note{}, ErrNoForm
	}
	if c.pending {
		c.mu.Unlock()
		return models.Note{}, common.ErrSubmitPending
	}
	c.pending = true
	state, form, opened := c.state, c.form, c.opened
	c.mu.Unlock()

	var (
		note models.Note
		err  error
	)
	switch s := state.(type) {
	case Add:
		note, err = c.notes.Create(ctx, form.Title, form.Content)
	case Edit:
		note, err = c.notes.Update(ctx, s.ID, form.Title, form.Content)
	}

	c.mu.Lock()
	c.pending = false
	if err == nil && c.opened == opened && c.hasForm() {
		c.state = None{}
		c.form = Form{}
	}
	c.mu.Unlock()

	if err != nil {
		return models.Note{}, err
	}

	if c.refresher != nil {
		if _, rerr := c.refresher.Load(ctx); rerr != nil {
			c.log.Warn(ctx, "refresh after submit failed", "err", rerr)
		}
	}
	return note, nil
}
