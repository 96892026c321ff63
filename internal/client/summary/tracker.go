// Package summary tracks the per-note AI summary requests.
package summary

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbk8784/ai-note-client/internal/common"
	"github.com/hbk8784/ai-note-client/internal/logging"
)

// Status is the lifecycle stage of a note's summary request.
type Status int

const (
	Idle Status = iota
	Pending
	Done
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Summarizer generates a summary of note content.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// Presenter shows a finished summary, usually the modal coordinator.
type Presenter interface {
	ShowSummary(text string) error
}

// Notifier reports a failed request to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithObserver installs fn to be called on every status transition.
func WithObserver(fn func(noteID string, s Status)) Option {
	return func(t *Tracker) { t.observe = fn }
}

// WithLogger sets the logger for request outcomes.
func WithLogger(l logging.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// Tracker allows one pending request per note. Requests for different
// notes run independently. Every request ends back at Idle.
type Tracker struct {
	summarizer Summarizer
	presenter  Presenter
	notifier   Notifier
	observe    func(noteID string, s Status)
	log        logging.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewTracker returns a tracker with every note Idle. Summaries come from s,
// finished ones go to p and failures are reported through n.
func NewTracker(s Summarizer, p Presenter, n Notifier, opts ...Option) *Tracker {
	t := &Tracker{
		summarizer: s,
		presenter:  p,
		notifier:   n,
		observe:    func(string, Status) {},
		log:        logging.NopLogger{},
		pending:    make(map[string]struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Status returns the request status of noteID; unknown notes are Idle.
func (t *Tracker) Status(noteID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[noteID]; ok {
		return Pending
	}
	return Idle
}

// Request summarizes content on behalf of noteID and hands the text to the
// presenter. A second request for a note that is still pending fails with
// common.ErrPending.
func (t *Tracker) Request(ctx context.Context, noteID, content string) (string, error) {
	t.mu.Lock()
	if _, ok := t.pending[noteID]; ok {
		t.mu.Unlock()
		return "", common.ErrPending
	}
	t.pending[noteID] = struct{}{}
	t.mu.Unlock()
	t.observe(noteID, Pending)

	text, err := t.summarizer.Summarize(ctx, content)

	t.mu.Lock()
	delete(t.pending, noteID)
	t.mu.Unlock()

	if err != nil {
		t.observe(noteID, Failed)
		t.log.Warn(ctx, "summary failed", "note_id", noteID, "err", err)
		if t.notifier != nil {
			t.notifier.Notify(ctx, "Failed to generate summary: "+err.Error())
		}
		t.observe(noteID, Idle)
		return "", err
	}

	t.observe(noteID, Done)
	t.observe(noteID, Idle)
	if t.presenter != nil {
		if perr := t.presenter.ShowSummary(text); perr != nil {
			return text, fmt.Errorf("show summary: %w", perr)
		}
	}
	return text, nil
}
