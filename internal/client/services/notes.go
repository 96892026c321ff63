package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hbk8784/ai-note-client/internal/client/client"
	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/common"
	"github.com/hbk8784/ai-note-client/internal/logging"
)

// ColorPicker chooses the display color of a new note.
type ColorPicker func() string

// RandomColor picks uniformly from pool, or from the whole palette when
// pool is empty.
func RandomColor(pool []string) ColorPicker {
	if len(pool) == 0 {
		pool = models.NoteColors
	}
	pool = slices.Clone(pool)
	return func() string {
		return pool[rand.IntN(len(pool))]
	}
}

// ConfirmFunc asks the user to approve deleting note. Only ID is guaranteed
// to be set when the note is not in the local collection.
type ConfirmFunc func(note models.Note) bool

// NotesService owns the note collection of the current session.
//
// Create, Update and Delete change the collection only after the service
// confirms them. Load replaces the collection wholesale; at most one fetch
// is in flight and concurrent callers share its result.
type NotesService interface {
	Load(ctx context.Context) ([]models.Note, error)
	Create(ctx context.Context, title, content string) (models.Note, error)
	CreateWith(ctx context.Context, req models.CreateNoteRequest) (models.Note, error)
	Update(ctx context.Context, id, title, content string) (models.Note, error)
	Delete(ctx context.Context, id string, confirm ConfirmFunc) error
	Summarize(ctx context.Context, content string) (string, error)

	// Snapshot returns a copy of the collection and its state.
	Snapshot() ([]models.Note, models.CollectionState)
	// Close detaches the service; results arriving afterwards are dropped.
	Close()
}

// NotesOption configures a NotesService at construction.
type NotesOption func(*notesService)

// WithColorPicker sets how Create colors new notes. The default draws from
// the whole palette.
func WithColorPicker(p ColorPicker) NotesOption {
	return func(s *notesService) { s.pickColor = p }
}

// WithClock replaces time.Now as the source of a new note's date.
func WithClock(now func() time.Time) NotesOption {
	return func(s *notesService) { s.now = now }
}

// WithNotesLogger sets the logger; the default discards everything.
func WithNotesLogger(l logging.Logger) NotesOption {
	return func(s *notesService) { s.log = l }
}

// mutation is a confirmed change to the collection. Applying it twice has
// the same effect as applying it once.
type mutation struct {
	upsert   *models.Note
	removeID string
}

func (m mutation) apply(notes []models.Note) []models.Note {
	if m.upsert != nil {
		for i := range notes {
			if notes[i].ID == m.upsert.ID {
				notes[i] = *m.upsert
				return notes
			}
		}
		return append(notes, *m.upsert)
	}
	return slices.DeleteFunc(notes, func(n models.Note) bool { return n.ID == m.removeID })
}

type notesService struct {
	client    client.Client
	session   SessionStore
	log       logging.Logger
	pickColor ColorPicker
	now       func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	notes []models.Note
	state models.CollectionState
	// epoch changes on sign-out and Close; work started in an older epoch
	// is not applied.
	epoch    uint64
	closed   bool
	inflight bool
	// journal holds mutations confirmed while a fetch is in flight. They are
	// replayed onto the fetched collection.
	journal []mutation
}

// NewNotesService returns a service in StateLoading with an empty
// collection. It subscribes to session sign-outs and drops the collection
// on each of them.
func NewNotesService(c client.Client, session SessionStore, opts ...NotesOption) NotesService {
	s := &notesService{
		client:    c,
		session:   session,
		log:       logging.NopLogger{},
		pickColor: RandomColor(nil),
		now:       time.Now,
		state:     models.StateLoading,
	}
	for _, o := range opts {
		o(s)
	}
	session.OnSignOut(s.reset)
	return s
}

func stateOf(notes []models.Note) models.CollectionState {
	if len(notes) == 0 {
		return models.StateEmpty
	}
	return models.StatePopulated
}

// reset drops the collection of a session that has ended.
func (s *notesService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.epoch++
	s.notes = nil
	s.state = models.StateEmpty
	s.inflight = false
	s.journal = nil
}

func (s *notesService) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *notesService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.epoch++
	s.inflight = false
	s.journal = nil
}

// unauthorized forwards a rejection of token to the session store. token
// is the one the request was sent with, so a late 401 from an earlier
// session leaves the current one alone.
func (s *notesService) unauthorized(ctx context.Context, token string, err error) {
	if errors.Is(err, common.ErrUnauthorized) {
		s.session.HandleUnauthorized(ctx, token)
	}
}

func (s *notesService) Load(ctx context.Context) ([]models.Note, error) {
	if !s.session.IsAuthenticated() {
		s.reset()
		return []models.Note{}, common.ErrAuthRequired
	}

	ch := s.group.DoChan("load", func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Note)), nil
	}
}

func (s *notesService) fetch(ctx context.Context) ([]models.Note, error) {
	token := s.session.Token()
	s.mu.Lock()
	epoch := s.epoch
	if !s.closed {
		s.inflight = true
		s.journal = nil
		s.state = models.StateLoading
	}
	s.mu.Unlock()

	notes, err := s.client.ListNotes(ctx)

	s.mu.Lock()
	current := s.epoch == epoch && !s.closed
	if current {
		s.inflight = false
	}
	journal := s.journal
	if current {
		s.journal = nil
	}

	if err != nil {
		if current {
			s.state = stateOf(s.notes)
		}
		s.mu.Unlock()
		s.unauthorized(ctx, token, err)
		s.log.Warn(ctx, "failed to load notes", "err", err)
		return nil, fmt.Errorf("load notes: %w", err)
	}

	for _, m := range journal {
		notes = m.apply(notes)
	}
	if current {
		s.notes = notes
		s.state = stateOf(notes)
	}
	s.mu.Unlock()

	s.log.Debug(ctx, "notes loaded", "count", len(notes), "replayed", len(journal))
	return slices.Clone(notes), nil
}

// commit applies a confirmed mutation unless the service is closed or the
// epoch has moved on.
func (s *notesService) commit(epoch uint64, m mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.epoch != epoch {
		return
	}
	s.notes = m.apply(s.notes)
	if s.inflight {
		s.journal = append(s.journal, m)
		return
	}
	s.state = stateOf(s.notes)
}

func (s *notesService) Create(ctx context.Context, title, content string) (models.Note, error) {
	return s.CreateWith(ctx, models.CreateNoteRequest{
		Title:   title,
		Content: content,
		Color:   s.pickColor(),
		Date:    s.now().UTC(),
	})
}

func (s *notesService) CreateWith(ctx context.Context, req models.CreateNoteRequest) (models.Note, error) {
	if err := req.Validate(); err != nil {
		return models.Note{}, err
	}
	token := s.session.Token()
	if token == "" {
		return models.Note{}, common.ErrAuthRequired
	}

	epoch := s.currentEpoch()
	note, err := s.client.CreateNote(ctx, req)
	if err != nil {
		s.unauthorized(ctx, token, err)
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}

	s.commit(epoch, mutation{upsert: note})
	s.log.Info(ctx, "note created", "id", note.ID)
	return *note, nil
}

func (s *notesService) Update(ctx context.Context, id, title, content string) (models.Note, error) {
	if id == "" {
		return models.Note{}, fmt.Errorf("note id is required: %w", common.ErrValidation)
	}
	req := models.UpdateNoteRequest{Title: title, Content: content}
	if err := req.Validate(); err != nil {
		return models.Note{}, err
	}
	token := s.session.Token()
	if token == "" {
		return models.Note{}, common.ErrAuthRequired
	}

	epoch := s.currentEpoch()
	note, err := s.client.UpdateNote(ctx, id, req)
	if err != nil {
		s.unauthorized(ctx, token, err)
		return models.Note{}, fmt.Errorf("update note %s: %w", id, err)
	}

	s.commit(epoch, mutation{upsert: note})
	s.log.Info(ctx, "note updated", "id", note.ID)
	return *note, nil
}

func (s *notesService) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	if id == "" {
		return fmt.Errorf("note id is required: %w", common.ErrValidation)
	}
	if !s.session.IsAuthenticated() {
		return common.ErrAuthRequired
	}

	target := models.Note{ID: id}
	s.mu.Lock()
	if i := slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id }); i >= 0 {
		target = s.notes[i]
	}
	s.mu.Unlock()

	if confirm == nil || !confirm(target) {
		return common.ErrNotConfirmed
	}

	token := s.session.Token()
	if token == "" {
		return common.ErrAuthRequired
	}
	epoch := s.currentEpoch()
	if err := s.client.DeleteNote(ctx, id); err != nil {
		s.unauthorized(ctx, token, err)
		return fmt.Errorf("delete note %s: %w", id, err)
	}

	s.commit(epoch, mutation{removeID: id})
	s.log.Info(ctx, "note deleted", "id", id)
	return nil
}

func (s *notesService) Summarize(ctx context.Context, content string) (string, error) {
	req := models.SummaryRequest{Content: content}
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrSummary, err)
	}
	token := s.session.Token()
	if token == "" {
		return "", common.ErrAuthRequired
	}

	text, err := s.client.Summarize(ctx, req)
	if err != nil {
		s.unauthorized(ctx, token, err)
		return "", fmt.Errorf("%w: %w", common.ErrSummary, err)
	}
	return text, nil
}

func (s *notesService) Snapshot() ([]models.Note, models.CollectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes), s.state
}
