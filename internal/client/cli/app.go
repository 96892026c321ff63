package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hbk8784/ai-note-client/internal/client/client"
	"github.com/hbk8784/ai-note-client/internal/client/config"
	"github.com/hbk8784/ai-note-client/internal/client/guard"
	"github.com/hbk8784/ai-note-client/internal/client/modal"
	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/client/repositories/session"
	"github.com/hbk8784/ai-note-client/internal/client/services"
	"github.com/hbk8784/ai-note-client/internal/client/summary"
	"github.com/hbk8784/ai-note-client/internal/logging"
)

// apiClient is the transport the App wires: the service contract plus the
// bearer token hook.
type apiClient interface {
	client.Client
	SetTokenSource(ts client.TokenSource)
}

type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	in     LineReader

	db        *sql.DB
	session   services.SessionStore
	notes     services.NotesService
	modal     *modal.Coordinator
	summaries *summary.Tracker
	guard     *guard.Guard
	notifier  *Notifier

	mu   sync.Mutex
	view guard.Route
	// color overrides the picked color of the note being added.
	color string
}

// NewApp opens the session cache and wires the services for cfg. Output
// goes to out, logs to stderr.
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer) (*App, error) {
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	hc, err := client.NewHTTPClient(cfg.ServerBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log.With("component", "http")),
	)
	if err != nil {
		return nil, err
	}

	var (
		db   *sql.DB
		repo session.Repository
	)
	if cfg.SessionDBPath == "" {
		repo = session.NewMemoryRepository()
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		db, err = client.InitDatabase(ctx, cfg.SessionDBPath)
		if err != nil {
			log.Error(ctx, "error initializing database", "err", err)
			return nil, err
		}
		repo = session.NewSQLiteRepository(db)
	}

	a, err := newApp(ctx, cfg, hc, repo, log, out)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, c apiClient, repo session.Repository, log logging.Logger, out io.Writer) (*App, error) {
	ss, err := services.NewSessionStore(ctx, c, repo, log.With("component", "session"))
	if err != nil {
		return nil, err
	}
	c.SetTokenSource(ss.Token)

	a := &App{
		config:   cfg,
		log:      log,
		out:      out,
		session:  ss,
		guard:    guard.New(ss),
		notifier: NewNotifier(out),
		view:     guard.Home,
	}

	a.notes = services.NewNotesService(c, ss,
		services.WithColorPicker(services.RandomColor(cfg.Colors())),
		services.WithNotesLogger(log.With("component", "notes")),
	)
	a.modal = modal.New(modalNotes{a}, modal.WithRefresher(a.notes), modal.WithLogger(log))
	a.summaries = summary.NewTracker(a.notes, a.modal, a.notifier, summary.WithLogger(log))

	ss.OnSignOut(func() {
		a.modal.Close()
		a.setView(guard.Home)
	})
	return a, nil
}

// Close detaches the notes service and closes the session cache.
func (a *App) Close() error {
	a.notes.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) currentView() guard.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) setView(r guard.Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = r
}

// navigate switches to r. Entering the notes view fetches the collection.
func (a *App) navigate(ctx context.Context, r guard.Route) {
	r = a.guard.Resolve(r)
	prev := a.currentView()
	if prev == r {
		return
	}
	a.setView(r)
	if prev == guard.Notes {
		a.modal.Close()
	}
	if r == guard.Notes {
		if _, err := a.notes.Load(ctx); err != nil {
			a.report(ctx, err)
		}
	}
}

func (a *App) prompt() string {
	who := ""
	if u := a.session.CurrentUser(); u != nil {
		who = " (" + u.Email + ")"
	}
	return fmt.Sprintf("notes%s %s> ", who, a.currentView())
}

// report shows err to the user. Errors never stop the REPL.
func (a *App) report(ctx context.Context, err error) {
	a.log.Debug(ctx, "command failed", "err", err)
	a.notifier.Notify(ctx, userMessage(err))
}

func (a *App) chosenColor() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.color
}

func (a *App) setColor(c string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.color = c
}

// modalNotes routes modal submissions to the notes service.
type modalNotes struct {
	app *App
}

func (m modalNotes) Create(ctx context.Context, title, content string) (models.Note, error) {
	if c := m.app.chosenColor(); c != "" {
		return m.app.notes.CreateWith(ctx, models.CreateNoteRequest{
			Title:   title,
			Content: content,
			Color:   c,
			Date:    time.Now().UTC(),
		})
	}
	return m.app.notes.Create(ctx, title, content)
}

func (m modalNotes) Update(ctx context.Context, id, title, content string) (models.Note, error) {
	return m.app.notes.Update(ctx, id, title, content)
}

// ErrRedirected is returned when the guard refuses a command in the current
// session state.
var ErrRedirected = errors.New("command not available")
