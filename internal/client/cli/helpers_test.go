package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hbk8784/ai-note-client/internal/client/client"
	"github.com/hbk8784/ai-note-client/internal/client/config"
	"github.com/hbk8784/ai-note-client/internal/client/repositories/session"
	"github.com/hbk8784/ai-note-client/internal/logging"
	"github.com/hbk8784/ai-note-client/internal/testutil/notesapi"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ann@example.com"
	testPassword = "secret123"
)

// script is a LineReader that replays fixed input. Passwords are read from
// the same queue.
type script struct {
	mu      sync.Mutex
	lines   []string
	prompts []string
	errs    map[int]error
	reads   int
}

func newScript(lines ...string) *script {
	return &script{lines: lines}
}

func (s *script) SetPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
}

func (s *script) Readline() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if err, ok := s.errs[s.reads]; ok {
		return "", err
	}
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *script) ReadPassword(prompt string) ([]byte, error) {
	s.SetPrompt(prompt)
	line, err := s.Readline()
	return []byte(line), err
}

// syncBuffer guards a buffer written from several goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	api  *notesapi.Server
	repo *session.MemoryRepository
	cfg  *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := notesapi.New()
	t.Cleanup(api.Close)
	api.AddUser("Ann", testEmail, testPassword)
	return &testEnv{
		api:  api,
		repo: session.NewMemoryRepository(),
		cfg:  &config.Config{ServerBaseURL: api.URL, RequestTimeout: 5 * time.Second},
	}
}

func (e *testEnv) app(t *testing.T, out io.Writer) *App {
	t.Helper()
	hc, err := client.NewHTTPClient(e.api.URL, client.WithHTTPClient(e.api.Client()), client.WithTimeout(5*time.Second))
	require.NoError(t, err)

	a, err := newApp(context.Background(), e.cfg, hc, e.repo, logging.NopLogger{}, out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}
