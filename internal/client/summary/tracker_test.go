package summary

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hbk8784/ai-note-client/internal/client/modal"
	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/common"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	mu      sync.Mutex
	err     error
	gates   map[string]chan struct{}
	entered chan string
}

func (f *fakeSummarizer) Summarize(_ context.Context, content string) (string, error) {
	f.mu.Lock()
	gate := f.gates[content]
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- content
	}
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return "", f.err
	}
	return "summary of " + content, nil
}

type fakeNotifier struct {
	msgs []string
}

func (f *fakeNotifier) Notify(_ context.Context, msg string) { f.msgs = append(f.msgs, msg) }

type noopNotes struct{}

func (noopNotes) Create(context.Context, string, string) (models.Note, error) {
	return models.Note{}, nil
}

func (noopNotes) Update(context.Context, string, string, string) (models.Note, error) {
	return models.Note{}, nil
}

type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) observe(id string, s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, id+":"+s.String())
}

func TestTracker_SuccessOpensSummary(t *testing.T) {
	m := modal.New(noopNotes{})
	rec := &recorder{}
	tr := NewTracker(&fakeSummarizer{}, m, &fakeNotifier{}, WithObserver(rec.observe))

	text, err := tr.Request(context.Background(), "n1", "long text")
	require.NoError(t, err)
	require.Equal(t, "summary of long text", text)
	require.Equal(t, modal.Summary{Text: "summary of long text"}, m.State())
	require.Equal(t, Idle, tr.Status("n1"))
	require.Equal(t, []string{"n1:pending", "n1:done", "n1:idle"}, rec.steps)
}

func TestTracker_FailureReturnsToIdleWithoutModal(t *testing.T) {
	m := modal.New(noopNotes{})
	n := &fakeNotifier{}
	rec := &recorder{}
	failure := fmt.Errorf("%w: model unavailable", common.ErrSummary)
	tr := NewTracker(&fakeSummarizer{err: failure}, m, n, WithObserver(rec.observe))

	_, err := tr.Request(context.Background(), "n1", "text")
	require.ErrorIs(t, err, common.ErrSummary)

	require.Equal(t, Idle, tr.Status("n1"))
	require.Equal(t, modal.None{}, m.State())
	require.Len(t, n.msgs, 1)
	require.Contains(t, n.msgs[0], "model unavailable")
	require.Equal(t, []string{"n1:pending", "n1:failed", "n1:idle"}, rec.steps)
}

func TestTracker_SameNoteWhilePending(t *testing.T) {
	gate := make(chan struct{})
	s := &fakeSummarizer{gates: map[string]chan struct{}{"a": gate}, entered: make(chan string, 4)}
	tr := NewTracker(s, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Request(context.Background(), "n1", "a")
		done <- err
	}()
	<-s.entered
	require.Equal(t, Pending, tr.Status("n1"))

	_, err := tr.Request(context.Background(), "n1", "a")
	require.ErrorIs(t, err, common.ErrPending)

	// Other notes are unaffected.
	text, err := tr.Request(context.Background(), "n2", "b")
	require.NoError(t, err)
	require.Equal(t, "summary of b", text)
	require.Equal(t, Pending, tr.Status("n1"))

	close(gate)
	require.NoError(t, <-done)
	require.Equal(t, Idle, tr.Status("n1"))
}

func TestTracker_ModalBusy(t *testing.T) {
	m := modal.New(noopNotes{})
	require.NoError(t, m.OpenAdd())
	tr := NewTracker(&fakeSummarizer{}, m, nil)

	text, err := tr.Request(context.Background(), "n1", "x")
	require.ErrorIs(t, err, common.ErrModalBusy)
	require.Equal(t, "summary of x", text)
	require.Equal(t, modal.KindAdd, m.State().Kind())
	require.Equal(t, Idle, tr.Status("n1"))
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "done", Done.String())
	require.Equal(t, "failed", Failed.String())
}
