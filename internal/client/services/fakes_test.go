package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hbk8784/ai-note-client/internal/client/client"
	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/client/repositories/session"
	"github.com/hbk8784/ai-note-client/internal/testutil/notesapi"
	"github.com/stretchr/testify/require"
)

var errNotStubbed = errors.New("not stubbed")

// fakeClient implements client.Client for unit tests. Nil funcs fail with
// errNotStubbed.
type fakeClient struct {
	RegisterFn       func(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	LoginFn          func(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	VerifyEmailFn    func(ctx context.Context, token string) (*models.MessageResponse, error)
	ForgotPasswordFn func(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error)
	ResetPasswordFn  func(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error)
	ProfileFn        func(ctx context.Context) (*models.User, error)
	ListNotesFn      func(ctx context.Context) ([]models.Note, error)
	CreateNoteFn     func(ctx context.Context, req models.CreateNoteRequest) (*models.Note, error)
	UpdateNoteFn     func(ctx context.Context, id string, req models.UpdateNoteRequest) (*models.Note, error)
	DeleteNoteFn     func(ctx context.Context, id string) error
	SummarizeFn      func(ctx context.Context, req models.SummaryRequest) (string, error)

	Calls atomic.Int32
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	f.Calls.Add(1)
	if f.RegisterFn == nil {
		return nil, errNotStubbed
	}
	return f.RegisterFn(ctx, req)
}

func (f *fakeClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.Calls.Add(1)
	if f.LoginFn == nil {
		return nil, errNotStubbed
	}
	return f.LoginFn(ctx, req)
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) (*models.MessageResponse, error) {
	f.Calls.Add(1)
	if f.VerifyEmailFn == nil {
		return nil, errNotStubbed
	}
	return f.VerifyEmailFn(ctx, token)
}

func (f *fakeClient) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	f.Calls.Add(1)
	if f.ForgotPasswordFn == nil {
		return nil, errNotStubbed
	}
	return f.ForgotPasswordFn(ctx, req)
}

func (f *fakeClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	f.Calls.Add(1)
	if f.ResetPasswordFn == nil {
		return nil, errNotStubbed
	}
	return f.ResetPasswordFn(ctx, req)
}

func (f *fakeClient) Profile(ctx context.Context) (*models.User, error) {
	f.Calls.Add(1)
	if f.ProfileFn == nil {
		return nil, errNotStubbed
	}
	return f.ProfileFn(ctx)
}

func (f *fakeClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	f.Calls.Add(1)
	if f.ListNotesFn == nil {
		return nil, errNotStubbed
	}
	return f.ListNotesFn(ctx)
}

func (f *fakeClient) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.Note, error) {
	f.Calls.Add(1)
	if f.CreateNoteFn == nil {
		return nil, errNotStubbed
	}
	return f.CreateNoteFn(ctx, req)
}

func (f *fakeClient) UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (*models.Note, error) {
	f.Calls.Add(1)
	if f.UpdateNoteFn == nil {
		return nil, errNotStubbed
	}
	return f.UpdateNoteFn(ctx, id, req)
}

func (f *fakeClient) DeleteNote(ctx context.Context, id string) error {
	f.Calls.Add(1)
	if f.DeleteNoteFn == nil {
		return errNotStubbed
	}
	return f.DeleteNoteFn(ctx, id)
}

func (f *fakeClient) Summarize(ctx context.Context, req models.SummaryRequest) (string, error) {
	f.Calls.Add(1)
	if f.SummarizeFn == nil {
		return "", errNotStubbed
	}
	return f.SummarizeFn(ctx, req)
}

// failingRepo wraps a memory repository and fails selected operations.
type failingRepo struct {
	*session.MemoryRepository
	ClearErr   error
	SetManyErr error
}

func (r *failingRepo) Clear(ctx context.Context) error {
	if r.ClearErr != nil {
		return r.ClearErr
	}
	return r.MemoryRepository.Clear(ctx)
}

func (r *failingRepo) SetMany(ctx context.Context, values map[string][]byte) error {
	if r.SetManyErr != nil {
		return r.SetManyErr
	}
	return r.MemoryRepository.SetMany(ctx, values)
}

// loginAnyone stubs Login so that every account signs in, with the token
// "tok-<email>".
func loginAnyone(fc *fakeClient) {
	fc.LoginFn = func(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
		return &models.LoginResponse{
			Token: "tok-" + req.Email,
			User:  models.User{ID: req.Email, Name: "User " + req.Email, Email: req.Email},
		}, nil
	}
}

// signedInStore returns a store whose cache already holds a session, with
// c as its client.
func signedInStore(t *testing.T, c client.Client) SessionStore {
	t.Helper()
	c0 := &fakeClient{LoginFn: func(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
		return &models.LoginResponse{Token: "tok", User: models.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}}, nil
	}}
	repo := session.NewMemoryRepository()
	s, err := NewSessionStore(context.Background(), c0, repo, nil)
	require.NoError(t, err)
	_, err = s.SignIn(context.Background(), "ann@example.com", "secret123")
	require.NoError(t, err)

	s, err = NewSessionStore(context.Background(), c, repo, nil)
	require.NoError(t, err)
	require.True(t, s.IsAuthenticated())
	return s
}

// env wires a real HTTP client and session store to an in-memory service.
type env struct {
	api     *notesapi.Server
	session SessionStore
	notes   NotesService
	repo    *session.MemoryRepository
}

const (
	testEmail    = "ann@example.com"
	testPassword = "secret123"
)

func newEnv(t *testing.T, opts ...NotesOption) *env {
	t.Helper()
	api := notesapi.New()
	t.Cleanup(api.Close)
	api.AddUser("Ann", testEmail, testPassword)

	hc, err := client.NewHTTPClient(api.URL, client.WithHTTPClient(api.Client()), client.WithTimeout(5*time.Second))
	require.NoError(t, err)

	repo := session.NewMemoryRepository()
	s, err := NewSessionStore(context.Background(), hc, repo, nil)
	require.NoError(t, err)
	hc.SetTokenSource(s.Token)

	n := NewNotesService(hc, s, opts...)
	t.Cleanup(n.Close)
	return &env{api: api, session: s, notes: n, repo: repo}
}

func (e *env) signIn(t *testing.T) {
	t.Helper()
	_, err := e.session.SignIn(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
}

func apiStatus(status int) error {
	return client.NewAPIError(status, http.StatusText(status))
}
