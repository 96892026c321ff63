package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/common"
	"github.com/hbk8784/ai-note-client/internal/logging"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// TokenSource returns the bearer token for authenticated calls, or "".
type TokenSource func() string

// HTTPClient talks to the notes service over its JSON REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     logging.Logger

	mu    sync.RWMutex
	token TokenSource
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests use the one
// from httptest.Server).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: 15 * time.Second,
		log:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource installs the function that supplies the bearer token.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ts
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return ""
	}
	return c.token()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if authed {
		if tok := c.bearer(); tok != "" {
			req.Header.Set(common.AuthHeaderName, "Bearer "+tok)
		}
	}

	log := c.log.With("method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response", "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w: %w", method, path, common.ErrProtocol, err)
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := http.StatusText(resp.StatusCode)
	var er models.ErrorResponse
	if err := json.Unmarshal(b, &er); err == nil && er.Error != "" {
		msg = er.Error
	}

	return NewAPIError(resp.StatusCode, msg)
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: %w: no token in response", common.ErrProtocol)
	}
	return &resp, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	path := "/api/auth/verify-email?token=" + url.QueryEscape(token)
	if err := c.do(ctx, http.MethodGet, path, false, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var resp models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", true, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	var resp models.NotesResponse
	if err := c.do(ctx, http.MethodGet, "/api/notes", true, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notes == nil {
		return []models.Note{}, nil
	}
	return resp.Notes, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", true, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), true, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), true, nil, nil)
}

func (c *HTTPClient) Summarize(ctx context.Context, req models.SummaryRequest) (string, error) {
	var resp models.SummaryResponse
	if err := c.do(ctx, http.MethodPost, "/api/notes/summary", true, req, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}
