// Package services contains the application services of the notes client:
// the session store that owns the token and current user, and the notes
// service that owns the in-memory note collection.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hbk8784/ai-note-client/internal/client/client"
	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/client/repositories/session"
	"github.com/hbk8784/ai-note-client/internal/common"
	"github.com/hbk8784/ai-note-client/internal/logging"
)

// SessionStore defines the authentication operations of the client.
//
// Contract:
//   - SignUp: create an account; never establishes a session.
//   - SignIn: authenticate and persist {token, user} to the session cache.
//   - SignOut: clear the session cache; never fails.
//   - IsAuthenticated: token present in the cache, no server round trip.
//   - HandleUnauthorized: the path taken when the service rejects a token.
//
// Calls that finish after the session they started in has ended never
// change the current session.
type SessionStore interface {
	SignUp(ctx context.Context, name, email, password string) (*models.RegisterResponse, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context)

	IsAuthenticated() bool
	CurrentUser() *models.User
	Token() string
	TokenExpiry() (time.Time, bool)

	VerifyEmail(ctx context.Context, token string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password, confirm string) (string, error)
	Profile(ctx context.Context) (*models.User, error)

	// HandleUnauthorized signs out if token is still the current one. A
	// rejection of a token from an earlier session is ignored.
	HandleUnauthorized(ctx context.Context, token string)
	// OnSignOut registers fn to run after every transition from signed in
	// to signed out.
	OnSignOut(fn func())
}

type sessionStore struct {
	client client.Client
	repo   session.Repository
	log    logging.Logger

	mu    sync.RWMutex
	token string
	user  *models.User

	subsMu sync.Mutex
	subs   []func()
}

// NewSessionStore restores any cached session from repo. A cache holding
// only one of token and user is treated as corrupt and cleared.
func NewSessionStore(ctx context.Context, c client.Client, repo session.Repository, log logging.Logger) (SessionStore, error) {
	if log == nil {
		log = logging.NopLogger{}
	}
	s := &sessionStore{client: c, repo: repo, log: log}

	token, err := repo.Get(ctx, common.SessionTokenKey)
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	raw, err := repo.Get(ctx, common.SessionUserKey)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}

	if len(token) == 0 && raw == nil {
		return s, nil
	}

	var user models.User
	if len(token) == 0 || raw == nil || json.Unmarshal(raw, &user) != nil {
		log.Warn(ctx, "discarding inconsistent session cache")
		for _, key := range []string{common.SessionTokenKey, common.SessionUserKey} {
			if err := repo.Delete(ctx, key); err != nil {
				return nil, fmt.Errorf("clear session cache: %w", err)
			}
		}
		return s, nil
	}

	s.token = string(token)
	s.user = &user
	return s, nil
}

func (s *sessionStore) SignUp(ctx context.Context, name, email, password string) (*models.RegisterResponse, error) {
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	s.log.Info(ctx, "account registered", "email", email)
	return resp, nil
}

func (s *sessionStore) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, fmt.Errorf("sign in: %w: %s", common.ErrAuth, apiMessage(err))
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	user := resp.User
	sess := &models.Session{Token: resp.Token, User: &user}
	if !sess.Valid() {
		return nil, fmt.Errorf("sign in: %w: login response carries no token", common.ErrProtocol)
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "signed in", "user_id", user.ID)
	u := user
	return &models.Session{Token: sess.Token, User: &u}, nil
}

// persist writes token and user in one step and then updates the mirror.
// The cache and the mirror change under s.mu so a concurrent sign-out
// cannot interleave with them.
func (s *sessionStore) persist(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.repo.SetMany(ctx, map[string][]byte{
		common.SessionTokenKey: []byte(sess.Token),
		common.SessionUserKey:  raw,
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.token = sess.Token
	s.user = sess.User
	return nil
}

// refreshUser replaces the cached user while token is still the session
// token. The token entry itself is left alone.
func (s *sessionStore) refreshUser(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.token != token {
		s.log.Debug(ctx, "dropping profile of an ended session")
		return nil
	}
	if err := s.repo.Set(ctx, common.SessionUserKey, raw); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	u := *user
	s.user = &u
	return nil
}

func (s *sessionStore) SignOut(ctx context.Context) {
	s.signOut(ctx, func(string) bool { return true })
}

func (s *sessionStore) HandleUnauthorized(ctx context.Context, token string) {
	if token == "" {
		return
	}
	s.signOut(ctx, func(current string) bool {
		if current != token {
			s.log.Debug(ctx, "ignoring rejection of a previous session token")
			return false
		}
		s.log.Warn(ctx, "session rejected by service")
		return true
	})
}

// signOut clears the session when match accepts the current token.
// Subscribers run after the lock is released.
func (s *sessionStore) signOut(ctx context.Context, match func(current string) bool) {
	s.mu.Lock()
	if !match(s.token) {
		s.mu.Unlock()
		return
	}
	wasSignedIn := s.token != ""
	s.token = ""
	s.user = nil
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear session cache", "err", err)
	}
	s.mu.Unlock()

	if wasSignedIn {
		s.log.Info(ctx, "signed out")
		s.notifySignOut()
	}
}

func (s *sessionStore) OnSignOut(fn func()) {
	s.subsMu.Lock()
	s.subs = append(s.subs, fn)
	s.subsMu.Unlock()
}

func (s *sessionStore) notifySignOut() {
	s.subsMu.Lock()
	subs := append([]func(){}, s.subs...)
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *sessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *sessionStore) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *sessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenExpiry decodes the exp claim of a JWT token without verifying it.
// It reports false for opaque tokens or tokens without exp.
func (s *sessionStore) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *sessionStore) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("verification token is required: %w", common.ErrValidation)
	}
	resp, err := s.client.VerifyEmail(ctx, token)
	if err != nil {
		return "", fmt.Errorf("verify email: %w", err)
	}
	return resp.Message, nil
}

func (s *sessionStore) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := models.ForgotPasswordRequest{Email: email}
	if err := req.Validate(); err != nil {
		return "", err
	}
	resp, err := s.client.ForgotPassword(ctx, req)
	if err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}
	return resp.Message, nil
}

func (s *sessionStore) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	if password != confirm {
		return "", fmt.Errorf("passwords do not match: %w", common.ErrValidation)
	}
	req := models.ResetPasswordRequest{Token: token, Password: password}
	if err := req.Validate(); err != nil {
		return "", err
	}
	resp, err := s.client.ResetPassword(ctx, req)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return resp.Message, nil
}

// Profile fetches the current user from the service. The cached copy is
// refreshed only if the session that asked is still the current one.
func (s *sessionStore) Profile(ctx context.Context) (*models.User, error) {
	token := s.Token()
	if token == "" {
		return nil, common.ErrAuthRequired
	}
	user, err := s.client.Profile(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.HandleUnauthorized(ctx, token)
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	if err := s.refreshUser(ctx, token, user); err != nil {
		s.log.Warn(ctx, "failed to refresh cached user", "err", err)
	}
	u := *user
	return &u, nil
}

func apiMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
