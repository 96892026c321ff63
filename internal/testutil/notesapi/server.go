// Package notesapi is an in-memory stand-in for the remote auth/notes
// service, served through httptest. Tests use it to drive the real
// HTTPClient end to end.
package notesapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hbk8784/ai-note-client/internal/client/models"
)

type account struct {
	user     models.User
	password string
}

type failure struct {
	status int
	msg    string
}

// Server keeps accounts, tokens and notes in memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account      // by email
	tokens   map[string]string        // token -> email
	notes    map[string][]models.Note // email -> notes
	failNext map[string]failure       // "METHOD /path" -> failure
	listGate chan struct{}

	ListCalls    atomic.Int32
	SummaryCalls atomic.Int32
}

func New() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		notes:    make(map[string][]models.Note),
		failNext: make(map[string]failure),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify-email", s.verifyEmail).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/forgot-password", s.message("reset link sent")).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", s.message("password updated")).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/profile", s.authed(s.profile)).Methods(http.MethodGet)
	r.HandleFunc("/api/notes", s.authed(s.listNotes)).Methods(http.MethodGet)
	r.HandleFunc("/api/notes", s.authed(s.createNote)).Methods(http.MethodPost)
	r.HandleFunc("/api/notes/summary", s.authed(s.summary)).Methods(http.MethodPost)
	r.HandleFunc("/api/notes/{id}", s.authed(s.updateNote)).Methods(http.MethodPut)
	r.HandleFunc("/api/notes/{id}", s.authed(s.deleteNote)).Methods(http.MethodDelete)
	r.Use(s.injectFailures)

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers a verified account and returns its user record.
func (s *Server) AddUser(name, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: uuid.NewString(), Name: name, Email: email, EmailVerified: true}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// Seed stores notes for email directly, bypassing the API.
func (s *Server) Seed(email string, notes ...models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		s.notes[email] = append(s.notes[email], n)
	}
}

// Notes returns a copy of what the service stores for email.
func (s *Server) Notes(email string) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Note, len(s.notes[email]))
	copy(out, s.notes[email])
	return out
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// FailNext makes the next request matching method and path answer with
// status and msg.
func (s *Server) FailNext(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method+" "+path] = failure{status: status, msg: msg}
}

// HoldLists blocks GET /api/notes until the returned func is called.
func (s *Server) HoldLists() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.listGate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listGate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		f, ok := s.failNext[key]
		if ok {
			delete(s.failNext, key)
		}
		s.mu.Unlock()

		if ok {
			writeError(w, f.status, f.msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, email string)

func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		email, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		h(w, r, email)
	}
}

func (s *Server) message(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: msg})
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusBadRequest, "user already exists")
		return
	}
	u := models.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email}
	s.accounts[req.Email] = &account{user: u, password: req.Password}
	writeJSON(w, http.StatusCreated, models.RegisterResponse{Message: "check your inbox", User: u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Email]
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = req.Email
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: acc.user, Message: "welcome"})
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("token") == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "email verified"})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request, email string) {
	s.mu.Lock()
	u := s.accounts[email].user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, models.ProfileResponse{User: u})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request, email string) {
	s.ListCalls.Add(1)

	s.mu.Lock()
	gate := s.listGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	writeJSON(w, http.StatusOK, models.NotesResponse{Notes: s.Notes(email)})
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request, email string) {
	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	n := models.Note{ID: uuid.NewString(), Title: req.Title, Content: req.Content, Color: req.Color, Date: req.Date}

	s.mu.Lock()
	s.notes[email] = append(s.notes[email], n)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request, email string) {
	id := mux.Vars(r)["id"]
	var req models.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes[email] {
		if n.ID == id {
			n.Title, n.Content = req.Title, req.Content
			s.notes[email][i] = n
			writeJSON(w, http.StatusOK, n)
			return
		}
	}
	writeError(w, http.StatusNotFound, "note not found")
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, email string) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	notes := s.notes[email]
	for i, n := range notes {
		if n.ID == id {
			s.notes[email] = append(notes[:i:i], notes[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "note not found")
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request, email string) {
	s.SummaryCalls.Add(1)
	var req models.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	words := strings.Fields(req.Content)
	if len(words) > 5 {
		words = words[:5]
	}
	writeJSON(w, http.StatusOK, models.SummaryResponse{Summary: "Summary: " + strings.Join(words, " ")})
}
