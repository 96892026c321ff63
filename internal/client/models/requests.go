package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/hbk8784/ai-note-client/internal/common"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required: %w", field, common.ErrValidation)
	}
	return nil
}

func validEmail(email string) error {
	if err := required("email", email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q: %w", email, common.ErrValidation)
	}
	return nil
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if err := required("name", r.Name); err != nil {
		return err
	}
	if err := validEmail(r.Email); err != nil {
		return err
	}
	return required("password", r.Password)
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if err := validEmail(r.Email); err != nil {
		return err
	}
	return required("password", r.Password)
}

type LoginResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

// MessageResponse is returned by the verify, forgot and reset endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validEmail(r.Email)
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	if err := required("token", r.Token); err != nil {
		return err
	}
	if len(r.Password) < common.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long: %w", common.MinPasswordLength, common.ErrValidation)
	}
	return nil
}

// ProfileResponse is returned by GET /api/auth/profile.
type ProfileResponse struct {
	User User `json:"user"`
}

type NotesResponse struct {
	Notes []Note `json:"notes"`
}

// CreateNoteRequest is the body of POST /api/notes.
type CreateNoteRequest struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Color   string    `json:"color"`
	Date    time.Time `json:"date"`
}

func (r CreateNoteRequest) Validate() error {
	if err := required("title", r.Title); err != nil {
		return err
	}
	if err := required("content", r.Content); err != nil {
		return err
	}
	if !IsPaletteColor(r.Color) {
		return fmt.Errorf("color %q is not in the palette: %w", r.Color, common.ErrValidation)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("date is required: %w", common.ErrValidation)
	}
	return nil
}

// UpdateNoteRequest is the body of PUT /api/notes/:id.
type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r UpdateNoteRequest) Validate() error {
	if err := required("title", r.Title); err != nil {
		return err
	}
	return required("content", r.Content)
}

type SummaryRequest struct {
	Content string `json:"content"`
}

func (r SummaryRequest) Validate() error {
	return required("content", r.Content)
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse is the error body the service sends with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
