package client

import (
	"context"

	"github.com/hbk8784/ai-note-client/internal/client/models"
)

// Client is the transport contract of the remote auth/notes service.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) (*models.MessageResponse, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error)
	Profile(ctx context.Context) (*models.User, error)

	ListNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	Summarize(ctx context.Context, req models.SummaryRequest) (string, error)
}
