package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hbk8784/ai-note-client/internal/common"
)

// Notifier prints short user-facing notices, the terminal's toasts.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Notify(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "! %s\n", msg)
}

// userMessage turns an error into the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrRedirected), errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, common.ErrAuth):
		return "Invalid email or password"
	case errors.Is(err, common.ErrAuthRequired):
		return "Please sign in first"
	case errors.Is(err, common.ErrUnauthorized):
		return "Your session has expired, please sign in again"
	case errors.Is(err, common.ErrSummary):
		return "Failed to generate summary"
	case errors.Is(err, common.ErrNotFound):
		return "Note not found"
	case errors.Is(err, common.ErrConflict):
		return "The note was changed elsewhere; refresh and try again"
	case errors.Is(err, common.ErrProtocol):
		return "The service sent an unexpected response, try again later"
	case errors.Is(err, common.ErrNetwork):
		return "Network error, check your connection and try again"
	default:
		return err.Error()
	}
}
