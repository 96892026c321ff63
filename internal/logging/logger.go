// Package logging is the logger the notes client passes around. Services
// take a Logger; main decides the backend (slog, see New).
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	log.Info(ctx, "notes loaded", "count", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every later record.
	With(args ...any) Logger
}

// NopLogger discards everything. Handy as a default in constructors and tests.
type NopLogger struct{}

func (NopLogger) Debug(context.Context, string, ...any) {}
func (NopLogger) Info(context.Context, string, ...any)  {}
func (NopLogger) Warn(context.Context, string, ...any)  {}
func (NopLogger) Error(context.Context, string, ...any) {}
func (n NopLogger) With(...any) Logger                  { return n }
