package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/hbk8784/ai-note-client/internal/client/guard"
)

// RunREPL reads commands from in until exit, quit or EOF. Command errors
// are shown to the user and never end the loop.
func (a *App) RunREPL(ctx context.Context, in LineReader) error {
	a.in = in
	fmt.Fprintln(a.out, "AI Notes (type 'help' for commands)")
	a.navigate(ctx, guard.Notes)

	for {
		in.SetPrompt(a.prompt())
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(a.out, "Use 'exit' or 'quit' to leave.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		if name == "exit" || name == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return nil
		}
		if err := a.Exec(ctx, name, args); err != nil {
			a.report(ctx, err)
		}
	}
}

// NewReadline builds the interactive line editor.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}
