package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hbk8784/ai-note-client/internal/client/guard"
)

type command struct {
	// route is the view the command belongs to; "" means any view.
	route guard.Route
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"help":     {usage: "help", help: "show available commands", run: a.help},
		"register": {route: guard.Register, usage: "register", help: "create an account", run: a.register},
		"login":    {route: guard.Login, usage: "login [email]", help: "sign in", run: a.login},
		"verify":   {route: guard.VerifyEmail, usage: "verify [token]", help: "confirm your email address", run: a.verify},
		"forgot":   {route: guard.ForgotPassword, usage: "forgot [email]", help: "request a password reset link", run: a.forgot},
		"reset":    {route: guard.ResetPassword, usage: "reset [token]", help: "choose a new password", run: a.reset},
		"logout":   {route: guard.Notes, usage: "logout", help: "sign out", run: a.logout},
		"whoami":   {route: guard.Notes, usage: "whoami [--remote]", help: "show the signed-in user", run: a.whoami},
		"list":     {route: guard.Notes, usage: "list", help: "show your notes", run: a.list},
		"add":      {route: guard.Notes, usage: "add [#color]", help: "create a note", run: a.add},
		"edit":     {route: guard.Notes, usage: "edit <n|id>", help: "edit a note", run: a.edit},
		"delete":   {route: guard.Notes, usage: "delete <n|id>", help: "delete a note", run: a.delete},
		"summary":  {route: guard.Notes, usage: "summary <n|id>", help: "summarize a note", run: a.summarize},
		"refresh":  {route: guard.Notes, usage: "refresh", help: "reload your notes", run: a.refresh},
	}
}

// Exec runs one command by name. The guard decides first: a refused
// command redirects the view and fails with ErrRedirected.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	cmd, ok := a.commands()[name]
	if !ok {
		return fmt.Errorf("unknown command %q, type 'help'", name)
	}

	if cmd.route != "" {
		d := a.guard.Check(cmd.route)
		if !d.Render {
			a.navigate(ctx, d.Redirect)
			return fmt.Errorf("%s: %w here, now at %s", name, ErrRedirected, a.currentView())
		}
		a.navigate(ctx, cmd.route)
		// Entering the view can end the session (an expired token on load).
		if v := a.currentView(); v != cmd.route {
			return fmt.Errorf("%s: %w here, now at %s", name, ErrRedirected, v)
		}
	}
	return cmd.run(ctx, args)
}

func (a *App) help(_ context.Context, _ []string) error {
	cmds := a.commands()
	fmt.Fprintln(a.out, "Available commands:")
	for _, name := range slices.Sorted(maps.Keys(cmds)) {
		c := cmds[name]
		if c.route != "" && !a.guard.Check(c.route).Render {
			continue
		}
		fmt.Fprintf(a.out, "  %-20s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(a.out, "  %-20s %s\n", "exit", "leave")
	return nil
}
