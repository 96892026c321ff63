package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hbk8784/ai-note-client/internal/buildinfo"
	"github.com/hbk8784/ai-note-client/internal/client/config"
)

// AppFactory builds the App a command runs against.
type AppFactory func(ctx context.Context, cmd *cobra.Command) (*App, error)

// NewRootCommand returns the notes command tree for cfg. Without a
// subcommand it starts the REPL.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	return newRootCommand(cfg, func(ctx context.Context, cmd *cobra.Command) (*App, error) {
		return NewApp(ctx, cfg, cmd.OutOrStdout())
	})
}

func newRootCommand(cfg *config.Config, factory AppFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "notes",
		Short:         "Terminal client for the AI notes service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := factory(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.HistoryFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0o700); err != nil {
					return fmt.Errorf("create history dir: %w", err)
				}
			}
			rl, err := NewReadline(cfg.HistoryFile)
			if err != nil {
				return err
			}
			defer rl.Close()

			return a.RunREPL(ctx, rl)
		},
	}

	// Values are read by config.Load; cobra only has to accept them.
	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to JSON config file")
	pf.StringP("api", "a", cfg.ServerBaseURL, "base URL of the notes service")
	pf.IntP("timeout", "t", int(cfg.RequestTimeout.Seconds()), "request timeout (seconds)")
	pf.StringP("db", "d", cfg.SessionDBPath, "session cache file (empty for memory only)")
	pf.StringP("log-level", "l", cfg.LogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", cfg.LogFormat, "log format: text or json")
	pf.Int("colors", cfg.ColorPool, "palette colors used for new notes (0 = all)")
	pf.String("history", cfg.HistoryFile, "readline history file")

	root.AddCommand(
		oneShot(factory, "register", "register", "Create an account", cobra.NoArgs),
		oneShot(factory, "login [email]", "login", "Sign in and cache the session", cobra.MaximumNArgs(1)),
		oneShot(factory, "logout", "logout", "Sign out and clear the session cache", cobra.NoArgs),
		whoamiCmd(factory),
		oneShot(factory, "list", "list", "List your notes", cobra.NoArgs),
		oneShot(factory, "verify-email [token]", "verify", "Confirm an email address", cobra.MaximumNArgs(1)),
		oneShot(factory, "forgot-password [email]", "forgot", "Request a password reset link", cobra.MaximumNArgs(1)),
		oneShot(factory, "reset-password [token]", "reset", "Choose a new password", cobra.MaximumNArgs(1)),
		versionCmd(),
	)
	return root
}

// oneShot runs a single App command, reading prompts from stdin.
func oneShot(factory AppFactory, use, name, short string, args cobra.PositionalArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := factory(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			a.in = newStdinReader(cmd.InOrStdin(), cmd.OutOrStdout())
			if err := a.Exec(ctx, name, args); err != nil {
				return errors.New(userMessage(err))
			}
			return nil
		},
	}
	return cmd
}

func whoamiCmd(factory AppFactory) *cobra.Command {
	var remote bool
	cmd := oneShot(factory, "whoami", "whoami", "Show the signed-in user", cobra.NoArgs)
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch the profile from the service")

	run := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		if remote {
			args = append(args, "--remote")
		}
		return run(c, args)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
