package config

import (
	"flag"
	"io"
	"time"

	"github.com/hbk8784/ai-note-client/internal/flagx"
)

// FlagNames lists every command-line spelling parseFlags understands.
// Other parsers (cobra) must accept them too.
var FlagNames = []string{
	"-a", "--api",
	"-t", "--timeout",
	"-d", "--db",
	"-l", "--log-level",
	"--log-format",
	"--colors",
	"--history",
}

// parseFlags populates Config fields from command-line flags.
//
//	-a, --api string        base URL of the notes service
//	-t, --timeout int       request timeout (seconds)
//	-d, --db string         session cache file ("" for memory only)
//	-l, --log-level string  debug, info, warn or error
//	--log-format string     text or json
//	--colors int            palette colors used for new notes (0 = all)
//	--history string        readline history file
//
// Arguments not in FlagNames are filtered out with flagx.FilterArgs.
// It panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, FlagNames)

	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the notes service")
	fs.StringVar(&cfg.ServerBaseURL, "api", cfg.ServerBaseURL, "base URL of the notes service")
	timeout := int(cfg.RequestTimeout.Seconds())
	fs.IntVar(&timeout, "t", timeout, "request timeout (in seconds)")
	fs.IntVar(&timeout, "timeout", timeout, "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session cache file")
	fs.StringVar(&cfg.SessionDBPath, "db", cfg.SessionDBPath, "session cache file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.IntVar(&cfg.ColorPool, "colors", cfg.ColorPool, "palette colors used for new notes")
	fs.StringVar(&cfg.HistoryFile, "history", cfg.HistoryFile, "readline history file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit flag replaces a sub-second timeout from JSON.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" || f.Name == "timeout" {
			cfg.RequestTimeout = time.Duration(timeout) * time.Second
		}
	})
}
