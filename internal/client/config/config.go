package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hbk8784/ai-note-client/internal/client/models"
)

// Config holds runtime settings for the notes CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the notes service.
//   - RequestTimeout: per-request HTTP deadline.
//   - SessionDBPath: SQLite file holding the session cache; "" keeps the
//     cache in memory only.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
//   - ColorPool: how many palette colors new notes draw from, counted from
//     the start of the palette; 0 means all ten.
//   - HistoryFile: readline history; "" disables history.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	SessionDBPath  string
	LogLevel       string
	LogFormat      string
	ColorPool      int
	HistoryFile    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3001"
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = defaultStatePath("session.db")
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.ColorPool = DefaultColorPool
	c.HistoryFile = defaultStatePath("history")
}

// DefaultColorPool limits new notes to the first three palette colors.
const DefaultColorPool = 3

func defaultStatePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "ai-notes", name)
}

// Colors returns the palette subset selected by ColorPool.
func (c *Config) Colors() []string {
	if c.ColorPool <= 0 || c.ColorPool >= len(models.NoteColors) {
		return models.NoteColors
	}
	return models.NoteColors[:c.ColorPool]
}

// LoadConfig constructs a Config from os.Args: defaults first, then the JSON
// file (if any), then flags. Later sources take precedence.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load is LoadConfig over an explicit argument list.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
