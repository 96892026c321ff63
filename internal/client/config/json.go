package config

import (
	"encoding/json"
	"os"

	"github.com/hbk8784/ai-note-client/internal/flagx"
	"github.com/hbk8784/ai-note-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from a zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionDBPath  *string         `json:"session_db_path"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	ColorPool      *int            `json:"color_pool"`
	HistoryFile    *string         `json:"history_file"`
}

// parseJson overlays cfg with the file named by -c, -config or --config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	if jc.ColorPool != nil {
		cfg.ColorPool = *jc.ColorPool
	}
	if jc.HistoryFile != nil {
		cfg.HistoryFile = *jc.HistoryFile
	}
}
