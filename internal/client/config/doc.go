// Package config loads runtime configuration for the notes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c, -config or --config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds. Keys that are absent keep their earlier value:
//
//	{
//	  "server_base_url": "https://notes.example.com",
//	  "request_timeout": "10s",
//	  "session_db_path": "/var/lib/notes/session.db",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "color_pool": 3,
//	  "history_file": ""
//	}
//
// The package does not read environment variables.
package config
