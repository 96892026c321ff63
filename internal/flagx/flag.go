// Package flagx holds small helpers that let several packages parse their
// own subset of the command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// ConfigFlagNames are the spellings accepted for the JSON config file path.
var ConfigFlagNames = []string{"-c", "-config", "--config"}

// FilterArgs returns the subset of args made of the flags named in allowed,
// each followed by its value when the value is a separate token.
//
// Recognised forms:
//  1. Flag and value as two tokens:     -a http://localhost:3001
//  2. Flag and value joined with '=':   --api=http://localhost:3001
//
// Parameters:
//
//	args    - the command line, usually os.Args[1:]
//	allowed - the flag spellings to keep, e.g. []string{"-a", "--api"}
//
// A token after a kept flag is taken as its value only if it does not
// start with "-", so boolean-looking flags never swallow the next flag.
// The result is never nil, which lets callers pass it straight to
// flag.FlagSet.Parse.
func FilterArgs(args []string, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := set[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := set[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config path given with -c, -config or
// --config. The last occurrence wins; an empty string means none was given.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFlagNames))

	return path
}
