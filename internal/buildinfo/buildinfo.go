// Package buildinfo reports the version stamped into the binary at link
// time:
//
//	go build -ldflags "-X github.com/hbk8784/ai-note-client/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/hbk8784/ai-note-client/internal/buildinfo.Date=$(date -u +%F) \
//	  -X github.com/hbk8784/ai-note-client/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version string
	Date    string
	Commit  string
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes version, date and commit, "N/A" for unset values.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(Date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(Commit))
}
