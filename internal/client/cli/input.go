package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// LineReader is the line source of the CLI. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// passwordReader is implemented by line sources that can read without echo.
type passwordReader interface {
	ReadPassword(prompt string) ([]byte, error)
}

// stdinReader adapts a plain reader for one-shot commands.
type stdinReader struct {
	r      *bufio.Reader
	w      io.Writer
	prompt string
}

func newStdinReader(r io.Reader, w io.Writer) *stdinReader {
	return &stdinReader{r: bufio.NewReader(r), w: w}
}

func (s *stdinReader) SetPrompt(prompt string) { s.prompt = prompt }

func (s *stdinReader) Readline() (string, error) {
	if _, err := fmt.Fprint(s.w, s.prompt); err != nil {
		return "", err
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText prompts on in and returns the trimmed answer.
func GetSimpleText(in LineReader, prompt string) (string, error) {
	in.SetPrompt(prompt + ": ")
	line, err := in.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a secret without echo, through in when it supports it
// and from the terminal otherwise.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(in LineReader, w io.Writer, prompt string) ([]byte, error) {
	if pr, ok := in.(passwordReader); ok {
		return pr.ReadPassword(prompt + ": ")
	}
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(in LineReader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprintln(w, prompt+" (press Enter on an empty line to finish)"); err != nil {
		return "", err
	}
	in.SetPrompt("| ")

	var lines []string
	for {
		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func Confirm(in LineReader, question string) bool {
	answer, err := GetSimpleText(in, question+" [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
