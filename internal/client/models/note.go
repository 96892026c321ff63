package models

import (
	"fmt"
	"time"
)

// Note is a user-authored title/content record with a display color and a
// creation timestamp. The service stores ids under "_id".
type Note struct {
	ID      string    `json:"_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Color   string    `json:"color"`
	Date    time.Time `json:"date"`
}

// Truncated returns the first size runes of Content followed by "..." when the
// content is longer than size.
func (n Note) Truncated(size int) string {
	r := []rune(n.Content)
	if len(r) <= size {
		return n.Content
	}
	return string(r[:size]) + "..."
}

// Day returns the calendar date of the note in UTC, e.g. 2025-01-31.
func (n Note) Day() string {
	return n.Date.UTC().Format(time.DateOnly)
}

// DisplayColor returns Color, or DefaultNoteColor when the note has none.
func (n Note) DisplayColor() string {
	if n.Color == "" {
		return DefaultNoteColor
	}
	return n.Color
}

func (n Note) String() string {
	return fmt.Sprintf("%s  %s  %s  %s", n.ID, n.Day(), n.Title, n.Truncated(30))
}

// NoteColors is the fixed display palette.
var NoteColors = []string{
	"#10b981", // emerald
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#f59e0b", // amber
	"#ef4444", // red
	"#06b6d4", // cyan
	"#84cc16", // lime
	"#f97316", // orange
	"#ec4899", // pink
	"#6366f1", // indigo
}

// DefaultNoteColor is shown for notes stored without a color.
const DefaultNoteColor = "#10b981"

// IsPaletteColor reports whether c belongs to NoteColors.
func IsPaletteColor(c string) bool {
	for _, p := range NoteColors {
		if p == c {
			return true
		}
	}
	return false
}

// CollectionState describes the loading lifecycle of the note collection.
// The zero value is StateLoading: nothing has been fetched yet.
type CollectionState int

const (
	StateLoading CollectionState = iota
	StatePopulated
	StateEmpty
)

func (s CollectionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	}
	return fmt.Sprintf("CollectionState(%d)", int(s))
}
