package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hbk8784/ai-note-client/internal/client/models"
	"github.com/hbk8784/ai-note-client/internal/common"
)

const previewSize = 40

func (a *App) list(_ context.Context, _ []string) error {
	notes, state := a.notes.Snapshot()
	switch state {
	case models.StateLoading:
		fmt.Fprintln(a.out, "Loading notes...")
		return nil
	case models.StateEmpty:
		fmt.Fprintln(a.out, "No notes yet. Use 'add' to create one.")
		return nil
	}

	for i, n := range notes {
		fmt.Fprintf(a.out, "%3d  %s  %-24s %s  %s\n", i+1, n.Day(), clip(n.Title, 24), n.DisplayColor(), n.Truncated(previewSize))
	}
	return nil
}

func clip(s string, size int) string {
	r := []rune(s)
	if len(r) <= size {
		return s
	}
	return string(r[:size-1]) + "~"
}

func (a *App) refresh(ctx context.Context, args []string) error {
	if _, err := a.notes.Load(ctx); err != nil {
		return err
	}
	return a.list(ctx, args)
}

// resolve finds a note by id or by its 1-based position in the list.
func (a *App) resolve(args []string) (models.Note, error) {
	if len(args) == 0 {
		return models.Note{}, fmt.Errorf("a note number or id is required: %w", common.ErrValidation)
	}
	ref := args[0]
	notes, _ := a.notes.Snapshot()
	for _, n := range notes {
		if n.ID == ref {
			return n, nil
		}
	}
	if i, err := strconv.Atoi(ref); err == nil && i >= 1 && i <= len(notes) {
		return notes[i-1], nil
	}
	return models.Note{}, fmt.Errorf("note %q: %w", ref, common.ErrNotFound)
}

func (a *App) add(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if !models.IsPaletteColor(args[0]) {
			return fmt.Errorf("color %q is not in the palette %s: %w", args[0], strings.Join(models.NoteColors, " "), common.ErrValidation)
		}
		a.setColor(args[0])
		defer a.setColor("")
	}

	if err := a.modal.OpenAdd(); err != nil {
		return err
	}
	if err := a.fillForm(models.Note{}); err != nil {
		a.modal.Close()
		return err
	}
	return a.submit(ctx, models.Note{})
}

func (a *App) edit(ctx context.Context, args []string) error {
	note, err := a.resolve(args)
	if err != nil {
		return err
	}
	if err := a.modal.OpenEdit(note); err != nil {
		return err
	}
	if err := a.fillForm(note); err != nil {
		a.modal.Close()
		return err
	}
	return a.submit(ctx, note)
}

// fillForm prompts for title and content. Empty answers keep the values
// from current.
func (a *App) fillForm(current models.Note) error {
	titlePrompt := "Title"
	if current.Title != "" {
		titlePrompt = fmt.Sprintf("Title [%s]", current.Title)
	}
	title, err := GetSimpleText(a.in, titlePrompt)
	if err != nil {
		return err
	}
	if title == "" {
		title = current.Title
	}

	contentPrompt := "Content"
	if current.Content != "" {
		contentPrompt = "Content (empty keeps the current text)"
	}
	content, err := GetMultiline(a.in, a.out, contentPrompt)
	if err != nil {
		return err
	}
	if content == "" {
		content = current.Content
	}

	if err := a.modal.SetTitle(title); err != nil {
		return err
	}
	return a.modal.SetContent(content)
}

// submit sends the open form. A failed submission leaves the modal open so
// the user can correct the form and retry.
func (a *App) submit(ctx context.Context, original models.Note) error {
	for {
		note, err := a.modal.Submit(ctx)
		if err == nil {
			fmt.Fprintf(a.out, "Saved %q.\n", note.Title)
			return nil
		}
		if errors.Is(err, common.ErrAuthRequired) || errors.Is(err, common.ErrUnauthorized) {
			a.modal.Close()
			return err
		}

		a.report(ctx, err)
		if !Confirm(a.in, "Edit and retry?") {
			a.modal.Close()
			fmt.Fprintln(a.out, "Discarded.")
			return nil
		}
		form := a.modal.Form()
		if err := a.fillForm(models.Note{ID: original.ID, Title: form.Title, Content: form.Content}); err != nil {
			a.modal.Close()
			return err
		}
	}
}

func (a *App) delete(ctx context.Context, args []string) error {
	note, err := a.resolve(args)
	if errors.Is(err, common.ErrNotFound) {
		// Unknown locally; the service still decides.
		note, err = models.Note{ID: args[0]}, nil
	}
	if err != nil {
		return err
	}

	err = a.notes.Delete(ctx, note.ID, func(n models.Note) bool {
		label := n.Title
		if label == "" {
			label = n.ID
		}
		return Confirm(a.in, fmt.Sprintf("Delete %q? This cannot be undone.", label))
	})
	if errors.Is(err, common.ErrNotConfirmed) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) summarize(ctx context.Context, args []string) error {
	note, err := a.resolve(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Summarizing %q...\n", note.Title)
	text, err := a.summaries.Request(ctx, note.ID, note.Content)
	if errors.Is(err, common.ErrSummary) {
		// The tracker already notified the user.
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "---- AI summary ----")
	fmt.Fprintln(a.out, text)
	fmt.Fprintln(a.out, "--------------------")
	a.modal.Close()
	return nil
}
