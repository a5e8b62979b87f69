package open

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/internal/store"
)

func NewCmdOpen(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open [query]",
		Aliases: []string{"o"},
		Short:   "Open a note in your external editor.",
		Long: `This command opens a note in the configured external editor, ready for
  editing as plain markdown. If no title is given, notes are displayed with
  a fuzzy finder and content preview for selection. The edited markdown is
  saved back to the vault on exit.`,
		Example: "quill open cli-notes or quill open",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return run(cmd, s, query)
		},
	}

	return cmd
}

func run(cmd *cobra.Command, s *state.State, query string) error {
	ctx := cmd.Context()

	notes, err := s.Store.Notes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		return fmt.Errorf("the vault has no notes yet. Create one with 'quill new [title]'")
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			return notes[i].Content
		}),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}

	idx, err := fuzzyfinder.Find(notes, func(i int) string {
		return notes[i].Title
	}, options...)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return nil
		}
		return err
	}

	return editExternally(cmd, s, notes[idx])
}

// editExternally round-trips one note through a temp file and the user's
// editor, then saves the result back to the vault.
func editExternally(cmd *cobra.Command, s *state.State, n store.Note) error {
	editor := s.Config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	f, err := os.CreateTemp("", "quill-*.md")
	if err != nil {
		return err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(n.Content); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	parts := strings.Fields(editor)
	parts = append(parts, path)
	ed := exec.Command(parts[0], parts[1:]...)
	ed.Stdin = os.Stdin
	ed.Stdout = os.Stdout
	ed.Stderr = os.Stderr
	if err := ed.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if string(edited) == n.Content {
		return nil
	}

	n.Content = string(edited)
	n.UpdatedAt = time.Now().UTC()
	if err := s.Store.PutNote(cmd.Context(), n); err != nil {
		return err
	}
	return s.Store.Flush(cmd.Context())
}
