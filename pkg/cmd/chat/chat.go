// Package chat is the one-shot terminal surface for the assistant.
package chat

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quillmd/quill/internal/assistant"
	"github.com/quillmd/quill/internal/state"
)

func NewCmdChat(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chat [prompt]",
		Aliases: []string{"ask"},
		Short:   "Ask the assistant about a note.",
		Long: `This command sends a prompt to the assistant and streams the reply to
  the terminal. With --note, the named note's content and the notes it
  links to are included as context.`,
		Example: "quill chat --note 'Project Alpha' 'summarize the open tasks'",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringP("note", "n", "", "Title of the note to discuss")
	return cmd
}

func run(cmd *cobra.Command, s *state.State, prompt string) error {
	ctx := cmd.Context()

	req := assistant.Request{Prompt: prompt}
	if title, _ := cmd.Flags().GetString("note"); title != "" {
		notes, err := s.Store.Notes(ctx)
		if err != nil {
			return err
		}
		for _, n := range notes {
			if strings.EqualFold(n.Title, title) {
				req.NoteTitle = n.Title
				req.NoteText = n.Content
				break
			}
		}
		if req.NoteTitle == "" {
			return fmt.Errorf("no note titled %q", title)
		}
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	for chunk := range s.Assistant.Stream(ctx, req) {
		fmt.Print(chunk)
		if interactive {
			os.Stdout.Sync()
		}
	}
	fmt.Println()
	return nil
}
