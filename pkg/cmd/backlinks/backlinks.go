package backlinks

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/graph"
	"github.com/quillmd/quill/internal/state"
)

func NewCmdBacklinks(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backlinks [title]",
		Aliases: []string{"bl"},
		Short:   "List the notes that link to a note.",
		Long: heredoc.Doc(`
			This command lists every note whose content contains a wiki-link to
			the given title. Matching is case-insensitive and runs the same link
			recognizer as the graph, so the two surfaces always agree.
		`),
		Example: "quill backlinks 'Project Alpha'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := s.Store.Notes(cmd.Context())
			if err != nil {
				return err
			}

			linked := graph.Backlinks(args[0], notes)
			if len(linked) == 0 {
				fmt.Printf("No notes link to %q\n", args[0])
				return nil
			}
			for _, n := range linked {
				fmt.Println(n.Title)
			}
			return nil
		},
	}

	return cmd
}
