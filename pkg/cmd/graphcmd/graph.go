// Package graphcmd emits the wiki-link graph as JSON for external
// visualization tools.
package graphcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/graph"
	"github.com/quillmd/quill/internal/state"
)

func NewCmdGraph(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "graph",
		Aliases: []string{"g"},
		Short:   "Emit the note graph as JSON.",
		Long: heredoc.Doc(`
			This command scans every note for wiki-links and prints the resulting
			node/edge list as JSON. Notes in folders matching a configured ignore
			glob are excluded. Pass --unresolved to list link targets that match
			no note instead.
		`),
		Example: "quill graph > graph.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s)
		},
	}

	cmd.Flags().StringP("out", "o", "", "Write JSON to a file instead of stdout")
	cmd.Flags().Bool("unresolved", false, "List unresolved wiki-link targets instead of the graph")
	return cmd
}

func run(cmd *cobra.Command, s *state.State) error {
	ctx := cmd.Context()

	notes, err := s.Store.Notes(ctx)
	if err != nil {
		return err
	}

	var payload any
	if unresolved, _ := cmd.Flags().GetBool("unresolved"); unresolved {
		payload = graph.Unresolved(notes)
	} else {
		folders, err := s.Store.Folders(ctx)
		if err != nil {
			return err
		}
		start := time.Now()
		g := graph.Build(notes, folders, s.Config.Graph.IgnoredFolders)
		s.Logger.GraphBuilt(len(g.Nodes), len(g.Links), time.Since(start))
		payload = g
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
