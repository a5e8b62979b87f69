package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/internal/store"
)

func NewCmdExport(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export [dir]",
		Aliases: []string{"ex"},
		Short:   "Export the vault as markdown files.",
		Long: `This command writes every note as a .md file under the given directory,
  mirroring the folder tree. Titles become file names; characters that do
  not survive as file names are replaced.`,
		Example: "quill export ~/notes-backup",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args[0])
		},
	}

	return cmd
}

func run(cmd *cobra.Command, s *state.State, dir string) error {
	ctx := cmd.Context()

	notes, err := s.Store.Notes(ctx)
	if err != nil {
		return err
	}
	folders, err := s.Store.Folders(ctx)
	if err != nil {
		return err
	}

	paths := folderPaths(folders)
	written := 0
	for _, n := range notes {
		rel := fileName(n.Title)
		if folder := paths[n.FolderID]; folder != "" {
			rel = filepath.Join(folder, rel)
		}

		dest := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, []byte(n.Content+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		written++
	}

	fmt.Printf("Exported %d notes to %s\n", written, dir)
	return nil
}

func folderPaths(folders []store.Folder) map[string]string {
	byID := make(map[string]store.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	paths := map[string]string{"": ""}
	var build func(id string, depth int) string
	build = func(id string, depth int) string {
		if p, ok := paths[id]; ok {
			return p
		}
		f, ok := byID[id]
		if !ok || depth > len(folders) {
			return ""
		}
		p := sanitize(f.Name)
		if parent := build(f.ParentID, depth+1); parent != "" {
			p = filepath.Join(parent, p)
		}
		paths[id] = p
		return p
	}
	for id := range byID {
		build(id, 0)
	}
	return paths
}

var unsafe = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")

func sanitize(name string) string {
	name = strings.TrimSpace(unsafe.Replace(name))
	if name == "" {
		name = "untitled"
	}
	return name
}

func fileName(title string) string {
	return sanitize(title) + ".md"
}
