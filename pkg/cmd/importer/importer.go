// Package importer pulls existing markdown files into the vault.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/internal/store"
)

func NewCmdImport(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import [dir]",
		Aliases: []string{"im"},
		Short:   "Import markdown files into the vault.",
		Long: `This command imports every .md file under a directory as a note. The
  file name (without extension) becomes the title unless the file starts
  with a '# Heading' line. A 'created:' line in a YAML frontmatter block is
  parsed for the note's creation time; timestamps in most common formats
  are accepted.`,
		Example: "quill import ~/old-notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args[0])
		},
	}

	cmd.Flags().Bool("dry-run", false, "List what would be imported without writing")
	return cmd
}

func run(cmd *cobra.Command, s *state.State, dir string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	imported := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		n := noteFromFile(path, string(data))
		if dryRun {
			fmt.Printf("would import %q from %s\n", n.Title, path)
			return nil
		}

		if err := s.Store.PutNote(ctx, n); err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		imported++
		return nil
	})
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	if err := s.Store.Flush(ctx); err != nil {
		return err
	}
	fmt.Printf("Imported %d notes\n", imported)
	return nil
}

// noteFromFile builds a note from one markdown file, stripping frontmatter
// and deriving title and creation time.
func noteFromFile(path, content string) store.Note {
	front, body := splitFrontmatter(content)

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "# ") {
		line := trimmed
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
	}

	n := store.NewNote(title, strings.TrimSpace(body), "")

	for _, line := range strings.Split(front, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "created" {
			continue
		}
		if ts, err := dateparse.ParseAny(strings.TrimSpace(value)); err == nil {
			n.CreatedAt = ts.UTC()
		}
		break
	}

	return n
}

// splitFrontmatter separates a leading YAML frontmatter block from the
// body. Content without one comes back with an empty frontmatter.
func splitFrontmatter(content string) (front, body string) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content
	}
	front = rest[:end]
	body = rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return front, body
}
