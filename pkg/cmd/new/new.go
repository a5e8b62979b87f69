package new

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/internal/store"
	"github.com/quillmd/quill/internal/templater"
)

var readClipboard = clipboard.ReadAll

func NewCmdNew(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new [title] [links]",
		Aliases: []string{"n"},
		Short:   "Create a new note.",
		Long: `
  This command creates a new note in your vault. It takes a required title
  argument and an optional space-separated list of wiki-link targets to seed
  the note with.

              [title]    [links]
  quill new robotics "Project Alpha Reading List"
  `,
		Example: "quill new cli-notes 'Go Zettelkasten'",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf(
					"error: No title given. Try again with 'quill new [title]'",
				)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	cmd.Flags().
		StringP(
			"template",
			"t",
			"blank",
			"Specify the template to use. Available templates: blank, daily, zet, meeting",
		)
	viper.BindPFlag("template", cmd.Flags().Lookup("template"))

	cmd.Flags().BoolP("pin", "p", false, "Pin the newly created note")
	cmd.Flags().
		Bool("paste", false, "Use the system clipboard as the note's initial content")
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	title := args[0]
	var links []string
	if len(args) > 1 {
		links = strings.Fields(args[1])
	}

	tmplName := viper.GetString("template")
	if !templater.AvailableTemplates[tmplName] {
		return fmt.Errorf(
			"invalid template specified: %s. Available templates are: %s",
			tmplName,
			strings.Join(s.Templater.Names(), ", "),
		)
	}

	content, err := s.Templater.Execute(tmplName, templater.TemplateData{
		Title: title,
		Date:  templater.DailyTitle(time.Now()),
		Links: links,
	})
	if err != nil {
		return fmt.Errorf("rendering template %s: %w", tmplName, err)
	}

	if paste, _ := cmd.Flags().GetBool("paste"); paste {
		msg, err := readClipboard()
		if err != nil {
			return fmt.Errorf("reading clipboard: %w", err)
		}
		if content != "" {
			content += "\n\n"
		}
		content += msg
	}

	n := store.NewNote(title, content, "")
	if pin, _ := cmd.Flags().GetBool("pin"); pin {
		n.Pinned = true
	}

	if err := s.Store.PutNote(cmd.Context(), n); err != nil {
		return err
	}
	if err := s.Store.Flush(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Created note %q (%s)\n", title, n.ID)
	return nil
}
