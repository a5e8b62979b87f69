package settings

import (
	"fmt"

	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/state"
)

func NewCmdSettings(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"cfg"},
		Short:   "Show or change quill settings.",
		Long: `Without arguments this command prints the effective configuration. The
  subcommands change individual settings interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.Config
			fmt.Printf("vault:    %s\n", cfg.VaultFile)
			fmt.Printf("backend:  %s\n", cfg.Storage.Backend)
			fmt.Printf("theme:    %s\n", cfg.Theme)
			fmt.Printf("editor:   %s\n", cfg.Editor)
			fmt.Printf("model:    %s\n", cfg.Assistant.Model)
			return nil
		},
	}

	cmd.AddCommand(newCmdTheme(s), newCmdEditor(s))
	return cmd
}

func newCmdTheme(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Change the preview theme.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := selection.New(
				"Pick a preview theme.",
				[]string{"auto", "dark", "light", "dracula"},
			)
			sel.Filter = nil

			theme, err := sel.RunPrompt()
			if err != nil {
				return err
			}
			s.Config.Theme = theme
			return s.Config.Save()
		},
	}
}

func newCmdEditor(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "editor",
		Short: "Change the external editor used by 'quill open'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := selection.New(
				"Please select an editor option.",
				[]string{"nvim", "vim", "vscode", "nano"},
			)
			sel.Filter = nil

			editor, err := sel.RunPrompt()
			if err != nil {
				return err
			}
			if editor == "vscode" {
				editor = "code --wait"
			}
			s.Config.Editor = editor
			return s.Config.Save()
		},
	}
}
