package root

import (
	"github.com/spf13/cobra"

	"github.com/quillmd/quill/internal/constants"
	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/pkg/cmd/backlinks"
	"github.com/quillmd/quill/pkg/cmd/backup"
	"github.com/quillmd/quill/pkg/cmd/chat"
	"github.com/quillmd/quill/pkg/cmd/export"
	"github.com/quillmd/quill/pkg/cmd/graphcmd"
	"github.com/quillmd/quill/pkg/cmd/importer"
	"github.com/quillmd/quill/pkg/cmd/initialize"
	"github.com/quillmd/quill/pkg/cmd/new"
	"github.com/quillmd/quill/pkg/cmd/open"
	"github.com/quillmd/quill/pkg/cmd/settings"
	"github.com/quillmd/quill/tui/workspace"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "quill",
		Aliases: []string{"ql"},
		Version: constants.Version,
		Short:   "A markdown note workspace with wiki-links, live formatting and a link graph.",
		Long: `Quill keeps your notes as markdown in a single vault and lets you work on
  them in a structured editor. Notes link to each other with [[wiki-links]],
  and the link graph and backlinks stay derived from the saved markdown.

  Run without arguments to open the workspace.
  `,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workspace.Run(s)
		},
	}

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		new.NewCmdNew(s),
		open.NewCmdOpen(s),
		graphcmd.NewCmdGraph(s),
		backlinks.NewCmdBacklinks(s),
		importer.NewCmdImport(s),
		export.NewCmdExport(s),
		backup.NewCmdBackup(s),
		chat.NewCmdChat(s),
		settings.NewCmdSettings(s),
	)

	return cmd, nil
}
