package notes

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/state"
	tui "github.com/quillnotes/quill/internal/tui/notes"
)

func NewCmdNotes(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"n"},
		Short:   "Launch the interactive notes browser.",
		Long: heredoc.Doc(`
			The notes command opens the full-screen browser over your notes
			directory. Type to search filenames and contents, prefix with #
			to search hashtags, and use ctrl+p to pin the selected note.

			Examples:
			  quill notes
			  quill n
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(s)
		},
	}

	return cmd
}
