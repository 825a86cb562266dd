package open

import (
	"os"
	"os/exec"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/fzf"
	"github.com/quillnotes/quill/internal/state"
)

func NewCmdOpen(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open [query]",
		Aliases: []string{"o"},
		Short:   "Fuzzy find a note and open it in your editor.",
		Long: heredoc.Doc(`
			The open command presents a fuzzy finder over every note in
			the notes directory, with a rendered markdown preview, and
			opens the selection in your configured editor.

			Examples:
			  quill open
			  quill open groceries
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			finder := fzf.NewFuzzyFinder(s.Handler, "Select note to open.")
			path, err := finder.Run(query)
			if err != nil {
				return err
			}

			editor := s.Config.Editor
			if editor == "" {
				editor = os.Getenv("EDITOR")
			}
			if editor == "" {
				editor = "vi"
			}

			ed := exec.Command(editor, path)
			ed.Stdin = os.Stdin
			ed.Stdout = os.Stdout
			ed.Stderr = os.Stderr
			return ed.Run()
		},
	}

	return cmd
}
