package new

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/parser"
	"github.com/quillnotes/quill/internal/state"
)

func NewCmdNew(s *state.State) *cobra.Command {
	var noEdit bool

	cmd := &cobra.Command{
		Use:     "new [name]",
		Aliases: []string{"create"},
		Short:   "Create a new note and open it in your editor.",
		Long: heredoc.Doc(`
			The new command creates an empty markdown note in the notes
			directory and opens it. The .md extension is added when the
			name does not already carry one.

			Examples:
			  quill new meeting-notes
			  quill new projects/roadmap.md
			  quill new scratch --no-edit
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := parser.CreateName(args[0])
			path := filepath.Join(s.NotesDir, name)

			if err := s.Handler.CreateEmpty(path); err != nil {
				return err
			}
			fmt.Println("Created", name)

			if noEdit {
				return nil
			}
			return openInEditor(s, path)
		},
	}

	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Create the note without opening it")

	return cmd
}

func openInEditor(s *state.State, path string) error {
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
}
