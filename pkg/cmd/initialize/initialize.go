package initialize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/pathutil"
	"github.com/quillnotes/quill/internal/state"
)

func NewCmdInit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init [notes-dir]",
		Aliases: []string{"initialize"},
		Short:   "Set up the notes directory and default sort order.",
		Long: heredoc.Doc(`
			The init command walks you through configuring quill: where
			your markdown notes live and how unpinned notes are sorted.
			The directory is created when it does not exist.

			Examples:
			  quill init
			  quill init ~/notes
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notesDir := ""
			if len(args) == 1 {
				notesDir = args[0]
			} else {
				input := textinput.New("Where do your notes live?")
				input.InitialValue = filepath.Join(s.Home, "notes")
				dir, err := input.RunPrompt()
				if err != nil {
					return err
				}
				notesDir = dir
			}

			notesDir = expandHome(s.Home, notesDir)
			if err := os.MkdirAll(notesDir, 0o755); err != nil {
				return fmt.Errorf("failed to create notes directory: %w", err)
			}

			sel := selection.New(
				"How should unpinned notes be sorted?",
				[]string{"alphabetical", "modified"},
			)
			sel.Filter = nil
			sortKey, err := sel.RunPrompt()
			if err != nil {
				return err
			}

			s.Config.NotesDir = pathutil.NormalizePath(notesDir)
			s.Config.Sort = sortKey
			if err := s.Config.Save(); err != nil {
				return err
			}

			fmt.Println("Configured notes directory:", s.Config.NotesDir)
			return nil
		},
	}

	return cmd
}

func expandHome(home, dir string) string {
	if dir == "~" {
		return home
	}
	if len(dir) > 1 && dir[0] == '~' && os.IsPathSeparator(dir[1]) {
		return filepath.Join(home, dir[2:])
	}
	return dir
}
