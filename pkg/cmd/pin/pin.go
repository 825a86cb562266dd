package pin

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/fzf"
	"github.com/quillnotes/quill/internal/state"
)

func NewCmdPin(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pin",
		Aliases: []string{"p"},
		Short:   "Manage pinned notes, which sort ahead of everything else.",
		Long: heredoc.Doc(`
			Pinned notes appear before all other notes in listings and
			search results, in the order they were pinned. Pins are stored
			per notes directory in the configuration file.

			Examples:
			  quill pin add inbox.md
			  quill pin remove inbox.md
			  quill pin list
		`),
	}

	cmd.AddCommand(
		newCmdPinAdd(s),
		newCmdPinRemove(s),
		newCmdPinList(s),
	)

	return cmd
}

func newCmdPinAdd(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "add [filename]",
		Short: "Pin a note by filename.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := resolveFilename(s, args, "Select note to pin.")
			if err != nil {
				return err
			}
			if err := s.Config.AddPin(s.NotesDir, filename); err != nil {
				return err
			}
			if err := s.Config.Save(); err != nil {
				return err
			}
			fmt.Println("Pinned", filename)
			return nil
		},
	}
}

func newCmdPinRemove(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [filename]",
		Aliases: []string{"rm"},
		Short:   "Unpin a note by filename.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := resolveFilename(s, args, "Select note to unpin.")
			if err != nil {
				return err
			}
			if err := s.Config.RemovePin(s.NotesDir, filename); err != nil {
				return err
			}
			if err := s.Config.Save(); err != nil {
				return err
			}
			fmt.Println("Unpinned", filename)
			return nil
		},
	}
}

func newCmdPinList(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pinned notes in pin order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pins := s.Pinned()
			if len(pins) == 0 {
				fmt.Println("No pinned notes.")
				return nil
			}
			for _, name := range pins {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// resolveFilename takes the filename argument if present, otherwise drops
// into the fuzzy finder.
func resolveFilename(s *state.State, args []string, header string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	finder := fzf.NewFuzzyFinder(s.Handler, header)
	path, err := finder.Run("")
	if err != nil {
		return "", err
	}
	if ref, err := s.Handler.Stat(path); err == nil {
		return ref.Filename(), nil
	}
	return path, nil
}
