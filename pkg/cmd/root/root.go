package root

import (
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/constants"
	"github.com/quillnotes/quill/internal/state"
	"github.com/quillnotes/quill/pkg/cmd/initialize"
	"github.com/quillnotes/quill/pkg/cmd/new"
	"github.com/quillnotes/quill/pkg/cmd/notes"
	"github.com/quillnotes/quill/pkg/cmd/open"
	"github.com/quillnotes/quill/pkg/cmd/pin"
	"github.com/quillnotes/quill/pkg/cmd/search"
	"github.com/quillnotes/quill/pkg/cmd/tags"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "quill",
		Short:   "Browse, search, and link a directory of markdown notes.",
		Version: constants.Version,
		Long: `Quill indexes a directory of markdown notes and gives you an
incremental search over filenames, contents, and hashtags, with pinned
notes kept at the top of every listing.

  quill            launch the interactive browser
  quill search wor search note names and contents
  quill tags       list hashtags by frequency
`,
		// Launch the browser when invoked bare.
		RunE: notes.NewCmdNotes(s).RunE,
	}

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		notes.NewCmdNotes(s),
		search.NewCmdSearch(s),
		tags.NewCmdTags(s),
		pin.NewCmdPin(s),
		new.NewCmdNew(s),
		open.NewCmdOpen(s),
	)

	return cmd, nil
}
