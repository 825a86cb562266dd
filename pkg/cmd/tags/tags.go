package tags

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/state"
	"github.com/quillnotes/quill/internal/tags"
)

func NewCmdTags(s *state.State) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"t"},
		Short:   "List hashtags across all notes, most frequent first.",
		Long: heredoc.Doc(`
			The tags command scans the notes directory and prints every
			hashtag with its occurrence count. Casing follows the first
			occurrence of each tag.

			Examples:
			  quill tags
			  quill tags --table
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := s.StartScan(cmd.Context())
			if err != nil {
				return err
			}
			<-done

			counts := tags.Refresh(s.Index.Snapshot(), nil)
			if len(counts) == 0 {
				fmt.Println("No hashtags found.")
				return nil
			}

			if table {
				showTagTable(counts)
				return nil
			}
			for _, tc := range counts {
				fmt.Printf("#%s (%d)\n", tc.Tag, tc.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "Render the tags as a table")

	return cmd
}

func showTagTable(counts []tags.TagCount) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"Tag", "Count"})
	for _, tc := range counts {
		w.Append([]string{"#" + tc.Tag, strconv.Itoa(tc.Count)})
	}
	w.Render()
}
