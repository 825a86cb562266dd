package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/order"
	"github.com/quillnotes/quill/internal/query"
	"github.com/quillnotes/quill/internal/state"
)

func NewCmdSearch(s *state.State) *cobra.Command {
	var tag string
	var since string

	cmd := &cobra.Command{
		Use:     "search [query]",
		Aliases: []string{"s", "find"},
		Short:   "Search note names, contents, or hashtags from the command line.",
		Long: heredoc.Doc(`
			The search command scans the notes directory and prints matching
			notes. Queries of two or more characters match filenames and
			contents, shorter queries match filenames only, and a leading #
			searches hashtags. Matching is case-insensitive.

			Examples:
			  quill search meeting
			  quill search "#project"
			  quill search --tag project
			  quill search budget --since "2 weeks ago"
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			if tag != "" {
				q = "#" + strings.TrimPrefix(tag, "#")
			}

			var cutoff time.Time
			if since != "" {
				t, err := dateparse.ParseAny(since)
				if err != nil {
					return fmt.Errorf("could not parse --since value %q: %w", since, err)
				}
				cutoff = t
			}

			return run(cmd, s, q, cutoff)
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Search for a hashtag, overrides the query argument")
	cmd.Flags().StringVar(&since, "since", "", "Only show notes modified after this time")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, q string, cutoff time.Time) error {
	done, err := s.StartScan(cmd.Context())
	if err != nil {
		return err
	}
	<-done

	refs := query.Evaluate(q, s.Index.Snapshot())
	if !cutoff.IsZero() {
		recent := refs[:0]
		for _, ref := range refs {
			if ref.ModifiedAt.After(cutoff) {
				recent = append(recent, ref)
			}
		}
		refs = recent
	}
	refs = order.Order(refs, s.Pinned(), s.SortKey())

	if len(refs) == 0 {
		fmt.Println("No matching notes.")
		return nil
	}

	pinned := make(map[string]struct{})
	for _, name := range s.Pinned() {
		pinned[name] = struct{}{}
	}
	for _, ref := range refs {
		fmt.Println(formatRef(ref, pinned))
	}
	return nil
}

func formatRef(ref note.Ref, pinned map[string]struct{}) string {
	marker := "  "
	if _, ok := pinned[ref.Filename()]; ok {
		marker = "* "
	}
	return fmt.Sprintf("%s%s\t%s", marker, ref.DisplayName, ref.ModifiedAt.Format("2006-01-02 15:04"))
}
