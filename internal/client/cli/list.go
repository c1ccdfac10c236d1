package cli

import (
	"fmt"

	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/proof"
	"github.com/spf13/cobra"
)

func newListCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List anchored documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			docs, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintln(a.out, formatInfo("No documents yet."))
			} else {
				a.printDocuments(docs)
			}

			s := proof.Summarize(docs, a.cfg.FreeDocumentLimit)
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("%d documents, %d anchored, %d verified, %d pending. Free documents left: %d",
				s.Total, s.Anchored, s.Verified, s.Pending, s.FreeRemaining)))
			return nil
		},
	}
}

func (a *App) printDocuments(docs []models.Document) {
	t := &table{headers: []string{"ID", "FILE", "STATUS", "SIZE", "DIGEST", "EXPLORER"}}
	for _, d := range docs {
		link := a.explorer.Resolve(d)
		if link == "" {
			link = "-"
		}
		id := d.ID
		if id == "" {
			id = "-"
		}
		t.add(id, truncate(d.Filename, 32), statusBadge(d.Status), proof.HumanSize(d.FileSize), proof.ShortDigest(d.Digest), link)
	}
	t.render(a.out)
}
