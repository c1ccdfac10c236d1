package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/docanchor/internal/client/models"
	"github.com/dmitrijs2005/docanchor/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docanchor/internal/client/services"
	"github.com/dmitrijs2005/docanchor/internal/filex"
	"github.com/spf13/cobra"
)

func newUploadCommand(st *state) *cobra.Command {
	var (
		identity bool
		kind     string
		noWait   bool
	)

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Hash and anchor one or more files",
		Long: `Hash each file locally and submit it to the anchoring service.

General uploads accept PDF, JPG, PNG and DOCX up to the general size limit.
With --identity, files go through the identity-document checks instead
(JPG, PNG, PDF; smaller limit).

Progress shown before the service answers is an estimate.

Examples:
  docanchor upload contract.pdf
  docanchor upload --identity --kind passport scan.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()

			userID, err := a.requireUser()
			if err != nil {
				return err
			}

			req := services.UploadRequest{UserID: userID, Flow: models.FlowGeneral}
			if identity {
				k, err := models.ParseIdentityKind(kind)
				if err != nil {
					return err
				}
				req.Flow, req.Kind = models.FlowIdentity, k
			}

			files := make([]services.File, 0, len(args))
			for _, p := range args {
				f, err := filex.OpenLocal(p)
				if err != nil {
					return err
				}
				files = append(files, f)
			}

			stop := a.showProgress()
			outcomes, err := a.uploads.UploadAll(ctx, req, files...)
			stop()

			if !noWait {
				a.refresher.Wait()
				docs, _ := a.repo.List(ctx)
				if len(docs) > 0 {
					fmt.Fprintln(a.out)
					a.printDocuments(docs)
				}
			}

			if err != nil {
				failed := 0
				for _, o := range outcomes {
					if o.Err != nil {
						failed++
					}
				}
				return fmt.Errorf("%d of %d uploads failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&identity, "identity", false, "upload an identity document")
	cmd.Flags().StringVar(&kind, "kind", "", "identity document kind (passport, national_id, driving_license)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "do not wait for the document list to refresh")
	return cmd
}

// showProgress prints a bar whenever an upload's progress changes.
func (a *App) showProgress() (stop func()) {
	bar := newBar()
	last := map[string]int{}

	return a.repo.Subscribe(func(c documents.Change) {
		if c.Kind != documents.ChangeAppend && c.Kind != documents.ChangePatch {
			return
		}
		for _, d := range c.Documents {
			if !slices.Contains(c.LocalIDs, d.LocalID) || d.Status != models.StatusUploading {
				continue
			}
			if p, seen := last[d.LocalID]; seen && p == d.Progress {
				continue
			}
			last[d.LocalID] = d.Progress
			fmt.Fprintf(a.out, "%-24s %s %3d%%\n", truncate(d.Filename, 24), bar.ViewAs(float64(d.Progress)/100), d.Progress)
		}
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// uploadOne is shared by upload-like commands that handle a single file.
func (a *App) uploadOne(ctx context.Context, req services.UploadRequest, path string) (models.Document, error) {
	f, err := filex.OpenLocal(path)
	if err != nil {
		return models.Document{}, err
	}
	return a.uploads.Upload(ctx, req, f)
}
