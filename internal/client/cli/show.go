package cli

import (
	"fmt"

	"github.com/dmitrijs2005/docanchor/internal/client/proof"
	"github.com/spf13/cobra"
)

func newShowCommand(st *state) *cobra.Command {
	var copyField string

	cmd := &cobra.Command{
		Use:   "show ID|FILENAME",
		Short: "Show the ledger proof of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()

			if _, err := a.load(ctx); err != nil {
				return err
			}
			doc, err := a.resolve(ctx, args[0])
			if err != nil {
				return err
			}

			v := a.presenter.Present(doc)
			fmt.Fprintln(a.out, styleBold.Render(v.Filename)+"  "+statusBadge(v.Status))
			fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("%s · %s · anchored %s", v.Size, v.Type, v.AnchoredAt)))
			fmt.Fprintln(a.out)
			for _, it := range v.Items {
				val := it.Value
				if !it.Available {
					val = formatMuted(val)
				}
				fmt.Fprintf(a.out, "%-16s %s\n", it.Label, val)
			}
			if v.Warning != "" {
				fmt.Fprintln(a.out, formatWarning(v.Warning))
			}

			if copyField == "" {
				return nil
			}
			f, err := proof.ParseField(copyField)
			if err != nil {
				return err
			}
			if _, err := a.presenter.Copy(doc, f); err != nil {
				return err
			}
			fmt.Fprintln(a.out, formatSuccess("Copied "+string(f)+" to clipboard"))
			return nil
		},
	}

	cmd.Flags().StringVar(&copyField, "copy", "", "copy a field to the clipboard (digest, file-id, tx-id, url, cid)")
	return cmd
}
