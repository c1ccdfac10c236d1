package cli

import (
	"fmt"

	"github.com/dmitrijs2005/docanchor/internal/client/proof"
	"github.com/dmitrijs2005/docanchor/internal/filex"
	"github.com/spf13/cobra"
)

func newHashCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the local digest and content id without uploading",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			for _, p := range args {
				f, err := filex.OpenLocal(p)
				if err != nil {
					return err
				}
				rc, err := f.Open()
				if err != nil {
					return err
				}
				digest, err := a.hasher.Digest(rc)
				rc.Close()
				if err != nil {
					return fmt.Errorf("hash %s: %w", p, err)
				}
				cid, err := a.hasher.ContentID(digest)
				if err != nil {
					return err
				}

				fmt.Fprintln(a.out, styleBold.Render(f.Name())+"  "+formatMuted(f.Type()+" · "+proof.HumanSize(f.Size())))
				fmt.Fprintf(a.out, "  %-10s %s\n", a.hasher.Algorithm(), digest)
				fmt.Fprintf(a.out, "  %-10s %s\n", "cid", cid)
			}
			return nil
		},
	}
}
