package cli

import (
	"github.com/spf13/cobra"
)

func newVerifyCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "verify ID|FILENAME",
		Short: "Ask the service to re-check a document against the ledger",
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
			// outcome is reported through the notifier
			_, err = a.verifier.Reverify(ctx, doc.LocalID)
			return err
		},
	}
}
