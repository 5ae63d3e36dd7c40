package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var yes, purge bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all recorded assessments",
		Long: `Delete all recorded assessments.

By default the store is overwritten with an empty list. With --purge the
storage slot itself is removed from the backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all assessments without --yes")
			}

			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.Close()

			n := e.store.Len()
			if purge {
				err = e.store.Purge(cmd.Context())
			} else {
				err = e.store.Clear(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("clear submissions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "All data cleared successfully (%d record(s) removed)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	cmd.Flags().BoolVar(&purge, "purge", false, "Remove the storage slot instead of writing an empty list")
	return cmd
}
