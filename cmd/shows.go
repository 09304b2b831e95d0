package cmd

import (
	"github.com/spf13/cobra"

	"vistopia-archiver/internal/syncer"
)

func newShowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shows",
		Short: "Sync show-detail documents for every content item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			s := syncer.NewShowSyncer(rt.api, rt.store, rt.logger)
			return s.Run(cmd.Context())
		},
	}
}
