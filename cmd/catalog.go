package cmd

import (
	"github.com/spf13/cobra"

	"vistopia-archiver/internal/syncer"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Sync the full content catalog",
		Long: `Paginates the remote content catalog and upserts every entry into the
document store. Any page reporting an error aborts the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			s := syncer.NewCatalogSyncer(rt.api, rt.store, rt.cfg.Sync.PageSize, rt.logger)
			return s.Run(cmd.Context())
		},
	}
}
