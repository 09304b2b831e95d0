package cmd

import (
	"github.com/spf13/cobra"

	"vistopia-archiver/internal/syncer"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run catalog sync followed by article sync",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			catalog := syncer.NewCatalogSyncer(rt.api, rt.store, rt.cfg.Sync.PageSize, rt.logger)
			if err := catalog.Run(cmd.Context()); err != nil {
				return err
			}

			articles := syncer.NewArticleSyncer(
				rt.api,
				rt.store,
				rt.cfg.Sync.ArticleBatchSize,
				rt.cfg.Sync.ArticleListCount,
				rt.logger,
			)
			return articles.Run(cmd.Context())
		},
	}
}
