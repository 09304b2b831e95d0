package cmd

import (
	"github.com/spf13/cobra"

	"vistopia-archiver/internal/syncer"
)

func newArticlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "articles",
		Short: "Incrementally sync article parts",
		Long: `Fetches article parts for content items whose remote update time passed
the persisted watermark. The watermark advances to the run-start timestamp
after a full pass; individual article failures are logged and retried on the
next cycle.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			s := syncer.NewArticleSyncer(
				rt.api,
				rt.store,
				rt.cfg.Sync.ArticleBatchSize,
				rt.cfg.Sync.ArticleListCount,
				rt.logger,
			)
			return s.Run(cmd.Context())
		},
	}
}
