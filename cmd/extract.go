package cmd

import (
	"github.com/spf13/cobra"

	"vistopia-archiver/internal/extract"
	"vistopia-archiver/internal/media"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract media URLs from unprocessed article parts",
		Long: `Scans every article part not yet flagged processed for embedded media
URLs on the trusted domain, records new file references, and marks each part
processed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			extractor := media.NewExtractor(rt.cfg.Extract.DomainMarker)
			p := extract.New(rt.store, extractor, rt.cfg.Extract.BatchSize, rt.logger)
			return p.Run(cmd.Context())
		},
	}
}
