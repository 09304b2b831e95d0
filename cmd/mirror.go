package cmd

import (
	"github.com/spf13/cobra"

	"vistopia-archiver/internal/mirror"
	"vistopia-archiver/internal/storage"
)

func newMirrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Mirror referenced media assets into object storage",
		Long: `Downloads every file reference not yet confirmed mirrored and uploads
the bytes into the object-storage bucket under a key derived from the source
URL. Failures are recorded per asset and retried on the next run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			blobs, err := storage.NewMinioProvider(storage.MinioConfig{
				Endpoint:  rt.cfg.Minio.Endpoint,
				Port:      rt.cfg.Minio.Port,
				UseSSL:    rt.cfg.Minio.UseSSL,
				AccessKey: rt.cfg.Minio.AccessKey,
				SecretKey: rt.cfg.Minio.SecretKey,
				Bucket:    rt.cfg.Minio.Bucket,
			})
			if err != nil {
				return err
			}

			m := mirror.New(rt.store, blobs, mirror.Config{
				BatchSize:  rt.cfg.Mirror.BatchSize,
				ScratchDir: rt.cfg.Mirror.ScratchDir,
				Timeout:    rt.cfg.APITimeout(),
			}, rt.logger)

			_, err = m.Run(cmd.Context())
			return err
		},
	}
}
