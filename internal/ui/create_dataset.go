package ui

import (
	"fmt"

	"github.com/sargassum-watch/sargassum-dataset/internal/delivery"
	"github.com/sargassum-watch/sargassum-dataset/internal/notification"
	"github.com/sargassum-watch/sargassum-dataset/internal/sentinel"
	"github.com/spf13/cobra"
)

func newCreateDatasetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-dataset",
		Short: "Acquire imagery and rasterize masks for every annotation",
		Long: `Reads every <class>-<date>.json annotation file under the raw directory,
fetches one Sentinel-2 image per polygon, writes a mask per image and the
manifest under <root>/processed/segmentation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			PrintBanner(out)

			cfg, err := opts.config()
			if err != nil {
				return err
			}

			backend, err := delivery.NewSentinelClient(cfg)
			if err != nil {
				return err
			}

			run := &delivery.DatasetRun{
				Config:   cfg,
				Backend:  backend,
				Tiles:    sentinel.GDALTileReader{},
				Notifier: notification.NewDiscord(cfg.DiscordErrorURL, cfg.DiscordSuccessURL),
			}

			PrintInfo(out, "Creating dataset from %s", cfg.RawDir)
			summary, err := run.CreateDataset(cmd.Context())
			if err != nil {
				PrintError(out, err.Error())
				return err
			}

			if summary.Annotations > 0 && summary.Acquired == 0 {
				PrintWarning(out, "every acquisition failed, the manifest has no imagery")
			}
			PrintSuccess(out, fmt.Sprintf("Dataset created successfully!\n%s\nManifest: %s", summary, cfg.ManifestDir()))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("root", "", "data root directory")
	flags.Int("workers", 0, "concurrent acquisitions")
	flags.String("mask-format", "", "mask file format: npy or tif")
	flags.Bool("preview", false, "write PNG quicklooks of the masks")

	bind := map[string]string{
		"root_path":           "root",
		"acquisition_workers": "workers",
		"mask_format":         "mask-format",
		"mask_preview":        "preview",
	}
	for key, flag := range bind {
		_ = opts.viper.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}
