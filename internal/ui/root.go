package ui

import (
	"github.com/joho/godotenv"
	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	configFile string
	viper      *viper.Viper
}

// config loads the run configuration and starts the logger.
func (o *rootOptions) config() (*properties.Config, error) {
	cfg, err := properties.Load(o.viper, o.configFile)
	if err != nil {
		return nil, err
	}
	if err := utils.InitLogger(cfg.LogMode); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{viper: properties.New()}

	cmd := &cobra.Command{
		Use:   "sargassum-dataset",
		Short: "Build sargassum segmentation datasets from annotated polygons",
		Long: `sargassum-dataset turns hand-drawn sargassum polygons into a segmentation
dataset: one Sentinel-2 image per polygon, a binary mask per image and a
manifest joining them.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			utils.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")

	cmd.AddCommand(
		newCreateDatasetCmd(opts),
		newListAnnotationsCmd(opts),
		newBBoxCmd(opts),
	)
	return cmd
}
