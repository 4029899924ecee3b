package ui

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/sargassum-watch/sargassum-dataset/internal/sentinel"
	"github.com/spf13/cobra"
)

func newBBoxCmd(opts *rootOptions) *cobra.Command {
	var lon, lat float64

	cmd := &cobra.Command{
		Use:   "bbox",
		Short: "Print the acquisition footprint around a point as GeoJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			bbox := sentinel.ComputeBoundingBox(orb.Point{lon, lat}, cfg.ImageWidth/2, cfg.ImageHeight/2)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(bbox.FeatureCollection())
		},
	}

	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("lat")
	return cmd
}
