package sentinel

import (
	"context"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Metadata keys a backend may report in RasterResult.Properties.
const (
	PropertySpacecraftName = "SPACECRAFT_NAME"
	PropertySolarAzimuth   = "MEAN_SOLAR_AZIMUTH_ANGLE"
	PropertySolarZenith    = "MEAN_SOLAR_ZENITH_ANGLE"
	PropertyTimeStart      = "system:time_start"
)

// RasterResult is what an ImageBackend returns for one acquisition.
// Properties is optional.
type RasterResult struct {
	ImagePath  string
	Properties map[string]any
}

// ImageBackend fetches the image covering the first feature of area for
// the given capture date. Implementations own caching and rate limiting.
type ImageBackend interface {
	Fetch(ctx context.Context, area *geojson.FeatureCollection, date time.Time) (*RasterResult, error)
}
