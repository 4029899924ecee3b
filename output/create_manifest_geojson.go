package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/sargassum-watch/sargassum-dataset/internal/dataset"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"go.uber.org/zap"
)

// ManifestCRS is WGS84 in longitude, latitude axis order.
const ManifestCRS = "urn:ogc:def:crs:OGC:1.3:CRS84"

// ManifestFeatureCollection converts the manifest to one feature per row.
func ManifestFeatureCollection(manifest dataset.Manifest) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"crs": map[string]interface{}{
			"type":       "name",
			"properties": map[string]string{"name": ManifestCRS},
		},
	}

	for _, row := range manifest {
		feature := geojson.NewFeature(row.Geometry)
		feature.Properties = geojson.Properties{
			"class":             row.Class,
			"date":              row.Date,
			"source":            row.Source,
			"spacecraft_name":   row.SpacecraftName,
			"azimuth_angle":     row.AzimuthAngle,
			"zenith_angle":      row.ZenithAngle,
			"time":              row.Time,
			"path":              row.ImagePath,
			"mask_path":         row.MaskPath,
			"acquisition_error": row.AcquisitionError,
			"mask_error":        row.MaskError,
		}
		fc.Append(feature)
	}
	return fc
}

func CreateManifestGeoJSON(manifest dataset.Manifest, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating GeoJSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ManifestFeatureCollection(manifest)); err != nil {
		return fmt.Errorf("error encoding GeoJSON: %w", err)
	}

	utils.Logger.Info("GeoJSON manifest created", zap.String("path", outputPath), zap.Int("rows", len(manifest)))
	return nil
}
