package output

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sargassum-watch/sargassum-dataset/internal/dataset"
	"github.com/sargassum-watch/sargassum-dataset/internal/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() dataset.Manifest {
	polygon := orb.Polygon{{{-60, 15}, {-59.99, 15}, {-59.99, 15.01}, {-60, 15.01}, {-60, 15}}}
	return dataset.Manifest{
		{
			Geometry:       polygon,
			WKT:            "POLYGON((-60 15,-59.99 15,-59.99 15.01,-60 15.01,-60 15))",
			Class:          "sargassum",
			Date:           "2021-05-03",
			SpacecraftName: "Sentinel-2A",
			AzimuthAngle:   "141.5",
			ZenithAngle:    "30.25",
			Time:           "1620000000000",
			ImagePath:      "/cache/images/a.tif",
			MaskPath:       "/mask/a.npy",
		},
		{
			Geometry:         polygon,
			WKT:              "POLYGON((-60 15,-59.99 15,-59.99 15.01,-60 15.01,-60 15))",
			Class:            "sargassum",
			Date:             "2021-05-04",
			AcquisitionError: "acquisition failed: image not found",
		},
	}
}

func TestCreateManifestGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.geojson")
	require.NoError(t, CreateManifestGeoJSON(testManifest(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Sentinel-2A", fc.Features[0].Properties.MustString("spacecraft_name"))
	assert.Equal(t, "/mask/a.npy", fc.Features[0].Properties.MustString("mask_path"))
	assert.Equal(t, "", fc.Features[1].Properties.MustString("path"))
	assert.IsType(t, orb.Polygon{}, fc.Features[0].Geometry)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	crs := raw["crs"].(map[string]interface{})
	assert.Equal(t, "urn:ogc:def:crs:OGC:1.3:CRS84", crs["properties"].(map[string]interface{})["name"])
}

func TestCreateManifestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, CreateManifestCSV(testManifest(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geometry,class,date,source,spacecraft_name")

	rows, err := ReadManifestCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, testManifest()[0].WKT, rows[0].WKT)
	assert.Equal(t, "1620000000000", rows[0].Time)
	assert.Equal(t, "acquisition failed: image not found", rows[1].AcquisitionError)
}

func TestCreateManifestParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.parquet")
	require.NoError(t, CreateManifestParquet(testManifest(), path))

	rows, err := ReadManifestParquet(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "/cache/images/a.tif", rows[0].ImagePath)
	assert.Equal(t, "2021-05-04", rows[1].Date)
	assert.Empty(t, rows[1].MaskPath)
}

func TestCreateMaskPreview(t *testing.T) {
	m := mask.New(4, 3)
	m.Set(1, 1, 1)
	path := filepath.Join(t.TempDir(), "preview.png")

	require.NoError(t, CreateMaskPreview(m, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 4*previewScale, img.Bounds().Dx())
	assert.Equal(t, 3*previewScale, img.Bounds().Dy())

	assert.Error(t, CreateMaskPreview(mask.New(0, 0), path))
}

func TestSummary(t *testing.T) {
	manifest := testManifest()
	manifest[0].MaskError = ""
	manifest = append(manifest, dataset.ManifestRow{Class: "sargassum", Date: "2021-05-05", ImagePath: "/cache/images/c.tif", MaskError: "rasterization failed"})

	summary := NewSummary("/data", "npy", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	summary.Count(manifest)
	summary.MaskShape = []int{201, 201}

	assert.Len(t, summary.RunID, 36)
	assert.Equal(t, 3, summary.Annotations)
	assert.Equal(t, 2, summary.Acquired)
	assert.Equal(t, 1, summary.Masked)
	assert.Equal(t, 1, summary.AcquisitionFailures)
	assert.Equal(t, 1, summary.RasterizationFailures)
	require.Len(t, summary.Failures, 2)
	assert.Equal(t, "acquisition", summary.Failures[0].Stage)
	assert.Equal(t, 2, summary.Failures[1].Index)

	path := filepath.Join(t.TempDir(), "summary.yaml")
	require.NoError(t, CreateSummary(summary, path))

	got, err := ReadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, got.RunID)
	assert.Equal(t, []int{201, 201}, got.MaskShape)
	assert.Equal(t, "EPSG:4326", got.CRS)
	assert.Equal(t, summary.Failures, got.Failures)
}
