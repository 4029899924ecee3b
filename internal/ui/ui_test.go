package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBBoxCommand(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())
	t.Setenv("IMAGE_WIDTH", "0.02")
	t.Setenv("IMAGE_HEIGHT", "0.01")

	out, err := execute(t, "bbox", "--lon", "-60", "--lat", "15")
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection([]byte(out))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	bound := fc.Features[0].Geometry.Bound()
	assert.InDelta(t, -60.01, bound.Min.X(), 1e-9)
	assert.InDelta(t, -59.99, bound.Max.X(), 1e-9)
	assert.InDelta(t, 14.995, bound.Min.Y(), 1e-9)
	assert.InDelta(t, 15.005, bound.Max.Y(), 1e-9)
}

func TestBBoxCommandRequiresCoordinates(t *testing.T) {
	_, err := execute(t, "bbox", "--lon", "-60")
	assert.Error(t, err)
}

func TestListAnnotationsCommand(t *testing.T) {
	root := t.TempDir()
	raw := filepath.Join(root, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))
	fc := `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"date":"2021-05-03"},"geometry":{"type":"Polygon","coordinates":[[[-60,15],[-59.99,15],[-59.99,15.01],[-60,15]]]}},
{"type":"Feature","properties":{"date":"2021-05-01"},"geometry":{"type":"Polygon","coordinates":[[[-61,15],[-60.99,15],[-60.99,15.01],[-61,15]]]}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(raw, "sargassum-2021-05-03.json"), []byte(fc), 0644))
	t.Setenv("ROOT_PATH", root)

	out, err := execute(t, "list-annotations")
	require.NoError(t, err)

	assert.Contains(t, out, "sargassum-2021-05-03.json")
	assert.Contains(t, out, "2021-05-01")
	assert.Contains(t, out, "2021-05-03")
}

func TestListAnnotationsCommandMissingDirectory(t *testing.T) {
	t.Setenv("ROOT_PATH", filepath.Join(t.TempDir(), "nowhere"))

	_, err := execute(t, "list-annotations")
	assert.Error(t, err)
}
