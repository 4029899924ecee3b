package annotation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPolygons = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"date": "2021-05-03"},
      "geometry": {"type": "Polygon", "coordinates": [[[-64.84, 17.94], [-64.82, 17.94], [-64.82, 17.96], [-64.84, 17.96], [-64.84, 17.94]]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[-64.5, 17.5], [-64.4, 17.5], [-64.4, 17.6], [-64.5, 17.5]]]]}
    },
    {
      "type": "Feature",
      "properties": {"date": "2021-05-03"},
      "geometry": {"type": "Point", "coordinates": [-64.5, 17.5]}
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseGroup(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantClass string
		wantDate  string
		wantErr   bool
	}{
		{"class and date", "/data/raw/sargassum-2021-05-03.json", "sargassum", "2021-05-03", false},
		{"geojson extension", "raw/water-20210503.geojson", "water", "20210503", false},
		{"no separator", "raw/sargassum.json", "", "", true},
		{"empty class", "raw/-2021-05-03.json", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := ParseGroup(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClass, group.Class)
			assert.Equal(t, tt.wantDate, group.Date)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2021-05-03", "2021/05/03", "20210503", "2021-05-03T00:00:00Z"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	_, err := ParseDate("May 3rd")
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sargassum-2021-05-03.json", twoPolygons)
	writeFile(t, dir, "cloud-2021-06-10.json", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"date":1623283200000},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`)
	writeFile(t, dir, "notes.txt", "ignored")

	annotations, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, annotations, 3)

	// cloud-... sorts before sargassum-...
	assert.Equal(t, "cloud", annotations[0].ClassLabel)
	assert.Equal(t, time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC), annotations[0].CaptureDate)

	assert.Equal(t, "sargassum", annotations[1].ClassLabel)
	assert.IsType(t, orb.Polygon{}, annotations[1].Geometry)
	assert.Equal(t, time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC), annotations[1].CaptureDate)

	// Feature without a date property falls back to the file name date.
	assert.IsType(t, orb.MultiPolygon{}, annotations[2].Geometry)
	assert.Equal(t, time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC), annotations[2].CaptureDate)
	assert.Equal(t, filepath.Join(dir, "sargassum-2021-05-03.json"), annotations[2].Source)
}

func TestLoadDirConfigurationErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadDir(filepath.Join(t.TempDir(), "raw"))
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := LoadDir(t.TempDir())
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("malformed file name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "sargassum.json", twoPolygons)
		_, err := LoadDir(dir)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("invalid geojson", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "sargassum-2021-05-03.json", "{not json")
		_, err := LoadDir(dir)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("undated feature with undated file name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "sargassum-batch.json", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`)
		_, err := LoadDir(dir)
		require.ErrorIs(t, err, ErrConfiguration)
	})
}
