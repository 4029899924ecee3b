package mask

import (
	"path/filepath"
	"testing"

	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterID(t *testing.T) {
	assert.Equal(t, "abc123", RasterID("/cache/images/abc123.tif"))
	assert.Equal(t, "S2A_20210503", RasterID("S2A_20210503.B02.tif"))
	assert.Equal(t, "plain", RasterID("plain"))
}

func TestStoreNPYRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "mask"), "")
	m := New(4, 4)
	m.Set(1, 2, 1)
	m.Set(3, 3, 1)

	path, err := store.Save("raster", m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir, "raster.npy"), path)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Data, got.Data)
}

func TestStoreGeoTIFFRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), properties.MaskFormatTIFF)
	m := New(3, 2)
	m.Transform = [6]float64{-60, 0.001, 0, 15, 0, -0.001}
	m.Set(0, 0, 1)
	m.Set(2, 1, 1)

	path, err := store.Save("raster", m)
	require.NoError(t, err)
	assert.Equal(t, ".tif", filepath.Ext(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Width)
	assert.Equal(t, 2, got.Height)
	assert.Equal(t, m.Data, got.Data)
	assert.InDeltaSlice(t, m.Transform[:], got.Transform[:], 1e-9)
}

func TestStoreUnknownFormat(t *testing.T) {
	_, err := NewStore(t.TempDir(), "png").Save("raster", New(1, 1))
	assert.Error(t, err)

	_, err = Load("mask.png")
	assert.Error(t, err)
}
