package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleRowPerAnnotation(t *testing.T) {
	anns := annotations(3)
	acqs := []Acquisition{
		{ImagePath: "/images/a.tif", SpacecraftName: "Sentinel-2A", AzimuthAngle: "141.5", ZenithAngle: "30", AcquisitionTime: "1620000000000"},
		failed(errors.New("no scene")),
		{ImagePath: "/images/c.tif"},
	}
	masks := []MaskResult{
		{Path: "/mask/a.npy"},
		{},
		{Err: errors.New("rasterization failed: outside")},
	}

	manifest, err := Assemble(anns, acqs, masks)
	require.NoError(t, err)
	require.Len(t, manifest, 3)

	assert.Equal(t, "sargassum", manifest[0].Class)
	assert.Equal(t, "2021-05-01", manifest[0].Date)
	assert.Equal(t, "Sentinel-2A", manifest[0].SpacecraftName)
	assert.Equal(t, "/mask/a.npy", manifest[0].MaskPath)
	assert.Contains(t, manifest[0].WKT, "POLYGON")
	assert.Empty(t, manifest[0].AcquisitionError)

	assert.Empty(t, manifest[1].ImagePath)
	assert.Empty(t, manifest[1].SpacecraftName)
	assert.Empty(t, manifest[1].MaskPath)
	assert.Contains(t, manifest[1].AcquisitionError, "no scene")

	assert.Empty(t, manifest[2].MaskPath)
	assert.Contains(t, manifest[2].MaskError, "outside")

	assert.Equal(t, 2, manifest.Acquired())
	assert.Equal(t, 1, manifest.Masked())
}

func TestAssembleLengthMismatch(t *testing.T) {
	_, err := Assemble(annotations(2), make([]Acquisition, 1), make([]MaskResult, 2))
	assert.Error(t, err)

	_, err = Assemble(annotations(2), make([]Acquisition, 2), nil)
	assert.Error(t, err)
}
