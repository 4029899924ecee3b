package sentinel

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
)

// Tile is the pixel grid of a raster: a GDAL-style affine geotransform and
// its size in pixels.
type Tile struct {
	Path      string
	Transform [6]float64
	Width     int
	Height    int
}

// PixelCenter returns the geographic coordinate of the centre of pixel (x, y).
func (t *Tile) PixelCenter(x, y int) orb.Point {
	gt := t.Transform
	px, py := float64(x)+0.5, float64(y)+0.5
	return orb.Point{
		gt[0] + gt[1]*px + gt[2]*py,
		gt[3] + gt[4]*px + gt[5]*py,
	}
}

// LonLatToPixel maps a coordinate to the pixel containing it. Only
// north-up transforms (no rotation terms) are supported.
func (t *Tile) LonLatToPixel(lon, lat float64) (int, int, error) {
	gt := t.Transform
	if gt[2] != 0 || gt[4] != 0 {
		return 0, 0, fmt.Errorf("rotated geotransform is not supported")
	}
	col := int(math.Floor((lon - gt[0]) / gt[1]))
	row := int(math.Floor((lat - gt[3]) / gt[5]))
	if col < 0 || col >= t.Width || row < 0 || row >= t.Height {
		return 0, 0, fmt.Errorf("latitude %f and longitude %f are out of bounds for the image", lat, lon)
	}
	return col, row, nil
}

// Bound is the geographic extent covered by the tile's pixels.
func (t *Tile) Bound() orb.Bound {
	gt := t.Transform
	w, h := float64(t.Width), float64(t.Height)
	corners := []orb.Point{
		{gt[0], gt[3]},
		{gt[0] + gt[1]*w, gt[3] + gt[4]*w},
		{gt[0] + gt[2]*h, gt[3] + gt[5]*h},
		{gt[0] + gt[1]*w + gt[2]*h, gt[3] + gt[4]*w + gt[5]*h},
	}
	bound := corners[0].Bound()
	for _, c := range corners[1:] {
		bound = bound.Extend(c)
	}
	return bound
}

// TileReader opens the pixel grid of a raster file.
type TileReader interface {
	ReadTile(path string) (*Tile, error)
}

// GDALTileReader reads tiles with GDAL.
type GDALTileReader struct{}

func (GDALTileReader) ReadTile(path string) (*Tile, error) {
	utils.RegisterGDAL()

	var tile *Tile
	var err error
	utils.ExecuteWithMutex(func() {
		tile, err = readTile(path)
	})
	return tile, err
}

func readTile(path string) (*Tile, error) {
	ds, err := godal.Open(path, godal.RasterOnly(), godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal: %s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open TIFF file: %w", err)
	}
	defer ds.Close()

	geoTransform, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get GeoTransform: %w", err)
	}

	structure := ds.Structure()
	return &Tile{
		Path:      path,
		Transform: geoTransform,
		Width:     structure.SizeX,
		Height:    structure.SizeY,
	}, nil
}
