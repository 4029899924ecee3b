package mask

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/sargassum-watch/sargassum-dataset/internal/sentinel"
)

// ErrRasterization is returned when a polygon cannot be burned into a tile.
// It is never turned into an empty mask.
var ErrRasterization = errors.New("rasterization failed")

type Rasterizer struct {
	TargetWidth  int
	TargetHeight int
}

func NewRasterizer(size int) *Rasterizer {
	if size <= 0 {
		size = properties.DefaultMaskSize
	}
	return &Rasterizer{TargetWidth: size, TargetHeight: size}
}

// Rasterize marks every pixel of tile whose centre lies inside geometry,
// then reconciles the result with the target size.
func (r *Rasterizer) Rasterize(tile *sentinel.Tile, geometry orb.Geometry) (*Mask, error) {
	m, err := Burn(tile, geometry)
	if err != nil {
		return nil, err
	}
	return Reconcile(m, r.TargetWidth, r.TargetHeight), nil
}

// Burn rasterizes geometry at the tile's native grid.
func Burn(tile *sentinel.Tile, geometry orb.Geometry) (*Mask, error) {
	if tile == nil || tile.Width <= 0 || tile.Height <= 0 {
		return nil, fmt.Errorf("%w: tile has an empty pixel grid", ErrRasterization)
	}

	contains, err := containsFunc(geometry)
	if err != nil {
		return nil, err
	}

	if !overlaps(tile.Bound(), geometry) {
		return nil, fmt.Errorf("%w: polygon %v lies outside tile %s extent %v", ErrRasterization, geometry.Bound(), tile.Path, tile.Bound())
	}

	m := New(tile.Width, tile.Height)
	m.Transform = tile.Transform
	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; x++ {
			if contains(tile.PixelCenter(x, y)) {
				m.Set(x, y, 1)
			}
		}
	}
	return m, nil
}

func containsFunc(geometry orb.Geometry) (func(orb.Point) bool, error) {
	switch g := geometry.(type) {
	case orb.Polygon:
		if len(g) == 0 || len(g[0]) < 3 {
			return nil, fmt.Errorf("%w: empty polygon", ErrRasterization)
		}
		return func(p orb.Point) bool { return planar.PolygonContains(g, p) }, nil
	case orb.MultiPolygon:
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: empty multipolygon", ErrRasterization)
		}
		return func(p orb.Point) bool { return planar.MultiPolygonContains(g, p) }, nil
	default:
		return nil, fmt.Errorf("%w: unsupported geometry %T", ErrRasterization, geometry)
	}
}

// overlaps reports whether geometry covers a non-zero area of bound.
// clip.Geometry works in place, so it gets a copy.
func overlaps(bound orb.Bound, geometry orb.Geometry) bool {
	if !bound.Intersects(geometry.Bound()) {
		return false
	}
	return area(clip.Geometry(bound, orb.Clone(geometry))) > 0
}

func area(g orb.Geometry) float64 {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 || len(g[0]) < 3 {
			return 0
		}
		return math.Abs(planar.Area(g))
	case orb.MultiPolygon:
		total := 0.0
		for _, p := range g {
			total += area(p)
		}
		return total
	default:
		return 0
	}
}

// Reconcile drops the last row when the mask is taller than height and the
// last column when it is wider than width. The imagery backend over-fetches
// by at most one pixel per axis, so nothing else is trimmed.
func Reconcile(m *Mask, width, height int) *Mask {
	w, h := m.Width, m.Height
	if h > height {
		h--
	}
	if w > width {
		w--
	}
	if w == m.Width && h == m.Height {
		return m
	}
	return m.Crop(w, h)
}
