package sentinel

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// BoundingBox is an axis-aligned footprint in geographic degrees.
type BoundingBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// ComputeBoundingBox returns the footprint of width 2*halfWidth and height
// 2*halfHeight centred on point. Extents are not validated.
func ComputeBoundingBox(point orb.Point, halfWidth, halfHeight float64) BoundingBox {
	corner := orb.Point{point.X() - halfWidth, point.Y() - halfHeight}
	return BoundingBox{
		XMin: corner.X(),
		YMin: corner.Y(),
		XMax: corner.X() + 2*halfWidth,
		YMax: corner.Y() + 2*halfHeight,
	}
}

// BoundingBoxForGeometry centres the footprint on the planar centroid of g.
func BoundingBoxForGeometry(g orb.Geometry, halfWidth, halfHeight float64) BoundingBox {
	centroid, _ := planar.CentroidArea(g)
	return ComputeBoundingBox(centroid, halfWidth, halfHeight)
}

func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.XMin, b.YMin},
		Max: orb.Point{b.XMax, b.YMax},
	}
}

func (b BoundingBox) Center() orb.Point {
	return b.Bound().Center()
}

func (b BoundingBox) Width() float64 {
	return b.XMax - b.XMin
}

func (b BoundingBox) Height() float64 {
	return b.YMax - b.YMin
}

// FeatureCollection wraps the footprint polygon the way the imagery
// backend expects its area of interest.
func (b BoundingBox) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(b.Bound().ToPolygon()))
	return fc
}
