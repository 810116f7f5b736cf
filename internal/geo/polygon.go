package geo

import (
	"errors"
	"math"
)

// ErrInvalidPolygon is returned when a polygon has fewer than 3 vertices.
var ErrInvalidPolygon = errors.New("polygon must have at least 3 vertices")

// slopeEpsilon keeps the crossing test finite on horizontal edges.
const slopeEpsilon = 1e-12

// Point is a WGS84 position in degrees.
type Point struct {
	Lon float64 `yaml:"lon" json:"lon"`
	Lat float64 `yaml:"lat" json:"lat"`
}

// Polygon is an ordered, implicitly closed ring of (lon, lat) vertices.
type Polygon []Point

// BBox is an axis aligned box in degrees.
type BBox struct {
	LonMin float64 `yaml:"lon_min" json:"lon_min"`
	LonMax float64 `yaml:"lon_max" json:"lon_max"`
	LatMin float64 `yaml:"lat_min" json:"lat_min"`
	LatMax float64 `yaml:"lat_max" json:"lat_max"`
}

// Validate checks the polygon has enough vertices to enclose an area.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return ErrInvalidPolygon
	}
	return nil
}

// Bounds returns the bounding box of all vertices.
func (p Polygon) Bounds() BBox {
	if len(p) == 0 {
		return BBox{}
	}

	b := BBox{LonMin: math.Inf(1), LonMax: math.Inf(-1), LatMin: math.Inf(1), LatMax: math.Inf(-1)}
	for _, v := range p {
		b.LonMin = math.Min(b.LonMin, v.Lon)
		b.LonMax = math.Max(b.LonMax, v.Lon)
		b.LatMin = math.Min(b.LatMin, v.Lat)
		b.LatMax = math.Max(b.LatMax, v.Lat)
	}
	return b
}

// Contains reports whether pt lies inside the polygon using the even-odd
// (ray casting) rule. The ray is cast towards increasing longitude.
func Contains(poly Polygon, pt Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := poly[i].Lon, poly[i].Lat
		xj, yj := poly[j].Lon, poly[j].Lat

		if (yi > pt.Lat) != (yj > pt.Lat) &&
			pt.Lon < (xj-xi)*(pt.Lat-yi)/((yj-yi)+slopeEpsilon)+xi {
			inside = !inside
		}
	}
	return inside
}

// Width returns the longitude extent of the box.
func (b BBox) Width() float64 { return b.LonMax - b.LonMin }

// Height returns the latitude extent of the box.
func (b BBox) Height() float64 { return b.LatMax - b.LatMin }

// Contains reports whether pt lies inside the box, edges included.
func (b BBox) Contains(pt Point) bool {
	return pt.Lon >= b.LonMin && pt.Lon <= b.LonMax && pt.Lat >= b.LatMin && pt.Lat <= b.LatMax
}
