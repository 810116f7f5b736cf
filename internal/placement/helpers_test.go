package placement

import (
	"math"
	"testing"

	"github.com/woozymasta/windmap/internal/config"
	"github.com/woozymasta/windmap/internal/geo"

	"github.com/stretchr/testify/assert"
)

// roundingSlack covers the 6 decimal rounding applied after the distance check.
const roundingSlack = 1e-6

// scriptedSource replays fixed values, cycling when exhausted.
type scriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

// countingSource records how many draws a wrapped source served.
type countingSource struct {
	Source
	floats, ints int
}

func (c *countingSource) Float64() float64 {
	c.floats++
	return c.Source.Float64()
}

func (c *countingSource) IntN(n int) int {
	c.ints++
	return c.Source.IntN(n)
}

func unitSquare() geo.Polygon {
	return geo.Polygon{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}}
}

func dist(a, b geo.Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

// assertSpacing checks every point against all earlier points at the
// threshold in effect when the later one was accepted.
func assertSpacing(t *testing.T, pts []Candidate) {
	t.Helper()
	for j := range pts {
		for i := 0; i < j; i++ {
			d := dist(pts[i].Point, pts[j].Point)
			assert.GreaterOrEqual(t, d+roundingSlack, pts[j].MinDistance,
				"points %d and %d too close", i, j)
		}
	}
}

func assertInside(t *testing.T, land geo.Polygon, zone config.Zone, pts []Candidate) {
	t.Helper()
	for i, p := range pts {
		assert.True(t, geo.Contains(land, p.Point), "point %d outside polygon: %+v", i, p.Point)
		assert.True(t, zone.BBox.Contains(p.Point), "point %d outside zone box: %+v", i, p.Point)
	}
}
