package placement

import (
	"github.com/woozymasta/windmap/internal/config"
	"github.com/woozymasta/windmap/internal/geo"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultAttempts is the number of trials in one sampling pass.
	DefaultAttempts = 12000
	// DefaultRelaxFactor shrinks the minimum distance after a pass without acceptance.
	DefaultRelaxFactor = 0.9
	// DefaultDistanceFloor is the smallest minimum distance tried before giving up.
	DefaultDistanceFloor = 0.003

	coordDecimals = 6
)

// Candidate is an accepted position together with the spacing rule it was
// accepted under.
type Candidate struct {
	geo.Point
	// MinDistance is the threshold in effect at acceptance.
	MinDistance float64
	// Epoch counts the relaxations that happened before acceptance.
	Epoch int
}

// ZoneResult is the outcome of sampling one zone.
type ZoneResult struct {
	Points           []Candidate
	ClusterID        int
	Trials           int
	Relaxations      int
	FinalMinDistance float64
}

// Sampler places points inside a land polygon with a minimum pairwise
// distance, relaxing the distance whenever a whole pass makes no progress.
//
// Every candidate is checked against all accepted points, so a pass costs
// O(Attempts * accepted). Swapping in a spatial index would change which
// candidates are accepted and therefore the generated fleet.
type Sampler struct {
	Land          geo.Polygon
	Attempts      int
	RelaxFactor   float64
	DistanceFloor float64
}

// NewSampler returns a sampler with the default schedule.
func NewSampler(land geo.Polygon) *Sampler {
	return &Sampler{
		Land:          land,
		Attempts:      DefaultAttempts,
		RelaxFactor:   DefaultRelaxFactor,
		DistanceFloor: DefaultDistanceFloor,
	}
}

// Sample draws exactly zone.Count points from zone.BBox ∩ Land.
// Each trial consumes two draws from src: latitude, then longitude.
func (s *Sampler) Sample(src Source, zone config.Zone) (ZoneResult, error) {
	if err := s.Land.Validate(); err != nil {
		return ZoneResult{}, err
	}
	if err := zone.Validate(); err != nil {
		return ZoneResult{}, err
	}

	b := zone.BBox
	minDist := zone.MinDistance
	res := ZoneResult{
		ClusterID: zone.ClusterID,
		Points:    make([]Candidate, 0, zone.Count),
	}

	for len(res.Points) < zone.Count {
		before := len(res.Points)

		for range s.Attempts {
			res.Trials++
			lat := uniform(src, b.LatMin, b.LatMax)
			lon := uniform(src, b.LonMin, b.LonMax)
			pt := geo.Point{Lon: lon, Lat: lat}

			if !geo.Contains(s.Land, pt) || !farEnough(pt, res.Points, minDist) {
				continue
			}

			res.Points = append(res.Points, Candidate{
				Point: geo.Point{
					Lon: roundTo(lon, coordDecimals),
					Lat: roundTo(lat, coordDecimals),
				},
				MinDistance: minDist,
				Epoch:       res.Relaxations,
			})
			if len(res.Points) == zone.Count {
				break
			}
		}

		if len(res.Points) > before {
			continue
		}

		minDist *= s.RelaxFactor
		res.Relaxations++

		log.Debug().
			Int("cluster", zone.ClusterID).
			Int("placed", len(res.Points)).
			Int("target", zone.Count).
			Float64("min_dist", minDist).
			Msg("No progress in sampling pass, relaxing minimum distance")

		if minDist < s.DistanceFloor {
			res.FinalMinDistance = minDist
			return res, &InfeasiblePlacementError{
				ClusterID:   zone.ClusterID,
				Count:       zone.Count,
				Placed:      len(res.Points),
				BBox:        b,
				MinDistance: minDist,
				Floor:       s.DistanceFloor,
			}
		}
	}

	res.FinalMinDistance = minDist
	return res, nil
}

// farEnough reports whether pt keeps at least minDist from every accepted point.
func farEnough(pt geo.Point, accepted []Candidate, minDist float64) bool {
	limit := minDist * minDist
	for _, p := range accepted {
		dLat := pt.Lat - p.Lat
		dLon := pt.Lon - p.Lon
		if dLat*dLat+dLon*dLon < limit {
			return false
		}
	}
	return true
}
