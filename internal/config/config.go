// Package config handles placement plan loading and validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/woozymasta/windmap/internal/geo"

	"gopkg.in/yaml.v3"
)

// ErrInvalidZone is wrapped by every InvalidZoneError.
var ErrInvalidZone = errors.New("invalid zone configuration")

// Plan represents the root placement plan structure.
type Plan struct {
	// Land boundary as [lon, lat] pairs, implicitly closed.
	Polygon       [][2]float64 `yaml:"polygon" json:"polygon"`
	Zones         []Zone       `yaml:"zones" json:"zones"`
	CapacityRange [2]float64   `yaml:"capacity_range_mw,omitempty" json:"capacity_range_mw"`
	Seed          uint64       `yaml:"seed" json:"seed"`
}

// Zone configures one cluster of turbines.
type Zone struct {
	Label       string   `yaml:"label" json:"label"`
	BBox        geo.BBox `yaml:"bbox" json:"bbox"`
	ClusterID   int      `yaml:"cluster_id" json:"cluster_id"`
	Count       int      `yaml:"count" json:"count"`
	MinDistance float64  `yaml:"min_distance" json:"min_distance"`
}

// InvalidZoneError describes a zone rejected by Plan.Validate.
type InvalidZoneError struct {
	Field     string
	Reason    string
	ClusterID int
}

func (e *InvalidZoneError) Error() string {
	return fmt.Sprintf("zone %d: %s %s", e.ClusterID, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidZone).
func (e *InvalidZoneError) Unwrap() error { return ErrInvalidZone }

// Load reads and parses the YAML plan file from the specified path.
// Missing optional values are filled from the defaults.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if plan.CapacityRange == [2]float64{} {
		plan.CapacityRange = DefaultCapacityRange
	}

	return &plan, nil
}

// Land returns the plan polygon as geo vertices.
func (p *Plan) Land() geo.Polygon {
	poly := make(geo.Polygon, len(p.Polygon))
	for i, v := range p.Polygon {
		poly[i] = geo.Point{Lon: v[0], Lat: v[1]}
	}
	return poly
}

// TotalCount returns the sum of all zone counts.
func (p *Plan) TotalCount() int {
	total := 0
	for _, z := range p.Zones {
		total += z.Count
	}
	return total
}

// SortedZones returns a copy of the zones in ascending cluster id order.
func (p *Plan) SortedZones() []Zone {
	zones := make([]Zone, len(p.Zones))
	copy(zones, p.Zones)
	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].ClusterID < zones[j].ClusterID
	})
	return zones
}

// Validate checks all preconditions of a generation run.
func (p *Plan) Validate() error {
	if err := p.Land().Validate(); err != nil {
		return err
	}

	if len(p.Zones) == 0 {
		return errors.New("plan has no zones")
	}

	lo, hi := p.CapacityRange[0], p.CapacityRange[1]
	if !finite(lo, hi) || lo <= 0 || hi < lo {
		return fmt.Errorf("invalid capacity range [%g, %g]", lo, hi)
	}

	seen := make(map[int]bool, len(p.Zones))
	for _, z := range p.Zones {
		if seen[z.ClusterID] {
			return &InvalidZoneError{ClusterID: z.ClusterID, Field: "cluster_id", Reason: "is duplicated"}
		}
		seen[z.ClusterID] = true

		if err := z.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks a single zone.
func (z Zone) Validate() error {
	switch {
	case z.Count <= 0:
		return &InvalidZoneError{ClusterID: z.ClusterID, Field: "count", Reason: "must be positive"}
	case !finite(z.MinDistance):
		return &InvalidZoneError{ClusterID: z.ClusterID, Field: "min_distance", Reason: "must be finite"}
	case z.MinDistance <= 0:
		return &InvalidZoneError{ClusterID: z.ClusterID, Field: "min_distance", Reason: "must be positive"}
	case !finite(z.BBox.LonMin, z.BBox.LonMax, z.BBox.LatMin, z.BBox.LatMax):
		return &InvalidZoneError{ClusterID: z.ClusterID, Field: "bbox", Reason: "must be finite"}
	case z.BBox.LonMax <= z.BBox.LonMin || z.BBox.LatMax <= z.BBox.LatMin:
		return &InvalidZoneError{ClusterID: z.ClusterID, Field: "bbox", Reason: "is empty"}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
