// Package dataset defines the turbine placement artifact and its on-disk form.
package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInconsistent is wrapped by every Validate failure.
var ErrInconsistent = errors.New("inconsistent dataset")

// Dataset is the write-once artifact handed to the serving side.
type Dataset struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Turbines []Turbine `json:"turbines" yaml:"turbines"`
}

// Metadata summarises a generation run.
type Metadata struct {
	GeneratedAt         time.Time         `json:"generated_at" yaml:"generated_at"`
	TotalTurbines       int               `json:"total_turbines" yaml:"total_turbines"`
	ClusterDistribution map[string]int    `json:"cluster_distribution" yaml:"cluster_distribution"`
	Regions             map[string]string `json:"regions" yaml:"regions"`
	CapacityRangeMW     [2]float64        `json:"capacity_range_mw" yaml:"capacity_range_mw"`
}

// Turbine is a single placed entity.
type Turbine struct {
	TurbineID string  `json:"turbineId" yaml:"turbineId"`
	ClusterID int     `json:"clusterId" yaml:"clusterId"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Capacity  float64 `json:"capacity" yaml:"capacity"`
}

// FormatID returns the identifier for sequence number seq ("T000", "T001", ...).
func FormatID(seq int) string {
	return fmt.Sprintf("T%03d", seq)
}

// ParseID returns the sequence number of an identifier produced by FormatID.
func ParseID(id string) (int, error) {
	if len(id) < 4 || id[0] != 'T' {
		return 0, fmt.Errorf("malformed turbine id %q", id)
	}
	seq, err := strconv.Atoi(id[1:])
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("malformed turbine id %q", id)
	}
	return seq, nil
}

// ClusterKey is the metadata map key for a cluster id.
func ClusterKey(clusterID int) string {
	return strconv.Itoa(clusterID)
}

// Validate checks the artifact is internally consistent: counts add up,
// identifiers are dense and unique, and capacities stay in range.
func (d *Dataset) Validate() error {
	md := d.Metadata

	if md.TotalTurbines != len(d.Turbines) {
		return fmt.Errorf("%w: total_turbines=%d but %d turbines listed", ErrInconsistent, md.TotalTurbines, len(d.Turbines))
	}

	sum := 0
	for _, n := range md.ClusterDistribution {
		sum += n
	}
	if sum != md.TotalTurbines {
		return fmt.Errorf("%w: cluster distribution sums to %d, want %d", ErrInconsistent, sum, md.TotalTurbines)
	}

	lo, hi := md.CapacityRangeMW[0], md.CapacityRangeMW[1]
	seen := make([]bool, len(d.Turbines))
	perCluster := make(map[string]int, len(md.ClusterDistribution))

	for _, t := range d.Turbines {
		seq, err := ParseID(t.TurbineID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInconsistent, err)
		}
		if seq >= len(seen) || FormatID(seq) != t.TurbineID {
			return fmt.Errorf("%w: turbine id %s out of sequence", ErrInconsistent, t.TurbineID)
		}
		if seen[seq] {
			return fmt.Errorf("%w: duplicate turbine id %s", ErrInconsistent, t.TurbineID)
		}
		seen[seq] = true

		if t.Capacity < lo || t.Capacity > hi {
			return fmt.Errorf("%w: turbine %s capacity %g outside [%g, %g]", ErrInconsistent, t.TurbineID, t.Capacity, lo, hi)
		}

		key := ClusterKey(t.ClusterID)
		if _, ok := md.ClusterDistribution[key]; !ok {
			return fmt.Errorf("%w: turbine %s has unknown cluster %d", ErrInconsistent, t.TurbineID, t.ClusterID)
		}
		perCluster[key]++
	}

	for key, want := range md.ClusterDistribution {
		if perCluster[key] != want {
			return fmt.Errorf("%w: cluster %s has %d turbines, want %d", ErrInconsistent, key, perCluster[key], want)
		}
	}

	return nil
}

// Find returns the turbine with the given identifier, ignoring case.
func (d *Dataset) Find(id string) (Turbine, bool) {
	for _, t := range d.Turbines {
		if strings.EqualFold(t.TurbineID, id) {
			return t, true
		}
	}
	return Turbine{}, false
}
