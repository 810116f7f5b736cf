package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/windmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planYAML = `
seed: 7
polygon:
  - [0, 0]
  - [1, 0]
  - [1, 1]
  - [0, 1]
zones:
  - cluster_id: 1
    label: East
    count: 3
    min_distance: 0.1
    bbox: {lon_min: 0.5, lon_max: 1, lat_min: 0, lat_max: 1}
  - cluster_id: 0
    label: West
    count: 2
    min_distance: 0.1
    bbox: {lon_min: 0, lon_max: 0.5, lat_min: 0, lat_max: 1}
`

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	plan, err := Load(writePlan(t, planYAML))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), plan.Seed)
	assert.Equal(t, DefaultCapacityRange, plan.CapacityRange)
	assert.Len(t, plan.Land(), 4)
	assert.Equal(t, geo.Point{Lon: 1, Lat: 0}, plan.Land()[1])
	assert.Equal(t, 5, plan.TotalCount())
	require.NoError(t, plan.Validate())

	zones := plan.SortedZones()
	assert.Equal(t, 0, zones[0].ClusterID)
	assert.Equal(t, "West", zones[0].Label)
	assert.Equal(t, 1, plan.Zones[0].ClusterID, "SortedZones must not reorder the plan")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writePlan(t, "zones: [unterminated"))
	require.Error(t, err)
}

func TestDefaultPlan(t *testing.T) {
	plan := Default()
	require.NoError(t, plan.Validate())
	assert.Equal(t, 400, plan.TotalCount())
	assert.Len(t, plan.Zones, 7)

	// callers may mutate their copy freely
	plan.Polygon[0][0] = 0
	assert.Equal(t, 11.18, Default().Polygon[0][0])
}

func TestValidate(t *testing.T) {
	valid := func() *Plan {
		p := Default()
		p.Zones = p.Zones[:2]
		return p
	}

	tests := []struct {
		name   string
		mutate func(p *Plan)
		field  string
	}{
		{"zero count", func(p *Plan) { p.Zones[0].Count = 0 }, "count"},
		{"negative count", func(p *Plan) { p.Zones[1].Count = -4 }, "count"},
		{"zero distance", func(p *Plan) { p.Zones[0].MinDistance = 0 }, "min_distance"},
		{"empty bbox", func(p *Plan) { p.Zones[0].BBox.LonMax = p.Zones[0].BBox.LonMin }, "bbox"},
		{"duplicate cluster", func(p *Plan) { p.Zones[1].ClusterID = p.Zones[0].ClusterID }, "cluster_id"},
		{"infinite distance", func(p *Plan) { p.Zones[0].MinDistance = math.Inf(1) }, "min_distance"},
		{"nan distance", func(p *Plan) { p.Zones[1].MinDistance = math.NaN() }, "min_distance"},
		{"infinite bbox", func(p *Plan) { p.Zones[0].BBox.LonMax = math.Inf(1) }, "bbox"},
		{"nan bbox", func(p *Plan) { p.Zones[1].BBox.LatMin = math.NaN() }, "bbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)

			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidZone)

			var zerr *InvalidZoneError
			require.ErrorAs(t, err, &zerr)
			assert.Equal(t, tt.field, zerr.Field)
		})
	}
}

func TestValidatePlanLevel(t *testing.T) {
	p := Default()
	p.Polygon = p.Polygon[:2]
	require.ErrorIs(t, p.Validate(), geo.ErrInvalidPolygon)

	p = Default()
	p.Zones = nil
	require.Error(t, p.Validate())

	p = Default()
	p.CapacityRange = [2]float64{4.5, 2.0}
	require.Error(t, p.Validate())

	p = Default()
	p.CapacityRange = [2]float64{2.0, math.Inf(1)}
	require.Error(t, p.Validate())

	p = Default()
	p.CapacityRange = [2]float64{math.NaN(), 4.5}
	require.Error(t, p.Validate())
}

func TestValidateNegativeCluster(t *testing.T) {
	p := Default()
	p.Zones = p.Zones[:2]
	p.Zones[0].ClusterID = -3
	require.NoError(t, p.Validate())
	assert.Equal(t, -3, p.SortedZones()[0].ClusterID)
}

func TestLoadNonFiniteDistance(t *testing.T) {
	path := writePlan(t, `polygon: [[0, 0], [1, 0], [1, 1], [0, 1]]
zones:
  - label: Unbounded
    cluster_id: 0
    count: 2
    min_distance: .inf
    bbox: {lon_min: 0, lon_max: 1, lat_min: 0, lat_max: 1}
`)

	plan, err := Load(path)
	require.NoError(t, err)
	require.True(t, math.IsInf(plan.Zones[0].MinDistance, 1))
	require.ErrorIs(t, plan.Validate(), ErrInvalidZone)
}
