package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Dataset {
	return &Dataset{
		Metadata: Metadata{
			GeneratedAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			TotalTurbines:       3,
			ClusterDistribution: map[string]int{"0": 2, "1": 1},
			Regions:             map[string]string{"0": "North", "1": "South"},
			CapacityRangeMW:     [2]float64{2.0, 4.5},
		},
		Turbines: []Turbine{
			{TurbineID: "T002", ClusterID: 1, Latitude: 55.1, Longitude: 12.1, Capacity: 4.5},
			{TurbineID: "T000", ClusterID: 0, Latitude: 55.9, Longitude: 11.9, Capacity: 2.0},
			{TurbineID: "T001", ClusterID: 0, Latitude: 55.8, Longitude: 11.8, Capacity: 3.17},
		},
	}
}

func TestFormatParseID(t *testing.T) {
	assert.Equal(t, "T000", FormatID(0))
	assert.Equal(t, "T042", FormatID(42))
	assert.Equal(t, "T1234", FormatID(1234))

	seq, err := ParseID("T042")
	require.NoError(t, err)
	assert.Equal(t, 42, seq)

	for _, bad := range []string{"", "T", "X001", "T0a1", "T-01"} {
		_, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, sample().Validate())

	tests := []struct {
		name   string
		mutate func(d *Dataset)
	}{
		{"total mismatch", func(d *Dataset) { d.Metadata.TotalTurbines = 4 }},
		{"distribution mismatch", func(d *Dataset) { d.Metadata.ClusterDistribution["1"] = 2 }},
		{"duplicate id", func(d *Dataset) { d.Turbines[0].TurbineID = "T001" }},
		{"id gap", func(d *Dataset) { d.Turbines[0].TurbineID = "T003" }},
		{"unpadded id", func(d *Dataset) { d.Turbines[0].TurbineID = "T2" }},
		{"capacity high", func(d *Dataset) { d.Turbines[1].Capacity = 4.51 }},
		{"capacity low", func(d *Dataset) { d.Turbines[1].Capacity = 1.99 }},
		{"unknown cluster", func(d *Dataset) { d.Turbines[0].ClusterID = 9 }},
		{"cluster count", func(d *Dataset) { d.Turbines[0].ClusterID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sample()
			tt.mutate(d)
			require.ErrorIs(t, d.Validate(), ErrInconsistent)
		})
	}
}

func TestFind(t *testing.T) {
	d := sample()

	got, ok := d.Find("t001")
	require.True(t, ok)
	assert.Equal(t, 3.17, got.Capacity)

	_, ok = d.Find("T999")
	assert.False(t, ok)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "turbines.json")
	d := sample()

	require.NoError(t, Write(path, d, WriteOptions{}))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, d.Turbines, got.Turbines)
	assert.True(t, d.Metadata.GeneratedAt.Equal(got.Metadata.GeneratedAt))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"turbineId": "T002"`)
	assert.Contains(t, string(raw), `"capacity_range_mw": [`)

	// only the artifact is left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCompact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turbines.json")
	require.NoError(t, Write(path, sample(), WriteOptions{Compact: true}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\n")
	assert.Contains(t, string(raw), `"turbineId":"T000"`)

	got, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, got.Turbines, 3)
}

func TestMetadataKeyOrder(t *testing.T) {
	data, err := Encode(sample(), WriteOptions{Compact: true})
	require.NoError(t, err)

	raw := string(data)
	keys := []string{`"generated_at"`, `"total_turbines"`, `"cluster_distribution"`, `"regions"`, `"capacity_range_mw"`, `"turbines"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(raw, k)
		require.Greater(t, i, last, "%s out of order in %s", k, raw)
		last = i
	}
}

func TestWriteRejectsInconsistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turbines.json")
	d := sample()
	d.Metadata.TotalTurbines = 10

	require.ErrorIs(t, Write(path, d, WriteOptions{}), ErrInconsistent)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReadRejectsInconsistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turbines.json")
	body := `{"metadata":{"total_turbines":2,"cluster_distribution":{"0":2},"capacity_range_mw":[2,4.5]},
"turbines":[{"turbineId":"T000","clusterId":0,"capacity":3}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Read(path)
	require.ErrorIs(t, err, ErrInconsistent)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = Read(path)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "decode "))
}

func TestToGeoJSON(t *testing.T) {
	fc := ToGeoJSON(sample())

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)

	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{12.1, 55.1}, f.Geometry.Coordinates)
	assert.Equal(t, "T002", f.Properties["turbineId"])
	assert.Equal(t, "South", f.Properties["region"])
}
