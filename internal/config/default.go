package config

import "github.com/woozymasta/windmap/internal/geo"

// DefaultCapacityRange is the turbine rating range in MW.
var DefaultCapacityRange = [2]float64{2.0, 4.5}

// DefaultSeed reproduces the reference Zealand dataset.
const DefaultSeed = 42

// zealand is a rough coastline of Zealand used as land mask.
var zealand = [][2]float64{
	{11.18, 55.67},
	{11.28, 55.95},
	{11.55, 56.10},
	{11.95, 56.16},
	{12.28, 56.11},
	{12.56, 56.02},
	{12.74, 55.88},
	{12.83, 55.66},
	{12.80, 55.42},
	{12.72, 55.18},
	{12.58, 54.98},
	{12.30, 54.87},
	{11.96, 54.88},
	{11.73, 54.97},
	{11.54, 55.13},
	{11.38, 55.34},
	{11.23, 55.53},
}

// Default returns the built-in seven cluster Zealand plan (400 turbines).
func Default() *Plan {
	polygon := make([][2]float64, len(zealand))
	copy(polygon, zealand)

	return &Plan{
		Polygon:       polygon,
		Seed:          DefaultSeed,
		CapacityRange: DefaultCapacityRange,
		Zones: []Zone{
			{ClusterID: 0, Count: 49, Label: "Zealand North", MinDistance: 0.018,
				BBox: geo.BBox{LonMin: 11.78, LonMax: 12.67, LatMin: 55.78, LatMax: 56.20}},
			{ClusterID: 1, Count: 12, Label: "Zealand Northeast", MinDistance: 0.03,
				BBox: geo.BBox{LonMin: 12.35, LonMax: 12.80, LatMin: 55.72, LatMax: 56.03}},
			{ClusterID: 2, Count: 4, Label: "Zealand East", MinDistance: 0.04,
				BBox: geo.BBox{LonMin: 12.18, LonMax: 12.65, LatMin: 55.43, LatMax: 55.73}},
			{ClusterID: 3, Count: 246, Label: "Zealand Central", MinDistance: 0.012,
				BBox: geo.BBox{LonMin: 11.45, LonMax: 12.60, LatMin: 55.08, LatMax: 55.86}},
			{ClusterID: 4, Count: 74, Label: "Zealand West", MinDistance: 0.017,
				BBox: geo.BBox{LonMin: 11.20, LonMax: 11.95, LatMin: 55.20, LatMax: 55.95}},
			{ClusterID: 5, Count: 6, Label: "Zealand Southwest", MinDistance: 0.035,
				BBox: geo.BBox{LonMin: 11.60, LonMax: 12.05, LatMin: 54.95, LatMax: 55.30}},
			{ClusterID: 6, Count: 9, Label: "Zealand South", MinDistance: 0.03,
				BBox: geo.BBox{LonMin: 11.78, LonMax: 12.35, LatMin: 54.88, LatMax: 55.20}},
		},
	}
}
