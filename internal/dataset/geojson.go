package dataset

import "github.com/woozymasta/windmap/internal/geo"

// ToGeoJSON converts the turbines into a collection of Point features.
func ToGeoJSON(d *Dataset) geo.GeoJSONFeatureCollection {
	fc := geo.GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geo.GeoJSONFeature, 0, len(d.Turbines)),
	}

	for _, t := range d.Turbines {
		props := map[string]interface{}{
			"turbineId": t.TurbineID,
			"clusterId": t.ClusterID,
			"capacity":  t.Capacity,
		}
		if region, ok := d.Metadata.Regions[ClusterKey(t.ClusterID)]; ok {
			props["region"] = region
		}

		fc.Features = append(fc.Features, geo.NewPointFeature(geo.Point{Lon: t.Longitude, Lat: t.Latitude}, props))
	}

	return fc
}
