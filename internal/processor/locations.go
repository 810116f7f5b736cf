// Package processor renders generated fleets into GeoJSON, preview images and tiles.
package processor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/woozymasta/windmap/internal/dataset"
	"github.com/woozymasta/windmap/internal/geo"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Output formats for turbine locations.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// MarshalLocations converts the dataset to GeoJSON in the given format.
func MarshalLocations(ds *dataset.Dataset, format string) ([]byte, error) {
	fc := dataset.ToGeoJSON(ds)

	switch format {
	case FormatYAML:
		return yaml.Marshal(fc)
	case FormatJSON, "":
		return json.MarshalIndent(fc, "", "  ")
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// WriteLocations writes the dataset as GeoJSON to w.
func WriteLocations(w io.Writer, ds *dataset.Dataset, format string) error {
	data, err := MarshalLocations(ds, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveLocations writes the dataset as a GeoJSON FeatureCollection to path.
func SaveLocations(path string, ds *dataset.Dataset) error {
	return saveGeoJSON(filepath.Dir(path), path, dataset.ToGeoJSON(ds))
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	log.Debug().Str("path", path).Int("features", len(fc.Features)).Msg("Writing locations")

	return json.NewEncoder(f).Encode(fc)
}
