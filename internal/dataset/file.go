package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

// WriteOptions controls the artifact encoding.
type WriteOptions struct {
	// Compact strips all insignificant whitespace.
	Compact bool
}

// Encode validates the dataset and returns its JSON form.
func Encode(d *Dataset, opts WriteOptions) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}

	if !opts.Compact {
		return append(data, '\n'), nil
	}

	m := minify.New()
	m.Add("application/json", &mjson.Minifier{KeepNumbers: true})

	var buf bytes.Buffer
	if err := m.Minify("application/json", &buf, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("minify dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores the dataset at path. The file is written next to the
// destination and renamed into place, so readers never see a partial artifact.
func Write(path string, d *Dataset, opts WriteOptions) error {
	data, err := Encode(d, opts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	// We care about write errors on close
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	log.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Int("turbines", len(d.Turbines)).
		Msg("Dataset written")

	return nil
}

// Read loads and validates a dataset artifact.
func Read(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = f.Close() }()

	var d Dataset
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &d, nil
}
