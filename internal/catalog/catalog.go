// Package catalog serves a dataset artifact read-only, reloading it only when
// the file's modification time changes.
package catalog

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/woozymasta/windmap/internal/dataset"

	"github.com/rs/zerolog/log"
)

// Catalog is an in-memory view of a dataset file keyed by its mtime.
type Catalog struct {
	snap *snapshot
	path string
	mu   sync.RWMutex
}

type snapshot struct {
	modTime time.Time
	data    *dataset.Dataset
	index   map[string]int
	size    int64
}

// New returns a catalog for the artifact at path. Nothing is read until first use.
func New(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) load() (*snapshot, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil && snap.modTime.Equal(info.ModTime()) {
		return snap, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another reader may have refreshed meanwhile
	if c.snap != nil && c.snap.modTime.Equal(info.ModTime()) {
		return c.snap, nil
	}

	d, err := dataset.Read(c.path)
	if err != nil {
		return nil, err
	}

	snap = &snapshot{
		data:    d,
		index:   make(map[string]int, len(d.Turbines)),
		modTime: info.ModTime(),
		size:    info.Size(),
	}
	for i, t := range d.Turbines {
		snap.index[strings.ToUpper(t.TurbineID)] = i
	}
	c.snap = snap

	log.Debug().
		Str("path", c.path).
		Time("mtime", snap.modTime).
		Int("turbines", len(d.Turbines)).
		Msg("Catalog reloaded")

	return snap, nil
}

// Dataset returns the current artifact, reloading it if the file changed.
func (c *Catalog) Dataset() (*dataset.Dataset, error) {
	snap, err := c.load()
	if err != nil {
		return nil, err
	}
	return snap.data, nil
}

// List returns all turbines in artifact order.
func (c *Catalog) List() ([]dataset.Turbine, error) {
	snap, err := c.load()
	if err != nil {
		return nil, err
	}

	out := make([]dataset.Turbine, len(snap.data.Turbines))
	copy(out, snap.data.Turbines)
	return out, nil
}

// Get looks a turbine up by identifier, ignoring case.
func (c *Catalog) Get(id string) (dataset.Turbine, bool, error) {
	snap, err := c.load()
	if err != nil {
		return dataset.Turbine{}, false, err
	}

	i, ok := snap.index[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return dataset.Turbine{}, false, nil
	}
	return snap.data.Turbines[i], true, nil
}

// Version returns an opaque tag for the loaded artifact built from its size
// and mtime, or an empty string before the first load.
func (c *Catalog) Version() string {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap == nil {
		return ""
	}

	buf := make([]byte, 0, 32)
	buf = strconv.AppendInt(buf, snap.size, 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, snap.modTime.UnixNano(), 16)
	return string(buf)
}
