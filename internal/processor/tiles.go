package processor

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z, X, Y int
}

// TileOptions controls the preview tile pyramid.
type TileOptions struct {
	BaseDir     string
	ZoomLimit   int
	TileSize    int
	Concurrency int
	Force       bool
}

// SliceTiles resizes img for every zoom level 0..ZoomLimit and writes it as
// a {z}/{x}/{y}.webp pyramid under BaseDir. It returns the number of tiles
// written and the first error encountered.
func SliceTiles(img image.Image, opts TileOptions) (int, error) {
	if opts.TileSize <= 0 {
		opts.TileSize = 256
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 20
	}

	log.Info().
		Str("dir", opts.BaseDir).
		Int("zoom_limit", opts.ZoomLimit).
		Int("tile_size", opts.TileSize).
		Msg("Starting preview tiling")

	var (
		mu       sync.Mutex
		written  int
		firstErr error
	)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		written++
	}

	for z := 0; z <= opts.ZoomLimit; z++ {
		// Grid size: 2^z
		gridSize := 1 << z
		totalPixels := gridSize * opts.TileSize

		log.Debug().
			Int("zoom", z).
			Int("grid", gridSize).
			Int("px", totalPixels).
			Msg("Processing zoom level")

		// Since we resize from the original every time, quality is preserved.
		dstImg := image.NewRGBA(image.Rect(0, 0, totalPixels, totalPixels))
		xdraw.CatmullRom.Scale(dstImg, dstImg.Bounds(), img, img.Bounds(), draw.Over, nil)

		var wg sync.WaitGroup
		// Simple semaphore to limit file I/O concurrency
		sem := make(chan struct{}, opts.Concurrency)

		for x := 0; x < gridSize; x++ {
			for y := 0; y < gridSize; y++ {
				wg.Add(1)
				sem <- struct{}{}

				go func(c TileCoordinate) {
					defer wg.Done()
					defer func() { <-sem }()

					rect := image.Rect(c.X*opts.TileSize, c.Y*opts.TileSize, (c.X+1)*opts.TileSize, (c.Y+1)*opts.TileSize)
					skipped, err := writeTile(dstImg.SubImage(rect), TilePath(opts.BaseDir, c), opts.Force)
					if skipped {
						return
					}
					if err != nil {
						log.Error().Err(err).Int("z", c.Z).Int("x", c.X).Int("y", c.Y).Msg("Failed to write tile")
					}
					record(err)
				}(TileCoordinate{Z: z, X: x, Y: y})
			}
		}
		wg.Wait()
	}

	return written, firstErr
}

// TilePath returns the file path of a tile below baseDir.
func TilePath(baseDir string, c TileCoordinate) string {
	return filepath.Join(
		baseDir,
		fmt.Sprintf("%d", c.Z),
		fmt.Sprintf("%d", c.X),
		fmt.Sprintf("%d", c.Y)+".webp",
	)
}

// encodeTile writes one tile image.
var encodeTile = func(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: 85})
}

// writeTile encodes into a temp file and renames it into place, so an
// existing tile is always complete.
func writeTile(img image.Image, outPath string, force bool) (bool, error) {
	if !force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return true, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, err
	}

	f, err := os.CreateTemp(filepath.Dir(outPath), "."+filepath.Base(outPath)+".*")
	if err != nil {
		return false, err
	}
	tmpName := f.Name()

	if err := encodeTile(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return false, fmt.Errorf("encode tile %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return false, err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return false, err
	}

	if err := os.Rename(tmpName, outPath); err != nil {
		_ = os.Remove(tmpName)
		return false, err
	}
	return false, nil
}
