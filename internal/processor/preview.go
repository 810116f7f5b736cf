package processor

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"

	"github.com/woozymasta/windmap/internal/dataset"
	"github.com/woozymasta/windmap/internal/geo"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

const (
	supersample = 2
	marginRatio = 0.05
)

var (
	seaColor  = color.RGBA{R: 0xc6, G: 0xdd, B: 0xf0, A: 0xff}
	landColor = color.RGBA{R: 0xe8, G: 0xe4, B: 0xd8, A: 0xff}

	// clusterColors is indexed by cluster id modulo its length.
	clusterColors = []color.RGBA{
		{R: 0xe6, G: 0x19, B: 0x4b, A: 0xff},
		{R: 0x3c, G: 0xb4, B: 0x4b, A: 0xff},
		{R: 0x43, G: 0x63, B: 0xd8, A: 0xff},
		{R: 0xf5, G: 0x82, B: 0x31, A: 0xff},
		{R: 0x91, G: 0x1e, B: 0xb4, A: 0xff},
		{R: 0x46, G: 0x99, B: 0x90, A: 0xff},
		{R: 0x9a, G: 0x63, B: 0x24, A: 0xff},
		{R: 0x80, G: 0x00, B: 0x00, A: 0xff},
	}
)

// ClusterColor returns the marker colour of a cluster.
func ClusterColor(clusterID int) color.RGBA {
	if clusterID < 0 {
		clusterID = -clusterID
	}
	return clusterColors[clusterID%len(clusterColors)]
}

// projection maps lon/lat to pixels, north up, with longitude scaled by
// the cosine of the mid latitude so the land keeps its shape.
type projection struct {
	lonMin, latMax float64
	sx, sy         float64
	ox, oy         float64
}

func newProjection(b geo.BBox, w, h int) projection {
	kx := math.Cos((b.LatMin + b.LatMax) / 2 * math.Pi / 180)
	effW := b.Width() * kx

	scale := math.Min(float64(w)/effW, float64(h)/b.Height())

	return projection{
		lonMin: b.LonMin,
		latMax: b.LatMax,
		sx:     scale * kx,
		sy:     scale,
		ox:     (float64(w) - effW*scale) / 2,
		oy:     (float64(h) - b.Height()*scale) / 2,
	}
}

func (p projection) toPixel(pt geo.Point) (x, y float64) {
	return p.ox + (pt.Lon-p.lonMin)*p.sx, p.oy + (p.latMax-pt.Lat)*p.sy
}

func (p projection) toGeo(x, y float64) geo.Point {
	return geo.Point{Lon: p.lonMin + (x-p.ox)/p.sx, Lat: p.latMax - (y-p.oy)/p.sy}
}

// RenderPreview draws the land polygon and every turbine onto a size×size
// image. Drawing happens at a higher resolution and is scaled down.
func RenderPreview(ds *dataset.Dataset, land geo.Polygon, size int) *image.RGBA {
	canvasSize := size * supersample
	canvas := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: seaColor}, image.Point{}, draw.Src)

	b := land.Bounds()
	mLon, mLat := b.Width()*marginRatio, b.Height()*marginRatio
	b.LonMin, b.LonMax = b.LonMin-mLon, b.LonMax+mLon
	b.LatMin, b.LatMax = b.LatMin-mLat, b.LatMax+mLat

	proj := newProjection(b, canvasSize, canvasSize)

	for y := 0; y < canvasSize; y++ {
		for x := 0; x < canvasSize; x++ {
			if geo.Contains(land, proj.toGeo(float64(x)+0.5, float64(y)+0.5)) {
				canvas.SetRGBA(x, y, landColor)
			}
		}
	}

	radius := max(2, canvasSize/300)
	for _, t := range ds.Turbines {
		x, y := proj.toPixel(geo.Point{Lon: t.Longitude, Lat: t.Latitude})
		fillDisk(canvas, int(x), int(y), radius, ClusterColor(t.ClusterID))
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)

	log.Debug().
		Int("size", size).
		Int("turbines", len(ds.Turbines)).
		Msg("Preview rendered")

	return out
}

func fillDisk(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			p := image.Point{X: cx + dx, Y: cy + dy}
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

// SavePreview encodes the image as lossless webp at path.
func SavePreview(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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

	return webp.Encode(f, img, &webp.Options{Lossless: true})
}
