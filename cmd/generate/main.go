package main

import (
	"errors"
	"os"
	"time"

	"github.com/woozymasta/windmap/internal/config"
	"github.com/woozymasta/windmap/internal/dataset"
	"github.com/woozymasta/windmap/internal/logger"
	"github.com/woozymasta/windmap/internal/metrics"
	"github.com/woozymasta/windmap/internal/placement"
	"github.com/woozymasta/windmap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"PLAN_FILE"    description:"Path to placement plan, built-in Zealand plan if empty"`
	Output      string `short:"o" long:"output"       env:"OUTPUT_FILE"  description:"Dataset output path" default:"data/turbines.json"`
	GeoJSON     string `short:"g" long:"geojson"      env:"GEOJSON_FILE" description:"Also write turbine locations as GeoJSON"`
	Preview     string `long:"preview"                env:"PREVIEW_FILE" description:"Also render a webp preview image"`
	TilesDir    string `long:"tiles-dir"              env:"TILES_DIR"    description:"Also slice the preview into a z/x/y tile pyramid"`
	MetricsFile string `long:"metrics-file"           env:"METRICS_FILE" description:"Write run metrics in textfile collector format"`
	Seed        int64  `short:"s" long:"seed"         env:"SEED"         description:"Override the plan seed, negative keeps it" default:"-1"`
	PreviewSize int    `long:"preview-size"                              description:"Preview edge length in pixels" default:"1024"`
	ZoomLimit   int    `short:"z" long:"zoom-limit"   env:"ZOOM_LIMIT"   description:"Tiles zoom limit" default:"3"`
	Concurrency int    `short:"p" long:"concurrency"  env:"CONCURRENCY"  description:"Tile writer concurrency" default:"20"`
	Compact     bool   `long:"compact"                                   description:"Write minified dataset JSON"`
	Force       bool   `short:"f" long:"force"                           description:"Force overwrite of existing tiles"`
}

func main() {
	_ = godotenv.Load(".env")

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if err := run(opts); err != nil {
		var infeasible *placement.InfeasiblePlacementError
		if errors.As(err, &infeasible) {
			log.Fatal().
				Err(err).
				Int("cluster", infeasible.ClusterID).
				Int("count", infeasible.Count).
				Int("placed", infeasible.Placed).
				Float64("min_dist", infeasible.MinDistance).
				Msg("Zone cannot hold the requested turbines")
		}
		log.Fatal().Err(err).Msg("Generation failed")
	}

	log.Info().Msg("Generator finished successfully")
}

func loadPlan(opts Options) (*config.Plan, error) {
	if opts.ConfigFile == "" {
		log.Info().Msg("No plan file given, using built-in Zealand plan")
		return config.Default(), nil
	}
	return config.Load(opts.ConfigFile)
}

func run(opts Options) error {
	plan, err := loadPlan(opts)
	if err != nil {
		return err
	}
	if opts.Seed >= 0 {
		plan.Seed = uint64(opts.Seed)
	}

	log.Info().
		Int("zones", len(plan.Zones)).
		Int("turbines", plan.TotalCount()).
		Uint64("seed", plan.Seed).
		Msg("Starting generator")

	rec := metrics.New()
	start := time.Now()

	res, err := placement.New(plan).Run()
	rec.ObserveRun(res, err, time.Since(start), time.Now())

	if opts.MetricsFile != "" {
		if mErr := rec.WriteTextfile(opts.MetricsFile); mErr != nil {
			log.Error().Err(mErr).Str("path", opts.MetricsFile).Msg("Failed to write metrics")
		}
	}
	if err != nil {
		return err
	}

	ds := res.Dataset
	if err := dataset.Write(opts.Output, ds, dataset.WriteOptions{Compact: opts.Compact}); err != nil {
		return err
	}
	log.Info().
		Str("path", opts.Output).
		Int("turbines", ds.Metadata.TotalTurbines).
		Msg("Dataset saved")

	if opts.GeoJSON != "" {
		if err := processor.SaveLocations(opts.GeoJSON, ds); err != nil {
			return err
		}
		log.Info().Str("path", opts.GeoJSON).Msg("GeoJSON saved")
	}

	if opts.Preview == "" && opts.TilesDir == "" {
		return nil
	}

	img := processor.RenderPreview(ds, plan.Land(), opts.PreviewSize)

	if opts.Preview != "" {
		if err := processor.SavePreview(opts.Preview, img); err != nil {
			return err
		}
		log.Info().Str("path", opts.Preview).Msg("Preview saved")
	}

	if opts.TilesDir != "" {
		n, err := processor.SliceTiles(img, processor.TileOptions{
			BaseDir:     opts.TilesDir,
			ZoomLimit:   opts.ZoomLimit,
			Concurrency: opts.Concurrency,
			Force:       opts.Force,
		})
		if err != nil {
			return err
		}
		log.Info().Str("dir", opts.TilesDir).Int("tiles", n).Msg("Preview tiles saved")
	}

	return nil
}
