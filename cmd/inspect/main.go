package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/woozymasta/windmap/internal/catalog"
	"github.com/woozymasta/windmap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	DataFile string   `short:"d" long:"data" env:"DATA_FILE" description:"Path to dataset artifact" default:"data/turbines.json"`
	IDs      []string `short:"i" long:"id"                   description:"Turbine id to look up, case insensitive (repeatable)"`
	List     bool     `short:"l" long:"list"                 description:"List all turbines"`
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

	missing, err := run(catalog.New(opts.DataFile), opts, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.DataFile).Msg("Failed to read dataset")
	}
	if missing > 0 {
		os.Exit(2)
	}
}

// run prints the requested turbines as JSON lines and returns how many ids
// were not found.
func run(c *catalog.Catalog, opts Options, w io.Writer) (int, error) {
	enc := json.NewEncoder(w)

	if opts.List || len(opts.IDs) == 0 {
		turbines, err := c.List()
		if err != nil {
			return 0, err
		}
		for _, t := range turbines {
			if err := enc.Encode(t); err != nil {
				return 0, err
			}
		}
		log.Debug().Int("turbines", len(turbines)).Str("version", c.Version()).Msg("Listed dataset")
	}

	missing := 0
	for _, id := range opts.IDs {
		t, ok, err := c.Get(id)
		if err != nil {
			return missing, err
		}
		if !ok {
			missing++
			log.Warn().Str("id", id).Msg("Turbine not found")
			continue
		}
		if err := enc.Encode(t); err != nil {
			return missing, err
		}
	}

	return missing, nil
}
