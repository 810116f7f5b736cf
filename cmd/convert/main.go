package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/windmap/internal/dataset"
	"github.com/woozymasta/windmap/internal/processor"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Input  string `short:"i" long:"in"     description:"Input dataset path (turbines.json). Reads from stdin if empty"`
	Output string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	ds, err := readDataset(opts.Input, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(1)
	}

	outputData, err := processor.MarshalLocations(ds, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d turbines to %s (format: %s)\n", len(ds.Turbines), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// readDataset loads the artifact from path, or from stdin when path is empty.
func readDataset(path string, stdin io.Reader) (*dataset.Dataset, error) {
	if path != "" {
		return dataset.Read(path)
	}

	var ds dataset.Dataset
	if err := json.NewDecoder(stdin).Decode(&ds); err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}
