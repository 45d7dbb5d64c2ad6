// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// phes screens one geographic grid cell for pumped-hydro energy storage
// sites: it conditions the tile's DEM, models candidate reservoirs,
// searches for viable upper/lower pairs, and resolves a conflict-free
// subset. Usage:
//
//	phes <lon> <lat> [--debug]
//	phes ocean <lon> <lat>
//	phes bulk_existing <lon> <lat>
//	phes bulk_pit <lon> <lat>
//	phes pit <name>
//	phes reservoir <name>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/pipeline"
)

var debug bool
var configFile string

var rootCmd = &cobra.Command{
	Use:   "phes <lon> <lat>",
	Short: "Screen a grid cell for pumped-hydro reservoir sites",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGridCell(config.Greenfield, args)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML file overriding the default engineering constants")

	rootCmd.AddCommand(
		modeCommand("ocean", config.Ocean),
		modeCommand("bulk_existing", config.BulkExisting),
		modeCommand("bulk_pit", config.BulkPit),
		nameCommand("pit", config.SinglePit),
		nameCommand("reservoir", config.SingleExisting),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func modeCommand(use string, st config.SearchType) *cobra.Command {
	return &cobra.Command{
		Use:  use + " <lon> <lat>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGridCell(st, args)
		},
	}
}

func nameCommand(use string, st config.SearchType) *cobra.Command {
	return &cobra.Command{
		Use:  use + " <name>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamed(st, args[0])
		},
	}
}

func runGridCell(st config.SearchType, args []string) error {
	lon, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid longitude %q: %w", args[0], err)
	}
	lat, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid latitude %q: %w", args[1], err)
	}

	params, err := loadParams()
	if err != nil {
		return err
	}
	ctx := pipeline.NewGridCellContext(params, st, lat, lon, debug)
	return pipeline.Run(ctx)
}

func runNamed(st config.SearchType, name string) error {
	params, err := loadParams()
	if err != nil {
		return err
	}
	ctx := pipeline.NewNamedContext(params, st, name, debug)
	return pipeline.Run(ctx)
}

func loadParams() (*config.Params, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}
