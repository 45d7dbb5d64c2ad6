package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/99ch/phes-search/internal/config"
	"github.com/99ch/phes-search/internal/existing"
	"github.com/99ch/phes-search/internal/pairing"
	"github.com/99ch/phes-search/internal/prettyset"
	"github.com/99ch/phes-search/internal/reservoir"
	"github.com/99ch/phes-search/internal/shpio"
	"github.com/99ch/phes-search/internal/terrain"
)

func sortByFOM(pairs []pairing.Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].FOM != pairs[j].FOM {
			return pairs[i].FOM < pairs[j].FOM
		}
		return pairs[i].Identifier < pairs[j].Identifier
	})
}

func prettySetSelect(p *config.Params, dem *terrain.Grid, fd *terrain.FlowDirGrid, pairs []pairing.Pair) []pairing.Pair {
	return prettyset.Select(p, dem, fd, pairs)
}

// runExisting drives the existing-reservoir/pit family of search types:
// ingest lakes (and, outside the pit modes, rivers) from the tile's
// shapefiles, convert them to RoughReservoirs, then fall through the same
// pairing/pretty-set stages as a greenfield run. The pit modes read the
// same lake shapefile and only skip rivers; no pit depression volume is
// computed and pairing.SearchPit is not called.
func runExisting(c *config.Context) error {
	t, err := buildAndCondition(c)
	if err != nil {
		return fmt.Errorf("pipeline: conditioning terrain for existing search: %w", err)
	}

	lakes, rivers, err := loadExistingInputs(c)
	if err != nil {
		return err
	}

	var uppers []*reservoir.RoughReservoir
	for _, l := range lakes {
		er := existing.FromLake(l)
		uppers = append(uppers, existing.AsRough(er.Identifier, er))
	}
	for _, r := range rivers {
		er := existing.FromRiver(r)
		uppers = append(uppers, existing.AsRough(er.Identifier, er))
	}
	if len(uppers) == 0 {
		c.Log.Infof("no existing reservoirs found in %s", c.Filename())
		return nil
	}

	if err := writeReservoirCSV(c, uppers); err != nil {
		return err
	}

	var allPairs []pairing.Pair
	for _, test := range c.Params.Tests {
		found := pairing.Search(c.Params, uppers, uppers, test)
		found = pairing.RetainBest(found, c.Params.MaxLowersPerUpper, c.SearchType.Single())
		allPairs = append(allPairs, found...)
	}
	sortByFOM(allPairs)
	kept := prettySetSelect(c.Params, t.dem, t.fd, allPairs)

	if err := writePairCSV(c, kept); err != nil {
		return err
	}
	return writeKML(c, kept)
}

func loadExistingInputs(c *config.Context) ([]shpio.Lake, []shpio.River, error) {
	base := filepath.Join(c.Params.StorageLocation, c.Square.String())
	lakePath := base + "_lakes.shp"
	riverPath := base + "_rivers.shp"

	var lakes []shpio.Lake
	if _, err := os.Stat(lakePath); err == nil {
		lakes, err = shpio.ReadLakes(lakePath)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: reading %s: %w", lakePath, err)
		}
	}
	var rivers []shpio.River
	if c.SearchType != config.BulkPit && c.SearchType != config.SinglePit {
		if _, err := os.Stat(riverPath); err == nil {
			rivers, err = shpio.ReadRivers(riverPath)
			if err != nil {
				return nil, nil, fmt.Errorf("pipeline: reading %s: %w", riverPath, err)
			}
		}
	}
	return lakes, rivers, nil
}
