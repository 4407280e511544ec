/*
Copyright © 2024 the DistCost authors.
This file is part of DistCost.

DistCost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DistCost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DistCost.  If not, see <http://www.gnu.org/licenses/>.
*/

package distcostutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/distcost"
	"github.com/spatialmodel/distcost/batch"
	"github.com/spf13/cast"
	"gocloud.dev/blob"
)

// setLog sets the level and format of the standard logger.
func setLog(cfg *viper.Viper) error {
	level, err := logrus.ParseLevel(cfg.GetString("log.level"))
	if err != nil {
		return fmt.Errorf("distcost: invalid log.level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return nil
}

// LoadTables returns the built-in cost and property tables if path is
// empty, and otherwise the tables in the TOML file at path.
func LoadTables(path string) (*distcost.Tables, error) {
	if path == "" {
		return distcost.DefaultTables(), nil
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("distcost: opening tables: %v", err)
	}
	defer f.Close()
	return distcost.LoadTables(f)
}

// EconomicsConfig returns the economic parameters in cfg.
func EconomicsConfig(cfg *viper.Viper) (distcost.Economics, error) {
	var e distcost.Economics
	var err error
	if e.CostIndex, err = cast.ToFloat64E(cfg.Get("Economics.CostIndex")); err != nil {
		return e, fmt.Errorf("distcost: invalid Economics.CostIndex: %v", err)
	}
	if e.FuelCost, err = cast.ToFloat64E(cfg.Get("Economics.FuelCost")); err != nil {
		return e, fmt.Errorf("distcost: invalid Economics.FuelCost: %v", err)
	}
	if e.InterestRate, err = cast.ToFloat64E(cfg.Get("Economics.InterestRate")); err != nil {
		return e, fmt.Errorf("distcost: invalid Economics.InterestRate: %v", err)
	}
	if e.Years, err = cast.ToIntE(cfg.Get("Economics.Years")); err != nil {
		return e, fmt.Errorf("distcost: invalid Economics.Years: %v", err)
	}
	if !(e.CostIndex > 0) {
		return e, fmt.Errorf("distcost: Economics.CostIndex=%g but should be >0", e.CostIndex)
	}
	if e.FuelCost < 0 {
		return e, fmt.Errorf("distcost: Economics.FuelCost=%g but should be >=0", e.FuelCost)
	}
	if _, err := distcost.ACCR(e.InterestRate, e.Years); err != nil {
		return e, err
	}
	return e, nil
}

func sampleConfig(cfg *viper.Viper) (n int, seed uint64, err error) {
	if n, err = cast.ToIntE(cfg.Get("sample.n")); err != nil {
		return 0, 0, fmt.Errorf("distcost: invalid sample.n: %v", err)
	}
	if n < 1 {
		return 0, 0, fmt.Errorf("distcost: sample.n=%d but should be >0", n)
	}
	s, err := cast.ToIntE(cfg.Get("sample.seed"))
	if err != nil {
		return 0, 0, fmt.Errorf("distcost: invalid sample.seed: %v", err)
	}
	return n, uint64(s), nil
}

func durationConfig(cfg *viper.Viper, name string) (time.Duration, error) {
	d, err := cast.ToDurationE(cfg.Get(name))
	if err != nil {
		return 0, fmt.Errorf("distcost: invalid %s: %v", name, err)
	}
	return d, nil
}

// evaluator creates an evaluator from the tables, economic parameters and
// concurrency settings in cfg.
func evaluator(cfg *viper.Viper) (*distcost.Evaluator, error) {
	t, err := LoadTables(cfg.GetString("tables"))
	if err != nil {
		return nil, err
	}
	e, err := EconomicsConfig(cfg)
	if err != nil {
		return nil, err
	}
	workers, err := cast.ToIntE(cfg.Get("workers"))
	if err != nil {
		return nil, fmt.Errorf("distcost: invalid workers: %v", err)
	}
	cacheSize, err := cast.ToIntE(cfg.Get("cachesize"))
	if err != nil {
		return nil, fmt.Errorf("distcost: invalid cachesize: %v", err)
	}
	return distcost.NewEvaluator(t, e, workers, cacheSize), nil
}

func openBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	bucketURL = os.ExpandEnv(bucketURL)
	if bucketURL == "" {
		return nil, fmt.Errorf("distcost: bucket location is not specified")
	}
	return batch.OpenBucket(ctx, bucketURL)
}
