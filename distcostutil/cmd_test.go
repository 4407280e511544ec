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
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spatialmodel/distcost"
	"github.com/spatialmodel/distcost/batch"
	"github.com/spatialmodel/distcost/procsim"
	"github.com/spatialmodel/distcost/sample"
	"gocloud.dev/blob/memblob"
	"golang.org/x/exp/rand"
)

func testSimulation() distcost.Simulation {
	return distcost.Simulation{
		ReboilerDuty:         2e6,
		ReboilerTemperature:  400,
		CondenserDuty:        -1.8e6,
		CondenserTemperature: 310,
		BoilupRate:           0.01,
		MaxVaporRate:         10,
		MinVaporDensity:      5,
		MaxLiquidDensity:     600,
	}
}

// writeSimulations stores simulation results for the first n designs of
// the default design space.
func writeSimulations(t *testing.T, dir string, n int, seed uint64) {
	t.Helper()
	ctx := context.Background()
	bucket, err := batch.OpenBucket(ctx, "file://"+dir)
	if err != nil {
		t.Fatal(err)
	}
	defer bucket.Close()
	ds, err := sample.DefaultDesignSpace().Designs(n, 0, rand.NewSource(seed))
	if err != nil {
		t.Fatal(err)
	}
	w := batch.NewWriter(bucket, "simulations", n, 0)
	w.Log, _ = test.NewNullLogger()
	for _, d := range ds {
		s, err := distcost.Simulate(d, testSimulation())
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Write(ctx, s.Record()); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOut(&buf)
	defer Root.SetOut(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "DistCost v" + distcost.Version + "\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTablesCmd(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOut(&buf)
	defer Root.SetOut(nil)
	Cfg.Set("tables", "")
	Root.SetArgs([]string{"tables"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	tables, err := distcost.LoadTables(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables.Utilities) != len(distcost.DefaultTables().Utilities) {
		t.Errorf("printed tables have %d utilities", len(tables.Utilities))
	}

	path := filepath.Join(t.TempDir(), "tables.toml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := tables.Encode(f); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := LoadTables(path); err != nil {
		t.Errorf("loading printed tables: %v", err)
	}
	if _, err := LoadTables(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestEconomicsConfig(t *testing.T) {
	e, err := EconomicsConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if e != distcost.DefaultEconomics() {
		t.Errorf("default economics = %+v", e)
	}
	defer Cfg.Set("Economics.Years", 5)
	Cfg.Set("Economics.Years", 0)
	if _, err := EconomicsConfig(Cfg); err == nil {
		t.Error("expected an error for zero years")
	}
	Cfg.Set("Economics.Years", "five")
	if _, err := EconomicsConfig(Cfg); err == nil {
		t.Error("expected an error for a non-numeric value")
	}
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	const n = 5
	writeSimulations(t, dir, n, 42)

	Cfg.Set("output", "file://"+dir)
	Cfg.Set("sample.n", n)
	Cfg.Set("sample.seed", 42)
	Cfg.Set("retry.maxelapsed", "1s")
	Cfg.Set("dataset", filepath.Join(dir, "dataset.csv"))
	Cfg.Set("report", filepath.Join(dir, "report.xlsx"))
	Cfg.Set("log.level", "error")
	defer Cfg.Set("log.level", "info")

	for _, args := range [][]string{{"sample"}, {"run"}, {"run"}, {"dataset"}, {"report"}} {
		Root.SetArgs(args)
		if err := Root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	ctx := context.Background()
	bucket, err := batch.OpenBucket(ctx, "file://"+dir)
	if err != nil {
		t.Fatal(err)
	}
	defer bucket.Close()

	designs, err := batch.ReadAll(ctx, bucket, "designs")
	if err != nil {
		t.Fatal(err)
	}
	if len(designs) != n {
		t.Errorf("%d designs written; want %d", len(designs), n)
	}

	recs, err := batch.ReadAll(ctx, bucket, batch.DefaultPrefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != n {
		t.Fatalf("%d columns written; want %d", len(recs), n)
	}
	for i, r := range recs {
		if r.Error != "" || r.TAC == nil {
			t.Errorf("column %d not costed: %s", i, r.Error)
		}
		if r.ID != designs[i].ID || *r.NumberTrays != *designs[i].NumberTrays {
			t.Errorf("column %d does not match its design", i)
		}
	}

	f, err := os.Open(filepath.Join(dir, "dataset.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != n+1 {
		t.Errorf("dataset has %d lines; want %d", len(lines), n+1)
	}
	if !strings.HasPrefix(strings.Join(lines[0], ","), "id,N_trays,Feed_tray,RR,D:F,F_t,F_F1") {
		t.Errorf("dataset header = %v", lines[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "report.xlsx")); err != nil {
		t.Error(err)
	}
}

func TestRunFailures(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()
	log, hook := test.NewNullLogger()

	sim := procsim.Func(func(ctx context.Context, d distcost.Design) (distcost.Simulation, error) {
		switch d.ID {
		case "1":
			return distcost.Simulation{}, errors.New("simulator crashed")
		case "2":
			s := testSimulation()
			s.ReboilerTemperature = 1000 // above every heating utility
			return s, nil
		}
		return testSimulation(), nil
	})
	ev := distcost.NewEvaluator(distcost.DefaultTables(), distcost.DefaultEconomics(), 2, 0)
	ev.Log = log
	if err := Run(ctx, bucket, "run", 4, 1, sim, ev, log); err != nil {
		t.Fatal(err)
	}
	recs, err := batch.ReadAll(ctx, bucket, "run")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("%d records", len(recs))
	}
	for i, wantErr := range []bool{false, true, true, false} {
		if got := recs[i].Error != ""; got != wantErr {
			t.Errorf("record %d error = %q", i, recs[i].Error)
		}
	}
	if !strings.HasSuffix(recs[1].Error, "simulator crashed") || recs[1].QReb != nil {
		t.Errorf("failed simulation record: %+v", recs[1])
	}
	if recs[2].QReb == nil || recs[2].TAC != nil {
		t.Errorf("failed costing record should keep its simulation results only")
	}
	var errs int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errs++
		}
	}
	if errs != 2 {
		t.Errorf("%d errors logged; want 2", errs)
	}

	// A finished run is not repeated.
	hook.Reset()
	if err := Run(ctx, bucket, "run", 4, 1, sim, ev, log); err != nil {
		t.Fatal(err)
	}
	if e := hook.LastEntry(); e == nil || e.Message != "all columns have already been evaluated" {
		t.Errorf("second run logged %v", e)
	}
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()
	log, _ := test.NewNullLogger()

	d, err := distcost.NewDesign("a", distcost.MaterialStream{
		Name:        "FEED",
		Components:  []string{"x", "y"},
		MassFlows:   []float64{1, 1},
		Temperature: 300,
		Pressure:    1e6,
	}, 30, 15, 2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	s, err := distcost.Simulate(d, testSimulation())
	if err != nil {
		t.Fatal(err)
	}
	recs := []distcost.Record{s.Record(), d.Record()}
	ev := distcost.NewEvaluator(distcost.DefaultTables(), distcost.DefaultEconomics(), 1, 10)
	ev.Log = log
	if err := Evaluate(ctx, bucket, "eval", recs, ev, log); err != nil {
		t.Fatal(err)
	}
	out, err := batch.ReadAll(ctx, bucket, "eval")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].TAC == nil || out[1].Error == "" {
		t.Errorf("evaluated records: %+v", out)
	}
}

func TestConfigFile(t *testing.T) {
	cfg := viper.New()
	cfg.SetConfigFile("configExample.toml")
	if err := cfg.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	defer logrus.SetLevel(logrus.InfoLevel)
	if err := setLog(cfg); err != nil {
		t.Fatal(err)
	}
	if logrus.GetLevel() != logrus.WarnLevel {
		t.Errorf("log level = %v", logrus.GetLevel())
	}
	e, err := EconomicsConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := distcost.Economics{CostIndex: 802.6, FuelCost: 4.5, InterestRate: 0.1, Years: 10}
	if e != want {
		t.Errorf("economics = %+v; want %+v", e, want)
	}
	n, seed, err := sampleConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if n != 200 || seed != 7 {
		t.Errorf("sample.n = %d, sample.seed = %d", n, seed)
	}
	d, err := durationConfig(cfg, "retry.maxelapsed")
	if err != nil {
		t.Fatal(err)
	}
	if d.Seconds() != 30 {
		t.Errorf("retry.maxelapsed = %v", d)
	}
}
