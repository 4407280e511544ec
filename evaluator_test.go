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

package distcost

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestEvaluator(t *testing.T) {
	tables := DefaultTables()
	ev := NewEvaluator(tables, DefaultEconomics(), 4, 100)
	log, hook := test.NewNullLogger()
	ev.Log = log

	bad := testDesign("bad")
	bad.Material = StainlessSteel321
	notConverged := testSimulation()
	notConverged.Convergence = 3

	var in []Simulated
	for _, x := range []struct {
		d Design
		s Simulation
	}{
		{testDesign("0"), testSimulation()},
		{testDesign("1"), testSimulation()},
		{bad, testSimulation()},
		{testDesign("3"), notConverged},
		{testDesign("4"), testSimulation()},
	} {
		s, err := Simulate(x.d, x.s)
		if err != nil {
			t.Fatal(err)
		}
		in = append(in, s)
	}

	want, err := tables.Evaluate(testDesign("0"), testSimulation(), DefaultEconomics())
	if err != nil {
		t.Fatal(err)
	}

	results := ev.EvaluateAll(context.Background(), in)
	if len(results) != len(in) {
		t.Fatalf("%d results for %d inputs", len(results), len(in))
	}
	for i, r := range results {
		if r.ID != in[i].Design().ID {
			t.Errorf("result %d has ID %s", i, r.ID)
		}
		if r.ID == "bad" {
			if r.Err == nil {
				t.Error("321 stainless steel should fail")
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("%s: %v", r.ID, r.Err)
			continue
		}
		if r.Costed.Design().ID != r.ID {
			t.Errorf("%s: costed design has ID %s", r.ID, r.Costed.Design().ID)
		}
		if r.Costed.Costs() != want.Costs() {
			t.Errorf("%s: costs %+v, want %+v", r.ID, r.Costed.Costs(), want.Costs())
		}
	}
	if results[3].Costed.Converged() {
		t.Error("result 3 should not be converged")
	}

	var warnings, errs int
	for _, e := range hook.AllEntries() {
		switch e.Level {
		case logrus.WarnLevel:
			warnings++
		case logrus.ErrorLevel:
			errs++
			if e.Data["id"] != "bad" {
				t.Errorf("error logged for %v", e.Data["id"])
			}
		}
	}
	if warnings != 1 || errs != 1 {
		t.Errorf("%d warnings and %d errors logged, want 1 and 1", warnings, errs)
	}
}

func TestEvaluateRecords(t *testing.T) {
	ev := NewEvaluator(DefaultTables(), DefaultEconomics(), 2, 0)
	ev.Log, _ = test.NewNullLogger()

	s, err := Simulate(testDesign("ok"), testSimulation())
	if err != nil {
		t.Fatal(err)
	}
	recs := []Record{s.Record(), testDesign("unsimulated").Record()}
	out := ev.EvaluateRecords(context.Background(), recs)
	if out[0].Error != "" || out[0].TAC == nil {
		t.Errorf("record 0 not costed: %s", out[0].Error)
	}
	if out[1].Error == "" || out[1].TAC != nil || out[1].ID != "unsimulated" {
		t.Errorf("record 1 should have failed: %+v", out[1])
	}
}

func TestEvaluatorCanceled(t *testing.T) {
	ev := NewEvaluator(DefaultTables(), DefaultEconomics(), 1, 0)
	s, err := Simulate(testDesign("0"), testSimulation())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ev.Evaluate(ctx, s); err != context.Canceled {
		t.Errorf("want context.Canceled, have %v", err)
	}
}
