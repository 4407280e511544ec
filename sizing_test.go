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
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const tolerance = 1e-12

func similar(a, b float64) bool { return scalar.EqualWithinAbsOrRel(a, b, tolerance, tolerance) }

func TestColumnDiameter(t *testing.T) {
	d, err := ColumnDiameter(10, 5, 600, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0900183158736083; !similar(d, want) {
		t.Errorf("diameter = %g, want %g", d, want)
	}

	for _, test := range []struct {
		name                    string
		rate, vap, liq, spacing float64
	}{
		{name: "liquid lighter than vapor", rate: 10, vap: 5, liq: 4, spacing: 0.6},
		{name: "equal densities", rate: 10, vap: 5, liq: 5, spacing: 0.6},
		{name: "zero vapor density", rate: 10, vap: 0, liq: 600, spacing: 0.6},
		{name: "no vapor", rate: 0, vap: 5, liq: 600, spacing: 0.6},
		{name: "narrow spacing", rate: 10, vap: 5, liq: 600, spacing: 0.1},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ColumnDiameter(test.rate, test.vap, test.liq, test.spacing)
			var se *SizingError
			if !errors.As(err, &se) {
				t.Fatalf("want *SizingError, have %v", err)
			}
			if se.Formula != "column diameter" {
				t.Errorf("formula = %q", se.Formula)
			}
		})
	}
}

func TestWallThickness(t *testing.T) {
	th, err := WallThickness(1e6, 2, 1, 115e6)
	if err != nil {
		t.Fatal(err)
	}
	if want := 0.009620430295609585; !similar(th, want) {
		t.Errorf("thickness = %g, want %g", th, want)
	}

	// 2SE - 1.2P <= 0.
	_, err = WallThickness(1e6, 2, 1, 0.5e6)
	var se *SizingError
	if !errors.As(err, &se) || se.Formula != "wall thickness" {
		t.Errorf("want wall thickness *SizingError, have %v", err)
	}
	if _, err = WallThickness(1e6, 2, 0, 115e6); err == nil {
		t.Error("zero weld efficiency should fail")
	}
	if _, err = WallThickness(1e6, 2, 1.1, 115e6); err == nil {
		t.Error("weld efficiency above 1 should fail")
	}
}

func TestMaxAllowableStressExact(t *testing.T) {
	tables := DefaultTables()
	for m, row := range tables.Stress.Rows {
		for i, T := range tables.Stress.Temperatures {
			t.Run(fmt.Sprintf("%s %g", m, T), func(t *testing.T) {
				have, err := tables.MaxAllowableStress(m, T)
				if err != nil {
					t.Fatal(err)
				}
				if want := row[i] * 1e6; have != want {
					t.Errorf("have %g, want %g", have, want)
				}
			})
		}
	}
}

func TestMaxAllowableStressBracket(t *testing.T) {
	tables := DefaultTables()
	temps := tables.Stress.Temperatures
	for m, row := range tables.Stress.Rows {
		for i := 0; i < len(temps)-1; i++ {
			for _, frac := range []float64{0.01, 0.5, 0.99} {
				T := temps[i] + frac*(temps[i+1]-temps[i])
				have, err := tables.MaxAllowableStress(m, T)
				if err != nil {
					t.Fatalf("%s %g: %v", m, T, err)
				}
				if want := row[i] * 1e6; have != want {
					t.Errorf("%s %g: have %g, want lower bracket %g", m, T, have, want)
				}
			}
		}
	}
}

func TestMaxAllowableStress(t *testing.T) {
	tables := DefaultTables()
	for _, test := range []struct {
		m    Material
		T    float64
		want float64
		err  bool
	}{
		{m: StainlessSteel304, T: 373, want: 115e6},
		{m: StainlessSteel304, T: 360, want: 115e6},
		{m: StainlessSteel304, T: 500, want: 110e6},
		{m: CarbonSteel, T: 748, want: 45.5e6},
		{m: StainlessSteel304, T: 312.9, err: true},
		{m: StainlessSteel304, T: 748.1, err: true},
		{m: StainlessSteel304, T: math.Inf(1), err: true},
	} {
		t.Run(fmt.Sprintf("%s %g", test.m, test.T), func(t *testing.T) {
			have, err := tables.MaxAllowableStress(test.m, test.T)
			if test.err {
				var oe *OutOfRangeError
				if !errors.As(err, &oe) {
					t.Fatalf("want *OutOfRangeError, have %v (%g)", err, have)
				}
				if oe.Min != 313 || oe.Max != 748 {
					t.Errorf("range = [%g, %g]", oe.Min, oe.Max)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if have != test.want {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}

	_, err := tables.MaxAllowableStress(StainlessSteel321, 400)
	var me *MaterialError
	if !errors.As(err, &me) {
		t.Errorf("321 stainless steel: want *MaterialError, have %v", err)
	}
}

func TestMaxAllowableStressMalformedTable(t *testing.T) {
	for _, tables := range []*Tables{
		{Stress: StressTable{Rows: map[Material][]float64{CarbonSteel: {1}}}},
		{Stress: StressTable{Temperatures: []float64{300, 400}, Rows: map[Material][]float64{CarbonSteel: {1}}}},
	} {
		if _, err := tables.MaxAllowableStress(CarbonSteel, 350); err == nil {
			t.Errorf("%+v: want error", tables.Stress)
		}
	}
}

func TestColumnLength(t *testing.T) {
	for _, test := range []struct {
		trays            int
		boilup, diameter float64
		want             float64
	}{
		// The sump is at its minimum height.
		{trays: 20, boilup: 0.001, diameter: 2, want: 20*0.6 + 0.5 + 1.5},
		{trays: 20, boilup: 0.1, diameter: 2, want: 20*0.6 + 420*0.1/math.Pi + 1.5},
		{trays: 2, boilup: 0, diameter: 1, want: 2*0.6 + 0.5 + 1.5},
	} {
		t.Run(fmt.Sprint(test.trays, test.boilup), func(t *testing.T) {
			have, err := ColumnLength(test.trays, 0.6, test.boilup, test.diameter)
			if err != nil {
				t.Fatal(err)
			}
			if !similar(have, test.want) {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
	if _, err := ColumnLength(0, 0.6, 0.1, 2); err == nil {
		t.Error("zero trays should fail")
	}
	if _, err := ColumnLength(10, 0.6, 0.1, 0); err == nil {
		t.Error("zero diameter should fail")
	}
}

func TestShellMass(t *testing.T) {
	m, err := ShellMass(2, 14, 0.01, 8030)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Pi * 2 * 14 * 0.01 * 8030; !similar(m, want) {
		t.Errorf("mass = %g, want %g", m, want)
	}
	if _, err := ShellMass(2, 14, 0, 8030); err == nil {
		t.Error("zero thickness should fail")
	}
}
