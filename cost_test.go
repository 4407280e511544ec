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

func TestEquipmentCost(t *testing.T) {
	tables := DefaultTables()
	c, err := tables.EquipmentCost(DistillationColumn, SieveTray, 2, StainlessSteel304)
	if err != nil {
		t.Fatal(err)
	}
	if want := 7452.831652292565; !similar(c, want) {
		t.Errorf("tray cost = %g, want %g", c, want)
	}

	if _, err := tables.EquipmentCost(DistillationColumn, SieveTray, -1, StainlessSteel304); err == nil {
		t.Error("negative size should fail")
	}
	delete(tables.MaterialFactors, Monel)
	_, err = tables.EquipmentCost(DistillationColumn, SieveTray, 1, Monel)
	var me *MaterialError
	if !errors.As(err, &me) {
		t.Errorf("want *MaterialError, have %v", err)
	}
}

func TestEquipmentCostMonotonic(t *testing.T) {
	tables := DefaultTables()
	for typ := range tables.Correlations {
		t.Run(typ.String(), func(t *testing.T) {
			prev := -1.0
			for s := 0.0; s < 5000; s = s*1.5 + 0.1 {
				c, err := tables.EquipmentCost(HeatExchanger, typ, s, CarbonSteel)
				if err != nil {
					t.Fatal(err)
				}
				if !(c > prev) {
					t.Fatalf("cost %g at size %g is not greater than %g", c, s, prev)
				}
				prev = c
			}
		})
	}
}

func TestColumnEquipmentCost(t *testing.T) {
	tables := DefaultTables()
	e := ColumnEquipment{
		ReboilerArea:  50,
		CondenserArea: 40,
		CondenserDuty: -2e6,
		Diameter:      2,
		ShellMass:     10000,
		Trays:         30,
		Material:      StainlessSteel304,
	}
	c, err := tables.ColumnEquipmentCost(e)
	if err != nil {
		t.Fatal(err)
	}
	if want := c.Reboiler + c.Condenser + 30*c.Tray + c.Vessel; !similar(c.Total, want) {
		t.Errorf("total = %g, want %g", c.Total, want)
	}
	reb, _ := tables.EquipmentCost(HeatExchanger, KettleReboiler, 50, StainlessSteel304)
	cond, _ := tables.EquipmentCost(HeatExchanger, KettleReboiler, 40, StainlessSteel304)
	if c.Reboiler != reb || c.Condenser != cond {
		t.Errorf("reboiler, condenser = %g, %g; want %g, %g", c.Reboiler, c.Condenser, reb, cond)
	}

	// A refrigerated condenser is sized on its duty in kW.
	e.Refrigerated = true
	c, err = tables.ColumnEquipmentCost(e)
	if err != nil {
		t.Fatal(err)
	}
	ref, _ := tables.EquipmentCost(HeatExchanger, Refrigerator, 2000, StainlessSteel304)
	if c.Condenser != ref {
		t.Errorf("refrigerated condenser = %g, want %g", c.Condenser, ref)
	}
}

func TestUtilityOperatingCost(t *testing.T) {
	have, err := UtilityOperatingCost(2000, 400, -1800, 310, 802.6, 4.5)
	if err != nil {
		t.Fatal(err)
	}
	if want := 903100.6335376169; !scalar.EqualWithinAbsOrRel(have, want, 1e-9, 1e-9) {
		t.Errorf("utility cost = %g, want %g", have, want)
	}

	// Cold utility unit cost multiplies the reboiler duty.
	qr, tr, qc, tc := 2000.0, 400.0, 1800.0, 310.0
	hot := 7e-7*math.Pow(qr, -0.9)*math.Sqrt(tr)*802.6 + 6e-8*math.Sqrt(tr)*4.5
	cold := 0.6*math.Pow(qc, -0.9)*math.Pow(tc, -3)*802.6 + 1.1e6*math.Pow(tc, -5)*4.5
	if want := (cold*qr + hot*qc) * 3600 * 24 * 300; !similar(have, want) {
		t.Errorf("utility cost = %g, want %g", have, want)
	}

	for _, args := range [][4]float64{
		{0, 400, 1800, 310},
		{2000, 400, 0, 310},
		{2000, 0, 1800, 310},
		{2000, 400, 1800, -1},
	} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			_, err := UtilityOperatingCost(args[0], args[1], args[2], args[3], 802.6, 4.5)
			var ie *InvalidInputError
			if !errors.As(err, &ie) {
				t.Errorf("want *InvalidInputError, have %v", err)
			}
		})
	}
}

func TestACCR(t *testing.T) {
	a, err := ACCR(0.2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if want := 0.3343797032896152; !similar(a, want) {
		t.Errorf("accr(0.2, 5) = %g, want %g", a, want)
	}
	if math.Abs(a-0.3344) > 5e-5 {
		t.Errorf("accr(0.2, 5) = %g, want about 0.3344", a)
	}

	t.Run("increasing in interest", func(t *testing.T) {
		for _, n := range []int{1, 5, 20} {
			prev := 0.0
			for i := 0.01; i < 1; i += 0.01 {
				a, err := ACCR(i, n)
				if err != nil {
					t.Fatal(err)
				}
				if !(a > prev) {
					t.Errorf("accr(%g, %d) = %g is not greater than %g", i, n, a, prev)
				}
				prev = a
			}
		}
	})
	t.Run("tends to interest", func(t *testing.T) {
		for _, i := range []float64{0.05, 0.2, 0.5} {
			a, err := ACCR(i, 1000)
			if err != nil {
				t.Fatal(err)
			}
			if !similar(a, i) {
				t.Errorf("accr(%g, 1000) = %g", i, a)
			}
		}
	})
	t.Run("one year", func(t *testing.T) {
		a, _ := ACCR(0.1, 1)
		if !similar(a, 1.1) {
			t.Errorf("accr(0.1, 1) = %g, want 1.1", a)
		}
	})
	for _, test := range []struct {
		i float64
		n int
	}{{0, 5}, {-0.1, 5}, {0.2, 0}, {0.2, -3}, {math.NaN(), 5}} {
		t.Run(fmt.Sprint(test.i, test.n), func(t *testing.T) {
			_, err := ACCR(test.i, test.n)
			var ae *AmortizationError
			if !errors.As(err, &ae) {
				t.Errorf("want *AmortizationError, have %v", err)
			}
		})
	}
}

func TestTAC(t *testing.T) {
	if have := TAC(0.5, 1000, 300); have != 800 {
		t.Errorf("TAC = %g, want 800", have)
	}
}
