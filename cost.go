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
	"fmt"
	"math"
)

// operatingSeconds is the number of operating seconds per year,
// assuming 300 operating days.
const operatingSeconds = 3600 * 24 * 300

// EquipmentCost calculates the installed cost [$] of one piece of equipment
// with characteristic size s (for example heat transfer area [m²],
// diameter [m], or shell mass [kg]) using Equation 6.15 of Sinnott &
// Towler: IF·MF·(a + b·s^n).
func (t *Tables) EquipmentCost(category EquipmentCategory, typ EquipmentType, s float64, m Material) (float64, error) {
	if s < 0 || math.IsNaN(s) {
		return 0, &InvalidInputError{Field: typ.String() + " size", Value: s, Reason: "should be >=0"}
	}
	inst, ok := t.InstallationFactors[category]
	if !ok {
		return 0, &UnknownVariantError{Kind: "equipment category", Name: category.String()}
	}
	mat, ok := t.MaterialFactors[m]
	if !ok {
		return 0, &MaterialError{Material: m, Table: "material factor"}
	}
	c, ok := t.Correlations[typ]
	if !ok {
		return 0, &UnknownVariantError{Kind: "equipment type", Name: typ.String()}
	}
	return inst * mat * (c.A + c.B*math.Pow(s, c.N)), nil
}

// EquipmentCosts is the breakdown of the installed cost [$] of a column.
type EquipmentCosts struct {
	Reboiler, Condenser float64

	// Tray is the cost of a single tray.
	Tray float64

	// Vessel is the cost of the column shell.
	Vessel float64

	Total float64
}

// ColumnEquipment holds the characteristic sizes of the equipment of a
// tray column.
type ColumnEquipment struct {
	ReboilerArea, CondenserArea float64 // m²

	// CondenserDuty [W] sizes the condenser when it is refrigerated.
	CondenserDuty float64

	// Refrigerated marks a condenser priced as a packaged mechanical
	// refrigerator instead of a kettle exchanger.
	Refrigerated bool

	Diameter  float64 // m
	ShellMass float64 // kg
	Trays     int
	Material  Material
}

// ColumnEquipmentCost prices the reboiler, condenser, trays and shell of a
// column. The total is reboiler + condenser + trays×tray + vessel.
func (t *Tables) ColumnEquipmentCost(e ColumnEquipment) (EquipmentCosts, error) {
	var c EquipmentCosts
	var err error
	if c.Reboiler, err = t.EquipmentCost(HeatExchanger, KettleReboiler, e.ReboilerArea, e.Material); err != nil {
		return c, fmt.Errorf("distcost: pricing reboiler: %w", err)
	}
	if e.Refrigerated {
		c.Condenser, err = t.EquipmentCost(HeatExchanger, Refrigerator, math.Abs(e.CondenserDuty)/1000, e.Material)
	} else {
		c.Condenser, err = t.EquipmentCost(HeatExchanger, KettleReboiler, e.CondenserArea, e.Material)
	}
	if err != nil {
		return c, fmt.Errorf("distcost: pricing condenser: %w", err)
	}
	if c.Tray, err = t.EquipmentCost(DistillationColumn, SieveTray, e.Diameter, e.Material); err != nil {
		return c, fmt.Errorf("distcost: pricing trays: %w", err)
	}
	if c.Vessel, err = t.EquipmentCost(DistillationColumn, VerticalVessel, e.ShellMass, e.Material); err != nil {
		return c, fmt.Errorf("distcost: pricing vessel: %w", err)
	}
	c.Total = c.Reboiler + c.Condenser + float64(e.Trays)*c.Tray + c.Vessel
	return c, nil
}

// UtilityOperatingCost estimates the yearly cost [$] of the hot and cold
// utilities of a column from the reboiler and condenser duties [kW] and
// temperatures [K], the cost index and the fuel cost [$/GJ], using the
// correlations of Ulrich & Vasudevan, How to Estimate Utility Costs,
// Chem. Eng., April 2006.
//
// The hot utility unit cost is multiplied by the condenser duty and the
// cold utility unit cost by the reboiler duty.
// TODO(cost): confirm the pairing of unit costs and duties against the
// published correlations; swapping them changes every TAC value.
func UtilityOperatingCost(qReb, tReb, qCond, tCond, costIndex, fuelCost float64) (float64, error) {
	switch {
	case qReb == 0 || math.IsNaN(qReb):
		return 0, &InvalidInputError{Field: "reboiler duty", Value: qReb, Reason: "should be nonzero"}
	case qCond == 0 || math.IsNaN(qCond):
		return 0, &InvalidInputError{Field: "condenser duty", Value: qCond, Reason: "should be nonzero"}
	case !(tReb > 0):
		return 0, &InvalidInputError{Field: "reboiler temperature", Value: tReb, Reason: "should be >0"}
	case !(tCond > 0):
		return 0, &InvalidInputError{Field: "condenser temperature", Value: tCond, Reason: "should be >0"}
	}
	qr, qc := math.Abs(qReb), math.Abs(qCond)
	hot := 7e-7*math.Pow(qr, -0.9)*math.Sqrt(tReb)*costIndex + 6e-8*math.Sqrt(tReb)*fuelCost
	cold := 0.6*math.Pow(qc, -0.9)*math.Pow(tCond, -3)*costIndex + 1.1e6*math.Pow(tCond, -5)*fuelCost
	return (cold*qr + hot*qc) * operatingSeconds, nil
}

// ACCR calculates the annual capital charge ratio, the fraction of a
// capital investment that must be paid each year to repay it with
// compound interest over the given number of years (Equation 6.47 of
// Sinnott & Towler).
func ACCR(interestRate float64, years int) (float64, error) {
	if !(interestRate > 0) || math.IsInf(interestRate, 0) || years <= 0 {
		return 0, &AmortizationError{InterestRate: interestRate, Years: years}
	}
	f := math.Pow(1+interestRate, float64(years))
	return interestRate * f / (f - 1), nil
}

// TAC combines the annual capital charge ratio, the total equipment cost
// [$] and the yearly utility cost [$/year] into the total annualized cost
// [$/year].
func TAC(accr, equipmentCost, utilityCost float64) float64 {
	return accr*equipmentCost + utilityCost
}
