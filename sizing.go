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

const (
	// sumpResidenceTime is the liquid residence time at the column
	// base [s] (Kister, Distillation Operation, Table 4.1).
	sumpResidenceTime = 7 * 60

	minSumpHeight     = 0.5 // m
	overheadHeight    = 1.0 // m
	distributorHeight = 0.5 // m, feed distributor

	designPressureFactor = 1.1
)

// ColumnDiameter estimates the diameter [m] of a tray column from the
// maximum vapor flow [kg/s], minimum vapor density and maximum liquid
// density [kg/m³], and the tray spacing [m]. The allowable vapor velocity
// follows Equations 11.47 and 11.48 of Sinnott & Towler, Chemical
// Engineering Design, 6th ed.
func ColumnDiameter(vaporRate, vaporDensity, liquidDensity, traySpacing float64) (float64, error) {
	const formula = "column diameter"
	if !(vaporDensity > 0) {
		return 0, sizingErr(formula, "vapor density %g kg/m³ should be >0", vaporDensity)
	}
	if !(liquidDensity > vaporDensity) {
		return 0, sizingErr(formula, "liquid density %g kg/m³ is not greater than vapor density %g kg/m³",
			liquidDensity, vaporDensity)
	}
	if !(vaporRate > 0) {
		return 0, sizingErr(formula, "vapor flow %g kg/s should be >0", vaporRate)
	}
	k := -0.171*traySpacing*traySpacing + 0.27*traySpacing - 0.047
	u := k * math.Sqrt((liquidDensity-vaporDensity)/vaporDensity)
	if !(u > 0) {
		return 0, sizingErr(formula, "allowable vapor velocity %g m/s for tray spacing %g m should be >0",
			u, traySpacing)
	}
	return math.Sqrt(4 * vaporRate / (math.Pi * vaporDensity * u)), nil
}

// WallThickness calculates the shell thickness [m] of a cylindrical
// vessel with the given operating pressure [Pa], diameter [m], welded
// joint efficiency (0–1] and maximum allowable stress [Pa] using Equation
// 13.41 of Sinnott & Towler with a design pressure 10% above the operating
// pressure.
func WallThickness(operatingPressure, diameter, weldEfficiency, maxStress float64) (float64, error) {
	const formula = "wall thickness"
	if !(operatingPressure > 0) {
		return 0, sizingErr(formula, "operating pressure %g Pa should be >0", operatingPressure)
	}
	if !(diameter > 0) {
		return 0, sizingErr(formula, "diameter %g m should be >0", diameter)
	}
	if !(weldEfficiency > 0 && weldEfficiency <= 1) {
		return 0, sizingErr(formula, "weld efficiency %g should be in (0, 1]", weldEfficiency)
	}
	p := designPressureFactor * operatingPressure
	den := 2*maxStress*weldEfficiency - 1.2*p
	if !(den > 0) {
		return 0, sizingErr(formula, "denominator 2SE-1.2P = %g Pa is not positive "+
			"(stress %g Pa, weld efficiency %g, design pressure %g Pa)", den, maxStress, weldEfficiency, p)
	}
	return p * diameter / den, nil
}

// MaxAllowableStress returns the maximum allowable stress [Pa] of m at the
// given design temperature [K].
//
// Temperatures that are not tabulated use the row of the next lower
// tabulated temperature. This is less conservative than interpolating.
// Temperatures below the first or above the last tabulated value return
// an *OutOfRangeError.
func (t *Tables) MaxAllowableStress(m Material, temperature float64) (float64, error) {
	row, ok := t.Stress.Rows[m]
	if !ok {
		return 0, &MaterialError{Material: m, Table: "maximum allowable stress"}
	}
	temps := t.Stress.Temperatures
	if len(temps) == 0 || len(row) != len(temps) {
		return 0, fmt.Errorf("distcost: stress row for %s has %d values but there are %d temperatures",
			m, len(row), len(temps))
	}
	outOfRange := &OutOfRangeError{
		Quantity: "design temperature",
		Material: m,
		Value:    temperature,
		Min:      temps[0],
		Max:      temps[len(temps)-1],
	}
	idx := 0
	for _, tt := range temps {
		if tt < temperature {
			idx++
		} else {
			break
		}
	}
	if idx == len(temps) || temps[idx] != temperature {
		idx--
	}
	if idx < 0 || temperature > temps[len(temps)-1] {
		return 0, outOfRange
	}
	return row[idx] * 1e6, nil
}

// ColumnLength estimates the tangent-to-tangent length [m] of a column
// with nTrays trays at the given spacing [m], boilup volumetric flow
// [m³/s] and diameter [m]. The sump holds 7 minutes of boilup with a flat
// head, and is never shorter than 0.5 m; 1 m is added for the overhead
// and 0.5 m for the feed distributor.
func ColumnLength(nTrays int, traySpacing, boilupRate, diameter float64) (float64, error) {
	const formula = "column length"
	if nTrays < 1 {
		return 0, sizingErr(formula, "number of trays %d should be >0", nTrays)
	}
	if !(traySpacing > 0) {
		return 0, sizingErr(formula, "tray spacing %g m should be >0", traySpacing)
	}
	if !(diameter > 0) {
		return 0, sizingErr(formula, "diameter %g m should be >0", diameter)
	}
	if boilupRate < 0 || math.IsNaN(boilupRate) {
		return 0, sizingErr(formula, "boilup flow %g m³/s should be >=0", boilupRate)
	}
	sump := math.Max(minSumpHeight, sumpResidenceTime*boilupRate/(math.Pi/4*diameter*diameter))
	return float64(nTrays)*traySpacing + sump + overheadHeight + distributorHeight, nil
}

// ShellMass calculates the metal mass [kg] of a thin cylindrical shell.
func ShellMass(diameter, length, wallThickness, density float64) (float64, error) {
	m := math.Pi * diameter * length * wallThickness * density
	if !(m > 0) || math.IsInf(m, 0) {
		return 0, sizingErr("shell mass", "mass %g kg of a shell with diameter %g m, length %g m, "+
			"thickness %g m and density %g kg/m³ is not positive", m, diameter, length, wallThickness, density)
	}
	return m, nil
}
