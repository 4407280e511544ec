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
	"io"

	"github.com/BurntSushi/toml"
)

// Correlation holds the coefficients of the purchased equipment cost
// correlation Cost = a + b*S^n, where S is the characteristic size of the
// equipment.
type Correlation struct {
	A, B, N float64
}

// StressTable holds maximum allowable stresses for pressure vessel
// materials as a function of design temperature.
type StressTable struct {
	// Temperatures are the tabulated design temperatures [K],
	// strictly increasing.
	Temperatures []float64

	// Rows holds the maximum allowable stress [MPa] of each material at
	// each of the tabulated temperatures.
	Rows map[Material][]float64
}

// Utility is an entry in the utility fluid catalog.
type Utility struct {
	Name string

	// Mode is the service the fluid provides to the process fluid.
	Mode Mode

	// Inlet is the utility inlet temperature [K].
	Inlet float64

	// HTC is the overall heat transfer coefficient [W/m²/K].
	HTC float64

	// Low and High bound the process temperatures [K] the fluid
	// can serve, exclusive.
	Low, High float64

	// MinDeltaT is the minimum approach temperature [K].
	MinDeltaT float64

	Exchanger ExchangerType
}

// Tables holds the reference data needed to size and price a column.
// Tables are read-only once loaded and may be shared between goroutines.
type Tables struct {
	// InstallationFactors multiply the purchased cost of each
	// category of equipment.
	InstallationFactors map[EquipmentCategory]float64

	// MaterialFactors multiply equipment costs for materials other
	// than carbon steel.
	MaterialFactors map[Material]float64

	Correlations map[EquipmentType]Correlation

	// Densities are material densities [kg/m³].
	Densities map[Material]float64

	Stress StressTable

	// Utilities is the utility fluid catalog. Order matters: see
	// SelectUtility.
	Utilities []Utility
}

// DefaultTables returns the reference data for ±30% estimates.
// Cost data are from Tables 6.3, 6.5 and 6.6 of Sinnott & Towler,
// Chemical Engineering Design, 6th ed.; densities and stresses are from
// ASME BPVC Sec. II D (2010); utility data are from the Aspen HYSYS
// Process Utility Manager.
func DefaultTables() *Tables {
	return &Tables{
		InstallationFactors: map[EquipmentCategory]float64{
			Compressor:         2.5,
			DistillationColumn: 4,
			FiredHeater:        2,
			HeatExchanger:      3.5,
			Instrument:         4,
			Miscellaneous:      2.5,
			PressureVessel:     4,
			Pump:               4,
		},
		MaterialFactors: map[Material]float64{
			CarbonSteel:       1.0,
			CastSteel:         1.1,
			StainlessSteel304: 1.3,
			StainlessSteel316: 1.3,
			StainlessSteel321: 1.5,
			HastelloyC:        1.55,
			Monel:             1.65,
			Inconel:           1.7,
		},
		Correlations: map[EquipmentType]Correlation{
			KettleReboiler: {A: 25000, B: 340, N: 0.9},
			SieveTray:      {A: 110, B: 380, N: 1.8},
			VerticalVessel: {A: 10000, B: 29, N: 0.85},
			Refrigerator:   {A: 21000, B: 3100, N: 0.9},
		},
		Densities: map[Material]float64{
			CarbonSteel:       7750,
			CastSteel:         7750,
			StainlessSteel304: 8030,
			StainlessSteel316: 8030,
			StainlessSteel321: 8030,
			HastelloyC:        8500,
			Monel:             8860,
			Inconel:           8410,
		},
		Stress: StressTable{
			Temperatures: []float64{313, 338, 373, 398, 423, 473, 523, 573, 598, 623, 648, 673, 698, 723, 748},
			// 321 stainless steel has no stress data and so cannot be
			// used for sizing.
			Rows: map[Material][]float64{
				CarbonSteel:       {118, 118, 118, 118, 118, 118, 114, 107, 104, 101, 97.8, 89.1, 75.4, 62.6, 45.5},
				CastSteel:         {118, 118, 118, 118, 118, 118, 114, 107, 104, 101, 97.8, 89.1, 75.4, 62.6, 45.5},
				StainlessSteel304: {115, 115, 115, 115, 115, 110, 103, 97.7, 95.7, 94.1, 92.6, 91.3, 90.0, 88.7, 86.6},
				StainlessSteel316: {115, 115, 115, 115, 115, 109, 103, 98, 95.7, 94.1, 92.8, 90.9, 89.0, 87.8, 86.6},
				HastelloyC:        {690, 690, 690, 690, 690, 690, 690, 636, 631, 626, 621, 615, 609, 602, 595},
				Monel:             {115, 107, 99.4, 95.9, 93.7, 91.1, 90.4, 90.3, 90.3, 90.2, 89.5, 89.5, 88.9, 78.5, 60.8},
				Inconel:           {158, 152, 146, 144, 143, 142, 140, 138, 137, 136, 135, 134, 132, 130, 118},
			},
		},
		Utilities: []Utility{
			{Name: "HP Steam Generation", Mode: Cooling, Inlet: 522, HTC: 6000, High: 3273, Low: 532.5, MinDeltaT: 10, Exchanger: ShellAndTube},
			{Name: "MP Steam Generation", Mode: Cooling, Inlet: 447, HTC: 6000, High: 532.5, Low: 457.5, MinDeltaT: 10, Exchanger: ShellAndTube},
			{Name: "LP Steam Generation", Mode: Cooling, Inlet: 397, HTC: 6000, High: 457.5, Low: 407.5, MinDeltaT: 10, Exchanger: ShellAndTube},
			{Name: "Air", Mode: Cooling, Inlet: 303, HTC: 111, High: 407.5, Low: 317.5, MinDeltaT: 10, Exchanger: AirCooler},
			{Name: "Cooling Water", Mode: Cooling, Inlet: 293, HTC: 3750, High: 317.5, Low: 302.5, MinDeltaT: 5, Exchanger: ShellAndTube},
			{Name: "Rf1", Mode: Cooling, Inlet: 248, HTC: 1300, High: 302.5, Low: 251.5, MinDeltaT: 3, Exchanger: ShellAndTube},
			{Name: "Rf2", Mode: Cooling, Inlet: 233, HTC: 1300, High: 251.5, Low: 236.5, MinDeltaT: 3, Exchanger: ShellAndTube},
			{Name: "Rf3", Mode: Cooling, Inlet: 208, HTC: 1300, High: 236.5, Low: 210.5, MinDeltaT: 2, Exchanger: ShellAndTube},
			{Name: "Rf4", Mode: Cooling, Inlet: 170, HTC: 1300, High: 210.5, Low: 173, MinDeltaT: 2, Exchanger: ShellAndTube},

			{Name: "Rf4 Generation", Mode: Heating, Inlet: 171, HTC: 1300, High: 169.5, Low: 0, MinDeltaT: 2, Exchanger: ShellAndTube},
			{Name: "Rf3 Generation", Mode: Heating, Inlet: 209, HTC: 1300, High: 207.5, Low: 169.5, MinDeltaT: 2, Exchanger: ShellAndTube},
			{Name: "Rf2 Generation", Mode: Heating, Inlet: 234, HTC: 1300, High: 231.5, Low: 207.5, MinDeltaT: 3, Exchanger: ShellAndTube},
			{Name: "Rf1 Generation", Mode: Heating, Inlet: 249, HTC: 1300, High: 246.5, Low: 231.5, MinDeltaT: 3, Exchanger: ShellAndTube},
			{Name: "LP Steam", Mode: Heating, Inlet: 398, HTC: 6000, High: 388.5, Low: 246.5, MinDeltaT: 10, Exchanger: ShellAndTube},
			{Name: "MP Steam", Mode: Heating, Inlet: 448, HTC: 6000, High: 438.5, Low: 388.5, MinDeltaT: 10, Exchanger: ShellAndTube},
			{Name: "HP Steam", Mode: Heating, Inlet: 523, HTC: 6000, High: 513.5, Low: 438.5, MinDeltaT: 10, Exchanger: ShellAndTube},
			{Name: "Hot Oil", Mode: Heating, Inlet: 553, HTC: 232.3, High: 548.5, Low: 513.5, MinDeltaT: 5, Exchanger: ShellAndTube},
		},
	}
}

// CheckMaterial returns an error if m is not present in every table
// needed to size and price equipment made of it.
func (t *Tables) CheckMaterial(m Material) error {
	if _, ok := t.Densities[m]; !ok {
		return &MaterialError{Material: m, Table: "density"}
	}
	if _, ok := t.MaterialFactors[m]; !ok {
		return &MaterialError{Material: m, Table: "material factor"}
	}
	if _, ok := t.Stress.Rows[m]; !ok {
		return &MaterialError{Material: m, Table: "maximum allowable stress"}
	}
	return nil
}

// SizingMaterials returns the materials that pass CheckMaterial.
func (t *Tables) SizingMaterials() []Material {
	var o []Material
	for _, m := range Materials() {
		if t.CheckMaterial(m) == nil {
			o = append(o, m)
		}
	}
	return o
}

// Validate checks the internal consistency of the tables.
func (t *Tables) Validate() error {
	for c, f := range t.InstallationFactors {
		if !(f > 0) {
			return fmt.Errorf("distcost: installation factor for %s is %g but should be >0", c, f)
		}
	}
	for m, f := range t.MaterialFactors {
		if !(f > 0) {
			return fmt.Errorf("distcost: material factor for %s is %g but should be >0", m, f)
		}
	}
	for m, d := range t.Densities {
		if !(d > 0) {
			return fmt.Errorf("distcost: density of %s is %g but should be >0", m, d)
		}
	}
	for e, c := range t.Correlations {
		if c.A < 0 || !(c.B > 0) || !(c.N > 0) {
			return fmt.Errorf("distcost: cost correlation for %s is %+v; a should be >=0 and b, n >0", e, c)
		}
	}
	temps := t.Stress.Temperatures
	if len(temps) == 0 {
		return fmt.Errorf("distcost: the stress table has no temperatures")
	}
	for i := 1; i < len(temps); i++ {
		if !(temps[i] > temps[i-1]) {
			return fmt.Errorf("distcost: stress table temperatures must be strictly increasing; %g follows %g",
				temps[i], temps[i-1])
		}
	}
	for m, row := range t.Stress.Rows {
		if len(row) != len(temps) {
			return fmt.Errorf("distcost: stress row for %s has %d values but there are %d temperatures",
				m, len(row), len(temps))
		}
	}
	for _, u := range t.Utilities {
		if !(u.Low < u.High) {
			return fmt.Errorf("distcost: utility %s band (%g, %g) is empty", u.Name, u.Low, u.High)
		}
		if !(u.HTC > 0) {
			return fmt.Errorf("distcost: utility %s heat transfer coefficient is %g but should be >0", u.Name, u.HTC)
		}
	}
	return nil
}

// tablesFile is the TOML representation of Tables. Map keys are the
// names of the enumerated variants.
type tablesFile struct {
	InstallationFactors map[string]float64
	MaterialFactors     map[string]float64
	Densities           map[string]float64
	Correlations        map[string][]float64
	Stress              struct {
		Temperatures []float64
		Rows         map[string][]float64
	}
	Utilities []Utility
}

// LoadTables reads tables in TOML format from r and validates them.
func LoadTables(r io.Reader) (*Tables, error) {
	var f tablesFile
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return nil, fmt.Errorf("distcost: decoding tables: %v", err)
	}
	t := &Tables{
		InstallationFactors: make(map[EquipmentCategory]float64),
		MaterialFactors:     make(map[Material]float64),
		Correlations:        make(map[EquipmentType]Correlation),
		Densities:           make(map[Material]float64),
		Stress: StressTable{
			Temperatures: f.Stress.Temperatures,
			Rows:         make(map[Material][]float64),
		},
		Utilities: f.Utilities,
	}
	for k, v := range f.InstallationFactors {
		c, err := ParseEquipmentCategory(k)
		if err != nil {
			return nil, err
		}
		t.InstallationFactors[c] = v
	}
	for _, mm := range []struct {
		in  map[string]float64
		out map[Material]float64
	}{
		{in: f.MaterialFactors, out: t.MaterialFactors},
		{in: f.Densities, out: t.Densities},
	} {
		for k, v := range mm.in {
			m, err := ParseMaterial(k)
			if err != nil {
				return nil, err
			}
			mm.out[m] = v
		}
	}
	for k, v := range f.Correlations {
		e, err := ParseEquipmentType(k)
		if err != nil {
			return nil, err
		}
		if len(v) != 3 {
			return nil, fmt.Errorf("distcost: cost correlation for %s should have 3 coefficients (a, b, n) but has %d", e, len(v))
		}
		t.Correlations[e] = Correlation{A: v[0], B: v[1], N: v[2]}
	}
	for k, v := range f.Stress.Rows {
		m, err := ParseMaterial(k)
		if err != nil {
			return nil, err
		}
		t.Stress.Rows[m] = v
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode writes t to w in the TOML format read by LoadTables.
func (t *Tables) Encode(w io.Writer) error {
	var f tablesFile
	f.InstallationFactors = make(map[string]float64)
	for k, v := range t.InstallationFactors {
		f.InstallationFactors[k.String()] = v
	}
	f.MaterialFactors = make(map[string]float64)
	for k, v := range t.MaterialFactors {
		f.MaterialFactors[k.String()] = v
	}
	f.Densities = make(map[string]float64)
	for k, v := range t.Densities {
		f.Densities[k.String()] = v
	}
	f.Correlations = make(map[string][]float64)
	for k, v := range t.Correlations {
		f.Correlations[k.String()] = []float64{v.A, v.B, v.N}
	}
	f.Stress.Temperatures = t.Stress.Temperatures
	f.Stress.Rows = make(map[string][]float64)
	for k, v := range t.Stress.Rows {
		f.Stress.Rows[k.String()] = v
	}
	f.Utilities = t.Utilities
	return toml.NewEncoder(w).Encode(f)
}
