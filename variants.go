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

import "fmt"

// UnknownVariantError is returned when a name does not correspond to
// any member of one of the closed enumerations in this package.
type UnknownVariantError struct {
	Kind, Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("distcost: unknown %s %q", e.Kind, e.Name)
}

// parseVariant finds name in names and returns its index.
func parseVariant(kind, name string, names []string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return -1, &UnknownVariantError{Kind: kind, Name: name}
}

func variantString(kind string, i int, names []string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

// Material is a construction material for column shells, trays and
// heat exchangers.
type Material int

// These are the construction materials with cost data. Aluminium, bronze
// and nickel are omitted because there is no pressure-vessel stress data
// for them.
const (
	CarbonSteel Material = iota
	CastSteel
	StainlessSteel304
	StainlessSteel316
	StainlessSteel321
	HastelloyC
	Monel
	Inconel
)

var materialNames = []string{
	CarbonSteel:       "Carbon steel",
	CastSteel:         "Cast steel",
	StainlessSteel304: "304 stainless steel",
	StainlessSteel316: "316 stainless steel",
	StainlessSteel321: "321 stainless steel",
	HastelloyC:        "Hastelloy C",
	Monel:             "Monel",
	Inconel:           "Inconel",
}

// Materials returns all known materials in declaration order.
func Materials() []Material {
	o := make([]Material, len(materialNames))
	for i := range o {
		o[i] = Material(i)
	}
	return o
}

func (m Material) String() string { return variantString("Material", int(m), materialNames) }

// ParseMaterial returns the material with the given name.
func ParseMaterial(name string) (Material, error) {
	i, err := parseVariant("material", name, materialNames)
	return Material(i), err
}

// MarshalText implements encoding.TextMarshaler.
func (m Material) MarshalText() ([]byte, error) {
	if int(m) < 0 || int(m) >= len(materialNames) {
		return nil, &UnknownVariantError{Kind: "material", Name: m.String()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Material) UnmarshalText(b []byte) error {
	v, err := ParseMaterial(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// EquipmentCategory is a category of process equipment with its own
// installation factor.
type EquipmentCategory int

// Equipment categories from Table 6.3 of Sinnott & Towler,
// Chemical Engineering Design, 6th ed.
const (
	Compressor EquipmentCategory = iota
	DistillationColumn
	FiredHeater
	HeatExchanger
	Instrument
	Miscellaneous
	PressureVessel
	Pump
)

var categoryNames = []string{
	Compressor:         "Compressor",
	DistillationColumn: "Distillation column",
	FiredHeater:        "Fired heater",
	HeatExchanger:      "Heat exchanger",
	Instrument:         "Instrument",
	Miscellaneous:      "Miscellaneous",
	PressureVessel:     "Pressure vessel",
	Pump:               "Pump",
}

func (c EquipmentCategory) String() string {
	return variantString("EquipmentCategory", int(c), categoryNames)
}

// ParseEquipmentCategory returns the category with the given name.
func ParseEquipmentCategory(name string) (EquipmentCategory, error) {
	i, err := parseVariant("equipment category", name, categoryNames)
	return EquipmentCategory(i), err
}

// EquipmentType is a specific kind of equipment with its own
// cost correlation.
type EquipmentType int

// Equipment types used for pricing a tray column.
const (
	KettleReboiler EquipmentType = iota
	SieveTray
	VerticalVessel
	Refrigerator
)

var equipmentTypeNames = []string{
	KettleReboiler: "U-tube Kettle reboiler",
	SieveTray:      "Sieve tray",
	VerticalVessel: "Vertical pressure vessel",
	Refrigerator:   "Packaged mechanical refrigerator",
}

func (e EquipmentType) String() string {
	return variantString("EquipmentType", int(e), equipmentTypeNames)
}

// ParseEquipmentType returns the equipment type with the given name.
func ParseEquipmentType(name string) (EquipmentType, error) {
	i, err := parseVariant("equipment type", name, equipmentTypeNames)
	return EquipmentType(i), err
}

// Mode is the service a utility fluid provides to the process fluid.
type Mode int

// Heating utilities supply heat to the process (reboilers); cooling
// utilities remove it (condensers).
const (
	Heating Mode = iota
	Cooling
)

var modeNames = []string{
	Heating: "heating",
	Cooling: "cooling",
}

func (m Mode) String() string { return variantString("Mode", int(m), modeNames) }

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	i, err := parseVariant("mode", name, modeNames)
	return Mode(i), err
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ExchangerType is the kind of heat exchanger a utility fluid requires.
type ExchangerType int

// Exchanger types.
const (
	ShellAndTube ExchangerType = iota
	AirCooler
)

var exchangerNames = []string{
	ShellAndTube: "Shell & Tube",
	AirCooler:    "Air Cooler",
}

func (e ExchangerType) String() string {
	return variantString("ExchangerType", int(e), exchangerNames)
}

// ParseExchangerType returns the exchanger type with the given name.
func ParseExchangerType(name string) (ExchangerType, error) {
	i, err := parseVariant("exchanger type", name, exchangerNames)
	return ExchangerType(i), err
}

// MarshalText implements encoding.TextMarshaler.
func (e ExchangerType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ExchangerType) UnmarshalText(b []byte) error {
	v, err := ParseExchangerType(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
