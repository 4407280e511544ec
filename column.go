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

	"github.com/ctessum/unit"
)

// Default design parameters.
const (
	DefaultTraySpacing    = 0.6 // m
	DefaultMaterial       = StainlessSteel304
	DefaultWeldEfficiency = 1.0
)

// MaterialStream is a process stream of several components.
type MaterialStream struct {
	Name string `json:"streamname"`

	// Components and MassFlows [kg/s] are parallel.
	Components []string  `json:"comp_list"`
	MassFlows  []float64 `json:"mass_flows"`

	Temperature float64 `json:"temperature"` // K
	Pressure    float64 `json:"pressure"`    // Pa
}

// Validate checks that s is physically meaningful.
func (s MaterialStream) Validate() error {
	if len(s.Components) != len(s.MassFlows) {
		return &InvalidInputError{Field: "stream " + s.Name + " components", Value: len(s.Components),
			Reason: fmt.Sprintf("should match the number of mass flows (%d)", len(s.MassFlows))}
	}
	for i, f := range s.MassFlows {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return &InvalidInputError{Field: "stream " + s.Name + " mass flow of " + s.Components[i], Value: f,
				Reason: "should be a finite number >=0"}
		}
	}
	if !(s.Temperature > 0) {
		return &InvalidInputError{Field: "stream " + s.Name + " temperature", Value: s.Temperature, Reason: "should be >0"}
	}
	if !(s.Pressure > 0) {
		return &InvalidInputError{Field: "stream " + s.Name + " pressure", Value: s.Pressure, Reason: "should be >0"}
	}
	return nil
}

// TotalFlow returns the sum of the component mass flows [kg/s].
func (s MaterialStream) TotalFlow() float64 {
	var t float64
	for _, f := range s.MassFlows {
		t += f
	}
	return t
}

// Design holds the identity and design variables of a tray column.
// The column operates at the pressure of its feed.
type Design struct {
	// ID is assigned by the caller and is not interpreted.
	ID string

	Feed MaterialStream

	Trays            int
	FeedTray         int // 1-based, counted from the top
	RefluxRatio      float64
	DistillateToFeed float64
	TraySpacing      float64 // m
	Material         Material
	WeldEfficiency   float64
}

// NewDesign returns a validated design with the default tray spacing,
// material and weld efficiency.
func NewDesign(id string, feed MaterialStream, trays, feedTray int, refluxRatio, distillateToFeed float64) (Design, error) {
	d := Design{
		ID:               id,
		Feed:             feed,
		Trays:            trays,
		FeedTray:         feedTray,
		RefluxRatio:      refluxRatio,
		DistillateToFeed: distillateToFeed,
		TraySpacing:      DefaultTraySpacing,
		Material:         DefaultMaterial,
		WeldEfficiency:   DefaultWeldEfficiency,
	}
	return d, d.Validate()
}

// OperatingPressure returns the column pressure [Pa].
func (d Design) OperatingPressure() float64 { return d.Feed.Pressure }

// Validate checks that the design variables are in range.
func (d Design) Validate() error {
	if err := d.Feed.Validate(); err != nil {
		return err
	}
	switch {
	case d.Trays < 2:
		return &InvalidInputError{Field: "number_trays", Value: d.Trays, Reason: "should be >=2"}
	case d.FeedTray < 1 || d.FeedTray > d.Trays:
		return &InvalidInputError{Field: "feed_tray", Value: d.FeedTray,
			Reason: fmt.Sprintf("should be in [1, %d]", d.Trays)}
	case !(d.RefluxRatio > 0) || math.IsInf(d.RefluxRatio, 0):
		return &InvalidInputError{Field: "reflux_ratio", Value: d.RefluxRatio, Reason: "should be >0"}
	case !(d.DistillateToFeed > 0 && d.DistillateToFeed < 1):
		return &InvalidInputError{Field: "df_ratio", Value: d.DistillateToFeed, Reason: "should be in (0, 1)"}
	case !(d.TraySpacing > 0) || math.IsInf(d.TraySpacing, 0):
		return &InvalidInputError{Field: "tray_spacing", Value: d.TraySpacing, Reason: "should be >0"}
	case !(d.WeldEfficiency > 0 && d.WeldEfficiency <= 1):
		return &InvalidInputError{Field: "weld_eff", Value: d.WeldEfficiency, Reason: "should be in (0, 1]"}
	case int(d.Material) < 0 || int(d.Material) >= len(materialNames):
		return &UnknownVariantError{Kind: "material", Name: d.Material.String()}
	}
	return nil
}

// Simulation holds the results of a process simulation of a column.
type Simulation struct {
	// Convergence is the simulator status. Zero means converged.
	Convergence int

	ReboilerDuty         float64 // W
	ReboilerTemperature  float64 // K
	CondenserDuty        float64 // W
	CondenserTemperature float64 // K

	BoilupRate       float64 // m³/s
	MaxVaporRate     float64 // kg/s
	MinVaporDensity  float64 // kg/m³
	MaxLiquidDensity float64 // kg/m³

	// Refrigerated marks a condenser that must be priced as a packaged
	// refrigeration unit regardless of the selected cold utility.
	Refrigerated bool
}

// Validate checks that the simulation results can be used for sizing.
func (s Simulation) Validate() error {
	for _, v := range []struct {
		name     string
		value    float64
		positive bool
	}{
		{"q_reb", s.ReboilerDuty, false},
		{"q_cond", s.CondenserDuty, false},
		{"t_reb", s.ReboilerTemperature, true},
		{"t_cond", s.CondenserTemperature, true},
		{"max_vap_rate", s.MaxVaporRate, true},
		{"min_vap_dens", s.MinVaporDensity, true},
		{"max_liq_dens", s.MaxLiquidDensity, true},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &InvalidInputError{Field: v.name, Value: v.value, Reason: "should be finite"}
		}
		if v.positive && !(v.value > 0) {
			return &InvalidInputError{Field: v.name, Value: v.value, Reason: "should be >0"}
		}
	}
	if s.BoilupRate < 0 || math.IsNaN(s.BoilupRate) || math.IsInf(s.BoilupRate, 0) {
		return &InvalidInputError{Field: "boilup_vol_rate", Value: s.BoilupRate, Reason: "should be a finite number >=0"}
	}
	return nil
}

// Names of the quantities read by SimulationFromQuantities.
const (
	QReboiler      = "q_reb"
	TReboiler      = "t_reb"
	QCondenser     = "q_cond"
	TCondenser     = "t_cond"
	BoilupRate     = "boilup_vol_rate"
	MaxVaporRate   = "max_vap_rate"
	MinVaporDens   = "min_vap_dens"
	MaxLiquidDens  = "max_liq_dens"
	simulationName = "simulation"
)

// KilogramPerSecond is a unit of mass flow.
var KilogramPerSecond = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}

var quantityDims = []struct {
	name string
	dims unit.Dimensions
}{
	{QReboiler, unit.Watt},
	{TReboiler, unit.Kelvin},
	{QCondenser, unit.Watt},
	{TCondenser, unit.Kelvin},
	{BoilupRate, unit.Meter3PerSecond},
	{MaxVaporRate, KilogramPerSecond},
	{MinVaporDens, unit.KilogramPerMeter3},
	{MaxLiquidDens, unit.KilogramPerMeter3},
}

// SimulationFromQuantities creates a Simulation from simulator results
// keyed by QReboiler, TReboiler, etc. Every quantity must be present and
// have the expected dimensions.
func SimulationFromQuantities(q map[string]*unit.Unit, convergence int, refrigerated bool) (Simulation, error) {
	v := make(map[string]float64, len(quantityDims))
	for _, qd := range quantityDims {
		u, ok := q[qd.name]
		if !ok || u == nil {
			return Simulation{}, &MissingFieldError{Stage: simulationName, Field: qd.name}
		}
		if err := u.Check(qd.dims); err != nil {
			return Simulation{}, fmt.Errorf("distcost: simulation quantity %s: %v", qd.name, err)
		}
		v[qd.name] = u.Value()
	}
	s := Simulation{
		Convergence:          convergence,
		ReboilerDuty:         v[QReboiler],
		ReboilerTemperature:  v[TReboiler],
		CondenserDuty:        v[QCondenser],
		CondenserTemperature: v[TCondenser],
		BoilupRate:           v[BoilupRate],
		MaxVaporRate:         v[MaxVaporRate],
		MinVaporDensity:      v[MinVaporDens],
		MaxLiquidDensity:     v[MaxLiquidDens],
		Refrigerated:         refrigerated,
	}
	return s, s.Validate()
}

// Quantities returns the dimensioned values of s, the inverse of
// SimulationFromQuantities.
func (s Simulation) Quantities() map[string]*unit.Unit {
	vals := []float64{s.ReboilerDuty, s.ReboilerTemperature, s.CondenserDuty, s.CondenserTemperature,
		s.BoilupRate, s.MaxVaporRate, s.MinVaporDensity, s.MaxLiquidDensity}
	o := make(map[string]*unit.Unit, len(quantityDims))
	for i, qd := range quantityDims {
		o[qd.name] = unit.New(vals[i], qd.dims)
	}
	return o
}

// Simulated is a column design together with its simulation results.
// It can only be created by Simulate.
type Simulated struct {
	design Design
	sim    Simulation
	set    bool
}

// Simulate combines a design and its simulation results after checking
// both.
func Simulate(d Design, sim Simulation) (Simulated, error) {
	if err := d.Validate(); err != nil {
		return Simulated{}, err
	}
	if err := sim.Validate(); err != nil {
		return Simulated{}, err
	}
	return Simulated{design: d, sim: sim, set: true}, nil
}

// Design returns the design variables.
func (s Simulated) Design() Design { return s.design }

// Simulation returns the simulation results.
func (s Simulated) Simulation() Simulation { return s.sim }

// Converged reports whether the simulator reported convergence.
func (s Simulated) Converged() bool { return s.sim.Convergence == 0 }

// DesignTemperature returns the temperature [K] used to look up the
// maximum allowable stress of the shell: the hotter of the reboiler and
// condenser.
func (s Simulated) DesignTemperature() float64 {
	return math.Max(s.sim.ReboilerTemperature, s.sim.CondenserTemperature)
}

// Sizing holds the calculated dimensions of a column and its exchangers.
type Sizing struct {
	Diameter      float64 // m
	Length        float64 // m
	WallThickness float64 // m
	ShellMass     float64 // kg
	MaxStress     float64 // Pa

	Reboiler, Condenser UtilitySelection

	// Refrigerated reports whether the condenser is priced as a
	// packaged refrigeration unit.
	Refrigerated bool
}

// validate checks that stored dimensions and exchanger areas are
// positive and finite.
func (z Sizing) validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"column diameter", z.Diameter},
		{"column length", z.Length},
		{"wall thickness", z.WallThickness},
		{"shell mass", z.ShellMass},
		{"maximum allowable stress", z.MaxStress},
		{"reboiler area", z.Reboiler.Area},
		{"condenser area", z.Condenser.Area},
	} {
		if !(v.value > 0) || math.IsInf(v.value, 0) {
			return sizingErr(v.name, "stored value %g is not positive", v.value)
		}
	}
	return nil
}

// Sized is a simulated column with its calculated dimensions.
// It can only be created by Tables.Size or Record.Sized.
type Sized struct {
	Simulated
	sizing Sizing
	sized  bool
}

// Sizing returns the calculated dimensions.
func (s Sized) Sizing() Sizing { return s.sizing }

// Size calculates the dimensions of the column and selects the utilities
// for its reboiler and condenser.
func (t *Tables) Size(s Simulated) (Sized, error) {
	if !s.set {
		return Sized{}, &MissingFieldError{Stage: "sizing", Field: simulationName}
	}
	d, sim := s.design, s.sim
	if err := t.CheckMaterial(d.Material); err != nil {
		return Sized{}, err
	}
	var z Sizing
	var err error
	if z.MaxStress, err = t.MaxAllowableStress(d.Material, s.DesignTemperature()); err != nil {
		return Sized{}, err
	}
	if z.Diameter, err = ColumnDiameter(sim.MaxVaporRate, sim.MinVaporDensity, sim.MaxLiquidDensity, d.TraySpacing); err != nil {
		return Sized{}, err
	}
	if z.WallThickness, err = WallThickness(d.OperatingPressure(), z.Diameter, d.WeldEfficiency, z.MaxStress); err != nil {
		return Sized{}, err
	}
	if z.Length, err = ColumnLength(d.Trays, d.TraySpacing, sim.BoilupRate, z.Diameter); err != nil {
		return Sized{}, err
	}
	if z.ShellMass, err = ShellMass(z.Diameter, z.Length, z.WallThickness, t.Densities[d.Material]); err != nil {
		return Sized{}, err
	}
	if z.Reboiler, err = t.SelectUtility(sim.ReboilerTemperature, sim.ReboilerDuty, Heating); err != nil {
		return Sized{}, fmt.Errorf("distcost: reboiler at %g K: %w", sim.ReboilerTemperature, err)
	}
	if z.Condenser, err = t.SelectUtility(sim.CondenserTemperature, sim.CondenserDuty, Cooling); err != nil {
		return Sized{}, fmt.Errorf("distcost: condenser at %g K: %w", sim.CondenserTemperature, err)
	}
	z.Refrigerated = sim.Refrigerated || z.Condenser.Exchanger == AirCooler
	return Sized{Simulated: s, sizing: z, sized: true}, nil
}

// Economics holds the economic parameters used for costing.
type Economics struct {
	// CostIndex is the Chemical Engineering Plant Cost Index.
	CostIndex float64

	// FuelCost is the cost of fuel [$/GJ].
	FuelCost float64

	InterestRate float64
	Years        int
}

// DefaultEconomics returns the 2023 cost index, a fuel cost of 4.5 $/GJ,
// and 20% interest over 5 years.
func DefaultEconomics() Economics {
	return Economics{
		CostIndex:    802.6,
		FuelCost:     4.5,
		InterestRate: 0.2,
		Years:        5,
	}
}

// Costs holds the costs of a column.
type Costs struct {
	Equipment EquipmentCosts // $

	ACCR float64

	// CapitalCharge is the annualized equipment cost [$/year].
	CapitalCharge float64

	Utility float64 // $/year
	TAC     float64 // $/year
}

// Costed is a sized column with its costs.
// It can only be created by Tables.Cost.
type Costed struct {
	Sized
	costs  Costs
	costed bool
}

// Costs returns the calculated costs.
func (c Costed) Costs() Costs { return c.costs }

// Cost prices the equipment and utilities of s and combines them into the
// total annualized cost.
func (t *Tables) Cost(s Sized, e Economics) (Costed, error) {
	if !s.set {
		return Costed{}, &MissingFieldError{Stage: "costing", Field: simulationName}
	}
	if !s.sized {
		return Costed{}, &MissingFieldError{Stage: "costing", Field: "sizing"}
	}
	d, sim, z := s.design, s.sim, s.sizing
	eq, err := t.ColumnEquipmentCost(ColumnEquipment{
		ReboilerArea:  z.Reboiler.Area,
		CondenserArea: z.Condenser.Area,
		CondenserDuty: sim.CondenserDuty,
		Refrigerated:  z.Refrigerated,
		Diameter:      z.Diameter,
		ShellMass:     z.ShellMass,
		Trays:         d.Trays,
		Material:      d.Material,
	})
	if err != nil {
		return Costed{}, err
	}
	c := Costs{Equipment: eq}
	c.Utility, err = UtilityOperatingCost(sim.ReboilerDuty/1000, sim.ReboilerTemperature,
		sim.CondenserDuty/1000, sim.CondenserTemperature, e.CostIndex, e.FuelCost)
	if err != nil {
		return Costed{}, err
	}
	if c.ACCR, err = ACCR(e.InterestRate, e.Years); err != nil {
		return Costed{}, err
	}
	c.CapitalCharge = c.ACCR * eq.Total
	c.TAC = TAC(c.ACCR, eq.Total, c.Utility)
	return Costed{Sized: s, costs: c, costed: true}, nil
}

// Evaluate sizes and prices a simulated column design.
func (t *Tables) Evaluate(d Design, sim Simulation, e Economics) (Costed, error) {
	s, err := Simulate(d, sim)
	if err != nil {
		return Costed{}, err
	}
	z, err := t.Size(s)
	if err != nil {
		return Costed{}, err
	}
	return t.Cost(z, e)
}
