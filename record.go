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

// Record is the serialized form of a column at any stage of evaluation.
// Fields that have not been calculated are null.
type Record struct {
	ID string `json:"col_id"`

	// Design variables
	Feed           *MaterialStream `json:"feed"`
	OpPressure     *float64        `json:"op_pressure"`
	NumberTrays    *int            `json:"number_trays"`
	FeedTray       *int            `json:"feed_tray"`
	RefluxRatio    *float64        `json:"reflux_ratio"`
	DFRatio        *float64        `json:"df_ratio"`
	TraySpacing    *float64        `json:"tray_spacing"`
	Material       *Material       `json:"material"`
	WeldEfficiency *float64        `json:"weld_eff"`

	Convergence *int `json:"convergence"`

	// Simulation results
	QReb          *float64 `json:"q_reb"`
	TReb          *float64 `json:"t_reb"`
	QCond         *float64 `json:"q_cond"`
	TCond         *float64 `json:"t_cond"`
	BoilupVolRate *float64 `json:"boilup_vol_rate"`
	MaxVapRate    *float64 `json:"max_vap_rate"`
	MinVapDens    *float64 `json:"min_vap_dens"`
	MaxLiqDens    *float64 `json:"max_liq_dens"`
	Refrigerated  *bool    `json:"refrigerated"`

	// Calculated sizes
	AReb          *float64       `json:"a_reb"`
	ACond         *float64       `json:"a_cond"`
	RebType       *ExchangerType `json:"reb_type"`
	CondType      *ExchangerType `json:"cond_type"`
	RebUtility    *string        `json:"reb_utility"`
	CondUtility   *string        `json:"cond_utility"`
	CondRefrig    *bool          `json:"cond_refrigerated"`
	ColDiam       *float64       `json:"col_diam"`
	ColLength     *float64       `json:"col_length"`
	WallThickness *float64       `json:"wall_thickness"`
	ColShellMass  *float64       `json:"col_shell_mass"`
	MaxStress     *float64       `json:"max_stress"`

	// Costs
	ColumnCost    *float64 `json:"column_cost"`
	RebCost       *float64 `json:"reb_cost"`
	CondCost      *float64 `json:"cond_cost"`
	TrayCost      *float64 `json:"tray_cost"`
	EquipmentCost *float64 `json:"equipment_cost"`
	ACCR          *float64 `json:"accr"`
	FCOP          *float64 `json:"fcop"`
	UtCost        *float64 `json:"ut_cost"`
	TAC           *float64 `json:"tac"`

	// Error holds the reason evaluation failed, if it did.
	Error string `json:"error,omitempty"`
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }
func bp(v bool) *bool       { return &v }
func sp(v string) *string   { return &v }

// Record returns the serialized form of d.
func (d Design) Record() Record {
	feed := d.Feed
	feed.Components = append([]string(nil), d.Feed.Components...)
	feed.MassFlows = append([]float64(nil), d.Feed.MassFlows...)
	m := d.Material
	return Record{
		ID:             d.ID,
		Feed:           &feed,
		OpPressure:     fp(d.OperatingPressure()),
		NumberTrays:    ip(d.Trays),
		FeedTray:       ip(d.FeedTray),
		RefluxRatio:    fp(d.RefluxRatio),
		DFRatio:        fp(d.DistillateToFeed),
		TraySpacing:    fp(d.TraySpacing),
		Material:       &m,
		WeldEfficiency: fp(d.WeldEfficiency),
	}
}

// Record returns the serialized form of s.
func (s Simulated) Record() Record {
	r := s.design.Record()
	r.Convergence = ip(s.sim.Convergence)
	r.QReb = fp(s.sim.ReboilerDuty)
	r.TReb = fp(s.sim.ReboilerTemperature)
	r.QCond = fp(s.sim.CondenserDuty)
	r.TCond = fp(s.sim.CondenserTemperature)
	r.BoilupVolRate = fp(s.sim.BoilupRate)
	r.MaxVapRate = fp(s.sim.MaxVaporRate)
	r.MinVapDens = fp(s.sim.MinVaporDensity)
	r.MaxLiqDens = fp(s.sim.MaxLiquidDensity)
	r.Refrigerated = bp(s.sim.Refrigerated)
	return r
}

// Record returns the serialized form of s.
func (s Sized) Record() Record {
	r := s.Simulated.Record()
	if s.sized {
		s.sizing.setRecord(&r)
	}
	return r
}

func (z Sizing) setRecord(r *Record) {
	rt, ct := z.Reboiler.Exchanger, z.Condenser.Exchanger
	r.AReb = fp(z.Reboiler.Area)
	r.ACond = fp(z.Condenser.Area)
	r.RebType = &rt
	r.CondType = &ct
	r.RebUtility = sp(z.Reboiler.Fluid)
	r.CondUtility = sp(z.Condenser.Fluid)
	r.CondRefrig = bp(z.Refrigerated)
	r.ColDiam = fp(z.Diameter)
	r.ColLength = fp(z.Length)
	r.WallThickness = fp(z.WallThickness)
	r.ColShellMass = fp(z.ShellMass)
	r.MaxStress = fp(z.MaxStress)
}

// Record returns the serialized form of c.
func (c Costed) Record() Record {
	r := c.Sized.Record()
	if c.costed {
		c.costs.setRecord(&r)
	}
	return r
}

func (c Costs) setRecord(r *Record) {
	r.ColumnCost = fp(c.Equipment.Vessel)
	r.RebCost = fp(c.Equipment.Reboiler)
	r.CondCost = fp(c.Equipment.Condenser)
	r.TrayCost = fp(c.Equipment.Tray)
	r.EquipmentCost = fp(c.Equipment.Total)
	r.ACCR = fp(c.ACCR)
	r.FCOP = fp(c.CapitalCharge)
	r.UtCost = fp(c.Utility)
	r.TAC = fp(c.TAC)
}

// field is a named record field that may be unset.
type field struct {
	name string
	set  bool
}

func requireFields(stage string, fields ...field) error {
	for _, f := range fields {
		if !f.set {
			return &MissingFieldError{Stage: stage, Field: f.name}
		}
	}
	return nil
}

// Design returns the design variables stored in r.
func (r *Record) Design() (Design, error) {
	if err := requireFields("design",
		field{"feed", r.Feed != nil},
		field{"number_trays", r.NumberTrays != nil},
		field{"feed_tray", r.FeedTray != nil},
		field{"reflux_ratio", r.RefluxRatio != nil},
		field{"df_ratio", r.DFRatio != nil},
		field{"tray_spacing", r.TraySpacing != nil},
		field{"material", r.Material != nil},
		field{"weld_eff", r.WeldEfficiency != nil},
	); err != nil {
		return Design{}, err
	}
	d := Design{
		ID:               r.ID,
		Feed:             *r.Feed,
		Trays:            *r.NumberTrays,
		FeedTray:         *r.FeedTray,
		RefluxRatio:      *r.RefluxRatio,
		DistillateToFeed: *r.DFRatio,
		TraySpacing:      *r.TraySpacing,
		Material:         *r.Material,
		WeldEfficiency:   *r.WeldEfficiency,
	}
	return d, d.Validate()
}

// Simulation returns the simulation results stored in r.
// Refrigerated defaults to false when it is not set.
func (r *Record) Simulation() (Simulation, error) {
	if err := requireFields(simulationName,
		field{"convergence", r.Convergence != nil},
		field{QReboiler, r.QReb != nil},
		field{TReboiler, r.TReb != nil},
		field{QCondenser, r.QCond != nil},
		field{TCondenser, r.TCond != nil},
		field{BoilupRate, r.BoilupVolRate != nil},
		field{MaxVaporRate, r.MaxVapRate != nil},
		field{MinVaporDens, r.MinVapDens != nil},
		field{MaxLiquidDens, r.MaxLiqDens != nil},
	); err != nil {
		return Simulation{}, err
	}
	s := Simulation{
		Convergence:          *r.Convergence,
		ReboilerDuty:         *r.QReb,
		ReboilerTemperature:  *r.TReb,
		CondenserDuty:        *r.QCond,
		CondenserTemperature: *r.TCond,
		BoilupRate:           *r.BoilupVolRate,
		MaxVaporRate:         *r.MaxVapRate,
		MinVaporDensity:      *r.MinVapDens,
		MaxLiquidDensity:     *r.MaxLiqDens,
	}
	if r.Refrigerated != nil {
		s.Refrigerated = *r.Refrigerated
	}
	return s, s.Validate()
}

// Simulated returns the simulated column stored in r.
func (r *Record) Simulated() (Simulated, error) {
	d, err := r.Design()
	if err != nil {
		return Simulated{}, err
	}
	s, err := r.Simulation()
	if err != nil {
		return Simulated{}, err
	}
	return Simulate(d, s)
}

// Sized returns the sized column stored in r, so that it can be priced
// again without resizing.
func (r *Record) Sized() (Sized, error) {
	s, err := r.Simulated()
	if err != nil {
		return Sized{}, err
	}
	if err := requireFields("sizing",
		field{"a_reb", r.AReb != nil},
		field{"a_cond", r.ACond != nil},
		field{"reb_type", r.RebType != nil},
		field{"cond_type", r.CondType != nil},
		field{"reb_utility", r.RebUtility != nil},
		field{"cond_utility", r.CondUtility != nil},
		field{"cond_refrigerated", r.CondRefrig != nil},
		field{"col_diam", r.ColDiam != nil},
		field{"col_length", r.ColLength != nil},
		field{"wall_thickness", r.WallThickness != nil},
		field{"col_shell_mass", r.ColShellMass != nil},
		field{"max_stress", r.MaxStress != nil},
	); err != nil {
		return Sized{}, err
	}
	z := Sizing{
		Diameter:      *r.ColDiam,
		Length:        *r.ColLength,
		WallThickness: *r.WallThickness,
		ShellMass:     *r.ColShellMass,
		MaxStress:     *r.MaxStress,
		Reboiler:      UtilitySelection{Fluid: *r.RebUtility, Exchanger: *r.RebType, Area: *r.AReb},
		Condenser:     UtilitySelection{Fluid: *r.CondUtility, Exchanger: *r.CondType, Area: *r.ACond},
		Refrigerated:  *r.CondRefrig,
	}
	if z.Reboiler.OutOfBounds() || z.Condenser.OutOfBounds() {
		return Sized{}, ErrUtilityOutOfBounds
	}
	if err := z.validate(); err != nil {
		return Sized{}, err
	}
	return Sized{Simulated: s, sizing: z, sized: true}, nil
}
