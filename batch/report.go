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

package batch

import (
	"fmt"
	"io"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/spatialmodel/distcost"
	"github.com/tealeg/xlsx"
)

// Stats describes the distribution of a cost over a set of columns.
type Stats struct {
	N            int
	Mean, StdDev float64
	Min, Max     float64
}

func describe(v []float64) Stats {
	s := Stats{N: len(v)}
	if len(v) == 0 {
		return s
	}
	s.Mean = stats.StatsMean(v)
	s.Min = stats.StatsMin(v)
	s.Max = stats.StatsMax(v)
	if len(v) > 1 {
		s.StdDev = stats.StatsSampleStandardDeviation(v)
	}
	return s
}

// Summary describes a set of records.
type Summary struct {
	// Total is the number of records.
	Total int

	// Costed is the number of records with a total annualized cost.
	Costed int

	// Failed is the number of records whose evaluation failed.
	Failed int

	// NotConverged is the number of records whose simulation did not
	// converge.
	NotConverged int

	TAC, Equipment, Utility Stats
}

// Summarize returns a summary of recs.
func Summarize(recs []distcost.Record) Summary {
	s := Summary{Total: len(recs)}
	var tac, eq, ut []float64
	for _, r := range recs {
		if r.Error != "" {
			s.Failed++
		}
		if r.Convergence != nil && *r.Convergence != 0 {
			s.NotConverged++
		}
		if r.TAC == nil {
			continue
		}
		s.Costed++
		tac = append(tac, *r.TAC)
		if r.EquipmentCost != nil {
			eq = append(eq, *r.EquipmentCost)
		}
		if r.UtCost != nil {
			ut = append(ut, *r.UtCost)
		}
	}
	s.TAC, s.Equipment, s.Utility = describe(tac), describe(eq), describe(ut)
	return s
}

// reportColumns are the headings of the column sheet of a report.
var reportColumns = []string{"col_id", "number_trays", "feed_tray", "reflux_ratio", "df_ratio",
	"convergence", "col_diam", "col_length", "wall_thickness", "col_shell_mass",
	"reb_utility", "cond_utility", "equipment_cost", "ut_cost", "tac", "error"}

// WriteReport writes recs and their summary as an Excel workbook with the
// sheets "Columns" and "Summary". Missing values are left blank.
func WriteReport(w io.Writer, recs []distcost.Record) error {
	f := xlsx.NewFile()
	cols, err := f.AddSheet("Columns")
	if err != nil {
		return fmt.Errorf("batch: creating report: %v", err)
	}
	header := cols.AddRow()
	for _, h := range reportColumns {
		header.AddCell().SetString(h)
	}
	for _, r := range recs {
		row := cols.AddRow()
		row.AddCell().SetString(r.ID)
		addInt(row, r.NumberTrays)
		addInt(row, r.FeedTray)
		addFloat(row, r.RefluxRatio)
		addFloat(row, r.DFRatio)
		addInt(row, r.Convergence)
		addFloat(row, r.ColDiam)
		addFloat(row, r.ColLength)
		addFloat(row, r.WallThickness)
		addFloat(row, r.ColShellMass)
		addString(row, r.RebUtility)
		addString(row, r.CondUtility)
		addFloat(row, r.EquipmentCost)
		addFloat(row, r.UtCost)
		addFloat(row, r.TAC)
		row.AddCell().SetString(r.Error)
	}

	sum, err := f.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("batch: creating report: %v", err)
	}
	s := Summarize(recs)
	for _, c := range []struct {
		name string
		v    int
	}{
		{"records", s.Total},
		{"costed", s.Costed},
		{"failed", s.Failed},
		{"not converged", s.NotConverged},
	} {
		row := sum.AddRow()
		row.AddCell().SetString(c.name)
		row.AddCell().SetInt(c.v)
	}
	sum.AddRow()
	header = sum.AddRow()
	for _, h := range []string{"cost", "n", "mean", "std. dev.", "min", "max"} {
		header.AddCell().SetString(h)
	}
	for _, c := range []struct {
		name string
		s    Stats
	}{
		{"tac", s.TAC},
		{"equipment_cost", s.Equipment},
		{"ut_cost", s.Utility},
	} {
		row := sum.AddRow()
		row.AddCell().SetString(c.name)
		row.AddCell().SetInt(c.s.N)
		for _, v := range []float64{c.s.Mean, c.s.StdDev, c.s.Min, c.s.Max} {
			row.AddCell().SetFloat(v)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("batch: writing report: %v", err)
	}
	return nil
}

func addFloat(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}

func addInt(row *xlsx.Row, v *int) {
	cell := row.AddCell()
	if v != nil {
		cell.SetInt(*v)
	}
}

func addString(row *xlsx.Row, v *string) {
	cell := row.AddCell()
	if v != nil {
		cell.SetString(*v)
	}
}
