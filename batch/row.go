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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spatialmodel/distcost"
)

// Row is one line of a convergence dataset: the design variables of a
// simulated column and whether its simulation converged.
type Row struct {
	ID               string
	Trays            int
	FeedTray         int
	RefluxRatio      float64
	DistillateToFeed float64
	FeedTemperature  float64 // K
	MassFlows        []float64
	Convergence      int
}

// RowOf returns the dataset row of r, which must hold the design variables
// and the convergence flag.
func RowOf(r distcost.Record) (Row, error) {
	d, err := r.Design()
	if err != nil {
		return Row{}, err
	}
	if r.Convergence == nil {
		return Row{}, &distcost.MissingFieldError{Stage: "dataset", Field: "convergence"}
	}
	return Row{
		ID:               r.ID,
		Trays:            d.Trays,
		FeedTray:         d.FeedTray,
		RefluxRatio:      d.RefluxRatio,
		DistillateToFeed: d.DistillateToFeed,
		FeedTemperature:  d.Feed.Temperature,
		MassFlows:        append([]float64(nil), d.Feed.MassFlows...),
		Convergence:      *r.Convergence,
	}, nil
}

// Rows returns the dataset rows of the records that hold design variables
// and a convergence flag, and the number of records that were skipped.
func Rows(recs []distcost.Record) (rows []Row, skipped int) {
	for _, r := range recs {
		row, err := RowOf(r)
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// WriteCSV writes rows as a table with columns
// id, N_trays, Feed_tray, RR, D:F, F_t, F_F1 ... F_Fn, Conv,
// where n is the number of feed components. All rows must have the same
// number of components.
func WriteCSV(w io.Writer, rows []Row) error {
	nc := 0
	if len(rows) > 0 {
		nc = len(rows[0].MassFlows)
	}
	cw := csv.NewWriter(w)
	header := []string{"id", "N_trays", "Feed_tray", "RR", "D:F", "F_t"}
	for i := 1; i <= nc; i++ {
		header = append(header, fmt.Sprintf("F_F%d", i))
	}
	header = append(header, "Conv")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("batch: writing dataset header: %v", err)
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range rows {
		if len(r.MassFlows) != nc {
			return fmt.Errorf("batch: dataset row %s has %d components; want %d", r.ID, len(r.MassFlows), nc)
		}
		line := []string{r.ID, strconv.Itoa(r.Trays), strconv.Itoa(r.FeedTray),
			g(r.RefluxRatio), g(r.DistillateToFeed), g(r.FeedTemperature)}
		for _, f := range r.MassFlows {
			line = append(line, g(f))
		}
		line = append(line, strconv.Itoa(r.Convergence))
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("batch: writing dataset row %s: %v", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
