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
	"context"
	"fmt"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/distcost/internal/hash"
)

// Evaluator sizes and prices many columns concurrently. Columns with
// identical design variables and simulation results, apart from their
// IDs, are only evaluated once.
type Evaluator struct {
	tables *Tables
	econ   Economics
	cache  *requestcache.Cache

	// Log receives a warning for every column that is not converged and
	// an error for every column that could not be evaluated.
	Log logrus.FieldLogger
}

// evaluation is the part of a Costed that depends only on the
// evaluation inputs.
type evaluation struct {
	sizing Sizing
	costs  Costs
}

// NewEvaluator returns an evaluator that uses the given tables and
// economic parameters, evaluates up to workers columns at a time, and
// remembers up to cacheSize results.
func NewEvaluator(t *Tables, e Economics, workers, cacheSize int) *Evaluator {
	ev := &Evaluator{
		tables: t,
		econ:   e,
		Log:    logrus.StandardLogger(),
	}
	if workers < 1 {
		workers = 1
	}
	cf := []requestcache.CacheFunc{requestcache.Deduplicate()}
	if cacheSize > 0 {
		cf = append(cf, requestcache.Memory(cacheSize))
	}
	ev.cache = requestcache.NewCache(ev.process, workers, cf...)
	return ev
}

func (ev *Evaluator) process(ctx context.Context, payload interface{}) (interface{}, error) {
	s := payload.(Simulated)
	z, err := ev.tables.Size(s)
	if err != nil {
		return nil, err
	}
	c, err := ev.tables.Cost(z, ev.econ)
	if err != nil {
		return nil, err
	}
	return evaluation{sizing: c.sizing, costs: c.costs}, nil
}

// key returns the cache key of s, which does not depend on its ID.
func (ev *Evaluator) key(s Simulated) string {
	d := s.design
	d.ID = ""
	return hash.Key(d, s.sim, ev.econ)
}

// Evaluate sizes and prices s.
func (ev *Evaluator) Evaluate(ctx context.Context, s Simulated) (Costed, error) {
	if !s.set {
		return Costed{}, &MissingFieldError{Stage: "evaluation", Field: simulationName}
	}
	if err := ctx.Err(); err != nil {
		return Costed{}, err
	}
	if !s.Converged() {
		ev.Log.WithFields(logrus.Fields{
			"id":          s.design.ID,
			"convergence": s.sim.Convergence,
		}).Warn("costing a column whose simulation did not converge")
	}
	res, err := ev.cache.NewRequest(ctx, s, ev.key(s)).Result()
	if err != nil {
		return Costed{}, err
	}
	r := res.(evaluation)
	return Costed{Sized: Sized{Simulated: s, sizing: r.sizing, sized: true}, costs: r.costs, costed: true}, nil
}

// Result is the outcome of evaluating one column.
type Result struct {
	ID     string
	Costed Costed
	Err    error
}

// EvaluateAll evaluates every column in in concurrently. A failure only
// affects the result of the column that caused it; it is logged and
// stored in the corresponding Result. Results are in the same order as in.
func (ev *Evaluator) EvaluateAll(ctx context.Context, in []Simulated) []Result {
	out := make([]Result, len(in))
	var wg sync.WaitGroup
	wg.Add(len(in))
	for i, s := range in {
		go func(i int, s Simulated) {
			defer wg.Done()
			c, err := ev.Evaluate(ctx, s)
			out[i] = Result{ID: s.design.ID, Costed: c, Err: err}
			if err != nil {
				ev.Log.WithFields(logrus.Fields{
					"id":    s.design.ID,
					"error": err,
				}).Error("evaluating column")
			}
		}(i, s)
	}
	wg.Wait()
	return out
}

// EvaluateRecords evaluates every record in recs. Each returned record is
// either fully costed or a copy of the input record with Error set.
func (ev *Evaluator) EvaluateRecords(ctx context.Context, recs []Record) []Record {
	out := make([]Record, len(recs))
	var in []Simulated
	var idx []int
	for i := range recs {
		s, err := recs[i].Simulated()
		if err != nil {
			out[i] = recs[i]
			out[i].Error = err.Error()
			ev.Log.WithFields(logrus.Fields{
				"id":    recs[i].ID,
				"error": err,
			}).Error("reading column record")
			continue
		}
		in = append(in, s)
		idx = append(idx, i)
	}
	for j, r := range ev.EvaluateAll(ctx, in) {
		i := idx[j]
		if r.Err != nil {
			out[i] = recs[i]
			out[i].Error = r.Err.Error()
			continue
		}
		out[i] = r.Costed.Record()
	}
	return out
}

// String summarizes the evaluator configuration.
func (ev *Evaluator) String() string {
	return fmt.Sprintf("Evaluator{CEPCI: %g, fuel: %g $/GJ, interest: %g, years: %d}",
		ev.econ.CostIndex, ev.econ.FuelCost, ev.econ.InterestRate, ev.econ.Years)
}
