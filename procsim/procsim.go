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

// Package procsim connects column designs to the process simulator that
// supplies their duties, temperatures, flows and densities.
package procsim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/distcost"
)

// ErrNotFound is returned by a Simulator that has no results for a design.
// Retry does not retry it.
var ErrNotFound = errors.New("procsim: no simulation results for design")

// A Simulator runs a process simulation of a column design.
type Simulator interface {
	Simulate(ctx context.Context, d distcost.Design) (distcost.Simulation, error)
}

// Func is a Simulator implemented by a function.
type Func func(ctx context.Context, d distcost.Design) (distcost.Simulation, error)

// Simulate implements Simulator.
func (f Func) Simulate(ctx context.Context, d distcost.Design) (distcost.Simulation, error) {
	return f(ctx, d)
}

// Run simulates d with s and combines the results with the design.
func Run(ctx context.Context, s Simulator, d distcost.Design) (distcost.Simulated, error) {
	sim, err := s.Simulate(ctx, d)
	if err != nil {
		return distcost.Simulated{}, fmt.Errorf("procsim: simulating column %s: %w", d.ID, err)
	}
	return distcost.Simulate(d, sim)
}

// Replay is a Simulator that returns previously recorded results, looked
// up by column ID.
type Replay struct {
	sims map[string]distcost.Simulation
}

// NewReplay creates a Replay from records that hold simulation results.
// Records without complete simulation results are skipped.
func NewReplay(recs []distcost.Record) *Replay {
	r := &Replay{sims: make(map[string]distcost.Simulation)}
	for i := range recs {
		s, err := recs[i].Simulation()
		if err != nil {
			continue
		}
		r.sims[recs[i].ID] = s
	}
	return r
}

// Len returns the number of recorded simulations.
func (r *Replay) Len() int { return len(r.sims) }

// Simulate implements Simulator.
func (r *Replay) Simulate(ctx context.Context, d distcost.Design) (distcost.Simulation, error) {
	if err := ctx.Err(); err != nil {
		return distcost.Simulation{}, err
	}
	s, ok := r.sims[d.ID]
	if !ok {
		return distcost.Simulation{}, ErrNotFound
	}
	return s, nil
}

type retry struct {
	s          Simulator
	maxElapsed time.Duration
	log        logrus.FieldLogger
}

// Retry returns a Simulator that retries failed simulations with
// exponential backoff for up to maxElapsed, logging each failure to log.
// ErrNotFound and context errors are returned immediately.
func Retry(s Simulator, maxElapsed time.Duration, log logrus.FieldLogger) Simulator {
	return &retry{s: s, maxElapsed: maxElapsed, log: log}
}

func (r *retry) Simulate(ctx context.Context, d distcost.Design) (distcost.Simulation, error) {
	var sim distcost.Simulation
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = r.maxElapsed
	err := backoff.RetryNotify(
		func() error {
			var err error
			sim, err = r.s.Simulate(ctx, d)
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(b, ctx),
		func(err error, d2 time.Duration) {
			r.log.WithFields(logrus.Fields{
				"id":    d.ID,
				"error": err,
				"wait":  d2,
			}).Warn("process simulation failed; retrying")
		},
	)
	return sim, err
}
