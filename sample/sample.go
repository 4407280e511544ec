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

// Package sample generates column designs that fill a design space, for
// building surrogate-model training sets.
package sample

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spatialmodel/distcost"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Bounds is the range of one sampled variable.
type Bounds struct {
	Min, Max float64

	// Integer variables are rounded to the nearest integer, with ties
	// going to the even integer.
	Integer bool
}

// LatinHypercube draws n samples from the hypercube described by bounds.
// Each row of the result is one sample and each column one variable.
func LatinHypercube(n int, bounds []Bounds, src rand.Source) (*mat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample: number of samples %d should be >0", n)
	}
	if len(bounds) == 0 {
		return nil, fmt.Errorf("sample: no variables to sample")
	}
	iv := make([]r1.Interval, len(bounds))
	for i, b := range bounds {
		if !(b.Min < b.Max) {
			return nil, fmt.Errorf("sample: variable %d has empty range [%g, %g]", i, b.Min, b.Max)
		}
		iv[i] = r1.Interval{Min: b.Min, Max: b.Max}
	}
	batch := mat.NewDense(n, len(bounds), nil)
	samplemv.LatinHypercube{
		Q:   distmv.NewUniform(iv, src),
		Src: src,
	}.Sample(batch)
	for j, b := range bounds {
		if !b.Integer {
			continue
		}
		for i := 0; i < n; i++ {
			batch.Set(i, j, math.RoundToEven(batch.At(i, j)))
		}
	}
	return batch, nil
}

// DesignSpace describes the ranges of the sampled design variables and
// the values of the fixed ones.
type DesignSpace struct {
	Pressure    Bounds // Pa
	Temperature Bounds // K, feed temperature
	Trays       Bounds

	// FeedFraction locates the feed tray as a fraction of the number of
	// trays.
	FeedFraction     Bounds
	RefluxRatio      Bounds
	DistillateToFeed Bounds

	// ComponentFlow is the range of the mass flow [kg/s] of each of the
	// feed components.
	ComponentFlow Bounds
	Components    []string
	FeedName      string

	TraySpacing    float64
	Material       distcost.Material
	WeldEfficiency float64
}

// DefaultDesignSpace returns the design space of light hydrocarbon
// columns: 8 components from methane to benzene at up to 5 kg/s each,
// between 1 and 55 bar and with 2 to 220 trays.
func DefaultDesignSpace() DesignSpace {
	return DesignSpace{
		Pressure:         Bounds{Min: 1e5, Max: 5.5e6},
		Temperature:      Bounds{Min: 73, Max: 400},
		Trays:            Bounds{Min: 2, Max: 220, Integer: true},
		FeedFraction:     Bounds{Min: 0.05, Max: 0.95},
		RefluxRatio:      Bounds{Min: 0.1, Max: 50},
		DistillateToFeed: Bounds{Min: 0.01, Max: 0.99},
		ComponentFlow:    Bounds{Min: 0, Max: 5},
		Components: []string{
			"METHA-01",
			"ETHAN-01",
			"ETHYL-01",
			"PROPA-01",
			"PROPY-01",
			"N-BUT-01",
			"N-PEN-01",
			"BENZE-01",
		},
		FeedName:       "FEED",
		TraySpacing:    distcost.DefaultTraySpacing,
		Material:       distcost.DefaultMaterial,
		WeldEfficiency: distcost.DefaultWeldEfficiency,
	}
}

// Bounds returns the bounds of each sampled variable in the order
// pressure, temperature, trays, feed fraction, reflux ratio,
// distillate-to-feed ratio, then one flow per component.
func (s DesignSpace) Bounds() []Bounds {
	b := []Bounds{s.Pressure, s.Temperature, s.Trays, s.FeedFraction, s.RefluxRatio, s.DistillateToFeed}
	for range s.Components {
		b = append(b, s.ComponentFlow)
	}
	return b
}

// Design converts the sample x, in the order of Bounds, into a design.
// The feed tray is the feed fraction times the number of trays, rounded
// and kept within [1, trays].
func (s DesignSpace) Design(id string, x []float64) (distcost.Design, error) {
	if len(x) != 6+len(s.Components) {
		return distcost.Design{}, fmt.Errorf("sample: sample has %d variables but the design space has %d",
			len(x), 6+len(s.Components))
	}
	trays := int(x[2])
	feedTray := int(math.RoundToEven(x[3] * x[2]))
	if feedTray < 1 {
		feedTray = 1
	} else if feedTray > trays {
		feedTray = trays
	}
	d := distcost.Design{
		ID: id,
		Feed: distcost.MaterialStream{
			Name:        s.FeedName,
			Components:  append([]string(nil), s.Components...),
			MassFlows:   append([]float64(nil), x[6:]...),
			Temperature: x[1],
			Pressure:    x[0],
		},
		Trays:            trays,
		FeedTray:         feedTray,
		RefluxRatio:      x[4],
		DistillateToFeed: x[5],
		TraySpacing:      s.TraySpacing,
		Material:         s.Material,
		WeldEfficiency:   s.WeldEfficiency,
	}
	return d, d.Validate()
}

// Designs draws n samples from the design space and returns the designs
// with index first through n-1, so that an interrupted run can be resumed
// with the same random source. Each design's ID is its index.
func (s DesignSpace) Designs(n, first int, src rand.Source) ([]distcost.Design, error) {
	x, err := LatinHypercube(n, s.Bounds(), src)
	if err != nil {
		return nil, err
	}
	if first < 0 || first > n {
		return nil, fmt.Errorf("sample: first design %d is outside [0, %d]", first, n)
	}
	o := make([]distcost.Design, 0, n-first)
	for i := first; i < n; i++ {
		d, err := s.Design(strconv.Itoa(i), x.RawRowView(i))
		if err != nil {
			return nil, fmt.Errorf("sample: design %d: %w", i, err)
		}
		o = append(o, d)
	}
	return o, nil
}
