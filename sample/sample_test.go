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

package sample

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"golang.org/x/exp/rand"
)

func TestLatinHypercube(t *testing.T) {
	const n = 50
	bounds := []Bounds{
		{Min: 1e5, Max: 5.5e6},
		{Min: 2, Max: 220, Integer: true},
		{Min: 0, Max: 5},
	}
	x, err := LatinHypercube(n, bounds, rand.NewSource(42))
	if err != nil {
		t.Fatal(err)
	}
	r, c := x.Dims()
	if r != n || c != len(bounds) {
		t.Fatalf("dims = %d×%d", r, c)
	}
	for j, b := range bounds {
		t.Run(fmt.Sprint(j), func(t *testing.T) {
			bins := make([]int, n)
			for i := 0; i < n; i++ {
				v := x.At(i, j)
				if v < b.Min || v > b.Max {
					t.Fatalf("sample %d = %g is outside [%g, %g]", i, v, b.Min, b.Max)
				}
				if b.Integer {
					if v != math.Trunc(v) {
						t.Errorf("sample %d = %g is not an integer", i, v)
					}
					continue
				}
				bin := int((v - b.Min) / (b.Max - b.Min) * n)
				if bin == n {
					bin--
				}
				bins[bin]++
			}
			if b.Integer {
				return
			}
			for i, count := range bins {
				if count != 1 {
					t.Errorf("bin %d has %d samples, want 1", i, count)
				}
			}
		})
	}
}

func TestLatinHypercubeErrors(t *testing.T) {
	if _, err := LatinHypercube(0, []Bounds{{Min: 0, Max: 1}}, nil); err == nil {
		t.Error("zero samples should fail")
	}
	if _, err := LatinHypercube(10, []Bounds{{Min: 1, Max: 1}}, nil); err == nil {
		t.Error("empty range should fail")
	}
}

func TestDesign(t *testing.T) {
	s := DefaultDesignSpace()
	x := []float64{2.5e6, 300, 10, 0.96, 2, 0.5, 1, 1, 1, 1, 1, 1, 1, 1}
	d, err := s.Design("7", x)
	if err != nil {
		t.Fatal(err)
	}
	if d.Trays != 10 || d.FeedTray != 10 {
		t.Errorf("trays = %d, feed tray = %d", d.Trays, d.FeedTray)
	}
	if d.OperatingPressure() != 2.5e6 || d.Feed.Temperature != 300 {
		t.Errorf("feed = %+v", d.Feed)
	}
	if len(d.Feed.Components) != 8 || d.Feed.Components[7] != "BENZE-01" {
		t.Errorf("components = %v", d.Feed.Components)
	}

	for _, test := range []struct {
		frac float64
		want int
	}{
		{frac: 0.01, want: 1},
		{frac: 0.25, want: 2}, // 2.5 rounds to even.
		{frac: 0.35, want: 4},
		{frac: 0.5, want: 5},
	} {
		x[3] = test.frac
		d, err := s.Design("x", x)
		if err != nil {
			t.Fatal(err)
		}
		if d.FeedTray != test.want {
			t.Errorf("feed fraction %g: feed tray %d, want %d", test.frac, d.FeedTray, test.want)
		}
	}

	if _, err := s.Design("short", x[:5]); err == nil {
		t.Error("short sample should fail")
	}
}

func TestDesigns(t *testing.T) {
	s := DefaultDesignSpace()
	all, err := s.Designs(20, 0, rand.NewSource(42))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 20 || all[0].ID != "0" || all[19].ID != "19" {
		t.Fatalf("%d designs", len(all))
	}
	for _, d := range all {
		if err := d.Validate(); err != nil {
			t.Errorf("design %s: %v", d.ID, err)
		}
	}
	resumed, err := s.Designs(20, 15, rand.NewSource(42))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resumed, all[15:]) {
		t.Error("resumed designs differ from the originals")
	}
}
