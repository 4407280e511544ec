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

import "math"

// OutOfBoundsFluid is the fluid name reported when no utility matches.
const OutOfBoundsFluid = "Out of bounds"

// outOfBoundsArea is the heat transfer area reported when no utility
// matches. It has no physical meaning.
const outOfBoundsArea = 1e16

// UtilitySelection is the utility fluid and exchanger chosen to provide
// a heating or cooling duty.
type UtilitySelection struct {
	Fluid     string
	Exchanger ExchangerType

	// Area is the required heat transfer area [m²].
	Area float64
}

// OutOfBounds reports whether s is the placeholder selection returned
// when no utility matches.
func (s UtilitySelection) OutOfBounds() bool { return s.Fluid == OutOfBoundsFluid }

// SelectUtility chooses a utility fluid for a process fluid at the given
// temperature [K] that requires the given duty [W] in the given mode, and
// sizes the exchanger.
//
// A catalog entry matches when its mode equals mode and
// Low < processTemperature < High. The catalog is scanned in order and
// the last matching entry is used, so reordering t.Utilities can change
// the result. When nothing matches, the returned selection holds
// placeholder values (see OutOfBounds) and the error is
// ErrUtilityOutOfBounds.
func (t *Tables) SelectUtility(processTemperature, duty float64, mode Mode) (UtilitySelection, error) {
	match := -1
	for i, u := range t.Utilities {
		if u.Mode == mode && u.Low < processTemperature && processTemperature < u.High {
			match = i
		}
	}
	if match < 0 {
		return UtilitySelection{
			Fluid:     OutOfBoundsFluid,
			Exchanger: ShellAndTube,
			Area:      outOfBoundsArea,
		}, ErrUtilityOutOfBounds
	}
	u := t.Utilities[match]
	area := math.Abs(duty) / (u.HTC * math.Abs(processTemperature-u.Inlet))
	if !(area > 0) || math.IsInf(area, 0) {
		return UtilitySelection{}, sizingErr("heat exchanger area",
			"%s area %g m² for duty %g W at %g K is not a positive finite number", u.Name, area, duty, processTemperature)
	}
	return UtilitySelection{Fluid: u.Name, Exchanger: u.Exchanger, Area: area}, nil
}
