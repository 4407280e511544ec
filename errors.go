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
	"errors"
	"fmt"
)

// ErrUtilityOutOfBounds is returned by SelectUtility when no fluid in the
// utility catalog can serve the requested temperature and mode. The
// accompanying selection holds sentinel values and must not be priced.
var ErrUtilityOutOfBounds = errors.New("distcost: no utility fluid matches the process temperature")

// MaterialError is returned when a material is missing from one of the
// property tables needed for sizing or costing.
type MaterialError struct {
	Material Material
	Table    string
}

func (e *MaterialError) Error() string {
	return fmt.Sprintf("distcost: material %q is missing from the %s table", e.Material, e.Table)
}

// OutOfRangeError is returned when a table lookup falls outside the
// tabulated range.
type OutOfRangeError struct {
	Quantity string
	Material Material
	Value    float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("distcost: %s %g for %s is outside the tabulated range [%g, %g]",
		e.Quantity, e.Value, e.Material, e.Min, e.Max)
}

// SizingError is returned when a sizing formula would produce a
// non-physical result.
type SizingError struct {
	// Formula names the calculation that failed.
	Formula string
	Reason  string
}

func (e *SizingError) Error() string {
	return fmt.Sprintf("distcost: %s: %s", e.Formula, e.Reason)
}

func sizingErr(formula, format string, args ...interface{}) error {
	return &SizingError{Formula: formula, Reason: fmt.Sprintf(format, args...)}
}

// AmortizationError is returned when the capital charge ratio is
// undefined for the given interest rate and plant life.
type AmortizationError struct {
	InterestRate float64
	Years        int
}

func (e *AmortizationError) Error() string {
	return fmt.Sprintf("distcost: annual capital charge ratio undefined for interest rate %g over %d years",
		e.InterestRate, e.Years)
}

// MissingFieldError is returned when a calculation is requested before
// one of the values it depends on has been populated.
type MissingFieldError struct {
	Stage string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("distcost: %s is missing required field %s", e.Stage, e.Field)
}

// InvalidInputError is returned when a design or simulation value is
// outside its allowed range.
type InvalidInputError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("distcost: %s=%v %s", e.Field, e.Value, e.Reason)
}
