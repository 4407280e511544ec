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

// Package hash creates deterministic keys for evaluation inputs.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash"
	"hash/fnv"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// printer writes values whose gob encoding fails. Map keys are sorted and
// pointer addresses omitted so that equal values print identically.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Key returns a 128-bit FNV-1a hash of the given values, in hexadecimal.
// Values are gob-encoded; if that fails (gob does not accept NaN in some
// positions, nor nil pointers at the top level), the spew representation
// of all the values is hashed instead.
func Key(values ...interface{}) string {
	h := fnv.New128a()
	if err := encode(h, values); err != nil {
		h = fnv.New128a()
		for _, v := range values {
			printer.Fprintf(h, "%#v\n", v)
		}
	}
	return sum(h)
}

// encode gob-encodes values to w. gob panics on some inputs, such as nil
// pointers, instead of returning an error.
func encode(w io.Writer, values []interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hash: %v", r)
		}
	}()
	e := gob.NewEncoder(w)
	for _, v := range values {
		if err := e.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func sum(h hash.Hash) string {
	b := h.Sum(nil)
	return fmt.Sprintf("%x", b[:h.Size()])
}
