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

// Package distcost estimates the size and total annualized cost (TAC) of
// tray distillation columns from their design variables and the results of
// a process simulation. Estimates are of the ±30% class and follow
// Sinnott & Towler, Chemical Engineering Design, 6th ed.
//
// A column passes through explicit stages: a Design is combined with a
// Simulation by Simulate, the result is sized by Tables.Size, and the sized
// column is priced by Tables.Cost. Each stage can be serialized as a Record.
package distcost

// Version gives the version number.
const Version = "0.1.0"
