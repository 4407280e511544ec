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

// Command distcost is a command-line interface for the DistCost
// distillation column cost model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spatialmodel/distcost/distcostutil"
)

func main() {
	// Interrupted runs stop after the current column and can be resumed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := distcostutil.Root.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
