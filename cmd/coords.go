/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/spf13/cobra"
)

// getCoordsCmd returns the coords command.
func getCoordsCmd() *cobra.Command {
	var lonFirst bool

	coordsCmd := &cobra.Command{
		Use:   "coords <text>",
		Short: "Parse a free-text coordinate string",
		Long: `Coords converts a coordinate annotation to signed decimal degrees
and prints latitude and longitude separated by a tab, or N/A.

The first number is latitude unless --lon-first is given. Hemisphere
letters S and W make a value negative. A letter goes with the number
before it ("35.99 S") or, when that number already has one, with the
next number ("S 35.99 W 120.42"). Letters never swap the axes.

Examples:
  accmeta coords "35.99 N 120.42 E"
  accmeta coords "S 35.99 W 120.42"
  accmeta coords --lon-first "120.42 W 35.99 S"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order := coord.OrderLatLon
			if lonFirst {
				order = coord.OrderLonLat
			}
			p := coord.ParseWithOrder(strings.Join(args, " "), order)

			res := record.Unknown
			if p.Valid {
				res = p.String()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), res)
			return err
		},
	}

	coordsCmd.Flags().BoolVar(&lonFirst, "lon-first", false,
		"treat the first number as longitude")
	return coordsCmd
}
