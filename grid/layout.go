/*
 * layout.go, part of molgrid.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package grid

import "math"

// Layout is the shape of the grid.
type Layout struct {
	Columns int
	Rows    int
}

// ComputeLayout returns the layout for n cells. pref is the requested number
// of columns, 0 or less means automatic (a square-ish grid).
// The result always has at least one column, and Columns*Rows >= n >
// Columns*(Rows-1).
func ComputeLayout(n, pref int) Layout {
	if n < 0 {
		n = 0
	}
	cols := pref
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols < 1 {
		cols = 1
	}
	return Layout{Columns: cols, Rows: (n + cols - 1) / cols}
}

// Position returns the row and column of the cell with index i.
func (L Layout) Position(i int) (row, col int) {
	if L.Columns < 1 {
		return 0, i
	}
	return i / L.Columns, i % L.Columns
}
