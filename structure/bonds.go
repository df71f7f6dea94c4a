/*
 * bonds.go, part of molgrid.
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

package structure

import "math"

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
	//no bond can be longer than this, also the cell size for the search.
	toofar = 3.0
)

// Bond joins the atoms with indexes I and J (I < J).
type Bond struct {
	I, J int
	Dist float64
}

type cellKey [3]int

func keyOf(c [3]float64) cellKey {
	return cellKey{int(math.Floor(c[0] / toofar)), int(math.Floor(c[1] / toofar)), int(math.Floor(c[2] / toofar))}
}

// Bonds assigns bonds based on a simple distance criterion, similar to that
// described in DOI:10.1186/1758-2946-3-33. Atoms are bucketed in cubic
// cells so proteins don't take quadratic time.
func Bonds(S *Structure) []Bond {
	cells := make(map[cellKey][]int)
	for i := range S.Atoms {
		k := keyOf(S.Coord(i))
		cells[k] = append(cells[k], i)
	}
	bonds := make([]Bond, 0, S.Len())
	for i, at := range S.Atoms {
		ci := S.Coord(i)
		cov1 := Covrad(at.Symbol)
		k := keyOf(ci)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, j := range cells[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if j <= i {
							continue
						}
						cj := S.Coord(j)
						d := math.Sqrt((ci[0]-cj[0])*(ci[0]-cj[0]) + (ci[1]-cj[1])*(ci[1]-cj[1]) + (ci[2]-cj[2])*(ci[2]-cj[2]))
						if d < cov1+Covrad(S.Atoms[j].Symbol)+bondtol && d > tooclose {
							bonds = append(bonds, Bond{I: i, J: j, Dist: d})
						}
					}
				}
			}
		}
	}
	return bonds
}

// Trace returns, for each chain, the indexes of the alpha carbons (or the
// phosphorus atoms of nucleic acids) in order. It is used to draw cartoons.
// Chains with fewer than 2 such atoms are left out.
func Trace(S *Structure) map[string][]int {
	ret := make(map[string][]int)
	for i, a := range S.Atoms {
		if a.Het || !(a.Name == "CA" && a.Symbol == "C" || a.Name == "P") {
			continue
		}
		ret[a.Chain] = append(ret[a.Chain], i)
	}
	for k, v := range ret {
		if len(v) < 2 {
			delete(ret, k)
		}
	}
	return ret
}
