/*
 * cube.go, part of molgrid.
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

import (
	"strconv"
	"strings"

	"github.com/rmera/molgrid"
)

const bohr2A = 0.529177210903

// readCube reads the atoms of a Gaussian cube file. The volumetric data is
// ignored.
func readCube(text string) (*Structure, error) {
	lines := strings.Split(text, "\n")
	//2 comment lines, origin, 3 voxel axes.
	if len(lines) < 6 {
		return nil, newError(Truncated, molgrid.Cube, len(lines), "readCube")
	}
	f := strings.Fields(lines[2])
	if len(f) < 4 {
		return nil, newError(ShortLine, molgrid.Cube, 3, "readCube")
	}
	natoms, err := strconv.Atoi(f[0])
	if err != nil {
		return nil, newError(BadNumber+" "+strconv.Quote(f[0]), molgrid.Cube, 3, "readCube")
	}
	//a negative count means there is an extra line after the atoms, we don't
	//read beyond the atoms anyway.
	if natoms < 0 {
		natoms = -natoms
	}
	//-MinInt is still negative
	if natoms <= 0 {
		return nil, newError(NoAtoms, molgrid.Cube, 3, "readCube")
	}
	//A negative number of voxels means that the units are already Angstrom.
	scale := bohr2A
	if v := strings.Fields(lines[3]); len(v) > 0 && strings.HasPrefix(v[0], "-") {
		scale = 1
	}
	if natoms > len(lines)-6 {
		return nil, newError(Truncated, molgrid.Cube, len(lines), "readCube")
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		//Z charge x y z
		f := strings.Fields(lines[6+i])
		if len(f) < 5 {
			return nil, newError(ShortLine, molgrid.Cube, i+7, "readCube")
		}
		z, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, newError(BadNumber+" "+strconv.Quote(f[0]), molgrid.Cube, i+7, "readCube")
		}
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(f[2+k], 64)
			if err != nil {
				return nil, newError(BadNumber+" "+strconv.Quote(f[2+k]), molgrid.Cube, i+7, "readCube")
			}
			coords[i*3+k] = v * scale
		}
		sym := symbolFromZ(z)
		atoms[i] = &Atom{Serial: i + 1, Name: sym, Symbol: sym, SS: Coil}
	}
	return build(molgrid.Cube, atoms, coords)
}
