/*
 * xyz.go, part of molgrid.
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

// readXYZ reads the first frame of an XYZ file.
func readXYZ(text string) (*Structure, error) {
	lines := strings.Split(text, "\n")
	natoms, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || natoms <= 0 {
		return nil, newError("ill formatted atom count "+strconv.Quote(lines[0]), molgrid.XYZ, 1, "readXYZ")
	}
	//the second line is a comment we don't care about.
	if natoms > len(lines)-2 {
		return nil, newError(Truncated, molgrid.XYZ, len(lines), "readXYZ")
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		fields := strings.Fields(lines[i+2])
		if len(fields) < 4 {
			return nil, newError(ShortLine, molgrid.XYZ, i+3, "readXYZ")
		}
		for k := 0; k < 3; k++ {
			coords[i*3+k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, newError(BadNumber+" "+strconv.Quote(fields[k+1]), molgrid.XYZ, i+3, "readXYZ")
			}
		}
		sym := fields[0]
		//some programs write atomic numbers instead of symbols
		if z, err := strconv.Atoi(sym); err == nil {
			sym = symbolFromZ(z)
		}
		sym = normSymbol(sym)
		atoms[i] = &Atom{Serial: i + 1, Name: sym, Symbol: sym, SS: Coil}
	}
	return build(molgrid.XYZ, atoms, coords)
}
