/*
 * mol2.go, part of molgrid.
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

// readMOL2 reads the @<TRIPOS>ATOM section of the first molecule in a
// Tripos MOL2 file.
func readMOL2(text string) (*Structure, error) {
	atoms := make([]*Atom, 0, 32)
	coords := make([]float64, 0, 32*3)
	inAtoms := false
	molecules := 0
	for i, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "@<") {
			section := strings.ToUpper(l)
			if section == "@<TRIPOS>MOLECULE" {
				molecules++
				if molecules > 1 {
					break
				}
			}
			inAtoms = section == "@<TRIPOS>ATOM"
			continue
		}
		if !inAtoms || l == "" || l[0] == '#' {
			continue
		}
		//id name x y z type [subst_id [subst_name [charge]]]
		f := strings.Fields(l)
		if len(f) < 6 {
			return nil, newError(ShortLine, molgrid.MOL2, i+1, "readMOL2")
		}
		var c [3]float64
		var err error
		for k := 0; k < 3; k++ {
			c[k], err = strconv.ParseFloat(f[2+k], 64)
			if err != nil {
				return nil, newError(BadNumber+" "+strconv.Quote(f[2+k]), molgrid.MOL2, i+1, "readMOL2")
			}
		}
		at := &Atom{Name: f[1], SS: Coil}
		at.Serial, _ = strconv.Atoi(f[0])
		//Sybyl types are like C.ar, N.am, Du
		at.Symbol = normSymbol(strings.SplitN(f[5], ".", 2)[0])
		if len(f) > 6 {
			at.ResID, _ = strconv.Atoi(f[6])
		}
		if len(f) > 7 {
			at.Residue = strings.TrimRight(f[7], "0123456789")
		}
		atoms = append(atoms, at)
		coords = append(coords, c[:]...)
	}
	S, err := build(molgrid.MOL2, atoms, coords)
	return S, molgrid.ErrDecorate(err, "readMOL2")
}
