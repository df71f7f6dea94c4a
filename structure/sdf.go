/*
 * sdf.go, part of molgrid.
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

// readSDF reads the first molecule of an SDF or MOL file, in either the V2000 or the
// V3000 flavor.
func readSDF(text string) (*Structure, error) {
	lines := strings.Split(text, "\n")
	//only the first molecule.
	for i, l := range lines {
		if strings.HasPrefix(l, "$$$$") {
			lines = lines[:i]
			break
		}
	}
	//The counts line is the fourth, but the sanitizer may have trimmed an empty title
	//line, so we look for it.
	counts := -1
	for i, l := range lines {
		if strings.Contains(l, "V2000") || strings.Contains(l, "V3000") {
			counts = i
			break
		}
	}
	if counts < 0 {
		counts = 3
	}
	if counts >= len(lines) {
		return nil, newError(NoAtoms+" (no counts line)", molgrid.SDF, 0, "readSDF")
	}
	var S *Structure
	var err error
	if strings.Contains(lines[counts], "V3000") {
		S, err = readV3000(lines, counts)
	} else {
		S, err = readV2000(lines, counts)
	}
	return S, molgrid.ErrDecorate(err, "readSDF")
}

func readV2000(lines []string, counts int) (*Structure, error) {
	f := strings.Fields(lines[counts])
	if len(f) == 0 {
		return nil, newError(BadNumber, molgrid.SDF, counts+1, "readV2000")
	}
	//the counts are 3-char fixed width fields that can run together ("100120").
	natomsField := f[0]
	if len(lines[counts]) >= 3 {
		natomsField = strings.TrimSpace(lines[counts][:3])
	}
	natoms, err := strconv.Atoi(natomsField)
	if err != nil {
		return nil, newError(BadNumber+" "+strconv.Quote(natomsField), molgrid.SDF, counts+1, "readV2000")
	}
	if natoms <= 0 {
		return nil, newError(NoAtoms, molgrid.SDF, counts+1, "readV2000")
	}
	if natoms > len(lines)-counts-1 {
		return nil, newError(Truncated, molgrid.SDF, len(lines), "readV2000")
	}
	atoms := make([]*Atom, 0, natoms)
	coords := make([]float64, 0, natoms*3)
	for i := counts + 1; i <= counts+natoms; i++ {
		at, c, err := sdfAtom(strings.Fields(lines[i]), len(atoms)+1, i+1)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, at)
		coords = append(coords, c[:]...)
	}
	return build(molgrid.SDF, atoms, coords)
}

func readV3000(lines []string, counts int) (*Structure, error) {
	atoms := make([]*Atom, 0, 32)
	coords := make([]float64, 0, 32*3)
	in := false
	for i := counts + 1; i < len(lines); i++ {
		l := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(l, "M  V30") {
			continue
		}
		body := strings.TrimSpace(strings.TrimPrefix(l, "M  V30"))
		switch body {
		case "BEGIN ATOM":
			in = true
			continue
		case "END ATOM":
			return build(molgrid.SDF, atoms, coords)
		}
		if !in {
			continue
		}
		//index symbol x y z ...
		f := strings.Fields(body)
		if len(f) < 5 {
			return nil, newError(ShortLine, molgrid.SDF, i+1, "readV3000")
		}
		at, c, err := sdfAtom([]string{f[2], f[3], f[4], f[1]}, 0, i+1)
		if err != nil {
			return nil, err
		}
		at.Serial, _ = strconv.Atoi(f[0])
		atoms = append(atoms, at)
		coords = append(coords, c[:]...)
	}
	return build(molgrid.SDF, atoms, coords)
}

// sdfAtom reads the fields x y z symbol.
func sdfAtom(f []string, serial, nline int) (*Atom, [3]float64, error) {
	var c [3]float64
	if len(f) < 4 {
		return nil, c, newError(ShortLine, molgrid.SDF, nline, "sdfAtom")
	}
	var err error
	for k := 0; k < 3; k++ {
		c[k], err = strconv.ParseFloat(f[k], 64)
		if err != nil {
			return nil, c, newError(BadNumber+" "+strconv.Quote(f[k]), molgrid.SDF, nline, "sdfAtom")
		}
	}
	sym := normSymbol(f[3])
	return &Atom{Serial: serial, Name: sym, Symbol: sym, SS: Coil}, c, nil
}
