/*
 * pdb.go, part of molgrid.
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

// a residue range from a HELIX or SHEET record.
type ssRange struct {
	kind       SecStruct
	chain      string
	first, end int
}

// readPDB reads the first model of a PDB file. Secondary structure is taken
// from the HELIX and SHEET records, if present.
func readPDB(text string) (*Structure, error) {
	atoms := make([]*Atom, 0, 64)
	coords := make([]float64, 0, 64*3)
	ranges := make([]ssRange, 0)
	for i, line := range strings.Split(text, "\n") {
		rec := line
		if len(rec) > 6 {
			rec = rec[:6]
		}
		switch strings.TrimSpace(rec) {
		case "ATOM", "HETATM":
			at, c, err := readPDBAtom(line, i+1)
			if err != nil {
				return nil, molgrid.ErrDecorate(err, "readPDB")
			}
			atoms = append(atoms, at)
			coords = append(coords, c[:]...)
		case "HELIX":
			if r, ok := readSSRange(line, Helix, 19, 21, 25, 31, 33, 37); ok {
				ranges = append(ranges, r)
			}
		case "SHEET":
			if r, ok := readSSRange(line, Sheet, 21, 22, 26, 32, 33, 37); ok {
				ranges = append(ranges, r)
			}
		case "ENDMDL":
			//we only want the first model
			if len(atoms) > 0 {
				return finishPDB(atoms, coords, ranges)
			}
		}
	}
	return finishPDB(atoms, coords, ranges)
}

func finishPDB(atoms []*Atom, coords []float64, ranges []ssRange) (*Structure, error) {
	S, err := build(molgrid.PDB, atoms, coords)
	if err != nil {
		return nil, molgrid.ErrDecorate(err, "readPDB")
	}
	for _, a := range S.Atoms {
		a.SS = Coil
		for _, r := range ranges {
			if a.Chain == r.chain && a.ResID >= r.first && a.ResID <= r.end {
				a.SS = r.kind
				break
			}
		}
	}
	return S, nil
}

// readPDBAtom parses an ATOM or HETATM line. Only the coordinates are mandatory
// fields, everything else is read if present.
func readPDBAtom(line string, nline int) (*Atom, [3]float64, error) {
	var c [3]float64
	if len(line) < 54 {
		return nil, c, newError(ShortLine, molgrid.PDB, nline, "readPDBAtom")
	}
	at := new(Atom)
	at.Het = strings.HasPrefix(line, "HETATM")
	at.Serial, _ = strconv.Atoi(strings.TrimSpace(line[6:11]))
	at.Name = strings.TrimSpace(line[12:16])
	at.Residue = strings.TrimSpace(line[17:20])
	at.Chain = strings.TrimSpace(line[21:22])
	at.ResID, _ = strconv.Atoi(strings.TrimSpace(line[22:26]))
	var err error
	for j := 0; j < 3; j++ {
		field := strings.TrimSpace(line[30+8*j : 38+8*j])
		c[j], err = strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, c, newError(BadNumber+" "+strconv.Quote(field), molgrid.PDB, nline, "readPDBAtom")
		}
	}
	if len(line) >= 78 {
		at.Symbol = normSymbol(strings.TrimSpace(line[76:78]))
	}
	if at.Symbol == "" {
		at.Symbol = symbolFromName(at.Name)
	}
	return at, c, nil
}

// readSSRange reads the chain and residue range of a HELIX or SHEET record, given the
// positions of the initial chain, the initial residue number and the end chain and
// residue number.
func readSSRange(line string, kind SecStruct, ichain, iseq, iseqEnd, echain, eseq, eseqEnd int) (ssRange, bool) {
	if len(line) < eseqEnd {
		return ssRange{}, false
	}
	first, err1 := strconv.Atoi(strings.TrimSpace(line[iseq:iseqEnd]))
	end, err2 := strconv.Atoi(strings.TrimSpace(line[eseq:eseqEnd]))
	if err1 != nil || err2 != nil {
		return ssRange{}, false
	}
	chain := strings.TrimSpace(line[ichain : ichain+1])
	if chain != strings.TrimSpace(line[echain:echain+1]) {
		return ssRange{}, false
	}
	return ssRange{kind: kind, chain: chain, first: first, end: end}, true
}
