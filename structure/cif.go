/*
 * cif.go, part of molgrid.
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

// cifmap relates the _atom_site fields we are interested in to their
// position in the loop.
type cifmap map[string]int

// get returns the position of the first of the given fields present in the loop,
// or -1.
func (m cifmap) get(fields ...string) int {
	for _, f := range fields {
		if i, ok := m[f]; ok {
			return i
		}
	}
	return -1
}

// readCIF reads the first model in the _atom_site loop of a PDBx/mmCIF file.
func readCIF(text string) (*Structure, error) {
	lines := strings.Split(text, "\n")
	m := make(cifmap)
	i := 0
	//find the _atom_site loop and its headers
	for ; i < len(lines); i++ {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[i])), "loop_") {
			continue
		}
		j := i + 1
		for ; j < len(lines); j++ {
			l := strings.TrimSpace(lines[j])
			if !strings.HasPrefix(l, "_atom_site.") {
				break
			}
			m[strings.TrimPrefix(strings.Fields(l)[0], "_atom_site.")] = len(m)
		}
		if len(m) > 0 {
			i = j
			break
		}
	}
	if len(m) == 0 {
		return nil, newError(NoAtoms+" (no _atom_site loop)", molgrid.CIF, 0, "readCIF")
	}
	x, y, z := m.get("Cartn_x"), m.get("Cartn_y"), m.get("Cartn_z")
	if x < 0 || y < 0 || z < 0 {
		return nil, newError("_atom_site loop without Cartesian coordinates", molgrid.CIF, i, "readCIF")
	}
	group := m.get("group_PDB")
	serial := m.get("id")
	symbol := m.get("type_symbol")
	name := m.get("auth_atom_id", "label_atom_id")
	resname := m.get("auth_comp_id", "label_comp_id")
	chain := m.get("auth_asym_id", "label_asym_id")
	resid := m.get("auth_seq_id", "label_seq_id")
	model := m.get("pdbx_PDB_model_num")
	atoms := make([]*Atom, 0, 64)
	coords := make([]float64, 0, 64*3)
	firstModel := ""
	pending := make([]string, 0, len(m))
	for ; i < len(lines); i++ {
		l := strings.TrimSpace(lines[i])
		if l == "" {
			continue
		}
		if l[0] == '#' || l[0] == '_' || strings.HasPrefix(l, "loop_") || strings.HasPrefix(l, "data_") {
			break
		}
		pending = append(pending, cifTokens(l)...)
		if len(pending) < len(m) {
			continue //a row can span several lines
		}
		row := pending[:len(m)]
		pending = pending[len(m):]
		if model >= 0 {
			if firstModel == "" {
				firstModel = row[model]
			} else if row[model] != firstModel {
				break
			}
		}
		var c [3]float64
		var err error
		for k, col := range []int{x, y, z} {
			c[k], err = strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, newError(BadNumber+" "+strconv.Quote(row[col]), molgrid.CIF, i+1, "readCIF")
			}
		}
		at := &Atom{
			Name:    cifValue(row, name),
			Residue: cifValue(row, resname),
			Chain:   cifValue(row, chain),
			Symbol:  normSymbol(cifValue(row, symbol)),
			Het:     cifValue(row, group) == "HETATM",
			SS:      Coil,
		}
		at.Serial, _ = strconv.Atoi(cifValue(row, serial))
		at.ResID, _ = strconv.Atoi(cifValue(row, resid))
		if at.Symbol == "" {
			at.Symbol = symbolFromName(at.Name)
		}
		atoms = append(atoms, at)
		coords = append(coords, c[:]...)
	}
	S, err := build(molgrid.CIF, atoms, coords)
	return S, molgrid.ErrDecorate(err, "readCIF")
}

// cifValue returns the field i of row, with the CIF placeholders
// for missing values ("." and "?") turned into empty strings.
func cifValue(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	v := row[i]
	if v == "." || v == "?" {
		return ""
	}
	return v
}

// cifTokens splits a CIF data line in whitespace-separated tokens. Tokens can
// be quoted with single or double quotes.
func cifTokens(line string) []string {
	ret := make([]string, 0, 20)
	for i := 0; i < len(line); {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if q := line[i]; q == '\'' || q == '"' {
			//a closing quote only counts when followed by whitespace or the end of the line.
			j := i + 1
			for j < len(line) && !(line[j] == q && (j+1 == len(line) || line[j+1] == ' ' || line[j+1] == '\t')) {
				j++
			}
			ret = append(ret, line[i+1:min(j, len(line))])
			i = j + 1
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		ret = append(ret, line[i:j])
		i = j
	}
	return ret
}
