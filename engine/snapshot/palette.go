/*
 * palette.go, part of molgrid.
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

package snapshot

import (
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rmera/molgrid/structure"
)

// Colour schemes understood by the engine, named as in Mol*.
const (
	ElementSymbol      = "element-symbol"
	ChainID            = "chain-id"
	ResidueName        = "residue-name"
	SequenceID         = "sequence-id"
	SecondaryStructure = "secondary-structure"
)

// Default is the scheme used when none is requested.
const Default = ElementSymbol

var schemes = map[string]bool{
	"":                 true,
	ElementSymbol:      true,
	ChainID:            true,
	ResidueName:        true,
	SequenceID:         true,
	SecondaryStructure: true,
}

//Jmol element colors, just the usual elements.
var elementColors = map[string]string{
	"H":  "#ffffff",
	"C":  "#909090",
	"N":  "#3050f8",
	"O":  "#ff0d0d",
	"F":  "#90e050",
	"P":  "#ff8000",
	"S":  "#ffff30",
	"Cl": "#1ff01f",
	"Br": "#a62929",
	"I":  "#940094",
	"Na": "#ab5cf2",
	"K":  "#8f40d4",
	"Mg": "#8aff00",
	"Ca": "#3dff00",
	"Fe": "#e06633",
	"Zn": "#7d80b0",
	"Cu": "#c88033",
	"Mn": "#9c7ac7",
	"Co": "#f090a0",
	"Se": "#ffa100",
}

const unknownElement = "#ff1493"

var chainColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"}

//residue colours, as the "amino" scheme of 3Dmol/RasMol
var residueColors = map[string]string{
	"ALA": "#c8c8c8", "ARG": "#145aff", "ASN": "#00dcdc", "ASP": "#e60a0a",
	"CYS": "#e6e600", "GLN": "#00dcdc", "GLU": "#e60a0a", "GLY": "#ebebeb",
	"HIS": "#8282d2", "ILE": "#0f820f", "LEU": "#0f820f", "LYS": "#145aff",
	"MET": "#e6e600", "PHE": "#3232aa", "PRO": "#dc9682", "SER": "#fa9600",
	"THR": "#fa9600", "TRP": "#b45ab4", "TYR": "#3232aa", "VAL": "#0f820f",
}

const otherResidue = "#bea06e"

var ssColors = map[structure.SecStruct]string{
	structure.Helix: "#ff0080",
	structure.Sheet: "#ffc800",
	structure.Coil:  "#ffffff",
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("bad colour in palette: " + s) //programming error
	}
	return c
}

// colorAtoms returns a colour for each of the atoms with index in sel, according
// to scheme.
func colorAtoms(S *structure.Structure, sel []int, scheme string) []color.Color {
	ret := make([]color.Color, len(sel))
	switch scheme {
	case ChainID:
		chains := S.Chains()
		pos := make(map[string]int, len(chains))
		for i, c := range chains {
			pos[c] = i
		}
		for k, i := range sel {
			ret[k] = mustHex(chainColors[pos[S.Atoms[i].Chain]%len(chainColors)])
		}
	case ResidueName:
		for k, i := range sel {
			h, ok := residueColors[S.Atoms[i].Residue]
			if !ok {
				h = otherResidue
			}
			ret[k] = mustHex(h)
		}
	case SequenceID:
		spectrum(S, sel, ret)
	case SecondaryStructure:
		for k, i := range sel {
			h, ok := ssColors[S.Atoms[i].SS]
			if !ok {
				h = ssColors[structure.Coil]
			}
			ret[k] = mustHex(h)
		}
	default:
		for k, i := range sel {
			h, ok := elementColors[S.Atoms[i].Symbol]
			if !ok {
				h = unknownElement
			}
			ret[k] = mustHex(h)
		}
	}
	return ret
}

// spectrum colours atoms from blue to red following their residue number,
// separately for each chain.
func spectrum(S *structure.Structure, sel []int, ret []color.Color) {
	ids := make(map[string][]int)
	for _, i := range sel {
		a := S.Atoms[i]
		ids[a.Chain] = append(ids[a.Chain], a.ResID)
	}
	ranges := make(map[string][2]int)
	for c, v := range ids {
		sort.Ints(v)
		ranges[c] = [2]int{v[0], v[len(v)-1]}
	}
	for k, i := range sel {
		a := S.Atoms[i]
		r := ranges[a.Chain]
		f := 0.0
		if r[1] > r[0] {
			f = float64(a.ResID-r[0]) / float64(r[1]-r[0])
		}
		//hue 240 (blue) to 0 (red)
		ret[k] = colorful.Hsv(240*(1-f), 1, 1)
	}
}

// withAlpha returns c with the given opacity (0 to 1).
func withAlpha(c color.Color, opacity float64) color.Color {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(255 * clamp(opacity, 0, 1))}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
