/*
 * format_test.go, part of molgrid.
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

package molgrid

import (
	"strings"
	"testing"
)

const (
	pdbSample = `HEADER    OXIDOREDUCTASE                          01-JAN-00   1ABC
ATOM      1  N   MET A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  MET A   1      11.639   6.071  -5.147  1.00  0.00           C
END`
	cifSample = `data_1ABC
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
ATOM 1 N 11.104 6.134 -6.504`
	mol2Sample = `@<TRIPOS>MOLECULE
water
 3 2 0 0 0
SMALL
NO_CHARGES

@<TRIPOS>ATOM
      1 O1          0.0000    0.0000    0.1173 O.3     1  HOH1       -0.8340
      2 H1          0.0000    0.7572   -0.4692 H       1  HOH1        0.4170
      3 H2          0.0000   -0.7572   -0.4692 H       1  HOH1        0.4170
@<TRIPOS>BOND
     1     1     2    1
     2     1     3    1`
	sdfSample = `water
     RDKit          3D

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.1173 O   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.7572   -0.4692 H   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000   -0.7572   -0.4692 H   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  1  3  1  0
M  END`
	xyzSample = `3
water
O    0.0000    0.0000    0.1173
H    0.0000    0.7572   -0.4692
H    0.0000   -0.7572   -0.4692`
	cubeSample = `Water density
CUBE FILE generated by a test
    3    0.000000    0.000000    0.000000
    2    0.500000    0.000000    0.000000
    2    0.000000    0.500000    0.000000
    2    0.000000    0.000000    0.500000
    8    8.000000    0.000000    0.000000    0.221664
    1    1.000000    0.000000    1.430901   -0.886659
    1    1.000000    0.000000   -1.430901   -0.886659
 0.1 0.2 0.3 0.4
 0.5 0.6 0.7 0.8`
)

func TestClassify(Te *testing.T) {
	cases := []struct {
		name string
		text string
		want Format
	}{
		{"pdb", pdbSample, PDB},
		{"cif", cifSample, CIF},
		{"mol2", mol2Sample, MOL2},
		{"sdf", sdfSample, SDF},
		{"xyz", xyzSample, XYZ},
		{"cube", cubeSample, Cube},
		{"cube without the banner", strings.Replace(cubeSample, "CUBE FILE", "density", 1), Cube},
		{"lowercase tripos", strings.ToLower(mol2Sample), MOL2},
		{"remark only", "REMARK 1 nothing else here", PDB},
		{"garbage", "nothing to see here", PDB},
		{"empty", "", PDB},
	}
	for _, c := range cases {
		if got := Classify(Sanitize(c.text), ""); got != c.want {
			Te.Errorf("%s: Classify = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestClassifyHint(Te *testing.T) {
	if got := Classify(pdbSample, "mol2"); got != MOL2 {
		Te.Errorf("hint mol2 over PDB text gave %s", got)
	}
	if got := Classify(cifSample, "  XYZ "); got != XYZ {
		Te.Errorf("hint ' XYZ ' gave %s", got)
	}
	if got := Classify(cifSample, "pdbqt"); got != CIF {
		Te.Errorf("unsupported hint should be ignored, got %s", got)
	}
}

func TestClassifyDeterministic(Te *testing.T) {
	for _, s := range []string{pdbSample, cifSample, mol2Sample, sdfSample, xyzSample, cubeSample} {
		if Classify(s, "") != Classify(s, "") {
			Te.Errorf("Classify not deterministic for %q", s[:10])
		}
	}
}

func TestClassifyFromPath(Te *testing.T) {
	cases := map[string]Format{
		"1abc.pdb":        PDB,
		"/data/1ABC.CIF":  CIF,
		"x.mmcif":         CIF,
		"lig.mol2":        MOL2,
		"lig.sdf":         SDF,
		"lig.mol":         SDF,
		"w.xyz":           XYZ,
		"dens.cube":       Cube,
		"1abc.cif.gz":     CIF,
		"lig.sdf.zst":     SDF,
		"noext":           PDB,
		"weird.txt":       PDB,
		"https://files.rcsb.org/download/1ABC.cif?x=1": CIF,
		"https://example.org/w.xyz#frag":               XYZ,
	}
	for p, want := range cases {
		if got := ClassifyFromPath(p); got != want {
			Te.Errorf("ClassifyFromPath(%q) = %s, want %s", p, got, want)
		}
	}
}

func TestIsValid(Te *testing.T) {
	cases := []struct {
		text, hint string
		want       bool
	}{
		{pdbSample, "", true},
		{cifSample, "", true},
		{mol2Sample, "", true},
		{strings.ToLower(mol2Sample), "", true},
		{sdfSample, "", true},
		{xyzSample, "", true},
		{cubeSample, "", true},
		{"3\nwater", "", false},
		{"hello world, no structure here", "", false},
		{"short", "pdb", false},
		{"some long text that is not a structure", "xyz", true},
		{"some long text that is not a structure", "unknown", false},
	}
	for _, c := range cases {
		if got := IsValid(Sanitize(c.text), c.hint); got != c.want {
			Te.Errorf("IsValid(%.20q, %q) = %v, want %v", c.text, c.hint, got, c.want)
		}
	}
}
