/*
 * structure.go, part of molgrid.
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

// Package structure reads the structure formats molgrid can render into a
// minimal molecule model: a slice of atoms and a gonum matrix with their
// Cartesian coordinates, in Angstrom.
package structure

import (
	"fmt"
	"math"
	"sort"

	"github.com/rmera/molgrid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SecStruct is the secondary structure assigned to a residue.
type SecStruct byte

const (
	Coil  SecStruct = 'C'
	Helix SecStruct = 'H'
	Sheet SecStruct = 'E'
)

// Atom contains the atom's data except for the coordinates.
type Atom struct {
	Serial  int
	Name    string
	Symbol  string
	Residue string
	ResID   int
	Chain   string
	Het     bool
	SS      SecStruct
}

// Structure is a molecule read from one of the supported formats.
// Coords has one row per atom.
type Structure struct {
	Format molgrid.Format
	Atoms  []*Atom
	Coords *mat.Dense
}

// Len returns the number of atoms.
func (S *Structure) Len() int { return len(S.Atoms) }

// Coord returns the coordinates of the atom i.
func (S *Structure) Coord(i int) [3]float64 {
	return [3]float64{S.Coords.At(i, 0), S.Coords.At(i, 1), S.Coords.At(i, 2)}
}

// Chains returns the distinct chain identifiers, sorted. Atoms without chain are
// not considered.
func (S *Structure) Chains() []string {
	seen := make(map[string]bool)
	ret := make([]string, 0, 2)
	for _, a := range S.Atoms {
		if a.Chain != "" && !seen[a.Chain] {
			seen[a.Chain] = true
			ret = append(ret, a.Chain)
		}
	}
	sort.Strings(ret)
	return ret
}

// Select returns the indexes of the atoms for which f returns true.
func (S *Structure) Select(f func(*Atom) bool) []int {
	ret := make([]int, 0, len(S.Atoms))
	for i, a := range S.Atoms {
		if f(a) {
			ret = append(ret, i)
		}
	}
	return ret
}

// Centroid returns the geometric center of the structure.
func (S *Structure) Centroid() [3]float64 {
	var c [3]float64
	n := float64(S.Len())
	for j := 0; j < 3; j++ {
		c[j] = floats.Sum(mat.Col(nil, j, S.Coords)) / n
	}
	return c
}

// Radius returns the largest distance between the centroid and an atom.
func (S *Structure) Radius() float64 {
	c := S.Centroid()
	var r float64
	for i := range S.Atoms {
		x := S.Coord(i)
		d := math.Sqrt((x[0]-c[0])*(x[0]-c[0]) + (x[1]-c[1])*(x[1]-c[1]) + (x[2]-c[2])*(x[2]-c[2]))
		r = math.Max(r, d)
	}
	return r
}

// Parse reads the sanitized text in format f.
func Parse(text string, f molgrid.Format) (*Structure, error) {
	var S *Structure
	var err error
	switch f {
	case molgrid.PDB:
		S, err = readPDB(text)
	case molgrid.CIF:
		S, err = readCIF(text)
	case molgrid.MOL2:
		S, err = readMOL2(text)
	case molgrid.SDF:
		S, err = readSDF(text)
	case molgrid.XYZ:
		S, err = readXYZ(text)
	case molgrid.Cube:
		S, err = readCube(text)
	default:
		return nil, newError(fmt.Sprintf("%s %q", UnknownFormat, f), f, 0, "Parse")
	}
	if err != nil {
		return nil, molgrid.ErrDecorate(err, "Parse")
	}
	S.Format = f
	return S, nil
}

// build puts together a Structure from atoms and a flat coordinate slice.
func build(f molgrid.Format, atoms []*Atom, coords []float64) (*Structure, error) {
	if len(atoms) == 0 {
		return nil, newError(NoAtoms, f, 0, "build")
	}
	return &Structure{Format: f, Atoms: atoms, Coords: mat.NewDense(len(atoms), 3, coords)}, nil
}

// Error is the error returned by the parsers. It fulfills molgrid.Decorator.
type Error struct {
	message string
	format  molgrid.Format
	line    int //1-based, 0 if not related to a line.
	deco    []string
}

func (err *Error) Error() string {
	if err.line > 0 {
		return fmt.Sprintf("%s structure, line %d: %s", err.format, err.line, err.message)
	}
	return fmt.Sprintf("%s structure: %s", err.format, err.message)
}

// Decorate adds information to the error trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Format returns the format that was being read.
func (err *Error) Format() molgrid.Format { return err.format }

// Line returns the line where the problem was found, or 0.
func (err *Error) Line() int { return err.line }

const (
	NoAtoms       = "no atoms found"
	UnknownFormat = "unknown format"
	BadNumber     = "can't read number"
	ShortLine     = "line too short"
	Truncated     = "fewer atoms than declared"
)

func newError(message string, f molgrid.Format, line int, caller string) *Error {
	return &Error{message: message, format: f, line: line, deco: []string{caller}}
}
