/*
 * draw.go, part of molgrid.
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
	"math"
	"sort"

	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/structure"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Line widths and glyph sizes, in Angstrom so they scale with the zoom.
const (
	stickRadius  = 0.25
	lineWidth    = 0.08
	stickWidth   = 0.3
	cartoonWidth = 0.9
	crossRadius  = 0.4
	sphereScale  = 1.0
)

// drawing is a plot.Plotter that draws a viewer's structure. It also
// fulfills plot.DataRanger, so the plot fits the molecule when the viewer
// has not been zoomed explicitly.
type drawing struct {
	v  *Viewer
	xy *mat.Dense
}

func (d *drawing) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	r, _ := d.xy.Dims()
	for i := 0; i < r; i++ {
		x, y := d.xy.At(i, 0), d.xy.At(i, 1)
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	return xmin - 2, xmax + 2, ymin - 2, ymax + 2
}

// Plot draws, from the bottom up: surfaces, bonds and traces, and atom glyphs.
func (d *drawing) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	scale := trX(1) - trX(0) //canvas length of one Angstrom
	pt := func(i int) vg.Point { return vg.Point{X: trX(d.xy.At(i, 0)), Y: trY(d.xy.At(i, 1))} }
	v := d.v
	S := v.model

	for _, s := range v.surfaces {
		for _, k := range backToFront(d.xy, s.atoms) {
			i := s.atoms[k]
			radius := vg.Length(structure.Vdwrad(S.Atoms[i].Symbol)) * scale
			c.DrawGlyph(draw.GlyphStyle{Color: s.colors[k], Radius: radius, Shape: draw.CircleGlyph{}}, pt(i))
		}
	}

	type residue struct {
		chain string
		id    int
	}
	traced := make(map[residue]bool)
	for _, idx := range structure.Trace(S) {
		for k := 1; k < len(idx); k++ {
			i, j := idx[k-1], idx[k]
			if v.rep[i] != engine.Cartoon || v.rep[j] != engine.Cartoon {
				continue
			}
			traced[residue{S.Atoms[i].Chain, S.Atoms[i].ResID}] = true
			traced[residue{S.Atoms[j].Chain, S.Atoms[j].ResID}] = true
			stroke(&c, pt(i), pt(j), v.colors[i], v.colors[j], cartoonWidth*scale)
		}
	}
	//atoms in cartoon mode that are not part of a traced residue (ligands,
	//small molecules) are drawn as sticks.
	sticks := make([]bool, S.Len())
	for i, r := range v.rep {
		a := S.Atoms[i]
		sticks[i] = r == engine.Stick || (r == engine.Cartoon && (a.Het || !traced[residue{a.Chain, a.ResID}]))
	}
	for _, b := range v.bonds {
		switch {
		case v.rep[b.I] == engine.Line && v.rep[b.J] == engine.Line:
			stroke(&c, pt(b.I), pt(b.J), v.colors[b.I], v.colors[b.J], lineWidth*scale)
		case sticks[b.I] && sticks[b.J]:
			stroke(&c, pt(b.I), pt(b.J), v.colors[b.I], v.colors[b.J], stickWidth*scale)
		}
	}

	all := allAtoms(S)
	for _, k := range backToFront(d.xy, all) {
		i := all[k]
		var g draw.GlyphStyle
		switch {
		case v.rep[i] == engine.Sphere:
			g = draw.GlyphStyle{Radius: vg.Length(sphereScale*structure.Vdwrad(S.Atoms[i].Symbol)) * scale, Shape: draw.CircleGlyph{}}
		case sticks[i]:
			g = draw.GlyphStyle{Radius: stickRadius * scale, Shape: draw.CircleGlyph{}}
		case v.rep[i] == engine.Cross:
			g = draw.GlyphStyle{Radius: crossRadius * scale, Shape: draw.CrossGlyph{}}
		default:
			continue
		}
		g.Color = v.colors[i]
		c.DrawGlyph(g, pt(i))
	}
}

// stroke draws a segment from a to b, each half with the colour of its end.
func stroke(c *draw.Canvas, a, b vg.Point, ca, cb color.Color, width vg.Length) {
	mid := vg.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	c.StrokeLine2(draw.LineStyle{Color: ca, Width: width}, a.X, a.Y, mid.X, mid.Y)
	c.StrokeLine2(draw.LineStyle{Color: cb, Width: width}, mid.X, mid.Y, b.X, b.Y)
}

// backToFront returns the positions in atoms sorted from the farthest atom
// to the closest, so closer atoms are drawn last.
func backToFront(xy *mat.Dense, atoms []int) []int {
	ret := make([]int, len(atoms))
	for k := range ret {
		ret[k] = k
	}
	sort.SliceStable(ret, func(i, j int) bool { return xy.At(atoms[ret[i]], 2) < xy.At(atoms[ret[j]], 2) })
	return ret
}
