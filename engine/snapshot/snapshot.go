/*
 * snapshot.go, part of molgrid.
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

// Package snapshot implements the "snapshot" engine: each render produces a PNG
// image with an orthographic projection of the structure, drawn with
// gonum/plot. Spinning viewers turn the molecule a fixed angle around the
// vertical axis on every render.
package snapshot

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/structure"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// SpinStep is the rotation, in degrees, between two renders of a spinning viewer.
const SpinStep = 15.0

const defaultSize = 400

// surface is a translucent layer over some atoms.
type surface struct {
	atoms  []int
	colors []color.Color
}

// Viewer is a snapshot engine instance.
type Viewer struct {
	id       string
	width    int
	height   int
	model    *structure.Structure
	bonds    []structure.Bond
	rep      []engine.Representation //per atom, "" means hidden
	colors   []color.Color           //per atom
	surfaces []surface
	bg       color.Color
	zoom     *view
	spin     bool
	angle    float64 //degrees
	png      []byte
	closed   bool
}

// view is the region of the (rotated) xy plane shown in the image.
type view struct {
	center [3]float64
	radius float64
}

// New creates a viewer. It fulfills engine.Factory.
func New(id string, o engine.Options) (engine.Viewer, error) {
	w, h := o.Width, o.Height
	if w < 0 || h < 0 {
		return nil, engine.NewError(engine.Snapshot, fmt.Sprintf("invalid size %dx%d", w, h), "snapshot.New")
	}
	if w == 0 {
		w = defaultSize
	}
	if h == 0 {
		h = defaultSize
	}
	return &Viewer{id: id, width: w, height: h, bg: color.White}, nil
}

func (V *Viewer) Kind() engine.Kind { return engine.Snapshot }

// ID returns the id the viewer was created with.
func (V *Viewer) ID() string { return V.id }

func (V *Viewer) Clear() {
	V.model = nil
	V.bonds = nil
	V.rep = nil
	V.colors = nil
	V.surfaces = nil
	V.zoom = nil
}

func (V *Viewer) Load(text string, f molgrid.Format) error {
	if V.closed {
		return engine.NewError(engine.Snapshot, engine.Closed, "Load")
	}
	S, err := structure.Parse(text, f)
	if err != nil {
		return molgrid.ErrDecorate(err, "snapshot.Load")
	}
	V.model = S
	V.bonds = structure.Bonds(S)
	V.rep = make([]engine.Representation, S.Len())
	V.colors = colorAtoms(S, allAtoms(S), Default)
	return nil
}

func allAtoms(S *structure.Structure) []int {
	return S.Select(func(*structure.Atom) bool { return true })
}

func (V *Viewer) selected(sel engine.Selection) []int {
	return V.model.Select(func(a *structure.Atom) bool { return sel.Matches(a.Chain) })
}

func (V *Viewer) SetStyle(sel engine.Selection, st engine.Style) error {
	if V.model == nil {
		return engine.NewError(engine.Snapshot, engine.NoModel, "SetStyle")
	}
	switch st.Rep {
	case engine.Cartoon, engine.Stick, engine.Line, engine.Cross, engine.Sphere:
	default:
		return engine.NewError(engine.Snapshot, fmt.Sprintf("%s %q", engine.BadRep, st.Rep), "SetStyle")
	}
	if st.Color == nil && !schemes[st.Scheme] {
		return engine.NewError(engine.Snapshot, fmt.Sprintf("%s %q", engine.BadScheme, st.Scheme), "SetStyle")
	}
	atoms := V.selected(sel)
	colors := V.colorsFor(atoms, st.Scheme, st.Color)
	for k, i := range atoms {
		V.rep[i] = st.Rep
		V.colors[i] = colors[k]
	}
	return nil
}

func (V *Viewer) colorsFor(atoms []int, scheme string, c color.Color) []color.Color {
	if c == nil {
		return colorAtoms(V.model, atoms, scheme)
	}
	ret := make([]color.Color, len(atoms))
	for k := range ret {
		ret[k] = c
	}
	return ret
}

func (V *Viewer) AddSurface(sel engine.Selection, s engine.Surface) error {
	if V.model == nil {
		return engine.NewError(engine.Snapshot, engine.NoModel, "AddSurface")
	}
	if s.Color == nil && !schemes[s.Scheme] {
		return engine.NewError(engine.Snapshot, fmt.Sprintf("%s %q", engine.BadScheme, s.Scheme), "AddSurface")
	}
	atoms := V.selected(sel)
	colors := V.colorsFor(atoms, s.Scheme, s.Color)
	for k := range colors {
		colors[k] = withAlpha(colors[k], s.Opacity)
	}
	V.surfaces = append(V.surfaces, surface{atoms: atoms, colors: colors})
	return nil
}

func (V *Viewer) SetBackground(c color.Color) { V.bg = c }

func (V *Viewer) ZoomTo() {
	if V.model == nil {
		V.zoom = nil
		return
	}
	//leave room for the spheres at the border
	V.zoom = &view{center: V.model.Centroid(), radius: V.model.Radius() + 2.5}
}

func (V *Viewer) Spin(on bool) { V.spin = on }

// Render draws the structure and keeps the PNG, that can then be
// retrieved with Export or PNG. An empty viewer renders just the background.
func (V *Viewer) Render() error {
	if V.closed {
		return engine.NewError(engine.Snapshot, engine.Closed, "Render")
	}
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = V.bg
	if V.model != nil {
		xy := project(V.model, V.angle)
		p.Add(&drawing{v: V, xy: xy})
		if V.zoom != nil {
			c := rotate(V.zoom.center, V.angle)
			aspect := float64(V.width) / float64(V.height)
			r := V.zoom.radius
			p.X.Min, p.X.Max = c[0]-r*math.Max(aspect, 1), c[0]+r*math.Max(aspect, 1)
			p.Y.Min, p.Y.Max = c[1]-r*math.Max(1/aspect, 1), c[1]+r*math.Max(1/aspect, 1)
		}
	}
	wt, err := p.WriterTo(vg.Length(V.width)*vg.Inch/96, vg.Length(V.height)*vg.Inch/96, "png")
	if err != nil {
		return engine.NewError(engine.Snapshot, err.Error(), "Render")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return engine.NewError(engine.Snapshot, err.Error(), "Render")
	}
	V.png = buf.Bytes()
	if V.spin {
		V.angle = math.Mod(V.angle+SpinStep, 360)
	}
	return nil
}

// PNG returns the image produced by the last render, or nil.
func (V *Viewer) PNG() []byte { return V.png }

// Angle returns the current rotation around the vertical axis, in degrees.
func (V *Viewer) Angle() float64 { return V.angle }

func (V *Viewer) Close() error {
	if V.closed {
		return engine.NewError(engine.Snapshot, engine.Closed, "Close")
	}
	V.Clear()
	V.png = nil
	V.closed = true
	return nil
}

// Export writes the last rendered image.
func (V *Viewer) Export(w io.Writer) error {
	if V.png == nil {
		return engine.NewError(engine.Snapshot, "nothing rendered", "Export")
	}
	_, err := w.Write(V.png)
	return err
}

// Extension returns ".png".
func (V *Viewer) Extension() string { return ".png" }

// project returns the coordinates of S rotated angle degrees around
// the y axis. Only the x and y columns are used for drawing, z is kept so atoms
// can be sorted back to front.
func project(S *structure.Structure, angle float64) *mat.Dense {
	rot := rotation(angle)
	xy := mat.NewDense(S.Len(), 3, nil)
	xy.Mul(S.Coords, rot.T())
	return xy
}

func rotation(angle float64) *mat.Dense {
	t := angle * math.Pi / 180
	s, c := math.Sin(t), math.Cos(t)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func rotate(v [3]float64, angle float64) [3]float64 {
	var out mat.VecDense
	out.MulVec(rotation(angle), mat.NewVecDense(3, v[:]))
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}
