/*
 * scene.go, part of molgrid.
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

// Package scene implements the "scene" engine. A viewer keeps the ordered list
// of calls made on it, with the same vocabulary 3Dmol.js uses (addModel,
// setStyle, addSurface, zoomTo, spin, render), and exports them as a JSON scene
// that a 3Dmol.js page can replay.
package scene

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/structure"
)

// Colour schemes understood by the engine. Default colours by element.
const (
	Default  = ""
	Chain    = "chain"
	Amino    = "amino"
	Spectrum = "spectrum"
	SSJmol   = "ssJmol"
)

var schemes = map[string]bool{Default: true, Chain: true, Amino: true, Spectrum: true, SSJmol: true}

var reps = map[engine.Representation]bool{
	engine.Cartoon: true,
	engine.Stick:   true,
	engine.Line:    true,
	engine.Cross:   true,
	engine.Sphere:  true,
}

// Command is one call made on the viewer.
type Command struct {
	Op      string               `json:"op"`
	Format  molgrid.Format       `json:"format,omitempty"`
	Atoms   int                  `json:"atoms,omitempty"`
	Sel     *engine.Selection    `json:"sel,omitempty"`
	Style   map[string]StyleSpec `json:"style,omitempty"`
	Surface *SurfaceSpec         `json:"surface,omitempty"`
	Color   string               `json:"color,omitempty"`
	On      *bool                `json:"on,omitempty"`
}

// StyleSpec is the per-representation part of a 3Dmol style.
type StyleSpec struct {
	ColorScheme string `json:"colorscheme,omitempty"`
	Color       string `json:"color,omitempty"`
}

// SurfaceSpec describes an addSurface call.
type SurfaceSpec struct {
	Type        engine.SurfaceType `json:"type"`
	Opacity     float64            `json:"opacity"`
	ColorScheme string             `json:"colorscheme,omitempty"`
	Color       string             `json:"color,omitempty"`
}

// Viewer is a scene engine instance.
type Viewer struct {
	id         string
	opts       engine.Options
	model      *structure.Structure
	commands   []Command
	background string
	spinning   bool
	renders    int
	closed     bool
}

// New creates a viewer. It fulfills engine.Factory.
func New(id string, o engine.Options) (engine.Viewer, error) {
	if o.Width < 0 || o.Height < 0 {
		return nil, engine.NewError(engine.Scene, fmt.Sprintf("invalid size %dx%d", o.Width, o.Height), "scene.New")
	}
	return &Viewer{id: id, opts: o, background: "#ffffff"}, nil
}

func (V *Viewer) Kind() engine.Kind { return engine.Scene }

// ID returns the id the viewer was created with.
func (V *Viewer) ID() string { return V.id }

// Commands returns a copy of the calls recorded since the last Clear.
func (V *Viewer) Commands() []Command {
	ret := make([]Command, len(V.commands))
	copy(ret, V.commands)
	return ret
}

// Renders returns how many times Render has been called.
func (V *Viewer) Renders() int { return V.renders }

func (V *Viewer) Clear() {
	V.model = nil
	V.commands = V.commands[:0]
	V.commands = append(V.commands, Command{Op: "clear"})
}

func (V *Viewer) Load(text string, f molgrid.Format) error {
	if V.closed {
		return engine.NewError(engine.Scene, engine.Closed, "Load")
	}
	S, err := structure.Parse(text, f)
	if err != nil {
		return molgrid.ErrDecorate(err, "scene.Load")
	}
	V.model = S
	V.commands = append(V.commands, Command{Op: "addModel", Format: f, Atoms: S.Len()})
	return nil
}

func (V *Viewer) SetStyle(sel engine.Selection, st engine.Style) error {
	if V.model == nil {
		return engine.NewError(engine.Scene, engine.NoModel, "SetStyle")
	}
	if !reps[st.Rep] {
		return engine.NewError(engine.Scene, fmt.Sprintf("%s %q", engine.BadRep, st.Rep), "SetStyle")
	}
	spec := StyleSpec{}
	if st.Color != nil {
		spec.Color = hex(st.Color)
	} else if schemes[st.Scheme] {
		spec.ColorScheme = st.Scheme
	} else {
		return engine.NewError(engine.Scene, fmt.Sprintf("%s %q", engine.BadScheme, st.Scheme), "SetStyle")
	}
	s := sel
	V.commands = append(V.commands, Command{Op: "setStyle", Sel: &s, Style: map[string]StyleSpec{string(st.Rep): spec}})
	return nil
}

func (V *Viewer) AddSurface(sel engine.Selection, s engine.Surface) error {
	if V.model == nil {
		return engine.NewError(engine.Scene, engine.NoModel, "AddSurface")
	}
	spec := &SurfaceSpec{Type: s.Type, Opacity: s.Opacity}
	if s.Color != nil {
		spec.Color = hex(s.Color)
	} else if schemes[s.Scheme] {
		spec.ColorScheme = s.Scheme
	} else {
		return engine.NewError(engine.Scene, fmt.Sprintf("%s %q", engine.BadScheme, s.Scheme), "AddSurface")
	}
	sl := sel
	V.commands = append(V.commands, Command{Op: "addSurface", Sel: &sl, Surface: spec})
	return nil
}

func (V *Viewer) SetBackground(c color.Color) {
	V.background = hex(c)
	V.commands = append(V.commands, Command{Op: "setBackgroundColor", Color: V.background})
}

func (V *Viewer) ZoomTo() {
	V.commands = append(V.commands, Command{Op: "zoomTo"})
}

func (V *Viewer) Spin(on bool) {
	V.spinning = on
	V.commands = append(V.commands, Command{Op: "spin", On: &on})
}

func (V *Viewer) Render() error {
	if V.closed {
		return engine.NewError(engine.Scene, engine.Closed, "Render")
	}
	V.renders++
	V.commands = append(V.commands, Command{Op: "render"})
	return nil
}

func (V *Viewer) Close() error {
	if V.closed {
		return engine.NewError(engine.Scene, engine.Closed, "Close")
	}
	V.closed = true
	V.model = nil
	V.commands = nil
	return nil
}

// Closed returns true after Close.
func (V *Viewer) Closed() bool { return V.closed }

// Export writes the scene as JSON.
func (V *Viewer) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(struct {
		ID         string    `json:"id"`
		Width      int       `json:"width"`
		Height     int       `json:"height"`
		Background string    `json:"background"`
		Spin       bool      `json:"spin"`
		Commands   []Command `json:"commands"`
	}{V.id, V.opts.Width, V.opts.Height, V.background, V.spinning, V.commands})
	if err != nil {
		return engine.NewError(engine.Scene, err.Error(), "Export")
	}
	return nil
}

// Extension returns ".json".
func (V *Viewer) Extension() string { return ".json" }

func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		//fully transparent
		return "#000000"
	}
	return cf.Hex()
}
