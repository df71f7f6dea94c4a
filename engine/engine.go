/*
 * engine.go, part of molgrid.
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

// Package engine defines what molgrid expects from a rendering engine.
//
// Engines are not interchangeable: each viewer carries the Kind of the engine
// that created it, colour schemes have engine-specific names, and a viewer
// can't be moved to another engine. Code that needs engine-specific behavior
// switches on Kind, so adding an engine means adding one more case.
package engine

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/rmera/molgrid"
)

// Kind identifies a rendering engine.
type Kind string

const (
	// Scene records the drawing calls in a 3Dmol-like scene that can be
	// exported as JSON.
	Scene Kind = "scene"
	// Snapshot renders a projected still image with gonum/plot.
	Snapshot Kind = "snapshot"
)

// Kinds contains all the engines.
var Kinds = []Kind{Scene, Snapshot}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) {
			return k, true
		}
	}
	return "", false
}

// Representation is the geometry used to draw atoms.
type Representation string

const (
	Cartoon Representation = "cartoon"
	Stick   Representation = "stick"
	Line    Representation = "line"
	Cross   Representation = "cross"
	Sphere  Representation = "sphere"
)

// Selection restricts a style to part of the structure. The zero value
// selects all the atoms.
type Selection struct {
	Chain string `json:"chain,omitempty"`
}

// Matches returns true if an atom in chain is selected.
func (S Selection) Matches(chain string) bool {
	return S.Chain == "" || S.Chain == chain
}

// Style is a representation plus the way of coloring it. If Color is not nil
// it is used for all the selected atoms and Scheme is ignored. Scheme
// names are engine-specific, the empty string is the engine's default.
type Style struct {
	Rep    Representation
	Scheme string
	Color  color.Color
}

// SurfaceType is the kind of molecular surface.
type SurfaceType string

// VDW is the van der Waals surface.
const VDW SurfaceType = "VDW"

// Surface is a molecular surface drawn on top of the atoms.
type Surface struct {
	Type    SurfaceType
	Opacity float64 //0 to 1
	Scheme  string
	Color   color.Color
}

// Viewer is a live engine instance bound to one cell of the grid.
type Viewer interface {
	// Kind returns the engine that created the viewer.
	Kind() Kind
	// Clear removes all models, styles and surfaces.
	Clear()
	// Load adds a model from a sanitized structure text.
	Load(text string, f molgrid.Format) error
	SetStyle(sel Selection, st Style) error
	AddSurface(sel Selection, s Surface) error
	SetBackground(c color.Color)
	// ZoomTo fits the camera to the loaded geometry.
	ZoomTo()
	Spin(on bool)
	Render() error
	// Close releases the viewer. It can't be used afterwards.
	Close() error
}

// Exporter is implemented by viewers that can write their last render.
type Exporter interface {
	Export(w io.Writer) error
	// Extension is the file extension for the exported data, with the dot.
	Extension() string
}

// Options are given to the factories when a viewer is created.
type Options struct {
	Width, Height int //in pixels
}

// Factory creates a new viewer with the given id.
type Factory func(id string, o Options) (Viewer, error)

// Registry maps each engine to its factory.
type Registry map[Kind]Factory

// New creates a viewer of kind k.
func (R Registry) New(k Kind, id string, o Options) (Viewer, error) {
	f, ok := R[k]
	if !ok || f == nil {
		return nil, &Error{message: fmt.Sprintf("%s %q", UnknownEngine, k), kind: k, deco: []string{"Registry.New"}}
	}
	v, err := f(id, o)
	if err != nil {
		return nil, molgrid.ErrDecorate(err, "Registry.New")
	}
	return v, nil
}

// Error is the error type for the engines. It fulfills molgrid.Decorator.
type Error struct {
	message string
	kind    Kind
	deco    []string
}

// NewError returns an error for the engine k, created in the function caller.
func NewError(k Kind, message, caller string) *Error {
	return &Error{message: message, kind: k, deco: []string{caller}}
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s engine: %s", err.kind, err.message)
}

// Decorate adds information to the error trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Kind returns the engine that produced the error.
func (err *Error) Kind() Kind { return err.kind }

const (
	UnknownEngine = "unknown engine"
	Closed        = "viewer already closed"
	NoModel       = "no model loaded"
	BadScheme     = "unknown colour scheme"
	BadRep        = "unknown representation"
)
