/*
 * style.go, part of molgrid.
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

// Package style applies the formatting configuration to a viewer.
package style

import (
	"fmt"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/config"
	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/engine/scene"
	"github.com/rmera/molgrid/engine/snapshot"
)

// Content is what gets loaded in a viewer: a sanitized structure text and its
// format.
type Content struct {
	Text   string
	Format molgrid.Format
}

// ContentOf returns the content of an inline record.
func ContentOf(r molgrid.Record) Content {
	return Content{Text: r.Text, Format: r.Format}
}

// SchemeName maps a configuration colour scheme to the name the engine k
// uses for it. The second value is false if the scheme is not known.
// "default" gives the engine's default colouring, by element for both engines.
func SchemeName(k engine.Kind, scheme string) (string, bool) {
	switch k {
	case engine.Scene:
		switch scheme {
		case config.SchemeChain:
			return scene.Chain, true
		case config.SchemeResidue:
			return scene.Amino, true
		case config.SchemeSpectrum:
			return scene.Spectrum, true
		case config.SchemeSS:
			return scene.SSJmol, true
		case config.SchemeDefault, "":
			return scene.Default, true
		}
	case engine.Snapshot:
		switch scheme {
		case config.SchemeChain:
			return snapshot.ChainID, true
		case config.SchemeResidue:
			return snapshot.ResidueName, true
		case config.SchemeSpectrum:
			return snapshot.SequenceID, true
		case config.SchemeSS:
			return snapshot.SecondaryStructure, true
		case config.SchemeDefault, "":
			return snapshot.Default, true
		}
	}
	return "", false
}

// ChainsFor returns the chains that can get a custom colour with the engine k.
func ChainsFor(k engine.Kind) []string {
	if k == engine.Snapshot {
		return []string{"A", "B", "C", "D"}
	}
	return []string{"A", "B", "C", "D", "E", "F"}
}

// plan is a configuration resolved for one engine.
type plan struct {
	primary engine.Style
	chains  []engine.Style //same order as ChainsFor
	vdw     *engine.Surface
	overlay *engine.Surface
	spin    bool
}

func representation(s string) (engine.Representation, error) {
	switch s {
	case config.Cartoon, config.Surface:
		return engine.Cartoon, nil
	case config.Stick:
		return engine.Stick, nil
	case config.Line:
		return engine.Line, nil
	case config.Cross:
		return engine.Cross, nil
	case config.Sphere:
		return engine.Sphere, nil
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// resolve turns cfg into a plan for the engine k. Nothing is applied to any
// viewer, so an error here leaves the cell as it was.
func resolve(k engine.Kind, cfg *config.Config) (*plan, error) {
	rep, err := representation(cfg.Style)
	if err != nil {
		return nil, err
	}
	scheme, ok := SchemeName(k, cfg.ColorScheme)
	if !ok {
		return nil, fmt.Errorf("colour scheme %q not available for engine %s", cfg.ColorScheme, k)
	}
	p := &plan{primary: engine.Style{Rep: rep, Scheme: scheme}, spin: cfg.Spin}
	if cfg.UseCustomChainColors {
		for _, id := range ChainsFor(k) {
			c, err := cfg.ChainColor(id)
			if err != nil {
				return nil, fmt.Errorf("chain %s: %w", id, err)
			}
			p.chains = append(p.chains, engine.Style{Rep: rep, Color: c})
		}
	}
	if cfg.Style == config.Surface {
		p.vdw = &engine.Surface{Type: engine.VDW, Opacity: 1, Scheme: scheme}
	}
	if cfg.ShowSurface {
		s := &engine.Surface{Type: engine.VDW, Opacity: cfg.Opacity()}
		if cfg.SurfaceColorScheme == config.SchemeCustom {
			if s.Color, err = cfg.Surface(); err != nil {
				return nil, err
			}
		} else if s.Scheme, ok = SchemeName(k, cfg.SurfaceColorScheme); !ok {
			return nil, fmt.Errorf("surface colour scheme %q not available for engine %s", cfg.SurfaceColorScheme, k)
		}
		p.overlay = s
	}
	return p, nil
}

// Apply clears v, loads c and applies all the styles in cfg. Custom chain
// colours are applied after the global style, so they take precedence on
// their chains. The "surface" style draws a cartoon covered by an opaque van
// der Waals surface, and the independent surface overlay goes on top of
// whatever the style was. The camera is then fitted to the model, the spin
// set and a render requested.
// If cfg can't be resolved for the engine of v, v is not touched.
func Apply(v engine.Viewer, c Content, cfg *config.Config) error {
	if v == nil {
		return fmt.Errorf("style: no viewer")
	}
	p, err := resolve(v.Kind(), cfg)
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}
	v.Clear()
	if err := v.Load(c.Text, c.Format); err != nil {
		return molgrid.ErrDecorate(err, "style.Apply")
	}
	all := engine.Selection{}
	if err := v.SetStyle(all, p.primary); err != nil {
		return molgrid.ErrDecorate(err, "style.Apply")
	}
	for i, id := range ChainsFor(v.Kind()) {
		if i >= len(p.chains) {
			break
		}
		if err := v.SetStyle(engine.Selection{Chain: id}, p.chains[i]); err != nil {
			return molgrid.ErrDecorate(err, "style.Apply")
		}
	}
	for _, s := range []*engine.Surface{p.vdw, p.overlay} {
		if s == nil {
			continue
		}
		if err := v.AddSurface(all, *s); err != nil {
			return molgrid.ErrDecorate(err, "style.Apply")
		}
	}
	v.ZoomTo()
	v.Spin(p.spin)
	if err := v.Render(); err != nil {
		return molgrid.ErrDecorate(err, "style.Apply")
	}
	return nil
}
