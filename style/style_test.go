/*
 * style_test.go, part of molgrid.
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

package style

import (
	"testing"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/config"
	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/engine/scene"
	"github.com/rmera/molgrid/engine/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdbLine = "ATOM      1  N   MET A   1      11.104   6.134  -6.504  1.00  0.00           N"

func sceneViewer(t *testing.T) *scene.Viewer {
	v, err := scene.New("test", engine.Options{})
	require.NoError(t, err)
	return v.(*scene.Viewer)
}

func ops(v *scene.Viewer) []string {
	var ret []string
	for _, c := range v.Commands() {
		ret = append(ret, c.Op)
	}
	return ret
}

func TestApplyCartoonChain(t *testing.T) {
	v := sceneViewer(t)
	cfg := config.Default()
	require.NoError(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, cfg))
	assert.Equal(t, []string{"clear", "addModel", "setStyle", "zoomTo", "spin", "render"}, ops(v))
	st := v.Commands()[2].Style
	require.Contains(t, st, "cartoon")
	assert.Equal(t, scene.Chain, st["cartoon"].ColorScheme)
}

func TestApplyClearsPrevious(t *testing.T) {
	v := sceneViewer(t)
	cfg := config.Default()
	cfg.ShowSurface = true
	require.NoError(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, cfg))
	require.NoError(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, cfg))
	assert.Equal(t, []string{"clear", "addModel", "setStyle", "addSurface", "zoomTo", "spin", "render"}, ops(v))
}

func TestApplyChainsAndSurfaces(t *testing.T) {
	v := sceneViewer(t)
	cfg := config.Default()
	cfg.Style = config.Surface
	cfg.ColorScheme = config.SchemeSS
	cfg.UseCustomChainColors = true
	cfg.ChainBColor = "#00ff00"
	cfg.ShowSurface = true
	cfg.SurfaceOpacity = 25
	cfg.SurfaceColorScheme = config.SchemeCustom
	cfg.SurfaceColor = "#0000ff"
	cfg.Spin = true
	require.NoError(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, cfg))
	cmds := v.Commands()
	want := []string{"clear", "addModel", "setStyle"}
	for range ChainsFor(engine.Scene) {
		want = append(want, "setStyle")
	}
	want = append(want, "addSurface", "addSurface", "zoomTo", "spin", "render")
	require.Equal(t, want, ops(v))
	assert.Equal(t, scene.SSJmol, cmds[2].Style["cartoon"].ColorScheme)
	assert.Equal(t, "B", cmds[4].Sel.Chain)
	assert.Equal(t, "#00ff00", cmds[4].Style["cartoon"].Color)
	vdw, overlay := cmds[9].Surface, cmds[10].Surface
	assert.Equal(t, 1.0, vdw.Opacity)
	assert.Equal(t, scene.SSJmol, vdw.ColorScheme)
	assert.Equal(t, 0.25, overlay.Opacity)
	assert.Equal(t, "#0000ff", overlay.Color)
	assert.True(t, *cmds[12].On)
}

func TestApplyInvalidLeavesViewer(t *testing.T) {
	v := sceneViewer(t)
	cfg := config.Default()
	require.NoError(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, cfg))
	before := v.Commands()

	bad := config.Default()
	bad.UseCustomChainColors = true
	bad.ChainAColor = "nope"
	assert.Error(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, bad))
	bad = config.Default()
	bad.Style = "ribbon"
	assert.Error(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, bad))
	assert.Equal(t, before, v.Commands())

	assert.Error(t, Apply(v, Content{Text: "ATOM", Format: molgrid.PDB}, cfg))
	assert.Error(t, Apply(nil, Content{}, cfg))
}

func TestApplySnapshot(t *testing.T) {
	v, err := snapshot.New("snap", engine.Options{Width: 64, Height: 64})
	require.NoError(t, err)
	cfg := config.Default()
	cfg.ViewerEngine = string(engine.Snapshot)
	cfg.UseCustomChainColors = true
	cfg.ShowSurface = true
	cfg.SurfaceColorScheme = config.SchemeSpectrum
	require.NoError(t, Apply(v, Content{Text: pdbLine, Format: molgrid.PDB}, cfg))
	assert.NotEmpty(t, v.(*snapshot.Viewer).PNG())
}

func TestSchemeNames(t *testing.T) {
	cases := []struct {
		k      engine.Kind
		in     string
		out    string
		exists bool
	}{
		{engine.Scene, config.SchemeResidue, scene.Amino, true},
		{engine.Scene, config.SchemeDefault, scene.Default, true},
		{engine.Scene, config.SchemeCustom, "", false},
		{engine.Snapshot, config.SchemeSS, snapshot.SecondaryStructure, true},
		{engine.Snapshot, config.SchemeSpectrum, snapshot.SequenceID, true},
		{engine.Snapshot, config.SchemeDefault, snapshot.ElementSymbol, true},
		{"webgl", config.SchemeChain, "", false},
	}
	for _, c := range cases {
		out, ok := SchemeName(c.k, c.in)
		assert.Equal(t, c.exists, ok, "%s %s", c.k, c.in)
		assert.Equal(t, c.out, out, "%s %s", c.k, c.in)
	}
	assert.Len(t, ChainsFor(engine.Scene), 6)
	assert.Len(t, ChainsFor(engine.Snapshot), 4)
}
