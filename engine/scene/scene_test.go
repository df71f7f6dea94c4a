/*
 * scene_test.go, part of molgrid.
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

package scene

import (
	"bytes"
	"encoding/json"
	"image/color"
	"testing"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdbLine = "ATOM      1  N   MET A   1      11.104   6.134  -6.504  1.00  0.00           N"

func ops(cmds []Command) []string {
	ret := make([]string, len(cmds))
	for i, c := range cmds {
		ret[i] = c.Op
	}
	return ret
}

func TestSceneRecordsCalls(t *testing.T) {
	v, err := New("cell-0", engine.Options{Width: 300, Height: 200})
	require.NoError(t, err)
	V := v.(*Viewer)
	V.Clear()
	require.NoError(t, V.Load(pdbLine, molgrid.PDB))
	require.NoError(t, V.SetStyle(engine.Selection{}, engine.Style{Rep: engine.Cartoon, Scheme: Chain}))
	require.NoError(t, V.SetStyle(engine.Selection{Chain: "A"}, engine.Style{Rep: engine.Cartoon, Color: color.RGBA{R: 255, A: 255}}))
	require.NoError(t, V.AddSurface(engine.Selection{}, engine.Surface{Type: engine.VDW, Opacity: 0.5, Scheme: Spectrum}))
	V.ZoomTo()
	V.Spin(true)
	require.NoError(t, V.Render())

	cmds := V.Commands()
	assert.Equal(t, []string{"clear", "addModel", "setStyle", "setStyle", "addSurface", "zoomTo", "spin", "render"}, ops(cmds))
	assert.Equal(t, molgrid.PDB, cmds[1].Format)
	assert.Equal(t, 1, cmds[1].Atoms)
	assert.Equal(t, Chain, cmds[2].Style["cartoon"].ColorScheme)
	assert.Equal(t, "#ff0000", cmds[3].Style["cartoon"].Color)
	assert.Equal(t, "A", cmds[3].Sel.Chain)
	assert.Equal(t, 0.5, cmds[4].Surface.Opacity)
	assert.Equal(t, 1, V.Renders())

	var buf bytes.Buffer
	require.NoError(t, V.Export(&buf))
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "cell-0", out["id"])
	assert.Equal(t, true, out["spin"])
}

func TestSceneErrors(t *testing.T) {
	v, err := New("x", engine.Options{})
	require.NoError(t, err)
	assert.Error(t, v.SetStyle(engine.Selection{}, engine.Style{Rep: engine.Stick}), "style without model")
	assert.Error(t, v.Load("ATOM garbage", molgrid.PDB))
	require.NoError(t, v.Load(pdbLine, molgrid.PDB))
	assert.Error(t, v.SetStyle(engine.Selection{}, engine.Style{Rep: "ribbon"}))
	assert.Error(t, v.SetStyle(engine.Selection{}, engine.Style{Rep: engine.Stick, Scheme: "rainbow"}))
	require.NoError(t, v.Close())
	assert.Error(t, v.Render())
	assert.Error(t, v.Close())
	_, err = New("bad", engine.Options{Width: -1})
	assert.Error(t, err)
}
