/*
 * visual_test.go, part of molgrid.
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

package visual

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/config"
	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/engine/scene"
	"github.com/rmera/molgrid/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdbLine = "ATOM      1  N   MET A   1      11.104   6.134  -6.504  1.00  0.00           N"

// gate is a Loader that blocks until released.
type gate struct {
	release chan struct{}
	text    string
	err     error
	mu      sync.Mutex
	paths   []string
}

func newGate(text string, err error) *gate {
	return &gate{release: make(chan struct{}), text: text, err: err}
}

func (g *gate) Fetch(ctx context.Context, path string) (string, error) {
	g.mu.Lock()
	g.paths = append(g.paths, path)
	g.mu.Unlock()
	select {
	case <-g.release:
		return g.text, g.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func newVisual(t *testing.T, l Loader) (*Visual, *bytes.Buffer) {
	var logs bytes.Buffer
	V := New(Options{Loader: l, Logger: log.New(&logs, "", 0)})
	t.Cleanup(V.Close)
	return V, &logs
}

func pdbTable(rows ...[]any) *molgrid.Table {
	return &molgrid.Table{
		Columns: []molgrid.Column{
			{Name: "pdb", Roles: []molgrid.Role{molgrid.RoleStructure}},
			{Name: "name", Roles: []molgrid.Role{molgrid.RoleTitle}},
			{Name: "path", Roles: []molgrid.Role{molgrid.RolePath}},
		},
		Rows: rows,
	}
}

func sceneOps(t *testing.T, V *Visual) [][]string {
	var ret [][]string
	V.Each(func(c *grid.Cell) {
		v, ok := c.Viewer.(*scene.Viewer)
		require.True(t, ok)
		var ops []string
		for _, cmd := range v.Commands() {
			ops = append(ops, cmd.Op)
		}
		ret = append(ret, ops)
	})
	return ret
}

func TestSingleRow(t *testing.T) {
	V, logs := newVisual(t, newGate("", nil))
	cfg := config.Default()
	cfg.Style = config.Cartoon
	cfg.ColorScheme = config.SchemeChain
	cfg.Columns = 0
	L, err := V.Update(context.Background(), pdbTable([]any{pdbLine, "1abc"}), cfg)
	require.NoError(t, err)
	assert.Equal(t, grid.Layout{Columns: 1, Rows: 1}, L)
	assert.Empty(t, logs.String())
	assert.Equal(t, [][]string{{"clear", "addModel", "setStyle", "zoomTo", "spin", "render"}}, sceneOps(t, V))
	V.Each(func(c *grid.Cell) {
		cmd := c.Viewer.(*scene.Viewer).Commands()[2]
		assert.Equal(t, scene.Chain, cmd.Style["cartoon"].ColorScheme)
		assert.Equal(t, "1abc", c.Container.Title.Text)
	})
	assert.Equal(t, Stats{Updates: 1, Applied: 1}, V.Stats())
}

func TestInvalidRowsDropped(t *testing.T) {
	V, _ := newVisual(t, newGate("", nil))
	tab := pdbTable([]any{pdbLine}, []any{""}, []any{"undefined"}, []any{"null", "x", "undefined"})
	L, err := V.Update(context.Background(), tab, nil)
	require.NoError(t, err)
	assert.Equal(t, grid.Layout{Columns: 1, Rows: 1}, L)
	n := 0
	V.Each(func(*grid.Cell) { n++ })
	assert.Equal(t, 1, n)
}

func TestAbsentInputClears(t *testing.T) {
	V, logs := newVisual(t, newGate("", nil))
	_, err := V.Update(context.Background(), pdbTable([]any{pdbLine}, []any{pdbLine}), nil)
	require.NoError(t, err)
	L, err := V.Update(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, L.Rows)
	assert.Contains(t, logs.String(), molgrid.NoTable)
	L, err = V.Update(context.Background(), &molgrid.Table{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, L.Rows)
}

func TestInvalidConfigKeepsGrid(t *testing.T) {
	V, _ := newVisual(t, newGate("", nil))
	_, err := V.Update(context.Background(), pdbTable([]any{pdbLine}), nil)
	require.NoError(t, err)
	cfg := config.Default()
	cfg.SurfaceOpacity = 300
	L, err := V.Update(context.Background(), pdbTable(), cfg)
	assert.Error(t, err)
	assert.Equal(t, grid.Layout{Columns: 1, Rows: 1}, L)
	assert.Equal(t, 1, V.Stats().Updates)
}

func TestBadRecordDoesNotStopBatch(t *testing.T) {
	V, logs := newVisual(t, newGate("", nil))
	//a valid-looking PDB that no parser can read
	bad := "ATOM garbage that is long enough"
	L, err := V.Update(context.Background(), pdbTable([]any{bad}, []any{pdbLine}, []any{pdbLine}), nil)
	require.NoError(t, err)
	assert.Equal(t, grid.Layout{Columns: 2, Rows: 2}, L)
	s := V.Stats()
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.Applied)
	assert.Contains(t, logs.String(), "cell 0")
}

func TestEngineSwitch(t *testing.T) {
	V, logs := newVisual(t, newGate("", nil))
	tab := pdbTable([]any{pdbLine}, []any{pdbLine}, []any{pdbLine})
	_, err := V.Update(context.Background(), tab, nil)
	require.NoError(t, err)
	var before []*grid.Cell
	V.Each(func(c *grid.Cell) { before = append(before, c) })

	cfg := config.Default()
	cfg.ViewerEngine = string(engine.Snapshot)
	cfg.Width, cfg.Height = 64, 64
	_, err = V.Update(context.Background(), tab, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "changed from scene to snapshot")
	i := 0
	V.Each(func(c *grid.Cell) {
		assert.Equal(t, engine.Snapshot, c.Viewer.Kind())
		assert.NotEqual(t, before[i].ID, c.ID)
		assert.Nil(t, before[i].Viewer, "old cells are disposed")
		i++
	})
	assert.Equal(t, 3, i)
	assert.Equal(t, 6, V.Stats().Applied)
}

func TestPathLoad(t *testing.T) {
	g := newGate(pdbLine, nil)
	V, logs := newVisual(t, g)
	_, err := V.Update(context.Background(), pdbTable([]any{nil, "remote", "https://example.org/1abc.pdb"}), nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"setBackgroundColor"}}, sceneOps(t, V), "nothing is drawn before the load ends")
	close(g.release)
	V.Wait()
	assert.Equal(t, [][]string{{"clear", "addModel", "setStyle", "zoomTo", "spin", "render"}}, sceneOps(t, V))
	assert.Equal(t, []string{"https://example.org/1abc.pdb"}, g.paths)
	assert.Empty(t, logs.String())
}

func TestStaleLoadDiscarded(t *testing.T) {
	g := newGate(pdbLine, nil)
	V, logs := newVisual(t, g)
	ctx := context.Background()
	_, err := V.Update(ctx, pdbTable([]any{nil, "", "/data/slow.pdb"}, []any{pdbLine}), nil)
	require.NoError(t, err)
	//a newer update reuses cell 0 for inline content before the load ends
	_, err = V.Update(ctx, pdbTable([]any{pdbLine}), nil)
	require.NoError(t, err)
	close(g.release)
	V.Wait()
	s := V.Stats()
	assert.Equal(t, 1, s.Discarded)
	assert.Equal(t, 2, s.Applied)
	assert.Contains(t, logs.String(), "result discarded")
	assert.Equal(t, [][]string{{"clear", "addModel", "setStyle", "zoomTo", "spin", "render"}}, sceneOps(t, V))
}

func TestLoadFailure(t *testing.T) {
	g := newGate("", errors.New("connection refused"))
	V, logs := newVisual(t, g)
	_, err := V.Update(context.Background(), pdbTable([]any{nil, "", "https://example.org/x.cif"}), nil)
	require.NoError(t, err)
	close(g.release)
	V.Wait()
	assert.Equal(t, 1, V.Stats().Failed)
	assert.Contains(t, logs.String(), "connection refused")
}

func TestClose(t *testing.T) {
	g := newGate(pdbLine, nil)
	V, _ := newVisual(t, g)
	_, err := V.Update(context.Background(), pdbTable([]any{nil, "", "a.pdb"}), nil)
	require.NoError(t, err)
	V.Close()
	assert.Equal(t, 1, V.Stats().Discarded, "Close cancels the pending loads")
	_, err = V.Update(context.Background(), pdbTable(), nil)
	assert.Error(t, err)
	V.Close()
}

// poisonSDF declares a negative number of atoms.
const poisonSDF = "poison\n     RDKit          3D\n\n -1  0  0  0  0  0  0  0  0  0999 V2000\nM  END"

func TestMalformedCountSkipped(t *testing.T) {
	V, logs := newVisual(t, newGate("", nil))
	L, err := V.Update(context.Background(), pdbTable([]any{pdbLine}, []any{poisonSDF}), nil)
	require.NoError(t, err)
	assert.Equal(t, grid.Layout{Columns: 2, Rows: 1}, L)
	s := V.Stats()
	assert.Equal(t, 1, s.Applied)
	assert.Equal(t, 1, s.Failed)
	assert.Contains(t, logs.String(), "cell 1")
	assert.NotContains(t, logs.String(), "panic")
}

func TestMalformedCountLoaded(t *testing.T) {
	g := newGate(poisonSDF, nil)
	V, logs := newVisual(t, g)
	_, err := V.Update(context.Background(), pdbTable([]any{pdbLine}, []any{nil, "", "/data/poison.sdf"}), nil)
	require.NoError(t, err)
	close(g.release)
	V.Wait()
	s := V.Stats()
	assert.Equal(t, 1, s.Applied)
	assert.Equal(t, 1, s.Failed)
	assert.NotContains(t, logs.String(), "panic")
}

// fragile is a scene viewer that blows up when it gets a model.
type fragile struct {
	engine.Viewer
}

func (f fragile) Load(text string, fm molgrid.Format) error {
	if fm == molgrid.SDF {
		panic("corrupted model")
	}
	return f.Viewer.Load(text, fm)
}

func TestViewerPanicIsCellFailure(t *testing.T) {
	var logs bytes.Buffer
	reg := engine.Registry{
		engine.Scene: func(id string, o engine.Options) (engine.Viewer, error) {
			v, err := scene.New(id, o)
			if err != nil {
				return nil, err
			}
			return fragile{v}, nil
		},
	}
	V := New(Options{Engines: reg, Loader: newGate("", nil), Logger: log.New(&logs, "", 0)})
	t.Cleanup(V.Close)
	sdf := "water\n     RDKit          3D\n\n  1  0  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0\nM  END"
	var L grid.Layout
	var err error
	require.NotPanics(t, func() {
		L, err = V.Update(context.Background(), pdbTable([]any{pdbLine}, []any{sdf}, []any{pdbLine}), nil)
	})
	require.NoError(t, err)
	assert.Equal(t, grid.Layout{Columns: 2, Rows: 2}, L)
	s := V.Stats()
	assert.Equal(t, 2, s.Applied)
	assert.Equal(t, 1, s.Failed)
	assert.Contains(t, logs.String(), "panic: corrupted model")
}

func TestUnusedColorDoesNotBlockUpdate(t *testing.T) {
	V, logs := newVisual(t, newGate("", nil))
	cfg := config.Default()
	cfg.ChainFColor = "notacolor"
	L, err := V.Update(context.Background(), pdbTable([]any{pdbLine}, []any{pdbLine}), cfg)
	require.NoError(t, err)
	assert.Equal(t, grid.Layout{Columns: 2, Rows: 1}, L)
	assert.Equal(t, Stats{Updates: 1, Applied: 2}, V.Stats())
	assert.Empty(t, logs.String())
}
