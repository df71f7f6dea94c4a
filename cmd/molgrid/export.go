/*
 * export.go, part of molgrid.
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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/visual"
	"golang.org/x/sync/errgroup"
)

// Manifest describes an exported grid.
type Manifest struct {
	Engine  engine.Kind `json:"engine"`
	Columns int         `json:"columns"`
	Rows    int         `json:"rows"`
	Cells   []CellEntry `json:"cells"`
}

// CellEntry is one cell of the manifest. File is empty for cells that
// have nothing to show.
type CellEntry struct {
	Index         int    `json:"index"`
	ID            string `json:"id"`
	Row           int    `json:"row"`
	Column        int    `json:"column"`
	Title         string `json:"title,omitempty"`
	ShowTitle     bool   `json:"showTitle"`
	TitlePosition string `json:"titlePosition"`
	File          string `json:"file,omitempty"`
}

// export writes every cell of V, and the grid.json manifest, to dir.
// Previous exports in dir are overwritten, and the cell files that the
// new grid doesn't have are removed.
func export(V *visual.Visual, k engine.Kind, dir string, lg *log.Logger) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	L := V.Layout()
	m := &Manifest{Engine: k, Columns: L.Columns, Rows: L.Rows}
	files := map[string][]byte{}
	var errs []error
	V.Each(func(c *grid.Cell) {
		row, col := L.Position(c.Index)
		e := CellEntry{
			Index:         c.Index,
			ID:            c.ID.String(),
			Row:           row,
			Column:        col,
			Title:         c.Container.Title.Text,
			ShowTitle:     c.Container.Title.Visible,
			TitlePosition: c.Container.Title.Position,
		}
		if x, ok := c.Viewer.(engine.Exporter); ok {
			var buf bytes.Buffer
			if err := x.Export(&buf); err != nil {
				errs = append(errs, fmt.Errorf("cell %d: %w", c.Index, err))
			} else {
				e.File = fmt.Sprintf("cell-%03d%s", c.Index, x.Extension())
				files[e.File] = buf.Bytes()
			}
		}
		m.Cells = append(m.Cells, e)
	})
	for _, err := range errs {
		//cells that were never rendered can't be exported, that is not fatal.
		lg.Printf("export: %v", err)
	}
	stale, err := filepath.Glob(filepath.Join(dir, "cell-*"))
	if err != nil {
		return nil, err
	}
	for _, p := range stale {
		if _, ok := files[filepath.Base(p)]; ok {
			continue
		}
		if err := os.Remove(p); err != nil {
			return nil, err
		}
	}
	var g errgroup.Group
	g.SetLimit(8)
	for name, data := range files {
		name, data := name, data
		g.Go(func() error {
			return os.WriteFile(filepath.Join(dir, name), data, 0o644)
		})
	}
	g.Go(func() error {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, "grid.json"), data, 0o644)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
