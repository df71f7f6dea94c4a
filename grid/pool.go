/*
 * pool.go, part of molgrid.
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

// Package grid manages the cells of the molecular grid. The Pool owns every
// cell and every viewer. Cells are identified only by their index, and
// Reconcile grows or shrinks the pool from the tail so the remaining cells
// keep their viewers.
package grid

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/rmera/molgrid/config"
	"github.com/rmera/molgrid/engine"
)

// Title is the title element of a cell.
type Title struct {
	Text     string
	Visible  bool
	Position string
}

// Container is the element that holds a viewer and its title.
type Container struct {
	ID       string
	Title    Title
	Attached bool
}

// Cell is one slot of the grid.
type Cell struct {
	Index     int
	ID        uuid.UUID
	Kind      engine.Kind
	Viewer    engine.Viewer //nil if the engine failed to start.
	Container *Container
	epoch     uint64
}

// Token identifies a cell as it was at one update. Asynchronous work
// captures a token and checks it with Pool.Valid before touching the cell.
type Token struct {
	ID    uuid.UUID
	Epoch uint64
	Index int
}

func (T Token) String() string {
	return fmt.Sprintf("cell %d (%s) epoch %d", T.Index, T.ID, T.Epoch)
}

// Pool is the set of cells. It is not safe for concurrent use.
type Pool struct {
	registry engine.Registry
	log      *log.Logger
	kind     engine.Kind
	cells    []*Cell
	epoch    uint64
	layout   Layout
}

// NewPool returns an empty pool that creates viewers with the engines in reg.
// A nil logger means log.Default().
func NewPool(reg engine.Registry, logger *log.Logger) *Pool {
	if logger == nil {
		logger = log.Default()
	}
	return &Pool{registry: reg, log: logger}
}

// Len returns the number of cells.
func (P *Pool) Len() int { return len(P.cells) }

// Kind returns the engine of the pool, empty before the first Reconcile.
func (P *Pool) Kind() engine.Kind { return P.kind }

// Epoch returns the current update epoch. Every Reconcile and Clear starts a
// new one.
func (P *Pool) Epoch() uint64 { return P.epoch }

// Layout returns the layout computed by the last Reconcile.
func (P *Pool) Layout() Layout { return P.layout }

// Cell returns the cell with index i, or nil.
func (P *Pool) Cell(i int) *Cell {
	if i < 0 || i >= len(P.cells) {
		return nil
	}
	return P.cells[i]
}

// Cells returns a copy of the slice of cells.
func (P *Pool) Cells() []*Cell {
	ret := make([]*Cell, len(P.cells))
	copy(ret, P.cells)
	return ret
}

// Reconcile makes the pool have n cells, configured according to cfg, and
// returns the layout of the grid. If the engine selected in cfg is not the
// one of the pool, all the cells are disposed first, and switched is true.
// The background and the title settings are applied to every cell, even if
// nothing else changed.
func (P *Pool) Reconcile(n int, cfg *config.Config) (L Layout, switched bool) {
	if n < 0 {
		n = 0
	}
	P.epoch++
	kind := cfg.Engine()
	if P.kind != "" && P.kind != kind {
		P.disposeFrom(0)
		switched = true
	}
	P.kind = kind
	if len(P.cells) > n {
		P.disposeFrom(n)
	}
	for len(P.cells) < n {
		P.cells = append(P.cells, P.newCell(len(P.cells), cfg))
	}
	bg := cfg.Background()
	for _, c := range P.cells {
		c.epoch = P.epoch
		c.Container.Title.Visible = cfg.ShowTitles
		c.Container.Title.Position = cfg.TitlePosition
		if c.Viewer != nil {
			c.Viewer.SetBackground(bg)
		}
	}
	P.layout = ComputeLayout(n, cfg.Columns)
	return P.layout, switched
}

func (P *Pool) newCell(i int, cfg *config.Config) *Cell {
	id := uuid.New()
	c := &Cell{
		Index:     i,
		ID:        id,
		Kind:      P.kind,
		Container: &Container{ID: "cell-" + id.String(), Attached: true},
	}
	v, err := P.registry.New(P.kind, id.String(), engine.Options{Width: cfg.Width, Height: cfg.Height})
	if err != nil {
		P.log.Printf("grid: cell %d: engine %s failed to start: %v", i, P.kind, err)
		return c
	}
	c.Viewer = v
	return c
}

// disposeFrom removes the cells with index >= from, last first.
func (P *Pool) disposeFrom(from int) {
	for i := len(P.cells) - 1; i >= from; i-- {
		P.dispose(P.cells[i])
		P.cells[i] = nil
	}
	P.cells = P.cells[:from]
}

func (P *Pool) dispose(c *Cell) {
	if c.Viewer != nil {
		if err := c.Viewer.Close(); err != nil {
			P.log.Printf("grid: cell %d: closing viewer: %v", c.Index, err)
		}
		c.Viewer = nil
	}
	c.Container.Attached = false
}

// Bind sets the title of cell i for the current update, truncated to
// maxWidth display columns, and returns a token for the cell.
// It panics if i is out of range.
func (P *Pool) Bind(i int, title string, maxWidth int) Token {
	c := P.cells[i]
	c.Container.Title.Text = truncate(title, maxWidth)
	return Token{ID: c.ID, Epoch: c.epoch, Index: i}
}

// Valid returns the cell identified by t, if it still exists, has a viewer and
// no update happened since t was issued. Otherwise it returns nil.
func (P *Pool) Valid(t Token) *Cell {
	c := P.Cell(t.Index)
	if c == nil || c.ID != t.ID || t.Epoch != P.epoch || c.epoch != t.Epoch || c.Viewer == nil {
		return nil
	}
	return c
}

// Clear disposes all the cells and starts a new epoch, so pending work is
// discarded. The engine of the pool is kept.
func (P *Pool) Clear() {
	P.epoch++
	P.disposeFrom(0)
	P.layout = ComputeLayout(0, 0)
}

// Close disposes all the cells and forgets the engine.
func (P *Pool) Close() {
	P.Clear()
	P.kind = ""
}

func truncate(s string, max int) string {
	if max <= 0 || runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
