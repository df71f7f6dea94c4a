/*
 * visual.go, part of molgrid.
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

// Package visual runs the update cycle of the molecular grid: it extracts the
// records from the host's table, reconciles the grid, and styles every cell.
//
// Records that only carry a path are loaded in the background. Each load
// captures the token of its cell, and its result is applied only if the
// token is still valid when the load finishes. Results of loads that were
// overtaken by a newer update are discarded.
package visual

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/config"
	"github.com/rmera/molgrid/engine"
	"github.com/rmera/molgrid/engine/scene"
	"github.com/rmera/molgrid/engine/snapshot"
	"github.com/rmera/molgrid/fetch"
	"github.com/rmera/molgrid/grid"
	"github.com/rmera/molgrid/style"
)

// Loader returns the sanitized content of the file at path.
// *fetch.Fetcher fulfills it.
type Loader interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Options configure a Visual. The zero value is usable.
type Options struct {
	Engines engine.Registry //nil means DefaultEngines()
	Loader  Loader          //nil means a fetch.Fetcher with default options
	Logger  *log.Logger     //nil means log.Default()
}

// Stats counts what happened to the records since the Visual was created.
type Stats struct {
	Updates   int
	Applied   int //records rendered in a cell
	Failed    int //records that could not be loaded or styled
	Discarded int //background loads that finished after their cell changed
}

// Visual is the grid component. Its methods can be called from several
// goroutines, updates are serialized.
type Visual struct {
	mu     sync.Mutex
	pool   *grid.Pool
	loader Loader
	log    *log.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	stats  Stats
	closed bool
}

// DefaultEngines returns a registry with the scene and snapshot engines.
func DefaultEngines() engine.Registry {
	return engine.Registry{
		engine.Scene:    scene.New,
		engine.Snapshot: snapshot.New,
	}
}

// New returns an empty Visual.
func New(o Options) *Visual {
	if o.Engines == nil {
		o.Engines = DefaultEngines()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Loader == nil {
		o.Loader = fetch.New(fetch.Options{Logger: o.Logger})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Visual{
		pool:   grid.NewPool(o.Engines, o.Logger),
		loader: o.Loader,
		log:    o.Logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Update renders the table t with the configuration cfg, and returns the new
// layout of the grid. A nil cfg means the default configuration.
// A missing table, or one without columns, clears the grid. That is not an
// error. An invalid configuration is, and the grid is left untouched.
// Problems with single records are logged and don't stop the update.
// Records with only a path are still loading when Update returns, see Wait.
func (V *Visual) Update(ctx context.Context, t *molgrid.Table, cfg *config.Config) (grid.Layout, error) {
	V.mu.Lock()
	defer V.mu.Unlock()
	if V.closed {
		return grid.Layout{}, fmt.Errorf("visual: update after Close")
	}
	c := config.Default()
	if cfg != nil {
		cp := *cfg
		cp.SetDefaults()
		c = &cp
	}
	if err := c.Validate(); err != nil {
		return V.pool.Layout(), fmt.Errorf("visual: invalid configuration: %w", err)
	}
	V.stats.Updates++
	records, err := molgrid.Extract(t)
	if err != nil {
		V.log.Printf("visual: %v, clearing the grid", err)
		V.pool.Clear()
		return V.pool.Layout(), nil
	}
	prev := V.pool.Kind()
	L, switched := V.pool.Reconcile(len(records), c)
	if switched {
		V.log.Printf("visual: viewer engine changed from %s to %s, all cells recreated", prev, c.Engine())
	}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return L, err
		}
		tok := V.pool.Bind(i, rec.Title, c.TitleMaxWidth)
		cell := V.pool.Valid(tok)
		if cell == nil {
			V.stats.Failed++
			V.log.Printf("visual: %s has no viewer, record skipped", tok)
			continue
		}
		if !rec.Inline() {
			V.wg.Add(1)
			go V.load(tok, rec, c)
			continue
		}
		V.apply(cell, tok, style.ContentOf(rec), c)
	}
	return L, nil
}

// apply styles one cell. It must be called with the lock held.
func (V *Visual) apply(cell *grid.Cell, tok grid.Token, content style.Content, cfg *config.Config) {
	//a bad record must not take the rest of the batch down with it.
	defer func() {
		if r := recover(); r != nil {
			V.stats.Failed++
			V.log.Printf("visual: %s: panic: %v", tok, r)
		}
	}()
	if err := style.Apply(cell.Viewer, content, cfg); err != nil {
		V.stats.Failed++
		V.log.Printf("visual: %s: %v", tok, err)
		return
	}
	V.stats.Applied++
}

// load fetches the file of a record and, if the cell is still the one
// the record was bound to, styles it.
func (V *Visual) load(tok grid.Token, rec molgrid.Record, cfg *config.Config) {
	defer V.wg.Done()
	text, err := V.loader.Fetch(V.ctx, rec.Path)
	V.mu.Lock()
	defer V.mu.Unlock()
	cell := V.pool.Valid(tok)
	if cell == nil {
		V.stats.Discarded++
		V.log.Printf("visual: %s changed while %s was loading, result discarded", tok, rec.Path)
		return
	}
	if err != nil {
		V.stats.Failed++
		V.log.Printf("visual: %s: loading %s: %v", tok, rec.Path, err)
		return
	}
	V.apply(cell, tok, style.Content{Text: text, Format: rec.Format}, cfg)
}

// Wait blocks until all the background loads have finished.
func (V *Visual) Wait() {
	V.wg.Wait()
}

// Each calls f for every cell, in order, with the updates blocked.
// f must not keep the cell or its viewer after returning.
func (V *Visual) Each(f func(c *grid.Cell)) {
	V.mu.Lock()
	defer V.mu.Unlock()
	for _, c := range V.pool.Cells() {
		f(c)
	}
}

// Layout returns the current layout of the grid.
func (V *Visual) Layout() grid.Layout {
	V.mu.Lock()
	defer V.mu.Unlock()
	return V.pool.Layout()
}

// Stats returns the counters of the Visual.
func (V *Visual) Stats() Stats {
	V.mu.Lock()
	defer V.mu.Unlock()
	return V.stats
}

// Close cancels the background loads, waits for them, and disposes all the
// cells. The Visual can't be updated afterwards.
func (V *Visual) Close() {
	V.mu.Lock()
	if V.closed {
		V.mu.Unlock()
		return
	}
	V.closed = true
	V.cancel()
	V.pool.Close()
	V.mu.Unlock()
	V.wg.Wait()
}
