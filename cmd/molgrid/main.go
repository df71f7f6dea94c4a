/*
 * main.go, part of molgrid.
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

// Command molgrid renders the structures in a CSV or XLSX table as a grid of
// molecular views. Each cell is exported to the output directory (JSON
// scenes for the scene engine, PNG images for the snapshot engine), together
// with a grid.json manifest describing the layout.
//
// With -watch, the grid is updated every time the table or the settings file
// change.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rmera/molgrid/config"
	"github.com/rmera/molgrid/fetch"
	"github.com/rmera/molgrid/table"
	"github.com/rmera/molgrid/visual"
)

func main() {
	tablePath := flag.String("table", "", "CSV or XLSX file with the structures (required)")
	configPath := flag.String("config", "", "TOML settings file")
	outDir := flag.String("out", "molgrid-out", "Directory for the exported cells")
	watch := flag.Bool("watch", false, "Update the grid when the table or the settings change")
	cachePath := flag.String("cache", "", "sqlite file to cache remote structures (overrides the settings)")
	flag.Parse()
	if *tablePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	logger := log.New(os.Stderr, "molgrid: ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{table: *tablePath, config: *configPath, out: *outDir, cache: *cachePath, log: logger}
	if err := app.init(); err != nil {
		logger.Fatal(err)
	}
	defer app.close()
	if err := app.update(ctx); err != nil {
		logger.Print(err)
		if !*watch {
			app.close()
			os.Exit(1)
		}
	}
	if *watch {
		if err := app.watch(ctx); err != nil {
			logger.Print(err)
			app.close()
			os.Exit(1)
		}
	}
}

// app is one run of the command.
type app struct {
	table, config, out, cache string
	log                       *log.Logger
	settings                  *config.Settings
	visual                    *visual.Visual
	fcache                    *fetch.Cache
}

func (a *app) loadSettings() error {
	if a.config == "" {
		a.settings = config.DefaultSettings()
		return nil
	}
	s, err := config.Load(a.config)
	if err != nil {
		return err
	}
	a.settings = s
	return nil
}

func (a *app) init() error {
	if err := a.loadSettings(); err != nil {
		return err
	}
	fs := a.settings.Fetch
	if a.cache != "" {
		fs.Cache = a.cache
	}
	o := fetch.Options{
		Rate:    fs.Rate,
		Burst:   fs.Burst,
		Timeout: time.Duration(fs.TimeoutMS) * time.Millisecond,
		BaseDir: fs.BaseDir,
		Logger:  a.log,
	}
	if o.BaseDir == "" {
		o.BaseDir = filepath.Dir(a.table)
	}
	if fs.Cache != "" {
		c, err := fetch.OpenCache(fs.Cache, 24*time.Hour)
		if err != nil {
			return err
		}
		a.fcache = c
		o.Cache = c
	}
	a.visual = visual.New(visual.Options{Loader: fetch.New(o), Logger: a.log})
	return nil
}

func (a *app) close() {
	if a.visual != nil {
		a.visual.Close()
		a.visual = nil
	}
	if a.fcache != nil {
		a.fcache.Close()
		a.fcache = nil
	}
}

// update reads the table, updates the grid, waits for the pending loads and
// exports the cells.
func (a *app) update(ctx context.Context) error {
	roles, err := a.settings.RoleMap()
	if err != nil {
		return err
	}
	tab, err := table.Open(a.table, table.Bindings(roles))
	if err != nil {
		return err
	}
	L, err := a.visual.Update(ctx, tab, &a.settings.Format)
	if err != nil {
		return err
	}
	a.visual.Wait()
	m, err := export(a.visual, a.settings.Format.Engine(), a.out, a.log)
	if err != nil {
		return err
	}
	a.log.Printf("%d cells in a %dx%d grid written to %s", len(m.Cells), L.Rows, L.Columns, a.out)
	return nil
}

// watch runs update every time the table or the settings file change, until
// ctx is done.
func (a *app) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	files := map[string]bool{}
	for _, p := range []string{a.table, a.config} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		//editors often replace the file, so the directory is watched.
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	const debounce = 200 * time.Millisecond
	timer := time.NewTimer(debounce)
	timer.Stop()
	configChanged := false
	a.log.Printf("watching %s for changes", a.table)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[ev.Name] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if a.config != "" {
				if abs, _ := filepath.Abs(a.config); abs == ev.Name {
					configChanged = true
				}
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Printf("watch: %v", err)
		case <-timer.C:
			if configChanged {
				configChanged = false
				old := a.settings
				if err := a.loadSettings(); err != nil {
					a.log.Printf("keeping the previous settings: %v", err)
					a.settings = old
					continue
				}
			}
			if err := a.update(ctx); err != nil {
				a.log.Print(err)
			}
		}
	}
}
