/*
 * table.go, part of molgrid.
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

// Package table reads the host's tabular input from CSV or XLSX files.
//
// The first row holds the column names. A column gets a role from the
// bindings given by the caller, or, if it has none, when its name is the
// name of a role (proteinData, titleData, formatData or filePathData).
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmera/molgrid"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Bindings assigns roles to columns, by column name.
type Bindings map[string]molgrid.Role

func (B Bindings) column(name string) molgrid.Column {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
	c := molgrid.Column{Name: name}
	if r, ok := B[name]; ok {
		if r != molgrid.RoleNone {
			c.Roles = []molgrid.Role{r}
		}
		return c
	}
	if r, ok := molgrid.ParseRole(name); ok {
		c.Roles = []molgrid.Role{r}
	}
	return c
}

func (B Bindings) columns(names []string) []molgrid.Column {
	cols := make([]molgrid.Column, len(names))
	for i, n := range names {
		cols[i] = B.column(n)
	}
	return cols
}

// ReadCSV reads a comma-separated table. UTF-8 (with or without BOM) and
// UTF-16 with BOM are accepted. Fields can span several lines if quoted.
// An empty input gives a table with no columns.
func ReadCSV(r io.Reader, b Bindings) (*molgrid.Table, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err == io.EOF {
		return &molgrid.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("table: reading CSV header: %w", err)
	}
	t := &molgrid.Table{Columns: b.columns(header)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table: reading CSV: %w", err)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadXLSX reads the sheet with the given name from an XLSX workbook, or
// the first sheet if name is empty. Missing cells are nil.
func ReadXLSX(r io.ReaderAt, size int64, name string, b Bindings) (*molgrid.Table, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("table: reading XLSX: %w", err)
	}
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return &molgrid.Table{}, nil
	}
	sheet := sheets[0]
	if name != "" {
		found := false
		for _, s := range sheets {
			if s.Name() == name {
				sheet, found = s, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("table: no sheet %q in workbook", name)
		}
	}
	var grid [][]any
	for _, row := range sheet.Rows() {
		idx := int(row.RowNumber()) - 1
		if idx < 0 {
			continue
		}
		for len(grid) <= idx {
			grid = append(grid, nil)
		}
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			c := int(reference.ColumnToIndex(colName))
			for len(grid[idx]) <= c {
				grid[idx] = append(grid[idx], nil)
			}
			if v := cell.GetString(); v != "" {
				grid[idx][c] = v
			}
		}
	}
	if len(grid) == 0 {
		return &molgrid.Table{}, nil
	}
	header := make([]string, len(grid[0]))
	for i, v := range grid[0] {
		if s, ok := v.(string); ok {
			header[i] = s
		}
	}
	return &molgrid.Table{Columns: b.columns(header), Rows: grid[1:]}, nil
}

// Open reads the table in the file path. Files with the .xlsx extension are
// read as workbooks (first sheet), everything else as CSV.
func Open(path string, b Bindings) (*molgrid.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		st, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("table: %w", err)
		}
		return ReadXLSX(f, st.Size(), "", b)
	}
	return ReadCSV(f, b)
}
