/*
 * record.go, part of molgrid.
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

package molgrid

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Role is the semantic role the host assigns to a column.
type Role int

const (
	RoleNone Role = iota
	RoleStructure
	RoleTitle
	RoleFormat
	RolePath
)

var roleNames = map[Role]string{
	RoleNone:      "",
	RoleStructure: "proteinData",
	RoleTitle:     "titleData",
	RoleFormat:    "formatData",
	RolePath:      "filePathData",
}

// String returns the host's name for the role.
func (R Role) String() string { return roleNames[R] }

// ParseRole returns the Role with the host name s (case-insensitive).
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for r, name := range roleNames {
		if r != RoleNone && strings.EqualFold(s, name) {
			return r, true
		}
	}
	return RoleNone, false
}

// Column is one column of the host table. A column can carry several roles.
type Column struct {
	Name  string
	Roles []Role
}

// Has returns true if the column is tagged with r.
func (C Column) Has(r Role) bool {
	for _, v := range C.Roles {
		if v == r {
			return true
		}
	}
	return false
}

// Table is the tabular data the host hands over on each update.
// Rows can be shorter than Columns, missing cells are absent values.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Record is one structure to be rendered.
type Record struct {
	Text   string //sanitized structure text, may be empty if Path is not.
	Title  string
	Hint   string //declared format, lower-cased. Can be anything the user typed.
	Path   string //file path or URL
	Format Format //resolved once, during extraction
}

// Inline returns true if the record carries its structure text, false if it
// has to be loaded from Path.
func (R Record) Inline() bool { return R.Text != "" }

// roleIndexes returns, for each role, the index of the first column that
// carries it, or -1.
func roleIndexes(cols []Column) map[Role]int {
	idx := map[Role]int{RoleStructure: -1, RoleTitle: -1, RoleFormat: -1, RolePath: -1}
	for i, c := range cols {
		for r := range idx {
			if idx[r] < 0 && c.Has(r) {
				idx[r] = i
			}
		}
	}
	return idx
}

// Extract turns the host's table into the ordered list of records that can be
// rendered. Rows without usable structure text or path, or whose text does not
// pass IsValid, are dropped. The order of the rows is kept.
// If no column is tagged as structure data, the first column is used. A table
// without columns returns an error matching ErrNoStructureColumn, a nil table
// one matching ErrNoTable.
func Extract(t *Table) ([]Record, error) {
	if t == nil {
		return nil, newError(NoTable, "Extract", true)
	}
	idx := roleIndexes(t.Columns)
	if idx[RoleStructure] < 0 {
		if len(t.Columns) == 0 {
			return nil, newError(NoStructureColumn, "Extract", true)
		}
		idx[RoleStructure] = 0
	}
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		text, hasText := cellString(row, idx[RoleStructure])
		path, hasPath := cellString(row, idx[RolePath])
		if !hasText && !hasPath {
			continue
		}
		title, _ := cellString(row, idx[RoleTitle])
		hint, _ := cellString(row, idx[RoleFormat])
		rec := Record{
			Title: norm.NFC.String(title),
			Hint:  strings.ToLower(hint),
			Path:  path,
		}
		if hasText {
			rec.Text = Sanitize(text)
			if !IsValid(rec.Text, rec.Hint) {
				continue
			}
			rec.Format = Classify(rec.Text, rec.Hint)
		} else {
			rec.Format = pathFormat(path, rec.Hint)
		}
		records = append(records, rec)
	}
	return records, nil
}

func pathFormat(path, hint string) Format {
	if f, ok := ParseFormat(hint); ok {
		return f
	}
	return ClassifyFromPath(path)
}

// cellString stringifies and trims the cell i of row. The second return
// value is false for missing cells, nil, empty strings and the "null" and
// "undefined" literals that some hosts use for empty cells.
func cellString(row []any, i int) (string, bool) {
	if i < 0 || i >= len(row) || row[i] == nil {
		return "", false
	}
	var s string
	switch v := row[i].(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "undefined" {
		return "", false
	}
	return s, true
}
