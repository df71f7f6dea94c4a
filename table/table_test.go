/*
 * table_test.go, part of molgrid.
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

package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/molgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/spreadsheet"
	"golang.org/x/text/encoding/unicode"
)

const pdbLine = "ATOM      1  N   MET A   1      11.104   6.134  -6.504  1.00  0.00           N"

func TestReadCSV(t *testing.T) {
	in := "name,proteinData,kind\n" +
		"first,\"" + pdbLine + "\nEND\",pdb\n" +
		"second,undefined\n"
	tab, err := ReadCSV(strings.NewReader(in), Bindings{"name": molgrid.RoleTitle})
	require.NoError(t, err)
	require.Len(t, tab.Columns, 3)
	assert.True(t, tab.Columns[0].Has(molgrid.RoleTitle))
	assert.True(t, tab.Columns[1].Has(molgrid.RoleStructure))
	assert.Empty(t, tab.Columns[2].Roles)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, pdbLine+"\nEND", tab.Rows[0][1])

	recs, err := molgrid.Extract(tab)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "first", recs[0].Title)
	assert.Equal(t, molgrid.PDB, recs[0].Format)
}

func TestReadCSVBindingsOverride(t *testing.T) {
	in := "proteinData,path\nx,/data/1abc.cif\n"
	tab, err := ReadCSV(strings.NewReader(in), Bindings{"proteinData": molgrid.RoleNone, "path": molgrid.RolePath})
	require.NoError(t, err)
	assert.Empty(t, tab.Columns[0].Roles)
	assert.True(t, tab.Columns[1].Has(molgrid.RolePath))
	recs, err := molgrid.Extract(tab)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, molgrid.CIF, recs[0].Format)
	assert.False(t, recs[0].Inline())
}

func TestReadCSVEncodings(t *testing.T) {
	in := "\uFEFFproteinData,titleData\n\"" + pdbLine + "\",café\n"
	tab, err := ReadCSV(strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, "proteinData", tab.Columns[0].Name)
	assert.True(t, tab.Columns[0].Has(molgrid.RoleStructure))

	u16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(in)
	require.NoError(t, err)
	tab16, err := ReadCSV(strings.NewReader(u16), nil)
	require.NoError(t, err)
	assert.Equal(t, tab.Rows, tab16.Rows)

	empty, err := ReadCSV(strings.NewReader(""), nil)
	require.NoError(t, err)
	_, err = molgrid.Extract(empty)
	assert.ErrorIs(t, err, molgrid.ErrNoStructureColumn)
}

func workbook(t *testing.T) []byte {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	sheet.SetName("structures")
	head := sheet.AddRow()
	head.AddCell().SetString("titleData")
	head.AddCell().SetString("proteinData")
	head.AddCell().SetString("filePathData")
	r := sheet.AddRow()
	r.AddCell().SetString("inline")
	r.AddCell().SetString(pdbLine)
	r = sheet.AddRow()
	r.Cell("A").SetString("remote")
	r.Cell("C").SetString("https://files.rcsb.org/download/1abc.pdb.gz")
	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := workbook(t)
	tab, err := ReadXLSX(bytes.NewReader(data), int64(len(data)), "structures", nil)
	require.NoError(t, err)
	require.Len(t, tab.Columns, 3)
	require.Len(t, tab.Rows, 2)
	assert.Nil(t, tab.Rows[1][1], "missing cells are nil")

	recs, err := molgrid.Extract(tab)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Inline())
	assert.Equal(t, "remote", recs[1].Title)
	assert.Equal(t, molgrid.PDB, recs[1].Format)

	_, err = ReadXLSX(bytes.NewReader(data), int64(len(data)), "other", nil)
	assert.Error(t, err)
	_, err = ReadXLSX(bytes.NewReader([]byte("PK nope")), 7, "", nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "grid.XLSX")
	require.NoError(t, os.WriteFile(xlsx, workbook(t), 0o644))
	csvPath := filepath.Join(dir, "grid.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("proteinData\n\""+pdbLine+"\"\n"), 0o644))

	tab, err := Open(xlsx, nil)
	require.NoError(t, err)
	assert.Len(t, tab.Rows, 2)
	tab, err = Open(csvPath, nil)
	require.NoError(t, err)
	assert.Len(t, tab.Rows, 1)
	_, err = Open(filepath.Join(dir, "none.csv"), nil)
	assert.Error(t, err)
}
