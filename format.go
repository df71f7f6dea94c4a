/*
 * format.go, part of molgrid.
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
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Format is the tag identifying which of the supported structure parsers
// should read a given text.
type Format string

const (
	PDB  Format = "pdb"
	CIF  Format = "cif"
	MOL2 Format = "mol2"
	SDF  Format = "sdf"
	XYZ  Format = "xyz"
	Cube Format = "cube"
)

// Formats contains all the supported formats.
var Formats = []Format{PDB, CIF, MOL2, SDF, XYZ, Cube}

func (F Format) String() string { return string(F) }

// ParseFormat returns the Format named by s (case-insensitive, surrounding
// spaces ignored) and true, or the empty Format and false if s names no
// supported format.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats {
		if s == string(f) {
			return f, true
		}
	}
	return "", false
}

var (
	atomCount = regexp.MustCompile(`^\d+$`)
	//natoms and origin, the third line of a Gaussian cube file.
	cubeOrigin = regexp.MustCompile(`^\s*-?\d+(\s+-?\d*\.\d+([eE][-+]?\d+)?){3}(\s|$)`)
)

// The PDB record names that identify a PDB file when found in the first
// pdbScanLines lines.
var pdbRecords = map[string]bool{
	"HEADER": true,
	"ATOM":   true,
	"HETATM": true,
	"MODEL":  true,
	"COMPND": true,
	"SOURCE": true,
	"TITLE":  true,
	"REMARK": true,
	"SEQRES": true,
	"CRYST1": true,
}

const pdbScanLines = 20

// Classify returns the format of the sanitized text. A hint naming a supported
// format is returned as is, without looking at the text. Otherwise the text is
// sniffed with a sequence of checks, the first that matches wins. PDB is
// returned if nothing matches.
func Classify(text, hint string) Format {
	if f, ok := ParseFormat(hint); ok {
		return f
	}
	if strings.Contains(text, "data_") || strings.Contains(text, "_entry.id") ||
		strings.Contains(text, "_atom_site.") || strings.Contains(text, "loop_") {
		return CIF
	}
	if strings.Contains(strings.ToUpper(text), "@<TRIPOS>") {
		return MOL2
	}
	if strings.Contains(text, "V2000") || strings.Contains(text, "V3000") || strings.Contains(text, "M  END") {
		return SDF
	}
	lines := strings.Split(text, "\n")
	if len(lines) >= 2 && atomCount.MatchString(firstNonEmpty(lines)) {
		return XYZ
	}
	if strings.Contains(text, "CUBE FILE") || (len(lines) > 6 && cubeOrigin.MatchString(lines[2])) {
		return Cube
	}
	for i, line := range lines {
		if i >= pdbScanLines {
			break
		}
		if len(line) > 6 {
			line = line[:6]
		}
		if pdbRecords[strings.ToUpper(strings.TrimSpace(line))] {
			return PDB
		}
	}
	return PDB
}

// firstNonEmpty returns the first line that is not blank, trimmed.
func firstNonEmpty(lines []string) string {
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			return t
		}
	}
	return ""
}

var extensions = map[string]Format{
	".pdb":   PDB,
	".ent":   PDB,
	".cif":   CIF,
	".mmcif": CIF,
	".mol2":  MOL2,
	".sdf":   SDF,
	".mol":   SDF,
	".xyz":   XYZ,
	".cube":  Cube,
}

// Compression suffixes that ClassifyFromPath looks through.
var compressed = []string{".gz", ".zst", ".bz2"}

// ClassifyFromPath guesses the format of the file at p (a local path or a URL)
// from its extension. Query strings, fragments and one compression suffix are
// ignored. It returns PDB for unknown extensions.
func ClassifyFromPath(p string) Format {
	p = strings.ToLower(strings.TrimSpace(p))
	if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	} else {
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
	}
	for _, c := range compressed {
		if strings.HasSuffix(p, c) {
			p = strings.TrimSuffix(p, c)
			break
		}
	}
	if f, ok := extensions[path.Ext(p)]; ok {
		return f
	}
	return PDB
}

// IsValid reports whether the sanitized text looks like a structure that can
// be rendered. A supported hint is trusted as long as the text is not
// trivially short.
func IsValid(sanitized, hint string) bool {
	if _, ok := ParseFormat(hint); ok {
		return len(sanitized) > 10
	}
	for _, marker := range []string{"ATOM", "HETATM", "_atom_site.", "V2000", "V3000"} {
		if strings.Contains(sanitized, marker) {
			return true
		}
	}
	if strings.Contains(strings.ToUpper(sanitized), "@<TRIPOS>ATOM") {
		return true
	}
	lines := strings.Split(sanitized, "\n")
	if len(lines) >= 3 && atomCount.MatchString(strings.TrimSpace(lines[0])) {
		return true
	}
	return Classify(sanitized, "") == Cube
}
