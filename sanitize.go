/*
 * sanitize.go, part of molgrid.
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
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const (
	bom  = "\uFEFF"
	nbsp = '\u00A0'
)

// escapes replaces the literal, two-character escape sequences that show up
// when a structure file was stored escaped in a single text cell.
// \r\n must go first.
var escapes = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", `\r`, "\n")

var lineEnds = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Sanitize returns a canonical, LF-separated version of raw that structure
// parsers can read. It never fails. The same sanitized string must be used
// both to classify and to parse a structure.
//
// The transformation is applied until it reaches a fixed point, so
// Sanitize(Sanitize(x)) == Sanitize(x) for any x. Every pass that changes
// the text makes it shorter, so this always terminates.
func Sanitize(raw string) string {
	s := raw
	for {
		out := sanitizePass(s)
		if out == s {
			return out
		}
		s = out
	}
}

func sanitizePass(s string) string {
	s = stripQuotes(s)
	s = escapes.Replace(s)
	s = lineEnds.Replace(s)
	s = strings.TrimPrefix(s, bom)
	s = strings.Map(cleanRune, s)
	return strings.TrimSpace(s)
}

// stripQuotes removes one layer of matching single or double quotes,
// the usual leftover of spreadsheet exports.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// cleanRune drops control characters other than tab and newline
// and turns non-breaking spaces into plain ones.
func cleanRune(r rune) rune {
	switch {
	case r == '\t' || r == '\n':
		return r
	case r <= 0x08, r == 0x0B, r == 0x0C, r >= 0x0E && r <= 0x1F, r == 0x7F:
		return -1
	case r == nbsp:
		return ' '
	}
	return r
}

// SanitizeBytes decodes content (UTF-8, UTF-8 with BOM, or UTF-16 with a BOM)
// into a string and sanitizes it. Invalid UTF-8 sequences are dropped.
func SanitizeBytes(content []byte) string {
	var text string
	switch {
	case len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF:
		text = string(content[3:])
	case len(content) >= 2 && content[0] == 0xFF && content[1] == 0xFE:
		text = decodeUTF16(content, unicode.LittleEndian)
	case len(content) >= 2 && content[0] == 0xFE && content[1] == 0xFF:
		text = decodeUTF16(content, unicode.BigEndian)
	default:
		text = string(content)
	}
	return Sanitize(strings.ToValidUTF8(text, ""))
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
