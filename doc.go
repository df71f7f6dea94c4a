/*
 * doc.go, part of molgrid.
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

/*Package molgrid renders tables of molecular structures as a grid of molecular
views. The root package contains the pieces that deal with the data itself:


    Sanitize and SanitizeBytes turn mangled, text-encoded structure files
	(quoted, escaped, with CRLF line ends, BOMs or control characters) into
	the clean text the parsers expect.

    Classify tells apart PDB, PDBx/mmCIF, MOL2, SDF/MOL, XYZ and Gaussian cube
	files by their content, or trusts a declared format. ClassifyFromPath does
	the same from a file name or URL.

    Extract reads the host's table, resolves which columns hold the structure,
	title, format and path, and returns the records that can be rendered.


The subpackages parse structures (structure), drive the rendering engines
(engine, engine/scene, engine/snapshot), keep the pool of viewers in a grid
(grid), apply the user's styles (style), load files and URLs (fetch), read the
formatting options (config) and input tables (table), and tie everything in an
update cycle (visual).
*/
package molgrid
