/*
 * engine_test.go, part of molgrid.
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

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Snapshot ")
	assert.True(t, ok)
	assert.Equal(t, Snapshot, k)
	_, ok = ParseKind("3dmol")
	assert.False(t, ok)
}

func TestSelection(t *testing.T) {
	assert.True(t, Selection{}.Matches("B"))
	assert.True(t, Selection{Chain: "B"}.Matches("B"))
	assert.False(t, Selection{Chain: "A"}.Matches("B"))
}

func TestRegistry(t *testing.T) {
	R := Registry{Scene: func(id string, o Options) (Viewer, error) {
		return nil, NewError(Scene, "no context", "factory")
	}}
	_, err := R.New(Scene, "x", Options{})
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, Scene, e.Kind())
	assert.Equal(t, []string{"factory", "Registry.New"}, e.Decorate(""))

	_, err = R.New(Snapshot, "x", Options{})
	assert.ErrorContains(t, err, UnknownEngine)
}
