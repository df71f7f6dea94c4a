/*
 * errors.go, part of molgrid.
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

import "fmt"

// Error is the error type returned by this package. It carries a trail of
// decorations (usually the names of the functions the error went through)
// that can be extended with Decorate without wrapping the error.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("molgrid: %s", err.message)
	}
	return fmt.Sprintf("molgrid: %s (%v)", err.message, err.deco)
}

// Decorate adds deco to the trail of the error and returns the trail.
// An empty string just returns the current trail.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical returns true if the whole update cycle has to be aborted.
func (err *Error) Critical() bool { return err.critical }

// Is reports whether target is an *Error with the same message, so the
// exported sentinels can be used with errors.Is.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.message == err.message
}

// Messages for the errors of this package.
const (
	NoStructureColumn = "no column can be used as structure data"
	NoTable           = "no data view given"
)

// Sentinels to compare against with errors.Is. Do not decorate them,
// the functions of this package always return fresh copies.
var (
	ErrNoStructureColumn = &Error{message: NoStructureColumn}
	ErrNoTable           = &Error{message: NoTable}
)

func newError(message, caller string, critical bool) *Error {
	return &Error{message: message, deco: []string{caller}, critical: critical}
}

// Decorator is implemented by the error types of molgrid and its subpackages.
type Decorator interface {
	error
	Decorate(string) []string
}

// ErrDecorate adds caller to the trail of err if err implements Decorator,
// and returns err. A nil err gives nil.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if d, ok := err.(Decorator); ok {
		d.Decorate(caller)
	}
	return err
}
