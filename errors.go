/*
 * errors.go, part of gomol
 *
 * Copyright 2023 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package mol

import (
	"fmt"
	"sort"
	"strings"
)

//Error is the interface for errors that all packages in this library implement.
//The Decorate method allows to add and retrieve info from the error, without
//changing its type or wrapping it around something else. Each call adds the
//caller's name (plus, optionally, extra information) to the decoration slice
//and returns the resulting slice. If passed an empty string, it just returns
//the current value.
type Error interface {
	Error() string
	Decorate(string) []string
}

//GeometryError signals degenerate geometry: an empty or zero-volume bounding
//box, or zero-size periodic tiling dimensions. It is always fatal and is
//raised before any mutation takes place.
type GeometryError struct {
	message string
	deco    []string
}

//NewGeometryError returns a GeometryError with the given message.
func NewGeometryError(format string, args ...interface{}) *GeometryError {
	return &GeometryError{message: fmt.Sprintf(format, args...)}
}

func (err *GeometryError) Error() string {
	return err.message
}

//Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *GeometryError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//InsufficientSolvent signals that too few candidate molecules of some kind
//remain to satisfy a downstream requirement, e.g. no water left to host an
//ion. It is fatal, but carries enough diagnostics for the caller to widen
//the solvent box and retry.
type InsufficientSolvent struct {
	Kind      Kind
	Needed    int
	Available int
	deco      []string
}

func (err *InsufficientSolvent) Error() string {
	return fmt.Sprintf("Insufficient %s: %d needed, %d available", err.Kind, err.Needed, err.Available)
}

//Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *InsufficientSolvent) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//IonPlacementShortfall signals that the candidate sites were exhausted before
//every ion species reached its target. Deficits maps each unsatisfied species
//to the number of ions still unplaced. By default it is fatal; under a
//best-effort configuration the same value is recorded in the assembly report
//instead.
type IonPlacementShortfall struct {
	Deficits map[string]int
	deco     []string
}

func (err *IonPlacementShortfall) Error() string {
	species := make([]string, 0, len(err.Deficits))
	for s := range err.Deficits {
		species = append(species, s)
	}
	sort.Strings(species)
	parts := make([]string, len(species))
	for i, s := range species {
		parts[i] = fmt.Sprintf("%s: %d unplaced", s, err.Deficits[s])
	}
	return "Ion placement shortfall. " + strings.Join(parts, ", ")
}

//Decorate adds dec to the decoration slice of the error and returns the slice.
func (err *IonPlacementShortfall) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//PanicMsg is a message used for panics in fundamental functions. If something
//goes wrong in those, the program is way-most-likely wrong and should crash.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilAtom        = PanicMsg("gomol: Attempted to use a nil Atom")
	ErrNilModel       = PanicMsg("gomol: Attempted to use a nil Model")
	ErrAtomOutOfRange = PanicMsg("gomol: Requested Atom out of range")
)
