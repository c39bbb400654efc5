/*
 * atom.go, part of gomol
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

//Kind is the coarse category of a residue. It drives the priority
//order during clash resolution and the renumbering rules during merging.
type Kind int

const (
	Solute Kind = iota
	Lipid
	Water
	Ion
	Other
)

//String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case Solute:
		return "solute"
	case Lipid:
		return "lipid"
	case Water:
		return "water"
	case Ion:
		return "ion"
	default:
		return "other"
	}
}

//Axis identifies one of the 3 cartesian axes. It is used to select the
//membrane normal.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return "?"
}

//Atom contains the per-atom data except for the coordinates, which are
//kept in a separate matrix, as in previous libraries of this family.
//MolName, MolID, Chain and Kind describe the residue the atom belongs to.
type Atom struct {
	Name    string
	ID      int
	MolName string
	MolID   int
	Chain   string
	Kind    Kind
	Symbol  string
	Charge  float64 //partial charge, read from the input, never computed here.
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic(ErrNilAtom)
	}
	Newat := new(Atom)
	*Newat = *A
	return Newat
}

//Residue is a read-only view of one residue of a Model: the indexes of
//its atoms plus the identity they share. It is produced by Model.Residues
//and remains valid only until the model is next mutated.
type Residue struct {
	MolName string
	MolID   int
	Chain   string
	Kind    Kind
	atoms   []int
}

//Atoms returns the indexes, in the parent model, of the atoms of the residue.
func (R *Residue) Atoms() []int {
	return R.atoms
}

//Len returns the number of atoms in the residue.
func (R *Residue) Len() int {
	return len(R.atoms)
}
