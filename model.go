/*
 * model.go, part of gomol
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
	"math"

	v3 "github.com/rmera/gomol/v3"
)

/**Note: several functions here panic instead of returning errors, as they are
 * "fundamental" functions: if something goes wrong in them, the program is
 * way-most-likely wrong and should crash. Panics are related to nil objects
 * and out-of-bounds access.**/

//Model is the in-memory representation of one input fragment (solute,
//membrane patch, solvent box, ion template) or of the final assembled
//system: a set of atoms plus their coordinates. The atoms carry the
//residue and chain structure (MolID, Chain), as in the flat-atom
//representation used elsewhere in this family of libraries. A Model
//owns its atoms and coordinates exclusively; no sharing across Models.
//
//Mutating operations: Translate moves the model in place. Filter and
//Copy return new, independent Models. AppendModel grows the receiver
//with copies of the argument's data.
type Model struct {
	atoms  []*Atom
	coords *v3.Matrix
}

//NewModel makes a Model from a slice of atoms and their coordinates.
//It returns an error if the atoms are nil or the lengths do not match.
//An empty atom slice gives an empty model; coords are then ignored, as
//gonum does not allow zero-row matrices.
func NewModel(atoms []*Atom, coords *v3.Matrix) (*Model, error) {
	if atoms == nil {
		return nil, NewGeometryError("NewModel: nil atom slice")
	}
	if len(atoms) == 0 {
		return EmptyModel(), nil
	}
	if coords == nil {
		return nil, NewGeometryError("NewModel: nil coordinates")
	}
	if len(atoms) != coords.NVecs() {
		return nil, NewGeometryError("NewModel: %d atoms but %d coordinates", len(atoms), coords.NVecs())
	}
	return &Model{atoms: atoms, coords: coords}, nil
}

//EmptyModel returns a model with no atoms. Its coordinate matrix is nil
//until atoms are appended.
func EmptyModel() *Model {
	return &Model{atoms: []*Atom{}}
}

//Len returns the number of atoms in the model.
func (M *Model) Len() int {
	return len(M.atoms)
}

//Atom returns the Atom corresponding to the index i. Panics if out of range.
func (M *Model) Atom(i int) *Atom {
	if i >= M.Len() {
		panic(ErrAtomOutOfRange)
	}
	return M.atoms[i]
}

//Coords returns the coordinate matrix of the model. The matrix is the
//model's own; changes to it are changes to the model.
func (M *Model) Coords() *v3.Matrix {
	return M.coords
}

//Coord returns a view of the coordinates of the atom i. Panics if out of range.
func (M *Model) Coord(i int) *v3.Matrix {
	if i >= M.Len() {
		panic(ErrAtomOutOfRange)
	}
	return M.coords.VecView(i)
}

//Copy returns a deep copy of the model.
func (M *Model) Copy() *Model {
	if M == nil {
		panic(ErrNilModel)
	}
	if M.Len() == 0 {
		return EmptyModel()
	}
	atoms := make([]*Atom, M.Len())
	for i, v := range M.atoms {
		atoms[i] = v.Copy()
	}
	coords := v3.Zeros(M.Len())
	coords.Copy(M.coords)
	return &Model{atoms: atoms, coords: coords}
}

//Translate applies the rigid offset vec (a 1x3 matrix) to every atom of
//the model, in place.
func (M *Model) Translate(vec *v3.Matrix) {
	if M.Len() == 0 {
		return
	}
	M.coords.AddVec(M.coords, vec)
}

//Residues returns the residues of the model, in atom order. Consecutive
//atoms with the same MolID and Chain belong to the same residue. The views
//are valid until the model is next mutated.
func (M *Model) Residues() []*Residue {
	ret := make([]*Residue, 0, M.Len()/3)
	var cur *Residue
	for i, at := range M.atoms {
		if cur == nil || at.MolID != cur.MolID || at.Chain != cur.Chain {
			cur = &Residue{MolName: at.MolName, MolID: at.MolID, Chain: at.Chain, Kind: at.Kind}
			ret = append(ret, cur)
		}
		cur.atoms = append(cur.atoms, i)
	}
	return ret
}

//Filter returns a new Model retaining only the residues satisfying pred.
//Residues are kept or dropped whole, so the result can not contain a
//residue with only part of its atoms.
func (M *Model) Filter(pred func(*Residue) bool) *Model {
	kept := make([]int, 0, M.Len())
	for _, res := range M.Residues() {
		if pred(res) {
			kept = append(kept, res.atoms...)
		}
	}
	if len(kept) == 0 {
		return EmptyModel()
	}
	atoms := make([]*Atom, len(kept))
	for i, v := range kept {
		atoms[i] = M.atoms[v].Copy()
	}
	coords := v3.Zeros(len(kept))
	coords.SomeVecs(M.coords, kept)
	return &Model{atoms: atoms, coords: coords}
}

//AppendModel appends copies of the atoms and coordinates of B at the end
//of the receiver. B is not modified.
func (M *Model) AppendModel(B *Model) {
	if B == nil || B.Len() == 0 {
		return
	}
	atoms := make([]*Atom, 0, M.Len()+B.Len())
	for _, v := range M.atoms {
		atoms = append(atoms, v)
	}
	for _, v := range B.atoms {
		atoms = append(atoms, v.Copy())
	}
	coords := v3.Zeros(M.Len() + B.Len())
	if M.Len() > 0 {
		coords.Stack(M.coords, B.coords)
	} else {
		coords.Copy(B.coords)
	}
	M.atoms = atoms
	M.coords = coords
}

//Chains returns the chain identifiers present in the model, in order of
//first appearance.
func (M *Model) Chains() []string {
	seen := make(map[string]bool)
	ret := make([]string, 0, 2)
	for _, at := range M.atoms {
		if !seen[at.Chain] {
			seen[at.Chain] = true
			ret = append(ret, at.Chain)
		}
	}
	return ret
}

//KindCount returns the number of residues of kind k in the model.
func (M *Model) KindCount(k Kind) int {
	n := 0
	for _, res := range M.Residues() {
		if res.Kind == k {
			n++
		}
	}
	return n
}

//Box is an axis-aligned bounding box, given by its min and max corners.
type Box struct {
	Min [3]float64
	Max [3]float64
}

//Size returns the extent of the box along the axis ax.
func (B *Box) Size(ax Axis) float64 {
	return B.Max[ax] - B.Min[ax]
}

//Mid returns the midpoint of the box along the axis ax.
func (B *Box) Mid(ax Axis) float64 {
	return (B.Max[ax] + B.Min[ax]) / 2
}

//BoundingBox recomputes the min/max corners from the atom coordinates,
//in O(atoms). It returns a GeometryError for an empty model.
func (M *Model) BoundingBox() (*Box, error) {
	if M.Len() == 0 {
		return nil, NewGeometryError("BoundingBox: empty model")
	}
	b := new(Box)
	for j := 0; j < 3; j++ {
		b.Min[j] = math.Inf(1)
		b.Max[j] = math.Inf(-1)
	}
	for i := 0; i < M.Len(); i++ {
		for j := 0; j < 3; j++ {
			v := M.coords.At(i, j)
			if v < b.Min[j] {
				b.Min[j] = v
			}
			if v > b.Max[j] {
				b.Max[j] = v
			}
		}
	}
	return b, nil
}

//Center returns the geometric center (centroid) of the model as a 1x3 matrix.
func (M *Model) Center() *v3.Matrix {
	ret := v3.Zeros(1)
	if M.Len() == 0 {
		return ret
	}
	for i := 0; i < M.Len(); i++ {
		ret.Add(ret, M.coords.VecView(i))
	}
	ret.Scale(1/float64(M.Len()), ret)
	return ret
}

//NetCharge sums the partial charges of all atoms and returns the rounded
//total. If the total is not integral within a tolerance of 0.05, an error
//is returned, as that indicates an input file without proper formal
//charges.
func (M *Model) NetCharge() (int, error) {
	total := 0.0
	for _, at := range M.atoms {
		total += at.Charge
	}
	rounded := math.Round(total)
	if math.Abs(rounded-total) > 0.05 {
		return 0, NewGeometryError("NetCharge: total charge of %f is not integral within a tolerance of 0.05. Check your input", total)
	}
	return int(rounded), nil
}

//String returns a short description of the model, for diagnostics.
func (M *Model) String() string {
	return fmt.Sprintf("Model with %d atoms in %d residues", M.Len(), len(M.Residues()))
}
