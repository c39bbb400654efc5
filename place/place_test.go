/*
 * place_test.go, part of gomol
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

package place

import (
	"fmt"
	"math"
	"testing"

	mol "github.com/rmera/gomol"
	v3 "github.com/rmera/gomol/v3"
)

//boxModel builds a model with 8 single-atom residues of the given kind at
//the corners of the axis-aligned box [0,dx]x[0,dy]x[0,dz].
func boxModel(kind mol.Kind, chain string, dx, dy, dz float64) *mol.Model {
	atoms := make([]*mol.Atom, 0, 8)
	data := make([]float64, 0, 24)
	id := 1
	for _, x := range []float64{0, dx} {
		for _, y := range []float64{0, dy} {
			for _, z := range []float64{0, dz} {
				atoms = append(atoms, &mol.Atom{Name: "C", MolName: "BOX", MolID: id, Chain: chain, Kind: kind})
				data = append(data, x, y, z)
				id++
			}
		}
	}
	coords, _ := v3.NewMatrix(data)
	m, err := mol.NewModel(atoms, coords)
	if err != nil {
		panic(err.Error())
	}
	return m
}

//lipidPatch builds an n x n grid of single-atom "lipids" spread over a
//patch with the given periodic dimensions, centered at the origin.
func lipidPatch(n int, bx, by float64) *mol.Model {
	atoms := make([]*mol.Atom, 0, n*n)
	data := make([]float64, 0, 3*n*n)
	id := 1
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			atoms = append(atoms, &mol.Atom{Name: "P", MolName: "POPC", MolID: id, Chain: "L", Kind: mol.Lipid})
			x := (float64(i)+0.5)*bx/float64(n) - bx/2
			y := (float64(j)+0.5)*by/float64(n) - by/2
			data = append(data, x, y, 0)
			id++
		}
	}
	coords, _ := v3.NewMatrix(data)
	m, _ := mol.NewModel(atoms, coords)
	return m
}

func TestCenter(Te *testing.T) {
	m := boxModel(mol.Solute, "A", 10, 10, 20)
	shift := Center(m, mol.Z, false)
	c := m.Center()
	if math.Abs(c.At(0, 0)) > 1e-9 || math.Abs(c.At(0, 1)) > 1e-9 {
		Te.Error("Not centered in the plane", c)
	}
	//Z must be untouched
	if math.Abs(c.At(0, 2)-10) > 1e-9 {
		Te.Error("Center moved the model along the normal", c)
	}
	if shift.At(0, 2) != 0 {
		Te.Error("The reported shift has a normal component", shift)
	}
}

//TestMembraneScenario is the 40x40x60 solute / 80x80 patch / 10 A padding
//case: the grid must be at least 3x3 before cropping, and the tiled
//membrane must cover the footprint plus padding.
func TestMembraneScenario(Te *testing.T) {
	solute := boxModel(mol.Solute, "A", 40, 40, 60)
	patch := lipidPatch(8, 80, 80)
	o := DefaultOptions()
	o.Padding(10)
	mem, counts, err := Membrane(solute, patch, [3]float64{80, 80, 0}, o)
	if err != nil {
		Te.Error(err)
	}
	if counts[0] < 3 || counts[1] < 3 {
		Te.Error("Expected at least a 3x3 grid before cropping, got", counts)
	}
	if counts[2] != 1 {
		Te.Error("The normal axis must not be tiled, got", counts)
	}
	//coverage of the footprint plus padding
	mb, err := mem.BoundingBox()
	if err != nil {
		Te.Error(err)
	}
	sb, _ := solute.BoundingBox()
	//The lipid grid leaves half a spacing (5 A) to its periodic edge, so
	//coverage of the required footprint is up to that discretization.
	slack := 5.01
	for _, ax := range []mol.Axis{mol.X, mol.Y} {
		if mb.Min[ax] > sb.Min[ax]-10+slack || mb.Max[ax] < sb.Max[ax]+10-slack {
			Te.Error("Footprint not covered along axis", ax, mb.Min[ax], mb.Max[ax])
		}
	}
	//alignment along the normal: patch centered on the solute midplane
	if math.Abs(mb.Mid(mol.Z)-sb.Mid(mol.Z)) > 1e-9 {
		Te.Error("Patch not on the solute midplane", mb.Mid(mol.Z), sb.Mid(mol.Z))
	}
	fmt.Println("tiling grid:", counts, "lipids placed:", len(mem.Residues()))
}

//TestMembraneSeams checks that adjacent tiles are separated by exact
//multiples of the periodic box: the minimum distance between atoms of
//different tiles must equal the within-tile lipid spacing.
func TestMembraneSeams(Te *testing.T) {
	solute := boxModel(mol.Solute, "A", 90, 90, 30) //forces a multi-tile keep after cropping
	patch := lipidPatch(4, 40, 40)                  //lipid spacing 10 A
	o := DefaultOptions()
	o.Padding(10)
	mem, _, err := Membrane(solute, patch, [3]float64{40, 40, 0}, o)
	if err != nil {
		Te.Error(err)
	}
	min := math.Inf(1)
	for i := 0; i < mem.Len(); i++ {
		for j := i + 1; j < mem.Len(); j++ {
			t := v3.Zeros(1)
			t.Sub(mem.Coord(i), mem.Coord(j))
			d := t.Norm(2)
			if d < min {
				min = d
			}
		}
	}
	if min < 10-1e-9 {
		Te.Error("Seam overlap: two lipids closer than the lattice spacing:", min)
	}
	//unique (MolID, Chain) across tiles
	seen := make(map[int]bool)
	for _, r := range mem.Residues() {
		if seen[r.MolID] {
			Te.Error("Duplicated MolID across tiles:", r.MolID)
		}
		seen[r.MolID] = true
	}
}

func TestMembraneCropping(Te *testing.T) {
	//Small solute, big grid: the off-center tiles are all outside the
	//footprint + padding and must be dropped.
	solute := boxModel(mol.Solute, "A", 10, 10, 10)
	patch := lipidPatch(4, 80, 80)
	o := DefaultOptions()
	o.Padding(10)
	mem, counts, err := Membrane(solute, patch, [3]float64{80, 80, 0}, o)
	if err != nil {
		Te.Error(err)
	}
	if counts[0] != 3 || counts[1] != 3 {
		Te.Error("Expected a 3x3 grid before cropping, got", counts)
	}
	if len(mem.Residues()) != len(patch.Residues()) {
		Te.Errorf("Cropping should leave exactly one tile: %d lipids for %d in the patch",
			len(mem.Residues()), len(patch.Residues()))
	}
}

func TestSolventTiling(Te *testing.T) {
	solute := boxModel(mol.Solute, "A", 30, 30, 30)
	water := boxModel(mol.Water, "W", 18, 18, 18)
	o := DefaultOptions()
	o.Padding(10)
	solv, counts, err := Solvent(solute, water, [3]float64{20, 20, 20}, o)
	if err != nil {
		Te.Error(err)
	}
	fmt.Println("solvent grid:", counts, "atoms:", solv.Len())
	sb, _ := solute.BoundingBox()
	wb, err := solv.BoundingBox()
	if err != nil {
		Te.Error(err)
	}
	//The water box interior leaves 1 A to its periodic edge here.
	slack := 1.01
	for ax := mol.X; ax <= mol.Z; ax++ {
		if wb.Min[ax] > sb.Min[ax]-10+slack || wb.Max[ax] < sb.Max[ax]+10-slack {
			Te.Error("Solvent does not cover the solute plus padding along axis", ax)
		}
	}
}

func TestPlaceGeometryErrors(Te *testing.T) {
	solute := boxModel(mol.Solute, "A", 10, 10, 10)
	patch := lipidPatch(2, 20, 20)
	_, _, err := Membrane(solute, patch, [3]float64{0, 20, 0})
	if err == nil {
		Te.Error("Expected a GeometryError for a zero periodic dimension")
	}
	if _, ok := err.(*mol.GeometryError); !ok {
		Te.Error("Error has the wrong type:", err)
	}
	_, _, err = Membrane(mol.EmptyModel(), patch, [3]float64{20, 20, 0})
	if err == nil {
		Te.Error("Expected a GeometryError for an empty solute")
	}
}
