/*
 * build_test.go, part of gomol
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

package build

import (
	"fmt"
	"testing"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/ionize"
	v3 "github.com/rmera/gomol/v3"
)

//soluteBox builds an 8-atom cubic solute of the given side, with the
//given total charge spread evenly.
func soluteBox(side, charge float64) *mol.Model {
	atoms := make([]*mol.Atom, 0, 8)
	data := make([]float64, 0, 24)
	for _, x := range []float64{0, side} {
		for _, y := range []float64{0, side} {
			for _, z := range []float64{0, side} {
				atoms = append(atoms, &mol.Atom{Name: "CA", MolName: "PRT", MolID: 1,
					Chain: "A", Kind: mol.Solute, Symbol: "C", Charge: charge / 8})
				data = append(data, x, y, z)
			}
		}
	}
	coords, _ := v3.NewMatrix(data)
	m, _ := mol.NewModel(atoms, coords)
	return m
}

//lipidPatch builds an n x n grid of single-atom lipids over a bx x by
//patch centered at the origin, at z=0.
func lipidPatch(n int, bx, by float64) *mol.Model {
	atoms := make([]*mol.Atom, 0, n*n)
	data := make([]float64, 0, 3*n*n)
	id := 1
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			atoms = append(atoms, &mol.Atom{Name: "P", MolName: "POPC", MolID: id,
				Chain: "L", Kind: mol.Lipid, Symbol: "P"})
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

//waterBox builds a w x w x w grid of single-atom waters filling a cube
//of the given side, centered at the origin.
func waterBox(w int, side float64) *mol.Model {
	atoms := make([]*mol.Atom, 0, w*w*w)
	data := make([]float64, 0, 3*w*w*w)
	id := 1
	for i := 0; i < w; i++ {
		for j := 0; j < w; j++ {
			for k := 0; k < w; k++ {
				atoms = append(atoms, &mol.Atom{Name: "OH2", MolName: "TIP3", MolID: id,
					Chain: "W", Kind: mol.Water, Symbol: "O"})
				x := (float64(i)+0.5)*side/float64(w) - side/2
				y := (float64(j)+0.5)*side/float64(w) - side/2
				z := (float64(k)+0.5)*side/float64(w) - side/2
				data = append(data, x, y, z)
				id++
			}
		}
	}
	coords, _ := v3.NewMatrix(data)
	m, _ := mol.NewModel(atoms, coords)
	return m
}

func assembleOpts() *Options {
	o := DefaultOptions()
	o.Padding(10)
	o.Cutoff(1.2)
	na := ionize.NewSpec("Na")
	na.MinDistSolute(4)
	na.MinDistIons(4)
	cl := ionize.NewSpec("Cl")
	cl.MinDistSolute(4)
	cl.MinDistIons(4)
	o.IonSpecs([]*ionize.Spec{na, cl})
	return o
}

func TestAssembleMembraneSystem(Te *testing.T) {
	solute := soluteBox(20, -2)
	patch := lipidPatch(4, 40, 40)
	water := waterBox(4, 20)
	o := assembleOpts()
	final, rep, err := Assemble(solute, patch, water, [3]float64{40, 40, 0}, [3]float64{20, 20, 20}, o)
	if err != nil {
		Te.Fatal(err)
	}
	if rep.TilingGrid[0] < 3 || rep.TilingGrid[1] < 3 {
		Te.Error("Membrane grid too small:", rep.TilingGrid)
	}
	//charge: the -2 solute must have been neutralized
	q, err := final.NetCharge()
	if err != nil {
		Te.Fatal(err)
	}
	if q != 0 {
		Te.Error("Final system not neutral:", q)
	}
	//serials 1..N
	for i := 0; i < final.Len(); i++ {
		if final.Atom(i).ID != i+1 {
			Te.Fatal("Atom serials not contiguous at", i)
		}
	}
	//unique (chain, residue number)
	seen := make(map[string]bool)
	for _, r := range final.Residues() {
		key := fmt.Sprintf("%s/%d", r.Chain, r.MolID)
		if seen[key] {
			Te.Error("Duplicated residue key:", key)
		}
		seen[key] = true
	}
	//no residual clashes between different fragments
	res := final.Residues()
	t := v3.Zeros(1)
	for i, ra := range res {
		for _, rb := range res[i+1:] {
			if ra.Kind == mol.Solute && rb.Kind == mol.Solute {
				continue
			}
			for _, a := range ra.Atoms() {
				for _, b := range rb.Atoms() {
					t.Sub(final.Coord(a), final.Coord(b))
					if d := t.Norm(2); d < 1.2 {
						Te.Fatalf("Residual clash %s/%d - %s/%d at %.2f A",
							ra.MolName, ra.MolID, rb.MolName, rb.MolID, d)
					}
				}
			}
		}
	}
	//solute survived whole
	if n := final.KindCount(mol.Solute); n != 8 {
		Te.Error("Solute atoms lost:", n)
	}
	fmt.Println("removed:", rep.Removed, "ions:", rep.PlacedIons,
		"leaflets:", rep.InnerLeaflet, rep.OuterLeaflet)
}

func TestAssembleDeterminism(Te *testing.T) {
	run := func() (*mol.Model, *Report) {
		final, rep, err := Assemble(soluteBox(20, -2), lipidPatch(4, 40, 40), waterBox(4, 20),
			[3]float64{40, 40, 0}, [3]float64{20, 20, 20}, assembleOpts())
		if err != nil {
			Te.Fatal(err)
		}
		return final, rep
	}
	a, ra := run()
	b, rb := run()
	if a.Len() != b.Len() {
		Te.Fatal("Runs produced different sizes:", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		aa, ba := a.Atom(i), b.Atom(i)
		if aa.Name != ba.Name || aa.MolID != ba.MolID || aa.Chain != ba.Chain || aa.ID != ba.ID {
			Te.Fatal("Numbering differs between identical runs at atom", i)
		}
		for j := 0; j < 3; j++ {
			if a.Coord(i).At(0, j) != b.Coord(i).At(0, j) {
				Te.Fatal("Coordinates differ between identical runs")
			}
		}
	}
	for sp, n := range ra.PlacedIons {
		if rb.PlacedIons[sp] != n {
			Te.Error("Ion placement differs between runs")
		}
	}
}

func TestAssembleSolventOnly(Te *testing.T) {
	solute := soluteBox(10, 0)
	water := waterBox(4, 20)
	o := DefaultOptions()
	o.Padding(5)
	final, rep, err := Assemble(solute, nil, water, [3]float64{}, [3]float64{20, 20, 20}, o)
	if err != nil {
		Te.Fatal(err)
	}
	if rep.TilingGrid != [3]int{} {
		Te.Error("Membrane grid reported for a membrane-less run:", rep.TilingGrid)
	}
	if final.KindCount(mol.Water) == 0 {
		Te.Error("No water in a solvated system")
	}
	if len(rep.InnerLeaflet)+len(rep.OuterLeaflet) != 0 {
		Te.Error("Leaflet composition reported without lipids")
	}
}

func TestAssembleEmptySolute(Te *testing.T) {
	_, _, err := Assemble(mol.EmptyModel(), nil, waterBox(2, 10), [3]float64{}, [3]float64{10, 10, 10})
	if err == nil {
		Te.Fatal("Expected a GeometryError")
	}
	if _, ok := err.(*mol.GeometryError); !ok {
		Te.Error("Error has the wrong type:", err)
	}
}

func TestAssembleBestEffortShortfall(Te *testing.T) {
	solute := soluteBox(4, 0)
	water := waterBox(2, 12) //few waters, far-apart sites
	na := ionize.NewSpec("Na")
	na.Count(50)
	na.MinDistSolute(0)
	o := DefaultOptions()
	o.Padding(1)
	o.Neutralize(false)
	o.IonSpecs([]*ionize.Spec{na})
	//fatal by default
	_, _, err := Assemble(solute, nil, water, [3]float64{}, [3]float64{12, 12, 12}, o)
	if err == nil {
		Te.Fatal("Expected an IonPlacementShortfall")
	}
	if _, ok := err.(*mol.IonPlacementShortfall); !ok {
		Te.Fatal("Error has the wrong type:", err)
	}
	//tolerated, and reported, under best-effort
	o.BestEffort(true)
	final, rep, err := Assemble(solute, nil, water, [3]float64{}, [3]float64{12, 12, 12}, o)
	if err != nil {
		Te.Fatal(err)
	}
	if final == nil || final.KindCount(mol.Ion) == 0 {
		Te.Error("Best-effort run returned no ionized system")
	}
	if rep.IonShortfall["Na"] == 0 {
		Te.Error("Shortfall not reported:", rep.IonShortfall)
	}
	if rep.IonShortfall["Na"]+rep.PlacedIons["Na"] != 50 {
		Te.Error("Deficit and placed count do not add up to the target")
	}
}
