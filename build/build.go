/*
 * build.go, part of gomol
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

//Package build runs the whole assembly: membrane and solvent placement
//around the solute, clash resolution, ion placement and the final merge
//into one renumbered model. The order is fixed; every stage either
//succeeds or aborts the run with a typed error before anything merged is
//produced. Recoverable findings (numbering overrides, best-effort ion
//deficits, removal counts) are accumulated in a Report returned with the
//final model.
package build

import (
	"log"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/clash"
	"github.com/rmera/gomol/ionize"
	"github.com/rmera/gomol/merge"
	"github.com/rmera/gomol/place"
)

//Options contains the options for a whole assembly run.
type Options struct {
	normal     mol.Axis
	padding    float64
	offset     float64
	cutoff     float64
	pairs      map[[2]mol.Kind]float64
	minWaters  int
	specs      []*ionize.Spec
	neutralize bool
	charge     int
	base       int
	preserve   map[mol.Kind]bool
	bestEffort bool
	seed       int64
	verbose    bool
}

//DefaultOptions returns an Options with the default values: membrane
//normal along Z, 17.5 A padding, a 1.0 A clash cutoff, no ions,
//neutralization on, renumbering every chain from 1 and treating any ion
//shortfall as fatal.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.normal = mol.Z
	ret.padding = 17.5
	ret.offset = 0
	ret.cutoff = 1.0
	ret.pairs = make(map[[2]mol.Kind]float64)
	ret.minWaters = 0
	ret.specs = nil
	ret.neutralize = true
	ret.charge = 0
	ret.base = 1
	ret.preserve = make(map[mol.Kind]bool)
	ret.bestEffort = false
	ret.seed = 0
	ret.verbose = false
	return ret
}

//Normal returns the membrane normal axis and sets it, if a value is
//given.
func (r *Options) Normal(ax ...mol.Axis) mol.Axis {
	ret := r.normal
	if len(ax) > 0 && ax[0] >= mol.X && ax[0] <= mol.Z {
		r.normal = ax[0]
	}
	return ret
}

//Padding returns the padding margin, in A, around the solute, and sets
//it, if a non-negative value is given.
func (r *Options) Padding(p ...float64) float64 {
	ret := r.padding
	if len(p) > 0 && p[0] >= 0 {
		r.padding = p[0]
	}
	return ret
}

//Offset returns the membrane displacement along the normal, relative to
//the solute midplane, and sets it, if a value is given.
func (r *Options) Offset(o ...float64) float64 {
	ret := r.offset
	if len(o) > 0 {
		r.offset = o[0]
	}
	return ret
}

//Cutoff returns the global minimum allowed distance, in A, between atoms
//of different fragments, and sets it, if a positive value is given.
func (r *Options) Cutoff(c ...float64) float64 {
	ret := r.cutoff
	if len(c) > 0 && c[0] > 0 {
		r.cutoff = c[0]
	}
	return ret
}

//PairCutoff returns the clash cutoff for a given pair of molecule kinds
//and sets it, if a positive value is given. The pair is unordered.
func (r *Options) PairCutoff(a, b mol.Kind, c ...float64) float64 {
	if b < a {
		a, b = b, a
	}
	ret, ok := r.pairs[[2]mol.Kind{a, b}]
	if !ok {
		ret = r.cutoff
	}
	if len(c) > 0 && c[0] > 0 {
		r.pairs[[2]mol.Kind{a, b}] = c[0]
	}
	return ret
}

//MinWaters returns the minimum number of water residues that must
//survive clash resolution, and sets it, if a non-negative value is
//given.
func (r *Options) MinWaters(n ...int) int {
	ret := r.minWaters
	if len(n) > 0 && n[0] >= 0 {
		r.minWaters = n[0]
	}
	return ret
}

//IonSpecs returns the ion species to place and sets them, if given.
func (r *Options) IonSpecs(specs ...[]*ionize.Spec) []*ionize.Spec {
	ret := r.specs
	if len(specs) > 0 {
		r.specs = specs[0]
	}
	return ret
}

//Neutralize returns whether ion counts are adjusted to reach the target
//net charge, and sets it, if a value is given.
func (r *Options) Neutralize(n ...bool) bool {
	ret := r.neutralize
	if len(n) > 0 {
		r.neutralize = n[0]
	}
	return ret
}

//TargetCharge returns the wanted net charge after ion placement, in
//elementary charges, and sets it, if a value is given.
func (r *Options) TargetCharge(c ...int) int {
	ret := r.charge
	if len(c) > 0 {
		r.charge = c[0]
	}
	return ret
}

//NumberingBase returns the first residue number used when renumbering
//each chain, and sets it, if a value is given.
func (r *Options) NumberingBase(b ...int) int {
	ret := r.base
	if len(b) > 0 {
		r.base = b[0]
	}
	return ret
}

//Preserve returns whether residues of kind k keep their input numbering
//when collision-free, and sets it, if a value is given.
func (r *Options) Preserve(k mol.Kind, p ...bool) bool {
	ret := r.preserve[k]
	if len(p) > 0 {
		r.preserve[k] = p[0]
	}
	return ret
}

//BestEffort returns whether an ion placement shortfall is downgraded
//from fatal to a Report entry, and sets it, if a value is given.
func (r *Options) BestEffort(b ...bool) bool {
	ret := r.bestEffort
	if len(b) > 0 {
		r.bestEffort = b[0]
	}
	return ret
}

//Seed returns the random seed and sets it, if a value is given. The
//assembly itself is deterministic, so the seed only matters to callers
//that add their own randomized pre-processing; it is carried in the
//Report for provenance.
func (r *Options) Seed(s ...int64) int64 {
	ret := r.seed
	if len(s) > 0 {
		r.seed = s[0]
	}
	return ret
}

//Verbose returns whether progress is logged, and sets it, if a value is
//given.
func (r *Options) Verbose(v ...bool) bool {
	ret := r.verbose
	if len(v) > 0 {
		r.verbose = v[0]
	}
	return ret
}

//Report collects the recoverable findings of an assembly run.
type Report struct {
	TilingGrid   [3]int             //membrane tiling before cropping
	SolventGrid  [3]int             //solvent tiling before cropping
	Removed      map[mol.Kind]int   //residues culled per kind by clash resolution
	PlacedIons   map[string]int     //ions placed per species
	IonShortfall map[string]int     //best-effort deficits per species
	Collisions   []merge.Collision  //numbering overrides
	InnerLeaflet map[string]int     //lipid residues below the membrane midplane, per resname
	OuterLeaflet map[string]int     //and above it
	Seed         int64
}

//Assemble builds a complete system around solute: the membrane patch is
//tiled in the plane orthogonal to the normal, the solvent box is tiled
//around everything, clashing residues are culled (the solute always
//wins), ions are placed, and the survivors are merged into one model
//with collision-free numbering. patch and water may be nil or empty to
//skip membrane or solvation. The solute is centered in-plane first; all
//output coordinates are solute-centered. A non-nil error means no model
//is returned and nothing was merged; the Report is still returned when
//it holds diagnostics worth keeping (it is nil only on early geometry
//failures).
func Assemble(solute, patch, water *mol.Model, patchBox, waterBox [3]float64, options ...*Options) (*mol.Model, *Report, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if solute == nil || solute.Len() == 0 {
		return nil, nil, mol.NewGeometryError("Assemble: empty solute")
	}
	rep := &Report{
		Removed:      make(map[mol.Kind]int),
		PlacedIons:   make(map[string]int),
		IonShortfall: make(map[string]int),
		Seed:         o.seed,
	}
	sol := solute.Copy()
	place.Center(sol, o.normal, false)
	po := place.DefaultOptions()
	po.Normal(o.normal)
	po.Padding(o.padding)
	po.Offset(o.offset)
	models := []*mol.Model{sol}
	if patch != nil && patch.Len() > 0 {
		mem, grid, err := place.Membrane(sol, patch, patchBox, po)
		if err != nil {
			return nil, nil, err
		}
		rep.TilingGrid = grid
		models = append(models, mem)
		if o.verbose {
			log.Printf("membrane: %dx%d tiles, %d lipid residues", grid[0], grid[1], len(mem.Residues()))
		}
	}
	if water != nil && water.Len() > 0 {
		solv, grid, err := place.Solvent(sol, water, waterBox, po)
		if err != nil {
			return nil, nil, err
		}
		rep.SolventGrid = grid
		models = append(models, solv)
		if o.verbose {
			log.Printf("solvent: %dx%dx%d tiles, %d atoms", grid[0], grid[1], grid[2], solv.Len())
		}
	}
	co := clash.DefaultOptions()
	co.Cutoff(o.cutoff)
	for pair, d := range o.pairs {
		co.PairCutoff(pair[0], pair[1], d)
	}
	co.MinWaters(o.minWaters)
	kept, records, err := clash.Resolve(models, co)
	if err != nil {
		return nil, rep, err
	}
	for _, rec := range records {
		rep.Removed[rec.Kind]++
	}
	if o.verbose && len(records) > 0 {
		log.Printf("clash resolution removed %d residues", len(records))
	}
	io := ionize.DefaultOptions()
	io.Neutralize(o.neutralize)
	io.TargetCharge(o.charge)
	io.BestEffort(o.bestEffort)
	ionized, placed, err := ionize.Place(kept, o.specs, io)
	rep.PlacedIons = placed
	if err != nil {
		short, ok := err.(*mol.IonPlacementShortfall)
		if !ok || !o.bestEffort {
			return nil, rep, err
		}
		rep.IonShortfall = short.Deficits
	}
	mo := merge.DefaultOptions()
	mo.Base(o.base)
	for k, p := range o.preserve {
		mo.Preserve(k, p)
	}
	final, collisions, err := merge.Merge(ionized, mo)
	if err != nil {
		return nil, rep, err
	}
	rep.Collisions = collisions
	rep.InnerLeaflet, rep.OuterLeaflet = leafletComposition(final, o.normal)
	if o.verbose {
		log.Printf("assembled %d atoms in %d chains", final.Len(), len(final.Chains()))
	}
	return final, rep, nil
}

//leafletComposition counts lipid residues per residue name on each side
//of the membrane midplane along the normal axis.
func leafletComposition(m *mol.Model, normal mol.Axis) (map[string]int, map[string]int) {
	inner := make(map[string]int)
	outer := make(map[string]int)
	var lo, hi float64
	first := true
	for i := 0; i < m.Len(); i++ {
		if m.Atom(i).Kind != mol.Lipid {
			continue
		}
		z := m.Coord(i).At(0, int(normal))
		if first {
			lo, hi = z, z
			first = false
		}
		if z < lo {
			lo = z
		}
		if z > hi {
			hi = z
		}
	}
	if first {
		return inner, outer
	}
	mid := (lo + hi) / 2
	for _, r := range m.Residues() {
		if r.Kind != mol.Lipid {
			continue
		}
		z := m.Coord(r.Atoms()[0]).At(0, int(normal))
		if z < mid {
			inner[r.MolName]++
		} else {
			outer[r.MolName]++
		}
	}
	return inner, outer
}
