/*
 * clash.go, part of gomol
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

//Package clash decides which residues must be removed from a set of
//overlaid structures so that no two atoms from different structures lie
//closer than a minimum distance. Removal is always by whole residues:
//removing part of a lipid or water would leave an invalid molecule.
//Models are processed strictly in priority order, the solute first, so
//solvent and lipids are deleted in favor of the solute, never the
//other way around.
package clash

import (
	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/index"
)

//Options contains the options for clash resolution.
type Options struct {
	cutoff    float64
	pairs     map[[2]mol.Kind]float64
	minWaters int
}

//DefaultOptions returns an Options with the default values: a global
//minimum distance of 1.0 A, no per-kind overrides and no minimum water
//requirement.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cutoff = 1.0
	ret.pairs = make(map[[2]mol.Kind]float64)
	return ret
}

//Cutoff returns the global minimum allowed distance between atoms of
//different models, and sets it, if a valid (positive) value is given.
func (r *Options) Cutoff(cutoff ...float64) float64 {
	ret := r.cutoff
	if len(cutoff) > 0 && cutoff[0] > 0 {
		r.cutoff = cutoff[0]
	}
	return ret
}

//PairCutoff returns the minimum allowed distance between atoms of kinds
//a and b, and sets it, if a valid value is given. The order of a and b
//does not matter. Pairs without an override use the global cutoff.
func (r *Options) PairCutoff(a, b mol.Kind, cutoff ...float64) float64 {
	if b < a {
		a, b = b, a
	}
	ret, ok := r.pairs[[2]mol.Kind{a, b}]
	if !ok {
		ret = r.cutoff
	}
	if len(cutoff) > 0 && cutoff[0] > 0 {
		r.pairs[[2]mol.Kind{a, b}] = cutoff[0]
	}
	return ret
}

//MinWaters returns the number of water residues that must survive
//resolution, and sets it, if a valid value is given. Zero disables
//the check.
func (r *Options) MinWaters(n ...int) int {
	ret := r.minWaters
	if len(n) > 0 && n[0] >= 0 {
		r.minWaters = n[0]
	}
	return ret
}

//maxCutoff returns the largest cutoff that could apply to a residue of
//kind k, which bounds the query radius.
func (r *Options) maxCutoff(k mol.Kind) float64 {
	max := r.cutoff
	for pair, v := range r.pairs {
		if (pair[0] == k || pair[1] == k) && v > max {
			max = v
		}
	}
	return max
}

//Record is one pending removal decision: the residue to remove, the pair
//of atoms that caused it and their distance. Model and WithModel are
//indexes into the slice of models given to Resolve; Atom and WithAtom are
//atom indexes within those (input) models.
type Record struct {
	Model     int
	MolID     int
	Chain     string
	MolName   string
	Kind      mol.Kind
	Atom      int
	WithModel int
	WithAtom  int
	Distance  float64
}

//Resolve processes the given models strictly in priority order: the
//first model is the solute and is never touched; every residue of each
//following model is removed whole if any of its atoms lies within the
//configured minimum distance of any atom of a higher-priority model or
//of a residue already accepted from an earlier model. Models of equal
//priority are simply supplied in order; first seen wins.
//
//Resolve returns filtered copies of the models (the inputs are not
//modified), the removal records, and an error. The only error condition
//is InsufficientSolvent, raised when fewer waters survive than the
//configured minimum.
func Resolve(models []*mol.Model, options ...*Options) ([]*mol.Model, []Record, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	out := make([]*mol.Model, len(models))
	records := make([]Record, 0, 30)
	if len(models) == 0 {
		return out, records, nil
	}
	accepted := index.New()
	out[0] = models[0].Copy()
	accepted.AddModel(models[0], 0)
	for i := 1; i < len(models); i++ {
		m := models[i]
		removed := make(map[int]bool) //index into m.Residues()
		keptAtoms := make([]int, 0, m.Len())
		for ri, res := range m.Residues() {
			if res.Kind == mol.Solute {
				//the solute wins unconditionally, wherever it appears.
				keptAtoms = append(keptAtoms, res.Atoms()...)
				continue
			}
			radius := o.maxCutoff(res.Kind)
			rec, ok := worstClash(m, i, res, accepted, models, radius, o)
			if ok {
				removed[ri] = true
				records = append(records, rec)
				continue
			}
			keptAtoms = append(keptAtoms, res.Atoms()...)
		}
		ric := 0
		out[i] = m.Filter(func(r *mol.Residue) bool {
			ric++
			return !removed[ric-1]
		})
		accepted.AddAtoms(m, i, keptAtoms)
	}
	if o.minWaters > 0 {
		waters := 0
		for _, m := range out {
			waters += m.KindCount(mol.Water)
		}
		if waters < o.minWaters {
			return nil, nil, &mol.InsufficientSolvent{Kind: mol.Water, Needed: o.minWaters, Available: waters}
		}
	}
	return out, records, nil
}

//worstClash looks for the closest violating atom pair between the
//candidate residue and the accepted set. It returns a Record for it and
//whether any violation was found at all.
func worstClash(m *mol.Model, mi int, res *mol.Residue, accepted *index.Index, models []*mol.Model, radius float64, o *Options) (Record, bool) {
	var best Record
	found := false
	for _, ai := range res.Atoms() {
		for _, e := range accepted.NeighborsWithin(m.Coord(ai), radius) {
			hit := models[e.Model].Atom(e.Atom)
			if e.Dist > o.PairCutoff(res.Kind, hit.Kind) {
				continue
			}
			if !found || e.Dist < best.Distance {
				best = Record{
					Model:     mi,
					MolID:     res.MolID,
					Chain:     res.Chain,
					MolName:   res.MolName,
					Kind:      res.Kind,
					Atom:      ai,
					WithModel: e.Model,
					WithAtom:  e.Atom,
					Distance:  e.Dist,
				}
				found = true
			}
		}
	}
	return best, found
}
