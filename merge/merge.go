/*
 * merge.go, part of gomol
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

//Package merge concatenates the surviving fragments of an assembly into
//one model with collision-free numbering: chains are taken in molecule
//-kind order (solute, then lipid, water, ions and everything else),
//duplicated chain identifiers are suffixed apart, residues are
//renumbered per chain and atom serials run 1..N over the whole model.
//Residue numbers from the inputs can be preserved per molecule kind, but
//only while they stay unambiguous; a clashing number is overridden and
//the override reported, never silently merged away.
package merge

import (
	"fmt"
	"sort"

	mol "github.com/rmera/gomol"
	v3 "github.com/rmera/gomol/v3"
)

//Collision records one forcible renumbering: a residue whose original
//number could not be preserved because it was already taken.
type Collision struct {
	Chain   string //final chain identifier
	MolName string
	Kind    mol.Kind
	OldID   int
	NewID   int
}

func (c Collision) String() string {
	return fmt.Sprintf("chain %s %s %d -> %d", c.Chain, c.MolName, c.OldID, c.NewID)
}

//Options contains the options for merging and renumbering.
type Options struct {
	base     int
	preserve map[mol.Kind]bool
}

//DefaultOptions returns an Options with the default values: renumber
//every chain sequentially from 1, preserving no original numbering.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.base = 1
	ret.preserve = make(map[mol.Kind]bool)
	return ret
}

//Base returns the first residue number assigned in each renumbered
//chain, and sets it, if a value is given.
func (r *Options) Base(b ...int) int {
	ret := r.base
	if len(b) > 0 {
		r.base = b[0]
	}
	return ret
}

//Preserve returns whether residues of kind k keep their original numbers
//when unambiguous, and sets it, if a value is given.
func (r *Options) Preserve(k mol.Kind, p ...bool) bool {
	ret := r.preserve[k]
	if len(p) > 0 {
		r.preserve[k] = p[0]
	}
	return ret
}

//chainRun is one input chain: a run of residues sharing a chain
//identifier within one model.
type chainRun struct {
	model int
	id    string
	kind  mol.Kind
	res   []*mol.Residue
}

//Merge concatenates models into a single model with globally unique
//(chain, residue number) pairs and atom serials 1..N. Chains are emitted
//in molecule-kind order (solute first, then lipid, water, ion, other),
//ties broken by input order. If two fragments used the same chain
//identifier, the later one is suffixed ("A" then "A2", "A3", ...), so
//nothing is ever merged or dropped by an identifier clash. Each chain is
//renumbered from the configured base unless its kind is preserved; a
//preserved number is honored only while no other residue on the same
//chain holds it and no preserved residue anywhere holds it, otherwise
//the residue is renumbered anyway and the override reported. A chain
//can therefore never end up with two residues under one number, whatever
//mix of preserved and renumbered kinds it carries.
func Merge(models []*mol.Model, options ...*Options) (*mol.Model, []Collision, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	runs := chainRuns(models)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].kind < runs[j].kind
	})
	out := mol.EmptyModel()
	collisions := make([]Collision, 0)
	usedChains := make(map[string]bool)
	usedNums := make(map[int]bool) //numbers held by preserved residues, model-wide
	for _, run := range runs {
		id := dedupChain(run.id, usedChains)
		usedChains[id] = true
		next := o.base
		inChain := make(map[int]bool) //every number assigned on this chain
		for _, r := range run.res {
			m := models[run.model]
			want := -1
			if o.preserve[r.Kind] && !usedNums[r.MolID] && !inChain[r.MolID] {
				want = r.MolID
			}
			if want < 0 {
				for usedNums[next] || inChain[next] {
					next++
				}
				want = next
				next++
				if o.preserve[r.Kind] {
					collisions = append(collisions, Collision{Chain: id,
						MolName: r.MolName, Kind: r.Kind, OldID: r.MolID, NewID: want})
				}
			}
			inChain[want] = true
			if o.preserve[r.Kind] {
				usedNums[want] = true
			}
			frag := fragment(m, r, id, want)
			out.AppendModel(frag)
		}
	}
	for i := 0; i < out.Len(); i++ {
		out.Atom(i).ID = i + 1
	}
	return out, collisions, nil
}

//chainRuns splits every model into its chains, in first-appearance
//order. A chain's kind is that of its first residue.
func chainRuns(models []*mol.Model) []*chainRun {
	runs := make([]*chainRun, 0)
	for i, m := range models {
		byID := make(map[string]*chainRun)
		for _, r := range m.Residues() {
			run, ok := byID[r.Chain]
			if !ok {
				run = &chainRun{model: i, id: r.Chain, kind: r.Kind}
				byID[r.Chain] = run
				runs = append(runs, run)
			}
			run.res = append(run.res, r)
		}
	}
	return runs
}

//dedupChain returns id if free, or the first free suffixed variant.
func dedupChain(id string, used map[string]bool) string {
	if !used[id] {
		return id
	}
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s%d", id, n)
		if !used[cand] {
			return cand
		}
	}
}

//fragment copies one residue of m as a standalone model, with the final
//chain identifier and residue number applied.
func fragment(m *mol.Model, r *mol.Residue, chain string, molid int) *mol.Model {
	atoms := make([]*mol.Atom, 0, r.Len())
	idx := r.Atoms()
	for _, a := range idx {
		at := m.Atom(a).Copy()
		at.Chain = chain
		at.MolID = molid
		atoms = append(atoms, at)
	}
	coords := v3.Zeros(len(idx))
	coords.SomeVecs(m.Coords(), idx)
	frag, err := mol.NewModel(atoms, coords)
	if err != nil {
		panic(err.Error())
	}
	return frag
}
