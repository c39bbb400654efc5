/*
 * ionize.go, part of gomol
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

//Package ionize replaces water residues with ions to reach a target salt
//concentration and to neutralize the system's net charge. All ion species
//are placed in a single coordinated pass sharing one spatial index, so no
//two species can ever select the same water or end up closer than their
//minimum separation.
package ionize

import (
	"fmt"
	"math"
	"sort"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/index"
	v3 "github.com/rmera/gomol/v3"
)

//saltIonsPerWater is the number of ion pairs per water molecule that
//yields a 1 M solution, given water's molarity at standard conditions.
const saltIonsPerWater = 0.018

//ionID collects the identity an ion atom gets when it takes over a
//water site, following the usual CHARMM-style naming.
type ionID struct {
	resname string
	name    string
	charge  float64
}

var ionTable = map[string]ionID{
	"Na": {"SOD", "NA", 1},
	"K":  {"POT", "K", 1},
	"Cl": {"CLA", "CL", -1},
}

//Spec describes one ion species to place: its identity, how many copies
//are wanted (an explicit count, a bulk concentration, or both) and the
//distance constraints its sites must honor.
type Spec struct {
	species       string
	resname       string
	name          string
	charge        float64
	count         int //explicit target, <0 means unset
	concentration float64
	minDistSolute float64
	minDistIons   float64
}

//NewSpec returns a Spec for the given species with default values: no
//explicit count or concentration, 5 A minimum distance from the solute
//and 5 A minimum distance to any other placed ion. Known species (Na, K
//and Cl) get their residue/atom names and formal charge filled in from
//the internal table; anything else needs Charge and names set by hand.
func NewSpec(species string) *Spec {
	ret := new(Spec)
	ret.species = species
	ret.count = -1
	ret.concentration = 0
	ret.minDistSolute = 5
	ret.minDistIons = 5
	if id, ok := ionTable[species]; ok {
		ret.resname = id.resname
		ret.name = id.name
		ret.charge = id.charge
	} else {
		ret.resname = species
		ret.name = species
	}
	return ret
}

//Species returns the element name of the species (say, "Na").
func (r *Spec) Species() string {
	return r.species
}

//Count returns the explicit target count and sets it, if a non-negative
//value is given.
func (r *Spec) Count(c ...int) int {
	ret := r.count
	if len(c) > 0 && c[0] >= 0 {
		r.count = c[0]
	}
	return ret
}

//Concentration returns the target bulk concentration, in mol/L, and sets
//it, if a non-negative value is given.
func (r *Spec) Concentration(c ...float64) float64 {
	ret := r.concentration
	if len(c) > 0 && c[0] >= 0 {
		r.concentration = c[0]
	}
	return ret
}

//Charge returns the formal charge of the species and sets it, if a value
//is given.
func (r *Spec) Charge(c ...float64) float64 {
	ret := r.charge
	if len(c) > 0 {
		r.charge = c[0]
	}
	return ret
}

//MinDistSolute returns the minimum distance, in A, between an ion site
//and any solute atom, and sets it, if a non-negative value is given.
func (r *Spec) MinDistSolute(d ...float64) float64 {
	ret := r.minDistSolute
	if len(d) > 0 && d[0] >= 0 {
		r.minDistSolute = d[0]
	}
	return ret
}

//MinDistIons returns the minimum distance, in A, between an ion site and
//any previously placed ion, of any species, and sets it, if a
//non-negative value is given.
func (r *Spec) MinDistIons(d ...float64) float64 {
	ret := r.minDistIons
	if len(d) > 0 && d[0] >= 0 {
		r.minDistIons = d[0]
	}
	return ret
}

//Names returns the residue name and atom name the species' ions get, and
//sets them, if a pair of values is given.
func (r *Spec) Names(names ...string) (string, string) {
	resname, name := r.resname, r.name
	if len(names) >= 2 {
		r.resname = names[0]
		r.name = names[1]
	}
	return resname, name
}

//Options contains the options for the ion placement pass.
type Options struct {
	neutralize   bool
	targetCharge int
	bestEffort   bool
}

//DefaultOptions returns an Options with the default values: neutralize
//the system to zero net charge, and treat any placement shortfall as
//fatal.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.neutralize = true
	ret.targetCharge = 0
	ret.bestEffort = false
	return ret
}

//Neutralize returns whether the pass adjusts ion counts to reach the
//target net charge, and sets it, if a value is given.
func (r *Options) Neutralize(n ...bool) bool {
	ret := r.neutralize
	if len(n) > 0 {
		r.neutralize = n[0]
	}
	return ret
}

//TargetCharge returns the net charge, in elementary charges, the system
//should have after placement, and sets it, if a value is given. It is
//only used when neutralization is enabled.
func (r *Options) TargetCharge(c ...int) int {
	ret := r.targetCharge
	if len(c) > 0 {
		r.targetCharge = c[0]
	}
	return ret
}

//BestEffort returns whether a placement shortfall is tolerated (the
//partially ionized system is still returned, together with the shortfall
//error, so the caller can report it) and sets it, if a value is given.
func (r *Options) BestEffort(b ...bool) bool {
	ret := r.bestEffort
	if len(b) > 0 {
		r.bestEffort = b[0]
	}
	return ret
}

//site is a candidate water residue: which model it lives in, its index
//in that model's residue list, and the atom holding the oxygen.
type site struct {
	model   int
	residue int
	oxygen  int
}

//Place replaces water residues in models with ions, honoring every Spec
//in a single coordinated pass. Targets come from each Spec's explicit
//count and/or concentration; when neutralization is on, the counts of
//the first cation and first anion Spec are adjusted so the total system
//charge ends at the target. Candidate waters are visited in ascending
//(model, Chain, MolID) order and assigned round-robin among the species
//still short of their target, so identical inputs always give identical
//placements. The inputs are not modified; Place returns new models, with
//chosen waters collapsed to a single ion atom at their oxygen position,
//plus the per-species placed counts. If the candidates run out first,
//the error is an *mol.IonPlacementShortfall naming every deficit; unless
//best-effort is on, no models are returned with it.
func Place(models []*mol.Model, specs []*Spec, options ...*Options) ([]*mol.Model, map[string]int, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	placed := make(map[string]int)
	if len(specs) == 0 {
		ret := make([]*mol.Model, len(models))
		for i, m := range models {
			ret[i] = m.Copy()
		}
		return ret, placed, nil
	}
	targets, err := targets(models, specs, o)
	if err != nil {
		return nil, nil, err
	}
	solute := index.New()
	waters := 0
	for i, m := range models {
		for a := 0; a < m.Len(); a++ {
			if m.Atom(a).Kind == mol.Solute {
				solute.AddVec(m.Coord(a), i, a)
			}
		}
		waters += waterCount(m)
	}
	total := 0
	for _, t := range targets {
		total += t
	}
	if waters == 0 && total > 0 {
		return nil, nil, &mol.InsufficientSolvent{Kind: mol.Water, Needed: total, Available: 0}
	}
	//the coordinated pass
	ions := index.New()
	chosen := make(map[[2]int]*Spec) //(model, residue index) -> species
	next := 0
	for _, s := range candidates(models) {
		if done(specs, targets, placed) {
			break
		}
		sp := specs[next%len(specs)]
		for i := 0; i < len(specs) && placed[sp.species] >= targets[sp.species]; i++ {
			next++
			sp = specs[next%len(specs)]
		}
		pos := models[s.model].Coord(s.oxygen)
		if sp.minDistSolute > 0 && solute.AnyWithin(pos, sp.minDistSolute) {
			continue
		}
		if tooClose(ions, pos, sp, specs, chosen) {
			continue
		}
		chosen[[2]int{s.model, s.residue}] = sp
		ions.AddVec(pos, s.model, s.residue)
		placed[sp.species]++
		next++
	}
	ret := rebuild(models, chosen)
	if !done(specs, targets, placed) {
		short := &mol.IonPlacementShortfall{Deficits: make(map[string]int)}
		for _, sp := range specs {
			if d := targets[sp.species] - placed[sp.species]; d > 0 {
				short.Deficits[sp.species] = d
			}
		}
		if !o.bestEffort {
			return nil, placed, short
		}
		return ret, placed, short
	}
	return ret, placed, nil
}

//targets computes the number of ions wanted per species. Concentration
//targets use the salt rule (0.018 ions per water per mol/L); an explicit
//count takes precedence when both are set. Neutralization adjusts the
//first cation and first anion spec: the charge surplus is first taken
//out of the same-sign species' own target, and whatever that target
//cannot absorb is added to the opposite-sign one.
func targets(models []*mol.Model, specs []*Spec, o *Options) (map[string]int, error) {
	waters := 0
	charge := 0
	for _, m := range models {
		waters += waterCount(m)
		q, err := m.NetCharge()
		if err != nil {
			return nil, errDecorate(err, "targets")
		}
		charge += q
	}
	targets := make(map[string]int)
	for _, sp := range specs {
		if _, dup := targets[sp.species]; dup {
			return nil, fmt.Errorf("ionize: species %s appears twice in the spec list", sp.species)
		}
		t := 0
		if sp.concentration > 0 {
			t = int(math.Round(saltIonsPerWater * float64(waters) * sp.concentration))
		}
		if sp.count >= 0 {
			t = sp.count
		}
		targets[sp.species] = t
	}
	if !o.neutralize {
		return targets, nil
	}
	cation, anion := firstOfSign(specs, 1), firstOfSign(specs, -1)
	after := float64(charge - o.targetCharge)
	for _, sp := range specs {
		after += float64(targets[sp.species]) * sp.charge
	}
	need := int(math.Round(math.Abs(after)))
	if need == 0 {
		return targets, nil
	}
	var same, opposite *Spec
	if after > 0 {
		same, opposite = cation, anion
	} else {
		same, opposite = anion, cation
	}
	if same != nil {
		n := int(float64(need) / math.Abs(same.charge))
		if n > targets[same.species] {
			n = targets[same.species]
		}
		targets[same.species] -= n
		need -= int(math.Round(float64(n) * math.Abs(same.charge)))
	}
	if need > 0 {
		if opposite == nil {
			return nil, fmt.Errorf("ionize: no species with the right charge sign to neutralize a net charge of %d", charge)
		}
		targets[opposite.species] += int(math.Ceil(float64(need) / math.Abs(opposite.charge)))
	}
	return targets, nil
}

//firstOfSign returns the first spec whose charge has the given sign, or
//nil.
func firstOfSign(specs []*Spec, sign int) *Spec {
	for _, sp := range specs {
		if sign > 0 && sp.charge > 0 {
			return sp
		}
		if sign < 0 && sp.charge < 0 {
			return sp
		}
	}
	return nil
}

//waterCount returns the number of water residues in m.
func waterCount(m *mol.Model) int {
	n := 0
	for _, r := range m.Residues() {
		if r.Kind == mol.Water {
			n++
		}
	}
	return n
}

//candidates returns every water residue of every model as a site, in
//ascending (model, Chain, MolID) order. The oxygen is the first atom
//with symbol or name starting with O, or the residue's first atom.
func candidates(models []*mol.Model) []site {
	ret := make([]site, 0)
	for i, m := range models {
		res := m.Residues()
		sites := make([]site, 0, len(res))
		for ri, r := range res {
			if r.Kind != mol.Water {
				continue
			}
			ox := r.Atoms()[0]
			for _, a := range r.Atoms() {
				at := m.Atom(a)
				if at.Symbol == "O" || (len(at.Name) > 0 && at.Name[0] == 'O') {
					ox = a
					break
				}
			}
			sites = append(sites, site{model: i, residue: ri, oxygen: ox})
		}
		sort.SliceStable(sites, func(a, b int) bool {
			ra, rb := res[sites[a].residue], res[sites[b].residue]
			if ra.Chain != rb.Chain {
				return ra.Chain < rb.Chain
			}
			return ra.MolID < rb.MolID
		})
		ret = append(ret, sites...)
	}
	return ret
}

//tooClose reports whether pos violates the minimum ion separation against
//any already placed ion. The constraint is pairwise: the larger of the
//two species' minimum distances applies.
func tooClose(ions *index.Index, pos *v3.Matrix, sp *Spec, specs []*Spec, chosen map[[2]int]*Spec) bool {
	if ions.Len() == 0 {
		return false
	}
	r := sp.minDistIons
	for _, other := range specs {
		if other.minDistIons > r {
			r = other.minDistIons
		}
	}
	for _, e := range ions.NeighborsWithin(pos, r) {
		placed := chosen[[2]int{e.Model, e.Atom}]
		min := sp.minDistIons
		if placed != nil && placed.minDistIons > min {
			min = placed.minDistIons
		}
		if e.Dist < min {
			return true
		}
	}
	return false
}

//done reports whether every species has reached its target.
func done(specs []*Spec, targets, placed map[string]int) bool {
	for _, sp := range specs {
		if placed[sp.species] < targets[sp.species] {
			return false
		}
	}
	return true
}

//rebuild returns copies of the models with every chosen water residue
//collapsed to a single ion atom at its oxygen position. The ion keeps
//the water's MolID but moves to chain "N", as usual for bulk ions.
func rebuild(models []*mol.Model, chosen map[[2]int]*Spec) []*mol.Model {
	ret := make([]*mol.Model, len(models))
	for i, m := range models {
		if m.Len() == 0 {
			ret[i] = mol.EmptyModel()
			continue
		}
		res := m.Residues()
		atoms := make([]*mol.Atom, 0, m.Len())
		data := make([]float64, 0, 3*m.Len())
		for ri, r := range res {
			sp := chosen[[2]int{i, ri}]
			if sp == nil {
				for _, a := range r.Atoms() {
					atoms = append(atoms, m.Atom(a).Copy())
					c := m.Coord(a)
					data = append(data, c.At(0, 0), c.At(0, 1), c.At(0, 2))
				}
				continue
			}
			ox := r.Atoms()[0]
			for _, a := range r.Atoms() {
				at := m.Atom(a)
				if at.Symbol == "O" || (len(at.Name) > 0 && at.Name[0] == 'O') {
					ox = a
					break
				}
			}
			ion := &mol.Atom{
				Name:    sp.name,
				MolName: sp.resname,
				MolID:   r.MolID,
				Chain:   "N",
				Kind:    mol.Ion,
				Symbol:  sp.species,
				Charge:  sp.charge,
			}
			atoms = append(atoms, ion)
			c := m.Coord(ox)
			data = append(data, c.At(0, 0), c.At(0, 1), c.At(0, 2))
		}
		coords, _ := v3.NewMatrix(data)
		nm, err := mol.NewModel(atoms, coords)
		if err != nil {
			panic(err.Error()) //can't happen, the data slice is built in threes
		}
		ret[i] = nm
	}
	return ret
}

//errDecorate asserts that the error implements mol.Error and decorates
//it with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(mol.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
