/*
 * place.go, part of gomol
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

//Package place positions pre-equilibrated membrane patches and solvent
//boxes around a solute. The patch is centered on the solute footprint in
//the plane orthogonal to the membrane normal, replicated by exact
//multiples of its periodic box dimensions until it covers the footprint
//plus a padding margin, and aligned along the normal at a configurable
//offset. Tiles that end up wholly outside the required footprint are
//discarded here, so the clash resolver never wastes time on them.
package place

import (
	"math"

	mol "github.com/rmera/gomol"
	v3 "github.com/rmera/gomol/v3"
)

//Options contains the options for membrane and solvent placement.
type Options struct {
	normal  mol.Axis
	padding float64
	offset  float64
}

//DefaultOptions returns an Options with the default values: membrane
//normal along Z, a padding margin of 17.5 A around the solute footprint
//and the patch centered on the solute midplane.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.normal = mol.Z
	ret.padding = 17.5
	ret.offset = 0
	return ret
}

//Normal returns the membrane normal axis and sets it, if a value is given.
func (r *Options) Normal(ax ...mol.Axis) mol.Axis {
	ret := r.normal
	if len(ax) > 0 && ax[0] >= mol.X && ax[0] <= mol.Z {
		r.normal = ax[0]
	}
	return ret
}

//Padding returns the padding margin around the solute footprint, in A,
//and sets it, if a valid value is given.
func (r *Options) Padding(p ...float64) float64 {
	ret := r.padding
	if len(p) > 0 && p[0] >= 0 {
		r.padding = p[0]
	}
	return ret
}

//Offset returns the displacement of the patch center along the normal
//axis, relative to the solute midplane, and sets it, if a value is given.
func (r *Options) Offset(o ...float64) float64 {
	ret := r.offset
	if len(o) > 0 {
		r.offset = o[0]
	}
	return ret
}

//Center translates m, in place, so that its centroid sits at the origin
//in the plane orthogonal to normal. If centerNormal is true the model is
//centered along the normal axis as well. It returns the shift that was
//applied, so the same rigid transform can be replayed on related models.
func Center(m *mol.Model, normal mol.Axis, centerNormal bool) *v3.Matrix {
	c := m.Center()
	shift := v3.Zeros(1)
	shift.Scale(-1, c)
	if !centerNormal {
		shift.Set(0, int(normal), 0)
	}
	m.Translate(shift)
	return shift
}

//Membrane returns a single model with the membrane patch tiled in the
//plane orthogonal to the configured normal axis, centered on the solute's
//bounding-box center, covering the solute footprint plus the padding
//margin. box holds the patch's periodic box dimensions; tiles are
//translated by exact multiples of them, so no two tiles' atoms can
//interpenetrate. The returned counts give the tiling grid before
//cropping (the normal axis count is always 1). The solute and patch are
//not modified.
func Membrane(solute, patch *mol.Model, box [3]float64, options ...*Options) (*mol.Model, [3]int, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	counts := [3]int{1, 1, 1}
	sbox, err := solute.BoundingBox()
	if err != nil {
		return nil, counts, errDecorate(err, "Membrane")
	}
	if patch.Len() == 0 {
		return nil, counts, mol.NewGeometryError("Membrane: empty patch")
	}
	for ax := mol.X; ax <= mol.Z; ax++ {
		if ax == o.normal {
			continue
		}
		if box[ax] <= 0 {
			return nil, counts, mol.NewGeometryError("Membrane: zero-size periodic dimension along axis %d", ax)
		}
		counts[ax] = gridCount(sbox.Size(ax)+2*o.padding, box[ax])
	}
	var center [3]float64
	for ax := mol.X; ax <= mol.Z; ax++ {
		center[ax] = sbox.Mid(ax)
	}
	center[o.normal] += o.offset
	m := tile(patch, box, counts, center, sbox, o, false)
	return m, counts, nil
}

//Solvent returns a single model with the solvent box tiled in all three
//dimensions, centered on the solute's bounding-box center, covering the
//solute plus the padding margin everywhere. The normal-axis placement
//offset applies here too, so a solvent slab can be displaced relative to
//a membrane midplane if needed.
func Solvent(solute, water *mol.Model, box [3]float64, options ...*Options) (*mol.Model, [3]int, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	counts := [3]int{1, 1, 1}
	sbox, err := solute.BoundingBox()
	if err != nil {
		return nil, counts, errDecorate(err, "Solvent")
	}
	if water.Len() == 0 {
		return nil, counts, mol.NewGeometryError("Solvent: empty solvent box")
	}
	for ax := mol.X; ax <= mol.Z; ax++ {
		if box[ax] <= 0 {
			return nil, counts, mol.NewGeometryError("Solvent: zero-size periodic dimension along axis %d", ax)
		}
		counts[ax] = gridCount(sbox.Size(ax)+2*o.padding, box[ax])
	}
	var center [3]float64
	for ax := mol.X; ax <= mol.Z; ax++ {
		center[ax] = sbox.Mid(ax)
	}
	center[o.normal] += o.offset
	m := tile(water, box, counts, center, sbox, o, true)
	return m, counts, nil
}

//tile replicates the patch counts[ax] times along each axis, with the
//whole grid centered at center, and returns the merged copy. Residue
//numbers are offset per tile so the result keeps (MolID, Chain) unique.
//Tiles whose box lies wholly outside the solute footprint plus padding
//are dropped.
func tile(patch *mol.Model, box [3]float64, counts [3]int, center [3]float64, sbox *mol.Box, o *Options, cropNormal bool) *mol.Model {
	//first move the patch so its own center sits at the origin.
	base := patch.Copy()
	pc := base.Center()
	shift := v3.Zeros(1)
	shift.Scale(-1, pc)
	base.Translate(shift)

	stride := molIDStride(base)
	out := mol.EmptyModel()
	tilen := 0
	for i := 0; i < counts[0]; i++ {
		for j := 0; j < counts[1]; j++ {
			for k := 0; k < counts[2]; k++ {
				var t [3]float64
				idx := [3]int{i, j, k}
				for ax := 0; ax < 3; ax++ {
					t[ax] = (float64(idx[ax])-float64(counts[ax]-1)/2)*box[ax] + center[ax]
				}
				if cropped(t, box, sbox, o, cropNormal) {
					continue
				}
				cp := base.Copy()
				tv, _ := v3.NewMatrix([]float64{t[0], t[1], t[2]})
				cp.Translate(tv)
				if tilen > 0 {
					for a := 0; a < cp.Len(); a++ {
						cp.Atom(a).MolID += tilen * stride
					}
				}
				out.AppendModel(cp)
				tilen++
			}
		}
	}
	return out
}

//cropped returns whether a tile centered at t lies wholly outside the
//solute footprint plus padding. For membranes the normal axis is not
//considered (the patch always spans it); for solvent it is.
func cropped(t [3]float64, box [3]float64, sbox *mol.Box, o *Options, cropNormal bool) bool {
	for ax := mol.X; ax <= mol.Z; ax++ {
		if ax == o.normal && !cropNormal {
			continue
		}
		lo := t[ax] - box[ax]/2
		hi := t[ax] + box[ax]/2
		if hi < sbox.Min[ax]-o.padding || lo > sbox.Max[ax]+o.padding {
			return true
		}
	}
	return false
}

//gridCount returns the number of tile copies along one axis: a center
//tile plus, on each side, enough whole tiles to cover the needed extent
//whatever the relative alignment. The surplus is removed later by
//cropping, before the clash resolver ever sees it.
func gridCount(need, box float64) int {
	side := int(math.Ceil(need / box))
	return 2*side + 1
}

//molIDStride returns the size of the MolID range used by the model,
//i.e. the offset to add per tile copy so residue numbers never collide.
func molIDStride(m *mol.Model) int {
	if m.Len() == 0 {
		return 1
	}
	min, max := m.Atom(0).MolID, m.Atom(0).MolID
	for i := 1; i < m.Len(); i++ {
		id := m.Atom(i).MolID
		if id < min {
			min = id
		}
		if id > max {
			max = id
		}
	}
	return max - min + 1
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
