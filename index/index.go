/*
 * index.go, part of gomol
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

//Package index accelerates proximity queries over atom coordinates.
//It wraps a k-d tree (gonum's spatial/kdtree) over the atoms of one or
//several models. Queries are exact: for the radius given at query time
//there are no false negatives. The index supports incremental growth by
//appending atoms; the tree is then rebuilt lazily on the next query,
//which is acceptable as correctness matters more than incrementality here.
package index

import (
	"math"
	"sort"

	mol "github.com/rmera/gomol"
	v3 "github.com/rmera/gomol/v3"

	"gonum.org/v1/gonum/spatial/kdtree"
)

//point is one atom coordinate plus enough identity to get back to the
//model and atom it came from.
type point struct {
	xyz   [3]float64
	model int
	atom  int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	return p.xyz[d] - q.xyz[d]
}

func (p point) Dims() int { return 3 }

//Distance returns the squared Euclidean distance, following the
//convention of the kdtree package.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	var sum float64
	for i := 0; i < 3; i++ {
		d := p.xyz[i] - q.xyz[i]
		sum += d * d
	}
	return sum
}

//points implements kdtree.Interface, in the manner of the kdtree package
//examples.
type points []point

func (p points) Index(i int) kdtree.Comparable        { return p[i] }
func (p points) Len() int                             { return len(p) }
func (p points) Pivot(d kdtree.Dim) int               { return plane{Dim: d, points: p}.Pivot() }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool {
	return p.points[i].xyz[p.Dim] < p.points[j].xyz[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

//Entry identifies an atom found by a query: the tag of the model it was
//indexed under, the atom index within that model, and the distance (in the
//units of the coordinates, not squared) to the query point.
type Entry struct {
	Model int
	Atom  int
	Dist  float64
}

//Index is a spatial index over atom coordinates of one or more models.
//The zero value is not usable; use New.
type Index struct {
	pts   points
	tree  *kdtree.Tree
	dirty bool
}

//New returns an empty Index.
func New() *Index {
	return &Index{pts: make(points, 0), dirty: true}
}

//NewFromModel returns an Index over all atoms of m, tagged with the
//given model tag.
func NewFromModel(m *mol.Model, tag int) *Index {
	ix := New()
	ix.AddModel(m, tag)
	return ix
}

//AddModel appends all atoms of m to the index under the given model tag.
func (ix *Index) AddModel(m *mol.Model, tag int) {
	for i := 0; i < m.Len(); i++ {
		c := m.Coords()
		ix.pts = append(ix.pts, point{xyz: [3]float64{c.At(i, 0), c.At(i, 1), c.At(i, 2)}, model: tag, atom: i})
	}
	ix.dirty = true
}

//AddAtoms appends the atoms of m with the given indexes to the index,
//under the given model tag.
func (ix *Index) AddAtoms(m *mol.Model, tag int, atoms []int) {
	c := m.Coords()
	for _, i := range atoms {
		ix.pts = append(ix.pts, point{xyz: [3]float64{c.At(i, 0), c.At(i, 1), c.At(i, 2)}, model: tag, atom: i})
	}
	ix.dirty = true
}

//AddVec appends a single position to the index, under the given model
//tag and atom index. vec must be a 1x3 matrix.
func (ix *Index) AddVec(vec *v3.Matrix, tag, atom int) {
	ix.pts = append(ix.pts, point{xyz: [3]float64{vec.At(0, 0), vec.At(0, 1), vec.At(0, 2)}, model: tag, atom: atom})
	ix.dirty = true
}

//Len returns the number of indexed positions.
func (ix *Index) Len() int {
	return len(ix.pts)
}

//rebuild (re)builds the tree from the current points. O(n log n).
func (ix *Index) rebuild() {
	cp := make(points, len(ix.pts))
	copy(cp, ix.pts) //kdtree.New sorts its argument in place.
	ix.tree = kdtree.New(cp, false)
	ix.dirty = false
}

func query(vec *v3.Matrix) point {
	return point{xyz: [3]float64{vec.At(0, 0), vec.At(0, 1), vec.At(0, 2)}}
}

//NeighborsWithin returns every indexed atom within radius r of the
//position vec (a 1x3 matrix), sorted by distance and then by (model, atom)
//so results are deterministic.
func (ix *Index) NeighborsWithin(vec *v3.Matrix, r float64) []Entry {
	if len(ix.pts) == 0 {
		return nil
	}
	if ix.dirty {
		ix.rebuild()
	}
	keep := kdtree.NewDistKeeper(r * r) //distances in the tree are squared
	ix.tree.NearestSet(keep, query(vec))
	ret := make([]Entry, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		p := c.Comparable.(point)
		ret = append(ret, Entry{Model: p.model, Atom: p.atom, Dist: math.Sqrt(c.Dist)})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Dist != ret[j].Dist {
			return ret[i].Dist < ret[j].Dist
		}
		if ret[i].Model != ret[j].Model {
			return ret[i].Model < ret[j].Model
		}
		return ret[i].Atom < ret[j].Atom
	})
	return ret
}

//AnyWithin returns whether any indexed atom lies within radius r of the
//position vec.
func (ix *Index) AnyWithin(vec *v3.Matrix, r float64) bool {
	if len(ix.pts) == 0 {
		return false
	}
	if ix.dirty {
		ix.rebuild()
	}
	c, d := ix.tree.Nearest(query(vec))
	return c != nil && d <= r*r
}

//Nearest returns the indexed atom closest to vec and whether the index
//holds any atom at all.
func (ix *Index) Nearest(vec *v3.Matrix) (Entry, bool) {
	if len(ix.pts) == 0 {
		return Entry{}, false
	}
	if ix.dirty {
		ix.rebuild()
	}
	c, d := ix.tree.Nearest(query(vec))
	if c == nil {
		return Entry{}, false
	}
	p := c.(point)
	return Entry{Model: p.model, Atom: p.atom, Dist: math.Sqrt(d)}, true
}
