/*
 * qcplot.go, part of gomol
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

//Package qcplot renders quick quality-control pictures of an assembled
//system: a top-down scatter of the lipid headgroups with the solute
//footprint and padding margins drawn on top, to eyeball the tiling and
//the clash culling around the solute.
package qcplot

import (
	"fmt"
	"image/color"

	mol "github.com/rmera/gomol"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//planeAxes returns the two in-plane axes for a given membrane normal.
func planeAxes(normal mol.Axis) (mol.Axis, mol.Axis) {
	switch normal {
	case mol.X:
		return mol.Y, mol.Z
	case mol.Y:
		return mol.X, mol.Z
	}
	return mol.X, mol.Y
}

//headgroups returns one in-plane point per lipid residue: the phosphorus
//position if the residue has one, the first atom otherwise.
func headgroups(m *mol.Model, a1, a2 mol.Axis) plotter.XYs {
	pts := make(plotter.XYs, 0)
	for _, r := range m.Residues() {
		if r.Kind != mol.Lipid {
			continue
		}
		at := r.Atoms()[0]
		for _, a := range r.Atoms() {
			if m.Atom(a).Symbol == "P" {
				at = a
				break
			}
		}
		c := m.Coord(at)
		pts = append(pts, plotter.XY{X: c.At(0, int(a1)), Y: c.At(0, int(a2))})
	}
	return pts
}

//box returns the closed outline of a rectangle as a line plotter.
func box(minx, miny, maxx, maxy float64, col color.Color) (*plotter.Line, error) {
	out := plotter.XYs{
		{X: minx, Y: miny},
		{X: maxx, Y: miny},
		{X: maxx, Y: maxy},
		{X: minx, Y: maxy},
		{X: minx, Y: miny},
	}
	l, err := plotter.NewLine(out)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = col
	return l, nil
}

//TopView saves plotname.png with the system seen along the membrane
//normal: lipid headgroups as dots, ions as crosses, and the solute's
//in-plane bounding box, plain and padded, as rectangles. The solute
//footprint is taken from the atoms tagged as solute in m itself.
func TopView(m *mol.Model, normal mol.Axis, padding float64, plotname string) error {
	if m == nil || m.Len() == 0 {
		return mol.NewGeometryError("TopView: empty model")
	}
	a1, a2 := planeAxes(normal)
	p := plot.New()
	p.Title.Text = "System top view"
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = fmt.Sprintf("%v (A)", a1)
	p.Y.Label.Text = fmt.Sprintf("%v (A)", a2)
	p.Add(plotter.NewGrid())
	lip := headgroups(m, a1, a2)
	if len(lip) > 0 {
		s, err := plotter.NewScatter(lip)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = color.RGBA{G: 155, A: 255}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add("lipid", s)
	}
	ions := make(plotter.XYs, 0)
	for i := 0; i < m.Len(); i++ {
		if m.Atom(i).Kind != mol.Ion {
			continue
		}
		c := m.Coord(i)
		ions = append(ions, plotter.XY{X: c.At(0, int(a1)), Y: c.At(0, int(a2))})
	}
	if len(ions) > 0 {
		s, err := plotter.NewScatter(ions)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = color.RGBA{R: 200, B: 50, A: 255}
		p.Add(s)
		p.Legend.Add("ion", s)
	}
	solute := m.Filter(func(r *mol.Residue) bool { return r.Kind == mol.Solute })
	if solute.Len() > 0 {
		sbox, err := solute.BoundingBox()
		if err != nil {
			return err
		}
		foot, err := box(sbox.Min[a1], sbox.Min[a2], sbox.Max[a1], sbox.Max[a2],
			color.RGBA{B: 255, A: 255})
		if err != nil {
			return err
		}
		p.Add(foot)
		p.Legend.Add("solute footprint", foot)
		pad, err := box(sbox.Min[a1]-padding, sbox.Min[a2]-padding,
			sbox.Max[a1]+padding, sbox.Max[a2]+padding, color.RGBA{R: 100, G: 100, B: 100, A: 255})
		if err != nil {
			return err
		}
		pad.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(pad)
		p.Legend.Add("padding", pad)
	}
	return p.Save(15*vg.Centimeter, 15*vg.Centimeter, fmt.Sprintf("%s.png", plotname))
}
