/*
 * doc.go, part of gomol.
 *
 * Copyright 2023 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package mol is the main package of the goMol library. goMol assembles
molecular-simulation systems in memory: it embeds a solute (say, a protein)
in a pre-equilibrated membrane patch and/or solvent box, removes the
lipids, waters and ions that overlap the solute, replaces waters with
ions until the system is neutral and at the requested salt concentration,
and renumbers everything so the result can be handed to a structure
writer for any simulation engine.


	**goMol capabilities**

    In-memory structure model: atoms, residues, chains, bounding geometry.
	Rigid translations, residue-predicate filtering, model concatenation.

    Spatial indexing of atom coordinates (k-d tree) for exact
	radius and nearest-neighbor queries.

    Priority-ordered clash resolution between overlaid structures,
	removing whole residues only, never touching the solute.

    Membrane/solvent placement: centering on the solute footprint,
	periodic tiling of the patch, cropping of redundant tiles.

    Coordinated multi-species ion placement with charge neutralization,
	minimum distances from the solute and between ions of any species.

    Merging and renumbering with collision detection, so identically
	numbered residues on different chains can never silently merge.

goMol does not read or write any file format, nor does it assign force
field parameters; structure readers/writers and parameterization are
external collaborators. All models are built and consumed in memory.

The subpackages are organized by pipeline stage: v3 (coordinates), index
(spatial queries), clash, place, ionize, merge, build (the pipeline) and
qcplot (quality-control renderings).
*/
package mol
