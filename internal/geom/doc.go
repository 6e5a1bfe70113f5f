// Package geom provides the planar primitives shared by the spatial index
// and the body physics: axis-aligned regions and a few guarded vector
// helpers on top of [r2.Vec].
//
// Regions use screen orientation: Up is the smaller y bound and Down the
// larger one. Point containment is half-open (the right and bottom edges are
// excluded) so that the four quadrants of a region partition it exactly.
// Region overlap is closed: touching edges count as overlapping.
package geom
