// Package sketch converts board shapes into a kernel-ready 2D sketch in the
// millimeter, Y-up frame used by the CAD side.
//
// A Mapper moves single points from the board frame into the sketch frame.
// An Assembler consumes one ordered grouping of board shapes and yields
// either one face bounded by the chained open edges (arcs, segments, cubic
// curves) or the union of self-closed regions (circles, rectangles,
// polygons). Cubic curves are kept exact as single-span clamped B-splines.
package sketch
