// Package board defines the read-only printed-circuit-board model consumed by
// the sketch assembler: integer board-unit points, the tagged shape variants
// found on drawing layers and footprints, and the selections (by layer, by
// footprint reference) that group shapes into one outline.
package board
