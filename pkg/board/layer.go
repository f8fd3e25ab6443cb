package board

// Layer is a board layer name as written in board files.
type Layer string

// Layers the converter commonly reads from.
const (
	EdgeCuts     Layer = "Edge.Cuts"
	FCourtyard   Layer = "F.CrtYd"
	BCourtyard   Layer = "B.CrtYd"
	FSilk        Layer = "F.SilkS"
	BSilk        Layer = "B.SilkS"
	FFab         Layer = "F.Fab"
	BFab         Layer = "B.Fab"
	UserDrawings Layer = "Dwgs.User"
)

// CourtyardLayer returns the courtyard layer for the given board side.
func CourtyardLayer(front bool) Layer {
	if front {
		return FCourtyard
	}
	return BCourtyard
}
