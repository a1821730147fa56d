package binding

//go:generate go tool stringer -type=Direction

// Direction selects which way values flow.
type Direction int

const (
	// DirectionDefault is Bidirectional when the binding is not computed and
	// the target can notify changes of its property, ModelToTarget otherwise.
	DirectionDefault Direction = iota
	ModelToTarget
	Bidirectional
)
