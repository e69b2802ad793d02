package ai

const (
	// StateSize is the length of an encoded state.
	StateSize = 14
	// ActionCount is the number of relative moves.
	ActionCount = 3
)

// Relative move indices inside an Action.
const (
	Straight = iota
	TurnRight
	TurnLeft
)

// StateVector is the fixed feature vector fed to the value network.
type StateVector [StateSize]float64

// Action is a one-hot vector over {straight, right, left}.
type Action [ActionCount]float64

// OneHot encodes move index i. It panics on an index outside [0, ActionCount).
func OneHot(i int) Action {
	var a Action
	a[i] = 1
	return a
}

// Valid reports whether a has exactly one entry set to 1 and the rest 0.
func (a Action) Valid() bool {
	hot := 0
	for _, v := range a {
		switch v {
		case 1:
			hot++
		case 0:
		default:
			return false
		}
	}
	return hot == 1
}

// Index returns the position of the hot entry, or -1 when a is not one-hot.
func (a Action) Index() int {
	if !a.Valid() {
		return -1
	}
	for i, v := range a {
		if v == 1 {
			return i
		}
	}
	return -1
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
