package qlearning

import "snake-game/ai"

// Epsilon is the exploration threshold for a given number of completed
// episodes: base, base-1, ..., 0, then 0 forever.
func Epsilon(episodes, base int) int {
	return max(0, base-min(episodes, base))
}

// Evaluator exposes action values without allowing mutation.
type Evaluator interface {
	Predict(ai.StateVector) (QValues, error)
}

// Intner draws uniform integers in [0, n).
type Intner interface {
	Intn(n int) int
}

// ActionSelector is an epsilon-greedy policy. A draw in [0, epsilonRange)
// below epsilon explores; anything else exploits the evaluator.
type ActionSelector struct {
	eval         Evaluator
	rng          Intner
	epsilonRange int
}

func NewActionSelector(eval Evaluator, rng Intner, epsilonRange int) *ActionSelector {
	return &ActionSelector{
		eval:         eval,
		rng:          rng,
		epsilonRange: epsilonRange,
	}
}

// Select seleziona un'azione usando la policy epsilon-greedy
func (s *ActionSelector) Select(state ai.StateVector, epsilon int) (ai.Action, error) {
	if s.rng.Intn(s.epsilonRange) < epsilon {
		return ai.OneHot(s.rng.Intn(ai.ActionCount)), nil
	}
	q, err := s.eval.Predict(state)
	if err != nil {
		return ai.Action{}, err
	}
	return ai.OneHot(Argmax(q)), nil
}

// Argmax returns the index of the largest value; ties go to the lowest index.
func Argmax(q QValues) int {
	best := 0
	for i := 1; i < len(q); i++ {
		if q[i] > q[best] {
			best = i
		}
	}
	return best
}
