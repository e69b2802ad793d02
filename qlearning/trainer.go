package qlearning

import (
	"snake-game/ai"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/gorgonia"
)

// ErrShapeMismatch is returned for malformed training batches.
var ErrShapeMismatch = errors.New("shape mismatch")

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

// Trainer owns the value network and its optimizer state and is the only
// thing that mutates the weights.
type Trainer struct {
	net    *Network
	solver gorgonia.Solver
	gamma  float64
}

func NewTrainer(net *Network, learningRate, gamma float64) *Trainer {
	return &Trainer{
		net: net,
		// the solver caches moments by parameter position, which is the
		// same in every graph of net
		solver: gorgonia.NewAdamSolver(
			gorgonia.WithLearnRate(learningRate),
			gorgonia.WithBeta1(adamBeta1),
			gorgonia.WithBeta2(adamBeta2),
			gorgonia.WithEps(adamEpsilon)),
		gamma: gamma,
	}
}

// Predict is the read-only evaluation entry point used by the policy.
func (t *Trainer) Predict(s ai.StateVector) (QValues, error) {
	return t.net.Predict(s)
}

// TrainBatch runs TrainStep over a list of transitions.
func (t *Trainer) TrainBatch(batch []Transition) (float64, error) {
	states := make([]ai.StateVector, len(batch))
	actions := make([]ai.Action, len(batch))
	rewards := make([]float64, len(batch))
	nextStates := make([]ai.StateVector, len(batch))
	dones := make([]bool, len(batch))
	for i, tr := range batch {
		states[i] = tr.State
		actions[i] = tr.Action
		rewards[i] = tr.Reward
		nextStates[i] = tr.NextState
		dones[i] = tr.Done
	}
	return t.TrainStep(states, actions, rewards, nextStates, dones)
}

// TrainStep performs one Q-learning update over a batch and returns the
// mean squared error measured before the update.
//
// For every element the taken action's value is pulled towards
// reward + gamma * max_a Q(next, a), or just reward when done. The other
// action values are their own targets and get no gradient. Targets come
// from the same network that is being trained and enter the graph as
// constants.
func (t *Trainer) TrainStep(states []ai.StateVector, actions []ai.Action, rewards []float64, nextStates []ai.StateVector, dones []bool) (float64, error) {
	n := len(states)
	if n == 0 {
		return 0, errors.Wrap(ErrShapeMismatch, "empty batch")
	}
	if len(actions) != n || len(rewards) != n || len(nextStates) != n || len(dones) != n {
		return 0, errors.Wrapf(ErrShapeMismatch, "batch lengths differ: states=%d actions=%d rewards=%d next_states=%d dones=%d",
			n, len(actions), len(rewards), len(nextStates), len(dones))
	}
	for i, a := range actions {
		if !a.Valid() {
			return 0, errors.Wrapf(ErrShapeMismatch, "action %d is not one-hot: %v", i, a)
		}
	}

	x := stateMatrix(states)
	pred, err := t.net.Forward(x)
	if err != nil {
		return 0, err
	}
	next, err := t.net.Forward(stateMatrix(nextStates))
	if err != nil {
		return 0, err
	}

	target := buildTargets(pred, next, actions, rewards, dones, t.gamma)
	return t.descend(x, target)
}

// descend runs the training graph on x against the fixed targets y and
// steps the solver. It returns the loss before the step.
func (t *Trainer) descend(x, y *mat.Dense) (float64, error) {
	rows, _ := x.Dims()
	gr, err := t.net.graphFor(rows, true)
	if err != nil {
		return 0, err
	}
	defer gr.vm.Reset()

	if err := t.net.run(gr, x, y); err != nil {
		return 0, errors.Wrap(err, "backprop")
	}
	loss, err := scalar(gr.loss.Value())
	if err != nil {
		return 0, err
	}

	if err := t.solver.Step(gorgonia.NodesToValueGrads(gr.params)); err != nil {
		return 0, errors.Wrap(err, "solver step")
	}
	t.net.store(gr)
	return loss, nil
}

// gradients returns the loss and d(loss)/d(param) for every parameter in
// Network order without updating the weights.
func (t *Trainer) gradients(x, y *mat.Dense) (float64, [][]float64, error) {
	rows, _ := x.Dims()
	gr, err := t.net.graphFor(rows, true)
	if err != nil {
		return 0, nil, err
	}
	defer gr.vm.Reset()

	if err := t.net.run(gr, x, y); err != nil {
		return 0, nil, err
	}
	loss, err := scalar(gr.loss.Value())
	if err != nil {
		return 0, nil, err
	}

	grads := make([][]float64, len(gr.params))
	for i, p := range gr.params {
		g, err := p.Grad()
		if err != nil {
			return 0, nil, errors.Wrapf(err, "gradient of %s", p.Name())
		}
		data := g.Data().([]float64)
		grads[i] = append([]float64(nil), data...)
	}
	return loss, grads, nil
}

func scalar(v gorgonia.Value) (float64, error) {
	if v == nil {
		return 0, errors.New("loss was not computed")
	}
	f, ok := v.Data().(float64)
	if !ok {
		return 0, errors.Errorf("invalid loss value %T", v.Data())
	}
	return f, nil
}

// buildTargets copies pred and overwrites the taken action of every row
// with its temporal-difference target.
func buildTargets(pred, next *mat.Dense, actions []ai.Action, rewards []float64, dones []bool, gamma float64) *mat.Dense {
	target := mat.DenseCopyOf(pred)
	for i, a := range actions {
		target.Set(i, a.Index(), tdTarget(rewards[i], maxOf(next.RawRowView(i)), gamma, dones[i]))
	}
	return target
}

// tdTarget is reward + gamma*nextBest, with the future term dropped on a
// terminal step so the result is exactly reward.
func tdTarget(reward, nextBest, gamma float64, done bool) float64 {
	if done {
		return reward
	}
	return reward + gamma*nextBest
}

func maxOf(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

func stateMatrix(states []ai.StateVector) *mat.Dense {
	data := make([]float64, 0, len(states)*ai.StateSize)
	for _, s := range states {
		data = append(data, s[:]...)
	}
	return mat.NewDense(len(states), ai.StateSize, data)
}
