package qlearning

import (
	"math"

	"snake-game/ai"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Source is the random source the agent draws from. *rand.Rand from
// golang.org/x/exp/rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// QValues holds one value per relative action.
type QValues [ai.ActionCount]float64

var paramNames = [...]string{"w1", "b1", "w2", "b2"}

// Network is the value function: StateSize -> hidden (ReLU) -> ActionCount.
//
// The weights are tensors owned by the network. Every batch size gets its
// own expression graph, built on first use, whose parameter nodes are bound
// to those tensors. A Network is not safe for concurrent use.
type Network struct {
	hidden  int
	weights []*tensor.Dense // w1, b1, w2, b2

	forwardGraphs map[int]*graph
	trainGraphs   map[int]*graph
}

// NewNetwork initialises every weight and bias uniformly in
// [-1/sqrt(fan_in), 1/sqrt(fan_in)).
func NewNetwork(hidden int, rng Source) *Network {
	return &Network{
		hidden: hidden,
		weights: []*tensor.Dense{
			uniform(ai.StateSize, hidden, ai.StateSize, rng),
			uniform(1, hidden, ai.StateSize, rng),
			uniform(hidden, ai.ActionCount, hidden, rng),
			uniform(1, ai.ActionCount, hidden, rng),
		},
		forwardGraphs: make(map[int]*graph),
		trainGraphs:   make(map[int]*graph),
	}
}

func uniform(r, c, fanIn int, rng Source) *tensor.Dense {
	bound := 1 / math.Sqrt(float64(fanIn))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
	return tensor.New(tensor.WithShape(r, c), tensor.WithBacking(data))
}

// Hidden returns the width of the hidden layer.
func (n *Network) Hidden() int {
	return n.hidden
}

// graph è la rete compilata per una dimensione di batch fissa
type graph struct {
	g      *gorgonia.ExprGraph
	x      *gorgonia.Node
	y      *gorgonia.Node // targets, training graphs only
	q      *gorgonia.Node
	loss   *gorgonia.Node
	params gorgonia.Nodes
	vm     gorgonia.VM
}

// build compiles the network for batches of rows states. A training graph
// also carries the MSE loss against the target input y and its gradients
// with respect to the parameters.
func (n *Network) build(rows int, train bool) (*graph, error) {
	g := gorgonia.NewGraph()
	gr := &graph{g: g}

	gr.params = make(gorgonia.Nodes, len(n.weights))
	for i, w := range n.weights {
		gr.params[i] = gorgonia.NewMatrix(g,
			tensor.Float64,
			gorgonia.WithShape(w.Shape()...),
			gorgonia.WithName(paramNames[i]),
			gorgonia.WithValue(w))
	}
	w1, b1, w2, b2 := gr.params[0], gr.params[1], gr.params[2], gr.params[3]

	gr.x = gorgonia.NewMatrix(g,
		tensor.Float64,
		gorgonia.WithShape(rows, ai.StateSize),
		gorgonia.WithName("x"))

	// Colonna di uno per il broadcasting del bias
	ones := gorgonia.NewMatrix(g,
		tensor.Float64,
		gorgonia.WithShape(rows, 1),
		gorgonia.WithName("ones"),
		gorgonia.WithInit(gorgonia.Ones()))

	// Hidden layer con ReLU
	h := gorgonia.Must(gorgonia.Mul(gr.x, w1))
	h = gorgonia.Must(gorgonia.Add(h, gorgonia.Must(gorgonia.Mul(ones, b1))))
	h = gorgonia.Must(gorgonia.Rectify(h))

	// Output layer
	q := gorgonia.Must(gorgonia.Mul(h, w2))
	gr.q = gorgonia.Must(gorgonia.Add(q, gorgonia.Must(gorgonia.Mul(ones, b2))))

	if !train {
		gr.vm = gorgonia.NewTapeMachine(g)
		return gr, nil
	}

	gr.y = gorgonia.NewMatrix(g,
		tensor.Float64,
		gorgonia.WithShape(rows, ai.ActionCount),
		gorgonia.WithName("y"))

	// MSE Loss
	diff := gorgonia.Must(gorgonia.Sub(gr.q, gr.y))
	gr.loss = gorgonia.Must(gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff))))

	if _, err := gorgonia.Grad(gr.loss, gr.params...); err != nil {
		return nil, errors.Wrap(err, "failed to build gradients")
	}
	gr.vm = gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(gr.params...))
	return gr, nil
}

func (n *Network) graphFor(rows int, train bool) (*graph, error) {
	cache := n.forwardGraphs
	if train {
		cache = n.trainGraphs
	}
	if gr, ok := cache[rows]; ok {
		return gr, nil
	}

	gr, err := n.build(rows, train)
	if err != nil {
		return nil, errors.Wrapf(err, "batch of %d", rows)
	}
	cache[rows] = gr
	return gr, nil
}

// run binds the inputs and executes the graph. The caller resets the
// machine once it has read what it needs.
func (n *Network) run(gr *graph, x, y *mat.Dense) error {
	n.load(gr)
	if err := gorgonia.Let(gr.x, toTensor(x)); err != nil {
		return errors.Wrap(err, "failed to bind states")
	}
	if gr.y != nil {
		if err := gorgonia.Let(gr.y, toTensor(y)); err != nil {
			return errors.Wrap(err, "failed to bind targets")
		}
	}
	return errors.Wrap(gr.vm.RunAll(), "failed to run graph")
}

// load and store keep the values bound to a graph's parameter nodes and
// the network's tensors identical.
func (n *Network) load(gr *graph) {
	for i, p := range gr.params {
		if v, ok := p.Value().(*tensor.Dense); ok && v != n.weights[i] {
			copy(v.Data().([]float64), n.weights[i].Data().([]float64))
		}
	}
}

func (n *Network) store(gr *graph) {
	for i, p := range gr.params {
		if v, ok := p.Value().(*tensor.Dense); ok && v != n.weights[i] {
			copy(n.weights[i].Data().([]float64), v.Data().([]float64))
		}
	}
}

// Forward evaluates a batch, one state per row, and returns one row of
// action values per state.
func (n *Network) Forward(x *mat.Dense) (*mat.Dense, error) {
	rows, _ := x.Dims()
	gr, err := n.graphFor(rows, false)
	if err != nil {
		return nil, err
	}
	defer gr.vm.Reset()

	if err := n.run(gr, x, nil); err != nil {
		return nil, errors.Wrap(err, "forward pass")
	}
	return fromTensor(gr.q.Value(), rows)
}

// Predict evaluates a single state.
func (n *Network) Predict(s ai.StateVector) (QValues, error) {
	var out QValues
	q, err := n.Forward(mat.NewDense(1, ai.StateSize, s[:]))
	if err != nil {
		return out, err
	}
	copy(out[:], q.RawRowView(0))
	return out, nil
}

func toTensor(m *mat.Dense) *tensor.Dense {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		copy(data[i*c:(i+1)*c], m.RawRowView(i))
	}
	return tensor.New(tensor.WithShape(r, c), tensor.WithBacking(data))
}

func fromTensor(v gorgonia.Value, rows int) (*mat.Dense, error) {
	t, ok := v.(*tensor.Dense)
	if !ok {
		return nil, errors.Errorf("invalid prediction tensor type %T", v)
	}
	data, ok := t.Data().([]float64)
	if !ok || len(data) != rows*ai.ActionCount {
		return nil, errors.Errorf("invalid prediction of shape %v", t.Shape())
	}
	out := make([]float64, len(data))
	copy(out, data)
	return mat.NewDense(rows, ai.ActionCount, out), nil
}
