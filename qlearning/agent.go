package qlearning

import (
	"snake-game/ai"
	"snake-game/game/types"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Environment is the game the agent plays.
type Environment interface {
	Snapshot() types.Snapshot
	Step(action ai.Action) (reward float64, done bool, score int)
	Reset()
}

// ScoreSink receives one score per finished episode, in episode order.
type ScoreSink interface {
	Append(score int)
}

// learner is the trainable value function behind the agent.
type learner interface {
	Evaluator
	TrainBatch(batch []Transition) (float64, error)
}

// Phase is where the agent is inside Step.
type Phase int

const (
	Idle Phase = iota
	Observing
	Acting
	LearningShort
	LearningLong
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Observing:
		return "observing"
	case Acting:
		return "acting"
	case LearningShort:
		return "learning-short"
	case LearningLong:
		return "learning-long"
	default:
		return "unknown"
	}
}

// StepResult describes one environment step as seen by the agent.
type StepResult struct {
	Transition
	Score     int
	ShortLoss float64
	// LongLoss is only meaningful when LongTrained is set.
	LongLoss    float64
	LongTrained bool
	// Episodes and Epsilon are the values after the step.
	Episodes int
	Epsilon  int
}

// Agent rappresenta l'agente DQN.
type Agent struct {
	cfg      Config
	encoder  *ai.StateEncoder
	memory   *ReplayMemory
	trainer  learner
	selector *ActionSelector
	sink     ScoreSink
	log      logrus.FieldLogger

	episodes int
	epsilon  int
	phase    Phase
}

// NewAgent builds an agent from cfg. rng seeds the network weights and
// drives exploration. sink and log may be nil.
func NewAgent(cfg Config, encoder *ai.StateEncoder, rng Source, sink ScoreSink, log logrus.FieldLogger) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid agent config")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	trainer := NewTrainer(NewNetwork(cfg.HiddenSize, rng), cfg.LearningRate, cfg.Gamma)
	return &Agent{
		cfg:      cfg,
		encoder:  encoder,
		memory:   NewReplayMemory(cfg.ReplayCapacity),
		trainer:  trainer,
		selector: NewActionSelector(trainer, rng, cfg.EpsilonRange),
		sink:     sink,
		log:      log,
		epsilon:  Epsilon(0, cfg.EpsilonBase),
	}, nil
}

// Step observes env, acts, stores the transition and trains on it. When the
// episode ends it also trains on the replay memory, decays epsilon, reports
// the score and resets env.
//
// An error after env.Step leaves env where it is: the episode is neither
// counted nor reset.
func (a *Agent) Step(env Environment) (StepResult, error) {
	defer func() { a.phase = Idle }()

	a.phase = Observing
	state := a.encoder.Encode(env.Snapshot())

	a.phase = Acting
	action, err := a.selector.Select(state, a.epsilon)
	if err != nil {
		return StepResult{}, errors.Wrap(err, "action selection")
	}
	reward, done, score := env.Step(action)
	next := a.encoder.Encode(env.Snapshot())

	t := Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: next,
		Done:      done,
	}

	// env has already moved, so the transition is kept even if training fails
	a.memory.Push(t)

	a.phase = LearningShort
	shortLoss, err := a.trainer.TrainBatch([]Transition{t})
	if err != nil {
		return StepResult{}, errors.Wrap(err, "short memory training")
	}

	res := StepResult{
		Transition: t,
		Score:      score,
		ShortLoss:  shortLoss,
	}

	if done {
		a.phase = LearningLong
		res.LongLoss, res.LongTrained, err = a.trainLongMemory()
		if err != nil {
			return StepResult{}, errors.Wrap(err, "long memory training")
		}

		a.episodes++
		a.epsilon = Epsilon(a.episodes, a.cfg.EpsilonBase)
		if a.sink != nil {
			a.sink.Append(score)
		}
		env.Reset()

		a.log.WithFields(logrus.Fields{
			"episode":      a.episodes,
			"score":        score,
			"epsilon":      a.epsilon,
			"memory":       a.memory.Len(),
			"long_trained": res.LongTrained,
		}).Debug("episode finished")
	}

	res.Episodes = a.episodes
	res.Epsilon = a.epsilon
	return res, nil
}

// trainLongMemory trains on the oldest BatchSize transitions. It is a
// no-op until the memory holds a full batch.
func (a *Agent) trainLongMemory() (float64, bool, error) {
	if a.memory.Len() < a.cfg.BatchSize {
		return 0, false, nil
	}
	// TODO: sample the batch at random once it is settled that the oldest-first draw is unintended.
	loss, err := a.trainer.TrainBatch(a.memory.Oldest(a.cfg.BatchSize))
	if err != nil {
		return 0, false, err
	}
	return loss, true, nil
}

// Episodes returns the number of completed episodes.
func (a *Agent) Episodes() int {
	return a.episodes
}

// Epsilon returns the current exploration threshold out of Config.EpsilonRange.
func (a *Agent) Epsilon() int {
	return a.epsilon
}

func (a *Agent) Phase() Phase {
	return a.phase
}

// Memory exposes the replay memory for inspection.
func (a *Agent) Memory() *ReplayMemory {
	return a.memory
}

// Predict evaluates a state with the current weights.
func (a *Agent) Predict(s ai.StateVector) (QValues, error) {
	return a.trainer.Predict(s)
}
