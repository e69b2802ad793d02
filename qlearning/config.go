package qlearning

import "github.com/pkg/errors"

const (
	// Parametri di apprendimento
	LearningRate = 0.001
	Gamma        = 0.9

	// Parametri DQN
	BatchSize        = 1000
	ReplayBufferSize = 100_000
	HiddenLayerSize  = 256

	// epsilon starts at EpsilonBase out of EpsilonRange and reaches 0 after
	// EpsilonBase episodes
	EpsilonBase  = 80
	EpsilonRange = 200
)

// Config carries the agent hyper-parameters.
type Config struct {
	ReplayCapacity int     `yaml:"replay_capacity"`
	BatchSize      int     `yaml:"batch_size"`
	LearningRate   float64 `yaml:"learning_rate"`
	Gamma          float64 `yaml:"gamma"`
	HiddenSize     int     `yaml:"hidden_size"`
	EpsilonBase    int     `yaml:"epsilon_base"`
	EpsilonRange   int     `yaml:"epsilon_range"`
}

func DefaultConfig() Config {
	return Config{
		ReplayCapacity: ReplayBufferSize,
		BatchSize:      BatchSize,
		LearningRate:   LearningRate,
		Gamma:          Gamma,
		HiddenSize:     HiddenLayerSize,
		EpsilonBase:    EpsilonBase,
		EpsilonRange:   EpsilonRange,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ReplayCapacity < 1:
		return errors.Errorf("replay_capacity must be positive, got %d", c.ReplayCapacity)
	case c.BatchSize < 1:
		return errors.Errorf("batch_size must be positive, got %d", c.BatchSize)
	case c.LearningRate <= 0:
		return errors.Errorf("learning_rate must be positive, got %g", c.LearningRate)
	case c.Gamma < 0 || c.Gamma > 1:
		return errors.Errorf("gamma must be in [0,1], got %g", c.Gamma)
	case c.HiddenSize < 1:
		return errors.Errorf("hidden_size must be positive, got %d", c.HiddenSize)
	case c.EpsilonBase < 0:
		return errors.Errorf("epsilon_base must not be negative, got %d", c.EpsilonBase)
	case c.EpsilonRange < 1:
		return errors.Errorf("epsilon_range must be positive, got %d", c.EpsilonRange)
	}
	return nil
}
