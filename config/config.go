// Package config holds the settings of a training run.
package config

import (
	"os"

	"snake-game/game"
	"snake-game/qlearning"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Run configures the host loop around the agent.
type Run struct {
	// Episodes to play; 0 means until interrupted.
	Episodes  int    `yaml:"episodes"`
	Seed      uint64 `yaml:"seed"`
	StatsDir  string `yaml:"stats_dir"`
	PlotFile  string `yaml:"plot_file"`
	SaveEvery int    `yaml:"save_every"`
	// MetricsAddr enables the prometheus endpoint when not empty.
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

type Config struct {
	Agent qlearning.Config `yaml:"agent"`
	Game  game.Config      `yaml:"game"`
	Run   Run              `yaml:"run"`
}

func Default() Config {
	return Config{
		Agent: qlearning.DefaultConfig(),
		Game:  game.DefaultConfig(),
		Run: Run{
			Episodes:  0,
			Seed:      1,
			StatsDir:  "data/games",
			PlotFile:  "scores.png",
			SaveEvery: 100,
			LogLevel:  "info",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return errors.Wrap(err, "agent")
	}
	if c.Game.Grid.BlockSize <= 0 || c.Game.Grid.Width() < 2 || c.Game.Grid.Height() < 1 {
		return errors.Errorf("game: grid %vx%v with block %v has no room to play",
			c.Game.Grid.ScreenWidth, c.Game.Grid.ScreenHeight, c.Game.Grid.BlockSize)
	}
	if c.Game.InitialLength < 1 || c.Game.InitialLength > c.Game.Grid.Width()/2 {
		return errors.Errorf("game: initial_length %d does not fit the grid", c.Game.InitialLength)
	}
	if c.Game.FrameLimitPerSegment < 1 {
		return errors.Errorf("game: frame_limit_per_segment must be positive, got %d", c.Game.FrameLimitPerSegment)
	}
	if c.Run.Episodes < 0 {
		return errors.Errorf("run: episodes must not be negative, got %d", c.Run.Episodes)
	}
	if c.Run.SaveEvery < 0 {
		return errors.Errorf("run: save_every must not be negative, got %d", c.Run.SaveEvery)
	}
	if _, err := logrus.ParseLevel(c.Run.LogLevel); err != nil {
		return errors.Wrap(err, "run")
	}
	return nil
}

// YAML encodes the config in the format Load reads.
func (c Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	return data, errors.Wrap(err, "failed to marshal config")
}

// Save writes the config as YAML.
func (c Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "failed to write config")
}
