package cmd

import (
	"snake-game/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	defaults   = config.Default()
	configPath string

	episodes    int
	seed        uint64
	statsDir    string
	plotFile    string
	saveEvery   int
	metricsAddr string
	logLevel    string
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	cmd.PersistentFlags().IntVar(&episodes, "episodes", defaults.Run.Episodes, "Number of games to play (0 plays until interrupted)")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", defaults.Run.Seed, "Random seed")
	cmd.PersistentFlags().StringVar(&statsDir, "stats-dir", defaults.Run.StatsDir, "Directory for stats and plots")
	cmd.PersistentFlags().StringVar(&plotFile, "plot-file", defaults.Run.PlotFile, "Plot file name inside the run directory")
	cmd.PersistentFlags().IntVar(&saveEvery, "save-every", defaults.Run.SaveEvery, "Save results every N games (0 saves only at the end)")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", defaults.Run.MetricsAddr, "Address to serve prometheus metrics on")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.Run.LogLevel, "Log level")
}

// loadConfig reads the config file, if any, and applies the flags the user
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("episodes") {
		cfg.Run.Episodes = episodes
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("stats-dir") {
		cfg.Run.StatsDir = statsDir
	}
	if flags.Changed("plot-file") {
		cfg.Run.PlotFile = plotFile
	}
	if flags.Changed("save-every") {
		cfg.Run.SaveEvery = saveEvery
	}
	if flags.Changed("metrics-addr") {
		cfg.Run.MetricsAddr = metricsAddr
	}
	if flags.Changed("log-level") {
		cfg.Run.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}
