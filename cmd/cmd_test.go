package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"snake-game/config"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v2"
)

func execute(args ...string) (string, error) {
	root := RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	Convey("Flags override the config file", t, func() {
		path := filepath.Join(t.TempDir(), "in.yaml")
		So(os.WriteFile(path, []byte("run:\n  episodes: 5\n  seed: 9\n"), 0644), ShouldBeNil)

		out, err := execute("config", "--config", path, "--episodes", "12")
		So(err, ShouldBeNil)

		var cfg config.Config
		So(yaml.Unmarshal([]byte(out), &cfg), ShouldBeNil)
		So(cfg.Run.Episodes, ShouldEqual, 12)
		So(cfg.Run.Seed, ShouldEqual, 9)
		So(cfg.Agent.BatchSize, ShouldEqual, 1000)
	})

	Convey("The config can be written to a file", t, func() {
		path := filepath.Join(t.TempDir(), "out.yaml")
		_, err := execute("config", path, "--log-level", "debug")
		So(err, ShouldBeNil)

		cfg, err := config.Load(path)
		So(err, ShouldBeNil)
		So(cfg.Run.LogLevel, ShouldEqual, "debug")
	})

	Convey("An invalid flag value is refused", t, func() {
		_, err := execute("config", "--log-level", "chatty")
		So(err, ShouldNotBeNil)
	})
}

func TestTrainCommand(t *testing.T) {
	Convey("A short training run saves its results", t, func() {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "train.yaml")
		So(os.WriteFile(cfgPath, []byte(`
agent:
  replay_capacity: 20
  batch_size: 4
  hidden_size: 4
game:
  grid:
    block_size: 20
    screen_width: 160
    screen_height: 160
`), 0644), ShouldBeNil)

		_, err := execute("train", "--config", cfgPath, "--episodes", "2", "--stats-dir", dir, "--log-level", "error")
		So(err, ShouldBeNil)

		runs, err := filepath.Glob(filepath.Join(dir, "*", "stats.json"))
		So(err, ShouldBeNil)
		So(len(runs), ShouldEqual, 1)
	})
}
