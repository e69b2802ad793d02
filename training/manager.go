package training

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"snake-game/ai"
	"snake-game/config"
	"snake-game/game"
	"snake-game/metrics"
	"snake-game/qlearning"
	"snake-game/stats"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

const (
	statsFile    = "stats.json"
	saveAttempts = 3
)

// Manager plays episodes with one agent, feeds the score board and the
// metrics, and saves the results periodically.
type Manager struct {
	cfg      config.Run
	game     *game.Game
	agent    *qlearning.Agent
	board    *stats.ScoreBoard
	recorder *metrics.Recorder
	log      logrus.FieldLogger
	progress io.Writer

	mutex        sync.RWMutex
	isTraining   bool
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	err          error
	episodeSteps int
	totalScore   int
}

// NewManager builds the game, the agent and their collaborators from cfg.
// progress receives one line per episode and may be nil.
func NewManager(cfg config.Config, log logrus.FieldLogger, progress io.Writer) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if progress == nil {
		progress = io.Discard
	}

	board := stats.NewScoreBoard()
	log = log.WithField("run", board.RunID)

	agent, err := qlearning.NewAgent(
		cfg.Agent,
		ai.NewStateEncoder(cfg.Game.Grid),
		rand.New(rand.NewSource(cfg.Run.Seed)),
		board,
		log,
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:      cfg.Run,
		game:     game.NewGame(cfg.Game, rand.New(rand.NewSource(cfg.Run.Seed+1))),
		agent:    agent,
		board:    board,
		recorder: metrics.NewRecorder(),
		log:      log,
		progress: progress,
	}, nil
}

// Run plays until the configured number of episodes is reached or ctx is
// done. Results are saved before it returns. Cancellation is a normal stop
// and is not reported as an error.
func (m *Manager) Run(ctx context.Context) error {
	m.log.WithFields(logrus.Fields{
		"episodes": m.cfg.Episodes,
		"seed":     m.cfg.Seed,
	}).Info("training started")

	err := m.loop(ctx)
	if saveErr := m.save(); saveErr != nil && err == nil {
		err = saveErr
	}

	m.log.WithFields(logrus.Fields{
		"games":  m.board.GetGamesPlayed(),
		"record": m.board.GetRecord(),
		"mean":   m.board.GetAverageScore(),
	}).Info("training stopped")
	return err
}

func (m *Manager) loop(ctx context.Context) error {
	for m.cfg.Episodes == 0 || m.agent.Episodes() < m.cfg.Episodes {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		res, err := m.agent.Step(m.game)
		if err != nil {
			return errors.Wrapf(err, "game %d", m.agent.Episodes()+1)
		}
		m.episodeSteps++

		if err := m.recorder.Observe(metrics.Step{
			ShortLoss:   res.ShortLoss,
			LongLoss:    res.LongLoss,
			LongTrained: res.LongTrained,
			Epsilon:     res.Epsilon,
			Memory:      m.agent.Memory().Len(),
		}); err != nil {
			m.log.WithError(err).WithField("game", res.Episodes).Error("training loss is not finite")
		}

		if res.Done {
			m.endEpisode(res)
		}
	}
	return nil
}

// endEpisode aggiorna le statistiche quando il serpente muore
func (m *Manager) endEpisode(res qlearning.StepResult) {
	record := m.board.GetRecord()
	m.recorder.ObserveEpisode(res.Score, record, m.episodeSteps)
	m.totalScore += res.Score

	fields := logrus.Fields{
		"game":    res.Episodes,
		"score":   res.Score,
		"record":  record,
		"epsilon": res.Epsilon,
		"steps":   m.episodeSteps,
	}
	if res.LongTrained {
		fields["loss"] = res.LongLoss
	}
	m.log.WithFields(fields).Info("game finished")
	m.episodeSteps = 0

	fmt.Fprintf(m.progress, "Game %d  Score %d  Record %d  Mean %.2f  Epsilon %d\n",
		res.Episodes, res.Score, record, float64(m.totalScore)/float64(res.Episodes), res.Epsilon)
	if f, ok := m.progress.(interface{ Flush() error }); ok {
		f.Flush()
	}

	if m.cfg.SaveEvery > 0 && res.Episodes%m.cfg.SaveEvery == 0 {
		if err := m.save(); err != nil {
			m.log.WithError(err).WithField("game", res.Episodes).Warn("failed to save results")
		}
	}
}

// save writes the score board and its plot, retrying a few times.
func (m *Manager) save() error {
	if m.cfg.StatsDir == "" {
		return nil
	}

	var err error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		if err = m.saveOnce(); err == nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.Wrapf(err, "failed after %d attempts", saveAttempts)
}

func (m *Manager) saveOnce() error {
	dir := m.RunDir()
	if err := m.board.SaveToFile(filepath.Join(dir, statsFile)); err != nil {
		return err
	}
	if m.cfg.PlotFile == "" || m.board.GetGamesPlayed() == 0 {
		return nil
	}
	return m.board.PlotPNG(filepath.Join(dir, m.cfg.PlotFile))
}

// StartTraining avvia il loop di training in un goroutine separato
func (m *Manager) StartTraining(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.isTraining {
		return
	}
	m.isTraining = true

	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := m.Run(ctx)

		m.mutex.Lock()
		m.err = err
		m.isTraining = false
		m.mutex.Unlock()
	}()
}

// StopTraining ferma il training e attende il salvataggio dei risultati.
func (m *Manager) StopTraining() error {
	m.mutex.RLock()
	cancel := m.cancel
	m.mutex.RUnlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	return m.Err()
}

// Wait blocks until a started training finishes on its own.
func (m *Manager) Wait() error {
	m.wg.Wait()
	return m.Err()
}

// Err is the result of the last background run.
func (m *Manager) Err() error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.err
}

func (m *Manager) IsTraining() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.isTraining
}

// RunDir is where the results of this run are saved.
func (m *Manager) RunDir() string {
	return filepath.Join(m.cfg.StatsDir, m.board.RunID)
}

func (m *Manager) Board() *stats.ScoreBoard {
	return m.board
}

func (m *Manager) Recorder() *metrics.Recorder {
	return m.recorder
}

func (m *Manager) Agent() *qlearning.Agent {
	return m.agent
}
