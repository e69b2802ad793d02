package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GameRecord rappresenta i dati di una partita.
type GameRecord struct {
	Episode int       `json:"episode"`
	Score   int       `json:"score"`
	EndTime time.Time `json:"endTime"`
}

// ScoreBoard is the append-only record of per-episode scores for one run.
type ScoreBoard struct {
	RunID     string       `json:"runId"`
	StartTime time.Time    `json:"startTime"`
	Games     []GameRecord `json:"games"`
	Record    int          `json:"record"`

	mutex sync.RWMutex
	now   func() time.Time
}

// NewScoreBoard starts a board for a new run with a fresh run id.
func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
		Games:     make([]GameRecord, 0),
		now:       time.Now,
	}
}

// Append records the score of the next finished episode.
func (s *ScoreBoard) Append(score int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Games = append(s.Games, GameRecord{
		Episode: len(s.Games) + 1,
		Score:   score,
		EndTime: s.now(),
	})
	if score > s.Record {
		s.Record = score
	}
}

// Scores returns the scores in episode order.
func (s *ScoreBoard) Scores() []int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]int, len(s.Games))
	for i, g := range s.Games {
		out[i] = g.Score
	}
	return out
}

// GetRecord restituisce il punteggio massimo registrato.
func (s *ScoreBoard) GetRecord() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Record
}

// GetGamesPlayed restituisce il numero totale di partite giocate.
func (s *ScoreBoard) GetGamesPlayed() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Games)
}

// GetAverageScore calcola e restituisce il punteggio medio.
func (s *ScoreBoard) GetAverageScore() float64 {
	return mean(s.Scores())
}

// GetRecentAverage averages the last n scores.
func (s *ScoreBoard) GetRecentAverage(n int) float64 {
	scores := s.Scores()
	if n < len(scores) {
		scores = scores[len(scores)-n:]
	}
	return mean(scores)
}

// GetMedianScore calcola e restituisce il punteggio mediano.
func (s *ScoreBoard) GetMedianScore() float64 {
	scores := s.Scores()
	if len(scores) == 0 {
		return 0
	}
	sort.Ints(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		return float64(scores[mid-1]+scores[mid]) / 2
	}
	return float64(scores[mid])
}

func mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, v := range scores {
		total += v
	}
	return float64(total) / float64(len(scores))
}

// SaveToFile salva le statistiche su file in formato JSON.
func (s *ScoreBoard) SaveToFile(filename string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "failed to create stats directory")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal stats data")
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write stats file")
	}
	return nil
}

// LoadFromFile reads a board written by SaveToFile.
func LoadFromFile(filename string) (*ScoreBoard, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stats file")
	}

	s := &ScoreBoard{now: time.Now}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal stats data")
	}
	return s, nil
}
