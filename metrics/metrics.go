// Package metrics exposes training progress as prometheus collectors.
package metrics

import (
	"math"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "snake"

// ErrNonFiniteLoss is returned when a training step reports a NaN or
// infinite loss.
var ErrNonFiniteLoss = errors.New("non-finite loss")

// Recorder holds the collectors of one training run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	steps          prometheus.Counter
	episodes       prometheus.Counter
	longTrainings  prometheus.Counter
	nonFiniteLoss  *prometheus.CounterVec
	epsilon        prometheus.Gauge
	memory         prometheus.Gauge
	lastScore      prometheus.Gauge
	record         prometheus.Gauge
	loss           *prometheus.GaugeVec
	episodeLengths prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Environment steps taken by the agent.",
		}),
		episodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_total",
			Help:      "Completed episodes.",
		}),
		longTrainings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "long_trainings_total",
			Help:      "Batched updates over the replay memory.",
		}),
		nonFiniteLoss: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "non_finite_loss_total",
			Help:      "Training updates that reported a NaN or infinite loss.",
		}, []string{"phase"}),
		epsilon: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "epsilon",
			Help:      "Current exploration threshold.",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replay_memory_size",
			Help:      "Transitions held in the replay memory.",
		}),
		lastScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_score",
			Help:      "Score of the last completed episode.",
		}),
		record: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_score",
			Help:      "Best score so far.",
		}),
		loss: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loss",
			Help:      "Last finite training loss.",
		}, []string{"phase"}),
		episodeLengths: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "episode_steps",
			Help:      "Steps per completed episode.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
	}

	r.registry.MustRegister(
		r.steps,
		r.episodes,
		r.longTrainings,
		r.nonFiniteLoss,
		r.epsilon,
		r.memory,
		r.lastScore,
		r.record,
		r.loss,
		r.episodeLengths,
	)
	return r
}

// Step is what the recorder needs to know about one agent step.
type Step struct {
	ShortLoss   float64
	LongLoss    float64
	LongTrained bool
	Epsilon     int
	Memory      int
}

// Observe records one step. A non-finite loss is counted and reported with
// ErrNonFiniteLoss; the remaining collectors are still updated.
func (r *Recorder) Observe(s Step) error {
	r.steps.Inc()
	r.epsilon.Set(float64(s.Epsilon))
	r.memory.Set(float64(s.Memory))

	var err error
	if e := r.observeLoss("short", s.ShortLoss); e != nil {
		err = e
	}
	if s.LongTrained {
		r.longTrainings.Inc()
		if e := r.observeLoss("long", s.LongLoss); e != nil {
			err = e
		}
	}
	return err
}

// ObserveEpisode records the end of an episode that lasted steps steps.
func (r *Recorder) ObserveEpisode(score, record, steps int) {
	r.episodes.Inc()
	r.lastScore.Set(float64(score))
	r.record.Set(float64(record))
	r.episodeLengths.Observe(float64(steps))
}

func (r *Recorder) observeLoss(phase string, loss float64) error {
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		r.nonFiniteLoss.WithLabelValues(phase).Inc()
		return errors.Wrapf(ErrNonFiniteLoss, "%s training loss %v", phase, loss)
	}
	r.loss.WithLabelValues(phase).Set(loss)
	return nil
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's collectors in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
