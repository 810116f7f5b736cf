// Package metrics collects generation statistics for the node exporter
// textfile collector.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/woozymasta/windmap/internal/placement"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors of one generator process.
type Recorder struct {
	registry *prometheus.Registry

	Trials          *prometheus.CounterVec
	Relaxations     *prometheus.CounterVec
	Placed          *prometheus.GaugeVec
	FinalMinDist    *prometheus.GaugeVec
	Failures        *prometheus.CounterVec
	RunDuration     prometheus.Gauge
	LastSuccessTime prometheus.Gauge
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windmap_sampling_trials_total",
			Help: "Candidate positions drawn per cluster",
		}, []string{"cluster"}),
		Relaxations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windmap_sampling_relaxations_total",
			Help: "Minimum distance relaxations per cluster",
		}, []string{"cluster"}),
		Placed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "windmap_turbines_placed",
			Help: "Turbines placed per cluster in the last run",
		}, []string{"cluster"}),
		FinalMinDist: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "windmap_final_min_distance_degrees",
			Help: "Minimum distance in effect when a cluster finished",
		}, []string{"cluster"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windmap_generation_failures_total",
			Help: "Failed generation runs by reason",
		}, []string{"reason"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "windmap_generation_duration_seconds",
			Help: "Wall time of the last generation run",
		}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "windmap_generation_last_success_timestamp_seconds",
			Help: "Unix time of the last successful generation run",
		}),
	}

	r.registry.MustRegister(
		r.Trials,
		r.Relaxations,
		r.Placed,
		r.FinalMinDist,
		r.Failures,
		r.RunDuration,
		r.LastSuccessTime,
	)

	return r
}

// ObserveZone records the statistics of one sampled zone.
func (r *Recorder) ObserveZone(z placement.ZoneResult) {
	cluster := strconv.Itoa(z.ClusterID)
	r.Trials.WithLabelValues(cluster).Add(float64(z.Trials))
	r.Relaxations.WithLabelValues(cluster).Add(float64(z.Relaxations))
	r.Placed.WithLabelValues(cluster).Set(float64(len(z.Points)))
	r.FinalMinDist.WithLabelValues(cluster).Set(z.FinalMinDistance)
}

// ObserveRun records a finished run. err is the run error, if any.
func (r *Recorder) ObserveRun(res *placement.Result, err error, took time.Duration, now time.Time) {
	r.RunDuration.Set(took.Seconds())

	if err != nil {
		r.Failures.WithLabelValues(reason(err)).Inc()
		return
	}

	for _, z := range res.Zones {
		r.ObserveZone(z)
	}
	r.LastSuccessTime.Set(float64(now.Unix()))
}

// WriteTextfile atomically writes all metrics in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func reason(err error) string {
	switch {
	case errors.Is(err, placement.ErrInfeasiblePlacement):
		return "infeasible"
	default:
		return "invalid"
	}
}
