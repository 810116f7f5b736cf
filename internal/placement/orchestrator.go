package placement

import (
	"fmt"
	"math"
	"time"

	"github.com/woozymasta/windmap/internal/config"
	"github.com/woozymasta/windmap/internal/dataset"

	"github.com/rs/zerolog/log"
)

const capacityDecimals = 2

// State is the progress of an Orchestrator run.
type State int

const (
	StatePending State = iota
	StateProcessingZone
	StateAssembled
	StateFinalized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessingZone:
		return "processing_zone"
	case StateAssembled:
		return "assembled"
	case StateFinalized:
		return "finalized"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is a successful generation run.
type Result struct {
	Dataset *dataset.Dataset
	// Zones in processing order.
	Zones []ZoneResult
}

// Orchestrator drives the sampler over every zone of a plan with a single
// random stream and assembles the final dataset.
type Orchestrator struct {
	plan    *config.Plan
	sampler *Sampler
	src     Source
	now     func() time.Time
	failure error
	state   State
	zone    int
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSource replaces the stream derived from the plan seed.
func WithSource(src Source) Option {
	return func(o *Orchestrator) { o.src = src }
}

// WithSampler replaces the default sampling schedule.
func WithSampler(s *Sampler) Option {
	return func(o *Orchestrator) { o.sampler = s }
}

// WithClock sets the clock used for the generated_at timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New prepares a run of plan. The random stream is created here, once.
func New(plan *config.Plan, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		plan:  plan,
		now:   time.Now,
		state: StatePending,
		zone:  -1,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.src == nil {
		o.src = NewSource(plan.Seed)
	}
	if o.sampler == nil {
		o.sampler = NewSampler(plan.Land())
	}

	return o
}

// State returns the current run state.
func (o *Orchestrator) State() State { return o.state }

// FailedZone returns the index (in processing order) of the zone that failed
// and its error. The index is -1 when the plan itself was rejected.
func (o *Orchestrator) FailedZone() (int, error) {
	if o.state != StateFailed {
		return -1, nil
	}
	return o.zone, o.failure
}

// Run samples all zones in ascending cluster order, assigns identifiers and
// capacities, and shuffles the fleet. Any failure aborts the whole run and no
// dataset is returned. A run cannot be repeated.
func (o *Orchestrator) Run() (*Result, error) {
	if o.state != StatePending {
		return nil, fmt.Errorf("orchestrator already ran (state %s)", o.state)
	}

	if err := o.plan.Validate(); err != nil {
		return nil, o.fail(-1, err)
	}

	zones := o.plan.SortedZones()
	capLo, capHi := o.plan.CapacityRange[0], o.plan.CapacityRange[1]

	turbines := make([]dataset.Turbine, 0, o.plan.TotalCount())
	results := make([]ZoneResult, 0, len(zones))

	for i, z := range zones {
		o.state, o.zone = StateProcessingZone, i
		start := time.Now()

		res, err := o.sampler.Sample(o.src, z)
		if err != nil {
			return nil, o.fail(i, err)
		}

		for _, p := range res.Points {
			turbines = append(turbines, dataset.Turbine{
				TurbineID: dataset.FormatID(len(turbines)),
				ClusterID: z.ClusterID,
				Latitude:  p.Lat,
				Longitude: p.Lon,
				Capacity:  drawCapacity(o.src, capLo, capHi),
			})
		}
		results = append(results, res)

		log.Info().
			Int("cluster", z.ClusterID).
			Str("region", z.Label).
			Int("count", len(res.Points)).
			Int("trials", res.Trials).
			Int("relaxations", res.Relaxations).
			Float64("min_dist", res.FinalMinDistance).
			Dur("duration", time.Since(start)).
			Msg("Zone placed")
	}

	o.state = StateAssembled
	shuffle(o.src, turbines)

	ds := &dataset.Dataset{
		Metadata: o.metadata(zones, len(turbines)),
		Turbines: turbines,
	}
	if err := ds.Validate(); err != nil {
		return nil, o.fail(len(zones)-1, err)
	}

	o.state = StateFinalized
	return &Result{Dataset: ds, Zones: results}, nil
}

func (o *Orchestrator) fail(zone int, err error) error {
	o.state, o.zone, o.failure = StateFailed, zone, err
	return err
}

func (o *Orchestrator) metadata(zones []config.Zone, total int) dataset.Metadata {
	md := dataset.Metadata{
		GeneratedAt:         o.now().UTC(),
		TotalTurbines:       total,
		ClusterDistribution: make(map[string]int, len(zones)),
		Regions:             make(map[string]string, len(zones)),
		CapacityRangeMW:     o.plan.CapacityRange,
	}
	for _, z := range zones {
		key := dataset.ClusterKey(z.ClusterID)
		md.ClusterDistribution[key] = z.Count
		md.Regions[key] = z.Label
	}
	return md
}

// drawCapacity consumes one draw and rounds it to 0.01 MW within [lo, hi].
func drawCapacity(src Source, lo, hi float64) float64 {
	v := roundTo(uniform(src, lo, hi), capacityDecimals)
	return math.Min(math.Max(v, lo), hi)
}
