// Package validity implements the post-episode pass that collapses
// consecutive repeated control actions into runs, tags each timestep
// with a run-length count, and rewrites each run's rewards as a single
// aggregated value.
package validity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/gotrace/episode"
	"github.com/samuelfneumann/gotrace/schema"
	"github.com/samuelfneumann/gotrace/utils/floatutils"
)

// Aggregator collapses the per-step rewards collected within one run
// of repeated control actions into a single scalar bounded by rMax and
// rMin. The rewards slice may be empty for a single-step run.
type Aggregator func(rewards []float64, rMax, rMin float64) float64

// ClampedSum sums the argument rewards and clips the sum into
// [rMin, rMax]
func ClampedSum(rewards []float64, rMax, rMin float64) float64 {
	return floatutils.Clip(floats.Sum(rewards), rMin, rMax)
}

// Analyzer performs the validity pass over a finished episode. The
// Aggregate strategy and its reward bounds are supplied by the caller,
// since reward aggregation is specific to the environment that
// produced the rewards.
type Analyzer struct {
	Aggregate  Aggregator
	RMax, RMin float64
}

// New creates and returns a new Analyzer with the argument aggregation
// strategy and reward bounds
func New(aggregate Aggregator, rMax, rMin float64) (Analyzer, error) {
	if aggregate == nil {
		return Analyzer{}, fmt.Errorf("new: no aggregator given")
	}
	return Analyzer{Aggregate: aggregate, RMax: rMax, RMin: rMin}, nil
}

// Analyze runs the validity pass over the argument buffer, which must
// declare the reserved control and validity action components with a
// per-timestep stride of 1 for validity.
//
// For each start index i, Analyze scans forward while consecutive
// control rows are equal, counting the run length and collecting the
// rewards of the repeated steps. On the first mismatch at index j, the
// collected rewards are collapsed through the Aggregate strategy and
// written back over rewards[i:j); the run-length count is stored in
// validity[i]. A run that reaches the final timestep is counted but
// its rewards are left exactly as recorded: the write-back only
// happens on a mismatch, so a fully repeated tail run is never
// rewritten. Downstream consumers of the trace files depend on this
// behaviour, so it is kept as is.
//
// The forward rescan from every start index makes Analyze O(T^2) in
// the worst case. T is the length of one episode, at most a few
// hundred steps, so the quadratic pass is not on any critical path.
func (a Analyzer) Analyze(b *episode.Buffer) error {
	if a.Aggregate == nil {
		return fmt.Errorf("analyze: no aggregator given")
	}

	control, ok := b.ActionData(schema.Control)
	if !ok {
		return fmt.Errorf("analyze: buffer has no %q action component",
			schema.Control)
	}
	valid, ok := b.ActionData(schema.Validity)
	if !ok {
		return fmt.Errorf("analyze: buffer has no %q action component",
			schema.Validity)
	}
	if stride := b.Actions().Stride(schema.Validity); stride != 1 {
		return fmt.Errorf("analyze: %q must be scalar, has stride %d",
			schema.Validity, stride)
	}

	stride := b.Actions().Stride(schema.Control)
	rewards := b.Rewards()
	T := b.MaxTimesteps()

	for i := 0; i < T; i++ {
		validity := 1.0
		var collected []float64

		for j := i; j < T-1; j++ {
			if controlEqual(control, stride, j) {
				validity++
				collected = append(collected, rewards[j])
				continue
			}

			aggregated := a.Aggregate(collected, a.RMax, a.RMin)
			for k := i; k < j; k++ {
				rewards[k] = aggregated
			}
			break
		}

		valid[i] = validity
	}

	return nil
}

// controlEqual returns whether the control rows at timesteps j and j+1
// are element-wise equal
func controlEqual(control []float64, stride, j int) bool {
	return floats.Equal(control[j*stride:(j+1)*stride],
		control[(j+1)*stride:(j+2)*stride])
}
