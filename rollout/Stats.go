package rollout

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/goimitate/utils/floatutils"
)

// Summary is an aggregate numeric summary of a set of values
type Summary struct {
	Min  float64
	Mean float64
	Std  float64
	Max  float64
}

// Statistics aggregates a set of trajectories: the number of
// completed episodes along with summaries of the episodic returns,
// the ground-truth (monitor) returns, and the episode lengths.
//
// The set of fields is fixed: Statistics computed over any non-empty
// trajectory set have the same shape.
type Statistics struct {
	Episodes int
	Return   Summary
	Monitor  Summary
	Length   Summary
}

// summarize computes a Summary of values. The standard deviation is
// the sample standard deviation, taken as 0 for a single value.
func summarize(values []float64) Summary {
	std := 0.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	return Summary{
		Min:  floatutils.Min(values...),
		Mean: stat.Mean(values, nil),
		Std:  std,
		Max:  floatutils.Max(values...),
	}
}

// Stats computes aggregate statistics over a set of trajectories. At
// least one trajectory is required.
func Stats(trajs []Trajectory) (Statistics, error) {
	if len(trajs) == 0 {
		return Statistics{}, fmt.Errorf("stats: no trajectories given")
	}

	returns := make([]float64, len(trajs))
	monitors := make([]float64, len(trajs))
	lengths := make([]float64, len(trajs))

	for i, traj := range trajs {
		returns[i] = traj.Return()
		monitors[i] = traj.MonitorReturn()
		lengths[i] = float64(traj.Len())
	}

	return Statistics{
		Episodes: len(trajs),
		Return:   summarize(returns),
		Monitor:  summarize(monitors),
		Length:   summarize(lengths),
	}, nil
}
