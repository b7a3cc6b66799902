// Package rollout implements trajectory generation from policies
// acting in vectorized environments, along with stopping criteria and
// aggregate statistics over the generated trajectories
package rollout

import "gonum.org/v1/gonum/mat"

// Step records one transition of an episode: the observation the
// action was selected in, the action, the resulting rewards, and
// whether the transition ended the episode.
//
// Reward is the reward the acting policy saw, which environment
// wrappers may have substituted. Monitor is the ground-truth reward
// of the innermost environment.
type Step struct {
	Observation mat.Vector
	Action      *mat.VecDense
	Reward      float64
	Monitor     float64
	Done        bool
}

// Trajectory is the ordered sequence of steps of a single completed
// episode. Trajectories are immutable once produced: neither the
// slice nor its steps may be modified after generation.
type Trajectory struct {
	Steps []Step
}

// Len returns the number of steps in the trajectory
func (t Trajectory) Len() int {
	return len(t.Steps)
}

// Return returns the undiscounted sum of rewards of the trajectory
func (t Trajectory) Return() float64 {
	var total float64
	for _, step := range t.Steps {
		total += step.Reward
	}
	return total
}

// MonitorReturn returns the undiscounted sum of ground-truth rewards
// of the trajectory. For trajectories generated on unwrapped
// environments this equals Return().
func (t Trajectory) MonitorReturn() float64 {
	var total float64
	for _, step := range t.Steps {
		total += step.Monitor
	}
	return total
}
