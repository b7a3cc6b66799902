package rollout

import "fmt"

// StopCondition is a predicate over the trajectories accumulated so
// far. Trajectory generation stops once the condition returns true.
// Conditions are evaluated incrementally as episodes complete.
type StopCondition func(trajs []Trajectory) bool

// MinEpisodes returns a StopCondition satisfied once at least n
// episodes have completed. n must be positive: a non-positive n could
// never be used to make progress, so it is rejected here rather than
// letting generation run forever.
func MinEpisodes(n int) (StopCondition, error) {
	if n <= 0 {
		return nil, fmt.Errorf("minepisodes: episode count must be "+
			"positive, got %d", n)
	}

	return func(trajs []Trajectory) bool {
		return len(trajs) >= n
	}, nil
}

// MinTimesteps returns a StopCondition satisfied once the completed
// episodes contain at least n timesteps in total. n must be positive.
func MinTimesteps(n int) (StopCondition, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mintimesteps: timestep count must be "+
			"positive, got %d", n)
	}

	return func(trajs []Trajectory) bool {
		total := 0
		for _, traj := range trajs {
			total += traj.Len()
		}
		return total >= n
	}, nil
}

// All returns a StopCondition satisfied only when every given
// condition is satisfied
func All(conds ...StopCondition) StopCondition {
	return func(trajs []Trajectory) bool {
		for _, cond := range conds {
			if !cond(trajs) {
				return false
			}
		}
		return true
	}
}
