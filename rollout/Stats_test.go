package rollout

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// rewardTrajectory builds a trajectory with the given per-step rewards
// and a monitor reward of twice the step reward
func rewardTrajectory(rewards ...float64) Trajectory {
	steps := make([]Step, len(rewards))
	for i, r := range rewards {
		steps[i] = Step{
			Observation: mat.NewVecDense(1, []float64{float64(i)}),
			Action:      mat.NewVecDense(1, nil),
			Reward:      r,
			Monitor:     2 * r,
			Done:        i == len(rewards)-1,
		}
	}
	return Trajectory{Steps: steps}
}

const tolerance = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestStats(t *testing.T) {
	trajs := []Trajectory{
		rewardTrajectory(1),
		rewardTrajectory(1, 1),
		rewardTrajectory(1, 1, 1),
	}

	stats, err := Stats(trajs)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.Episodes != 3 {
		t.Errorf("got %d episodes, want 3", stats.Episodes)
	}

	// Returns are 1, 2, 3
	if stats.Return.Min != 1 || stats.Return.Max != 3 {
		t.Errorf("return bounds [%v, %v], want [1, 3]", stats.Return.Min,
			stats.Return.Max)
	}
	if !near(stats.Return.Mean, 2) {
		t.Errorf("return mean %v, want 2", stats.Return.Mean)
	}
	if !near(stats.Return.Std, 1) {
		t.Errorf("return std %v, want 1 (sample standard deviation)",
			stats.Return.Std)
	}

	// Monitor returns are doubled
	if !near(stats.Monitor.Mean, 4) {
		t.Errorf("monitor mean %v, want 4", stats.Monitor.Mean)
	}

	// Lengths are 1, 2, 3
	if stats.Length.Min != 1 || stats.Length.Max != 3 ||
		!near(stats.Length.Mean, 2) {
		t.Errorf("length summary %+v, want min 1, mean 2, max 3",
			stats.Length)
	}
}

func TestStatsSingleEpisode(t *testing.T) {
	stats, err := Stats([]Trajectory{rewardTrajectory(3, 3)})
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.Episodes != 1 {
		t.Errorf("got %d episodes, want 1", stats.Episodes)
	}
	if stats.Return.Std != 0 {
		t.Errorf("single-episode std is %v, want 0", stats.Return.Std)
	}
	if stats.Return.Min != stats.Return.Max {
		t.Errorf("single-episode min %v and max %v differ",
			stats.Return.Min, stats.Return.Max)
	}
}

func TestStatsEmpty(t *testing.T) {
	if _, err := Stats(nil); err == nil {
		t.Error("expected an error for an empty trajectory set")
	}
	if _, err := Stats([]Trajectory{}); err == nil {
		t.Error("expected an error for an empty trajectory set")
	}
}
