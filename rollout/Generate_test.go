package rollout

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/goimitate/environment"
	"github.com/samuelfneumann/goimitate/environment/vector"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// fixedEnv is an Environment whose episodes last exactly episodeLen
// steps, each giving reward 1.0. Observations are one-dimensional and
// hold the current step number.
type fixedEnv struct {
	episodeLen int
	step       int
}

func (f *fixedEnv) Start() mat.Vector {
	return mat.NewVecDense(1, nil)
}

func (f *fixedEnv) GetReward(_, _, _ mat.Vector) float64 {
	return 1.0
}

func (f *fixedEnv) AtGoal(mat.Matrix) bool {
	return false
}

func (f *fixedEnv) End(t *ts.TimeStep) bool {
	if t.Number >= f.episodeLen {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return false
}

func (f *fixedEnv) Reset() ts.TimeStep {
	f.step = 0
	return ts.New(ts.First, 0, 1.0, f.Start(), 0)
}

func (f *fixedEnv) Step(*mat.VecDense) (ts.TimeStep, bool) {
	f.step++
	obs := mat.NewVecDense(1, []float64{float64(f.step)})
	step := ts.New(ts.Mid, 1.0, 1.0, obs, f.step)
	f.End(&step)
	return step, step.Last()
}

func (f *fixedEnv) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{1.0})
	return env.NewSpec(shape, env.Reward, bound, bound, env.Continuous)
}

func (f *fixedEnv) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{1.0})
	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

func (f *fixedEnv) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{0})
	upper := mat.NewVecDense(1, []float64{float64(f.episodeLen)})
	return env.NewSpec(shape, env.Observation, lower, upper, env.Continuous)
}

func (f *fixedEnv) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{0})
	upper := mat.NewVecDense(1, []float64{1})
	return env.NewSpec(shape, env.Action, lower, upper, env.Discrete)
}

func newFixedVecEnv(t *testing.T, instances, episodeLen int) vector.Env {
	envs := make([]env.Environment, instances)
	for i := range envs {
		envs[i] = &fixedEnv{episodeLen: episodeLen}
	}

	venv, err := vector.NewSync(envs...)
	if err != nil {
		t.Fatalf("could not create vector env: %v", err)
	}
	return venv
}

// constPolicy always selects the same action
type constPolicy struct {
	action float64
}

func (p constPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{p.action})
}

func TestGenerateMinEpisodes(t *testing.T) {
	const episodeLen, minEpisodes = 5, 3

	venv := newFixedVecEnv(t, 2, episodeLen)
	stop, err := MinEpisodes(minEpisodes)
	if err != nil {
		t.Fatalf("could not create stop condition: %v", err)
	}

	trajs, err := Generate(constPolicy{0}, venv, stop,
		rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(trajs) < minEpisodes {
		t.Fatalf("got %d episodes, want at least %d", len(trajs),
			minEpisodes)
	}

	for i, traj := range trajs {
		if traj.Len() != episodeLen {
			t.Errorf("episode %d has %d steps, want %d", i, traj.Len(),
				episodeLen)
		}
		if traj.Return() != float64(episodeLen) {
			t.Errorf("episode %d has return %v, want %v", i, traj.Return(),
				float64(episodeLen))
		}
		if traj.MonitorReturn() != traj.Return() {
			t.Errorf("episode %d monitor return %v differs from return %v "+
				"on an unwrapped environment", i, traj.MonitorReturn(),
				traj.Return())
		}
		if !traj.Steps[traj.Len()-1].Done {
			t.Errorf("episode %d does not end with a done step", i)
		}
	}
}

func TestGenerateRecordsActions(t *testing.T) {
	venv := newFixedVecEnv(t, 1, 3)
	stop, _ := MinEpisodes(1)

	trajs, err := Generate(constPolicy{1}, venv, stop,
		rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for _, step := range trajs[0].Steps {
		if step.Action.AtVec(0) != 1 {
			t.Fatalf("recorded action %v, want 1", step.Action.AtVec(0))
		}
	}
}

func TestGenerateRandomPolicy(t *testing.T) {
	venv := newFixedVecEnv(t, 2, 4)
	stop, _ := MinEpisodes(2)

	trajs, err := Generate(nil, venv, stop, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("generate with nil policy failed: %v", err)
	}

	for _, traj := range trajs {
		for _, step := range traj.Steps {
			a := step.Action.AtVec(0)
			if a != 0 && a != 1 {
				t.Fatalf("random action %v outside the action space", a)
			}
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	run := func() []Trajectory {
		venv := newFixedVecEnv(t, 2, 4)
		stop, _ := MinEpisodes(3)

		trajs, err := Generate(nil, venv, stop, rand.New(rand.NewSource(14)))
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		return trajs
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("runs produced %d and %d episodes from the same seed",
			len(first), len(second))
	}

	for i := range first {
		if first[i].Len() != second[i].Len() {
			t.Fatalf("episode %d lengths differ between runs", i)
		}
		for j := range first[i].Steps {
			a1 := first[i].Steps[j].Action.AtVec(0)
			a2 := second[i].Steps[j].Action.AtVec(0)
			if a1 != a2 {
				t.Fatalf("episode %d step %d actions differ: %v vs %v",
					i, j, a1, a2)
			}
		}
	}
}

func TestGenerateArgErrors(t *testing.T) {
	venv := newFixedVecEnv(t, 1, 3)
	stop, _ := MinEpisodes(1)
	rng := rand.New(rand.NewSource(1))

	if _, err := Generate(nil, nil, stop, rng); err == nil {
		t.Error("expected an error for a nil environment")
	}
	if _, err := Generate(nil, venv, nil, rng); err == nil {
		t.Error("expected an error for a nil stop condition")
	}
	if _, err := Generate(nil, venv, stop, nil); err == nil {
		t.Error("expected an error for a nil random source")
	}
}

func TestGenerateUnboundedRandomPolicy(t *testing.T) {
	e := &unboundedActionEnv{fixedEnv{episodeLen: 3}}
	venv, err := vector.NewSync(e)
	if err != nil {
		t.Fatalf("could not create vector env: %v", err)
	}
	stop, _ := MinEpisodes(1)

	_, err = Generate(nil, venv, stop, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected an error for unbounded continuous actions " +
			"with no policy")
	}
	if !strings.Contains(err.Error(), "bounded") {
		t.Errorf("unexpected error: %v", err)
	}
}

// unboundedActionEnv has a continuous action space without finite
// bounds, so no uniform random policy exists for it
type unboundedActionEnv struct {
	fixedEnv
}

func (u *unboundedActionEnv) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{math.Inf(-1)})
	upper := mat.NewVecDense(1, []float64{math.Inf(1)})
	return env.NewSpec(shape, env.Action, lower, upper, env.Continuous)
}
