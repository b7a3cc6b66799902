package evaluate

import (
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/goimitate/environment"
	"github.com/samuelfneumann/goimitate/environment/vector"
	"github.com/samuelfneumann/goimitate/rollout"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// stubVecEnv is a single-instance vectorized environment whose
// episodes last exactly episodeLen steps with a constant reward
type stubVecEnv struct {
	reward     float64
	episodeLen int
	stepCalls  int
	num        int
	done       bool
}

func (s *stubVecEnv) Len() int { return 1 }

func (s *stubVecEnv) Reset() []ts.TimeStep {
	s.num = 0
	s.done = false
	return []ts.TimeStep{ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0)}
}

func (s *stubVecEnv) Step([]*mat.VecDense) []ts.TimeStep {
	s.stepCalls++

	if s.done {
		s.done = false
		s.num = 0
		return []ts.TimeStep{ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil),
			0)}
	}

	s.num++
	stepType := ts.Mid
	if s.num >= s.episodeLen {
		stepType = ts.Last
		s.done = true
	}

	obs := mat.NewVecDense(1, []float64{float64(s.num)})
	step := ts.New(stepType, s.reward, 1, obs, s.num)
	if stepType == ts.Last {
		step.SetEnd(ts.TerminalStateReached)
	}
	return []ts.TimeStep{step}
}

func (s *stubVecEnv) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{0})
	upper := mat.NewVecDense(1, []float64{float64(s.episodeLen)})
	return env.NewSpec(shape, env.Observation, lower, upper, env.Continuous)
}

func (s *stubVecEnv) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{0})
	upper := mat.NewVecDense(1, []float64{1})
	return env.NewSpec(shape, env.Action, lower, upper, env.Discrete)
}

// fixedPolicy always selects action 0
type fixedPolicy struct{}

func (fixedPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, nil)
}

// countingEnv delegates to an inner environment, counting Step calls.
// It stands in for the preprocessing wrappers an algorithm adds around
// an environment it is given.
type countingEnv struct {
	vector.Env
	steps int
}

func (c *countingEnv) Step(actions []*mat.VecDense) []ts.TimeStep {
	c.steps++
	return c.Env.Step(actions)
}

// stubAlgorithm is a policy that owns an environment reference and
// wraps any environment it is given
type stubAlgorithm struct {
	fixedPolicy
	env      *countingEnv
	setCalls int
}

func (a *stubAlgorithm) SetEnv(e vector.Env) error {
	a.setCalls++
	a.env = &countingEnv{Env: e}
	return nil
}

func (a *stubAlgorithm) Env() vector.Env {
	return a.env
}

func expertSet(returns ...float64) []rollout.Trajectory {
	trajs := make([]rollout.Trajectory, len(returns))
	for i, r := range returns {
		trajs[i] = rollout.Trajectory{Steps: []rollout.Step{{
			Observation: mat.NewVecDense(1, nil),
			Action:      mat.NewVecDense(1, nil),
			Reward:      r,
			Monitor:     r,
			Done:        true,
		}}}
	}
	return trajs
}

func TestPolicy(t *testing.T) {
	const episodeLen, episodes = 4, 3

	venv := &stubVecEnv{reward: 1, episodeLen: episodeLen}
	expert := expertSet(10, 12, 14)

	result, err := Policy(fixedPolicy{}, venv, episodes, expert,
		rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	if result.Policy.Episodes < episodes {
		t.Errorf("got %d policy episodes, want at least %d",
			result.Policy.Episodes, episodes)
	}
	if result.Policy.Return.Mean != float64(episodeLen) {
		t.Errorf("policy mean return %v, want %v",
			result.Policy.Return.Mean, float64(episodeLen))
	}

	if result.Expert.Episodes != len(expert) {
		t.Errorf("got %d expert episodes, want %d", result.Expert.Episodes,
			len(expert))
	}
	if result.Expert.Return.Mean != 12 {
		t.Errorf("expert mean return %v, want 12",
			result.Expert.Return.Mean)
	}
}

func TestPolicyAlgorithmEnvReplacement(t *testing.T) {
	venv := &stubVecEnv{reward: 1, episodeLen: 3}
	algo := &stubAlgorithm{}

	result, err := Policy(algo, venv, 2, expertSet(1), rand.New(
		rand.NewSource(1)))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	if algo.setCalls != 1 {
		t.Errorf("the algorithm's environment was set %d times, want 1",
			algo.setCalls)
	}
	if algo.env.Env != vector.Env(venv) {
		t.Error("the algorithm does not hold the evaluation environment")
	}

	// Rollouts must go through the algorithm's wrapped environment
	if algo.env.steps == 0 {
		t.Error("no steps were taken through the algorithm's environment")
	}
	if algo.env.steps != venv.stepCalls {
		t.Errorf("%d steps through the wrapper but %d on the inner "+
			"environment", algo.env.steps, venv.stepCalls)
	}

	if result.Policy.Episodes < 2 {
		t.Errorf("got %d policy episodes, want at least 2",
			result.Policy.Episodes)
	}
}

func TestPolicyRejectsNonPositiveEpisodes(t *testing.T) {
	venv := &stubVecEnv{reward: 1, episodeLen: 3}
	rng := rand.New(rand.NewSource(1))

	for _, episodes := range []int{0, -1} {
		if _, err := Policy(fixedPolicy{}, venv, episodes, expertSet(1),
			rng); err == nil {
			t.Errorf("expected an error for episode count %d", episodes)
		}
	}
}

func TestPolicyRejectsEmptyExpert(t *testing.T) {
	venv := &stubVecEnv{reward: 1, episodeLen: 3}

	_, err := Policy(fixedPolicy{}, venv, 1, nil, rand.New(
		rand.NewSource(1)))
	if err == nil {
		t.Error("expected an error for an empty expert set")
	}
}
