package rollout

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goimitate/agent"
	env "github.com/samuelfneumann/goimitate/environment"
	"github.com/samuelfneumann/goimitate/environment/vector"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// Generate rolls out policy p on a vectorized environment, stepping
// all instances in lockstep and collecting completed episodes until
// the stop condition is satisfied. The condition is checked each time
// an episode completes, so the result may contain more episodes than
// a minimum-episode condition requires but generation never oversteps
// a completed check.
//
// If p is nil, actions are sampled uniformly from the environment's
// action specification using rng. If p implements agent.Seeder, it is
// reseeded from rng before generation. Given a fixed-seed rng and
// deterministic collaborators, Generate is deterministic.
//
// Generate blocks until the stop condition is satisfied; it is the
// caller's responsibility to supply a condition the environment can
// eventually meet.
func Generate(p agent.Policy, venv vector.Env, stop StopCondition,
	rng *rand.Rand) ([]Trajectory, error) {
	if venv == nil {
		return nil, fmt.Errorf("generate: no environment given")
	}
	if stop == nil {
		return nil, fmt.Errorf("generate: no stop condition given")
	}
	if rng == nil {
		return nil, fmt.Errorf("generate: no random source given")
	}

	if p == nil {
		var err error
		if p, err = newRandomPolicy(venv.ActionSpec(), rng); err != nil {
			return nil, fmt.Errorf("generate: %v", err)
		}
	}
	if seeder, ok := p.(agent.Seeder); ok {
		seeder.Seed(rng.Uint64())
	}

	var trajs []Trajectory
	if stop(trajs) {
		return trajs, nil
	}

	n := venv.Len()
	steps := venv.Reset()
	partial := make([][]Step, n)
	actions := make([]*mat.VecDense, n)

	for {
		for i, step := range steps {
			actions[i] = p.SelectAction(step)
		}

		next := venv.Step(actions)
		for i, step := range next {
			if step.First() {
				// The instance was auto-reset after finishing its
				// episode; a new episode starts at this observation.
				steps[i] = step
				continue
			}

			partial[i] = append(partial[i], Step{
				Observation: steps[i].Observation,
				Action:      actions[i],
				Reward:      step.Reward,
				Monitor:     step.Monitor,
				Done:        step.Last(),
			})
			steps[i] = step

			if step.Last() {
				trajs = append(trajs, Trajectory{Steps: partial[i]})
				partial[i] = nil

				if stop(trajs) {
					return trajs, nil
				}
			}
		}
	}
}

// randomPolicy selects actions uniformly at random from an action
// specification. It stands in when no policy is given, for example to
// measure the baseline return of an environment.
type randomPolicy struct {
	spec env.Spec
	rng  *rand.Rand
}

func newRandomPolicy(spec env.Spec, rng *rand.Rand) (*randomPolicy, error) {
	if spec.Cardinality == env.Continuous {
		for i := 0; i < spec.Shape.Len(); i++ {
			if math.IsInf(spec.LowerBound.AtVec(i), 0) ||
				math.IsInf(spec.UpperBound.AtVec(i), 0) {
				return nil, fmt.Errorf("random policy needs bounded " +
					"continuous actions")
			}
		}
	}

	return &randomPolicy{spec, rng}, nil
}

// SelectAction samples an action uniformly from the action space
func (p *randomPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	dims := p.spec.Shape.Len()
	action := make([]float64, dims)

	for i := range action {
		lower := p.spec.LowerBound.AtVec(i)
		upper := p.spec.UpperBound.AtVec(i)

		if p.spec.Cardinality == env.Discrete {
			choices := int(upper-lower) + 1
			action[i] = lower + float64(p.rng.Intn(choices))
		} else {
			action[i] = lower + p.rng.Float64()*(upper-lower)
		}
	}

	return mat.NewVecDense(dims, action)
}
