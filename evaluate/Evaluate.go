// Package evaluate implements evaluation of trained and
// imitation-learned policies by rolling them out on a vectorized
// environment and comparing aggregate return statistics against an
// expert demonstration set
package evaluate

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goimitate/agent"
	"github.com/samuelfneumann/goimitate/environment/vector"
	"github.com/samuelfneumann/goimitate/rollout"
)

// Result holds the outcome of one evaluation: statistics over fresh
// rollouts of the evaluated policy and statistics over the expert
// demonstration set it is compared against. The Policy block is
// always computed from the rollouts of the call that produced the
// Result, never cached.
type Result struct {
	Policy rollout.Statistics
	Expert rollout.Statistics
}

// Policy evaluates p by generating rollouts on venv until at least
// episodes episodes have completed, returning statistics over those
// rollouts alongside statistics over the expert trajectories. The
// expert set is supplied by the caller, typically loaded with
// rollout.Load; it is not generated here.
//
// If p is an agent.Algorithm, its internal environment reference is
// replaced with venv and rollouts are generated on the Algorithm's
// environment instead of on venv directly, since the Algorithm may
// decorate venv with preprocessing its policy requires. This mutation
// of p is intentional and visible to the caller: after the call, the
// Algorithm acts on (a possibly wrapped form of) venv.
//
// The episodes count must be positive and the expert set non-empty.
func Policy(p agent.Policy, venv vector.Env, episodes int,
	expert []rollout.Trajectory, rng *rand.Rand) (*Result, error) {
	stop, err := rollout.MinEpisodes(episodes)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %v", err)
	}

	rolloutEnv := venv
	if algo, ok := p.(agent.Algorithm); ok {
		// Replace the algorithm's environment, dropping any wrappers
		// it accumulated around a previous environment, then roll out
		// on whatever the algorithm wraps the new environment with.
		if err := algo.SetEnv(venv); err != nil {
			return nil, fmt.Errorf("evaluate: could not set algorithm "+
				"environment: %v", err)
		}
		rolloutEnv = algo.Env()
	}

	trajs, err := rollout.Generate(p, rolloutEnv, stop, rng)
	if err != nil {
		return nil, fmt.Errorf("evaluate: could not generate "+
			"trajectories: %v", err)
	}

	policyStats, err := rollout.Stats(trajs)
	if err != nil {
		return nil, fmt.Errorf("evaluate: could not compute policy "+
			"statistics: %v", err)
	}

	expertStats, err := rollout.Stats(expert)
	if err != nil {
		return nil, fmt.Errorf("evaluate: could not compute expert "+
			"statistics: %v", err)
	}

	return &Result{Policy: policyStats, Expert: expertStats}, nil
}
