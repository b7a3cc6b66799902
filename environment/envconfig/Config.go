// Package envconfig provides configuration structs for constructing
// environments with default physical parameters and tasks.
// Environment configurations in this package are YAML serializable.
package envconfig

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goimitate/environment"
	"github.com/samuelfneumann/goimitate/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/goimitate/environment/vector"
)

// EnvName stores the names of environments that can be configured
// with this package
type EnvName string

// Environments available for configuration
const (
	Cartpole EnvName = "Cartpole"
)

// TaskName stores the tasks that can be configured with this package
type TaskName string

// Tasks available for configuration
const (
	Balance TaskName = "Balance"
)

// Default physical parameters for configured environments
const (
	defaultStartBound   float64 = 0.05
	defaultEpisodeSteps int     = 500
)

// Config implements a specific configuration of a specific
// environment and task. Not all environments can have all tasks.
type Config struct {
	Environment  EnvName  `yaml:"environment"`
	Task         TaskName `yaml:"task"`
	EpisodeSteps int      `yaml:"episodeSteps"`
	Discount     float64  `yaml:"discount"`
}

// CreateEnv constructs and returns the configured environment, using
// seed for its starting-state distribution
func (c Config) CreateEnv(seed uint64) (env.Environment, error) {
	episodeSteps := c.EpisodeSteps
	if episodeSteps <= 0 {
		episodeSteps = defaultEpisodeSteps
	}

	switch c.Environment {
	case Cartpole:
		if c.Task != Balance {
			return nil, fmt.Errorf("createenv: environment %v has no "+
				"task %v", c.Environment, c.Task)
		}

		bounds := make([]r1.Interval, cartpole.ObservationDims)
		for i := range bounds {
			bounds[i] = r1.Interval{
				Min: -defaultStartBound,
				Max: defaultStartBound,
			}
		}
		starter := env.NewUniformStarter(bounds, seed)

		task := cartpole.NewBalance(starter, episodeSteps,
			cartpole.FailAngle)
		e, _ := cartpole.New(task, c.Discount)
		return e, nil
	}

	return nil, fmt.Errorf("createenv: no such environment %v",
		c.Environment)
}

// CreateVecEnv constructs a vectorized environment of n instances of
// the configured environment. Instance i is seeded with seed+i so
// instances start episodes independently. If parallel is true, the
// instances are stepped concurrently.
func (c Config) CreateVecEnv(n int, seed uint64,
	parallel bool) (vector.Env, error) {
	if n <= 0 {
		return nil, fmt.Errorf("createvecenv: instance count must be "+
			"positive, got %d", n)
	}

	envs := make([]env.Environment, n)
	for i := range envs {
		e, err := c.CreateEnv(seed + uint64(i))
		if err != nil {
			return nil, fmt.Errorf("createvecenv: %v", err)
		}
		envs[i] = e
	}

	if parallel {
		return vector.NewParallel(envs...)
	}
	return vector.NewSync(envs...)
}
