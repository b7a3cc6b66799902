// Package cmd implements the goimitate command line interface
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/goimitate/agent"
	linear "github.com/samuelfneumann/goimitate/agent/linear/policy"
	nonlinear "github.com/samuelfneumann/goimitate/agent/nonlinear/policy"
	"github.com/samuelfneumann/goimitate/environment/envconfig"
	"github.com/samuelfneumann/goimitate/environment/vector"
)

var logLevel string

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "goimitate",
	Short: "Evaluate imitation-learned policies against expert demonstrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		logrus.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log verbosity level")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// policyConfig selects and configures the policy under evaluation.
// An empty Type selects a uniform-random policy.
type policyConfig struct {
	Type    string  `yaml:"type"`    // "", "linear", or "mlp"
	Path    string  `yaml:"path"`    // weights or network checkpoint
	Epsilon float64 `yaml:"epsilon"` // exploration for linear policies
}

// runConfig configures a single rollout-generation or evaluation run
type runConfig struct {
	Env       envconfig.Config `yaml:"env"`
	Policy    policyConfig     `yaml:"policy"`
	Episodes  int              `yaml:"episodes"`
	Instances int              `yaml:"instances"`
	Parallel  bool             `yaml:"parallel"`
	Seed      uint64           `yaml:"seed"`
}

// loadRunConfig reads and decodes a YAML run configuration
func loadRunConfig(filename string) (runConfig, error) {
	conf := runConfig{Instances: 1}

	data, err := os.ReadFile(filename)
	if err != nil {
		return conf, fmt.Errorf("could not read config: %v", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("could not decode config: %v", err)
	}
	return conf, nil
}

// buildPolicy constructs the configured policy. A nil policy is
// returned for the random policy type; rollout generation then
// samples actions uniformly from the environment's action space.
func buildPolicy(conf policyConfig, venv vector.Env,
	seed uint64) (agent.Policy, error) {
	features := venv.ObservationSpec().Shape.Len()
	actions := int(venv.ActionSpec().UpperBound.AtVec(0)) + 1

	switch conf.Type {
	case "":
		return nil, nil

	case "linear":
		p := linear.NewEGreedy(conf.Epsilon, seed, features, actions)
		if conf.Path != "" {
			weights, err := linear.LoadWeights(conf.Path)
			if err != nil {
				return nil, err
			}
			if err := p.SetWeights(weights); err != nil {
				return nil, err
			}
		}
		return p, nil

	case "mlp":
		if conf.Path == "" {
			return nil, fmt.Errorf("mlp policies need a network " +
				"checkpoint path")
		}
		return nonlinear.Load(conf.Path, seed)

	default:
		return nil, fmt.Errorf("no such policy type %q", conf.Type)
	}
}
