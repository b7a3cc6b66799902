package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/goimitate/evaluate"
	"github.com/samuelfneumann/goimitate/rollout"
)

var (
	evalConfigPath string
	expertPath     string
	resultPath     string
)

// evaluateCmd rolls out the configured policy and reports its return
// statistics next to those of an expert demonstration set
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a policy against an expert demonstration set",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadRunConfig(evalConfigPath)
		if err != nil {
			return err
		}

		expert, err := rollout.Load(expertPath)
		if err != nil {
			return fmt.Errorf("could not load expert demonstrations: %v",
				err)
		}
		logrus.WithFields(logrus.Fields{
			"episodes": len(expert),
			"path":     expertPath,
		}).Info("Loaded expert demonstrations")

		venv, err := conf.Env.CreateVecEnv(conf.Instances, conf.Seed,
			conf.Parallel)
		if err != nil {
			return err
		}

		policy, err := buildPolicy(conf.Policy, venv, conf.Seed)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"environment": conf.Env.Environment,
			"episodes":    conf.Episodes,
			"instances":   conf.Instances,
			"seed":        conf.Seed,
		}).Info("Starting evaluation")

		rng := rand.New(rand.NewSource(conf.Seed))
		result, err := evaluate.Policy(policy, venv, conf.Episodes, expert,
			rng)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"policyMeanReturn": result.Policy.Return.Mean,
			"expertMeanReturn": result.Expert.Return.Mean,
		}).Info("Evaluation finished")

		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("could not encode result: %v", err)
		}

		if resultPath == "" {
			fmt.Print(string(out))
			return nil
		}
		return os.WriteFile(resultPath, out, 0o644)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalConfigPath, "config", "",
		"path to the YAML run configuration")
	evaluateCmd.Flags().StringVar(&expertPath, "expert", "",
		"path to the expert demonstration set")
	evaluateCmd.Flags().StringVar(&resultPath, "out", "",
		"path to write the result to (defaults to stdout)")
	evaluateCmd.MarkFlagRequired("config")
	evaluateCmd.MarkFlagRequired("expert")

	rootCmd.AddCommand(evaluateCmd)
}
