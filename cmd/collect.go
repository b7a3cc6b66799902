package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goimitate/rollout"
)

var (
	collectConfigPath string
	collectOutPath    string
)

// collectCmd rolls out a policy and saves the resulting trajectories,
// for example to produce a demonstration set from an expert policy
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Roll out a policy and save the trajectories",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadRunConfig(collectConfigPath)
		if err != nil {
			return err
		}

		venv, err := conf.Env.CreateVecEnv(conf.Instances, conf.Seed,
			conf.Parallel)
		if err != nil {
			return err
		}

		policy, err := buildPolicy(conf.Policy, venv, conf.Seed)
		if err != nil {
			return err
		}

		stop, err := rollout.MinEpisodes(conf.Episodes)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"environment": conf.Env.Environment,
			"episodes":    conf.Episodes,
			"instances":   conf.Instances,
			"seed":        conf.Seed,
		}).Info("Collecting trajectories")

		rng := rand.New(rand.NewSource(conf.Seed))
		trajs, err := rollout.Generate(policy, venv, stop, rng)
		if err != nil {
			return err
		}

		if err := rollout.Save(collectOutPath, trajs); err != nil {
			return fmt.Errorf("could not save trajectories: %v", err)
		}

		logrus.WithFields(logrus.Fields{
			"episodes": len(trajs),
			"path":     collectOutPath,
		}).Info("Saved trajectories")
		return nil
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectConfigPath, "config", "",
		"path to the YAML run configuration")
	collectCmd.Flags().StringVar(&collectOutPath, "out", "",
		"path to save the trajectories to")
	collectCmd.MarkFlagRequired("config")
	collectCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(collectCmd)
}
