package envconfig

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/goimitate/environment/classiccontrol/cartpole"
)

func TestCreateEnv(t *testing.T) {
	conf := Config{
		Environment: Cartpole,
		Task:        Balance,
		Discount:    0.99,
	}

	e, err := conf.CreateEnv(1)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	step := e.Reset()
	if step.Observation.Len() != cartpole.ObservationDims {
		t.Errorf("observation has %d features, want %d",
			step.Observation.Len(), cartpole.ObservationDims)
	}
	if step.Discount != conf.Discount {
		t.Errorf("discount %v, want %v", step.Discount, conf.Discount)
	}
}

func TestCreateEnvUnknown(t *testing.T) {
	if _, err := (Config{Environment: "Pendulum", Task: Balance}).
		CreateEnv(1); err == nil {
		t.Error("expected an error for an unknown environment")
	}

	if _, err := (Config{Environment: Cartpole, Task: "SwingUp"}).
		CreateEnv(1); err == nil {
		t.Error("expected an error for an unknown task")
	}
}

func TestCreateVecEnv(t *testing.T) {
	conf := Config{Environment: Cartpole, Task: Balance, Discount: 1.0}

	for _, parallel := range []bool{false, true} {
		venv, err := conf.CreateVecEnv(3, 1, parallel)
		if err != nil {
			t.Fatalf("could not create vector env (parallel=%v): %v",
				parallel, err)
		}
		if venv.Len() != 3 {
			t.Errorf("vector env has %d instances, want 3", venv.Len())
		}
	}

	if _, err := conf.CreateVecEnv(0, 1, false); err == nil {
		t.Error("expected an error for zero instances")
	}
}

func TestConfigYAML(t *testing.T) {
	text := `
environment: Cartpole
task: Balance
episodeSteps: 200
discount: 0.9
`

	var conf Config
	if err := yaml.Unmarshal([]byte(text), &conf); err != nil {
		t.Fatalf("could not decode config: %v", err)
	}

	if conf.Environment != Cartpole || conf.Task != Balance {
		t.Errorf("decoded environment %v task %v, want Cartpole Balance",
			conf.Environment, conf.Task)
	}
	if conf.EpisodeSteps != 200 || conf.Discount != 0.9 {
		t.Errorf("decoded steps %d discount %v, want 200 0.9",
			conf.EpisodeSteps, conf.Discount)
	}
}
