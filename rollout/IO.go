package rollout

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// gobStep and gobTrajectory are the on-disk representations of
// trajectories. Observations and actions are stored as raw float
// slices so that the format does not depend on gonum internals.
type gobStep struct {
	Observation []float64
	Action      []float64
	Reward      float64
	Monitor     float64
	Done        bool
}

type gobTrajectory struct {
	Steps []gobStep
}

// Save saves a set of trajectories to filename, for example expert
// demonstrations to be reused across evaluations
func Save(filename string, trajs []Trajectory) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %v", err)
	}
	defer file.Close()

	encodable := make([]gobTrajectory, len(trajs))
	for i, traj := range trajs {
		steps := make([]gobStep, traj.Len())
		for j, step := range traj.Steps {
			obs := make([]float64, step.Observation.Len())
			for k := range obs {
				obs[k] = step.Observation.AtVec(k)
			}

			action := make([]float64, step.Action.Len())
			copy(action, step.Action.RawVector().Data)

			steps[j] = gobStep{obs, action, step.Reward, step.Monitor,
				step.Done}
		}
		encodable[i] = gobTrajectory{steps}
	}

	if err := gob.NewEncoder(file).Encode(encodable); err != nil {
		return fmt.Errorf("save: could not encode trajectories: %v", err)
	}
	return nil
}

// Load loads a set of trajectories saved with Save
func Load(filename string) ([]Trajectory, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open file: %v", err)
	}
	defer file.Close()

	var encoded []gobTrajectory
	if err := gob.NewDecoder(file).Decode(&encoded); err != nil {
		return nil, fmt.Errorf("load: could not decode trajectories: %v",
			err)
	}

	trajs := make([]Trajectory, len(encoded))
	for i, traj := range encoded {
		steps := make([]Step, len(traj.Steps))
		for j, step := range traj.Steps {
			steps[j] = Step{
				Observation: mat.NewVecDense(len(step.Observation),
					step.Observation),
				Action:  mat.NewVecDense(len(step.Action), step.Action),
				Reward:  step.Reward,
				Monitor: step.Monitor,
				Done:    step.Done,
			}
		}
		trajs[i] = Trajectory{Steps: steps}
	}
	return trajs, nil
}
