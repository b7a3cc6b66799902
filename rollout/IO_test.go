package rollout

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSaveLoad(t *testing.T) {
	trajs := []Trajectory{
		{Steps: []Step{
			{
				Observation: mat.NewVecDense(2, []float64{0.5, -1.25}),
				Action:      mat.NewVecDense(1, []float64{2}),
				Reward:      1,
				Monitor:     -1,
				Done:        false,
			},
			{
				Observation: mat.NewVecDense(2, []float64{0.25, 3}),
				Action:      mat.NewVecDense(1, []float64{0}),
				Reward:      -0.5,
				Monitor:     1,
				Done:        true,
			},
		}},
		rewardTrajectory(1, 1, 1),
	}

	filename := filepath.Join(t.TempDir(), "trajectories.bin")
	if err := Save(filename, trajs); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(filename)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(loaded) != len(trajs) {
		t.Fatalf("loaded %d trajectories, want %d", len(loaded), len(trajs))
	}

	for i := range trajs {
		if loaded[i].Len() != trajs[i].Len() {
			t.Fatalf("trajectory %d has %d steps after loading, want %d",
				i, loaded[i].Len(), trajs[i].Len())
		}

		for j := range trajs[i].Steps {
			want, got := trajs[i].Steps[j], loaded[i].Steps[j]

			if !mat.Equal(want.Observation, got.Observation) {
				t.Errorf("trajectory %d step %d observation changed", i, j)
			}
			if !mat.Equal(want.Action, got.Action) {
				t.Errorf("trajectory %d step %d action changed", i, j)
			}
			if want.Reward != got.Reward || want.Monitor != got.Monitor ||
				want.Done != got.Done {
				t.Errorf("trajectory %d step %d fields changed: got %+v, "+
					"want %+v", i, j, got, want)
			}
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
