package maze

import (
	"github.com/samuelfneumann/gomaze"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// Rewards for the Solve task
const (
	TimeStepReward float64 = -1.0
	TerminalReward float64 = 0
)

// Solve is the task of reaching the goal cell of a maze. Each step
// receives a -1 reward until the goal is reached, so shorter solutions
// have higher return.
type Solve struct {
	maze      *gomaze.Maze
	stepLimit env.Ender
}

// NewSolve creates and returns a new Solve task that cuts episodes off
// after cutoff timesteps
func NewSolve(cutoff int) *Solve {
	return &Solve{stepLimit: env.NewStepLimit(cutoff)}
}

// Register registers the GoMaze maze with the task. The maze
// environment calls Register during construction; the task cannot be
// used before then.
func (s *Solve) Register(m *gomaze.Maze) {
	s.maze = m
}

// Start returns the starting position of the agent in the maze
func (s *Solve) Start() mat.Vector {
	row, col := s.maze.Start()
	return mat.NewVecDense(2, []float64{
		float64(col),
		float64(row),
	})
}

// GetReward returns the reward for transitioning to the next state
func (s *Solve) GetReward(_, _, _ mat.Vector) float64 {
	if s.maze.AtGoal() {
		return TerminalReward
	}
	return TimeStepReward
}

// End checks if a TimeStep ends the episode, either by reaching the
// goal or by hitting the step limit
func (s *Solve) End(t *ts.TimeStep) bool {
	if last := s.stepLimit.End(t); last {
		return true
	}

	if s.maze.AtGoal() {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return false
}

// AtGoal returns whether state is the goal position of the maze
func (s *Solve) AtGoal(state mat.Matrix) bool {
	rows, cols := state.Dims()
	if rows != 2 || cols != 1 {
		return false
	}

	goalRow, goalCol := s.maze.Goal()
	return int(state.At(1, 0)) == goalRow && int(state.At(0, 0)) == goalCol
}

// RewardSpec returns the reward specification of the task
func (s *Solve) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{TimeStepReward})
	upperBound := mat.NewVecDense(1, []float64{TerminalReward})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
