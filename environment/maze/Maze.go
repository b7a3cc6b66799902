// Package maze implements maze environments using GoMaze
package maze

import (
	"fmt"

	"github.com/samuelfneumann/gomaze"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/goimitate/environment"
	ts "github.com/samuelfneumann/goimitate/timestep"
)

// Default start and end positions. Negative values let GoMaze choose.
const (
	DefaultStartRow int = -1
	DefaultStartCol int = -1
	DefaultEndRow   int = -1
	DefaultEndCol   int = -1
)

// Maze wraps a GoMaze maze as an Environment. Observations are the
// (col, row) position of the agent and actions are the four cardinal
// movement directions defined by GoMaze.
type Maze struct {
	env.Task
	maze *gomaze.Maze

	discount    float64
	currentStep ts.TimeStep
}

// New creates a new maze environment of the given dimensions. The init
// argument determines the maze-generation algorithm used by GoMaze.
func New(t env.Task, rows, cols int, init gomaze.Initer,
	discount float64) (*Maze, ts.TimeStep, error) {

	// A Solve task reads its start position from the maze itself, so
	// it cannot provide one before the maze exists.
	startRow, startCol := DefaultStartRow, DefaultStartCol
	solve, isSolve := t.(*Solve)
	if !isSolve {
		start := t.Start()
		startRow = int(start.AtVec(1))
		startCol = int(start.AtVec(0))
	}

	m, err := gomaze.NewMaze(rows, cols, DefaultEndRow, DefaultEndCol,
		startRow, startCol, init, false)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"maze: %v", err)
	}

	if isSolve {
		solve.Register(m)
	}

	floatState := m.Reset()
	state := mat.NewVecDense(len(floatState), floatState)
	step := ts.New(ts.First, 0, discount, state, 0)

	mazeEnv := &Maze{
		Task:        t,
		maze:        m,
		discount:    discount,
		currentStep: step,
	}

	return mazeEnv, step, nil
}

// Reset resets the environment between episodes
func (m *Maze) Reset() ts.TimeStep {
	floatState := m.maze.Reset()
	state := mat.NewVecDense(len(floatState), floatState)
	step := ts.New(ts.First, 0, m.discount, state, 0)

	m.currentStep = step
	return step
}

// Step takes one environmental step given action a. Actions must be
// 1-dimensional and legal GoMaze actions; illegal actions cause a
// panic, consistent with the other environments in this module.
func (m *Maze) Step(a *mat.VecDense) (ts.TimeStep, bool) {
	if a.Len() != 1 {
		panic("step: actions must be 1-dimensional")
	}

	newPos, _, _, err := m.maze.Step(int(a.AtVec(0)))
	if err != nil {
		panic(fmt.Sprintf("step: %v", err))
	}
	nextState := mat.NewVecDense(len(newPos), newPos)

	reward := m.GetReward(m.currentStep.Observation, a, nextState)
	nextStep := ts.New(ts.Mid, reward, m.discount, nextState,
		m.currentStep.Number+1)

	m.End(&nextStep)

	m.currentStep = nextStep
	return nextStep, nextStep.Last()
}

// ActionSpec returns the action specification of the environment
func (m *Maze) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(gomaze.Actions - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (m *Maze) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(2, nil)
	lowerBound := mat.NewVecDense(2, []float64{0, 0})
	upperBound := mat.NewVecDense(2, []float64{
		float64(m.maze.Cols()),
		float64(m.maze.Rows()),
	})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the
// environment
func (m *Maze) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{m.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Discrete)
}
