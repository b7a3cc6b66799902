package policy

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// gobWeights is the on-disk representation of a single weight matrix
type gobWeights struct {
	Rows, Cols int
	Data       []float64
}

// SaveWeights saves a map of policy weights to filename
func SaveWeights(filename string, weights map[string]*mat.Dense) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveweights: could not create file: %v", err)
	}
	defer file.Close()

	encodable := make(map[string]gobWeights, len(weights))
	for name, w := range weights {
		rows, cols := w.Dims()
		data := make([]float64, rows*cols)
		copy(data, w.RawMatrix().Data)
		encodable[name] = gobWeights{rows, cols, data}
	}

	if err := gob.NewEncoder(file).Encode(encodable); err != nil {
		return fmt.Errorf("saveweights: could not encode weights: %v", err)
	}
	return nil
}

// LoadWeights loads a map of policy weights from filename. The result
// can be given directly to the SetWeights method of any policy in
// this package.
func LoadWeights(filename string) (map[string]*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadweights: could not open file: %v", err)
	}
	defer file.Close()

	var encoded map[string]gobWeights
	if err := gob.NewDecoder(file).Decode(&encoded); err != nil {
		return nil, fmt.Errorf("loadweights: could not decode weights: %v",
			err)
	}

	weights := make(map[string]*mat.Dense, len(encoded))
	for name, w := range encoded {
		weights[name] = mat.NewDense(w.Rows, w.Cols, w.Data)
	}
	return weights, nil
}
