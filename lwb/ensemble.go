package lwb

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Ensemble is an additive model: the score of a row is the sum of the leaf
//values the row reaches in every tree.
type Ensemble struct {
	Trees []*DecisionTree
}

//AddTree appends one grown tree to the model.
func (ensemble *Ensemble) AddTree(tree *DecisionTree) {
	ensemble.Trees = append(ensemble.Trees, tree)
}

//AddPredictionToScore accumulates every tree's contribution into the caller
//owned score buffer over a binned dataset.
func (ensemble *Ensemble) AddPredictionToScore(data *Dataset, score []float64, numThreads int) {
	for _, tree := range ensemble.Trees {
		tree.AddPredictionToScore(data, score, numThreads)
	}
}

//PredictRow sums the tree outputs for one row of original feature values.
func (ensemble *Ensemble) PredictRow(features []float64) float64 {
	s := 0.0
	for _, tree := range ensemble.Trees {
		s += tree.PredictRow(features)
	}
	return s
}

//PredictValue infers a score for every row of a raw feature matrix. With a
//non-nil treesNumber only the first trees contribute.
func (ensemble *Ensemble) PredictValue(features *mat.Dense, treesNumber *int) *mat.Dense {
	h := Height(features)
	prediction := mat.NewDense(h, 1, nil)

	n := len(ensemble.Trees)
	if treesNumber != nil {
		n = *treesNumber
	}

	for treeInd := 0; treeInd < n; treeInd++ {
		currentTree := ensemble.Trees[treeInd]
		for p := 0; p < h; p++ {
			prediction.Set(p, 0, prediction.At(p, 0)+currentTree.PredictRow(features.RawRowView(p)))
		}
	}
	return prediction
}

//SaveString renders the whole model as consecutive Tree=<n> blocks, each one a
//ToString tree block.
func (ensemble *Ensemble) SaveString() string {
	var sb strings.Builder
	for ind, tree := range ensemble.Trees {
		fmt.Fprintf(&sb, "Tree=%d\n", ind)
		sb.WriteString(tree.ToString())
	}
	return sb.String()
}

//Save writes the text model to a file.
func (ensemble *Ensemble) Save(filename string) error {
	return os.WriteFile(filename, []byte(ensemble.SaveString()), 0o644)
}

//LoadEnsembleString parses a model saved by SaveString. One malformed tree
//block fails the whole load.
func LoadEnsembleString(text string) (*Ensemble, error) {
	ensemble := &Ensemble{}
	for _, block := range strings.Split(text, "Tree=")[1:] {
		tree, err := ParseTree(block)
		if err != nil {
			return nil, fmt.Errorf("model block %d: %w", len(ensemble.Trees), err)
		}
		ensemble.AddTree(tree)
	}
	if len(ensemble.Trees) == 0 {
		return nil, errors.New("model contains no trees")
	}
	return ensemble, nil
}

//LoadEnsemble reads a text model from a file.
func LoadEnsemble(filename string) (*Ensemble, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoadEnsembleString(string(content))
}
