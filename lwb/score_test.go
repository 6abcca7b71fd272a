package lwb

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//buildScoreFixture bins a small matrix and grows a tree whose binned thresholds
//translate exactly to the recorded raw thresholds, so binned and raw scoring
//agree on every row.
func buildScoreFixture() (*mat.Dense, *Dataset, *DecisionTree) {
	raw := make([]float64, 0, 24)
	for i := 0; i < 12; i++ {
		f0 := float64(i%4 + 1)
		f1 := 10.0
		if i%2 == 1 {
			f1 = 20.0
		}
		raw = append(raw, f0, f1)
	}
	features := mat.NewDense(12, 2, raw)
	data := NewDataset(features, 8, nil)

	tree := NewDecisionTree(4)
	tree.Split(0, 0, NumericalBin, 1, 0, data.Mapper(0).BinToValue(1), 1.0, 2.0, 6, 6, 3.0)
	tree.Split(0, 1, NumericalBin, 0, 1, data.Mapper(1).BinToValue(0), 3.0, 4.0, 3, 3, 1.0)
	return features, data, tree
}

func TestAddPredictionToScoreMatchesRawPrediction(t *testing.T) {
	features, data, tree := buildScoreFixture()

	score := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, score, 1)

	for p := 0; p < data.NumData(); p++ {
		want := tree.PredictRow(features.RawRowView(p))
		if score[p] != want {
			t.Fatalf("row %d scored %g over bins, want %g over raw values", p, score[p], want)
		}
	}
}

func TestScoreAccumulates(t *testing.T) {
	_, data, tree := buildScoreFixture()

	once := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, once, 1)
	twice := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, twice, 1)
	tree.AddPredictionToScore(data, twice, 1)

	for p := range once {
		if twice[p] != 2*once[p] {
			t.Fatalf("row %d must double on the second pass, got %g after %g", p, twice[p], once[p])
		}
	}
}

func TestSubsetScoresCompose(t *testing.T) {
	_, data, tree := buildScoreFixture()

	full := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, full, 1)

	var even, odd []int
	for p := 0; p < data.NumData(); p++ {
		if p%2 == 0 {
			even = append(even, p)
		} else {
			odd = append(odd, p)
		}
	}
	composed := make([]float64, data.NumData())
	tree.AddPredictionToScoreSubset(data, even, composed, 1)
	tree.AddPredictionToScoreSubset(data, odd, composed, 1)

	for p := range full {
		if composed[p] != full[p] {
			t.Fatalf("row %d scored %g over two subsets, want %g", p, composed[p], full[p])
		}
	}
}

func TestParallelScoringMatchesSerial(t *testing.T) {
	raw := make([]float64, 0, 101*3)
	for i := 0; i < 101; i++ {
		raw = append(raw,
			math.Sin(float64(i)*0.37),
			math.Cos(float64(i)*0.21)*3,
			float64(i%7))
	}
	features := mat.NewDense(101, 3, raw)
	data := NewDataset(features, 16, nil)

	tree := NewDecisionTree(8)
	b0 := uint32(data.Mapper(0).NumBins() / 2)
	b1 := uint32(data.Mapper(1).NumBins() / 3)
	b2 := uint32(data.Mapper(2).NumBins() / 2)
	tree.Split(0, 0, NumericalBin, b0, 0, data.Mapper(0).BinToValue(b0), 0.5, -0.5, 50, 51, 1.0)
	tree.Split(1, 1, NumericalBin, b1, 1, data.Mapper(1).BinToValue(b1), 0.25, -0.25, 25, 26, 0.5)
	tree.Split(0, 2, NumericalBin, b2, 2, data.Mapper(2).BinToValue(b2), 0.125, -0.125, 25, 25, 0.25)

	serial := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, serial, 1)
	parallel := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, parallel, 4)

	for p := range serial {
		if parallel[p] != serial[p] {
			t.Fatalf("row %d scored %g on 4 threads, want %g", p, parallel[p], serial[p])
		}
	}

	var subset []int
	for p := 0; p < data.NumData(); p += 3 {
		subset = append(subset, p)
	}
	subsetSerial := make([]float64, data.NumData())
	tree.AddPredictionToScoreSubset(data, subset, subsetSerial, 1)
	subsetParallel := make([]float64, data.NumData())
	tree.AddPredictionToScoreSubset(data, subset, subsetParallel, 4)

	for p := range subsetSerial {
		if subsetParallel[p] != subsetSerial[p] {
			t.Fatalf("subset row %d scored %g on 4 threads, want %g", p, subsetParallel[p], subsetSerial[p])
		}
	}
}

func TestUnsplitTreeScoresRootValue(t *testing.T) {
	_, data, _ := buildScoreFixture()
	tree := NewDecisionTree(4)

	score := make([]float64, data.NumData())
	tree.AddPredictionToScore(data, score, 1)
	for p, v := range score {
		if v != 0.0 {
			t.Fatalf("row %d must take the root leaf value 0, got %g", p, v)
		}
	}
}
