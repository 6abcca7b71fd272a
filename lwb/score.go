package lwb

//chunkIterators builds one private feature iterator set for a scoring chunk
//starting at startRow.
func (t *DecisionTree) chunkIterators(data *Dataset, startRow int) []BinIterator {
	iterators := make([]BinIterator, data.NumFeatures())
	for i := range iterators {
		iterators[i] = data.FeatureIterator(i, startRow)
	}
	return iterators
}

//AddPredictionToScore adds every row's leaf value into the caller owned score
//buffer, indexed by row. Scores accumulate, they are never overwritten, so an
//ensemble sums its trees by calling this once per tree. The row range is
//partitioned into contiguous chunks; each chunk owns its iterators and writes
//to disjoint slots, so no synchronization happens on the hot path.
func (t *DecisionTree) AddPredictionToScore(data *Dataset, score []float64, numThreads int) {
	ParallelFor(0, data.NumData(), numThreads, func(_, start, stop int) {
		iterators := t.chunkIterators(data, start)
		for i := start; i < stop; i++ {
			score[i] += t.leafValue[t.getLeaf(iterators, i)]
		}
	})
}

//AddPredictionToScoreSubset is AddPredictionToScore restricted to an explicit
//subset of row indices; the score buffer stays indexed by the original row
//ids, so runs over disjoint subsets compose.
func (t *DecisionTree) AddPredictionToScoreSubset(data *Dataset, usedIndices []int, score []float64, numThreads int) {
	ParallelFor(0, len(usedIndices), numThreads, func(_, start, stop int) {
		iterators := t.chunkIterators(data, usedIndices[start])
		for i := start; i < stop; i++ {
			row := usedIndices[i]
			score[row] += t.leafValue[t.getLeaf(iterators, row)]
		}
	})
}
