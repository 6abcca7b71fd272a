package lwb

import "log"

//BinType tells how the values of a feature column were discretized by its
//BinMapper.
type BinType int8

const (
	NumericalBin BinType = iota
	CategoricalBin
)

//DecisionType selects the split test an internal node performs.
type DecisionType int8

const (
	NumericalDecision   DecisionType = 0
	CategoricalDecision DecisionType = 1
)

//DecisionTree is a binary decision tree grown one leaf at a time. All node and
//leaf attributes live in parallel arrays indexed by small integer ids, sized
//once at construction; the tree is an arena, not a pointer graph. A child
//reference is a signed integer: a non-negative value is an internal node id,
//a negative value encodes leaf ~ref. Growth is append-only: every Split
//consumes one leaf and appends one internal node and one leaf, so the tree
//always holds numLeaves-1 internal nodes.
type DecisionTree struct {
	maxLeaves int
	numLeaves int

	// internal node arrays, maxLeaves-1 entries
	leftChild        []int
	rightChild       []int
	splitFeature     []int // binned feature space
	splitFeatureReal []int // original feature space
	thresholdInBin   []uint32
	threshold        []float64
	decisionType     []DecisionType
	splitGain        []float64
	internalValue    []float64
	internalCount    []int

	// leaf arrays, maxLeaves entries
	leafParent []int
	leafValue  []float64
	leafCount  []int
	leafDepth  []int
}

//leafRef encodes a leaf id as a negative child reference.
func leafRef(leaf int) int { return ^leaf }

//refIsLeaf reports whether a child reference points at a leaf.
func refIsLeaf(ref int) bool { return ref < 0 }

//refLeaf decodes a negative child reference back into its leaf id.
func refLeaf(ref int) int { return ^ref }

//NewDecisionTree allocates a tree with a fixed leaf capacity. The fresh tree
//holds a single root leaf with id 0 at depth 1 and no parent.
func NewDecisionTree(maxLeaves int) *DecisionTree {
	if maxLeaves < 1 {
		log.Panicf("a tree needs at least one leaf, got maxLeaves=%d", maxLeaves)
	}
	t := &DecisionTree{maxLeaves: maxLeaves}

	t.leftChild = make([]int, maxLeaves-1)
	t.rightChild = make([]int, maxLeaves-1)
	t.splitFeature = make([]int, maxLeaves-1)
	t.splitFeatureReal = make([]int, maxLeaves-1)
	t.thresholdInBin = make([]uint32, maxLeaves-1)
	t.threshold = make([]float64, maxLeaves-1)
	t.decisionType = make([]DecisionType, maxLeaves-1)
	t.splitGain = make([]float64, maxLeaves-1)
	t.internalValue = make([]float64, maxLeaves-1)
	t.internalCount = make([]int, maxLeaves-1)

	t.leafParent = make([]int, maxLeaves)
	t.leafValue = make([]float64, maxLeaves)
	t.leafCount = make([]int, maxLeaves)
	t.leafDepth = make([]int, maxLeaves)

	// the root leaf sits at depth 1
	t.leafDepth[0] = 1
	t.leafParent[0] = -1
	t.numLeaves = 1
	return t
}

//Split converts the given leaf into an internal node and adds one new leaf.
//The new internal node takes the id numLeaves-1 and the new leaf the id
//numLeaves; the split leaf keeps its id and becomes the left branch, the new
//leaf becomes the right one. The value and row count the leaf carried before
//the split stay visible on the new node. Returns the new leaf id.
func (t *DecisionTree) Split(leaf, feature int, binType BinType, thresholdBin uint32, realFeature int,
	threshold, leftValue, rightValue float64, leftCount, rightCount int, gain float64) int {
	if t.numLeaves >= t.maxLeaves {
		log.Panicf("split exceeds the tree capacity of %d leaves", t.maxLeaves)
	}
	if leaf < 0 || leaf >= t.numLeaves {
		log.Panicf("split of a nonexistent leaf %d, the tree has %d leaves", leaf, t.numLeaves)
	}
	newNode := t.numLeaves - 1

	// relink whichever side of the parent referenced the split leaf
	if parent := t.leafParent[leaf]; parent >= 0 {
		if t.leftChild[parent] == leafRef(leaf) {
			t.leftChild[parent] = newNode
		} else {
			t.rightChild[parent] = newNode
		}
	}

	t.splitFeature[newNode] = feature
	t.splitFeatureReal[newNode] = realFeature
	t.thresholdInBin[newNode] = thresholdBin
	t.threshold[newNode] = threshold
	if binType == CategoricalBin {
		t.decisionType[newNode] = CategoricalDecision
	} else {
		t.decisionType[newNode] = NumericalDecision
	}
	t.splitGain[newNode] = gain

	newLeaf := t.numLeaves
	t.leftChild[newNode] = leafRef(leaf)
	t.rightChild[newNode] = leafRef(newLeaf)
	t.leafParent[leaf] = newNode
	t.leafParent[newLeaf] = newNode

	t.internalValue[newNode] = t.leafValue[leaf]
	t.internalCount[newNode] = leftCount + rightCount
	t.leafValue[leaf] = leftValue
	t.leafCount[leaf] = leftCount
	t.leafValue[newLeaf] = rightValue
	t.leafCount[newLeaf] = rightCount

	// the split leaf moves one level down together with its new sibling
	t.leafDepth[newLeaf] = t.leafDepth[leaf] + 1
	t.leafDepth[leaf]++

	t.numLeaves++
	return newLeaf
}

//getLeaf routes one row through the tree over pre-binned feature values and
//returns the id of the leaf it lands in. A tree that has never been split
//routes every row to leaf 0.
func (t *DecisionTree) getLeaf(iterators []BinIterator, row int) int {
	if t.numLeaves == 1 {
		return 0
	}
	node := 0
	for node >= 0 {
		if binDecision(t.decisionType[node], iterators[t.splitFeature[node]].Get(row), t.thresholdInBin[node]) {
			node = t.leftChild[node]
		} else {
			node = t.rightChild[node]
		}
	}
	return refLeaf(node)
}

//PredictRow routes one row of original feature values and returns the value of
//the leaf it lands in. This is the inference path of a deserialized tree: it
//uses only the real feature ids and original-unit thresholds, the fields that
//survive a text round trip.
func (t *DecisionTree) PredictRow(features []float64) float64 {
	if t.numLeaves == 1 {
		return t.leafValue[0]
	}
	node := 0
	for node >= 0 {
		if rawDecision(t.decisionType[node], features[t.splitFeatureReal[node]], t.threshold[node]) {
			node = t.leftChild[node]
		} else {
			node = t.rightChild[node]
		}
	}
	return t.leafValue[refLeaf(node)]
}

//NumLeaves returns the current number of leaves.
func (t *DecisionTree) NumLeaves() int { return t.numLeaves }

//MaxLeaves returns the leaf capacity fixed at construction.
func (t *DecisionTree) MaxLeaves() int { return t.maxLeaves }

//LeafValue returns the prediction contribution of one leaf.
func (t *DecisionTree) LeafValue(leaf int) float64 { return t.leafValue[leaf] }

//LeafCount returns the number of training rows routed to one leaf.
func (t *DecisionTree) LeafCount(leaf int) int { return t.leafCount[leaf] }

//LeafDepth returns the depth of one leaf; the root leaf starts at depth 1.
func (t *DecisionTree) LeafDepth(leaf int) int { return t.leafDepth[leaf] }

//LeafParent returns the internal node owning one leaf, -1 for the root leaf.
func (t *DecisionTree) LeafParent(leaf int) int { return t.leafParent[leaf] }

//SplitFeatureReal returns the original-space feature id of one internal node.
func (t *DecisionTree) SplitFeatureReal(node int) int { return t.splitFeatureReal[node] }

//SplitGain returns the training-time quality metric of one split.
func (t *DecisionTree) SplitGain(node int) float64 { return t.splitGain[node] }

//Threshold returns the original-unit split threshold of one internal node.
func (t *DecisionTree) Threshold(node int) float64 { return t.threshold[node] }

//DecisionKind returns the decision discriminant of one internal node.
func (t *DecisionTree) DecisionKind(node int) DecisionType { return t.decisionType[node] }

//Children returns the signed child references of one internal node.
func (t *DecisionTree) Children(node int) (left, right int) {
	return t.leftChild[node], t.rightChild[node]
}
