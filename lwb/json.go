package lwb

import "encoding/json"

type treeJSON struct {
	NumLeaves     int         `json:"num_leaves"`
	TreeStructure interface{} `json:"tree_structure"`
}

type splitNodeJSON struct {
	SplitIndex    int         `json:"split_index"`
	SplitFeature  int         `json:"split_feature"`
	SplitGain     float64     `json:"split_gain"`
	Threshold     float64     `json:"threshold"`
	DecisionType  string      `json:"decision_type"`
	InternalValue float64     `json:"internal_value"`
	InternalCount int         `json:"internal_count"`
	LeftChild     interface{} `json:"left_child"`
	RightChild    interface{} `json:"right_child"`
}

type leafJSON struct {
	LeafIndex  int     `json:"leaf_index"`
	LeafParent int     `json:"leaf_parent"`
	LeafValue  float64 `json:"leaf_value"`
	LeafCount  int     `json:"leaf_count"`
}

//ToJSON renders the tree as a nested object for visualization and analysis
//tooling; the field names are a public contract. A tree that has never been
//split holds no populated internal node, so its root is emitted as leaf 0
//directly instead of descending from node 0.
func (t *DecisionTree) ToJSON() ([]byte, error) {
	dump := treeJSON{NumLeaves: t.numLeaves}
	if t.numLeaves == 1 {
		dump.TreeStructure = t.leafToJSON(0)
	} else {
		dump.TreeStructure = t.nodeToJSON(0)
	}
	return json.MarshalIndent(dump, "", "  ")
}

//nodeToJSON renders the subtree under one child reference; non-negative
//references are internal nodes, negative ones decode to leaves.
func (t *DecisionTree) nodeToJSON(ref int) interface{} {
	if refIsLeaf(ref) {
		return t.leafToJSON(refLeaf(ref))
	}
	return splitNodeJSON{
		SplitIndex:    ref,
		SplitFeature:  t.splitFeatureReal[ref],
		SplitGain:     t.splitGain[ref],
		Threshold:     t.threshold[ref],
		DecisionType:  decisionTypeName(t.decisionType[ref]),
		InternalValue: t.internalValue[ref],
		InternalCount: t.internalCount[ref],
		LeftChild:     t.nodeToJSON(t.leftChild[ref]),
		RightChild:    t.nodeToJSON(t.rightChild[ref]),
	}
}

func (t *DecisionTree) leafToJSON(leaf int) leafJSON {
	return leafJSON{
		LeafIndex:  leaf,
		LeafParent: t.leafParent[leaf],
		LeafValue:  t.leafValue[leaf],
		LeafCount:  t.leafCount[leaf],
	}
}
