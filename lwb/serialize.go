package lwb

import (
	"fmt"
	"strconv"
	"strings"
)

//requiredModelKeys is the key set a tree block must carry; anything less
//aborts the whole load.
var requiredModelKeys = []string{
	"num_leaves", "split_feature", "split_gain", "threshold", "decision_type",
	"left_child", "right_child", "leaf_parent", "leaf_value", "leaf_count",
	"internal_value", "internal_count",
}

//ToString renders the tree in the line oriented key=value model format,
//terminated by a blank line. Field names, their order and the space joined
//array form are a stable interchange contract; internal node arrays carry
//numLeaves-1 elements and leaf arrays numLeaves, lengths are implied by
//num_leaves and never stored. Only the original-space feature ids and
//original-unit thresholds are persisted; the binned ids stay training-only.
func (t *DecisionTree) ToString() string {
	var sb strings.Builder
	numNodes := t.numLeaves - 1
	fmt.Fprintf(&sb, "num_leaves=%d\n", t.numLeaves)
	fmt.Fprintf(&sb, "split_feature=%s\n", intArrayToString(t.splitFeatureReal, numNodes))
	fmt.Fprintf(&sb, "split_gain=%s\n", floatArrayToString(t.splitGain, numNodes))
	fmt.Fprintf(&sb, "threshold=%s\n", floatArrayToString(t.threshold, numNodes))
	fmt.Fprintf(&sb, "decision_type=%s\n", decisionArrayToString(t.decisionType, numNodes))
	fmt.Fprintf(&sb, "left_child=%s\n", intArrayToString(t.leftChild, numNodes))
	fmt.Fprintf(&sb, "right_child=%s\n", intArrayToString(t.rightChild, numNodes))
	fmt.Fprintf(&sb, "leaf_parent=%s\n", intArrayToString(t.leafParent, t.numLeaves))
	fmt.Fprintf(&sb, "leaf_value=%s\n", floatArrayToString(t.leafValue, t.numLeaves))
	fmt.Fprintf(&sb, "leaf_count=%s\n", intArrayToString(t.leafCount, t.numLeaves))
	fmt.Fprintf(&sb, "internal_value=%s\n", floatArrayToString(t.internalValue, numNodes))
	fmt.Fprintf(&sb, "internal_count=%s\n", intArrayToString(t.internalCount, numNodes))
	sb.WriteString("\n")
	return sb.String()
}

//ParseTree rebuilds a tree from its ToString form. The parser is lenient at line
//granularity: anything without a key=value shape, or with an empty key or
//value after trimming, is skipped silently. It is strict at the key-set
//granularity: a missing required key fails the whole load and no tree is
//returned. A parsed tree serves raw-feature inference but cannot resume
//binned training, since the binned fields are not persisted.
func ParseTree(text string) (*DecisionTree, error) {
	keyVals := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if len(key) > 0 && len(val) > 0 {
			keyVals[key] = val
		}
	}
	for _, key := range requiredModelKeys {
		if _, ok := keyVals[key]; !ok {
			return nil, fmt.Errorf("tree model string format error: key %q is missing", key)
		}
	}

	numLeaves, err := strconv.Atoi(keyVals["num_leaves"])
	if err != nil {
		return nil, fmt.Errorf("tree model string format error: bad num_leaves: %w", err)
	}
	if numLeaves < 2 {
		return nil, fmt.Errorf("tree model string format error: num_leaves=%d", numLeaves)
	}

	t := NewDecisionTree(numLeaves)
	t.numLeaves = numLeaves
	numNodes := numLeaves - 1

	if t.splitFeatureReal, err = stringToIntArray(keyVals["split_feature"], numNodes); err != nil {
		return nil, err
	}
	if t.splitGain, err = stringToFloatArray(keyVals["split_gain"], numNodes); err != nil {
		return nil, err
	}
	if t.threshold, err = stringToFloatArray(keyVals["threshold"], numNodes); err != nil {
		return nil, err
	}
	if t.decisionType, err = stringToDecisionArray(keyVals["decision_type"], numNodes); err != nil {
		return nil, err
	}
	if t.leftChild, err = stringToIntArray(keyVals["left_child"], numNodes); err != nil {
		return nil, err
	}
	if t.rightChild, err = stringToIntArray(keyVals["right_child"], numNodes); err != nil {
		return nil, err
	}
	if t.internalValue, err = stringToFloatArray(keyVals["internal_value"], numNodes); err != nil {
		return nil, err
	}
	if t.internalCount, err = stringToIntArray(keyVals["internal_count"], numNodes); err != nil {
		return nil, err
	}
	if t.leafParent, err = stringToIntArray(keyVals["leaf_parent"], numLeaves); err != nil {
		return nil, err
	}
	if t.leafValue, err = stringToFloatArray(keyVals["leaf_value"], numLeaves); err != nil {
		return nil, err
	}
	if t.leafCount, err = stringToIntArray(keyVals["leaf_count"], numLeaves); err != nil {
		return nil, err
	}
	return t, nil
}

func intArrayToString(values []int, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strconv.Itoa(values[i])
	}
	return strings.Join(parts, " ")
}

//floatArrayToString renders floats in their shortest exact form, so a
//serialize-parse round trip reproduces every value bit for bit.
func floatArrayToString(values []float64, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strconv.FormatFloat(values[i], 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func decisionArrayToString(values []DecisionType, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strconv.Itoa(int(values[i]))
	}
	return strings.Join(parts, " ")
}

func stringToIntArray(s string, n int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("tree model string format error: want %d values, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("tree model string format error: %w", err)
		}
		out[i] = v
	}
	return out, nil
}

func stringToFloatArray(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("tree model string format error: want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("tree model string format error: %w", err)
		}
		out[i] = v
	}
	return out, nil
}

func stringToDecisionArray(s string, n int) ([]DecisionType, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("tree model string format error: want %d values, got %d", n, len(fields))
	}
	out := make([]DecisionType, n)
	for i, field := range fields {
		v, err := strconv.ParseInt(field, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("tree model string format error: %w", err)
		}
		out[i] = DecisionType(v)
	}
	return out, nil
}
