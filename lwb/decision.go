package lwb

//binDecision evaluates a split test over binned feature values: true routes
//the row to the left child. A numerical node keeps values not greater than
//the threshold bin on the left; a categorical node keeps everything on the
//left except the rows whose category equals the threshold.
func binDecision(kind DecisionType, bin, threshold uint32) bool {
	switch kind {
	case CategoricalDecision:
		return bin != threshold
	default:
		return bin <= threshold
	}
}

//rawDecision mirrors binDecision over original feature units. The two
//switches must honor the same discriminant ordering.
func rawDecision(kind DecisionType, value, threshold float64) bool {
	switch kind {
	case CategoricalDecision:
		return value != threshold
	default:
		return value <= threshold
	}
}

//decisionTypeName is the wire name of a decision kind in the JSON export.
func decisionTypeName(kind DecisionType) string {
	if kind == CategoricalDecision {
		return "is"
	}
	return "no_greater"
}
