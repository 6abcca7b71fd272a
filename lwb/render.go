package lwb

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//nodeDescription returns the label of an internal node for graph rendering.
func (t *DecisionTree) nodeDescription(node int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("node:", node))
	sb.WriteString(fmt.Sprintln("count:", t.internalCount[node]))
	sb.WriteString(fmt.Sprintln("gain:", t.splitGain[node]))
	if t.decisionType[node] == CategoricalDecision {
		sb.WriteString(fmt.Sprintf("f_%d is %g", t.splitFeatureReal[node], t.threshold[node]))
	} else {
		sb.WriteString(fmt.Sprintf("f_%d <= %6.5f", t.splitFeatureReal[node], t.threshold[node]))
	}
	return sb.String()
}

//leafDescription returns the label of a leaf for graph rendering.
func (t *DecisionTree) leafDescription(leaf int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("leaf:", leaf))
	sb.WriteString(fmt.Sprintf("value: %6.5f\n", t.leafValue[leaf]))
	sb.WriteString(fmt.Sprintln("count:", t.leafCount[leaf]))
	return sb.String()
}

func (t *DecisionTree) recurrentDraw(g *cgraph.Graph, ref int, parentNode *cgraph.Node) {
	var name string
	if refIsLeaf(ref) {
		name = fmt.Sprint("leaf_", refLeaf(ref))
	} else {
		name = fmt.Sprint("node_", ref)
	}
	currentNode, err := g.CreateNode(name)
	HandleError(err)

	if parentNode != nil {
		g.CreateEdge("", parentNode, currentNode)
	}

	if refIsLeaf(ref) {
		currentNode.Set("label", t.leafDescription(refLeaf(ref)))
		currentNode.Set("shape", "box")
	} else {
		currentNode.Set("label", t.nodeDescription(ref))
		t.recurrentDraw(g, t.leftChild[ref], currentNode)
		t.recurrentDraw(g, t.rightChild[ref], currentNode)
	}
}

//DrawGraph renders the tree as a graphviz graph. An unsplit tree draws as a
//single leaf box.
func (t *DecisionTree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	HandleError(err)

	if t.numLeaves == 1 {
		t.recurrentDraw(graph, leafRef(0), nil)
	} else {
		t.recurrentDraw(graph, 0, nil)
	}

	return graphViz, graph
}

//RenderTrees writes one figure per tree of the model into picturesDirectory.
func (ensemble *Ensemble) RenderTrees(dumpPrefix, figureType, picturesDirectory string) {
	graphvizType := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]

	for graphInd, currentTree := range ensemble.Trees {
		filename := fmt.Sprintf("%s_%05d.%s", dumpPrefix, graphInd, figureType)
		graphViz, graph := currentTree.DrawGraph()
		HandleError(graphViz.RenderFilename(graph, graphvizType, path.Join(picturesDirectory, filename)))
	}
}
