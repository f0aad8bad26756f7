package wbl

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//GraphDescription returns the label of one node for tree rendering as a
//graph. costs and shifts are optional annotations.
func (tree *BasisTree) GraphDescription(node int, costs []float64, shifts []int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("node: ", node))
	sb.WriteString(fmt.Sprintln("level: ", tree.LevelOf(node)))
	if costs != nil {
		sb.WriteString(fmt.Sprintf("cost: %6.5f\n", costs[node]))
	}
	if shifts != nil {
		sb.WriteString(fmt.Sprintln("shift: ", shifts[node]))
	}
	return sb.String()
}

func recurrentDraw(g *cgraph.Graph, tree *BasisTree, node int, costs []float64, shifts []int, parentNode *cgraph.Node) {
	currentNode, err := g.CreateNode(fmt.Sprint(node))
	HandleError(err)

	if parentNode != nil {
		_, err = g.CreateEdge("", parentNode, currentNode)
		HandleError(err)
	}

	currentNode.Set("label", tree.GraphDescription(node, costs, shifts))
	if tree.Flags[node] {
		for k := 0; k < tree.Arity; k++ {
			recurrentDraw(g, tree, tree.Child(node, k), costs, shifts, currentNode)
		}
	} else {
		currentNode.Set("shape", "box")
	}
}

//DrawGraph renders the selected basis as a graphviz graph, expanded nodes
//as ellipses and retained leaves as boxes.
func (tree *BasisTree) DrawGraph(costs []float64, shifts []int) (*graphviz.Graphviz, *cgraph.Graph) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	HandleError(err)

	recurrentDraw(graph, tree, 0, costs, shifts, nil)

	return graphViz, graph
}

//RenderTree draws the tree into a picture file of the given type.
func (tree *BasisTree) RenderTree(filename, figureType string, costs []float64, shifts []int) error {
	graphvizType, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]
	if !ok {
		return fmt.Errorf("%w: figure type %q, valid choices are 'png', 'svg' and 'jpg'", ErrUnknownVariant, figureType)
	}

	graphViz, graph := tree.DrawGraph(costs, shifts)
	return graphViz.RenderFilename(graph, graphvizType, filename)
}
