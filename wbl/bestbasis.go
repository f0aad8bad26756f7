package wbl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//InferTree builds the full-decomposition tree implied by the number of node
//columns of a coefficient table: binary when the count matches 2^(L+1)-1,
//quaternary when it matches (4^(L+1)-1)/3.
func InferTree(numNodes int) (*BasisTree, error) {
	for _, arity := range []int{2, 4} {
		for depth := 0; NumNodes(arity, depth) <= numNodes; depth++ {
			if NumNodes(arity, depth) == numNodes {
				return NewFullTree(arity, depth)
			}
		}
	}
	return nil, fmt.Errorf("%w: %d columns fit no complete binary or quaternary tree", ErrShapeMismatch, numNodes)
}

//computedNodes marks which nodes carry coefficients: the root always does,
//any other node only when its parent was expanded in the computed tree.
func (tree *BasisTree) computedNodes() []bool {
	present := make([]bool, len(tree.Flags))
	present[0] = true
	for i, expanded := range tree.Flags {
		if !expanded {
			continue
		}
		for k := 0; k < tree.Arity; k++ {
			present[tree.Child(i, k)] = true
		}
	}
	return present
}

//CostMap applies the cost functional to every computed node of the table
//and returns one scalar per node index. Column i of the table holds the
//coefficients of node i in its first nodeLength rows. Nodes absent from the
//computed tree get NaN: they have no cost, not a zero cost.
func CostMap(table *mat.Dense, computed *BasisTree, cf CostFunction) ([]float64, error) {
	h, w := table.Dims()
	if w != len(computed.Flags) {
		return nil, fmt.Errorf("%w: table has %d node columns, tree has %d nodes", ErrShapeMismatch, w, len(computed.Flags))
	}
	if err := computed.CheckSignalLength(h); err != nil {
		return nil, err
	}
	if err := computed.Validate(); err != nil {
		return nil, err
	}

	present := computed.computedNodes()
	costs := make([]float64, w)
	column := make([]float64, h)
	for node := 0; node < w; node++ {
		if !present[node] {
			costs[node] = math.NaN()
			continue
		}
		length, err := computed.NodeLength(h, computed.LevelOf(node))
		if err != nil {
			return nil, err
		}
		mat.Col(column, node, table)
		costs[node] = cf.Cost(column[:length])
	}
	return costs, nil
}

//basisSelection is the bottom-up pruning dynamic program shared by every
//search variant. It walks the internal nodes deepest-first and decides per
//node whether to keep it as a leaf or expand it, comparing its own value
//against the summed resolved values of its children. Ties keep the parent,
//which favors the coarsest tree among equal-valued bases. A node whose
//children were never computed is forced to remain a leaf. With maximize set
//the comparison inverts, which turns cost minimization into discriminant
//maximization.
func basisSelection(values []float64, computed *BasisTree, maximize bool) (*BasisTree, error) {
	if len(values) != len(computed.Flags) {
		return nil, fmt.Errorf("%w: %d values for %d nodes", ErrShapeMismatch, len(values), len(computed.Flags))
	}
	if err := computed.Validate(); err != nil {
		return nil, err
	}

	best := computed.Clone()
	resolved := make([]float64, len(values))
	copy(resolved, values)

	for level := computed.Depth - 1; level >= 0; level-- {
		for node := computed.LevelOffset(level); node < computed.LevelOffset(level+1); node++ {
			if !computed.Flags[node] {
				best.Flags[node] = false
				continue
			}
			childSum := 0.0
			for k := 0; k < computed.Arity; k++ {
				childSum += resolved[computed.Child(node, k)]
			}
			keepChildren := values[node] > childSum
			if maximize {
				keepChildren = childSum > values[node]
			}
			if keepChildren {
				best.Flags[node] = true
				resolved[node] = childSum
			} else {
				best.Flags[node] = false
			}
		}
	}

	best.pruneBelowLeaves()
	return best, nil
}

//BestBasis selects the minimum-cost basis for one signal. The table holds
//one node per column; computed marks which nodes were actually decomposed
//and may be nil, in which case a full tree is inferred from the table
//width. The returned tree is a fresh prefix-closed BasisTree.
func BestBasis(table *mat.Dense, computed *BasisTree, cf CostFunction) (*BasisTree, error) {
	if computed == nil {
		_, w := table.Dims()
		inferred, err := InferTree(w)
		if err != nil {
			return nil, err
		}
		computed = inferred
	}
	costs, err := CostMap(table, computed, cf)
	if err != nil {
		return nil, err
	}
	return basisSelection(costs, computed, false)
}
