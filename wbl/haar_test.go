package wbl

//Test-only Haar wavelet packet helpers. The transform layer proper lives
//outside this library; these routines exist so the search properties can be
//checked against real coefficients.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//haarSplit computes the approximation and detail halves of one node.
func haarSplit(x []float64) (lo, hi []float64) {
	half := len(x) / 2
	lo = make([]float64, half)
	hi = make([]float64, half)
	for i := 0; i < half; i++ {
		lo[i] = (x[2*i] + x[2*i+1]) / math.Sqrt2
		hi[i] = (x[2*i] - x[2*i+1]) / math.Sqrt2
	}
	return
}

//haarMerge inverts haarSplit.
func haarMerge(lo, hi []float64) []float64 {
	x := make([]float64, 2*len(lo))
	for i := range lo {
		x[2*i] = (lo[i] + hi[i]) / math.Sqrt2
		x[2*i+1] = (lo[i] - hi[i]) / math.Sqrt2
	}
	return x
}

//haarWPD fills a samples x nodes table with the full Haar wavelet packet
//decomposition of x down to the given depth. Column i holds node i in its
//first len(x)>>level entries.
func haarWPD(x []float64, depth int) *mat.Dense {
	n := len(x)
	tree, err := NewFullTree(2, depth)
	if err != nil {
		panic(err)
	}
	table := mat.NewDense(n, NumNodes(2, depth), nil)
	for i, v := range x {
		table.Set(i, 0, v)
	}
	for node := 0; node < tree.LevelOffset(depth); node++ {
		length := n >> tree.LevelOf(node)
		coefs := make([]float64, length)
		for i := 0; i < length; i++ {
			coefs[i] = table.At(i, node)
		}
		lo, hi := haarSplit(coefs)
		for i := range lo {
			table.Set(i, tree.Left(node), lo[i])
			table.Set(i, tree.Right(node), hi[i])
		}
	}
	return table
}

//haarReconstruct rebuilds the signal from the leaf coefficients of a basis.
func haarReconstruct(table *mat.Dense, tree *BasisTree, node int) []float64 {
	n, _ := table.Dims()
	if !tree.Flags[node] {
		length := n >> tree.LevelOf(node)
		coefs := make([]float64, length)
		for i := 0; i < length; i++ {
			coefs[i] = table.At(i, node)
		}
		return coefs
	}
	lo := haarReconstruct(table, tree, tree.Left(node))
	hi := haarReconstruct(table, tree, tree.Right(node))
	return haarMerge(lo, hi)
}

//circShift rotates x left by the given amount.
func circShift(x []float64, shift int) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := range x {
		out[i] = x[(i+shift)%n]
	}
	return out
}

//basisCost sums the cost functional over the leaves of a basis.
func basisCost(table *mat.Dense, tree *BasisTree, cf CostFunction) float64 {
	n, _ := table.Dims()
	total := 0.0
	for _, leaf := range tree.Leaves() {
		length := n >> tree.LevelOf(leaf)
		coefs := make([]float64, length)
		for i := 0; i < length; i++ {
			coefs[i] = table.At(i, leaf)
		}
		total += cf.Cost(coefs)
	}
	return total
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func sameFlags(a, b *BasisTree) bool {
	if len(a.Flags) != len(b.Flags) {
		return false
	}
	for i := range a.Flags {
		if a.Flags[i] != b.Flags[i] {
			return false
		}
	}
	return true
}
