package wbl

import (
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

//ShiftInvariantWPD holds the wavelet packet coefficients of every circular
//shift of one signal as a shifts x nodes x samples tensor, together with
//the mutable best tree and the winning shift per node. The search mutates
//BestTree and BestShifts in place instead of reallocating the shift-node
//table; the caller must not alias the object or run two searches on it
//concurrently.
type ShiftInvariantWPD struct {
	Coefs        *tensor.Dense
	Computed     *BasisTree
	BestTree     *BasisTree
	BestShifts   []int
	SignalLength int
}

//NewShiftInvariantWPD wraps a shifts x nodes x samples coefficient tensor.
//computed marks the nodes actually decomposed and may be nil for a full
//tree inferred from the node axis.
func NewShiftInvariantWPD(coefs *tensor.Dense, computed *BasisTree) (*ShiftInvariantWPD, error) {
	shape := coefs.Shape()
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: shift-invariant tensor must be shifts x nodes x samples, got shape %v", ErrShapeMismatch, shape)
	}
	shifts, nodes, samples := shape[0], shape[1], shape[2]
	if shifts < 1 {
		return nil, fmt.Errorf("%w: need at least one shift", ErrShapeMismatch)
	}
	if computed == nil {
		inferred, err := InferTree(nodes)
		if err != nil {
			return nil, err
		}
		computed = inferred
	}
	if nodes != len(computed.Flags) {
		return nil, fmt.Errorf("%w: tensor has %d node slices, tree has %d nodes", ErrShapeMismatch, nodes, len(computed.Flags))
	}
	if err := computed.CheckSignalLength(samples); err != nil {
		return nil, err
	}
	if err := computed.Validate(); err != nil {
		return nil, err
	}

	return &ShiftInvariantWPD{
		Coefs:        coefs,
		Computed:     computed,
		BestTree:     computed.Clone(),
		BestShifts:   make([]int, nodes),
		SignalLength: samples,
	}, nil
}

//readNode copies the first length coefficients of one node at one shift
//into dst.
func (sw *ShiftInvariantWPD) readNode(shift, node, length int, dst []float64) error {
	for s := 0; s < length; s++ {
		element, err := sw.Coefs.At(shift, node, s)
		if err != nil {
			return err
		}
		dst[s] = element.(float64)
	}
	return nil
}

//BestBasis prunes both across decomposition depth and across the shift
//index: per node it first selects the shift minimizing the cost, then runs
//the usual bottom-up comparison of that minimum against the resolved child
//minima. BestTree and BestShifts are updated destructively.
func (sw *ShiftInvariantWPD) BestBasis(cf CostFunction) error {
	shifts := sw.Coefs.Shape()[0]
	present := sw.Computed.computedNodes()
	values := make([]float64, len(sw.Computed.Flags))
	buffer := make([]float64, sw.SignalLength)

	for node := range values {
		if !present[node] {
			values[node] = math.NaN()
			sw.BestShifts[node] = 0
			continue
		}
		length, err := sw.Computed.NodeLength(sw.SignalLength, sw.Computed.LevelOf(node))
		if err != nil {
			return err
		}
		bestCost := math.Inf(1)
		bestShift := 0
		for shift := 0; shift < shifts; shift++ {
			if err := sw.readNode(shift, node, length, buffer); err != nil {
				return err
			}
			cost := cf.Cost(buffer[:length])
			if cost < bestCost {
				bestCost = cost
				bestShift = shift
			}
		}
		values[node] = bestCost
		sw.BestShifts[node] = bestShift
	}

	selected, err := basisSelection(values, sw.Computed, false)
	if err != nil {
		return err
	}
	copy(sw.BestTree.Flags, selected.Flags)
	return nil
}

//LeafCoefficients reads the coefficients of one leaf of the finalized best
//tree at its winning shift. Reconstruction consumes these.
func (sw *ShiftInvariantWPD) LeafCoefficients(node int) ([]float64, error) {
	if !sw.BestTree.IsLeaf(node) {
		return nil, fmt.Errorf("%w: node %d is not a leaf of the best tree", ErrInvalidTree, node)
	}
	length, err := sw.BestTree.NodeLength(sw.SignalLength, sw.BestTree.LevelOf(node))
	if err != nil {
		return nil, err
	}
	coefs := make([]float64, length)
	if err := sw.readNode(sw.BestShifts[node], node, length, coefs); err != nil {
		return nil, err
	}
	return coefs, nil
}
