package wbl

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//JointBestBasis selects one tree for a whole ensemble by running the
//min-cost pruning over the ensemble-summed energy table instead of a
//per-signal coefficient set. computed may be nil for a full tree.
func JointBestBasis(coefs *tensor.Dense, computed *BasisTree, cf CostFunction) (*BasisTree, error) {
	table, err := EnsembleEnergyTable(coefs)
	if err != nil {
		return nil, err
	}
	return BestBasis(table, computed, cf)
}

//LeastStatisticallyDependentBasis selects one tree separating the classes
//whose energy maps are given: per-node discriminant values replace costs
//and the pruning comparison inverts, keeping children only when their
//combined measure exceeds the parent's. computed may be nil for a full
//tree inferred from the energy-map width.
func LeastStatisticallyDependentBasis(energyMaps []*mat.Dense, computed *BasisTree, dm DiscriminantMeasure) (*BasisTree, error) {
	values, err := DiscriminantValues(energyMaps, dm)
	if err != nil {
		return nil, err
	}
	if computed == nil {
		inferred, err := InferTree(len(values))
		if err != nil {
			return nil, err
		}
		computed = inferred
	}
	h, _ := energyMaps[0].Dims()
	if err := computed.CheckSignalLength(h); err != nil {
		return nil, err
	}
	return basisSelection(values, computed, true)
}

//BestBasisForEach runs an independent single-signal search for every signal
//of an ensemble, optionally across a pool of workers. Every search owns its
//own table and tree buffer, so the signal axis parallelizes freely.
func BestBasisForEach(coefs *tensor.Dense, computed *BasisTree, cf CostFunction, threadsNum int) ([]*BasisTree, error) {
	_, _, signals, err := ensembleDims(coefs)
	if err != nil {
		return nil, err
	}

	trees := make([]*BasisTree, signals)
	errs := make([]error, signals)
	searchOne := func(k int) (*BasisTree, error) {
		table, err := SignalTable(coefs, k)
		if err != nil {
			return nil, err
		}
		return BestBasis(table, computed, cf)
	}

	if threadsNum <= 1 {
		for k := 0; k < signals; k++ {
			trees[k], errs[k] = searchOne(k)
		}
	} else {
		taskPool := NewPool(threadsNum)
		for k := 0; k < signals; k++ {
			taskPool.AddTask(&TaskBestBasis{trees, errs, k, searchOne})
		}
		taskPool.Close()
		taskPool.WaitAll()
	}

	for k, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", k, err)
		}
	}
	return trees, nil
}
