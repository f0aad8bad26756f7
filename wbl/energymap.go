package wbl

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//ensembleDims validates a samples x nodes x signals coefficient tensor and
//returns its dimensions.
func ensembleDims(coefs *tensor.Dense) (samples, nodes, signals int, err error) {
	shape := coefs.Shape()
	if len(shape) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: ensemble tensor must be samples x nodes x signals, got shape %v", ErrShapeMismatch, shape)
	}
	return shape[0], shape[1], shape[2], nil
}

//EnsembleEnergyTable sums the squared coefficients of every signal of an
//ensemble into one samples x nodes table. This is the joint representation
//the JBB search prunes.
func EnsembleEnergyTable(coefs *tensor.Dense) (*mat.Dense, error) {
	samples, nodes, signals, err := ensembleDims(coefs)
	if err != nil {
		return nil, err
	}
	table := mat.NewDense(samples, nodes, nil)
	for s := 0; s < samples; s++ {
		for node := 0; node < nodes; node++ {
			total := 0.0
			for k := 0; k < signals; k++ {
				element, err := coefs.At(s, node, k)
				if err != nil {
					return nil, err
				}
				c := element.(float64)
				total += c * c
			}
			table.Set(s, node, total)
		}
	}
	return table, nil
}

//TimeFrequencyEnergyMap builds the per-class energy map of an ensemble:
//squared coefficients of each signal normalized by that signal's root
//energy, averaged over the class. The result feeds the discriminant
//measures of the LSDB search.
func TimeFrequencyEnergyMap(coefs *tensor.Dense) (*mat.Dense, error) {
	samples, nodes, signals, err := ensembleDims(coefs)
	if err != nil {
		return nil, err
	}
	energyMap := mat.NewDense(samples, nodes, nil)
	for k := 0; k < signals; k++ {
		norm := 0.0
		for s := 0; s < samples; s++ {
			element, err := coefs.At(s, 0, k)
			if err != nil {
				return nil, err
			}
			c := element.(float64)
			norm += c * c
		}
		if norm == 0 {
			return nil, fmt.Errorf("signal %d of the ensemble has zero energy", k)
		}
		for s := 0; s < samples; s++ {
			for node := 0; node < nodes; node++ {
				element, err := coefs.At(s, node, k)
				if err != nil {
					return nil, err
				}
				c := element.(float64)
				energyMap.Set(s, node, energyMap.At(s, node)+c*c/norm)
			}
		}
	}
	energyMap.Scale(1/float64(signals), energyMap)
	return energyMap, nil
}

//SignalTable extracts the samples x nodes coefficient table of one signal
//from an ensemble tensor.
func SignalTable(coefs *tensor.Dense, signal int) (*mat.Dense, error) {
	samples, nodes, signals, err := ensembleDims(coefs)
	if err != nil {
		return nil, err
	}
	if signal < 0 || signal >= signals {
		return nil, fmt.Errorf("%w: signal %d outside the %d-signal ensemble", ErrShapeMismatch, signal, signals)
	}
	table := mat.NewDense(samples, nodes, nil)
	for s := 0; s < samples; s++ {
		for node := 0; node < nodes; node++ {
			element, err := coefs.At(s, node, signal)
			if err != nil {
				return nil, err
			}
			table.Set(s, node, element.(float64))
		}
	}
	return table, nil
}
