package wbl

import (
	"fmt"
	"math"
)

//CostFunction maps the coefficients of one node to a scalar information
//cost. Costs are additive over a disjoint leaf partition, which is what
//makes the bottom-up pruning optimal.
type CostFunction interface {
	Cost(coefs []float64) float64
}

//ShannonEntropyCost is -sum p*log(p) over the normalized squared
//coefficient energies, with 0*log(0) taken as zero.
type ShannonEntropyCost struct{}

func (ShannonEntropyCost) Cost(coefs []float64) float64 {
	total := 0.0
	for _, c := range coefs {
		total += c * c
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range coefs {
		p := c * c / total
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

//LogEnergyEntropyCost is sum log(x*x), with log(0) taken as zero to keep
//zero coefficients from driving the sum to -Inf.
type LogEnergyEntropyCost struct{}

func (LogEnergyEntropyCost) Cost(coefs []float64) float64 {
	entropy := 0.0
	for _, c := range coefs {
		if e := c * c; e > 0 {
			entropy += math.Log(e)
		}
	}
	return entropy
}

//NewCostFunction selects a cost functional by name.
func NewCostFunction(name string) (CostFunction, error) {
	switch name {
	case "shannon":
		return ShannonEntropyCost{}, nil
	case "logenergy":
		return LogEnergyEntropyCost{}, nil
	}
	return nil, fmt.Errorf("%w: cost %q, valid choices are 'shannon' and 'logenergy'", ErrUnknownVariant, name)
}
