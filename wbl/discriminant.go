package wbl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//DiscriminantMeasure is a statistical divergence between two class energy
//distributions over the same node. Larger values mean better separation.
type DiscriminantMeasure interface {
	Measure(p, q []float64) float64
}

//AsymmetricRelativeEntropy is the Kullback-Leibler divergence
//sum p*log(p/q). A zero p term contributes nothing; a zero q under a
//positive p yields +Inf.
type AsymmetricRelativeEntropy struct{}

func (AsymmetricRelativeEntropy) Measure(p, q []float64) float64 {
	total := 0.0
	for i := range p {
		switch {
		case p[i] == 0:
		case q[i] == 0:
			return math.Inf(1)
		default:
			total += p[i] * math.Log(p[i]/q[i])
		}
	}
	return total
}

//SymmetricRelativeEntropy is the symmetrized Kullback-Leibler divergence.
type SymmetricRelativeEntropy struct{}

func (SymmetricRelativeEntropy) Measure(p, q []float64) float64 {
	asym := AsymmetricRelativeEntropy{}
	return asym.Measure(p, q) + asym.Measure(q, p)
}

//LpEntropy is sum |p-q|^P. P defaults to 2 when left zero.
type LpEntropy struct {
	P float64
}

func (lp LpEntropy) Measure(p, q []float64) float64 {
	exponent := lp.P
	if exponent == 0 {
		exponent = 2
	}
	total := 0.0
	for i := range p {
		total += math.Pow(math.Abs(p[i]-q[i]), exponent)
	}
	return total
}

//HellingerDistance is sum (sqrt(p)-sqrt(q))^2.
type HellingerDistance struct{}

func (HellingerDistance) Measure(p, q []float64) float64 {
	total := 0.0
	for i := range p {
		d := math.Sqrt(p[i]) - math.Sqrt(q[i])
		total += d * d
	}
	return total
}

//NewDiscriminantMeasure selects a discriminant measure by name.
func NewDiscriminantMeasure(name string) (DiscriminantMeasure, error) {
	switch name {
	case "kl":
		return AsymmetricRelativeEntropy{}, nil
	case "symkl":
		return SymmetricRelativeEntropy{}, nil
	case "lp":
		return LpEntropy{}, nil
	case "hellinger":
		return HellingerDistance{}, nil
	}
	return nil, fmt.Errorf("%w: measure %q, valid choices are 'kl', 'symkl', 'lp' and 'hellinger'",
		ErrUnknownVariant, name)
}

//DiscriminantValues applies a measure columnwise across the class energy
//maps and sums it over all unordered class pairs, producing one
//discriminant value per node. Every map must be samples x nodes with
//identical dimensions.
func DiscriminantValues(energyMaps []*mat.Dense, dm DiscriminantMeasure) ([]float64, error) {
	if len(energyMaps) < 2 {
		return nil, fmt.Errorf("%w: discriminant needs at least 2 classes, got %d", ErrShapeMismatch, len(energyMaps))
	}
	h, w := energyMaps[0].Dims()
	for _, em := range energyMaps[1:] {
		emH, emW := em.Dims()
		if emH != h || emW != w {
			return nil, fmt.Errorf("%w: energy map %dx%d against %dx%d", ErrShapeMismatch, emH, emW, h, w)
		}
	}

	values := make([]float64, w)
	p := make([]float64, h)
	q := make([]float64, h)
	for node := 0; node < w; node++ {
		for a := 0; a < len(energyMaps); a++ {
			for b := a + 1; b < len(energyMaps); b++ {
				mat.Col(p, node, energyMaps[a])
				mat.Col(q, node, energyMaps[b])
				values[node] += dm.Measure(p, q)
			}
		}
	}
	return values, nil
}
