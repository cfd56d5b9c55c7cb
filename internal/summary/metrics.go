// internal/summary/metrics.go
// Package: summary
package summary

import (
	"math"
	"math/big"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// sqrtPrec is the working precision of the standard deviation's square root.
const sqrtPrec = 256

// Describe returns the mean and sample (N-1) standard deviation of values.
//
// Both are computed exactly on the rational values of the inputs and rounded
// once to the nearest float64, so 0.1, 0.2 and 0.3 have a mean of exactly 0.2.
func Describe(values []float64) (Stats, error) {
	if len(values) < 2 {
		return Stats{Count: len(values)}, ErrTooFewSamples
	}
	if slices.ContainsFunc(values, func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }) {
		mean, std := stat.MeanStdDev(values, nil)
		return Stats{Count: len(values), Mean: mean, StdDev: std}, nil
	}

	xs := make([]*big.Rat, len(values))
	sum := new(big.Rat)
	for i, v := range values {
		xs[i] = new(big.Rat).SetFloat64(v)
		sum.Add(sum, xs[i])
	}
	mean := new(big.Rat).Quo(sum, new(big.Rat).SetInt64(int64(len(values))))

	ss := new(big.Rat)
	for _, x := range xs {
		d := new(big.Rat).Sub(x, mean)
		ss.Add(ss, d.Mul(d, d))
	}
	variance := ss.Quo(ss, new(big.Rat).SetInt64(int64(len(values)-1)))

	sd := new(big.Float).SetPrec(sqrtPrec).SetRat(variance)
	sd.Sqrt(sd)

	m, _ := mean.Float64()
	s, _ := sd.Float64()
	return Stats{Count: len(values), Mean: m, StdDev: s}, nil
}

// quantile returns the q-quantile (0..1) of values, interpolating linearly
// between order statistics. values is not modified.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	cp := slices.Clone(values)
	slices.Sort(cp)
	switch {
	case q <= 0:
		return cp[0]
	case q >= 1 || len(cp) == 1:
		return cp[len(cp)-1]
	}
	return stat.Quantile(q, stat.LinInterp, cp, nil)
}

// Quantile returns the q-quantile of the finished durations in microseconds.
func (t Timing) Quantile(q float64) float64 {
	return quantile(t.Durations, q)
}
