package random

import "sort"

// Tabulated1DFunction is a piecewise-constant function on [minX, maxX)
// together with its invertible cumulative distribution, used to importance
// sample a 1D density (here, the wavelength-sampling distribution) from a
// canonical random number.
type Tabulated1DFunction struct {
	data     []float64
	cdf      []float64
	minX     float64
	maxX     float64
	cdfTotal float64
}

// NewTabulated1DFunction builds the cumulative table from bin magnitudes.
// Negative values are treated as their absolute value, matching a density
// built from a signed color-matching sum.
func NewTabulated1DFunction(data []float64, minX, maxX float64) *Tabulated1DFunction {
	cdf := make([]float64, len(data)+1)
	for i, v := range data {
		if v < 0 {
			v = -v
		}
		cdf[i+1] = cdf[i] + v/float64(len(data))
	}
	return &Tabulated1DFunction{
		data:     data,
		cdf:      cdf,
		minX:     minX,
		maxX:     maxX,
		cdfTotal: cdf[len(cdf)-1],
	}
}

// F evaluates the (unnormalized) bin value at x, 0 outside [minX, maxX).
func (t *Tabulated1DFunction) F(x float64) float64 {
	if x < t.minX || x >= t.maxX {
		return 0
	}
	u := (x - t.minX) / (t.maxX - t.minX)
	i := int(u * float64(len(t.data)))
	if i >= len(t.data) {
		i = len(t.data) - 1
	}
	return t.data[i]
}

// PDF returns the normalized density at x: F(x)/cdfTotal/(maxX-minX).
func (t *Tabulated1DFunction) PDF(x float64) float64 {
	f := t.F(x)
	if f < 0 {
		f = -f
	}
	return f / t.cdfTotal / (t.maxX - t.minX)
}

// Sample inverts the CDF via binary search plus linear interpolation inside
// the bracketing bin, so PDF(Sample(u)) matches the density used here for
// all u in [0,1).
func (t *Tabulated1DFunction) Sample(u float64) float64 {
	target := u * t.cdfTotal
	i := sort.SearchFloat64s(t.cdf, target)

	var x float64
	n := float64(len(t.data))
	switch {
	case i < len(t.cdf) && t.cdf[i] == target:
		x = float64(i) / n
	default:
		yLow := t.cdf[i-1]
		yHigh := t.cdf[i]
		frac := (target - yLow) / (yHigh - yLow)
		x = (float64(i-1) + frac) / n
	}

	return x*(t.maxX-t.minX) + t.minX
}
