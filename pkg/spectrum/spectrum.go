// Package spectrum implements wavelength-indexed radiometric quantities: the
// Spectrum function family, the hero-wavelength four-vector carried through
// the path integrator, CIE/sRGB reconstruction, and wavelength importance
// sampling.
package spectrum

import "math"

// VisibleMin and VisibleMax bound the domain of interest, λ ∈ [360, 830) nm.
const (
	VisibleMin = 360.0
	VisibleMax = 830.0
)

// Spectrum is a black-box function of wavelength (nm) to a non-negative
// radiometric scalar.
type Spectrum interface {
	Sample(lambda float64) float64
}

// Sample4 evaluates s at each of the four hero-wavelength components. Most
// Spectrum implementations get this default, componentwise behavior; a few
// (piecewise-linear tables with cached bracket lookups) may want a faster
// override, but none in this package need one at the sizes involved.
func Sample4(s Spectrum, lambdas Vec4) Vec4 {
	return Vec4{
		X: s.Sample(lambdas.X),
		Y: s.Sample(lambdas.Y),
		Z: s.Sample(lambdas.Z),
		W: s.Sample(lambdas.W),
	}
}

// Constant is a Spectrum with the same value at every wavelength.
type Constant float64

func (c Constant) Sample(lambda float64) float64 { return float64(c) }

// Zero and One are the constant 0 and 1 spectra, used as default
// albedos/emissions and in tests.
const (
	Zero = Constant(0.0)
	One  = Constant(1.0)
)

// Amplified scales an underlying spectrum by a fixed factor, used e.g. to
// convert an irradiance spectrum into a radiance spectrum for a light of
// known solid angle.
type Amplified struct {
	Factor float64
	Inner  Spectrum
}

func (a Amplified) Sample(lambda float64) float64 {
	return a.Factor * a.Inner.Sample(lambda)
}

// PiecewiseLinear interpolates between sorted (wavelength, value) samples
// and returns 0 outside the table's range.
type PiecewiseLinear struct {
	lambda []float64
	value  []float64
}

// NewPiecewiseLinear builds a table from unsorted (lambda, value) pairs,
// sorting by wavelength as the original CSV loader does.
func NewPiecewiseLinear(points [][2]float64) *PiecewiseLinear {
	pts := append([][2]float64(nil), points...)
	insertionSortByLambda(pts)
	lambda := make([]float64, len(pts))
	value := make([]float64, len(pts))
	for i, p := range pts {
		lambda[i] = p[0]
		value[i] = p[1]
	}
	return &PiecewiseLinear{lambda: lambda, value: value}
}

func insertionSortByLambda(pts [][2]float64) {
	for i := 1; i < len(pts); i++ {
		j := i
		for j > 0 && pts[j-1][0] > pts[j][0] {
			pts[j-1], pts[j] = pts[j], pts[j-1]
			j--
		}
	}
}

func (p *PiecewiseLinear) Sample(lambda float64) float64 {
	n := len(p.lambda)
	if n == 0 || lambda < p.lambda[0] || lambda > p.lambda[n-1] {
		return 0
	}
	// Binary search for the first entry with lambda <= query.
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.lambda[mid] <= lambda {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == n-1 {
		return p.value[n-1]
	}
	lowL, highL := p.lambda[lo], p.lambda[lo+1]
	lowV, highV := p.value[lo], p.value[lo+1]
	if highL == lowL {
		return lowV
	}
	t := (lambda - lowL) / (highL - lowL)
	return lowV + t*(highV-lowV)
}

// Blackbody evaluates Planck's law for a given temperature in Kelvin,
// normalized so its peak value is 1 (a shape spectrum, not an absolute
// radiance — callers scale it as needed).
type Blackbody struct {
	TemperatureKelvin float64
}

const (
	planckC = 299792458.0
	planckH = 6.62607015e-34
	planckK = 1.380649e-23
)

func (b Blackbody) Sample(lambdaNm float64) float64 {
	lambda := lambdaNm * 1e-9
	numerator := 2 * planckH * planckC * planckC
	denominator := math.Pow(lambda, 5) * (math.Exp(planckH*planckC/(lambda*planckK*b.TemperatureKelvin)) - 1)
	radiance := numerator / denominator

	peak := wienPeak(b.TemperatureKelvin)
	peakNum := 2 * planckH * planckC * planckC
	peakDen := math.Pow(peak, 5) * (math.Exp(planckH*planckC/(peak*planckK*b.TemperatureKelvin)) - 1)
	peakRadiance := peakNum / peakDen

	return radiance / peakRadiance
}

func wienPeak(temperatureKelvin float64) float64 {
	const wienB = 2.8977719e-3
	return wienB / temperatureKelvin
}
