package spectrum

import (
	_ "embed"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

//go:embed data/cie_xyz_1931_2deg.csv
var cieXYZCSV string

//go:embed data/cie_d65.csv
var cieD65CSV string

var (
	cieOnce    sync.Once
	cieX       *PiecewiseLinear
	cieY       *PiecewiseLinear
	cieZ       *PiecewiseLinear
	d65Spectra *PiecewiseLinear
)

func initCIE() {
	cieOnce.Do(func() {
		xyz := mustParseCSVMulti(cieXYZCSV, 3)
		cieX, cieY, cieZ = xyz[0], xyz[1], xyz[2]

		d65Tables := mustParseCSVMulti(cieD65CSV, 1)
		d65Spectra = d65Tables[0]

		// Normalize D65 so integral(Y * D65) / range equals absolute
		// luminance, matching the original's cie_d65() normalization.
		yIntegral := IntegrateProduct(d65Spectra, cieY)
		yIntegral /= (VisibleMax - VisibleMin)
		for i := range d65Spectra.value {
			d65Spectra.value[i] /= yIntegral
		}
	})
}

// CIEX, CIEY, CIEZ are the CIE 1931 2-degree standard observer color
// matching functions.
func CIEX() Spectrum { initCIE(); return cieX }
func CIEY() Spectrum { initCIE(); return cieY }
func CIEZ() Spectrum { initCIE(); return cieZ }

// CIED65 is the D65 standard illuminant, normalized so its photometric
// luminance integrates to a fixed value (see initCIE).
func CIED65() Spectrum { initCIE(); return d65Spectra }

// IntegrateProduct numerically integrates a*b over the visible range using
// a fixed-resolution midpoint rule, matching the original implementation's
// 1000-sample integrate_product.
func IntegrateProduct(a, b Spectrum) float64 {
	const n = 1000
	result := 0.0
	width := VisibleMax - VisibleMin
	for i := 0; i < n; i++ {
		lambda := VisibleMin + width*float64(i)/float64(n)
		result += a.Sample(lambda) * b.Sample(lambda) * width
	}
	return result / n
}

// SpectrumToXYZ projects a spectrum onto the CIE tristimulus matching
// functions, normalized by the integral of the Y matching function so the
// constant spectrum 1 has Y = 1 (the scale XYZToSRGB works on).
func SpectrumToXYZ(s Spectrum) [3]float64 {
	yWhite := IntegrateProduct(One, CIEY())
	return [3]float64{
		IntegrateProduct(s, CIEX()) / yWhite,
		IntegrateProduct(s, CIEY()) / yWhite,
		IntegrateProduct(s, CIEZ()) / yWhite,
	}
}

// LambdaToXYZ evaluates the matching functions directly at one wavelength
// (used by the hero-wavelength film splat, which already has a Monte Carlo
// wavelength sample rather than a full spectrum to integrate).
func LambdaToXYZ(lambda float64) [3]float64 {
	return [3]float64{CIEX().Sample(lambda), CIEY().Sample(lambda), CIEZ().Sample(lambda)}
}

// srgbToXYZRows holds the fixed D65-primaries sRGB->XYZ matrix (transpose of
// the constant used by xyzToSRGB below).
var srgbToXYZRows = [3][3]float64{
	{0.4124, 0.3576, 0.1805},
	{0.2126, 0.7152, 0.0722},
	{0.0193, 0.1192, 0.9505},
}

var (
	xyzToSRGBOnce sync.Once
	xyzToSRGBMat  *mat.Dense
)

func xyzToSRGBMatrix() *mat.Dense {
	xyzToSRGBOnce.Do(func() {
		forward := mat.NewDense(3, 3, []float64{
			srgbToXYZRows[0][0], srgbToXYZRows[0][1], srgbToXYZRows[0][2],
			srgbToXYZRows[1][0], srgbToXYZRows[1][1], srgbToXYZRows[1][2],
			srgbToXYZRows[2][0], srgbToXYZRows[2][1], srgbToXYZRows[2][2],
		})
		var inverse mat.Dense
		if err := inverse.Inverse(forward); err != nil {
			panic(err)
		}
		xyzToSRGBMat = &inverse
	})
	return xyzToSRGBMat
}

// XYZToSRGB converts CIE XYZ to gamma-encoded sRGB, clamping the linear
// intermediate to [0,1] before applying the piecewise gamma curve.
func XYZToSRGB(xyz [3]float64) [3]float64 {
	m := xyzToSRGBMatrix()
	in := mat.NewVecDense(3, xyz[:])
	var out mat.VecDense
	out.MulVec(m, in)

	linear := [3]float64{
		clamp01(out.AtVec(0)),
		clamp01(out.AtVec(1)),
		clamp01(out.AtVec(2)),
	}
	var srgb [3]float64
	for i, v := range linear {
		if v < 0.0031308 {
			srgb[i] = v * 12.92
		} else {
			srgb[i] = 1.055*math.Pow(v, 1.0/2.4) - 0.055
		}
	}
	return srgb
}

// SRGBToXYZ is the inverse of XYZToSRGB's gamma + matrix pipeline.
func SRGBToXYZ(srgb [3]float64) [3]float64 {
	var linear [3]float64
	for i, v := range srgb {
		if v < 0.04045 {
			linear[i] = v / 12.92
		} else {
			linear[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
	m := mat.NewDense(3, 3, []float64{
		srgbToXYZRows[0][0], srgbToXYZRows[0][1], srgbToXYZRows[0][2],
		srgbToXYZRows[1][0], srgbToXYZRows[1][1], srgbToXYZRows[1][2],
		srgbToXYZRows[2][0], srgbToXYZRows[2][1], srgbToXYZRows[2][2],
	})
	in := mat.NewVecDense(3, linear[:])
	var out mat.VecDense
	out.MulVec(m, in)
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
