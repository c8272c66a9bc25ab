package spectrum

import (
	"sync"

	"github.com/aetherray/pbr/pkg/random"
)

const wavelengthTableBins = 471 // one bin per nanometer over [360,830)

var (
	wavelengthTableOnce sync.Once
	wavelengthTable     *random.Tabulated1DFunction
)

func wavelengthSamplingTable() *random.Tabulated1DFunction {
	wavelengthTableOnce.Do(func() {
		bins := make([]float64, wavelengthTableBins)
		width := VisibleMax - VisibleMin
		for i := range bins {
			lambda := VisibleMin + width*float64(i)/float64(wavelengthTableBins)
			x := CIEX().Sample(lambda)
			y := CIEY().Sample(lambda)
			z := CIEZ().Sample(lambda)
			bins[i] = absf(x) + absf(y) + absf(z)
		}
		wavelengthTable = random.NewTabulated1DFunction(bins, VisibleMin, VisibleMax)
	})
	return wavelengthTable
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// WavelengthPDF returns the probability density SampleWavelength's hero
// draw uses at lambda — the contract the spec requires to hold for all u.
func WavelengthPDF(lambda float64) float64 {
	return wavelengthSamplingTable().PDF(lambda)
}

// SampleWavelength draws a stratified hero-wavelength quadruple from one
// canonical random number u: one wavelength is sampled via the inverse CDF,
// the other three are offset by k/4 of the visible range (mod range) and
// independently inverted, so all four track the same importance
// distribution while remaining well spread across the spectrum.
func SampleWavelength(u float64) Vec4 {
	table := wavelengthSamplingTable()

	var lambdas [4]float64
	for k := 0; k < 4; k++ {
		uk := u + float64(k)*0.25
		if uk >= 1.0 {
			uk -= 1.0
		}
		lambdas[k] = table.Sample(uk)
	}
	return Vec4{lambdas[0], lambdas[1], lambdas[2], lambdas[3]}
}

// WavelengthPDFVec4 evaluates WavelengthPDF componentwise, used when a
// walk needs the PDF of the full hero vector rather than just lambda0.
func WavelengthPDFVec4(lambdas Vec4) Vec4 {
	return Vec4{
		WavelengthPDF(lambdas.X),
		WavelengthPDF(lambdas.Y),
		WavelengthPDF(lambdas.Z),
		WavelengthPDF(lambdas.W),
	}
}
