// Package film accumulates per-pixel radiance estimates into online
// mean/variance statistics and encodes the result as an OpenEXR image.
package film

import "github.com/aetherray/pbr/pkg/spectrum"

// WelfordAccumulator is Welford's numerically stable online mean/variance
// update applied to one scalar channel of a pixel.
type WelfordAccumulator struct {
	mean  float64
	m2    float64
	count int64
}

// Accumulate folds one more sample into the running mean/variance.
func (w *WelfordAccumulator) Accumulate(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (x - w.mean)
}

// Mean is the accumulator's running arithmetic mean.
func (w *WelfordAccumulator) Mean() float64 { return w.mean }

// Count is the number of samples folded in so far.
func (w *WelfordAccumulator) Count() int64 { return w.count }

// StandardError2 is M2 / (n(n-1)), the squared standard error of the mean;
// zero (rather than NaN/Inf) for fewer than two samples.
func (w *WelfordAccumulator) StandardError2() float64 {
	if w.count < 2 {
		return 0
	}
	n := float64(w.count)
	return w.m2 / (n * (n - 1))
}

// Pixel holds three independent Welford accumulators, one per CIE XYZ
// channel, since each render sample contributes one XYZ triple rather than
// a single scalar.
type Pixel struct {
	X, Y, Z WelfordAccumulator
}

// Splat folds one sample's XYZ contribution into the pixel.
func (p *Pixel) Splat(xyz [3]float64) {
	p.X.Accumulate(xyz[0])
	p.Y.Accumulate(xyz[1])
	p.Z.Accumulate(xyz[2])
}

// Mean returns the pixel's current XYZ estimate.
func (p *Pixel) Mean() [3]float64 {
	return [3]float64{p.X.Mean(), p.Y.Mean(), p.Z.Mean()}
}

// Film is the full-resolution grid of pixel accumulators a render driver
// writes into, one goroutine-owned pixel at a time.
type Film struct {
	Width, Height int
	Pixels        []Pixel
}

// NewFilm allocates a zeroed width*height accumulator grid.
func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, Pixels: make([]Pixel, width*height)}
}

// At returns the accumulator for pixel (x, y); the caller owns it
// exclusively for the duration of its render pass.
func (f *Film) At(x, y int) *Pixel {
	return &f.Pixels[y*f.Width+x]
}

// SplatRadiance converts a hero-wavelength radiance sample to XYZ via the
// per-wavelength color-matching response divided by its sampling PDF (the
// standard spectral-MIS estimator: sum over hero lanes of
// value/pdf, scaled by 1/4 for the four correlated lanes) and folds it into
// pixel (x, y).
func (f *Film) SplatRadiance(x, y int, radiance, lambdas spectrum.Vec4) {
	clamped := radiance.ClampNonNegativeFinite()
	pdfs := spectrum.WavelengthPDFVec4(lambdas)

	values := [4]float64{clamped.X, clamped.Y, clamped.Z, clamped.W}
	lams := [4]float64{lambdas.X, lambdas.Y, lambdas.Z, lambdas.W}
	pdfv := [4]float64{pdfs.X, pdfs.Y, pdfs.Z, pdfs.W}

	var xyz [3]float64
	for i := 0; i < 4; i++ {
		if pdfv[i] <= 0 || values[i] == 0 {
			continue
		}
		weight := values[i] / (pdfv[i] * 4.0)
		cm := spectrum.LambdaToXYZ(lams[i])
		xyz[0] += cm[0] * weight
		xyz[1] += cm[1] * weight
		xyz[2] += cm[2] * weight
	}

	f.At(x, y).Splat(xyz)
}
