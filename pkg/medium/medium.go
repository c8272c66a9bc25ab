// Package medium implements the participating-media model: per-point
// absorption/scattering/emission coefficients, a majorant bound used by
// the null-collision (delta-tracking) sampler in the path integrator, and
// phase-function dispatch for the homogeneous test medium, the two
// atmospheric presets, and their Combined superposition.
package medium

import (
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/phase"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Properties bundles the spectral coefficients the integrator reads at a
// point: absorption, scattering and emission ≥ 0 componentwise, and
// absorption + scattering ≤ the medium's Majorant.
type Properties struct {
	Absorption spectrum.Vec4
	Scattering spectrum.Vec4
	Emission   spectrum.Vec4
}

// Medium is implemented by every participating-media model.
type Medium interface {
	Majorant(lambdas spectrum.Vec4) float64
	Properties(pos, outgoing core.Vec3, lambdas spectrum.Vec4) Properties
	Phase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4
	SamplePhase(pos, outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3
	PDFPhase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64
	Participating() bool
}

// Attenuation is the sum of absorption and scattering, the quantity a
// majorant must bound.
func Attenuation(p Properties) spectrum.Vec4 {
	return p.Absorption.Add(p.Scattering)
}

// SingleScatteringAlbedo is scattering / attenuation, used by spectral
// rescaling in the integrator when re-weighting a scattering event.
func SingleScatteringAlbedo(p Properties) spectrum.Vec4 {
	return p.Scattering.Div(Attenuation(p))
}

// NullScattering is the fictitious-collision coefficient majorant −
// attenuation that delta tracking adds to make the total extinction
// spatially constant.
func NullScattering(majorant float64, p Properties) spectrum.Vec4 {
	return spectrum.SplatVec4(majorant).Sub(Attenuation(p))
}

// Vacuum has zero coefficients everywhere and opts out of medium
// tracking entirely via Participating.
type Vacuum struct{}

func (Vacuum) Majorant(spectrum.Vec4) float64 { return 0 }
func (Vacuum) Properties(core.Vec3, core.Vec3, spectrum.Vec4) Properties {
	return Properties{}
}
func (Vacuum) Phase(core.Vec3, core.Vec3, core.Vec3, spectrum.Vec4) spectrum.Vec4 {
	return spectrum.ZeroVec4
}
func (Vacuum) SamplePhase(_, outgoing core.Vec3, _ spectrum.Vec4, _ core.Vec3) core.Vec3 {
	return outgoing
}
func (Vacuum) PDFPhase(core.Vec3, core.Vec3, core.Vec3, spectrum.Vec4) float64 { return 0 }
func (Vacuum) Participating() bool                                            { return false }

// TestHomogeneous is a constant-coefficient medium whose coefficients
// fall off by (1−|pos|), giving a soft-edged test sphere of extinction
// rather than a hard boundary.
type TestHomogeneous struct {
	Absorption spectrum.Spectrum
	Scattering spectrum.Spectrum
	Emission   spectrum.Spectrum
	PhaseFn    phase.Phase
}

func (m TestHomogeneous) falloff(pos core.Vec3) float64 {
	r := pos.Length()
	f := 1.0 - r
	if f < 0 {
		return 0
	}
	return f
}

func (m TestHomogeneous) Majorant(lambdas spectrum.Vec4) float64 {
	a := spectrum.Sample4(m.Absorption, lambdas)
	s := spectrum.Sample4(m.Scattering, lambdas)
	return a.Add(s).MaxComponent()
}

func (m TestHomogeneous) Properties(pos, outgoing core.Vec3, lambdas spectrum.Vec4) Properties {
	f := m.falloff(pos)
	return Properties{
		Absorption: spectrum.Sample4(m.Absorption, lambdas).Scale(f),
		Scattering: spectrum.Sample4(m.Scattering, lambdas).Scale(f),
		Emission:   spectrum.Sample4(m.Emission, lambdas).Scale(f),
	}
}

func (m TestHomogeneous) Phase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return m.PhaseFn.F(incoming, outgoing, lambdas)
}

func (m TestHomogeneous) SamplePhase(pos, outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	return m.PhaseFn.Sample(outgoing, lambdas, u)
}

func (m TestHomogeneous) PDFPhase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	return m.PhaseFn.PDF(incoming, outgoing, lambdas)
}

func (m TestHomogeneous) Participating() bool { return true }

// Homogeneous is a medium with constant coefficients everywhere, no
// positional falloff — a closed-form absorbing/scattering fog, grounded
// in the original implementation's SimpleUniformMedium. Where
// TestHomogeneous exists to exercise the integrator with a soft-edged
// falloff sphere, Homogeneous is what a scene author reaches for to get
// an exact, analytically checkable medium (e.g. a constant-σ_a sphere
// whose shadow-ray transmittance is exp(−σ_a·path length)).
type Homogeneous struct {
	Absorption spectrum.Spectrum
	Scattering spectrum.Spectrum
	Emission   spectrum.Spectrum
	PhaseFn    phase.Phase
}

func (m Homogeneous) Majorant(lambdas spectrum.Vec4) float64 {
	a := spectrum.Sample4(m.Absorption, lambdas)
	s := spectrum.Sample4(m.Scattering, lambdas)
	return a.Add(s).MaxComponent()
}

func (m Homogeneous) Properties(pos, outgoing core.Vec3, lambdas spectrum.Vec4) Properties {
	return Properties{
		Absorption: spectrum.Sample4(m.Absorption, lambdas),
		Scattering: spectrum.Sample4(m.Scattering, lambdas),
		Emission:   spectrum.Sample4(m.Emission, lambdas),
	}
}

func (m Homogeneous) Phase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return m.PhaseFn.F(incoming, outgoing, lambdas)
}

func (m Homogeneous) SamplePhase(pos, outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	return m.PhaseFn.Sample(outgoing, lambdas, u)
}

func (m Homogeneous) PDFPhase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	return m.PhaseFn.PDF(incoming, outgoing, lambdas)
}

func (m Homogeneous) Participating() bool { return true }

// Combined superposes two media: coefficients add, and the phase function
// is the scattering-weighted average of the two, with sampling choosing
// a branch by relative scattering magnitude at the hero wavelength.
type Combined struct {
	A, B Medium
}

func (c Combined) Majorant(lambdas spectrum.Vec4) float64 {
	return c.A.Majorant(lambdas) + c.B.Majorant(lambdas)
}

func (c Combined) Properties(pos, outgoing core.Vec3, lambdas spectrum.Vec4) Properties {
	pa := c.A.Properties(pos, outgoing, lambdas)
	pb := c.B.Properties(pos, outgoing, lambdas)
	return Properties{
		Absorption: pa.Absorption.Add(pb.Absorption),
		Scattering: pa.Scattering.Add(pb.Scattering),
		Emission:   pa.Emission.Add(pb.Emission),
	}
}

func (c Combined) weights(pos, outgoing core.Vec3, lambdas spectrum.Vec4) (float64, float64) {
	sa := c.A.Properties(pos, outgoing, lambdas).Scattering.X
	sb := c.B.Properties(pos, outgoing, lambdas).Scattering.X
	total := sa + sb
	if total <= 0 {
		return 0.5, 0.5
	}
	return sa / total, sb / total
}

func (c Combined) Phase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	wa, wb := c.weights(pos, outgoing, lambdas)
	fa := c.A.Phase(pos, incoming, outgoing, lambdas)
	fb := c.B.Phase(pos, incoming, outgoing, lambdas)
	return fa.Scale(wa).Add(fb.Scale(wb))
}

func (c Combined) SamplePhase(pos, outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	wa, _ := c.weights(pos, outgoing, lambdas)
	if u.Z < wa {
		return c.A.SamplePhase(pos, outgoing, lambdas, u)
	}
	return c.B.SamplePhase(pos, outgoing, lambdas, u)
}

func (c Combined) PDFPhase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	wa, wb := c.weights(pos, outgoing, lambdas)
	return wa*c.A.PDFPhase(pos, incoming, outgoing, lambdas) + wb*c.B.PDFPhase(pos, incoming, outgoing, lambdas)
}

func (c Combined) Participating() bool {
	return c.A.Participating() || c.B.Participating()
}
