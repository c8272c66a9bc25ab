// Package phase implements the directional scattering kernels a medium
// samples at a volume-scattering event: isotropic, Rayleigh, and the
// Draine/Cornette-Shanks family used for atmospheric aerosols.
package phase

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/random"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Phase is implemented by every scattering kernel. Directions follow the
// BRDF convention, running backwards along light travel: outgoing is the
// camera-path ray direction arriving at the scattering event and incoming
// points from the event towards where the light came from.
type Phase interface {
	F(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4
	Sample(outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3
	PDF(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64
}

// uniformSphereSample and uniformSpherePDF are the default sample/pdf pair
// most kernels below share; only Draine overrides both.
func uniformSphereSample(u core.Vec3) core.Vec3 {
	return random.Sphere(core.NewVec2(u.X, u.Y))
}

const uniformSpherePDF = 1.0 / (4.0 * math.Pi)

// Isotropic scatters uniformly in every direction.
type Isotropic struct{}

func (Isotropic) F(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return spectrum.SplatVec4(uniformSpherePDF)
}

func (Isotropic) Sample(outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	return uniformSphereSample(u)
}

func (Isotropic) PDF(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	return uniformSpherePDF
}

// Rayleigh models scattering off particles much smaller than the
// wavelength (air molecules). It is sampled uniformly on the sphere; the
// mismatch between that sampling distribution and the true f is corrected
// by the integrator multiplying throughput by F/PDF at each scattering
// event, not by importance-sampling the lobe exactly.
type Rayleigh struct{}

func (Rayleigh) F(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	cos := incoming.Dot(outgoing)
	v := 3.0 / (16.0 * math.Pi) * (1.0 + cos*cos)
	return spectrum.SplatVec4(v)
}

func (Rayleigh) Sample(outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	return uniformSphereSample(u)
}

func (Rayleigh) PDF(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	return uniformSpherePDF
}

// Draine is the Jendersie & d'Eon (2022) closed-form approximation to Mie
// scattering, parametrized by asymmetry g and shape Alpha; Alpha = 1
// reduces it to the classical Cornette-Shanks phase function.
type Draine struct {
	Alpha float64
	G     float64
}

func (d Draine) F(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return spectrum.SplatVec4(d.PDF(incoming, outgoing, lambdas))
}

func (d Draine) Sample(outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	alpha, g := d.Alpha, d.G
	g2 := g * g
	g4 := g2 * g2
	t0 := alpha - alpha*g2
	t1 := alpha*g4 - alpha
	t2 := -3.0 * (4.0*(g4-g2) + t1*(1.0+g2))
	t3 := g * (2.0*u.X - 1.0)
	t4 := 3.0*g2*(1.0+t3) + alpha*(2.0+g2*(1.0+(1.0+2.0*g2)*t3))
	t5 := t0*(t1*t2+t4*t4) + t1*t1*t1
	t6 := t0 * 4.0 * (g4 - g2)
	t7 := math.Cbrt(t5 + math.Sqrt(t5*t5-t6*t6*t6))
	t8 := 2.0 * (t1 + t6/t7 + t7) / t0
	t9 := math.Sqrt(6.0*(1.0+g2) + t8)
	t10 := math.Sqrt(6.0*(1.0+g2)-t8+8.0*t4/(t0*t9)) - t9
	cosTheta := g/2.0 + 1.0/(2.0*g) - 1.0/(8.0*g)*t10*t10

	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	sinPhi, cosPhi := math.Sincos(u.Y * 2.0 * math.Pi)
	tangent, bitangent := random.AnyOrthonormalPair(outgoing)

	return outgoing.Multiply(cosTheta).Add(tangent.Multiply(sinTheta * sinPhi)).Add(bitangent.Multiply(sinTheta * cosPhi))
}

func (d Draine) PDF(incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	alpha, g := d.Alpha, d.G
	cos := incoming.Dot(outgoing)
	numerator := (1.0 - g*g) * (1.0 + alpha*cos*cos)
	t0 := math.Sqrt(1.0 + g*g - 2.0*g*cos)
	denominator := 4.0 * math.Pi * t0 * t0 * t0 * (1.0 + alpha*(1.0+2.0*g*g)/3.0)
	return numerator / denominator
}
