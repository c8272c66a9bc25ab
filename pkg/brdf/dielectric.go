package brdf

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Dielectric is a smooth refractive interface (glass, water). It is
// singular: every sample either reflects or refracts, chosen by Russian
// roulette on the Fresnel term evaluated at the hero wavelength. A
// refracted ray decorrelates the secondary wavelengths because IOR is
// wavelength dependent, so Sample marks TerminateSecondary whenever it
// refracts.
type Dielectric struct {
	IOR spectrum.Spectrum
}

func (d Dielectric) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return spectrum.ZeroVec4
}

func (d Dielectric) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	ior := spectrum.Sample4(d.IOR, lambdas)

	// rel is the relative IOR of the medium being entered along outgoing;
	// flip the frame when the ray arrives from inside the material.
	n := normal
	rel := ior
	if outgoing.Dot(normal) >= 0 {
		n = n.Negate()
		rel = spectrum.Vec4{X: 1.0 / ior.X, Y: 1.0 / ior.Y, Z: 1.0 / ior.Z, W: 1.0 / ior.W}
	}

	reflected := outgoing.Reflect(n)
	cosI := reflected.Dot(n)
	fresnel := spectrum.Vec4{
		X: FresnelReal(cosI, rel.X),
		Y: FresnelReal(cosI, rel.Y),
		Z: FresnelReal(cosI, rel.Z),
		W: FresnelReal(cosI, rel.W),
	}

	if u.Z < fresnel.X {
		return Sample{
			Dir:      reflected,
			PDF:      fresnel.X,
			F:        fresnel.Scale(1.0 / cosI),
			Singular: true,
		}
	}

	refracted, ok := outgoing.Refract(n, 1.0/rel.X)
	if !ok {
		// Beyond the critical angle the Fresnel term is 1, so this branch
		// is unreachable in exact arithmetic; reflect if rounding gets us
		// here anyway.
		return Sample{
			Dir:      reflected,
			PDF:      1.0,
			F:        spectrum.SplatVec4(1.0 / cosI),
			Singular: true,
		}
	}
	cosT := math.Abs(refracted.Dot(n))
	// Radiance compresses by 1/rel^2 crossing the boundary (the BTDF is
	// not symmetric under direction reversal).
	value := (1.0 - fresnel.X) / cosT / (rel.X * rel.X)

	return Sample{
		Dir:                refracted,
		PDF:                1.0 - fresnel.X,
		F:                  spectrum.SplatVec4(value),
		TerminateSecondary: true,
		Singular:           true,
	}
}

func (d Dielectric) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	return 0
}

// ThinDielectric models a zero-thickness glass shell (a soap film or a
// window pane with no interior path): the Fresnel term is corrected for
// the geometric series of internal reflections between the two
// interfaces, and a sample either reflects or passes straight through
// undeviated with no wavelength decorrelation.
type ThinDielectric struct {
	IOR spectrum.Spectrum
}

func (d ThinDielectric) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return spectrum.ZeroVec4
}

func (d ThinDielectric) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	ior := spectrum.Sample4(d.IOR, lambdas)

	n := normal
	if outgoing.Dot(n) > 0 {
		n = n.Negate()
	}

	reflected := outgoing.Reflect(n)
	cosI := reflected.Dot(n)

	// Two-interface correction: R_total = R + T^2*R/(1-R^2), summing the
	// geometric series of bounces inside the shell. Skipped on lanes at
	// total internal reflection where R is already 1.
	fresnel := spectrum.Vec4{
		X: thinFresnel(cosI, ior.X),
		Y: thinFresnel(cosI, ior.Y),
		Z: thinFresnel(cosI, ior.Z),
		W: thinFresnel(cosI, ior.W),
	}

	if u.Z < fresnel.X {
		return Sample{
			Dir:      reflected,
			PDF:      fresnel.X,
			F:        fresnel.Scale(1.0 / cosI),
			Singular: true,
		}
	}

	transmit := spectrum.OneVec4.Sub(fresnel)
	return Sample{
		Dir:      outgoing,
		PDF:      1.0 - fresnel.X,
		F:        transmit.Scale(1.0 / cosI),
		Singular: true,
	}
}

func thinFresnel(cosI, ior float64) float64 {
	r := FresnelReal(cosI, ior)
	if r < 1.0 {
		t := 1.0 - r
		r += t * t * r / (1.0 - r*r)
	}
	return r
}

func (d ThinDielectric) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	return 0
}
