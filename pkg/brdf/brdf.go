// Package brdf implements the directional reflectance models the path
// integrator samples at surface hits: Lambertian, Phong-like, conductor
// (smooth and rough/Trowbridge-Reitz), dielectric and thin dielectric, and
// weighted composites of any two.
package brdf

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/random"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Sample is the result of importance-sampling a BRDF: a direction, the PDF
// of that direction under the sampling distribution, the reflectance value
// there, and two flags the path integrator needs to maintain hero-
// wavelength and MIS bookkeeping.
type Sample struct {
	Dir                core.Vec3
	PDF                float64
	F                  spectrum.Vec4
	TerminateSecondary bool
	Singular           bool
}

// Brdf is implemented by every reflectance model. The directions run
// backwards, opposite the direction light travels: incoming points away
// from the surface (towards the light) and outgoing points towards it
// (the camera-path ray direction), a convention shared by every method
// below and by the phase functions.
type Brdf interface {
	F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4
	Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample
	PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64
}

// cosineHemisphereSample is the default importance sampler used by
// Lambertian: a cosine-weighted distribution over the hemisphere around
// normal, oriented so the disk's plane is spanned by (normal x outgoing)
// and its perpendicular.
func cosineHemisphereSample(outgoing, normal core.Vec3, u core.Vec3) core.Vec3 {
	d := random.Disk(core.NewVec2(u.X, u.Y))
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	tangent := normal.Cross(outgoing).Normalize()
	bitangent := normal.Cross(tangent)
	return tangent.Multiply(d.X).Add(bitangent.Multiply(d.Y)).Add(normal.Multiply(z))
}

// FresnelReal evaluates unpolarized Fresnel reflectance at a real
// (dielectric) relative index of refraction, returning 1 (total internal
// reflection) when sin²θ_t ≥ 1.
func FresnelReal(cosI, relIOR float64) float64 {
	sin2I := 1.0 - cosI*cosI
	sin2T := sin2I / (relIOR * relIOR)
	if sin2T >= 1.0 {
		return 1.0
	}
	cosT := math.Sqrt(1.0 - sin2T)
	rPar := (relIOR*cosI - cosT) / (relIOR*cosI + cosT)
	rPerp := (cosI - relIOR*cosT) / (cosI + relIOR*cosT)
	return (rPar*rPar + rPerp*rPerp) / 2.0
}

// FresnelComplex evaluates unpolarized Fresnel reflectance at a complex
// relative index of refraction (conductors); there is no total internal
// reflection branch since the complex square root is always defined.
func FresnelComplex(cosI float64, relIOR complex128) float64 {
	sin2I := 1.0 - cosI*cosI
	sin2T := complex(sin2I, 0) / (relIOR * relIOR)
	cosT := complexSqrt(complex(1, 0) - sin2T)

	rPar := (relIOR*complex(cosI, 0) - cosT) / (relIOR*complex(cosI, 0) + cosT)
	rPerp := (complex(cosI, 0) - relIOR*cosT) / (complex(cosI, 0) + relIOR*cosT)
	return (cmplxNormSqr(rPar) + cmplxNormSqr(rPerp)) / 2.0
}

func complexSqrt(z complex128) complex128 {
	r := cmplxAbs(z)
	re := math.Sqrt((r + real(z)) / 2)
	im := math.Sqrt(math.Max(0, (r-real(z))/2))
	if imag(z) < 0 {
		im = -im
	}
	return complex(re, im)
}

func cmplxAbs(z complex128) float64 {
	return math.Hypot(real(z), imag(z))
}

func cmplxNormSqr(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
