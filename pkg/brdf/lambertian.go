package brdf

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Lambertian is a perfectly diffuse reflector: f = albedo/π on the same
// side of the surface as outgoing, 0 otherwise.
type Lambertian struct {
	Albedo spectrum.Spectrum
}

func (l Lambertian) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	// Same-side means incoming exits on the side the ray arrived from:
	// outgoing points into the surface, incoming away, so their normal
	// components must have opposite signs.
	if incoming.Dot(normal)*outgoing.Dot(normal) >= 0 {
		return spectrum.ZeroVec4
	}
	return spectrum.Sample4(l.Albedo, lambdas).Scale(1.0 / math.Pi)
}

func (l Lambertian) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	incoming := cosineHemisphereSample(outgoing, normal, u)
	return Sample{
		Dir: incoming,
		PDF: l.PDF(incoming, outgoing, normal, lambdas.X),
		F:   l.F(incoming, outgoing, normal, lambdas),
	}
}

func (l Lambertian) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	_ = outgoing
	_ = lambda
	cos := incoming.Dot(normal)
	if cos <= 0 {
		return 0
	}
	return cos / math.Pi
}
